package summary

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aretw0/ainotes/pkg/core"
)

// DefaultFallbackText is stored when a summary cannot be generated and the
// caller asked for the always-resolving behaviour.
const DefaultFallbackText = "Error generating summary."

// Fallback turns every failure of Next into a successful result carrying Text.
// A nil Next always yields Text.
type Fallback struct {
	Next   core.Summarizer
	Text   string
	Logger *slog.Logger
}

// Summarize implements core.Summarizer.
func (f Fallback) Summarize(ctx context.Context, text string) core.SummaryResult {
	res := core.SummaryErr(errors.New("no summarizer configured"))
	if f.Next != nil {
		res = f.Next.Summarize(ctx, text)
	}
	if res.OK() && res.Text != "" {
		return res
	}
	if f.Logger != nil {
		f.Logger.Warn("summary failed, using fallback text", "error", res.Err)
	}
	if f.Text == "" {
		return core.SummaryOK(DefaultFallbackText)
	}
	return core.SummaryOK(f.Text)
}

// ComponentType implements introspection.Component.
func (f Fallback) ComponentType() string {
	if c, ok := f.Next.(interface{ ComponentType() string }); ok {
		return c.ComponentType() + "+fallback"
	}
	return "summary/fallback"
}

var _ core.Summarizer = Fallback{}
