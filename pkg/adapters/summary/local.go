package summary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/ainotes/pkg/core"
)

// Local produces a summary offline from simple text statistics.
// It stands in for the remote endpoint when none is configured.
type Local struct {
	// Delay simulates network latency. Cancelling ctx cuts it short.
	Delay time.Duration
}

// Summarize implements core.Summarizer.
func (l Local) Summarize(ctx context.Context, text string) core.SummaryResult {
	if l.Delay > 0 {
		t := time.NewTimer(l.Delay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return core.SummaryErr(ctx.Err())
		}
	}
	return core.SummaryOK(fmt.Sprintf(
		"This note contains %d words and %d sentences. It appears to discuss key concepts and ideas in a structured format.",
		core.WordCount(text), sentenceCount(text)))
}

// ComponentType implements introspection.Component.
func (Local) ComponentType() string {
	return "summary/local"
}

func sentenceCount(s string) int {
	n := 0
	for _, chunk := range strings.FieldsFunc(s, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		if strings.TrimSpace(chunk) != "" {
			n++
		}
	}
	return n
}

var _ core.Summarizer = Local{}
