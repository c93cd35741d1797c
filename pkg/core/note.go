package core

import (
	"slices"
	"strings"
	"time"
)

// Note is the central entity of the domain.
// It represents a titled piece of text identified by an ID, optionally
// tagged and optionally summarized.
type Note struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Content   string    `json:"content" yaml:"content"`
	Summary   string    `json:"summary,omitempty" yaml:"summary,omitempty"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
	Tags      []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// HasSummary reports whether a summary has been attached to the note.
func (n Note) HasSummary() bool {
	return n.Summary != ""
}

// Clone returns a deep copy of the note so callers cannot alias store state.
func (n Note) Clone() Note {
	n.Tags = slices.Clone(n.Tags)
	return n
}

// Draft carries the user-provided fields of a note that does not exist yet.
type Draft struct {
	Title   string   `json:"title" validate:"required"`
	Content string   `json:"content" validate:"required"`
	Tags    []string `json:"tags,omitempty" validate:"omitempty,dive,required"`
}

// Normalize trims title and content and cleans the tag list.
func (d Draft) Normalize() Draft {
	return Draft{
		Title:   strings.TrimSpace(d.Title),
		Content: strings.TrimSpace(d.Content),
		Tags:    CleanTags(d.Tags),
	}
}

// Patch describes a partial update. Nil fields are left untouched.
type Patch struct {
	Title   *string   `json:"title,omitempty"`
	Content *string   `json:"content,omitempty"`
	Summary *string   `json:"summary,omitempty"`
	Tags    *[]string `json:"tags,omitempty"`
}

// IsEmpty reports whether the patch would change nothing but updatedAt.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.Summary == nil && p.Tags == nil
}

// apply merges the patch into n and returns the result. n is not modified.
func (p Patch) apply(n Note) Note {
	out := n.Clone()
	if p.Title != nil {
		out.Title = strings.TrimSpace(*p.Title)
	}
	if p.Content != nil {
		out.Content = strings.TrimSpace(*p.Content)
	}
	if p.Summary != nil {
		out.Summary = *p.Summary
	}
	if p.Tags != nil {
		out.Tags = CleanTags(*p.Tags)
	}
	return out
}

// ParseTags splits a comma separated tag list as typed by a user.
// Entries are trimmed and empty ones are dropped; order is preserved.
func ParseTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return CleanTags(strings.Split(raw, ","))
}

// CleanTags trims every tag and drops empty entries.
// It returns nil when nothing is left so the field is omitted on disk.
func CleanTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}

// WordCount counts whitespace separated words in s.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// String helps build a Patch from literals.
func String(s string) *string {
	return &s
}

// Strings helps build a Patch tag list from literals.
func Strings(s ...string) *[]string {
	return &s
}
