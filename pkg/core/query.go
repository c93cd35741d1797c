package core

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the presentation order of a query.
type SortKey string

const (
	SortNewest SortKey = "newest"
	SortOldest SortKey = "oldest"
	SortTitle  SortKey = "title"
)

// ParseSortKey converts user input into a SortKey. Empty input means SortNewest.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return SortNewest, nil
	case SortNewest, SortOldest, SortTitle:
		return k, nil
	default:
		return "", fmt.Errorf("unknown sort key %q (want newest, oldest or title)", s)
	}
}

// Filter narrows a query.
type Filter struct {
	// Term is matched case-insensitively against title, content and tags.
	// Blank means no filtering.
	Term string
	// TagPattern is a glob (e.g. "work/**") at least one tag must match.
	// Empty means no tag restriction.
	TagPattern string
}

// Query returns the notes passing f, ordered by key.
// The input slice is never modified; ties keep input order.
func Query(notes []Note, f Filter, key SortKey) []Note {
	out := make([]Note, 0, len(notes))
	term := strings.ToLower(strings.TrimSpace(f.Term))
	for _, n := range notes {
		if term != "" && !matchesTerm(n, term) {
			continue
		}
		if f.TagPattern != "" && !matchesTagPattern(n, f.TagPattern) {
			continue
		}
		out = append(out, n.Clone())
	}
	Sort(out, key)
	return out
}

// Search is Query with only a search term, keeping input order.
func Search(notes []Note, term string) []Note {
	out := make([]Note, 0, len(notes))
	t := strings.ToLower(strings.TrimSpace(term))
	for _, n := range notes {
		if t == "" || matchesTerm(n, t) {
			out = append(out, n.Clone())
		}
	}
	return out
}

// Sort orders notes in place. Unknown keys leave the order untouched.
func Sort(notes []Note, key SortKey) {
	switch key {
	case SortNewest:
		slices.SortStableFunc(notes, func(a, b Note) int {
			return b.UpdatedAt.Compare(a.UpdatedAt)
		})
	case SortOldest:
		slices.SortStableFunc(notes, func(a, b Note) int {
			return a.UpdatedAt.Compare(b.UpdatedAt)
		})
	case SortTitle:
		// Collators keep internal buffers and are not safe for concurrent use.
		c := collate.New(language.Und)
		slices.SortStableFunc(notes, func(a, b Note) int {
			return c.CompareString(a.Title, b.Title)
		})
	}
}

func matchesTerm(n Note, lowerTerm string) bool {
	if strings.Contains(strings.ToLower(n.Title), lowerTerm) ||
		strings.Contains(strings.ToLower(n.Content), lowerTerm) {
		return true
	}
	for _, tag := range n.Tags {
		if strings.Contains(strings.ToLower(tag), lowerTerm) {
			return true
		}
	}
	return false
}

func matchesTagPattern(n Note, pattern string) bool {
	for _, tag := range n.Tags {
		ok, err := doublestar.Match(pattern, tag)
		if err != nil {
			// Bad pattern: fall back to a literal comparison.
			if tag == pattern {
				return true
			}
			continue
		}
		if ok {
			return true
		}
	}
	return false
}

// Stats summarizes a collection.
type Stats struct {
	Notes     int `json:"notes" yaml:"notes"`
	Summaries int `json:"summaries" yaml:"summaries"`
	Words     int `json:"words" yaml:"words"`
	Tags      int `json:"tags" yaml:"tags"`
}

// ComputeStats counts notes, notes with a summary, content words and distinct tags.
func ComputeStats(notes []Note) Stats {
	var st Stats
	tags := make(map[string]struct{})
	for _, n := range notes {
		st.Notes++
		if n.HasSummary() {
			st.Summaries++
		}
		st.Words += WordCount(n.Content)
		for _, t := range n.Tags {
			tags[strings.ToLower(t)] = struct{}{}
		}
	}
	st.Tags = len(tags)
	return st
}
