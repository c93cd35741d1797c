package core_test

import (
	"testing"
	"time"

	"github.com/aretw0/ainotes/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour int) time.Time {
	return time.Date(2024, 5, 1, hour, 0, 0, 0, time.UTC)
}

func ids(notes []core.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.ID
	}
	return out
}

func sampleNotes() []core.Note {
	return []core.Note{
		{ID: "groceries", Title: "Groceries", Content: "milk, eggs", CreatedAt: at(9), UpdatedAt: at(9), Tags: []string{"home/shopping"}},
		{ID: "budget", Title: "Budget", Content: "rent 1200", CreatedAt: at(10), UpdatedAt: at(10), Tags: []string{"work/finance"}},
		{ID: "eclair", Title: "éclair recipe", Content: "choux pastry", CreatedAt: at(8), UpdatedAt: at(11), Summary: "Pastry."},
	}
}

func TestQuery_Sort(t *testing.T) {
	notes := sampleNotes()

	t.Run("Newest", func(t *testing.T) {
		got := core.Query(notes, core.Filter{}, core.SortNewest)
		assert.Equal(t, []string{"eclair", "budget", "groceries"}, ids(got))
	})

	t.Run("Oldest", func(t *testing.T) {
		got := core.Query(notes, core.Filter{}, core.SortOldest)
		assert.Equal(t, []string{"groceries", "budget", "eclair"}, ids(got))
	})

	t.Run("Title Uses Locale Collation", func(t *testing.T) {
		got := core.Query(notes, core.Filter{}, core.SortTitle)
		// A plain byte comparison would put "éclair" last.
		assert.Equal(t, []string{"budget", "eclair", "groceries"}, ids(got))
	})

	t.Run("Ties Keep Input Order", func(t *testing.T) {
		same := []core.Note{
			{ID: "1", Title: "A", UpdatedAt: at(1)},
			{ID: "2", Title: "A", UpdatedAt: at(1)},
			{ID: "3", Title: "A", UpdatedAt: at(1)},
		}
		assert.Equal(t, []string{"1", "2", "3"}, ids(core.Query(same, core.Filter{}, core.SortNewest)))
		assert.Equal(t, []string{"1", "2", "3"}, ids(core.Query(same, core.Filter{}, core.SortTitle)))
	})

	t.Run("Input Is Not Modified", func(t *testing.T) {
		_ = core.Query(notes, core.Filter{}, core.SortTitle)
		assert.Equal(t, []string{"groceries", "budget", "eclair"}, ids(notes))
	})
}

func TestQuery_Filter(t *testing.T) {
	notes := sampleNotes()

	cases := []struct {
		name   string
		filter core.Filter
		want   []string
	}{
		{"Blank Term Matches All", core.Filter{Term: "   "}, []string{"eclair", "budget", "groceries"}},
		{"Title Case Insensitive", core.Filter{Term: "GROC"}, []string{"groceries"}},
		{"Content", core.Filter{Term: "rent"}, []string{"budget"}},
		{"Tag Text", core.Filter{Term: "finance"}, []string{"budget"}},
		{"No Match", core.Filter{Term: "zzz"}, []string{}},
		{"Tag Glob", core.Filter{TagPattern: "work/**"}, []string{"budget"}},
		{"Tag Glob Excludes Untagged", core.Filter{TagPattern: "*"}, []string{}},
		{"Tag Glob Any Depth", core.Filter{TagPattern: "**"}, []string{"budget", "groceries"}},
		{"Term And Tag", core.Filter{Term: "milk", TagPattern: "work/*"}, []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := core.Query(notes, tc.filter, core.SortNewest)
			assert.Equal(t, tc.want, ids(got))
		})
	}
}

func TestSearch_KeepsOrder(t *testing.T) {
	notes := sampleNotes()
	assert.Equal(t, []string{"groceries", "budget", "eclair"}, ids(core.Search(notes, "")))
	assert.Equal(t, []string{"eclair"}, ids(core.Search(notes, "PASTRY")))
}

func TestParseSortKey(t *testing.T) {
	for in, want := range map[string]core.SortKey{
		"":         core.SortNewest,
		"newest":   core.SortNewest,
		" Oldest ": core.SortOldest,
		"TITLE":    core.SortTitle,
	} {
		got, err := core.ParseSortKey(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := core.ParseSortKey("random")
	assert.Error(t, err)
}

func TestComputeStats(t *testing.T) {
	notes := sampleNotes()
	notes = append(notes, core.Note{ID: "x", Content: "one two", Tags: []string{"HOME/shopping"}})

	st := core.ComputeStats(notes)
	assert.Equal(t, 4, st.Notes)
	assert.Equal(t, 1, st.Summaries)
	assert.Equal(t, 2+2+2+2, st.Words)
	assert.Equal(t, 2, st.Tags)

	assert.Equal(t, core.Stats{}, core.ComputeStats(nil))
}
