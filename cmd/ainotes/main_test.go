package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/ainotes/internal/config"
	"github.com/aretw0/ainotes/pkg/adapters/summary"
	"github.com/aretw0/ainotes/pkg/core"
)

// run executes the CLI against an isolated home and data directory.
func run(t *testing.T, dir string, args ...string) string {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append([]string{"--data-dir", dir}, args...))
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

// resetFlags restores every flag to its default so Changed does not leak
// from one Execute into the next.
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func TestCLI_CreateListShow(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	dir := t.TempDir()

	out := run(t, dir, "create", "--title", "Groceries", "--content", "milk, eggs", "--tags", "home, food")
	require.True(t, strings.HasPrefix(out, "Note created: "), out)
	id := strings.TrimSpace(strings.TrimPrefix(out, "Note created: "))

	out = run(t, dir, "list", "--format", "json", "--search", "", "--tag", "", "--sort", "newest")
	var notes []core.Note
	require.NoError(t, json.Unmarshal([]byte(out), &notes))
	require.Len(t, notes, 1)
	assert.Equal(t, id, notes[0].ID)
	assert.Equal(t, []string{"home", "food"}, notes[0].Tags)

	out = run(t, dir, "show", id, "--format", "yaml")
	assert.Contains(t, out, "title: Groceries")

	out = run(t, dir, "summarize", id)
	assert.Contains(t, out, "This note contains 2 words")

	out = run(t, dir, "stats", "--format", "json")
	assert.JSONEq(t, `{"notes":1,"summaries":1,"words":2,"tags":2}`, out)
}

func TestCLI_EditDelete(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	dir := t.TempDir()

	out := run(t, dir, "create", "--title", "Groceries", "--content", "milk, eggs", "--tags", "home,food")
	id := strings.TrimSpace(strings.TrimPrefix(out, "Note created: "))
	require.NotEmpty(t, id)

	show := func() core.Note {
		var n core.Note
		require.NoError(t, json.Unmarshal([]byte(run(t, dir, "show", id, "--format", "json")), &n))
		return n
	}

	assert.Equal(t, "Note updated: "+id+"\n", run(t, dir, "edit", id, "--title", "Shopping"))
	n := show()
	assert.Equal(t, "Shopping", n.Title)
	assert.Equal(t, "milk, eggs", n.Content)
	assert.Equal(t, []string{"home", "food"}, n.Tags)

	// An empty --tags clears the tags and leaves the rest alone.
	run(t, dir, "edit", id, "--tags", "")
	n = show()
	assert.Equal(t, "Shopping", n.Title)
	assert.Nil(t, n.Tags)

	out = run(t, dir, "stats", "--format", "json")
	assert.JSONEq(t, `{"notes":1,"summaries":0,"words":2,"tags":0}`, out)

	assert.Equal(t, "Note deleted: "+id+"\n", run(t, dir, "delete", id))
	var notes []core.Note
	require.NoError(t, json.Unmarshal([]byte(run(t, dir, "list", "--format", "json")), &notes))
	assert.Empty(t, notes)
}

func TestNewSummarizer(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	s, err := newSummarizer(config.SummaryConfig{}, logger)
	require.NoError(t, err)
	assert.Equal(t, summary.Local{}, s)

	s, err = newSummarizer(config.SummaryConfig{Fallback: true, FallbackText: "n/a"}, logger)
	require.NoError(t, err)
	require.IsType(t, summary.Fallback{}, s)
	assert.Equal(t, "summary/local+fallback", s.(summary.Fallback).ComponentType())
	assert.Equal(t, "n/a", s.(summary.Fallback).Text)
}

func TestCLI_Theme(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	dir := t.TempDir()

	assert.Equal(t, "light\n", run(t, dir, "theme"))
	assert.Equal(t, "Theme set to dark\n", run(t, dir, "theme", "toggle"))
	assert.Equal(t, "dark\n", run(t, dir, "theme"))
	assert.Equal(t, "Theme set to light\n", run(t, dir, "theme", "light"))
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	done, err := encode(&buf, formatText, core.Stats{})
	assert.False(t, done)
	assert.NoError(t, err)

	done, err = encode(&buf, formatYAML, core.Stats{Notes: 2})
	assert.True(t, done)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "notes: 2")

	_, err = encode(&buf, "xml", nil)
	assert.Error(t, err)
}

func TestBuildStatusTree(t *testing.T) {
	tree := buildStatusTree(status{
		Store:       core.StoreState{Notes: 3, Error: core.MsgCreateFailed},
		Persistence: "storage/memory",
	})
	assert.Equal(t, "failed", tree.Status)
	assert.Equal(t, "3", tree.Metadata["notes"])
	require.Len(t, tree.Children, 2)
	assert.Equal(t, "storage/memory", tree.Children[0].Metadata["type"])
}
