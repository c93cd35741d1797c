package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/ainotes/pkg/core"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// encode writes v as JSON or YAML. It reports false for the text format,
// which each command renders itself.
func encode(w io.Writer, format string, v any) (bool, error) {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return true, enc.Encode(v)
	case formatText, "":
		return false, nil
	default:
		return true, fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}

func printNoteLine(w io.Writer, n core.Note) {
	marker := " "
	if n.HasSummary() {
		marker = "*"
	}
	line := fmt.Sprintf("%s %s  %s  %s", marker, n.ID, n.UpdatedAt.Local().Format("2006-01-02 15:04"), n.Title)
	if len(n.Tags) > 0 {
		line += "  [" + strings.Join(n.Tags, ", ") + "]"
	}
	fmt.Fprintln(w, line)
}

func printNote(w io.Writer, n core.Note) {
	fmt.Fprintf(w, "ID:      %s\n", n.ID)
	fmt.Fprintf(w, "Title:   %s\n", n.Title)
	fmt.Fprintf(w, "Created: %s\n", n.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Updated: %s\n", n.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	if len(n.Tags) > 0 {
		fmt.Fprintf(w, "Tags:    %s\n", strings.Join(n.Tags, ", "))
	}
	fmt.Fprintf(w, "\n%s\n", n.Content)
	if n.HasSummary() {
		fmt.Fprintf(w, "\nSummary:\n%s\n", n.Summary)
	}
}
