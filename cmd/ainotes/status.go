package main

import (
	"fmt"
	"strconv"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"

	"github.com/aretw0/ainotes/pkg/adapters/fs"
	"github.com/aretw0/ainotes/pkg/core"
)

var (
	statusFormat  string
	statusDiagram bool
)

// status is what `ainotes status` reports.
type status struct {
	Store       core.StoreState `json:"store" yaml:"store"`
	Persistence string          `json:"persistence" yaml:"persistence"`
	Backend     any             `json:"backend,omitempty" yaml:"backend,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the internal state of the store and its backend",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app := mustOpenApp()
		defer app.Close()

		st := status{Persistence: app.Persistence.ComponentType()}
		st.Store, _ = app.Store.State().(core.StoreState)
		if intro, ok := app.Backend().(introspection.Introspectable); ok {
			st.Backend = intro.State()
		}

		out := cmd.OutOrStdout()
		if statusDiagram {
			config := introspection.DefaultDiagramConfig()
			config.SecondaryID = "ainotes"
			config.SecondaryLabel = "Store Topology"
			fmt.Fprintln(out, introspection.TreeDiagram(buildStatusTree(st), config))
			return
		}

		format := statusFormat
		if format == formatText {
			format = formatYAML
		}
		if _, err := encode(out, format, st); err != nil {
			fatal("Failed to encode status", err)
		}
	},
}

type statusNode struct {
	Name     string
	Status   string
	Metadata map[string]string
	Children []statusNode
}

// buildStatusTree renders the state as a tree. Status values must match the
// classes of introspection.DefaultStyles().
func buildStatusTree(st status) statusNode {
	storeStatus := "running"
	if st.Store.Loading {
		storeStatus = "pending"
	}
	if st.Store.Error != "" {
		storeStatus = "failed"
	}

	backend := statusNode{
		Name:     "Backend",
		Status:   "running",
		Metadata: map[string]string{"type": st.Persistence},
	}
	if fsState, ok := st.Backend.(fs.StoreState); ok {
		backend.Metadata["path"] = fsState.Path
		watcher := "suspended"
		if fsState.WatcherActive {
			watcher = "running"
		}
		backend.Children = append(backend.Children, statusNode{
			Name:     "Watcher",
			Status:   watcher,
			Metadata: map[string]string{"type": "goroutine"},
		})
	}

	return statusNode{
		Name:   "Store",
		Status: storeStatus,
		Metadata: map[string]string{
			"type":       "container",
			"notes":      strconv.Itoa(st.Store.Notes),
			"summarizer": st.Store.SummarizerType,
		},
		Children: []statusNode{
			backend,
			{
				Name:   "Events",
				Status: "running",
				Metadata: map[string]string{
					"type":        "goroutine",
					"subscribers": strconv.Itoa(st.Store.Subscribers),
				},
			},
		},
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().StringVarP(&statusFormat, "format", "f", formatText, "Output format: text, json or yaml")
	statusCmd.Flags().BoolVar(&statusDiagram, "diagram", false, "Print a Mermaid diagram instead")
}
