package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/ainotes/internal/platform"
	"github.com/aretw0/ainotes/pkg/core"
)

func main() {
	count := flag.Int("count", 1000, "Number of notes to create")
	backends := flag.String("backends", "fs,sqlite,memory", "Comma separated backends to measure")
	keep := flag.Bool("keep", false, "Keep the benchmark data after running")
	verbose := flag.Bool("v", false, "Log store activity")
	flag.Parse()

	benchDir, err := os.MkdirTemp("", "ainotes_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	logger := slog.New(slog.DiscardHandler)
	if *verbose {
		logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
	}

	for _, backend := range strings.Split(*backends, ",") {
		backend = strings.TrimSpace(backend)
		if backend == "" {
			continue
		}
		if err := bench(filepath.Join(benchDir, backend), backend, *count, logger); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", backend, err)
			os.Exit(1)
		}
	}
}

// bench measures creation, cold load and query latency on one backend.
// Every Create rewrites the whole collection, so creation is quadratic in count.
func bench(dir, backend string, count int, logger *slog.Logger) error {
	ctx := context.Background()
	fmt.Printf("== %s (%d notes)\n", backend, count)

	app, err := platform.New(dir, platform.WithBackend(backend), platform.WithLogger(logger), platform.WithStrict(true))
	if err != nil {
		return err
	}

	start := time.Now()
	for i := 0; i < count; i++ {
		_, err := app.Store.Create(ctx, core.Draft{
			Title:   fmt.Sprintf("Note %d", i),
			Content: fmt.Sprintf("Benchmark note %d. This is a test note about item %d.", i, i%17),
			Tags:    []string{"benchmark", fmt.Sprintf("group/%d", i%10)},
		})
		if err != nil {
			return err
		}
	}
	elapsed := time.Since(start)
	fmt.Printf("Create: %v (%.0f notes/s)\n", elapsed, float64(count)/elapsed.Seconds())

	if backend == "memory" {
		return app.Close()
	}
	if err := app.Close(); err != nil {
		return err
	}

	// Cold: a fresh store has to decode the whole collection.
	start = time.Now()
	app, err = platform.New(dir, platform.WithBackend(backend), platform.WithLogger(logger))
	if err != nil {
		return err
	}
	defer app.Close()
	fmt.Printf("Load:   %v (Items: %d)\n", time.Since(start), len(app.Store.Notes()))

	start = time.Now()
	hits := core.Query(app.Store.Notes(), core.Filter{Term: "item 3", TagPattern: "group/*"}, core.SortTitle)
	fmt.Printf("Query:  %v (Hits: %d)\n", time.Since(start), len(hits))
	return nil
}
