package app

import (
	"context"
	"log/slog"
	"os"
	"time"

	"readsanalyzer/internal/core/watcher"
)

// StartWatcher watches the directories among inputs.paths and ingests new or
// rewritten read files into the live analyzers, then re-assembles.
func (a *App) StartWatcher() error {
	w, err := watcher.NewWatcher(a.Config.Watch.Debounce, a.matcher, a.HandleChanges)
	if err != nil {
		return err
	}

	dirs := make([]string, 0, len(a.Config.Inputs.Paths))
	for _, p := range a.Config.Inputs.Paths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			dirs = append(dirs, p)
		}
	}
	if err := w.Watch(dirs); err != nil {
		_ = w.Close()
		return err
	}
	a.activeWatcher = w
	return nil
}

// HandleChanges ingests a batch of changed files. The graph is extended
// online; nothing is rebuilt.
func (a *App) HandleChanges(paths []string) {
	slog.Info("detected changes", "count", len(paths))
	start := time.Now()
	ctx := context.Background()

	total := 0
	for _, path := range paths {
		n, err := a.IngestFile(ctx, path)
		if err != nil {
			slog.Warn("failed to ingest changed file", "path", path, "error", err)
		}
		total += n
	}
	if total == 0 {
		slog.Debug("no new reads in batch", "count", len(paths))
		return
	}

	res, err := a.Assemble(ctx)
	if err != nil {
		slog.Error("failed to assemble", "error", err)
		return
	}
	slog.Info("re-assembled",
		"new_reads", total,
		"distinct_reads", res.DistinctReads,
		"assembly_length", len(res.Assembly),
		"duration", time.Since(start),
	)
}
