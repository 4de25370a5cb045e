package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"readsanalyzer/internal/core/config"
	coreerrors "readsanalyzer/internal/core/errors"
	"readsanalyzer/internal/core/ports"
	"readsanalyzer/internal/core/watcher"
	"readsanalyzer/internal/engine/kmer"
	"readsanalyzer/internal/engine/overlap"
	"readsanalyzer/internal/engine/reads"
	"readsanalyzer/internal/output"
	"readsanalyzer/internal/shared/observability"
	"readsanalyzer/internal/shared/util"
)

// Update is emitted after every assembly so the terminal UI can refresh.
type Update struct {
	Result Result
}

// Dependencies lets callers replace the default adapters. Nil fields fall
// back to a FileSink on output.assembly and no history.
type Dependencies struct {
	Sink    ports.AssemblySink
	History ports.HistoryStore
}

// App owns the analyzers and drives reads into them. Every read is handed to
// each processor in registration order: the overlap graph first, then the
// k-mer table when enabled.
type App struct {
	Config *config.Config
	Graph  *overlap.Graph
	Kmers  *kmer.Table

	processors []ports.ReadProcessor
	format     reads.Format
	matcher    *reads.Matcher
	sink       ports.AssemblySink
	history    ports.HistoryStore
	progress   *util.Limiter

	// Ingestion is sequential; watch batches and explicit calls take turns.
	ingestMu sync.Mutex
	ingested map[string]ingestedFile

	updateMu sync.RWMutex
	onUpdate func(Update)

	activeWatcher *watcher.Watcher
}

// ingestedFile remembers how far a file has been consumed.
type ingestedFile struct {
	modTime time.Time
	records int
}

func New(cfg *config.Config) (*App, error) {
	return NewWithDependencies(cfg, Dependencies{})
}

func NewWithDependencies(cfg *config.Config, deps Dependencies) (*App, error) {
	if cfg == nil {
		return nil, coreerrors.New(coreerrors.CodeValidationError, "config is required")
	}

	graph, err := overlap.NewGraph(cfg.Overlap.MinOverlap)
	if err != nil {
		return nil, err
	}
	processors := []ports.ReadProcessor{graph}

	var table *kmer.Table
	if cfg.Kmers.IsEnabled() {
		table, err = kmer.NewTable(cfg.Kmers.Size)
		if err != nil {
			return nil, err
		}
		processors = append(processors, table)
	}

	format, err := reads.ParseFormat(cfg.Inputs.Format)
	if err != nil {
		return nil, err
	}
	matcher, err := reads.NewMatcher(cfg.Inputs.Include, cfg.Inputs.Exclude)
	if err != nil {
		return nil, coreerrors.Wrap(err, coreerrors.CodeValidationError, "compile input filters")
	}

	sink := deps.Sink
	if sink == nil {
		sink = output.NewFileSink(cfg.Output.Assembly)
	}

	return &App{
		Config:     cfg,
		Graph:      graph,
		Kmers:      table,
		processors: processors,
		format:     format,
		matcher:    matcher,
		sink:       sink,
		history:    deps.History,
		progress:   util.Every(cfg.Observability.ProgressInterval),
		ingested:   make(map[string]ingestedFile),
	}, nil
}

func (a *App) SetUpdateHandler(handler func(Update)) {
	a.updateMu.Lock()
	defer a.updateMu.Unlock()
	a.onUpdate = handler
}

func (a *App) emitUpdate(update Update) {
	a.updateMu.RLock()
	handler := a.onUpdate
	a.updateMu.RUnlock()
	if handler != nil {
		handler(update)
	}
}

// ProcessRead hands one read to every processor.
func (a *App) ProcessRead(read reads.Read) {
	for _, p := range a.processors {
		p.ProcessRead(read)
	}
}

// IngestPaths discovers read files under req.Paths (or inputs.paths when
// empty) and ingests them in order. A file that fails to parse is reported as
// a warning; the reads it yielded before the failure stay ingested.
func (a *App) IngestPaths(ctx context.Context, req ports.IngestRequest) (ports.IngestResult, error) {
	ctx, span := observability.Tracer.Start(ctx, "App.IngestPaths")
	defer span.End()

	paths := req.Paths
	if len(paths) == 0 {
		paths = a.Config.Inputs.Paths
	}
	if len(paths) == 0 {
		return ports.IngestResult{}, coreerrors.New(coreerrors.CodeValidationError, "no input paths given")
	}

	files, err := reads.Discover(paths, a.matcher)
	if err != nil {
		return ports.IngestResult{}, coreerrors.AddContext(
			coreerrors.Wrap(err, coreerrors.CodeIO, "discover read files"),
			coreerrors.CtxOperation, "discover",
		)
	}

	result := ports.IngestResult{Warnings: make([]string, 0)}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		n, err := a.IngestFile(ctx, path)
		result.Reads += n
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			slog.Warn("failed to ingest file", "path", path, "error", err)
			result.Warnings = append(result.Warnings, fmt.Sprintf("ingest %s: %v", path, err))
			continue
		}
		result.Files++
	}
	span.SetAttributes(
		attribute.Int("files", result.Files),
		attribute.Int("reads", result.Reads),
	)
	return result, nil
}

// IngestFile feeds the reads of path to the processors and returns how many
// were new. A file is read again only when its modification time changes,
// and then only the records past the ones already consumed are ingested, so
// a file that grows between batches never counts its earlier reads twice.
// Stdin ("-") is never deduplicated.
func (a *App) IngestFile(ctx context.Context, path string) (int, error) {
	ctx, span := observability.Tracer.Start(ctx, "App.IngestFile", trace.WithAttributes(attribute.String("path", path)))
	defer span.End()

	a.ingestMu.Lock()
	defer a.ingestMu.Unlock()

	var (
		modTime time.Time
		skip    int
	)
	if path != "-" {
		info, err := os.Stat(path)
		if err != nil {
			return 0, coreerrors.AddContext(
				coreerrors.Wrap(err, coreerrors.CodeIO, "stat reads"),
				coreerrors.CtxPath, path,
			)
		}
		modTime = info.ModTime()
		if seen, ok := a.ingested[path]; ok {
			if seen.modTime.Equal(modTime) {
				slog.Debug("skipping unchanged file", "path", path)
				return 0, nil
			}
			skip = seen.records
		}
	}

	src, err := reads.Open(path, a.format)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	start := time.Now()
	consumed, err := reads.ForEach(src, func(read reads.Read) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if skip > 0 {
			skip--
			return nil
		}
		a.ProcessRead(read)
		if a.progress.Allow(1) {
			slog.Info("ingesting reads",
				"path", path,
				"distinct_reads", a.Graph.Len(),
				"edges", a.Graph.EdgeCount(),
			)
		}
		return nil
	})
	observability.FileIngestDuration.Observe(time.Since(start).Seconds())

	n := 0
	if path != "-" {
		prev := a.ingested[path].records
		if consumed > prev {
			n = consumed - prev
		} else if consumed < prev {
			slog.Warn("file has fewer reads than already ingested; keeping earlier reads",
				"path", path, "reads", consumed, "ingested", prev)
			consumed = prev
		}
		// Partially read files are still recorded: their reads are in the
		// graph and the next change resumes after them.
		a.ingested[path] = ingestedFile{modTime: modTime, records: consumed}
	} else {
		n = consumed
	}
	span.SetAttributes(attribute.Int("reads", n))
	if err != nil {
		return n, err
	}

	slog.Debug("ingested file", "path", path, "reads", n, "duration", time.Since(start))
	return n, nil
}

func (a *App) Close() error {
	if a.activeWatcher == nil {
		return nil
	}
	err := a.activeWatcher.Close()
	a.activeWatcher = nil
	return err
}
