package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	coreerrors "readsanalyzer/internal/core/errors"
	"readsanalyzer/internal/data/history"
	"readsanalyzer/internal/engine/overlap"
	"readsanalyzer/internal/output"
	"readsanalyzer/internal/shared/observability"
	"readsanalyzer/internal/shared/util"
)

// Result is the outcome of one assembly.
type Result struct {
	RunID         string
	Assembly      string
	Path          []overlap.Edge
	Reads         int
	DistinctReads int
	DistinctKmers int
	Edges         int
	Duration      time.Duration
	// SinkErr is the sink failure, if any. It never fails the assembly.
	SinkErr error
	// Reports lists the report files written.
	Reports []string
}

// Assemble computes the layout path and assembly of the current graph, then
// runs the side effects: the assembly sink, the configured reports and the
// history record. None of those failures is returned; they are logged and
// counted. Only a canceled context fails the call.
func (a *App) Assemble(ctx context.Context) (Result, error) {
	ctx, span := observability.Tracer.Start(ctx, "App.Assemble")
	defer span.End()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	start := time.Now()
	path := a.Graph.LayoutPath()
	assembly := overlap.Stitch(path)
	observability.AnalysisDuration.WithLabelValues("assemble").Observe(time.Since(start).Seconds())

	res := Result{
		Assembly:      assembly,
		Path:          path,
		Reads:         a.Graph.Ingested(),
		DistinctReads: a.Graph.Len(),
		Edges:         a.Graph.EdgeCount(),
		Duration:      time.Since(start),
	}
	if a.Kmers != nil {
		res.DistinctKmers = a.Kmers.Len()
	}
	span.SetAttributes(
		attribute.Int("layout_length", len(path)),
		attribute.Int("assembly_length", len(assembly)),
	)

	if err := a.sink.Write(ctx, assembly); err != nil {
		observability.SinkFailuresTotal.Inc()
		slog.Warn("failed to write assembly", "error", err)
		res.SinkErr = err
	}

	written, err := a.WriteReports(ctx, path)
	res.Reports = written
	if err != nil {
		slog.Error("failed to generate reports", "error", err)
	}

	res.RunID = a.recordRun(res)
	a.emitUpdate(Update{Result: res})
	return res, nil
}

// WriteReports writes every configured report for the given layout path and
// returns the files written. It keeps going after a failure and returns the
// first error.
func (a *App) WriteReports(ctx context.Context, path []overlap.Edge) ([]string, error) {
	_, span := observability.Tracer.Start(ctx, "App.WriteReports")
	defer span.End()

	start := time.Now()
	defer func() {
		observability.AnalysisDuration.WithLabelValues("reports").Observe(time.Since(start).Seconds())
	}()

	tsv := output.NewTSVGenerator()
	out := a.Config.Output

	type report struct {
		path     string
		generate func() (string, error)
	}
	reports := []report{
		{out.SequenceDistribution, func() (string, error) {
			return tsv.Distribution("Abundance", a.Graph.AbundanceDistribution())
		}},
		{out.OverlapDistribution, func() (string, error) {
			return tsv.Distribution("OutDegree", a.Graph.OverlapDistribution())
		}},
		{out.Layout, func() (string, error) { return tsv.Layout(path) }},
		{out.DOT, func() (string, error) { return output.NewDOTGenerator(a.Graph).Generate(path) }},
		{out.Mermaid, func() (string, error) { return output.NewMermaidGenerator().Generate(path) }},
	}
	if a.Kmers != nil {
		reports = append(reports, report{out.KmerDistribution, func() (string, error) {
			return tsv.Distribution("Abundance", a.Kmers.AbundanceDistribution())
		}})
	}

	var (
		written  []string
		firstErr error
	)
	for _, r := range reports {
		if strings.TrimSpace(r.path) == "" {
			continue
		}
		content, err := r.generate()
		if err == nil {
			err = util.WriteOutput(r.path, content)
		}
		if err != nil {
			err = coreerrors.AddContext(coreerrors.Wrap(err, coreerrors.CodeIO, "write report"), coreerrors.CtxPath, r.path)
			slog.Warn("failed to write report", "path", r.path, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		written = append(written, r.path)
	}
	return written, firstErr
}

func (a *App) recordRun(res Result) string {
	if a.history == nil {
		return ""
	}
	run, err := a.history.SaveRun(a.Config.DB.Project, history.Run{
		KmerSize:       a.Config.Kmers.Size,
		MinOverlap:     a.Graph.MinOverlap(),
		Reads:          res.Reads,
		DistinctReads:  res.DistinctReads,
		DistinctKmers:  res.DistinctKmers,
		Edges:          res.Edges,
		LayoutLength:   len(res.Path),
		AssemblyLength: len(res.Assembly),
		Assembly:       res.Assembly,
		Duration:       res.Duration,
	})
	if err != nil {
		observability.HistoryWritesTotal.WithLabelValues("error").Inc()
		slog.Warn("failed to record run", "error", err)
		return ""
	}
	observability.HistoryWritesTotal.WithLabelValues("ok").Inc()
	return run.ID
}

// History returns the latest runs of the configured project, oldest first.
func (a *App) History(ctx context.Context, limit int) ([]history.Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if a.history == nil {
		return nil, coreerrors.New(coreerrors.CodeNotSupported, "history is disabled; set db.enabled = true")
	}
	runs, err := a.history.LoadRuns(a.Config.DB.Project, time.Time{}, limit)
	if err != nil {
		return nil, coreerrors.AddContext(
			coreerrors.Wrap(err, coreerrors.CodeInternal, fmt.Sprintf("load runs for %q", a.Config.DB.Project)),
			coreerrors.CtxOperation, "history",
		)
	}
	return runs, nil
}
