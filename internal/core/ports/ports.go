package ports

import (
	"context"
	"time"

	"readsanalyzer/internal/data/history"
	"readsanalyzer/internal/engine/reads"
)

// ReadProcessor consumes reads one at a time, in arrival order.
type ReadProcessor interface {
	ProcessRead(read reads.Read)
}

// AssemblySink receives an assembled sequence. Failures are reported to the
// caller, which decides whether they matter.
type AssemblySink interface {
	Write(ctx context.Context, sequence string) error
}

// HistoryStore abstracts run persistence for the history workflow.
type HistoryStore interface {
	SaveRun(projectKey string, run history.Run) (history.Run, error)
	LoadRuns(projectKey string, since time.Time, limit int) ([]history.Run, error)
}

// IngestRequest defines an ingestion of read files for driving adapters.
type IngestRequest struct {
	Paths []string
}

// IngestResult summarizes a completed ingestion.
type IngestResult struct {
	Files    int
	Reads    int
	Warnings []string
}
