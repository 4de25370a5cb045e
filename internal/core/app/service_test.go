package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreerrors "readsanalyzer/internal/core/errors"
	"readsanalyzer/internal/data/history"
	"readsanalyzer/internal/engine/reads"
)

func readOf(seq string) reads.Read {
	return reads.NewRead("test", seq)
}

func TestWriteReports(t *testing.T) {
	cfg := testConfig(t)
	out := t.TempDir()
	cfg.Output.SequenceDistribution = filepath.Join(out, "sequences.tsv")
	cfg.Output.OverlapDistribution = filepath.Join(out, "overlaps.tsv")
	cfg.Output.KmerDistribution = filepath.Join(out, "kmers.tsv")
	cfg.Output.Layout = filepath.Join(out, "layout.tsv")
	cfg.Output.DOT = filepath.Join(out, "graph.dot")
	cfg.Output.Mermaid = filepath.Join(out, "layout.mmd")

	a, err := NewWithDependencies(cfg, Dependencies{Sink: &memorySink{}})
	require.NoError(t, err)
	for _, seq := range []string{"TTAC", "ACGG", "ACTT", "ACGG"} {
		a.ProcessRead(readOf(seq))
	}

	res, err := a.Assemble(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "TTACGG", res.Assembly)
	assert.Len(t, res.Reports, 6)

	overlaps, err := os.ReadFile(cfg.Output.OverlapDistribution)
	require.NoError(t, err)
	assert.Equal(t, "OutDegree\tCount\n0\t1\n1\t1\n2\t1\n", string(overlaps))

	sequences, err := os.ReadFile(cfg.Output.SequenceDistribution)
	require.NoError(t, err)
	assert.Equal(t, "Abundance\tCount\n0\t0\n1\t2\n2\t1\n", string(sequences))

	layout, err := os.ReadFile(cfg.Output.Layout)
	require.NoError(t, err)
	assert.Equal(t, "Step\tSource\tDestination\tOverlap\n0\t-\tTTAC\t0\n1\tTTAC\tACGG\t2\n", string(layout))

	for _, p := range []string{cfg.Output.KmerDistribution, cfg.Output.DOT, cfg.Output.Mermaid} {
		_, err := os.Stat(p)
		assert.NoError(t, err, p)
	}
}

func TestWriteReportsKeepsGoingAfterFailure(t *testing.T) {
	cfg := testConfig(t)
	out := t.TempDir()
	blocker := filepath.Join(out, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	cfg.Output.DOT = filepath.Join(blocker, "graph.dot")
	cfg.Output.Layout = filepath.Join(out, "layout.tsv")

	a, err := NewWithDependencies(cfg, Dependencies{Sink: &memorySink{}})
	require.NoError(t, err)
	a.ProcessRead(readOf("AAGT"))

	written, err := a.WriteReports(context.Background(), a.Graph.LayoutPath())
	require.Error(t, err)
	assert.True(t, coreerrors.IsCode(err, coreerrors.CodeIO))
	assert.Equal(t, []string{cfg.Output.Layout}, written)
}

func TestAssembleRecordsHistory(t *testing.T) {
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"), 0)
	require.NoError(t, err)
	defer store.Close()

	cfg := testConfig(t)
	cfg.DB.Enabled = true
	cfg.DB.Project = "lab"
	a, err := NewWithDependencies(cfg, Dependencies{Sink: &memorySink{}, History: store})
	require.NoError(t, err)

	a.ProcessRead(readOf("AAGT"))
	a.ProcessRead(readOf("GTCC"))
	first, err := a.Assemble(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, first.RunID)

	a.ProcessRead(readOf("CCAT"))
	second, err := a.Assemble(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AAGTCCAT", second.Assembly)

	runs, err := a.History(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, first.RunID, runs[0].ID)
	assert.Equal(t, "AAGTCC", runs[0].Assembly)
	assert.Equal(t, 2, runs[0].MinOverlap)
	assert.Equal(t, 2, runs[0].KmerSize)
	assert.Equal(t, 3, runs[1].Reads)
	assert.Equal(t, 8, runs[1].AssemblyLength)
	assert.Equal(t, "lab", runs[1].ProjectKey)

	latest, err := a.History(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, second.RunID, latest[0].ID)
}

func TestHistoryDisabled(t *testing.T) {
	a, err := NewWithDependencies(testConfig(t), Dependencies{Sink: &memorySink{}})
	require.NoError(t, err)

	_, err = a.History(context.Background(), 10)
	require.Error(t, err)
	assert.True(t, coreerrors.IsCode(err, coreerrors.CodeNotSupported))
}

func TestHandleChangesIngestsAndReassembles(t *testing.T) {
	sink := &memorySink{}
	a, err := NewWithDependencies(testConfig(t), Dependencies{Sink: sink})
	require.NoError(t, err)

	dir := t.TempDir()
	first := writeReads(t, dir, "a.txt", "AAGT\n")
	a.HandleChanges([]string{first})
	require.Equal(t, []string{"AAGT"}, sink.written)

	// Unchanged files do not trigger another assembly.
	a.HandleChanges([]string{first})
	require.Len(t, sink.written, 1)

	second := writeReads(t, dir, "b.txt", "GTCC\n")
	a.HandleChanges([]string{first, second})
	assert.Equal(t, []string{"AAGT", "AAGTCC"}, sink.written)
}

func TestHandleChangesIngestsOnlyAppendedReads(t *testing.T) {
	sink := &memorySink{}
	a, err := NewWithDependencies(testConfig(t), Dependencies{Sink: sink})
	require.NoError(t, err)

	path := writeReads(t, t.TempDir(), "growing.txt", "AAGT\n")
	a.HandleChanges([]string{path})
	require.Equal(t, 1, a.Graph.Ingested())

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("GTCC\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	a.HandleChanges([]string{path})
	assert.Equal(t, 1, a.Graph.SequenceAbundance("AAGT"))
	assert.Equal(t, 1, a.Graph.SequenceAbundance("GTCC"))
	assert.Equal(t, 2, a.Graph.Ingested())
	assert.Equal(t, []string{"AAGT", "AAGTCC"}, sink.written)
}

func TestIngestFileTruncatedKeepsEarlierReads(t *testing.T) {
	a, err := NewWithDependencies(testConfig(t), Dependencies{Sink: &memorySink{}})
	require.NoError(t, err)

	path := writeReads(t, t.TempDir(), "reads.txt", "AAGT\nGTCC\n")
	_, err = a.IngestFile(context.Background(), path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("AAGT\n"), 0o644))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))
	n, err := a.IngestFile(context.Background(), path)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 2, a.Graph.Ingested())

	// Growth is measured against the most reads ever consumed.
	require.NoError(t, os.WriteFile(path, []byte("AAGT\nGTCC\nTCCA\n"), 0o644))
	later = later.Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))
	n, err = a.IngestFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, a.Graph.SequenceAbundance("TCCA"))
}

func TestStartWatcherIngestsNewFiles(t *testing.T) {
	cfg := testConfig(t)
	dir := t.TempDir()
	cfg.Inputs.Paths = []string{dir}
	cfg.Watch.Debounce = 50 * time.Millisecond

	a, err := NewWithDependencies(cfg, Dependencies{Sink: &memorySink{}})
	require.NoError(t, err)
	defer a.Close()

	updates := make(chan Update, 4)
	a.SetUpdateHandler(func(u Update) { updates <- u })
	require.NoError(t, a.StartWatcher())

	writeReads(t, dir, "live.fa", ">r1\nAAGT\n>r2\nGTCC\n")

	select {
	case u := <-updates:
		assert.Equal(t, "AAGTCC", u.Result.Assembly)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for watch-mode assembly")
	}
}
