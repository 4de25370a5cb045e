package history

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestStore_OpenInitializesSchemaAndSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path, 0)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	base := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)
	first := Run{
		Timestamp:      base,
		KmerSize:       3,
		MinOverlap:     2,
		Reads:          4,
		DistinctReads:  3,
		Edges:          2,
		LayoutLength:   3,
		AssemblyLength: 6,
		Assembly:       "AAGTCC",
	}
	second := Run{
		Timestamp:      base.Add(2 * time.Hour),
		KmerSize:       3,
		MinOverlap:     2,
		Reads:          9,
		DistinctReads:  7,
		DistinctKmers:  11,
		Edges:          6,
		LayoutLength:   5,
		AssemblyLength: 14,
		Assembly:       "AAGTCCGGATTACA",
		Duration:       1500 * time.Millisecond,
	}

	saved, err := store.SaveRun("project-a", first)
	if err != nil {
		t.Fatalf("save first run: %v", err)
	}
	if _, err := uuid.Parse(saved.ID); err != nil {
		t.Fatalf("expected generated uuid run id, got %q", saved.ID)
	}
	if saved.ProjectKey != "project-a" {
		t.Fatalf("expected project key on saved run, got %q", saved.ProjectKey)
	}
	if _, err := store.SaveRun("project-a", second); err != nil {
		t.Fatalf("save second run: %v", err)
	}

	got, err := store.LoadRuns("project-a", base.Add(1*time.Hour), 0)
	if err != nil {
		t.Fatalf("load runs: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 run after since filter, got %d", len(got))
	}
	if got[0].Assembly != "AAGTCCGGATTACA" || got[0].DistinctKmers != 11 {
		t.Fatalf("expected second run to roundtrip, got %+v", got[0])
	}
	if got[0].Duration != 1500*time.Millisecond {
		t.Fatalf("expected duration to roundtrip, got %s", got[0].Duration)
	}

	all, err := store.LoadRuns("project-a", time.Time{}, 0)
	if err != nil {
		t.Fatalf("load all runs: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(all))
	}
	if all[0].ID != saved.ID || !all[0].Timestamp.Equal(base) {
		t.Fatalf("expected runs in time order, got %+v", all)
	}
}

func TestStore_LoadRunsLimitKeepsLatest(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"), time.Second)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	base := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if _, err := store.SaveRun("", Run{Timestamp: base.Add(time.Duration(i) * time.Minute), Reads: i}); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := store.LoadRuns("default", time.Time{}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Reads != 3 || runs[1].Reads != 4 {
		t.Fatalf("expected the two latest runs oldest first, got %+v", runs)
	}
}

func TestStore_DuplicateRunIDRejected(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"), 0)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	run := Run{ID: "fixed-id", Assembly: "ACGT"}
	if _, err := store.SaveRun("p", run); err != nil {
		t.Fatal(err)
	}
	_, err = store.SaveRun("p", run)
	if err == nil {
		t.Fatal("expected primary key violation on duplicate run id")
	}
	if !strings.Contains(err.Error(), "save run") {
		t.Fatalf("expected operation prefix in error, got %v", err)
	}
}

func TestStore_OpenRejectsDirectoryPath(t *testing.T) {
	_, err := Open(t.TempDir(), 0)
	if err == nil {
		t.Fatal("expected open error for directory path")
	}
	if !strings.Contains(err.Error(), "is a directory") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStore_OpenCorruptDBPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	if err := os.WriteFile(path, []byte("this is not sqlite"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Open(path, 0)
	if err == nil {
		t.Fatal("expected sqlite open error")
	}
	lower := strings.ToLower(err.Error())
	if !strings.Contains(lower, "not a database") && !strings.Contains(lower, "schema") {
		t.Fatalf("expected schema/open error, got: %v", err)
	}
}

func TestEnsureSchema_DetectsNewerVersionDrift(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	_, err = store.db.Exec(`INSERT OR REPLACE INTO schema_migrations(version) VALUES (?)`, SchemaVersion+1)
	if err != nil {
		t.Fatal(err)
	}

	db, err := sql.Open(driverName, "file:"+path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	err = EnsureSchema(db)
	if err == nil {
		t.Fatal("expected drift error")
	}
	if !strings.Contains(err.Error(), "newer than supported") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(path, 0)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer reopened.Close()

	var version int
	if err := reopened.db.QueryRow(`SELECT MAX(version) FROM schema_migrations`).Scan(&version); err != nil {
		t.Fatal(err)
	}
	if version != SchemaVersion {
		t.Fatalf("expected schema version %d, got %d", SchemaVersion, version)
	}
}

func TestIsCorruptError(t *testing.T) {
	if !IsCorruptError(errors.New("database disk image is malformed")) {
		t.Fatal("expected malformed sqlite message to be treated as corrupt")
	}
}

func TestStore_ProjectIsolation(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"), 0)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	base := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)
	if _, err := store.SaveRun("project-a", Run{Timestamp: base, Reads: 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.SaveRun("project-b", Run{Timestamp: base, Reads: 2}); err != nil {
		t.Fatal(err)
	}

	aRows, err := store.LoadRuns("project-a", time.Time{}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(aRows) != 1 || aRows[0].Reads != 1 {
		t.Fatalf("unexpected project-a rows: %+v", aRows)
	}

	bRows, err := store.LoadRuns("project-b", time.Time{}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(bRows) != 1 || bRows[0].Reads != 2 {
		t.Fatalf("unexpected project-b rows: %+v", bRows)
	}
}
