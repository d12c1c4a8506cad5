package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleRecords() []DispatchRecord {
	return []DispatchRecord{
		{ID: "a", RequestID: "r1", Timestamp: 1000, Method: "GET", Path: "/PuppyOS/app.js", Outcome: "served", Status: 200, Bytes: 120, ElapsedMs: 2},
		{ID: "b", RequestID: "r2", Timestamp: 2000, Method: "GET", Path: "/unknown/route", Outcome: "fallback", Status: 200, Bytes: 300, ElapsedMs: 4},
		{ID: "c", RequestID: "r3", Timestamp: 3000, Method: "GET", Path: "/other", Outcome: "rejected", Status: 500, Bytes: 5, ElapsedMs: 0},
	}
}

func exerciseJournal(t *testing.T, j Journal) {
	t.Helper()
	ctx := context.Background()

	for _, r := range sampleRecords() {
		if err := j.Add(ctx, r); err != nil {
			t.Fatalf("Add(%s): %v", r.ID, err)
		}
	}

	got, err := j.Get(ctx, "b")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if diff := cmp.Diff(sampleRecords()[1], got); diff != "" {
		t.Errorf("Get mismatch (-want +got):\n%s", diff)
	}

	if _, err := j.Get(ctx, "zzz"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) err = %v, want ErrNotFound", err)
	}

	recent, err := j.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recent) != 2 || recent[0].ID != "c" || recent[1].ID != "b" {
		t.Errorf("List(2) = %+v", recent)
	}

	all, err := j.List(ctx, 0)
	if err != nil {
		t.Fatalf("List(0): %v", err)
	}
	if len(all) != 3 {
		t.Errorf("List(0) returned %d records", len(all))
	}

	sum, err := j.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	want := JournalSummary{
		TotalDispatches: 3,
		TotalBytes:      425,
		AvgLatencyMs:    2,
		ByOutcome:       map[string]int{"served": 1, "fallback": 1, "rejected": 1},
	}
	if diff := cmp.Diff(want, sum); diff != "" {
		t.Errorf("Summary mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLiteJournal(t *testing.T) {
	j, err := NewSQLiteJournal(filepath.Join(t.TempDir(), "data", "journal.db"))
	if err != nil {
		t.Fatalf("NewSQLiteJournal: %v", err)
	}
	defer j.Close()

	exerciseJournal(t, j)
}

func TestSQLiteJournalEmptySummary(t *testing.T) {
	j, err := NewSQLiteJournal(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer j.Close()

	sum, err := j.Summary(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if sum.TotalDispatches != 0 || len(sum.ByOutcome) != 0 {
		t.Errorf("empty summary = %+v", sum)
	}
}

func TestPostgresJournal(t *testing.T) {
	dsn := os.Getenv("PUPPYOS_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("PUPPYOS_TEST_POSTGRES_DSN not set")
	}
	j, err := NewPostgresJournal(dsn)
	if err != nil {
		t.Fatalf("NewPostgresJournal: %v", err)
	}
	defer j.Close()

	if _, err := j.db.Exec(`TRUNCATE dispatches`); err != nil {
		t.Fatal(err)
	}
	exerciseJournal(t, j)
}

func TestNewJournal(t *testing.T) {
	j, err := NewJournal("")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := j.(Discard); !ok {
		t.Errorf("NewJournal(\"\") = %T, want Discard", j)
	}

	j, err = NewJournal(filepath.Join(t.TempDir(), "j.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer j.Close()
	if _, ok := j.(*SQLiteJournal); !ok {
		t.Errorf("NewJournal(path) = %T, want *SQLiteJournal", j)
	}
}

func TestIsPostgresDSN(t *testing.T) {
	tests := map[string]bool{
		"postgres://u@h/db":   true,
		"postgresql://u@h/db": true,
		"data/puppyos.db":     false,
		"":                    false,
	}
	for dsn, want := range tests {
		if got := IsPostgresDSN(dsn); got != want {
			t.Errorf("IsPostgresDSN(%q) = %v", dsn, got)
		}
	}
}
