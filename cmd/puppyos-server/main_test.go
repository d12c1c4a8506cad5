package main

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"

	"github.com/hubenschmidt/go-puppyos"
	"github.com/hubenschmidt/go-puppyos/config"
	"github.com/hubenschmidt/go-puppyos/core"
)

func TestPrintJournalRequiresDSN(t *testing.T) {
	if err := printJournal("", 10); err == nil {
		t.Fatal("expected error without DSN")
	}
}

func TestPrintJournal(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "journal.db")
	j, err := puppyos.OpenJournal(dsn)
	if err != nil {
		t.Fatal(err)
	}
	err = j.Add(context.Background(), puppyos.DispatchRecord{
		ID: "1", RequestID: "r", Timestamp: 1700000000000, Method: "GET",
		Path: "/PuppyOS/app.js", Outcome: "served", Status: 200, Bytes: 2048, ElapsedMs: 3,
	})
	if err != nil {
		t.Fatal(err)
	}
	j.Close()

	if err := printJournal(dsn, 5); err != nil {
		t.Fatalf("printJournal: %v", err)
	}
}

func TestOutcomeColor(t *testing.T) {
	color.NoColor = true
	for _, o := range core.Outcomes {
		if got := outcomeColor(o).Sprint(string(o)); got != string(o) {
			t.Errorf("outcomeColor(%s) with NoColor = %q", o, got)
		}
	}
}

func TestRunFailsFastOnTakenPort(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	dbPath := filepath.Join(t.TempDir(), "journal.db")
	cfg := config.Default()
	cfg.Addr = ln.Addr().String()
	cfg.JournalDSN = dbPath

	err = run(cfg, puppyos.NewLogger(io.Discard, nil))
	if !errors.Is(err, core.ErrBindFailure) {
		t.Fatalf("run err = %v, want ErrBindFailure", err)
	}
	if _, statErr := os.Stat(dbPath); !errors.Is(statErr, fs.ErrNotExist) {
		t.Errorf("journal opened before bind (stat err = %v)", statErr)
	}
}

func TestFormatSummary(t *testing.T) {
	got := formatSummary(puppyos.JournalSummary{
		TotalDispatches: 3,
		TotalBytes:      2048,
		AvgLatencyMs:    1.5,
		ByOutcome:       map[string]int{"served": 2, "rejected": 1},
	})
	want := "3 dispatches, 2.0 kB, avg 1.5ms, rejected=1, served=2"
	if got != want {
		t.Errorf("formatSummary = %q, want %q", got, want)
	}
}
