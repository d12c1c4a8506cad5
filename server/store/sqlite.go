package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hubenschmidt/go-puppyos/server/store/migrations"
	_ "modernc.org/sqlite"
)

// SQLiteJournal implements Journal using SQLite
type SQLiteJournal struct {
	db *sql.DB
}

// NewSQLiteJournal creates a SQLite-backed dispatch journal
func NewSQLiteJournal(dsn string) (*SQLiteJournal, error) {
	if dsn == "" {
		dsn = "data/puppyos.db"
	}

	dir := filepath.Dir(dsn)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer keeps SQLITE_BUSY away under concurrent dispatches
	db.SetMaxOpenConns(1)

	if err := runSQLiteMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteJournal{db: db}, nil
}

func runSQLiteMigrations(db *sql.DB) error {
	data, err := migrations.SQLite.ReadFile("sqlite/001_init.sql")
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	_, err = db.Exec(string(data))
	if err != nil {
		return fmt.Errorf("exec migration: %w", err)
	}
	return nil
}

func (s *SQLiteJournal) Add(ctx context.Context, r DispatchRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO dispatches (
			id, request_id, timestamp, method, path, outcome, status, bytes, elapsed_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.RequestID, r.Timestamp, r.Method, r.Path, r.Outcome, r.Status, r.Bytes, r.ElapsedMs,
	)
	if err != nil {
		return fmt.Errorf("insert dispatch: %w", err)
	}
	return nil
}

func (s *SQLiteJournal) Get(ctx context.Context, id string) (DispatchRecord, error) {
	var r DispatchRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT id, request_id, timestamp, method, path, outcome, status, bytes, elapsed_ms
		FROM dispatches WHERE id = ?`, id).Scan(
		&r.ID, &r.RequestID, &r.Timestamp, &r.Method, &r.Path, &r.Outcome, &r.Status, &r.Bytes, &r.ElapsedMs,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return r, ErrNotFound
	}
	if err != nil {
		return r, fmt.Errorf("query dispatch: %w", err)
	}
	return r, nil
}

func (s *SQLiteJournal) List(ctx context.Context, limit int) ([]DispatchRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, request_id, timestamp, method, path, outcome, status, bytes, elapsed_ms
		FROM dispatches ORDER BY timestamp DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query dispatches: %w", err)
	}
	defer rows.Close()

	var records []DispatchRecord
	for rows.Next() {
		var r DispatchRecord
		if err := rows.Scan(
			&r.ID, &r.RequestID, &r.Timestamp, &r.Method, &r.Path, &r.Outcome, &r.Status, &r.Bytes, &r.ElapsedMs,
		); err != nil {
			return nil, fmt.Errorf("scan dispatch: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *SQLiteJournal) Summary(ctx context.Context) (JournalSummary, error) {
	m := JournalSummary{ByOutcome: make(map[string]int)}
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(bytes), 0),
			COALESCE(AVG(elapsed_ms), 0)
		FROM dispatches`).Scan(&m.TotalDispatches, &m.TotalBytes, &m.AvgLatencyMs)
	if err != nil {
		return m, fmt.Errorf("query summary: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT outcome, COUNT(*) FROM dispatches GROUP BY outcome`)
	if err != nil {
		return m, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return m, fmt.Errorf("scan outcome: %w", err)
		}
		m.ByOutcome[outcome] = n
	}
	return m, rows.Err()
}

func (s *SQLiteJournal) Close() error {
	return s.db.Close()
}
