package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hubenschmidt/go-puppyos/server/store/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresJournal implements Journal using PostgreSQL
type PostgresJournal struct {
	db *sql.DB
}

// NewPostgresJournal creates a PostgreSQL-backed dispatch journal
func NewPostgresJournal(dsn string) (*PostgresJournal, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := runPostgresMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresJournal{db: db}, nil
}

func runPostgresMigrations(db *sql.DB) error {
	data, err := migrations.Postgres.ReadFile("postgres/001_init.sql")
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	_, err = db.Exec(string(data))
	if err != nil {
		return fmt.Errorf("exec migration: %w", err)
	}
	return nil
}

func (s *PostgresJournal) Add(ctx context.Context, r DispatchRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO dispatches (
			id, request_id, timestamp, method, path, outcome, status, bytes, elapsed_ms
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			request_id = EXCLUDED.request_id,
			timestamp = EXCLUDED.timestamp,
			method = EXCLUDED.method,
			path = EXCLUDED.path,
			outcome = EXCLUDED.outcome,
			status = EXCLUDED.status,
			bytes = EXCLUDED.bytes,
			elapsed_ms = EXCLUDED.elapsed_ms`,
		r.ID, r.RequestID, r.Timestamp, r.Method, r.Path, r.Outcome, r.Status, r.Bytes, r.ElapsedMs,
	)
	if err != nil {
		return fmt.Errorf("insert dispatch: %w", err)
	}
	return nil
}

func (s *PostgresJournal) Get(ctx context.Context, id string) (DispatchRecord, error) {
	var r DispatchRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT id, request_id, timestamp, method, path, outcome, status, bytes, elapsed_ms
		FROM dispatches WHERE id = $1`, id).Scan(
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

func (s *PostgresJournal) List(ctx context.Context, limit int) ([]DispatchRecord, error) {
	var limitArg any
	if limit > 0 {
		limitArg = limit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, request_id, timestamp, method, path, outcome, status, bytes, elapsed_ms
		FROM dispatches ORDER BY timestamp DESC, id LIMIT $1`, limitArg)
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

func (s *PostgresJournal) Summary(ctx context.Context) (JournalSummary, error) {
	m := JournalSummary{ByOutcome: make(map[string]int)}
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(bytes), 0)::BIGINT,
			COALESCE(AVG(elapsed_ms), 0)::DOUBLE PRECISION
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

func (s *PostgresJournal) Close() error {
	return s.db.Close()
}
