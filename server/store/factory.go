package store

import (
	"fmt"
	"strings"
)

// NewJournal creates a dispatch journal based on the DSN.
// - Empty DSN: journaling disabled (Discard)
// - postgres:// or postgresql://: PostgreSQL
// - Anything else: SQLite at the specified path
func NewJournal(dsn string) (Journal, error) {
	if dsn == "" {
		return Discard{}, nil
	}

	if IsPostgresDSN(dsn) {
		j, err := NewPostgresJournal(dsn)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return j, nil
	}

	return NewSQLiteJournal(dsn)
}

func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}
