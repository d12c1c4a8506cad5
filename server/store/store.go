package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a record is not found
var ErrNotFound = errors.New("not found")

// DispatchRecord is one finished request as seen by the dispatcher
type DispatchRecord struct {
	ID        string `json:"id"`
	RequestID string `json:"request_id"`
	Timestamp int64  `json:"timestamp"`
	Method    string `json:"method"`
	Path      string `json:"path"`
	Outcome   string `json:"outcome"`
	Status    int    `json:"status"`
	Bytes     int64  `json:"bytes"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

// JournalSummary contains aggregated dispatch counts
type JournalSummary struct {
	TotalDispatches int            `json:"total_dispatches"`
	TotalBytes      int64          `json:"total_bytes"`
	AvgLatencyMs    float64        `json:"avg_latency_ms"`
	ByOutcome       map[string]int `json:"by_outcome"`
}

// Journal defines the interface for dispatch persistence
type Journal interface {
	Add(ctx context.Context, r DispatchRecord) error
	Get(ctx context.Context, id string) (DispatchRecord, error)
	List(ctx context.Context, limit int) ([]DispatchRecord, error)
	Summary(ctx context.Context) (JournalSummary, error)
	Close() error
}

// Discard is a Journal that keeps nothing
type Discard struct{}

func (Discard) Add(ctx context.Context, r DispatchRecord) error { return nil }

func (Discard) Get(ctx context.Context, id string) (DispatchRecord, error) {
	return DispatchRecord{}, ErrNotFound
}

func (Discard) List(ctx context.Context, limit int) ([]DispatchRecord, error) { return nil, nil }

func (Discard) Summary(ctx context.Context) (JournalSummary, error) {
	return JournalSummary{ByOutcome: map[string]int{}}, nil
}

func (Discard) Close() error { return nil }
