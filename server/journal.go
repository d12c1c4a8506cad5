package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hubenschmidt/go-puppyos/server/store"
)

const (
	journalBuffer  = 256
	journalTimeout = 2 * time.Second
)

// journalWriter persists dispatch records off the request path. Records
// are dropped, not queued without bound, when the store falls behind.
type journalWriter struct {
	journal store.Journal
	log     *slog.Logger
	records chan store.DispatchRecord
	done    chan struct{}

	mu     sync.RWMutex
	closed bool
}

func newJournalWriter(j store.Journal, logger *slog.Logger) *journalWriter {
	w := &journalWriter{
		journal: j,
		log:     logger,
		records: make(chan store.DispatchRecord, journalBuffer),
		done:    make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *journalWriter) enqueue(r store.DispatchRecord) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return
	}
	select {
	case w.records <- r:
	default:
		w.log.Warn("[store] journal queue full, dropping record", "request_id", r.RequestID)
	}
}

func (w *journalWriter) run() {
	defer close(w.done)
	for r := range w.records {
		ctx, cancel := context.WithTimeout(context.Background(), journalTimeout)
		if err := w.journal.Add(ctx, r); err != nil {
			w.log.Warn("[store] journal write failed", "request_id", r.RequestID, "error", err)
		}
		cancel()
	}
}

// close stops accepting records and waits for queued ones to be written.
func (w *journalWriter) close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.records)
	w.mu.Unlock()
	<-w.done
}
