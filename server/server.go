package server

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/hubenschmidt/go-puppyos/assets"
	"github.com/hubenschmidt/go-puppyos/config"
	"github.com/hubenschmidt/go-puppyos/core"
	"github.com/hubenschmidt/go-puppyos/monitor"
	"github.com/hubenschmidt/go-puppyos/server/store"
	"github.com/hubenschmidt/go-puppyos/web"
)

// Config configures a new Server instance.
type Config struct {
	App    config.Config
	Logger *slog.Logger
	Bundle fs.FS // Optional: compiled-in tree for embedded mode (default: web.Static())

	Source    assets.Source            // Optional: inject a ready asset source
	Journal   store.Journal            // Optional: inject a journal instead of opening App.JournalDSN
	Collector monitor.MetricsCollector // Optional: default is an in-memory collector
}

// Server serves the bundled front end and the WebSocket handshake endpoint.
type Server struct {
	cfg        config.Config
	log        *slog.Logger
	source     assets.Source
	dispatcher *Dispatcher
	journal    store.Journal
	writer     *journalWriter
	collector  monitor.MetricsCollector
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if err := cfg.App.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	source := cfg.Source
	if source == nil {
		bundle := cfg.Bundle
		if bundle == nil {
			bundle = web.Static()
		}
		s, err := assets.NewSource(cfg.App, bundle)
		if err != nil {
			return nil, fmt.Errorf("initialize assets: %w", err)
		}
		source = s
	}
	switch s := source.(type) {
	case *assets.Embedded:
		logger.Info("[assets] Using embedded bundle", "files", s.Len())
	case *assets.Filesystem:
		logger.Info("[assets] Using static files", "dir", s.Dir())
	}

	journal := cfg.Journal
	if journal == nil {
		j, err := store.NewJournal(cfg.App.JournalDSN)
		if err != nil {
			source.Close()
			return nil, fmt.Errorf("initialize journal: %w", err)
		}
		journal = j
	}

	var writer *journalWriter
	if _, disabled := journal.(store.Discard); !disabled {
		writer = newJournalWriter(journal, logger)
		logger.Info("[store] Dispatch journal enabled")
	}

	collector := cfg.Collector
	if collector == nil {
		collector = monitor.NewInMemoryCollector()
	}

	return &Server{
		cfg:        cfg.App,
		log:        logger,
		source:     source,
		dispatcher: NewDispatcher(cfg.App, source, logger),
		journal:    journal,
		writer:     writer,
		collector:  collector,
	}, nil
}

// Handler returns the http.Handler that dispatches every request.
func (s *Server) Handler() http.Handler {
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := uuid.NewString()

	l := s.log.With("request_id", requestID)
	r = r.WithContext(withLogger(r.Context(), l))
	l.Info(r.Method + " " + r.URL.RequestURI())
	l.Debug("[server] agent", "user_agent", r.UserAgent())

	rw := &recordingWriter{ResponseWriter: w}
	outcome := s.dispatcher.Dispatch(rw, r)
	elapsed := time.Since(start)

	l.Info("[server] dispatched",
		"outcome", string(outcome),
		"status", rw.Status(),
		"size", humanize.Bytes(uint64(rw.bytes)),
		"elapsed", elapsed,
	)

	s.collector.Record(monitor.DispatchMetrics{
		Outcome:  outcome,
		Status:   rw.Status(),
		Bytes:    rw.bytes,
		Duration: elapsed,
	})

	if s.writer != nil {
		s.writer.enqueue(store.DispatchRecord{
			ID:        uuid.NewString(),
			RequestID: requestID,
			Timestamp: start.UnixMilli(),
			Method:    r.Method,
			Path:      r.URL.Path,
			Outcome:   string(outcome),
			Status:    rw.Status(),
			Bytes:     rw.bytes,
			ElapsedMs: elapsed.Milliseconds(),
		})
	}
}

// Summary returns the in-process outcome counts since start.
func (s *Server) Summary() monitor.Summary {
	return s.collector.Flush()
}

// LogSummary writes the collector totals at info level.
func (s *Server) LogSummary() {
	sum := s.Summary()
	args := []any{"total", sum.Total, "size", humanize.Bytes(uint64(sum.Bytes)), "uptime", sum.EndTime.Sub(sum.StartTime).Round(time.Second)}
	for _, o := range core.Outcomes {
		args = append(args, string(o), sum.Outcomes[o].Count)
	}
	s.log.Info("[server] dispatch summary", args...)
}

// Close flushes the journal and releases resources.
func (s *Server) Close() error {
	if s.writer != nil {
		s.writer.close()
	}
	var errs []error
	if err := s.journal.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close journal: %w", err))
	}
	if err := s.source.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close assets: %w", err))
	}
	return errors.Join(errs...)
}
