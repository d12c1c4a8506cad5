package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/hubenschmidt/go-puppyos"
	"github.com/hubenschmidt/go-puppyos/config"
	"github.com/hubenschmidt/go-puppyos/core"
)

func main() {
	configPath := flag.String("config", os.Getenv(config.EnvConfigFile), "Path to a TOML config file")
	journal := flag.Int("journal", 0, "Print the N most recent journaled dispatches and exit")
	flag.Parse()

	if err := puppyos.LoadDotenv(); err != nil {
		log.Printf("[config] %v", err)
	}

	cfg, err := puppyos.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("[config] %v", err)
	}

	logger := puppyos.NewLogger(os.Stderr, cfg.Level())
	slog.SetDefault(logger)

	if *journal > 0 {
		if err := printJournal(cfg.JournalDSN, *journal); err != nil {
			logger.Error("[store] read journal", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("[server] fatal", "error", err)
		os.Exit(1)
	}
}

func run(cfg puppyos.Config, logger *slog.Logger) error {
	// bind before opening the journal so a taken port fails at once
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", core.ErrBindFailure, cfg.Addr, err)
	}

	srv, err := puppyos.NewServer(puppyos.ServerConfig{App: cfg, Logger: logger})
	if err != nil {
		ln.Close()
		return err
	}
	defer func() {
		srv.LogSummary()
		if err := srv.Close(); err != nil {
			logger.Error("[server] close", "error", err)
		}
	}()

	banner(ln.Addr(), cfg)
	logger.Info("[server] listen", "addr", ln.Addr().String(), "mode", cfg.AssetMode.String(), "mount", cfg.MountPrefix)

	httpSrv := &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("[server] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

func banner(addr net.Addr, cfg puppyos.Config) {
	port := 0
	if tcp, ok := addr.(*net.TCPAddr); ok {
		port = tcp.Port
	}
	bold := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Printf("🐶 %s on http://localhost:%d%s/\n", bold("PuppyOS"), port, cfg.MountPrefix)
	fmt.Printf("   assets: %s, websocket: %s\n", cfg.AssetMode, cfg.UpgradePath)
	fmt.Println("Press Ctrl+C to stop")
}

func printJournal(dsn string, n int) error {
	if dsn == "" {
		return fmt.Errorf("%s is not set", config.EnvJournalDSN)
	}
	j, err := puppyos.OpenJournal(dsn)
	if err != nil {
		return err
	}
	defer j.Close()

	records, err := j.List(context.Background(), n)
	if err != nil {
		return err
	}

	for _, r := range records {
		ts := time.UnixMilli(r.Timestamp)
		fmt.Printf("%s  %s %-6s %-40s %s %8s %dms\n",
			ts.Format(time.RFC3339),
			outcomeColor(core.Outcome(r.Outcome)).Sprintf("%-8s", r.Outcome),
			r.Method, r.Path,
			statusColor(r.Status).Sprint(r.Status),
			humanize.Bytes(uint64(r.Bytes)),
			r.ElapsedMs,
		)
	}

	sum, err := j.Summary(context.Background())
	if err != nil {
		return err
	}
	fmt.Println(formatSummary(sum))
	return nil
}

func formatSummary(sum puppyos.JournalSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d dispatches, %s, avg %.1fms", sum.TotalDispatches, humanize.Bytes(uint64(sum.TotalBytes)), sum.AvgLatencyMs)
	for _, o := range core.Outcomes {
		if n := sum.ByOutcome[string(o)]; n > 0 {
			fmt.Fprintf(&b, ", %s=%d", o, n)
		}
	}
	return b.String()
}

func outcomeColor(o core.Outcome) *color.Color {
	switch o {
	case core.OutcomeServed, core.OutcomeUpgraded:
		return color.New(color.FgGreen)
	case core.OutcomeFallback:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

func statusColor(status int) *color.Color {
	if status >= 500 {
		return color.New(color.FgRed)
	}
	return color.New(color.FgGreen)
}
