// Package puppyos serves the PuppyOS web desktop: the bundled front end,
// client-side routing fallback, and the /ws WebSocket handshake.
//
// Example usage:
//
//	cfg, err := puppyos.LoadConfig("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv, err := puppyos.NewServer(puppyos.ServerConfig{
//	    App:    cfg,
//	    Logger: puppyos.NewLogger(os.Stderr, cfg.Level()),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer srv.Close()
//	http.ListenAndServe(cfg.Addr, srv.Handler())
package puppyos

import (
	"io"
	"log/slog"

	"github.com/hubenschmidt/go-puppyos/assets"
	"github.com/hubenschmidt/go-puppyos/config"
	"github.com/hubenschmidt/go-puppyos/core"
	"github.com/hubenschmidt/go-puppyos/server"
	"github.com/hubenschmidt/go-puppyos/server/store"
)

// Re-export asset modes for convenience
const (
	AssetsEmbedded   = config.AssetsEmbedded
	AssetsFilesystem = config.AssetsFilesystem
)

// Config aliases
type (
	Config    = config.Config
	AssetMode = config.AssetMode
)

// LoadConfig layers the TOML file at path (optional) and the environment
// over the defaults.
func LoadConfig(path string) (Config, error) {
	return config.Load(path)
}

// LoadDotenv seeds the environment from .env files.
func LoadDotenv(files ...string) error {
	return config.LoadDotenv(files...)
}

// Asset aliases
type (
	Asset       = assets.Asset
	AssetSource = assets.Source
)

// Core type aliases
type (
	Outcome       = core.Outcome
	DispatchError = core.DispatchError
)

// Server aliases
type (
	Server       = server.Server
	ServerConfig = server.Config
	Dispatcher   = server.Dispatcher
)

// NewServer creates a new server.
func NewServer(cfg ServerConfig) (*Server, error) {
	return server.New(cfg)
}

// NewLogger returns the text logger used by the server.
func NewLogger(w io.Writer, level slog.Leveler) *slog.Logger {
	return server.NewLogger(w, level)
}

// Journal aliases
type (
	Journal        = store.Journal
	DispatchRecord = store.DispatchRecord
	JournalSummary = store.JournalSummary
)

// OpenJournal opens the dispatch journal named by dsn.
func OpenJournal(dsn string) (Journal, error) {
	return store.NewJournal(dsn)
}
