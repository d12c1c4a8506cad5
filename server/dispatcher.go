package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hubenschmidt/go-puppyos/assets"
	"github.com/hubenschmidt/go-puppyos/config"
	"github.com/hubenschmidt/go-puppyos/core"
)

// Dispatcher routes each request to exactly one of: WebSocket handshake,
// static asset, entry document fallback, or a generic error. Every path
// writes a response.
type Dispatcher struct {
	cfg      config.Config
	source   assets.Source
	log      *slog.Logger
	upgrader websocket.Upgrader
}

func NewDispatcher(cfg config.Config, source assets.Source, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		cfg:    cfg,
		source: source,
		log:    logger,
		upgrader: websocket.Upgrader{
			HandshakeTimeout: 10 * time.Second,
			// any Origin may open the upgrade endpoint
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.Dispatch(w, r)
}

// Dispatch handles r and returns the terminal outcome.
func (d *Dispatcher) Dispatch(w http.ResponseWriter, r *http.Request) (outcome core.Outcome) {
	ctx := r.Context()
	l := loggerFrom(ctx, d.log)

	defer func() {
		if v := recover(); v != nil {
			l.Error("[server] dispatch panic", "panic", v)
			respondError(w)
			outcome = core.OutcomeErrored
		}
	}()

	if target, ok := detectUpgrade(r); ok {
		l.Info("[ws] upgrade request", "path", target)
		if target != d.cfg.UpgradePath {
			err := core.NewDispatchError("upgrade", target, core.ErrDisallowedUpgrade)
			l.Error("[ws] request error", "error", err)
			respondError(w)
			return core.OutcomeRejected
		}
		if err := handshake(&d.upgrader, w, r, l); err != nil {
			l.Error("[ws] handshake failed", "error", err)
			return core.OutcomeErrored
		}
		l.Debug("[ws] handshake complete, no session protocol; connection closed")
		return core.OutcomeUpgraded
	}

	logical := StripMountPrefix(r.URL.Path, d.cfg.MountPrefix)
	l.Debug("[assets] lookup", "path", logical, "mode", d.source.Mode().String())

	asset, err := d.source.Resolve(ctx, logical)
	switch {
	case err == nil:
		respond(w, asset)
		return core.OutcomeServed
	case errors.Is(err, core.ErrNotFound):
		return d.fallback(w, r, l)
	default:
		l.Error("[assets] request error", "error", err)
		respondError(w)
		return core.OutcomeErrored
	}
}

func (d *Dispatcher) fallback(w http.ResponseWriter, r *http.Request, l *slog.Logger) core.Outcome {
	doc, err := d.source.Resolve(r.Context(), "/"+d.cfg.EntryDocument)
	if err != nil {
		l.Error("[assets] entry document unavailable", "error", err)
		respondError(w)
		return core.OutcomeErrored
	}
	l.Debug("[assets] using entry document", "name", doc.Name)
	respondFallback(w, doc)
	return core.OutcomeFallback
}

// StripMountPrefix removes every occurrence of prefix from p. An empty
// prefix leaves p unchanged.
func StripMountPrefix(p, prefix string) string {
	if prefix == "" {
		return p
	}
	p = strings.ReplaceAll(p, prefix, "")
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}
