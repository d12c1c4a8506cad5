package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// detectUpgrade reports whether r asks to switch to WebSocket and, if so,
// the path it targets. It only looks at headers.
func detectUpgrade(r *http.Request) (string, bool) {
	if !websocket.IsWebSocketUpgrade(r) {
		return "", false
	}
	return r.URL.Path, true
}

// handshake completes the opening handshake (101 Switching Protocols) and
// then closes the connection with a normal-closure frame. No message
// protocol is defined for the endpoint yet, so no session is kept.
//
// On a malformed handshake the upgrader has already written a 4xx reply.
func handshake(u *websocket.Upgrader, w http.ResponseWriter, r *http.Request, l *slog.Logger) error {
	conn, err := u.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second)); err != nil {
		l.Debug("[ws] close frame", "error", err)
	}
	return conn.Close()
}
