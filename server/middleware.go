package server

import (
	"bufio"
	"net"
	"net/http"
)

// recordingWriter tracks the status and body size of a response. It keeps
// Hijack working so the WebSocket handshake can take over the connection.
type recordingWriter struct {
	http.ResponseWriter
	status   int
	bytes    int64
	hijacked bool
}

func (rw *recordingWriter) WriteHeader(code int) {
	if rw.status == 0 {
		rw.status = code
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *recordingWriter) Write(b []byte) (int, error) {
	if rw.status == 0 {
		rw.status = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += int64(n)
	return n, err
}

func (rw *recordingWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	conn, brw, err := http.NewResponseController(rw.ResponseWriter).Hijack()
	if err == nil {
		rw.hijacked = true
		rw.status = http.StatusSwitchingProtocols
	}
	return conn, brw, err
}

func (rw *recordingWriter) Flush() {
	_ = http.NewResponseController(rw.ResponseWriter).Flush()
}

func (rw *recordingWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Status returns the status code sent, or 200 if nothing was written.
func (rw *recordingWriter) Status() int {
	if rw.status == 0 {
		return http.StatusOK
	}
	return rw.status
}
