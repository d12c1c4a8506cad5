package server

import (
	"net/http"
	"strconv"

	"github.com/hubenschmidt/go-puppyos/assets"
)

// errorBody is the only text a failed dispatch ever shows the client.
const errorBody = "error"

func respond(w http.ResponseWriter, a assets.Asset) {
	writeBody(w, a.MIMEType, a.Body)
}

// respondFallback serves the entry document for an unmatched path, so the
// client-side router can take over.
func respondFallback(w http.ResponseWriter, doc assets.Asset) {
	writeBody(w, "text/html", doc.Body)
}

func respondError(w http.ResponseWriter) {
	http.Error(w, errorBody, http.StatusInternalServerError)
}

func writeBody(w http.ResponseWriter, contentType string, body []byte) {
	h := w.Header()
	h.Set("Content-Type", contentType)
	h.Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
