package httpserver

import (
	_ "embed"
	"net/http"
)

//go:embed index.html
var indexHTML []byte

func (h *Handlers) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}
