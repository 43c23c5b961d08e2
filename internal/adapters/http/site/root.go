// Package site serves the embedded score viewer.
package site

import (
	"context"
	"net/http"
)

// Register attaches the viewer to the root of mux. More specific API
// routes keep precedence.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("GET /", http.FileServer(FS()))
}
