// Package site serves the embedded landing and methodology pages.
package site

import (
	"context"
	"net/http"
)

// Register attaches the site routes to mux.
//
//	GET /        -> landing page
//	GET /docs/*  -> static documentation pages
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	files := http.FileServer(FS())
	mux.Handle("GET /{$}", files)
	mux.Handle("GET /docs/", http.StripPrefix("/docs", files))
}
