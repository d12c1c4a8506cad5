// Package web holds the bundled front end.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static/*
var assets embed.FS

// Static returns the bundled static tree rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
