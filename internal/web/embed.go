package web

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.html static/*
var Files embed.FS

// StaticFS returns the static asset filesystem rooted at static/
func StaticFS() fs.FS {
	sub, err := fs.Sub(Files, "static")
	if err != nil {
		// the directory is embedded at build time
		panic(err)
	}
	return sub
}
