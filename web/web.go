// Package web serves the embedded chat page.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var static embed.FS

// Handler serves the chat page at / and its assets.
func Handler() http.Handler {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		// the embedded tree is fixed at build time
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
