package via

import (
	"io/fs"
	"net/http"
	"os"
	"strings"
)

// Static serves the files of dir under the URL prefix. Directory listings
// are not served.
func (v *V) Static(prefix, dir string) {
	v.StaticFS(prefix, os.DirFS(dir))
}

// StaticFS serves fsys under the URL prefix, e.g. an embed.FS with the
// application stylesheets. Directory listings are not served.
func (v *V) StaticFS(prefix string, fsys fs.FS) {
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	fileServer := http.StripPrefix(prefix, http.FileServerFS(fsys))
	v.mux.Handle("GET "+prefix, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		fileServer.ServeHTTP(w, r)
	}))
}
