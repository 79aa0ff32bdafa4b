package handler

import (
	"io/fs"
	"net/http"
)

// indexHandler はランディングページを返す。
func indexHandler(assets fs.FS) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, assets, "index.html")
	}
}

// publicHandler は/public/配下の静的アセットを返す。
// ディレクトリ一覧は返さない。
func publicHandler(assets fs.FS) http.Handler {
	fileServer := http.StripPrefix("/public/", http.FileServerFS(assets))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Path[len("/public/"):]
		if name == "" || name[len(name)-1] == '/' {
			notFound(w, r)
			return
		}
		if _, err := fs.Stat(assets, name); err != nil {
			notFound(w, r)
			return
		}
		fileServer.ServeHTTP(w, r)
	})
}
