// Package web はランディングページと静的アセットを埋め込みで提供する。
package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var content embed.FS

// Static は静的アセットのルートをstatic/に合わせたファイルシステムを返す。
func Static() fs.FS {
	sub, err := fs.Sub(content, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
