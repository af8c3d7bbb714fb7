// Package web はサーバーに同梱するSPAの静的アセットを提供する。
package web

import (
	"embed"
	"io/fs"
)

//go:embed index.html app.js style.css
var assets embed.FS

// Assets は組み込み静的アセットのファイルシステムを返す。
func Assets() fs.FS {
	return assets
}
