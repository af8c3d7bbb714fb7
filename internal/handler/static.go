package handler

import (
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// NewStaticHandler はSPAの静的ファイルを配信するハンドラーを返す。
// 存在しないパスはindex.htmlにフォールバックし、クライアントサイドルーティングを成立させる。
func NewStaticHandler(assets fs.FS) http.Handler {
	fileServer := http.FileServer(http.FS(assets))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
		if p == "" {
			p = "index.html"
		}

		if _, err := fs.Stat(assets, p); err != nil {
			// SPAのルートにフォールバック
			r.URL.Path = "/"
		}

		fileServer.ServeHTTP(w, r)
	})
}
