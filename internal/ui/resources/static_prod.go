//go:build !dev

package resources

import (
	"bytes"
	"embed"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"
)

//go:embed static/*
var staticFS embed.FS

type asset struct {
	body        []byte
	contentType string
}

var (
	loadOnce sync.Once
	assets   map[string]asset
	loadErr  error
	// served as the Last-Modified of every asset
	startedAt = time.Now()
)

// loadAssets minifies every embedded file once.
func loadAssets() (map[string]asset, error) {
	loadOnce.Do(func() {
		assets = make(map[string]asset)
		loadErr = fs.WalkDir(staticFS, "static", func(p string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			src, err := staticFS.ReadFile(p)
			if err != nil {
				return err
			}
			body, err := Minify(p, src)
			if err != nil {
				return err
			}
			ct := mime.TypeByExtension(path.Ext(p))
			if ct == "" {
				ct = http.DetectContentType(body)
			}
			assets[strings.TrimPrefix(p, "static/")] = asset{body: body, contentType: ct}
			return nil
		})
	})
	return assets, loadErr
}

// Handler returns an HTTP handler for the embedded, minified assets.
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		all, err := loadAssets()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		a, ok := all[strings.TrimPrefix(r.URL.Path, "/static/")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		// Cache embedded static assets for 1 year (they never change in prod)
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		w.Header().Set("Content-Type", a.contentType)
		http.ServeContent(w, r, r.URL.Path, startedAt, bytes.NewReader(a.body))
	})
}

// Dir returns the directory to watch for asset changes. Embedded assets never change.
func Dir() string {
	return ""
}
