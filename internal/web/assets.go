package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gin-contrib/static"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed assets
var assetFS embed.FS

func parseTemplates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

// embeddedAssets serves the compiled-in stylesheet through gin-contrib/static.
type embeddedAssets struct {
	http.FileSystem
}

func newEmbeddedAssets() static.ServeFileSystem {
	sub, err := fs.Sub(assetFS, "assets")
	if err != nil {
		panic(err)
	}
	return embeddedAssets{FileSystem: http.FS(sub)}
}

func (e embeddedAssets) Exists(prefix, path string) bool {
	name := strings.TrimPrefix(path, prefix)
	if name == path || name == "" || name == "/" {
		return false
	}
	f, err := e.Open(name)
	if err != nil {
		return false
	}
	defer f.Close()
	info, err := f.Stat()
	return err == nil && !info.IsDir()
}
