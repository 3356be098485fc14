// Package web serves the relay's browser frontend. The page is embedded so
// the binary runs without any files next to it; a directory on disk can
// replace it.
package web

import (
	"embed"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
)

//go:embed public/*
var staticFiles embed.FS

// GetFileSystem returns the embedded filesystem with the public folder as root.
func GetFileSystem() (fs.FS, error) {
	return fs.Sub(staticFiles, "public")
}

// FileSystem picks the frontend source: dir when it holds an index.html,
// otherwise the embedded copy.
func FileSystem(dir string) (fs.FS, error) {
	if dir != "" {
		if _, err := os.Stat(filepath.Join(dir, "index.html")); err == nil {
			return os.DirFS(dir), nil
		}
	}
	return GetFileSystem()
}

// RegisterStaticRoutes registers the frontend routes with Echo.
// The relay routes should be registered before calling this function.
func RegisterStaticRoutes(e *echo.Echo, dir string) error {
	staticFS, err := FileSystem(dir)
	if err != nil {
		return err
	}

	fileServer := http.FileServer(http.FS(staticFS))

	e.GET("/*", func(c echo.Context) error {
		requestPath := path.Clean(c.Request().URL.Path)
		name := strings.TrimPrefix(requestPath, "/")
		if name == "" {
			return serveIndexHTML(c, staticFS)
		}

		stat, err := fs.Stat(staticFS, name)
		if err != nil || stat.IsDir() {
			return serveIndexHTML(c, staticFS)
		}

		fileServer.ServeHTTP(c.Response(), c.Request())
		return nil
	})

	return nil
}

// serveIndexHTML serves the main page for any path without a file behind it
func serveIndexHTML(c echo.Context, staticFS fs.FS) error {
	indexFile, err := staticFS.Open("index.html")
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "index.html not found")
	}
	defer indexFile.Close()

	content, err := io.ReadAll(indexFile)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to read index.html")
	}

	return c.HTMLBlob(http.StatusOK, content)
}
