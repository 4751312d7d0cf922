// Package static resolves request paths to files under a fixed root
// directory. The root is sandboxed with os.Root so resolved paths can
// never escape it, and directory requests fall back to an index
// document.
package static

import (
	"errors"
	"io"
	"os"
	"path"
	"strings"

	bboyzero "github.com/bboyyzero/bboyzero-net-site"
)

// IndexFile is the default document served for the root path and for
// directories.
const IndexFile = "index.html"

// contentTypes is the fixed extension lookup table. Unknown extensions
// fall back to a generic binary type.
var contentTypes = map[string]string{
	".html": "text/html; charset=utf-8",
	".css":  "text/css; charset=utf-8",
	".js":   "application/javascript; charset=utf-8",
	".json": "application/json; charset=utf-8",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".txt":  "text/plain; charset=utf-8",
}

// Resolver maps URL paths to files under a sandboxed root.
type Resolver struct {
	root *os.Root
}

// NewResolver creates a Resolver serving files from the given root.
func NewResolver(root *os.Root) *Resolver {
	return &Resolver{root: root}
}

// Resolve maps a URL path to an open file and its content type. The
// caller owns the returned reader and must close it. It returns
// bboyzero.ErrForbidden when the cleaned path escapes the root and
// bboyzero.ErrNotFound when no file exists.
func (rv *Resolver) Resolve(requestPath string) (io.ReadCloser, string, error) {
	rel := strings.TrimLeft(requestPath, "/")
	if rel == "" {
		rel = IndexFile
	}

	clean := path.Clean(rel)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return nil, "", bboyzero.ErrForbidden
	}

	if info, err := rv.root.Stat(clean); err == nil && info.IsDir() {
		clean = path.Join(clean, IndexFile)
	}

	f, err := rv.root.Open(clean)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", bboyzero.ErrNotFound
		}
		// os.Root refuses symlink escapes and the like
		return nil, "", bboyzero.ErrForbidden
	}

	return f, ContentType(clean), nil
}

// ContentType returns the content type for a file path based on its
// extension.
func ContentType(p string) string {
	if ct, ok := contentTypes[strings.ToLower(path.Ext(p))]; ok {
		return ct
	}
	return "application/octet-stream"
}
