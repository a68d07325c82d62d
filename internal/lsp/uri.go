package lsp

import (
	"net/url"
	"path/filepath"
)

// uriToPath maps a file URI onto an absolute filesystem path. Plain
// paths pass through; non-file schemes resolve to nothing.
func uriToPath(uri string) string {
	if uri == "" {
		return ""
	}
	parsed, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	var path string
	switch parsed.Scheme {
	case "file":
		path = parsed.Path
	case "":
		path = uri
	default:
		return ""
	}
	if unescaped, err := url.PathUnescape(path); err == nil {
		path = unescaped
	}
	path = filepath.FromSlash(path)
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func pathToURI(path string) string {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}
