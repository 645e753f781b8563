package storage

import (
	"context"
	"path"
	"strings"
)

// DefaultExtensions are the file extensions treated as posts when none are configured.
var DefaultExtensions = []string{".md", ".markdown"}

// Storage defines read access to a corpus of content files.
// Names are slash-separated and relative to the corpus root.
type Storage interface {
	// List returns the names of all content files, sorted
	List(ctx context.Context) ([]string, error)

	// ReadFile returns the raw bytes of one content file
	ReadFile(ctx context.Context, name string) ([]byte, error)
}

type extensions []string

func newExtensions(exts []string) extensions {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	out := make(extensions, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}

func (e extensions) match(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, want := range e {
		if ext == want {
			return true
		}
	}
	return false
}

// hidden reports whether any element of a slash-separated name starts with a dot.
func hidden(name string) bool {
	for _, part := range strings.Split(name, "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
