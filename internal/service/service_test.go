package service

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/templui/postindex/internal/storage"
)

// writeCorpus writes files (name -> contents) under a temp dir and returns a loader over it.
func writeCorpus(t *testing.T, files map[string]string) *Loader {
	t.Helper()

	dir := t.TempDir()
	for name, contents := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	}

	return NewLoader(storage.NewDir(dir, nil),
		WithWorkers(4),
		WithLogger(discard()),
	)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func post(title, date string, extra ...string) string {
	s := "---\nlayout: post\ntitle: \"" + title + "\"\ndate: " + date + "\n"
	for _, line := range extra {
		s += line + "\n"
	}
	return s + "---\nBody of " + title + ".\n"
}
