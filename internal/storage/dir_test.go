package storage

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, names ...string) string {
	t.Helper()

	dir := t.TempDir()
	for _, name := range names {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(name), 0o644))
	}
	return dir
}

func TestDirList(t *testing.T) {
	dir := writeFiles(t,
		"b.md",
		"a.markdown",
		"2020/c.MD",
		"notes.txt",
		".hidden.md",
		".git/d.md",
		"drafts/.e.md",
	)

	names, err := NewDir(dir, nil).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"2020/c.MD", "a.markdown", "b.md"}, names)
}

func TestDirListExtensions(t *testing.T) {
	dir := writeFiles(t, "a.md", "b.txt", "c.mdx")

	names, err := NewDir(dir, []string{"txt", " .MDX "}).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"b.txt", "c.mdx"}, names)
}

func TestDirListMissingRoot(t *testing.T) {
	_, err := NewDir(filepath.Join(t.TempDir(), "nope"), nil).List(context.Background())
	assert.Error(t, err)
}

func TestDirReadFile(t *testing.T) {
	dir := writeFiles(t, "2020/a.md")
	d := NewDir(dir, nil)

	data, err := d.ReadFile(context.Background(), "2020/a.md")
	require.NoError(t, err)
	assert.Equal(t, "2020/a.md", string(data))

	_, err = d.ReadFile(context.Background(), "missing.md")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = d.ReadFile(context.Background(), "../escape.md")
	assert.ErrorIs(t, err, fs.ErrInvalid)
}
