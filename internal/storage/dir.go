package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/karrick/godirwalk"
)

// Dir reads posts from a local directory tree.
type Dir struct {
	root string
	exts extensions
}

func NewDir(root string, exts []string) *Dir {
	return &Dir{
		root: filepath.Clean(root),
		exts: newExtensions(exts),
	}
}

func (d *Dir) Root() string {
	return d.root
}

func (d *Dir) List(ctx context.Context) ([]string, error) {
	var names []string

	err := godirwalk.Walk(d.root, &godirwalk.Options{
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if osPathname == d.root {
				return nil
			}

			if strings.HasPrefix(de.Name(), ".") {
				if de.IsDir() {
					return godirwalk.SkipThis
				}
				return nil
			}
			if de.IsDir() || !d.exts.match(de.Name()) {
				return nil
			}

			rel, err := filepath.Rel(d.root, osPathname)
			if err != nil {
				return err
			}
			names = append(names, filepath.ToSlash(rel))
			return nil
		},
		FollowSymbolicLinks: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", d.root, err)
	}

	sort.Strings(names)
	return names, nil
}

func (d *Dir) ReadFile(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrInvalid}
	}
	return os.ReadFile(filepath.Join(d.root, filepath.FromSlash(name)))
}
