package service

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedMetadata = errors.New("malformed metadata")
	ErrUnreadableFile    = errors.New("unreadable file")
	ErrPostNotFound      = errors.New("post not found")
	ErrAmbiguousSlug     = errors.New("slug matches more than one post")
)

// FileError ties a load failure to the content file it came from.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedMetadata, fmt.Sprintf(format, args...))
}
