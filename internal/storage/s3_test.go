package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestS3Names(t *testing.T) {
	s := newS3(nil, "bucket", "/blog/posts/", nil)

	tests := []struct {
		key  string
		name string
		ok   bool
	}{
		{"blog/posts/a.md", "a.md", true},
		{"blog/posts/2020/b.markdown", "2020/b.markdown", true},
		{"blog/posts/", "", false},
		{"blog/posts/2020/", "", false},
		{"blog/posts/c.png", "", false},
		{"blog/posts/.draft.md", "", false},
		{"blog/posts/.cache/d.md", "", false},
		{"other/e.md", "", false},
	}
	for _, tt := range tests {
		name, ok := s.name(tt.key)
		assert.Equal(t, tt.ok, ok, tt.key)
		assert.Equal(t, tt.name, name, tt.key)
	}

	assert.Equal(t, "blog/posts/2020/b.md", s.key("2020/b.md"))
}

func TestS3NoPrefix(t *testing.T) {
	s := newS3(nil, "bucket", "", []string{".md"})

	name, ok := s.name("a.md")
	assert.True(t, ok)
	assert.Equal(t, "a.md", name)
	assert.Equal(t, "a.md", s.key("a.md"))
}
