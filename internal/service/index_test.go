package service

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/postindex/internal/model"
)

func collect(idx *Index, opts ...QueryOption) []*model.Post {
	return slices.Collect(idx.Posts(opts...))
}

func dates(posts []*model.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Date.Format("2006-01-02")
	}
	return out
}

func TestIndexExcludesDrafts(t *testing.T) {
	l := writeCorpus(t, map[string]string{
		"a.md": post("A", "2021-01-01"),
		"b.md": post("B", "2021-06-01", "published: false"),
		"c.md": post("C", "2021-03-01"),
	})
	corpus, err := l.Load(context.Background())
	require.NoError(t, err)
	idx := corpus.Index()

	assert.Equal(t, []string{"2021-03-01", "2021-01-01"}, dates(collect(idx)))
	assert.Equal(t, []string{"2021-06-01", "2021-03-01", "2021-01-01"}, dates(collect(idx, WithDrafts())))
	assert.Equal(t, 3, idx.Len())
}

func TestIndexFilterByCategory(t *testing.T) {
	l := writeCorpus(t, map[string]string{
		"1.md": post("One", "2021-01-01", "categories: [Rust]"),
		"2.md": post("Two", "2021-02-01", "categories: [Go]"),
		"3.md": post("Three", "2021-03-01", "categories: [Go, Rust]"),
		"4.md": post("Four", "2021-04-01"),
		"5.md": post("Five", "2021-05-01", "categories: [Python]"),
	})
	corpus, err := l.Load(context.Background())
	require.NoError(t, err)

	rust := collect(corpus.Index(), WithCategory("Rust"))
	require.Len(t, rust, 2)
	assert.Equal(t, "Three", rust[0].Title)
	assert.Equal(t, "One", rust[1].Title)

	assert.Len(t, collect(corpus.Index(), WithCategory("rust")), 2)
	assert.Empty(t, collect(corpus.Index(), WithCategory("Haskell")))
	assert.Len(t, collect(corpus.Index(), WithCategory("")), 5)
}

func TestIndexCategoryFilterSkipsDrafts(t *testing.T) {
	idx := NewIndex([]*model.Post{
		{Path: "a", Title: "A", Date: day("2021-01-01"), Categories: []string{"Go"}, Published: true},
		{Path: "b", Title: "B", Date: day("2021-02-01"), Categories: []string{"Go"}},
	})

	assert.Len(t, collect(idx, WithCategory("Go")), 1)
	assert.Len(t, collect(idx, WithCategory("Go"), WithDrafts()), 2)
}

func TestIndexOrder(t *testing.T) {
	idx := NewIndex([]*model.Post{
		{Path: "z", Title: "Beta", Date: day("2021-01-01"), Published: true},
		{Path: "y", Title: "Alpha", Date: day("2021-01-01"), Published: true},
		{Path: "x", Title: "Gamma", Date: day("2022-01-01"), Published: true},
		{Path: "b", Title: "Alpha", Date: day("2021-01-01"), Published: true},
		nil,
		{Path: "w", Title: "Old", Date: day("2019-01-01"), Published: true},
	})

	var paths []string
	for p := range idx.Posts() {
		paths = append(paths, p.Path)
	}
	assert.Equal(t, []string{"x", "b", "y", "z", "w"}, paths)

	posts := collect(idx)
	for i := 1; i < len(posts); i++ {
		a, b := posts[i-1], posts[i]
		assert.False(t, a.Date.Before(b.Date))
		if a.Date.Equal(b.Date) {
			assert.LessOrEqual(t, a.Title, b.Title)
		}
	}
}

func TestIndexIsPure(t *testing.T) {
	input := []*model.Post{
		{Path: "old", Date: day("2020-01-01"), Published: true},
		{Path: "new", Date: day("2021-01-01"), Published: true},
	}
	idx := NewIndex(input)

	assert.Equal(t, "old", input[0].Path)
	input[0] = &model.Post{Path: "replaced", Date: day("2030-01-01"), Published: true}
	assert.Equal(t, "new", collect(idx)[0].Path)
}

func TestIndexSequenceIsRestartable(t *testing.T) {
	idx := NewIndex([]*model.Post{
		{Path: "a", Date: day("2021-01-01"), Published: true},
		{Path: "b", Date: day("2021-01-02"), Published: true},
		{Path: "c", Date: day("2021-01-03"), Published: true},
	})
	seq := idx.Posts()

	var first []string
	for p := range seq {
		first = append(first, p.Path)
		if len(first) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"c", "b"}, first)

	assert.Len(t, slices.Collect(seq), 3)
	assert.Len(t, slices.Collect(seq), 3)
}

func TestIndexPost(t *testing.T) {
	idx := NewIndex([]*model.Post{
		{Slug: "live", Date: day("2021-01-01"), Published: true},
		{Slug: "draft", Date: day("2021-01-02")},
	})

	p, err := idx.Post("live")
	require.NoError(t, err)
	assert.Equal(t, "live", p.Slug)

	_, err = idx.Post("draft")
	assert.ErrorIs(t, err, ErrPostNotFound)

	p, err = idx.Post("draft", WithDrafts())
	require.NoError(t, err)
	assert.Equal(t, "draft", p.Slug)
}

func TestIndexPostSharedSlug(t *testing.T) {
	idx := NewIndex([]*model.Post{
		{Path: "2020/a.md", Slug: "a", Date: day("2020-01-01"), Published: true},
		{Path: "2021/a.md", Slug: "a", Date: day("2021-01-01"), Published: true},
	})

	_, err := idx.Post("a")
	assert.ErrorIs(t, err, ErrAmbiguousSlug)
	assert.ErrorContains(t, err, "2021/a.md, 2020/a.md")

	p, err := idx.Post("2020/a.md")
	require.NoError(t, err)
	assert.Equal(t, "2020/a.md", p.Path)
}

func TestIndexCategories(t *testing.T) {
	idx := NewIndex([]*model.Post{
		{Path: "a", Date: day("2021-01-01"), Published: true, Categories: []string{"Rust", "Go"}},
		{Path: "b", Date: day("2021-01-02"), Published: true, Categories: []string{"go"}},
		{Path: "c", Date: day("2021-01-03"), Categories: []string{"Secret"}},
	})

	assert.Equal(t, []CategoryCount{
		{Name: "go", Posts: 2},
		{Name: "Rust", Posts: 1},
	}, idx.Categories())
}
