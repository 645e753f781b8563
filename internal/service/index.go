package service

import (
	"cmp"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/templui/postindex/internal/model"
)

// Index is an ordered view over a fixed set of posts: newest first, then by
// title, then by path. It never changes after NewIndex returns.
type Index struct {
	posts []*model.Post
}

type query struct {
	drafts   bool
	category string
}

type QueryOption func(*query)

// WithDrafts includes unpublished posts.
func WithDrafts() QueryOption {
	return func(q *query) {
		q.drafts = true
	}
}

// WithCategory keeps only posts tagged with category. An empty category is no filter.
func WithCategory(category string) QueryOption {
	return func(q *query) {
		q.category = strings.TrimSpace(category)
	}
}

func NewIndex(posts []*model.Post) *Index {
	sorted := make([]*model.Post, 0, len(posts))
	for _, p := range posts {
		if p != nil {
			sorted = append(sorted, p)
		}
	}
	slices.SortStableFunc(sorted, comparePosts)
	return &Index{posts: sorted}
}

func comparePosts(a, b *model.Post) int {
	if c := b.Date.Compare(a.Date); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Title, b.Title); c != 0 {
		return c
	}
	return cmp.Compare(a.Path, b.Path)
}

// Posts yields matching posts in index order. The sequence can be ranged over
// any number of times.
func (i *Index) Posts(opts ...QueryOption) iter.Seq[*model.Post] {
	var q query
	for _, opt := range opts {
		opt(&q)
	}

	return func(yield func(*model.Post) bool) {
		for _, p := range i.posts {
			if !p.Published && !q.drafts {
				continue
			}
			if q.category != "" && !p.HasCategory(q.category) {
				continue
			}
			if !yield(p) {
				return
			}
		}
	}
}

// Len is the number of posts, drafts included.
func (i *Index) Len() int {
	return len(i.posts)
}

// Post finds a published post by path or slug. Drafts are returned only with
// WithDrafts. A slug shared by posts in different directories is
// ErrAmbiguousSlug; the path picks one of them.
func (i *Index) Post(ref string, opts ...QueryOption) (*model.Post, error) {
	var matches []*model.Post
	for p := range i.Posts(opts...) {
		if p.Path == ref {
			return p, nil
		}
		if p.Slug == ref {
			matches = append(matches, p)
		}
	}

	switch len(matches) {
	case 0:
		return nil, ErrPostNotFound
	case 1:
		return matches[0], nil
	default:
		paths := make([]string, len(matches))
		for j, p := range matches {
			paths[j] = p.Path
		}
		return nil, fmt.Errorf("%w: %s matches %s", ErrAmbiguousSlug, ref, strings.Join(paths, ", "))
	}
}

// CategoryCount is a category and the number of published posts carrying it.
type CategoryCount struct {
	Name  string `json:"name"`
	Posts int    `json:"posts"`
}

// Categories lists distinct categories of published posts, sorted by name.
// Names that differ only in case are merged under the first spelling seen.
func (i *Index) Categories() []CategoryCount {
	counts := make(map[string]*CategoryCount)
	for p := range i.Posts() {
		for _, c := range p.Categories {
			key := strings.ToLower(c)
			cc, ok := counts[key]
			if !ok {
				cc = &CategoryCount{Name: c}
				counts[key] = cc
			}
			cc.Posts++
		}
	}

	out := make([]CategoryCount, 0, len(counts))
	for _, cc := range counts {
		out = append(out, *cc)
	}
	slices.SortFunc(out, func(a, b CategoryCount) int {
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return out
}
