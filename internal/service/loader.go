package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cast"
	"golang.org/x/sync/errgroup"

	"github.com/templui/postindex/internal/markdown"
	"github.com/templui/postindex/internal/model"
	"github.com/templui/postindex/internal/storage"
)

const defaultWorkers = 8

// datedName matches the YYYY-MM-DD-slug file naming convention.
var datedName = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-(.+)$`)

// Layouts cast does not know about but that show up in hand-written headers.
var extraDateLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02 15:04 -0700",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05 -07:00",
}

// TOML local dates and times carry these zones with the host's current offset.
var localZones = map[string]bool{
	"date-local":     true,
	"datetime-local": true,
	"time-local":     true,
}

// Corpus is the result of one load: the posts that parsed and the files that did not.
type Corpus struct {
	Posts  []*model.Post
	Errors []*FileError
}

// Index returns the index over the loaded posts.
func (c *Corpus) Index() *Index {
	return NewIndex(c.Posts)
}

type Loader struct {
	storage storage.Storage
	parser  *markdown.Parser
	workers int
	log     *slog.Logger
}

type LoaderOption func(*Loader)

// WithWorkers bounds how many files are parsed at once.
func WithWorkers(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

func WithLogger(log *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

func NewLoader(store storage.Storage, opts ...LoaderOption) *Loader {
	l := &Loader{
		storage: store,
		parser:  markdown.NewParser(),
		workers: defaultWorkers,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads every file in storage. Files that fail are logged, collected in
// Corpus.Errors and left out of Corpus.Posts. Only a failure to list the storage
// or a cancelled context aborts the load.
func (l *Loader) Load(ctx context.Context) (*Corpus, error) {
	names, err := l.storage.List(ctx)
	if err != nil {
		return nil, err
	}

	posts := make([]*model.Post, len(names))
	fileErrs := make([]*FileError, len(names))

	var g errgroup.Group
	g.SetLimit(l.workers)
	for i, name := range names {
		g.Go(func() error {
			post, err := l.LoadFile(ctx, name)
			if err != nil {
				var fe *FileError
				if !errors.As(err, &fe) {
					fe = &FileError{Path: name, Err: err}
				}
				fileErrs[i] = fe
				return nil
			}
			posts[i] = post
			return nil
		})
	}
	_ = g.Wait()

	err = ctx.Err()
	if err != nil {
		return nil, err
	}

	corpus := &Corpus{}
	for i := range names {
		if posts[i] != nil {
			corpus.Posts = append(corpus.Posts, posts[i])
		}
		if fileErrs[i] != nil {
			l.log.Warn("skipping post", "path", fileErrs[i].Path, "error", fileErrs[i].Err)
			corpus.Errors = append(corpus.Errors, fileErrs[i])
		}
	}

	l.log.Info("loaded corpus", "files", len(names), "posts", len(corpus.Posts), "errors", len(corpus.Errors))
	return corpus, nil
}

// LoadFile reads and parses a single file. Errors are *FileError.
func (l *Loader) LoadFile(ctx context.Context, name string) (*model.Post, error) {
	source, err := l.storage.ReadFile(ctx, name)
	if err != nil {
		return nil, &FileError{Path: name, Err: fmt.Errorf("%w: %v", ErrUnreadableFile, err)}
	}

	post, err := l.Parse(name, source)
	if err != nil {
		return nil, &FileError{Path: name, Err: err}
	}
	return post, nil
}

// Parse builds a Post from the raw contents of the file called name.
func (l *Loader) Parse(name string, source []byte) (*model.Post, error) {
	doc, err := l.parser.Document(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedMetadata, err)
	}

	slug, fileDate, hasFileDate := parseName(name)
	meta := doc.Meta

	post := &model.Post{
		Path: name,
		Slug: slug,
		Body: string(doc.Body),
		Meta: meta,
	}

	post.Layout, err = stringField(meta, model.KeyLayout)
	if err != nil {
		return nil, err
	}

	post.Title, err = stringField(meta, model.KeyTitle)
	if err != nil {
		return nil, err
	}

	post.Published, err = boolField(meta, model.KeyPublished, true)
	if err != nil {
		return nil, err
	}

	post.CommentsEnabled, err = boolField(meta, model.KeyComments, false)
	if err != nil {
		return nil, err
	}

	post.Categories, err = categoriesField(meta)
	if err != nil {
		return nil, err
	}

	date, ok := meta[model.KeyDate]
	switch {
	case ok && !isBlank(date):
		post.Date, err = parseDate(date)
		if err != nil {
			return nil, err
		}
	case hasFileDate:
		post.Date = fileDate
	default:
		return nil, malformed("missing %s", model.KeyDate)
	}

	return post, nil
}

// parseName derives the slug from a file name and, when the name carries a
// YYYY-MM-DD- prefix, the date.
func parseName(name string) (slug string, date time.Time, ok bool) {
	base := path.Base(name)
	base = strings.TrimSuffix(base, path.Ext(base))

	m := datedName.FindStringSubmatch(base)
	if m == nil {
		return base, time.Time{}, false
	}
	date, err := time.Parse("2006-01-02", m[1])
	if err != nil {
		return base, time.Time{}, false
	}
	return m[2], date, true
}

func parseDate(v any) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		if localZones[d.Location().String()] {
			return time.Date(d.Year(), d.Month(), d.Day(), d.Hour(), d.Minute(), d.Second(), d.Nanosecond(), time.UTC), nil
		}
		return d, nil
	case string:
		s := strings.TrimSpace(d)
		t, err := cast.ToTimeInDefaultLocationE(s, time.UTC)
		if err == nil {
			return t, nil
		}
		for _, layout := range extraDateLayouts {
			t, err := time.ParseInLocation(layout, s, time.UTC)
			if err == nil {
				return t, nil
			}
		}
		return time.Time{}, malformed("unparseable %s %q", model.KeyDate, d)
	default:
		return time.Time{}, malformed("unparseable %s %v", model.KeyDate, v)
	}
}

func stringField(meta map[string]any, key string) (string, error) {
	v, ok := meta[key]
	if !ok || v == nil {
		return "", nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", malformed("%s must be a string", key)
	}
	return s, nil
}

func boolField(meta map[string]any, key string, def bool) (bool, error) {
	v, ok := meta[key]
	if !ok || v == nil {
		return def, nil
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return def, malformed("%s must be a boolean", key)
	}
	return b, nil
}

// categoriesField accepts a list or a whitespace-separated string and returns
// the distinct names, compared without case, in order of first appearance.
func categoriesField(meta map[string]any) ([]string, error) {
	v, ok := meta[model.KeyCategories]
	if !ok || v == nil {
		return nil, nil
	}

	var raw []string
	switch c := v.(type) {
	case string:
		raw = strings.Fields(c)
	case []any:
		for _, item := range c {
			s, err := cast.ToStringE(item)
			if err != nil {
				return nil, malformed("%s entries must be strings", model.KeyCategories)
			}
			raw = append(raw, s)
		}
	default:
		s, err := cast.ToStringSliceE(v)
		if err != nil {
			return nil, malformed("%s must be a list", model.KeyCategories)
		}
		raw = s
	}

	seen := make(map[string]bool, len(raw))
	var out []string
	for _, c := range raw {
		c = strings.TrimSpace(c)
		key := strings.ToLower(c)
		if c == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out, nil
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}
