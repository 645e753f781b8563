package model

import (
	"bytes"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Recognized front matter keys. Anything else is kept in Post.Meta only.
const (
	KeyLayout     = "layout"
	KeyTitle      = "title"
	KeyDate       = "date"
	KeyComments   = "comments"
	KeyCategories = "categories"
	KeyPublished  = "published"
)

const wordsPerMinute = 200

// Post is one content file. It is built once by the loader and not modified afterwards.
type Post struct {
	Path            string         `json:"path"`
	Slug            string         `json:"slug"`
	Layout          string         `json:"layout,omitempty"`
	Title           string         `json:"title"`
	Date            time.Time      `json:"date"`
	Categories      []string       `json:"categories"`
	Published       bool           `json:"published"`
	CommentsEnabled bool           `json:"comments"`
	Body            string         `json:"body"`
	Meta            map[string]any `json:"meta,omitempty"`
}

// HasCategory reports whether the post is tagged with tag, ignoring case.
func (p *Post) HasCategory(tag string) bool {
	for _, c := range p.Categories {
		if strings.EqualFold(c, tag) {
			return true
		}
	}
	return false
}

// DisplayTitle falls back to a title made from the slug when the header has none.
func (p *Post) DisplayTitle() string {
	if p.Title != "" {
		return p.Title
	}

	s := strings.ReplaceAll(p.Slug, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	caser := cases.Title(language.English)
	for i, word := range words {
		words[i] = caser.String(word)
	}
	return strings.Join(words, " ")
}

func (p *Post) ReadTime() int {
	words := strings.Fields(p.Body)
	readTime := len(words) / wordsPerMinute
	if readTime < 1 {
		readTime = 1
	}
	return readTime
}

// Frontmatter serializes Meta back into a fenced YAML block.
func (p *Post) Frontmatter() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")
	if len(p.Meta) > 0 {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		err := enc.Encode(p.Meta)
		if err != nil {
			return nil, err
		}
		err = enc.Close()
		if err != nil {
			return nil, err
		}
	}
	buf.WriteString("---\n")
	return buf.Bytes(), nil
}
