package markdown

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/frontmatter"
)

// Format names the syntax of a front matter block.
type Format string

const (
	FormatNone Format = ""
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

var fences = map[string]Format{
	"---": FormatYAML,
	"+++": FormatTOML,
}

var bom = []byte("\ufeff")

var (
	ErrUnclosedFrontmatter = errors.New("front matter fence is not closed")
	ErrInvalidFrontmatter  = errors.New("front matter could not be decoded")
)

// Document is a content file split into its metadata and its verbatim body.
type Document struct {
	Format Format
	Meta   map[string]any
	Body   []byte
}

type Parser struct {
	md goldmark.Markdown
}

func NewParser() *Parser {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			extension.Typographer,
			&frontmatter.Extender{},
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithHardWraps(),
			goldmarkhtml.WithXHTML(),
		),
	)

	return &Parser{
		md: md,
	}
}

// Render converts a body to HTML. Only the preview command uses it.
func (p *Parser) Render(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	err := p.md.Convert(body, &buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Document splits source and decodes its front matter. A file without an opening
// fence has empty metadata and is all body.
func (p *Parser) Document(source []byte) (*Document, error) {
	format, header, body, err := Split(source)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Format: format,
		Meta:   make(map[string]any),
		Body:   body,
	}
	if format == FormatNone || len(bytes.TrimSpace(header)) == 0 {
		return doc, nil
	}

	meta, err := p.decode(format, header)
	if err != nil {
		return nil, err
	}
	if meta != nil {
		doc.Meta = meta
	}
	return doc, nil
}

func (p *Parser) decode(format Format, header []byte) (map[string]any, error) {
	fence := fenceFor(format)

	// Rebuild the block with clean fences so goldmark sees exactly what Split saw.
	var src bytes.Buffer
	src.WriteString(fence + "\n")
	src.Write(header)
	if !bytes.HasSuffix(header, []byte("\n")) {
		src.WriteByte('\n')
	}
	src.WriteString(fence + "\n")

	context := parser.NewContext()
	p.md.Parser().Parse(text.NewReader(src.Bytes()), parser.WithContext(context))

	data := frontmatter.Get(context)
	if data == nil {
		return nil, fmt.Errorf("%w: %s block not recognized", ErrInvalidFrontmatter, format)
	}

	var meta map[string]any
	err := data.Decode(&meta)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
	}
	return meta, nil
}

func fenceFor(format Format) string {
	for fence, f := range fences {
		if f == format {
			return fence
		}
	}
	return ""
}

// Split separates a leading front matter block from the body. The opening fence
// must be the first line of the file and the closing fence must match it. A
// leading UTF-8 byte order mark is dropped.
func Split(source []byte) (format Format, header, body []byte, err error) {
	source = bytes.TrimPrefix(source, bom)
	first, rest, found := cutLine(source)
	format, ok := fences[string(trimLine(first))]
	if !ok || !found {
		return FormatNone, nil, source, nil
	}

	offset := len(source) - len(rest)
	start := offset
	for len(rest) > 0 {
		var line []byte
		line, rest, _ = cutLine(rest)
		if string(trimLine(line)) == fenceFor(format) {
			return format, source[start:offset], rest, nil
		}
		offset = len(source) - len(rest)
	}

	return FormatNone, nil, nil, ErrUnclosedFrontmatter
}

// cutLine returns the first line of b without its newline and the remainder.
func cutLine(b []byte) (line, rest []byte, found bool) {
	i := bytes.IndexByte(b, '\n')
	if i < 0 {
		return b, nil, false
	}
	return b[:i], b[i+1:], true
}

func trimLine(line []byte) []byte {
	return bytes.TrimRight(line, " \t\r")
}
