// Package markdown turns stored document bodies into HTML for the
// rendered-view endpoint and extracts display titles.
package markdown

import (
	"bytes"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

type Renderer struct {
	md goldmark.Markdown
}

func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

type meta struct {
	Title string `yaml:"title" toml:"title" json:"title"`
}

// Render converts markdown to HTML. YAML/TOML front matter is stripped
// before conversion; raw HTML in the source stays escaped (goldmark default).
func (r *Renderer) Render(src []byte) ([]byte, error) {
	body, _ := stripFrontMatter(src)
	var buf bytes.Buffer
	if err := r.md.Convert(body, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Title returns the front matter title when present, else the text of the
// first ATX heading, else "".
func Title(src []byte) string {
	body, m := stripFrontMatter(src)
	if m.Title != "" {
		return m.Title
	}
	for _, line := range strings.Split(string(body), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			return strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
		}
	}
	return ""
}

func stripFrontMatter(src []byte) ([]byte, meta) {
	var m meta
	rest, err := frontmatter.Parse(bytes.NewReader(src), &m)
	if err != nil {
		// malformed front matter: render the document as-is
		return src, meta{}
	}
	return rest, m
}
