package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// Converter turns markdown into an HTML fragment.
//
// Implementations may carry per-document state between calls (heading ID
// registries, link reference definitions). Reset discards it and must be
// called between documents.
type Converter interface {
	Convert(source []byte) ([]byte, error)
	Reset()
}

// Options controls the goldmark engine.
type Options struct {
	// HardWraps renders soft line breaks as <br>.
	HardWraps bool
	// Safe drops raw HTML from the markdown source.
	Safe bool
}

// GoldmarkConverter is a Converter backed by goldmark. Heading IDs and
// reference definitions live in a parser.Context that persists until Reset.
type GoldmarkConverter struct {
	md  goldmark.Markdown
	ctx parser.Context
}

var _ Converter = (*GoldmarkConverter)(nil)

// NewConverter builds a converter with tables, fenced code, footnotes,
// definition lists and automatic heading anchors.
func NewConverter(opts Options) *GoldmarkConverter {
	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if !opts.Safe {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			extension.DefinitionList,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithAttribute(),
		),
	}
	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}

	return &GoldmarkConverter{
		md:  goldmark.New(engineOptions...),
		ctx: parser.NewContext(),
	}
}

// Convert renders source using the converter's current parse context.
func (c *GoldmarkConverter) Convert(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.md.Convert(source, &buf, parser.WithContext(c.ctx)); err != nil {
		return nil, fmt.Errorf("markdown convert: %w", err)
	}
	return buf.Bytes(), nil
}

// Reset starts a fresh parse context for the next document.
func (c *GoldmarkConverter) Reset() {
	c.ctx = parser.NewContext()
}
