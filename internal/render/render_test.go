package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/simpledocs/internal/foundation/errors"
	"git.home.luguber.info/inful/simpledocs/internal/markdown"
)

// countingConverter records Reset calls around a real converter.
type countingConverter struct {
	markdown.Converter
	resets int
}

func (c *countingConverter) Reset() {
	c.resets++
	c.Converter.Reset()
}

func newTestRenderer(t *testing.T) (*Renderer, *countingConverter, Settings) {
	t.Helper()
	s := Settings{
		InputFolder:  t.TempDir(),
		OutputFolder: t.TempDir(),
		SiteTitle:    "Acme Docs",
		Year:         2026,
	}
	conv := &countingConverter{Converter: markdown.NewConverter(markdown.Options{})}
	r, err := New(s, conv)
	require.NoError(t, err)
	return r, conv, s
}

func writeDoc(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func readOut(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestRenderPage_WritesMirroredHTML(t *testing.T) {
	r, conv, s := newTestRenderer(t)
	writeDoc(t, s.InputFolder, "guide/install.md", "# Install\n\nRun `make`.\n")

	page, err := r.RenderPage("guide/install.md")
	require.NoError(t, err)

	want := filepath.Join(s.OutputFolder, "guide", "install.html")
	assert.Equal(t, want, page.OutputPath)
	assert.Equal(t, "Install", page.Title)
	assert.NotEmpty(t, page.Fingerprint)
	assert.Equal(t, 1, conv.resets)

	html := readOut(t, want)
	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "<title>Install - Acme Docs</title>")
	assert.Contains(t, html, `<link rel="stylesheet" href="/styles.css">`)
	assert.Contains(t, html, `<a href="/index.html">Home</a>`)
	assert.Contains(t, html, `<h1 id="install">Install</h1>`)
	assert.Contains(t, html, "<code>make</code>")
	assert.Contains(t, html, "&copy; 2026 Acme Docs.")
}

func TestRenderPage_DefaultTitle(t *testing.T) {
	r, _, s := newTestRenderer(t)
	writeDoc(t, s.InputFolder, "b.md", "just text\n")

	page, err := r.RenderPage("b.md")
	require.NoError(t, err)
	assert.Equal(t, DefaultTitle, page.Title)
	assert.Contains(t, readOut(t, page.OutputPath), "<title>Documentation - Acme Docs</title>")
}

func TestRenderPage_FrontMatterStrippedAndUsedForTitle(t *testing.T) {
	r, _, s := newTestRenderer(t)
	writeDoc(t, s.InputFolder, "a.md", "---\ntitle: Overview\n---\n# Heading\n")

	page, err := r.RenderPage("a.md")
	require.NoError(t, err)
	assert.Equal(t, "Overview", page.Title)
	assert.NotContains(t, string(page.Body), "title: Overview")
}

func TestRenderPage_MissingFile(t *testing.T) {
	r, conv, s := newTestRenderer(t)

	_, err := r.RenderPage("c.md")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryMissingFile))
	assert.NoFileExists(t, filepath.Join(s.OutputFolder, "c.html"))
	assert.Equal(t, 0, conv.resets)
}

func TestRenderPage_RejectsEscapingHref(t *testing.T) {
	r, _, _ := newTestRenderer(t)
	_, err := r.RenderPage("../secret.md")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryManifest))
}

func TestRenderPage_IdenticalAcrossRuns(t *testing.T) {
	r, _, s := newTestRenderer(t)
	writeDoc(t, s.InputFolder, "a.md", "# Intro\n\n## Intro\n")
	writeDoc(t, s.InputFolder, "b.md", "# Intro\n")

	first, err := r.RenderPage("a.md")
	require.NoError(t, err)
	firstHTML := readOut(t, first.OutputPath)

	b, err := r.RenderPage("b.md")
	require.NoError(t, err)
	assert.Contains(t, string(b.Body), `id="intro"`)

	second, err := r.RenderPage("a.md")
	require.NoError(t, err)
	assert.Equal(t, firstHTML, readOut(t, second.OutputPath))
}

func TestRenderIndex(t *testing.T) {
	r, _, s := newTestRenderer(t)

	out, err := r.RenderIndex("<ul>\n<li><a href=\"a.html\">Alpha</a></li>\n</ul>")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.OutputFolder, IndexFile), out)

	html := readOut(t, out)
	assert.Contains(t, html, "<title>Home - Acme Docs</title>")
	assert.Contains(t, html, "<h1>Welcome to Acme Docs</h1>")
	assert.Contains(t, html, "<h2>Table of Contents</h2>")
	assert.Contains(t, html, `<li><a href="a.html">Alpha</a></li>`)
}

func TestWrap_EscapesTitle(t *testing.T) {
	r, _, _ := newTestRenderer(t)
	out, err := r.Wrap("<script>", []byte("<p>ok</p>"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "<title>&lt;script&gt; - Acme Docs</title>")
	assert.Contains(t, string(out), "<p>ok</p>")
}

func TestWriteStylesheet(t *testing.T) {
	r, _, s := newTestRenderer(t)
	out, err := r.WriteStylesheet()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.OutputFolder, StylesheetFile), out)
	assert.Equal(t, string(Stylesheet()), readOut(t, out))
	assert.Contains(t, readOut(t, out), "article table th")
}

func TestNew_RequiresConverter(t *testing.T) {
	_, err := New(Settings{}, nil)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryInternal))
}
