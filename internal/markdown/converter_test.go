package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Extensions(t *testing.T) {
	c := NewConverter(Options{})

	out, err := c.Convert([]byte("# Alpha\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\n```go\nfmt.Println(1)\n```\n"))
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, `<h1 id="alpha">Alpha</h1>`)
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "<td>1</td>")
	assert.Contains(t, html, `<code class="language-go">`)
}

func TestConverter_HeadingIDsLeakWithoutReset(t *testing.T) {
	c := NewConverter(Options{})
	src := []byte("# Intro\n")

	first, err := c.Convert(src)
	require.NoError(t, err)
	second, err := c.Convert(src)
	require.NoError(t, err)

	assert.Contains(t, string(first), `id="intro"`)
	assert.Contains(t, string(second), `id="intro-1"`)
}

func TestConverter_ResetRoundTrip(t *testing.T) {
	c := NewConverter(Options{})
	src := []byte("# Intro\n\n## Usage\n\nSee [docs][ref].\n\n[ref]: https://example.com\n")

	first, err := c.Convert(src)
	require.NoError(t, err)
	c.Reset()
	second, err := c.Convert(src)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestConverter_SafeDropsRawHTML(t *testing.T) {
	src := []byte("<div class=\"note\">hi</div>\n")

	unsafe, err := NewConverter(Options{}).Convert(src)
	require.NoError(t, err)
	assert.Contains(t, string(unsafe), `<div class="note">`)

	safe, err := NewConverter(Options{Safe: true}).Convert(src)
	require.NoError(t, err)
	assert.NotContains(t, string(safe), `<div class="note">`)
}
