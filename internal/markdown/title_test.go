package markdown

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func TestExtractTitle(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "a.md", "intro text\n## Not this\n#   Alpha Guide  \nmore\n# Second\n")
	writeDoc(t, root, "b.md", "no heading here\n#hashtag\n")
	writeDoc(t, root, "guide/c.md", "  # Indented\n")
	writeDoc(t, root, "empty.md", "# \n# Later\n")
	writeDoc(t, root, "fm.md", "---\n# yaml comment\ntags: [x]\n---\n# Real\n")
	writeDoc(t, root, "rule.md", "---\n\n# Alpha\n\nBody text.\n")
	writeDoc(t, root, "crlf.md", "---\r\n# yaml comment\r\n---\r\n# Windows\r\n")

	cases := []struct {
		rel    string
		want   string
		wantOK bool
	}{
		{"a.md", "Alpha Guide", true},
		{"b.md", "", false},
		{"guide/c.md", "Indented", true},
		{"empty.md", "", false},
		{"fm.md", "Real", true},
		{"rule.md", "Alpha", true},
		{"crlf.md", "Windows", true},
		{"missing.md", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.rel, func(t *testing.T) {
			got, ok := ExtractTitle(root, tc.rel)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolveTitle_FrontMatterWins(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "a.md", "---\ntitle: From Front Matter\n---\n# From Heading\n")
	writeDoc(t, root, "b.md", "---\nweight: 2\n---\n# From Heading\n")

	got, ok := ResolveTitle(root, "a.md")
	require.True(t, ok)
	assert.Equal(t, "From Front Matter", got)

	got, ok = ResolveTitle(root, "b.md")
	require.True(t, ok)
	assert.Equal(t, "From Heading", got)

	got, ok = TitleFromSource([]byte("---\n\n# After Rule\n"))
	require.True(t, ok)
	assert.Equal(t, "After Rule", got)

	_, ok = ResolveTitle(root, "nope.md")
	assert.False(t, ok)
}

func TestExtractTitle_DoesNotTouchConverter(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "a.md", "# Intro\n")
	c := NewConverter(Options{})

	_, _ = ExtractTitle(root, "a.md")
	out, err := c.Convert([]byte("# Intro\n"))
	require.NoError(t, err)
	assert.Contains(t, string(out), `id="intro"`)
}
