package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	fm, body, had, err := Split(input)
	require.NoError(t, err)
	require.False(t, had)
	require.Empty(t, fm)
	require.Equal(t, input, body)
}

func TestSplit_YAMLFrontmatter_SplitsFrontmatterAndBody(t *testing.T) {
	input := []byte("---\ntitle: Guide\n---\n# Title\n")

	fm, body, had, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("title: Guide\n"), fm)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestSplit_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	_, _, had, err := Split([]byte("---\nkey: value\n# Title\n"))
	require.Error(t, err)
	require.False(t, had)
	require.True(t, errors.Is(err, ErrMissingClosingDelimiter))
}

func TestSplit_CRLF_SplitsFrontmatterAndBody(t *testing.T) {
	fm, body, had, err := Split([]byte("---\r\nkey: value\r\n---\r\n# Title\r\n"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("key: value\r\n"), fm)
	require.Equal(t, []byte("# Title\r\n"), body)
}

func TestSplit_EmptyBlock(t *testing.T) {
	fm, body, had, err := Split([]byte("---\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, had)
	require.Empty(t, fm)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestSplit_ClosingDelimiterAtEOF(t *testing.T) {
	fm, body, had, err := Split([]byte("---\ntitle: Only\n---"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("title: Only\n"), fm)
	require.Empty(t, body)
}

func TestParse_Title(t *testing.T) {
	doc, err := Parse([]byte("---\ntitle: \"  Install Guide \"\n# yaml comment\n---\nbody\n"))
	require.NoError(t, err)
	title, ok := doc.Title()
	require.True(t, ok)
	require.Equal(t, "Install Guide", title)
	require.Equal(t, []byte("body\n"), doc.Body)
}

func TestParse_NoFrontmatter(t *testing.T) {
	doc, err := Parse([]byte("# Alpha\n"))
	require.NoError(t, err)
	_, ok := doc.Title()
	require.False(t, ok)
	require.Nil(t, doc.Raw)
	require.Equal(t, []byte("# Alpha\n"), doc.Body)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("---\n: not yaml\n---\nbody\n"))
	require.Error(t, err)
}

func TestParseYAML_Empty_ReturnsEmptyMap(t *testing.T) {
	fields, err := ParseYAML(nil)
	require.NoError(t, err)
	require.Empty(t, fields)
}

func TestFingerprint_StableAndContentSensitive(t *testing.T) {
	a, err := Parse([]byte("---\ntitle: A\n---\nbody\n"))
	require.NoError(t, err)
	b, err := Parse([]byte("---\r\ntitle: A\r\n---\r\nbody\n"))
	require.NoError(t, err)
	c, err := Parse([]byte("---\ntitle: A\n---\nother body\n"))
	require.NoError(t, err)

	require.NotEmpty(t, a.Fingerprint())
	require.Equal(t, a.Fingerprint(), b.Fingerprint())
	require.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}
