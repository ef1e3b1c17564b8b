package markdown

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/simpledocs/internal/frontmatter"
)

const maxLineSize = 1024 * 1024

// ExtractTitle returns the text of the first level-1 heading in the markdown
// file at rel (relative to root). A missing file or a document without a
// heading yields ok=false.
func ExtractTitle(root, rel string) (title string, ok bool) {
	content, err := os.ReadFile(SourcePath(root, rel))
	if err != nil {
		return "", false
	}
	return firstHeading(content)
}

// ResolveTitle prefers a front matter "title" over the first H1.
func ResolveTitle(root, rel string) (string, bool) {
	content, err := os.ReadFile(SourcePath(root, rel))
	if err != nil {
		return "", false
	}
	return TitleFromSource(content)
}

// TitleFromSource resolves the display title of an in-memory document.
func TitleFromSource(content []byte) (string, bool) {
	if doc, err := frontmatter.Parse(content); err == nil {
		if title, ok := doc.Title(); ok {
			return title, true
		}
	}
	return firstHeading(content)
}

// SourcePath joins a slash-separated manifest path onto root.
func SourcePath(root, rel string) string {
	return filepath.Join(root, filepath.FromSlash(rel))
}

// firstHeading scans lines for "# text". A closed YAML front matter block is
// skipped; an unclosed one is ordinary markdown (a leading thematic break).
// The first matching line ends the scan even when its text is empty.
func firstHeading(content []byte) (string, bool) {
	if _, body, had, err := frontmatter.Split(content); err == nil && had {
		content = body
	}

	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "# ") {
			title := strings.TrimSpace(line[2:])
			return title, title != ""
		}
	}
	return "", false
}
