// Package frontmatter separates optional YAML front matter from a markdown body.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/inful/mdfp"
	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// front matter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Document is a markdown source split into front matter and body.
type Document struct {
	Raw    []byte         // front matter without delimiters; nil when absent
	Fields map[string]any // decoded front matter; empty when absent
	Body   []byte
}

// Split separates YAML front matter (`---` delimited) from the markdown body.
//
// If the document does not start with a delimiter line, had is false and body
// is the full input.
func Split(content []byte) (front []byte, body []byte, had bool, err error) {
	nl := detectNewline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return []byte{}, content[start+len(open):], true, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		// A closing delimiter on the very last line has no trailing newline.
		if bytes.HasSuffix(content, []byte(nl+"---")) {
			end := len(content) - len("---")
			return content[start:end], []byte{}, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}

	end := start + idx + len(nl)
	return content[start:end], content[start+idx+len(closeSeq):], true, nil
}

// Parse splits content and decodes its front matter.
func Parse(content []byte) (Document, error) {
	front, body, had, err := Split(content)
	if err != nil {
		return Document{}, err
	}
	doc := Document{Body: body, Fields: map[string]any{}}
	if !had {
		return doc, nil
	}
	fields, err := ParseYAML(front)
	if err != nil {
		return Document{}, fmt.Errorf("parse frontmatter: %w", err)
	}
	doc.Raw = front
	doc.Fields = fields
	return doc, nil
}

// ParseYAML parses raw YAML front matter (without --- delimiters) into a map.
func ParseYAML(front []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(front)) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(front, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// Title returns the trimmed string value of the "title" key.
func (d Document) Title() (string, bool) {
	title, ok := d.Fields["title"].(string)
	if !ok {
		return "", false
	}
	title = strings.TrimSpace(title)
	return title, title != ""
}

// Fingerprint is the mdfp content fingerprint of the document.
func (d Document) Fingerprint() string {
	front := strings.TrimSuffix(strings.ReplaceAll(string(d.Raw), "\r\n", "\n"), "\n")
	return mdfp.CalculateFingerprintFromParts(front, string(d.Body))
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
