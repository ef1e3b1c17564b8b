// Package toc loads the table-of-contents manifest that drives navigation and
// decides which markdown files are rendered.
package toc

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/simpledocs/internal/foundation/errors"
)

// Entry is one node of the manifest. An entry with neither Href nor Topics is
// legal and contributes nothing.
type Entry struct {
	Href   string  `yaml:"href,omitempty"`
	Topics []Entry `yaml:"topics,omitempty"`
}

// Load reads and parses the manifest at path. A missing file is a config
// error; a file that cannot be parsed is a manifest error.
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ferrors.ConfigError("toc manifest not found").
				WithCause(err).
				WithContext("path", path).
				Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "read toc manifest").
			Fatal().
			WithContext("path", path).
			Build()
	}
	entries, err := Parse(data)
	if err != nil {
		var classified *ferrors.ClassifiedError
		if errors.As(err, &classified) {
			return nil, classified.WithContext("path", path)
		}
		return nil, err
	}
	return entries, nil
}

// Parse decodes a manifest document. An empty document is an empty manifest.
func Parse(data []byte) ([]Entry, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryManifest, "parse toc manifest").Fatal().Build()
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return []Entry{}, nil
	}

	doc := root.Content[0]
	if doc.Kind == yaml.ScalarNode && doc.Tag == "!!null" {
		return []Entry{}, nil
	}
	if doc.Kind != yaml.SequenceNode {
		return nil, ferrors.ManifestError("toc manifest must be a sequence of entries").
			WithContext("line", doc.Line).
			Build()
	}

	entries := make([]Entry, 0, len(doc.Content))
	if err := doc.Decode(&entries); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryManifest, "decode toc entries").Fatal().Build()
	}
	return entries, nil
}

// Flatten lists every non-empty href depth-first in manifest order. Topics of
// entries without an href are still visited.
func Flatten(entries []Entry) []string {
	var out []string
	stack := make([]Entry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		stack = append(stack, entries[i])
	}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if e.Href != "" {
			out = append(out, e.Href)
		}
		for i := len(e.Topics) - 1; i >= 0; i-- {
			stack = append(stack, e.Topics[i])
		}
	}
	return out
}

// HTMLPath rewrites a markdown href to the page it is rendered to.
// Hrefs without a markdown extension get ".html" appended. A fragment or
// query is kept after the rewritten path.
func HTMLPath(href string) string {
	file, suffix := href, ""
	if i := strings.IndexAny(href, "#?"); i >= 0 {
		file, suffix = href[:i], href[i:]
	}
	ext := path.Ext(file)
	switch strings.ToLower(ext) {
	case ".md", ".markdown":
		return strings.TrimSuffix(file, ext) + ".html" + suffix
	default:
		return file + ".html" + suffix
	}
}
