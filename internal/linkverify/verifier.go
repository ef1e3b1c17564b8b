package linkverify

import (
	"context"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/simpledocs/internal/foundation/errors"
	"git.home.luguber.info/inful/simpledocs/internal/logfields"
)

// BrokenLink is an internal link whose target does not exist in the site.
type BrokenLink struct {
	Page   string `json:"page"`   // site-relative page containing the link
	URL    string `json:"url"`    // href as written
	Target string `json:"target"` // site-relative path the href resolved to
	Text   string `json:"text,omitempty"`
}

// Verifier checks that internal links in generated pages resolve to files
// under the site root.
type Verifier struct {
	root string
}

// NewVerifier creates a Verifier for the site rooted at root.
func NewVerifier(root string) *Verifier {
	return &Verifier{root: root}
}

// VerifySite scans every .html file under the root, in lexical order.
func (v *Verifier) VerifySite(ctx context.Context) ([]BrokenLink, error) {
	var pages []string
	err := filepath.WalkDir(v.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(p), ".html") {
			pages = append(pages, p)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to walk site").WithContext("path", v.root).Build()
	}
	sort.Strings(pages)

	var broken []BrokenLink
	for _, p := range pages {
		if err := ctx.Err(); err != nil {
			return broken, err
		}
		found, err := v.VerifyPage(p)
		if err != nil {
			return broken, err
		}
		broken = append(broken, found...)
	}
	return broken, nil
}

// VerifyPage checks the links of a single page file.
func (v *Verifier) VerifyPage(pagePath string) ([]BrokenLink, error) {
	links, err := ExtractLinks(pagePath)
	if err != nil {
		return nil, err
	}
	rel, err := filepath.Rel(v.root, pagePath)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "page outside site root").WithContext("path", pagePath).Build()
	}
	pageRel := filepath.ToSlash(rel)

	var broken []BrokenLink
	for _, link := range links {
		if !ShouldVerifyLink(link) {
			continue
		}
		target, ok := resolveTarget(pageRel, link.URL)
		if ok && v.exists(target) {
			continue
		}
		slog.Warn("Broken internal link",
			logfields.Path(pageRel),
			logfields.Href(link.URL))
		broken = append(broken, BrokenLink{Page: pageRel, URL: link.URL, Target: target, Text: link.Text})
	}
	return broken, nil
}

// resolveTarget maps an href found on pageRel to a site-relative slash path.
// Root-relative hrefs resolve against the site root, others against the
// page's directory. ok is false when the href escapes the site.
func resolveTarget(pageRel, href string) (string, bool) {
	u, err := url.Parse(href)
	if err != nil {
		return href, false
	}
	p, err := url.PathUnescape(u.Path)
	if err != nil {
		p = u.Path
	}

	var joined string
	if strings.HasPrefix(p, "/") {
		joined = path.Clean(strings.TrimPrefix(p, "/"))
	} else {
		joined = path.Join(path.Dir(pageRel), p)
	}
	if joined == "." || joined == "" {
		joined = "index.html"
	} else if strings.HasSuffix(p, "/") {
		joined = path.Join(joined, "index.html")
	}
	if joined == ".." || strings.HasPrefix(joined, "../") {
		return joined, false
	}
	return joined, true
}

func (v *Verifier) exists(target string) bool {
	info, err := os.Stat(filepath.Join(v.root, filepath.FromSlash(target)))
	if err != nil {
		return false
	}
	if info.IsDir() {
		_, err = os.Stat(filepath.Join(v.root, filepath.FromSlash(target), "index.html"))
		return err == nil
	}
	return true
}
