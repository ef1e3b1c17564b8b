// Package render converts markdown pages into complete HTML documents and
// writes them under the output folder.
package render

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/simpledocs/internal/foundation/errors"
	"git.home.luguber.info/inful/simpledocs/internal/frontmatter"
	"git.home.luguber.info/inful/simpledocs/internal/logfields"
	"git.home.luguber.info/inful/simpledocs/internal/markdown"
	"git.home.luguber.info/inful/simpledocs/internal/toc"
)

const (
	// IndexFile is the landing page written at the output root.
	IndexFile = "index.html"
	// StylesheetFile is the single stylesheet written at the output root.
	StylesheetFile = "styles.css"
	// DefaultTitle is used for pages without a front matter title or H1.
	DefaultTitle = "Documentation"
	// IndexTitle is the <title> of the landing page.
	IndexTitle = "Home"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed assets/styles.css
var stylesheet []byte

// Stylesheet returns the embedded stylesheet content.
func Stylesheet() []byte { return bytes.Clone(stylesheet) }

// Settings are fixed for one build.
type Settings struct {
	InputFolder  string
	OutputFolder string
	SiteTitle    string
	Year         int
}

// Page is one rendered markdown file.
type Page struct {
	SourcePath  string // manifest href, slash separated
	OutputPath  string // file written under the output folder
	Title       string
	Body        []byte // converted HTML fragment
	Fingerprint string
}

type pageData struct {
	Title     string
	SiteTitle string
	Year      int
	Body      template.HTML
}

type indexData struct {
	SiteTitle string
	Nav       template.HTML
}

// Renderer owns the converter for the whole build and resets it after every page.
type Renderer struct {
	settings  Settings
	converter markdown.Converter
	page      *template.Template
	index     *template.Template
}

// New parses the embedded templates.
func New(settings Settings, converter markdown.Converter) (*Renderer, error) {
	if converter == nil {
		return nil, ferrors.InternalError("renderer requires a markdown converter").Build()
	}
	page, err := template.ParseFS(templateFS, "templates/page.html.tmpl")
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "parse page template").Fatal().Build()
	}
	index, err := template.ParseFS(templateFS, "templates/index.html.tmpl")
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "parse index template").Fatal().Build()
	}
	return &Renderer{settings: settings, converter: converter, page: page, index: index}, nil
}

// Wrap places an HTML fragment into the page template.
func (r *Renderer) Wrap(title string, body []byte) ([]byte, error) {
	var buf bytes.Buffer
	err := r.page.Execute(&buf, pageData{
		Title:     title,
		SiteTitle: r.settings.SiteTitle,
		Year:      r.settings.Year,
		Body:      template.HTML(body), // #nosec G203 -- converter output
	})
	if err != nil {
		return nil, ferrors.RenderError("execute page template").WithCause(err).WithContext("title", title).Build()
	}
	return buf.Bytes(), nil
}

// RenderPage converts the markdown file at rel and writes the mirrored .html
// file. A missing source yields a MissingFileError and nothing is written.
func (r *Renderer) RenderPage(rel string) (*Page, error) {
	local := filepath.FromSlash(rel)
	if !filepath.IsLocal(local) {
		return nil, ferrors.ManifestError("href escapes the input folder").WithContext("path", rel).Build()
	}

	src := filepath.Join(r.settings.InputFolder, local)
	content, err := os.ReadFile(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ferrors.MissingFileError(rel).WithCause(err).Build()
		}
		return nil, ferrors.FileSystemError("read markdown file").WithCause(err).WithContext("path", src).Build()
	}

	// The converter carries heading IDs between calls; clear them for the next page.
	defer r.converter.Reset()

	doc, err := frontmatter.Parse(content)
	if err != nil {
		slog.Debug("Ignoring unparsable front matter", logfields.Path(rel), logfields.Error(err))
		doc = frontmatter.Document{Body: content}
	}

	body, err := r.converter.Convert(doc.Body)
	if err != nil {
		return nil, ferrors.RenderError("convert markdown").WithCause(err).WithContext("path", rel).Build()
	}

	title, ok := markdown.TitleFromSource(content)
	if !ok {
		title = DefaultTitle
	}

	full, err := r.Wrap(title, body)
	if err != nil {
		return nil, err
	}

	out := filepath.Join(r.settings.OutputFolder, filepath.FromSlash(toc.HTMLPath(rel)))
	if err := writeFile(out, full); err != nil {
		return nil, err
	}

	slog.Info("Built page", logfields.Path(rel), logfields.Title(title), logfields.Output(out))
	return &Page{
		SourcePath:  rel,
		OutputPath:  out,
		Title:       title,
		Body:        body,
		Fingerprint: doc.Fingerprint(),
	}, nil
}

// RenderIndex writes the landing page around the navigation list.
func (r *Renderer) RenderIndex(navHTML string) (string, error) {
	var body bytes.Buffer
	err := r.index.Execute(&body, indexData{
		SiteTitle: r.settings.SiteTitle,
		Nav:       template.HTML(navHTML), // #nosec G203 -- labels escaped by nav
	})
	if err != nil {
		return "", ferrors.RenderError("execute index template").WithCause(err).Build()
	}

	full, err := r.Wrap(IndexTitle, body.Bytes())
	if err != nil {
		return "", err
	}
	out := filepath.Join(r.settings.OutputFolder, IndexFile)
	if err := writeFile(out, full); err != nil {
		return "", err
	}
	slog.Info("Built page", logfields.Path(IndexFile), logfields.Output(out))
	return out, nil
}

// WriteStylesheet writes the embedded stylesheet at the output root.
func (r *Renderer) WriteStylesheet() (string, error) {
	out := filepath.Join(r.settings.OutputFolder, StylesheetFile)
	if err := writeFile(out, stylesheet); err != nil {
		return "", err
	}
	slog.Info("Created stylesheet", logfields.Output(out))
	return out, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return ferrors.FileSystemError("create output directory").WithCause(err).WithContext("path", filepath.Dir(path)).Build()
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ferrors.FileSystemError("write output file").WithCause(err).WithContext("path", path).Build()
	}
	return nil
}
