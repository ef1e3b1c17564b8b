// Package nav turns the TOC manifest into the index page navigation list.
package nav

import (
	"html"
	"strings"

	"git.home.luguber.info/inful/simpledocs/internal/markdown"
	"git.home.luguber.info/inful/simpledocs/internal/toc"
)

const indentUnit = "  "

// Node is a navigation item derived from a toc.Entry with an href. Children
// is non-nil whenever the entry had topics, even if none of them has an href.
type Node struct {
	Title    string
	Link     string
	Children []Node
}

// TitleFunc resolves the display title of a manifest href.
type TitleFunc func(href string) (string, bool)

// Builder maps manifest entries to navigation.
type Builder struct {
	title TitleFunc
}

// NewBuilder resolves titles from markdown files under inputFolder.
func NewBuilder(inputFolder string) *Builder {
	return NewBuilderWithTitles(func(href string) (string, bool) {
		return markdown.ResolveTitle(inputFolder, href)
	})
}

// NewBuilderWithTitles uses a custom title resolver.
func NewBuilderWithTitles(title TitleFunc) *Builder {
	return &Builder{title: title}
}

// Tree maps entries to nodes in manifest order. Entries without an href are
// dropped together with their topics.
func (b *Builder) Tree(entries []toc.Entry) []Node {
	type frame struct {
		entries []toc.Entry
		out     *[]Node
	}

	var roots []Node
	stack := []frame{{entries: entries, out: &roots}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var pending []int
		for _, e := range f.entries {
			if e.Href == "" {
				continue
			}
			label, ok := b.title(e.Href)
			if !ok {
				label = e.Href
			}
			n := Node{Title: label, Link: toc.HTMLPath(e.Href)}
			if len(e.Topics) > 0 {
				n.Children = []Node{}
				pending = append(pending, len(*f.out))
			}
			*f.out = append(*f.out, n)
		}

		// *f.out is complete here, so element pointers stay valid.
		nodes := *f.out
		for _, e := range f.entries {
			if e.Href == "" || len(e.Topics) == 0 {
				continue
			}
			idx := pending[0]
			pending = pending[1:]
			stack = append(stack, frame{entries: e.Topics, out: &nodes[idx].Children})
		}
	}
	return roots
}

// Lines renders nodes as list items, two spaces of indent per depth. A node
// with non-nil Children is followed by its nested <ul> block.
func Lines(nodes []Node) []string {
	type work struct {
		node  *Node
		line  string
		depth int
	}

	var out []string
	stack := make([]work, 0, len(nodes))
	for i := len(nodes) - 1; i >= 0; i-- {
		stack = append(stack, work{node: &nodes[i]})
	}
	for len(stack) > 0 {
		w := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if w.node == nil {
			out = append(out, w.line)
			continue
		}

		indent := strings.Repeat(indentUnit, w.depth)
		out = append(out, indent+item(*w.node))
		if w.node.Children == nil {
			continue
		}
		stack = append(stack, work{line: indent + "</ul>"})
		for i := len(w.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, work{node: &w.node.Children[i], depth: w.depth + 1})
		}
		stack = append(stack, work{line: indent + "<ul>"})
	}
	return out
}

// Items is Lines(Tree(entries)).
func (b *Builder) Items(entries []toc.Entry) []string {
	return Lines(b.Tree(entries))
}

// HTML wraps the items of entries in a top-level <ul>.
func (b *Builder) HTML(entries []toc.Entry) string {
	items := b.Items(entries)
	if len(items) == 0 {
		return "<ul>\n</ul>"
	}
	return "<ul>\n" + strings.Join(items, "\n") + "\n</ul>"
}

func item(n Node) string {
	return `<li><a href="` + html.EscapeString(n.Link) + `">` + html.EscapeString(n.Title) + `</a></li>`
}
