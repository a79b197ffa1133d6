package content

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// FromMarkdown converts a markdown narrative (as produced by the upstream
// LLM pipeline for free-text fields) into a flat node sequence. Headings map
// to Heading nodes (clamped to level 5), paragraphs that consist of a single
// link map to Link nodes, list items become bulleted paragraphs, and
// thematic breaks become page breaks.
func FromMarkdown(src []byte) []Node {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var nodes []Node
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch n := n.(type) {
		case *ast.Heading:
			level := n.Level
			if level > 5 {
				level = 5
			}
			nodes = append(nodes, Heading{Level: level, Text: string(n.Text(src))})

		case *ast.ThematicBreak:
			nodes = append(nodes, PageBreak{})

		case *ast.List:
			for item := n.FirstChild(); item != nil; item = item.NextSibling() {
				if t := extractText(item, src); t != "" {
					nodes = append(nodes, Paragraph{Text: "• " + t})
				}
			}

		default:
			if link, ok := soleLink(n, src); ok {
				nodes = append(nodes, link)
				continue
			}
			if t := extractText(n, src); t != "" {
				nodes = append(nodes, Paragraph{Text: t})
			}
		}
	}
	return nodes
}

// soleLink reports whether a block consists of exactly one link and, if so,
// returns it as a Link node.
func soleLink(n ast.Node, src []byte) (Link, bool) {
	p, ok := n.(*ast.Paragraph)
	if !ok || p.ChildCount() != 1 {
		return Link{}, false
	}
	switch c := p.FirstChild().(type) {
	case *ast.Link:
		label := strings.TrimSpace(string(c.Text(src)))
		url := string(c.Destination)
		if label == "" || url == "" {
			return Link{}, false
		}
		return Link{Label: label, URL: url}, true
	case *ast.AutoLink:
		url := string(c.URL(src))
		if url == "" {
			return Link{}, false
		}
		return Link{Label: "Link", URL: url}, true
	}
	return Link{}, false
}

// extractText gets the text content of a goldmark AST node.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.AutoLink:
			buf.Write(t.URL(src))
		default:
			if c.Type() == ast.TypeBlock {
				if buf.Len() > 0 {
					buf.WriteByte('\n')
				}
			}
			buf.WriteString(extractText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
