// Package render converts note-store HTML into the Markdown stored in
// documents.
package render

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// backlinkText is the anchor text of the link the note store appends to
// every note pointing back at the document.
const backlinkText = "Obsidian"

var mathReplacer = strings.NewReplacer(
	`\(`, "$",
	`\)`, "$",
	`\[`, "$$",
	`\]`, "$$",
)

// ToMarkdown converts an HTML field value to Markdown.
//
// MathJax delimiters become dollar delimiters, the backlink anchor is
// dropped, and nothing is escaped. Blank lines are removed from the result.
func ToMarkdown(fragment string) string {
	fragment = mathReplacer.Replace(fragment)

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		// Parsing only fails on reader errors, which a strings.Reader never returns.
		return dropBlankLines(fragment)
	}

	r := &renderer{}
	for _, n := range nodes {
		r.node(n)
	}

	return dropBlankLines(r.b.String())
}

type list struct {
	ordered bool
	next    int
}

type renderer struct {
	b     strings.Builder
	lists []*list
	inPre bool
}

func (r *renderer) node(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		r.text(n.Data)
		return
	case html.ElementNode:
	default:
		r.children(n)
		return
	}

	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Head:
	case atom.Br:
		r.b.WriteString("\n")
	case atom.P, atom.Div, atom.Blockquote, atom.Section, atom.Tr:
		r.b.WriteString("\n")
		r.children(n)
		r.b.WriteString("\n")
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		level := int(n.Data[1] - '0')
		r.b.WriteString("\n" + strings.Repeat("#", level) + " ")
		r.b.WriteString(strings.TrimSpace(r.inline(n)))
		r.b.WriteString("\n")
	case atom.Ul, atom.Ol:
		r.lists = append(r.lists, &list{ordered: n.DataAtom == atom.Ol, next: 1})
		r.children(n)
		r.lists = r.lists[:len(r.lists)-1]
		r.b.WriteString("\n")
	case atom.Li:
		r.item(n)
	case atom.B, atom.Strong:
		r.wrap(n, "**")
	case atom.I, atom.Em:
		r.wrap(n, "*")
	case atom.Code:
		if r.inPre {
			r.children(n)
		} else {
			r.wrap(n, "`")
		}
	case atom.Pre:
		r.inPre = true
		r.b.WriteString("\n```\n")
		r.children(n)
		r.b.WriteString("\n```\n")
		r.inPre = false
	case atom.A:
		r.anchor(n)
	case atom.Img:
		r.b.WriteString("![" + attr(n, "alt") + "](" + attr(n, "src") + ")")
	case atom.Td, atom.Th:
		r.children(n)
		r.b.WriteString(" ")
	default:
		r.children(n)
	}
}

func (r *renderer) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.node(c)
	}
}

func (r *renderer) text(s string) {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	if r.inPre {
		r.b.WriteString(s)
		return
	}
	r.b.WriteString(collapseSpace(s))
}

// inline renders the children of n into a separate buffer.
func (r *renderer) inline(n *html.Node) string {
	sub := &renderer{lists: r.lists, inPre: r.inPre}
	sub.children(n)
	return sub.b.String()
}

func (r *renderer) wrap(n *html.Node, mark string) {
	inner := r.inline(n)
	trimmed := strings.TrimSpace(inner)
	if trimmed == "" {
		r.b.WriteString(inner)
		return
	}

	// Keep surrounding spaces outside the markers.
	lead := inner[:strings.Index(inner, trimmed)]
	trail := inner[len(lead)+len(trimmed):]
	r.b.WriteString(lead + mark + trimmed + mark + trail)
}

func (r *renderer) anchor(n *html.Node) {
	text := r.inline(n)
	if strings.TrimSpace(text) == backlinkText {
		return
	}

	href := attr(n, "href")
	if href == "" || href == strings.TrimSpace(text) {
		r.b.WriteString(text)
		return
	}
	r.b.WriteString("[" + strings.TrimSpace(text) + "](" + href + ")")
}

func (r *renderer) item(n *html.Node) {
	depth := len(r.lists)
	bullet := "- "
	if depth > 0 {
		l := r.lists[depth-1]
		if l.ordered {
			bullet = strconv.Itoa(l.next) + ". "
			l.next++
		}
	} else {
		depth = 1
	}

	content := strings.TrimSpace(r.inline(n))
	r.b.WriteString("\n" + strings.Repeat("  ", depth-1) + bullet + content)
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func collapseSpace(s string) string {
	var b strings.Builder
	space := false
	for _, c := range s {
		switch c {
		case ' ', '\t', '\n', '\r', '\f':
			if !space {
				b.WriteByte(' ')
			}
			space = true
		default:
			b.WriteRune(c)
			space = false
		}
	}
	return b.String()
}

func dropBlankLines(s string) string {
	var kept []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
