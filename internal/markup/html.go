package markup

import (
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// bodyPolicy keeps the elements that carry article structure. Script and
// style contents are dropped entirely by bluemonday.
var bodyPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"p", "h1", "h2", "h3", "h4", "h5", "h6",
		"ul", "ol", "li", "blockquote", "div", "span", "section", "article",
		"strong", "em", "b", "i", "u", "a", "br", "figure", "figcaption",
	)
	return p
}()

// Sanitize strips everything from raw feed HTML except structural and inline
// text elements.
func Sanitize(raw string) string {
	return bodyPolicy.Sanitize(raw)
}

// ParseHTML sanitizes raw feed HTML and wraps it as a Document.
func ParseHTML(raw string) Document {
	return NewDocument(Sanitize(raw))
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true,
	"img": true, "input": true, "link": true, "meta": true, "source": true, "track": true, "wbr": true,
}

// Serialize renders nodes as an HTML fragment that parses back to the same tree.
func Serialize(nodes ...Node) string {
	var b strings.Builder
	for _, n := range nodes {
		serializeNode(&b, n)
	}
	return b.String()
}

func serializeNode(b *strings.Builder, n Node) {
	switch n.Kind {
	case TextNode:
		b.WriteString(html.EscapeString(n.Value))
	case ElementNode:
		b.WriteString("<" + n.Name + ">")
		if voidElements[n.Name] {
			return
		}
		for _, c := range n.Children {
			serializeNode(b, c)
		}
		b.WriteString("</" + n.Name + ">")
	}
}

func parseFragment(src string) (Node, error) {
	context := &xhtml.Node{Type: xhtml.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := xhtml.ParseFragment(strings.NewReader(src), context)
	if err != nil {
		return Node{}, fmt.Errorf("markup: parse body: %w", err)
	}
	root := Element("body")
	for _, n := range nodes {
		if c, ok := convert(n); ok {
			root.Children = append(root.Children, c)
		}
	}
	return root, nil
}

func convert(n *xhtml.Node) (Node, bool) {
	switch n.Type {
	case xhtml.TextNode:
		return Text(n.Data), true
	case xhtml.ElementNode:
		el := Element(strings.ToLower(n.Data))
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if cn, ok := convert(c); ok {
				el.Children = append(el.Children, cn)
			}
		}
		return el, true
	default:
		return Node{}, false
	}
}
