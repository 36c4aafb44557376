package scrape

import (
	"strings"

	"github.com/antchfx/xpath"
	"golang.org/x/net/html"
)

// htmlNavigator implements xpath.NodeNavigator for x/net/html trees.
// attr is 0 on the node itself and i+1 on its i-th attribute.
type htmlNavigator struct {
	root *html.Node
	node *html.Node
	attr int
}

func newNavigator(n *html.Node) *htmlNavigator {
	return &htmlNavigator{root: n, node: n}
}

func (h *htmlNavigator) onAttr() bool {
	return h.attr > 0 && h.attr <= len(h.node.Attr)
}

func (h *htmlNavigator) NodeType() xpath.NodeType {
	if h.onAttr() {
		return xpath.AttributeNode
	}
	switch h.node.Type {
	case html.DocumentNode:
		return xpath.RootNode
	case html.TextNode:
		return xpath.TextNode
	case html.CommentNode:
		return xpath.CommentNode
	default:
		return xpath.ElementNode
	}
}

func (h *htmlNavigator) LocalName() string {
	if h.onAttr() {
		return h.node.Attr[h.attr-1].Key
	}
	if h.node.Type == html.ElementNode {
		return h.node.Data
	}
	return ""
}

func (h *htmlNavigator) Prefix() string { return "" }

func (h *htmlNavigator) Value() string {
	if h.onAttr() {
		return h.node.Attr[h.attr-1].Val
	}
	switch h.node.Type {
	case html.TextNode, html.CommentNode:
		return h.node.Data
	}
	return innerText(h.node)
}

func (h *htmlNavigator) Copy() xpath.NodeNavigator {
	c := *h
	return &c
}

func (h *htmlNavigator) MoveToRoot() {
	h.node = h.root
	h.attr = 0
}

func (h *htmlNavigator) MoveToParent() bool {
	if h.attr > 0 {
		h.attr = 0
		return true
	}
	if h.node == h.root || h.node.Parent == nil {
		return false
	}
	h.node = h.node.Parent
	return true
}

func (h *htmlNavigator) MoveToNextAttribute() bool {
	if h.node.Type != html.ElementNode || h.attr >= len(h.node.Attr) {
		return false
	}
	h.attr++
	return true
}

func (h *htmlNavigator) MoveToChild() bool {
	if h.attr > 0 || h.node.FirstChild == nil {
		return false
	}
	h.node = h.node.FirstChild
	return true
}

func (h *htmlNavigator) MoveToFirst() bool {
	if h.attr > 0 || h.node == h.root || h.node.PrevSibling == nil {
		return false
	}
	for h.node.PrevSibling != nil {
		h.node = h.node.PrevSibling
	}
	return true
}

func (h *htmlNavigator) MoveToNext() bool {
	if h.attr > 0 || h.node == h.root || h.node.NextSibling == nil {
		return false
	}
	h.node = h.node.NextSibling
	return true
}

func (h *htmlNavigator) MoveToPrevious() bool {
	if h.attr > 0 || h.node == h.root || h.node.PrevSibling == nil {
		return false
	}
	h.node = h.node.PrevSibling
	return true
}

func (h *htmlNavigator) MoveTo(other xpath.NodeNavigator) bool {
	o, ok := other.(*htmlNavigator)
	if !ok || o.root != h.root {
		return false
	}
	h.node, h.attr = o.node, o.attr
	return true
}

func (h *htmlNavigator) String() string { return h.Value() }

func innerText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// selectNodes evaluates expr against n and returns the matched element nodes.
func selectNodes(n *html.Node, expr *xpath.Expr) []*html.Node {
	var out []*html.Node
	iter := expr.Select(newNavigator(n))
	for iter.MoveNext() {
		if nav, ok := iter.Current().(*htmlNavigator); ok && !nav.onAttr() {
			out = append(out, nav.node)
		}
	}
	return out
}

// selectValues evaluates expr against n and returns the trimmed string value
// of every match, which suits text() and @attr expressions.
func selectValues(n *html.Node, expr *xpath.Expr) []string {
	var out []string
	iter := expr.Select(newNavigator(n))
	for iter.MoveNext() {
		out = append(out, strings.TrimSpace(iter.Current().Value()))
	}
	return out
}
