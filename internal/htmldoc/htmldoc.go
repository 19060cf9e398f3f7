// Package htmldoc wraps the x/net/html node tree with the query helpers the
// audit rules need: tag and class lookups, text extraction, ancestor walks.
package htmldoc

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Document is one parsed HTML document.
type Document struct {
	root *html.Node
}

// Parse builds a Document from raw markup. The underlying parser is
// error-tolerant; Parse fails only on unreadable input.
func Parse(data []byte) (*Document, error) {
	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{root: root}, nil
}

// Root returns the document node.
func (d *Document) Root() *html.Node { return d.root }

// Walk visits every node depth-first. fn returns false to skip the node's
// subtree.
func (d *Document) Walk(fn func(*html.Node) bool) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if !fn(n) {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
}

// Elements returns every element with the given tag name.
func (d *Document) Elements(tag string) []*html.Node {
	var out []*html.Node
	d.Walk(func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
		return true
	})
	return out
}

// ElementsByClass returns elements of the given tag whose class attribute
// satisfies pred. An empty tag matches any element.
func (d *Document) ElementsByClass(tag string, pred func(class string) bool) []*html.Node {
	var out []*html.Node
	d.Walk(func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		if tag != "" && n.Data != tag {
			return true
		}
		for _, c := range Classes(n) {
			if pred(c) {
				out = append(out, n)
				break
			}
		}
		return true
	})
	return out
}

// Attr returns the value of the named attribute, or "".
func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// Classes returns the element's class list.
func Classes(n *html.Node) []string {
	v := Attr(n, "class")
	if v == "" {
		return nil
	}
	return strings.Fields(v)
}

// HasClass reports whether any class in the element's class list satisfies
// pred.
func HasClass(n *html.Node, pred func(class string) bool) bool {
	for _, c := range Classes(n) {
		if pred(c) {
			return true
		}
	}
	return false
}

// Text extracts the concatenated text of a subtree, trimmed.
func Text(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

// CollapsedText extracts subtree text with whitespace runs collapsed to
// single spaces, trimmed.
func CollapsedText(n *html.Node) string {
	return strings.Join(strings.Fields(Text(n)), " ")
}

// FindAncestor climbs from n's parent and returns the first element
// satisfying pred, or nil.
func FindAncestor(n *html.Node, pred func(*html.Node) bool) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && pred(p) {
			return p
		}
	}
	return nil
}

// Truncate shortens s to at most limit runes, for display text fields.
func Truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
