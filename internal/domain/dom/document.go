// Package dom wraps a parsed HTML tree with the pieces of the browser
// document model the search engine needs: text-node traversal with
// visibility filtering, and ranges over text nodes.
package dom

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Document is a parsed HTML document.
type Document struct {
	root *html.Node
}

// Parse reads and parses an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return &Document{root: root}, nil
}

// ParseString parses an HTML document from a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Root returns the document root node.
func (d *Document) Root() *html.Node { return d.root }

// Body returns the default search root: the body element, or the
// document root when the tree has no body.
func (d *Document) Body() *html.Node {
	if body := findElement(d.root, "body"); body != nil {
		return body
	}
	return d.root
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}
