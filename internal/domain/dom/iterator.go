package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// TextIterator walks searchable text nodes under a root in document
// order, producing nodes on demand so a capped search never visits more
// of the tree than it needs. Each search constructs a fresh iterator;
// an exhausted iterator is not restartable.
type TextIterator struct {
	stack []*html.Node
	res   StyleResolver
}

// NewTextIterator creates an iterator over searchable text nodes under
// root. A nil resolver falls back to inline-style resolution.
func NewTextIterator(root *html.Node, res StyleResolver) *TextIterator {
	if res == nil {
		res = InlineStyleResolver{}
	}
	it := &TextIterator{res: res}
	if root != nil {
		it.stack = append(it.stack, root)
	}
	return it
}

// Next returns the next searchable text node, or false when the walk is
// done. Subtrees under excluded elements are pruned without descending.
func (it *TextIterator) Next() (*html.Node, bool) {
	for len(it.stack) > 0 {
		n := it.stack[len(it.stack)-1]
		it.stack = it.stack[:len(it.stack)-1]

		switch n.Type {
		case html.TextNode:
			if n.Parent != nil && n.Parent.Type == html.ElementNode &&
				strings.TrimSpace(n.Data) != "" {
				return n, true
			}
		case html.ElementNode:
			if excludedElement(n, it.res) {
				continue
			}
			it.pushChildren(n)
		case html.DocumentNode:
			it.pushChildren(n)
		}
	}
	return nil, false
}

// pushChildren pushes children right-to-left so the leftmost pops first.
func (it *TextIterator) pushChildren(n *html.Node) {
	for c := n.LastChild; c != nil; c = c.PrevSibling {
		it.stack = append(it.stack, c)
	}
}
