package dom

import (
	"fmt"

	"golang.org/x/net/html"
)

// Range is one contiguous span inside a single text node, addressed by
// byte offsets into the node's data. A range stays valid only as long
// as the underlying document does not mutate; operations on a stale
// range are undefined.
type Range struct {
	node  *html.Node
	start int
	end   int
}

// NewRange creates a range over node's text. Requires a text node and
// 0 <= start < end <= len(node.Data).
func NewRange(node *html.Node, start, end int) (*Range, error) {
	if node == nil || node.Type != html.TextNode {
		return nil, fmt.Errorf("range requires a text node")
	}
	if start < 0 || start >= end || end > len(node.Data) {
		return nil, fmt.Errorf(
			"range offsets [%d, %d) out of bounds for node of length %d",
			start, end, len(node.Data),
		)
	}
	return &Range{node: node, start: start, end: end}, nil
}

// Node returns the text node the range spans.
func (r *Range) Node() *html.Node { return r.node }

// Start returns the byte offset of the first covered byte.
func (r *Range) Start() int { return r.start }

// End returns the byte offset one past the last covered byte.
func (r *Range) End() int { return r.end }

// Text returns the substring the range covers.
func (r *Range) Text() string { return r.node.Data[r.start:r.end] }
