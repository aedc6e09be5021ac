// Package render provides an in-process implementation of the host
// highlight capability: a registry of named groups plus an HTML
// serializer that wraps registered ranges in <mark> elements. It makes
// the engine usable and inspectable outside a browser.
package render

import (
	"sort"
	"strings"
	"sync"

	"golang.org/x/net/html"

	"github.com/findlight/findlight/internal/domain/dom"
)

// Marker stores named highlight groups and can re-serialize a document
// with the registered ranges marked up. Serialization works on a copy
// of the tree; the live document, and with it every held range, stays
// untouched.
type Marker struct {
	mu      sync.Mutex
	groups  map[string][]*dom.Range
	scrolls []*dom.Range
}

// NewMarker creates an empty marker.
func NewMarker() *Marker {
	return &Marker{groups: make(map[string][]*dom.Range)}
}

// Register replaces the named group's ranges.
func (m *Marker) Register(group string, ranges []*dom.Range) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups[group] = append([]*dom.Range(nil), ranges...)
	return nil
}

// Clear removes the named group. Clearing an absent group is a no-op.
func (m *Marker) Clear(group string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.groups, group)
}

// Ranges returns the named group's ranges, nil when absent.
func (m *Marker) Ranges(group string) []*dom.Range {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*dom.Range(nil), m.groups[group]...)
}

// GroupNames returns the registered group names, sorted.
func (m *Marker) GroupNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.groups))
	for name := range m.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ScrollTo records the scroll target. The marker has no viewport; the
// record lets callers and tests observe scheduled scrolls. Never blocks.
func (m *Marker) ScrollTo(r *dom.Range) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scrolls = append(m.scrolls, r)
}

// LastScroll returns the most recently recorded scroll target, nil
// when none.
func (m *Marker) LastScroll() *dom.Range {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.scrolls) == 0 {
		return nil
	}
	return m.scrolls[len(m.scrolls)-1]
}

// HTML serializes the tree under root with every registered range
// wrapped in <mark> carrying its group names as classes. Overlapping
// groups (the current match sits inside the all-matches group) produce
// one mark per covered segment with all covering groups listed.
func (m *Marker) HTML(root *html.Node) (string, error) {
	m.mu.Lock()
	byNode := make(map[*html.Node][]span)
	for group, ranges := range m.groups {
		for _, r := range ranges {
			byNode[r.Node()] = append(byNode[r.Node()], span{
				start: r.Start(),
				end:   r.End(),
				group: group,
			})
		}
	}
	m.mu.Unlock()

	annotated := annotate(root, byNode)
	var b strings.Builder
	if err := html.Render(&b, annotated); err != nil {
		return "", err
	}
	return b.String(), nil
}

type span struct {
	start, end int
	group      string
}

// annotate deep-copies the tree, replacing marked text nodes with a
// text/mark sibling sequence.
func annotate(n *html.Node, byNode map[*html.Node][]span) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.TextNode && len(byNode[ch]) > 0 {
			for _, piece := range splitText(ch.Data, byNode[ch]) {
				c.AppendChild(piece)
			}
			continue
		}
		c.AppendChild(annotate(ch, byNode))
	}
	return c
}

// splitText cuts the text at every span boundary and wraps covered
// segments in <mark> elements.
func splitText(text string, spans []span) []*html.Node {
	cutSet := map[int]struct{}{0: {}, len(text): {}}
	for _, s := range spans {
		cutSet[s.start] = struct{}{}
		cutSet[s.end] = struct{}{}
	}
	cuts := make([]int, 0, len(cutSet))
	for c := range cutSet {
		cuts = append(cuts, c)
	}
	sort.Ints(cuts)

	var out []*html.Node
	for i := 0; i+1 < len(cuts); i++ {
		a, b := cuts[i], cuts[i+1]
		if a == b {
			continue
		}
		textNode := &html.Node{Type: html.TextNode, Data: text[a:b]}
		groups := coveringGroups(spans, a, b)
		if len(groups) == 0 {
			out = append(out, textNode)
			continue
		}
		mark := &html.Node{
			Type: html.ElementNode,
			Data: "mark",
			Attr: []html.Attribute{{Key: "class", Val: strings.Join(groups, " ")}},
		}
		mark.AppendChild(textNode)
		out = append(out, mark)
	}
	return out
}

// coveringGroups returns the sorted, deduplicated group names covering
// segment [a, b).
func coveringGroups(spans []span, a, b int) []string {
	seen := map[string]struct{}{}
	var groups []string
	for _, s := range spans {
		if s.start <= a && b <= s.end {
			if _, dup := seen[s.group]; dup {
				continue
			}
			seen[s.group] = struct{}{}
			groups = append(groups, s.group)
		}
	}
	sort.Strings(groups)
	return groups
}
