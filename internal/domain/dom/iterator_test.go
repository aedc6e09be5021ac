package dom

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func parseDoc(t *testing.T, markup string) *Document {
	t.Helper()
	doc, err := ParseString(markup)
	if err != nil {
		t.Fatalf("parse document: %v", err)
	}
	return doc
}

func collectText(t *testing.T, doc *Document) []string {
	t.Helper()
	var out []string
	it := NewTextIterator(doc.Body(), nil)
	for {
		n, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, strings.TrimSpace(n.Data))
	}
}

func TestTextIterator_DocumentOrder(t *testing.T) {
	doc := parseDoc(t, `<html><body><p>one</p><div><span>two</span> three</div><p>four</p></body></html>`)

	got := collectText(t, doc)
	want := []string{"one", "two", "three", "four"}
	if len(got) != len(want) {
		t.Fatalf("expected %d text nodes, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("node %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestTextIterator_SkipsHiddenTags(t *testing.T) {
	doc := parseDoc(t, `<body>
		<p>visible</p>
		<script>var x = "needle";</script>
		<style>.a { color: red; }</style>
		<noscript>needle</noscript>
		<textarea>needle</textarea>
		<select><option>needle</option></select>
	</body>`)

	got := collectText(t, doc)
	if len(got) != 1 || got[0] != "visible" {
		t.Fatalf("expected only the visible paragraph, got %v", got)
	}
}

func TestTextIterator_SkipsStyledInvisibleContent(t *testing.T) {
	tests := []struct {
		name   string
		markup string
	}{
		{"display none", `<body><div style="display: none">needle</div><p>kept</p></body>`},
		{"visibility hidden", `<body><div style="visibility: hidden">needle</div><p>kept</p></body>`},
		{"zero opacity", `<body><div style="opacity: 0">needle</div><p>kept</p></body>`},
		{"hidden attribute", `<body><div hidden>needle</div><p>kept</p></body>`},
		{"hidden ancestor", `<body><div style="display:none"><span><em>needle</em></span></div><p>kept</p></body>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collectText(t, parseDoc(t, tt.markup))
			if len(got) != 1 || got[0] != "kept" {
				t.Fatalf("expected only the kept paragraph, got %v", got)
			}
		})
	}
}

func TestTextIterator_SkipsBlankText(t *testing.T) {
	doc := parseDoc(t, "<body><div>   \n\t  </div><p>text</p></body>")

	got := collectText(t, doc)
	if len(got) != 1 || got[0] != "text" {
		t.Fatalf("expected only the non-blank node, got %v", got)
	}
}

func TestTextIterator_Restartable(t *testing.T) {
	doc := parseDoc(t, `<body><p>a</p><p>b</p></body>`)

	first := collectText(t, doc)
	second := collectText(t, doc)
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("fresh iterators should see the same nodes: %v vs %v", first, second)
	}
}

func TestSearchable(t *testing.T) {
	doc := parseDoc(t, `<body><p>shown</p><div style="display:none"><span>hidden</span></div></body>`)

	var shown, hidden bool
	it := NewTextIterator(doc.Body(), nil)
	for {
		n, ok := it.Next()
		if !ok {
			break
		}
		if strings.TrimSpace(n.Data) == "shown" {
			shown = Searchable(n, nil)
		}
	}
	if !shown {
		t.Error("visible text node should be searchable")
	}

	// The hidden node never comes out of the iterator; find it by walking raw.
	for _, n := range rawTextNodes(doc.Root()) {
		if strings.TrimSpace(n.Data) == "hidden" {
			hidden = Searchable(n, InlineStyleResolver{})
		}
	}
	if hidden {
		t.Error("text under display:none should not be searchable")
	}
}

func rawTextNodes(n *html.Node) []*html.Node {
	var out []*html.Node
	if n.Type == html.TextNode {
		out = append(out, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, rawTextNodes(c)...)
	}
	return out
}
