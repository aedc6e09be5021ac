package finder

import (
	"strings"
	"testing"

	"github.com/findlight/findlight/internal/domain/dom"
	"github.com/findlight/findlight/internal/domain/match"
	"github.com/findlight/findlight/internal/domain/pattern"
)

func searchRoot(t *testing.T, markup string) *dom.Document {
	t.Helper()
	doc, err := dom.ParseString(markup)
	if err != nil {
		t.Fatalf("parse document: %v", err)
	}
	return doc
}

func TestSearch_LiteralDoesNotActAsRegex(t *testing.T) {
	doc := searchRoot(t, `<body><p>a.b and axb</p></body>`)
	svc := New(nil, nil)

	res := svc.Search("a.b", pattern.Options{}, doc.Body())
	if res.TotalCount() != 1 {
		t.Fatalf("expected 1 match, got %d", res.TotalCount())
	}
	if res.Matches()[0].Text() != "a.b" {
		t.Errorf("expected %q, got %q", "a.b", res.Matches()[0].Text())
	}
}

func TestSearch_WholeWord(t *testing.T) {
	doc := searchRoot(t, `<body><p>cat concatenate cat</p></body>`)
	svc := New(nil, nil)

	res := svc.Search("cat", pattern.Options{WholeWord: true}, doc.Body())
	if res.TotalCount() != 2 {
		t.Fatalf("expected 2 whole-word matches, got %d", res.TotalCount())
	}
}

func TestSearch_CaseSensitivity(t *testing.T) {
	doc := searchRoot(t, `<body><p>cat Cat CAT</p></body>`)
	svc := New(nil, nil)

	if res := svc.Search("Cat", pattern.Options{CaseSensitive: true}, doc.Body()); res.TotalCount() != 1 {
		t.Errorf("case-sensitive: expected 1 match, got %d", res.TotalCount())
	}
	if res := svc.Search("Cat", pattern.Options{}, doc.Body()); res.TotalCount() != 3 {
		t.Errorf("case-insensitive: expected 3 matches, got %d", res.TotalCount())
	}
}

func TestSearch_SkipsInvisibleContent(t *testing.T) {
	doc := searchRoot(t, `<body>
		<div style="display: none">needle</div>
		<div>needle</div>
	</body>`)
	svc := New(nil, nil)

	res := svc.Search("needle", pattern.Options{}, doc.Body())
	if res.TotalCount() != 1 {
		t.Fatalf("expected only the visible occurrence, got %d", res.TotalCount())
	}
}

func TestSearch_BlankQuery(t *testing.T) {
	doc := searchRoot(t, `<body><p>anything</p></body>`)
	svc := New(nil, nil)

	for _, q := range []string{"", "   ", "\n\t"} {
		res := svc.Search(q, pattern.Options{}, doc.Body())
		if res.TotalCount() != 0 {
			t.Errorf("blank query %q: expected empty result, got %d matches", q, res.TotalCount())
		}
		if res.Duration() != 0 {
			t.Errorf("blank query %q: expected zero duration, got %v", q, res.Duration())
		}
	}
}

func TestSearch_MalformedRegexDegradesToEmpty(t *testing.T) {
	doc := searchRoot(t, `<body><p>(abc</p></body>`)
	svc := New(nil, nil)

	res := svc.Search("(abc", pattern.Options{Regex: true}, doc.Body())
	if res.TotalCount() != 0 {
		t.Fatalf("malformed regex should yield an empty result, got %d matches", res.TotalCount())
	}
}

func TestSearch_IndicesAreGaplessInTraversalOrder(t *testing.T) {
	doc := searchRoot(t, `<body><p>x one</p><div><span>x two</span></div><p>x three x</p></body>`)
	svc := New(nil, nil)

	res := svc.Search("x", pattern.Options{}, doc.Body())
	if res.TotalCount() != 4 {
		t.Fatalf("expected 4 matches, got %d", res.TotalCount())
	}
	for i, m := range res.Matches() {
		if m.Index() != i {
			t.Errorf("match %d carries index %d", i, m.Index())
		}
	}
}

func TestSearch_MultipleMatchesPerNode(t *testing.T) {
	doc := searchRoot(t, `<body><p>ab ab ab</p></body>`)
	svc := New(nil, nil)

	res := svc.Search("ab", pattern.Options{}, doc.Body())
	if res.TotalCount() != 3 {
		t.Fatalf("expected 3 matches, got %d", res.TotalCount())
	}
	prevEnd := -1
	for _, m := range res.Matches() {
		if m.Start() <= prevEnd {
			t.Error("matches within a node should be in left-to-right order")
		}
		prevEnd = m.End()
	}
}

func TestSearch_Cap(t *testing.T) {
	// 50 occurrences over the cap, all in one node.
	doc := searchRoot(t, "<body><p>"+strings.Repeat("z ", match.MaxMatches+50)+"</p></body>")
	svc := New(nil, nil)

	res := svc.Search("z", pattern.Options{}, doc.Body())
	if res.TotalCount() != match.MaxMatches {
		t.Fatalf("expected exactly %d matches, got %d", match.MaxMatches, res.TotalCount())
	}
}

func TestSearch_CapStopsTraversal(t *testing.T) {
	var b strings.Builder
	b.WriteString("<body>")
	b.WriteString("<p>" + strings.Repeat("z ", match.MaxMatches) + "</p>")
	b.WriteString("<p>z never reached</p>")
	b.WriteString("</body>")
	doc := searchRoot(t, b.String())
	svc := New(nil, nil)

	res := svc.Search("z", pattern.Options{}, doc.Body())
	if res.TotalCount() != match.MaxMatches {
		t.Fatalf("expected the cap, got %d", res.TotalCount())
	}
	last := res.Matches()[res.TotalCount()-1]
	if strings.Contains(last.Node().Data, "never reached") {
		t.Error("traversal should stop at the cap, not continue into later nodes")
	}
}

func TestSearch_ZeroWidthMatchesDoNotStallOrEmit(t *testing.T) {
	doc := searchRoot(t, `<body><p>abc</p></body>`)
	svc := New(nil, nil)

	// "b*" matches zero-width everywhere and "b" once.
	res := svc.Search("b*", pattern.Options{Regex: true}, doc.Body())
	if res.TotalCount() != 1 {
		t.Fatalf("expected only the non-empty match, got %d", res.TotalCount())
	}
	if res.Matches()[0].Text() != "b" {
		t.Errorf("expected %q, got %q", "b", res.Matches()[0].Text())
	}
}

func TestSearch_RecordsDuration(t *testing.T) {
	doc := searchRoot(t, `<body><p>needle</p></body>`)
	svc := New(nil, nil)

	res := svc.Search("needle", pattern.Options{}, doc.Body())
	if res.Duration() < 0 {
		t.Error("duration must be non-negative")
	}
}

func TestValidatePattern(t *testing.T) {
	svc := New(nil, nil)

	if v := svc.ValidatePattern("^[a-z]+$"); !v.IsValid {
		t.Errorf("expected valid, got %q", v.Err)
	}
	if v := svc.ValidatePattern("(abc"); v.IsValid {
		t.Error("expected invalid for unterminated group")
	}
	if v := svc.ValidatePattern(strings.Repeat("x", 1001)); v.IsValid {
		t.Error("expected invalid for over-long pattern")
	}
}
