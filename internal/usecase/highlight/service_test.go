package highlight

import (
	"testing"

	"golang.org/x/net/html"

	"github.com/findlight/findlight/internal/domain/dom"
	"github.com/findlight/findlight/internal/domain/match"
)

// --- Mocks ---

type mockRegistry struct {
	groups    map[string][]*dom.Range
	registers int
	clears    int
}

func newMockRegistry() *mockRegistry {
	return &mockRegistry{groups: make(map[string][]*dom.Range)}
}

func (m *mockRegistry) Register(group string, ranges []*dom.Range) error {
	m.registers++
	m.groups[group] = ranges
	return nil
}

func (m *mockRegistry) Clear(group string) {
	m.clears++
	delete(m.groups, group)
}

type mockScroller struct {
	targets []*dom.Range
}

func (m *mockScroller) ScrollTo(r *dom.Range) {
	m.targets = append(m.targets, r)
}

func makeMatches(t *testing.T, texts ...string) []match.Match {
	t.Helper()
	matches := make([]match.Match, 0, len(texts))
	for i, text := range texts {
		node := &html.Node{Type: html.TextNode, Data: text}
		m, err := match.New(node, i, 0, len(text))
		if err != nil {
			t.Fatalf("build match %d: %v", i, err)
		}
		matches = append(matches, m)
	}
	return matches
}

func newService(t *testing.T, n int) (*Service, *mockRegistry, *mockScroller) {
	t.Helper()
	reg := newMockRegistry()
	scr := &mockScroller{}
	svc := New(reg, scr, nil)
	texts := make([]string, n)
	for i := range texts {
		texts[i] = "needle"
	}
	if n > 0 {
		svc.HighlightMatches(makeMatches(t, texts...))
	}
	return svc, reg, scr
}

func TestHighlightMatches_RegistersBothGroups(t *testing.T) {
	svc, reg, scr := newService(t, 3)

	if got := len(reg.groups[GroupAll]); got != 3 {
		t.Errorf("all-matches group should span every match, got %d ranges", got)
	}
	if got := len(reg.groups[GroupCurrent]); got != 1 {
		t.Errorf("current-match group should hold one range, got %d", got)
	}
	if svc.CurrentIndex() != 0 {
		t.Errorf("first match should be current, got index %d", svc.CurrentIndex())
	}
	if len(scr.targets) != 1 {
		t.Errorf("setting the current match should scroll once, got %d", len(scr.targets))
	}
}

func TestHighlightMatches_EmptySet(t *testing.T) {
	svc, reg, _ := newService(t, 0)
	svc.HighlightMatches(nil)

	if len(reg.groups) != 0 {
		t.Error("empty set should create no groups")
	}
	if svc.CurrentIndex() != -1 {
		t.Errorf("expected index -1, got %d", svc.CurrentIndex())
	}
	if svc.HasMatches() {
		t.Error("expected no matches")
	}
}

func TestHighlightMatches_ReplacesPriorSet(t *testing.T) {
	svc, reg, _ := newService(t, 3)
	svc.HighlightMatches(makeMatches(t, "only"))

	if got := len(reg.groups[GroupAll]); got != 1 {
		t.Errorf("new set should replace the old, got %d ranges", got)
	}
	if svc.TotalMatches() != 1 || svc.CurrentIndex() != 0 {
		t.Errorf("state: total %d index %d", svc.TotalMatches(), svc.CurrentIndex())
	}
}

func TestSetCurrentMatch_OutOfRange(t *testing.T) {
	svc, reg, scr := newService(t, 2)
	before := reg.registers
	scrollsBefore := len(scr.targets)

	svc.SetCurrentMatch(-1)
	svc.SetCurrentMatch(2)
	svc.SetCurrentMatch(99)

	if svc.CurrentIndex() != 0 {
		t.Errorf("rejected indices must not change state, got %d", svc.CurrentIndex())
	}
	if reg.registers != before || len(scr.targets) != scrollsBefore {
		t.Error("rejected indices must not touch registration or scroll")
	}
}

func TestNavigation_Cyclic(t *testing.T) {
	const n = 4
	svc, _, _ := newService(t, n)

	// N nexts from 0 return to 0.
	for i := 0; i < n; i++ {
		svc.NextMatch()
	}
	if svc.CurrentIndex() != 0 {
		t.Errorf("after %d nexts expected index 0, got %d", n, svc.CurrentIndex())
	}

	// Previous from 0 wraps to N-1.
	svc.PreviousMatch()
	if svc.CurrentIndex() != n-1 {
		t.Errorf("previous from 0 should wrap to %d, got %d", n-1, svc.CurrentIndex())
	}
	svc.NextMatch()
	if svc.CurrentIndex() != 0 {
		t.Errorf("next from last should wrap to 0, got %d", svc.CurrentIndex())
	}
}

func TestNavigation_EmptySetIsNoop(t *testing.T) {
	svc, _, scr := newService(t, 0)

	svc.NextMatch()
	svc.PreviousMatch()

	if svc.CurrentIndex() != -1 {
		t.Errorf("navigation on empty set must stay at -1, got %d", svc.CurrentIndex())
	}
	if len(scr.targets) != 0 {
		t.Error("navigation on empty set must not scroll")
	}
}

func TestClearHighlights_Idempotent(t *testing.T) {
	svc, reg, _ := newService(t, 2)

	svc.ClearHighlights()
	if len(reg.groups) != 0 || svc.CurrentIndex() != -1 || svc.HasMatches() {
		t.Fatal("clear should drop groups and reset state")
	}

	svc.ClearHighlights()
	if len(reg.groups) != 0 || svc.CurrentIndex() != -1 || svc.HasMatches() {
		t.Fatal("second clear should leave the same empty state")
	}
}

func TestRefreshHighlights_RestoresCurrentIndex(t *testing.T) {
	svc, reg, _ := newService(t, 3)
	svc.SetCurrentMatch(2)

	// Simulate external registration loss.
	reg.groups = map[string][]*dom.Range{}

	svc.RefreshHighlights()

	if got := len(reg.groups[GroupAll]); got != 3 {
		t.Errorf("refresh should re-register all matches, got %d", got)
	}
	if got := len(reg.groups[GroupCurrent]); got != 1 {
		t.Errorf("refresh should re-register the current match, got %d", got)
	}
	if svc.CurrentIndex() != 2 {
		t.Errorf("refresh should keep index 2, got %d", svc.CurrentIndex())
	}
}

func TestRefreshHighlights_EmptySetIsNoop(t *testing.T) {
	svc, reg, _ := newService(t, 0)
	before := reg.registers

	svc.RefreshHighlights()

	if reg.registers != before {
		t.Error("refresh on empty set must not register anything")
	}
}

func TestMatchAt(t *testing.T) {
	svc, _, _ := newService(t, 2)

	if _, ok := svc.MatchAt(1); !ok {
		t.Error("expected a match at index 1")
	}
	if _, ok := svc.MatchAt(2); ok {
		t.Error("expected no match at index 2")
	}
	if _, ok := svc.MatchAt(-1); ok {
		t.Error("expected no match at index -1")
	}
}

func TestSupported_NilRegistry(t *testing.T) {
	svc := New(nil, nil, nil)
	if svc.Supported() {
		t.Error("nil registry means unsupported")
	}

	// Index and navigation bookkeeping still work without a registry.
	svc.HighlightMatches(makeMatches(t, "a", "b"))
	if svc.CurrentIndex() != 0 || svc.TotalMatches() != 2 {
		t.Errorf("state without registry: index %d total %d", svc.CurrentIndex(), svc.TotalMatches())
	}
	svc.NextMatch()
	if svc.CurrentIndex() != 1 {
		t.Errorf("navigation without registry should work, got %d", svc.CurrentIndex())
	}
	svc.ClearHighlights()
	if svc.CurrentIndex() != -1 {
		t.Error("clear without registry should reset state")
	}
}
