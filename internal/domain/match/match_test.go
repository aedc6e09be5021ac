package match

import (
	"testing"
	"time"

	"golang.org/x/net/html"
)

func textNode(data string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: data}
}

func TestNew(t *testing.T) {
	n := textNode("find the needle here")

	m, err := New(n, 3, 9, 15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Text() != "needle" {
		t.Errorf("expected text %q, got %q", "needle", m.Text())
	}
	if m.Index() != 3 {
		t.Errorf("expected index 3, got %d", m.Index())
	}
	if m.Node() != n {
		t.Error("match should back-reference the source node")
	}
	if m.Range() == nil || m.Range().Text() != "needle" {
		t.Error("range should span exactly the matched text")
	}
	if m.Start() != 9 || m.End() != 15 {
		t.Errorf("offsets: got [%d, %d), want [9, 15)", m.Start(), m.End())
	}
}

func TestNew_Invalid(t *testing.T) {
	n := textNode("short")

	if _, err := New(n, -1, 0, 2); err == nil {
		t.Error("expected error for negative index")
	}
	if _, err := New(n, 0, 2, 2); err == nil {
		t.Error("expected error for zero-width span")
	}
	if _, err := New(n, 0, 0, 99); err == nil {
		t.Error("expected error for span past the text")
	}
}

func TestResult(t *testing.T) {
	n := textNode("aa aa")
	m0, _ := New(n, 0, 0, 2)
	m1, _ := New(n, 1, 3, 5)

	r := NewResult([]Match{m0, m1}, 5*time.Millisecond)
	if r.TotalCount() != 2 {
		t.Errorf("expected total 2, got %d", r.TotalCount())
	}
	if r.Duration() != 5*time.Millisecond {
		t.Errorf("unexpected duration %v", r.Duration())
	}
	if r.Matches()[0].Index() != 0 || r.Matches()[1].Index() != 1 {
		t.Error("matches should keep insertion order")
	}
}

func TestResult_NegativeDurationClamped(t *testing.T) {
	r := NewResult(nil, -time.Second)
	if r.Duration() != 0 {
		t.Errorf("negative duration should clamp to zero, got %v", r.Duration())
	}
}

func TestEmptyResult(t *testing.T) {
	r := EmptyResult()
	if r.TotalCount() != 0 || r.Duration() != 0 || len(r.Matches()) != 0 {
		t.Error("empty result should have no matches and zero duration")
	}
}
