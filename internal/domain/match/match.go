// Package match holds the descriptors a search produces: one Match per
// located occurrence and one Result per completed search.
package match

import (
	"fmt"
	"time"

	"golang.org/x/net/html"

	"github.com/findlight/findlight/internal/domain/dom"
)

// MaxMatches caps how many matches a single search may accumulate. The
// cap bounds memory and time on pathological documents or patterns.
const MaxMatches = 10000

// Match is one located occurrence of a query. The range is created by
// the finder and read-only-shared with the highlight layer afterwards;
// the node back-reference is never owned.
type Match struct {
	text  string
	rng   *dom.Range
	index int
	node  *html.Node
	start int
	end   int
}

// New creates a match descriptor over node's text. Requires
// 0 <= start < end <= len(node.Data) and a non-negative index.
func New(node *html.Node, index, start, end int) (Match, error) {
	if index < 0 {
		return Match{}, fmt.Errorf("negative match index %d", index)
	}
	rng, err := dom.NewRange(node, start, end)
	if err != nil {
		return Match{}, err
	}
	return Match{
		text:  rng.Text(),
		rng:   rng,
		index: index,
		node:  node,
		start: start,
		end:   end,
	}, nil
}

// Text returns the matched substring.
func (m *Match) Text() string { return m.text }

// Range returns the span of the match within its text node.
func (m *Match) Range() *dom.Range { return m.rng }

// Index returns the match's 0-based position in traversal order.
func (m *Match) Index() int { return m.index }

// Node returns the source text node.
func (m *Match) Node() *html.Node { return m.node }

// Start returns the byte offset of the match start within the node.
func (m *Match) Start() int { return m.start }

// End returns the byte offset one past the match end within the node.
func (m *Match) End() int { return m.end }

// Result is the outcome of one search. It is immutable once returned;
// a newer search supersedes it rather than mutating it.
type Result struct {
	matches  []Match
	duration time.Duration
}

// NewResult creates a search result from matches in traversal order.
func NewResult(matches []Match, duration time.Duration) *Result {
	if duration < 0 {
		duration = 0
	}
	return &Result{matches: matches, duration: duration}
}

// EmptyResult creates a result with no matches and zero elapsed time.
func EmptyResult() *Result {
	return &Result{}
}

// Matches returns the ordered match sequence.
func (r *Result) Matches() []Match { return r.matches }

// TotalCount returns the number of matches, after capping.
func (r *Result) TotalCount() int { return len(r.matches) }

// Duration returns the wall time spent on traversal and matching.
func (r *Result) Duration() time.Duration { return r.duration }
