package session

import (
	"golang.org/x/net/html"

	"github.com/findlight/findlight/internal/domain/match"
	"github.com/findlight/findlight/internal/domain/pattern"
)

// Finder locates query occurrences under a document root.
type Finder interface {
	Search(query string, opts pattern.Options, root *html.Node) *match.Result
	ValidatePattern(pat string) pattern.Validation
}

// Highlighter owns the displayed match set and the current index.
type Highlighter interface {
	HighlightMatches(matches []match.Match)
	SetCurrentMatch(index int)
	NextMatch()
	PreviousMatch()
	ClearHighlights()
	CurrentIndex() int
	TotalMatches() int
	HasMatches() bool
	Supported() bool
}
