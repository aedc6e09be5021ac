package findlight

import (
	"time"

	"golang.org/x/net/html"

	"github.com/findlight/findlight/internal/domain/dom"
	"github.com/findlight/findlight/internal/domain/match"
	"github.com/findlight/findlight/internal/domain/pattern"
)

// SearchOptions configure how a query is interpreted. All three flags
// are independent.
type SearchOptions struct {
	Regex         bool
	CaseSensitive bool
	WholeWord     bool
}

func (o SearchOptions) internal() pattern.Options {
	return pattern.Options{
		Regex:         o.Regex,
		CaseSensitive: o.CaseSensitive,
		WholeWord:     o.WholeWord,
	}
}

func fromOptions(o pattern.Options) SearchOptions {
	return SearchOptions{
		Regex:         o.Regex,
		CaseSensitive: o.CaseSensitive,
		WholeWord:     o.WholeWord,
	}
}

// Span is one contiguous stretch of a text node's data, addressed by
// byte offsets. Spans stay valid only while the document does not
// mutate.
type Span struct {
	Node  *html.Node
	Start int
	End   int
}

// Match is one located occurrence of the query.
type Match struct {
	Text  string
	Index int
	Span  Span
}

// Result is the outcome of one search.
type Result struct {
	Matches    []Match
	TotalCount int
	Duration   time.Duration
}

// Validation is the outcome of a pattern check.
type Validation struct {
	IsValid bool
	Err     string
}

// Registry is the host capability for named highlight groups. A group
// is replaced wholesale on every Register call.
type Registry interface {
	Register(group string, spans []Span) error
	Clear(group string)
}

// Scroller is the host capability that brings a span into view.
// Implementations must schedule the repositioning and never block.
type Scroller interface {
	ScrollTo(s Span)
}

// Style holds the style properties the visibility filter reads; zero
// values mean "not set".
type Style struct {
	Display    string
	Visibility string
	Opacity    string
}

// StyleResolver resolves an element's effective style at traversal
// time. The default reads inline style attributes; hosts with real
// computed style plug in their own.
type StyleResolver interface {
	Style(el *html.Node) Style
}

func fromResult(r *match.Result) *Result {
	if r == nil {
		return nil
	}
	out := &Result{
		Matches:    make([]Match, 0, r.TotalCount()),
		TotalCount: r.TotalCount(),
		Duration:   r.Duration(),
	}
	for _, m := range r.Matches() {
		out.Matches = append(out.Matches, fromMatch(m))
	}
	return out
}

func fromMatch(m match.Match) Match {
	return Match{
		Text:  m.Text(),
		Index: m.Index(),
		Span:  Span{Node: m.Node(), Start: m.Start(), End: m.End()},
	}
}

func fromSpan(r *dom.Range) Span {
	return Span{Node: r.Node(), Start: r.Start(), End: r.End()}
}

// registryAdapter lifts a public Registry into the internal contract.
type registryAdapter struct{ reg Registry }

func (a registryAdapter) Register(group string, ranges []*dom.Range) error {
	spans := make([]Span, len(ranges))
	for i, r := range ranges {
		spans[i] = fromSpan(r)
	}
	return a.reg.Register(group, spans)
}

func (a registryAdapter) Clear(group string) { a.reg.Clear(group) }

// scrollerAdapter lifts a public Scroller into the internal contract.
type scrollerAdapter struct{ scr Scroller }

func (a scrollerAdapter) ScrollTo(r *dom.Range) { a.scr.ScrollTo(fromSpan(r)) }

// styleAdapter lifts a public StyleResolver into the internal contract.
type styleAdapter struct{ res StyleResolver }

func (a styleAdapter) Style(el *html.Node) dom.ComputedStyle {
	s := a.res.Style(el)
	return dom.ComputedStyle{
		Display:    s.Display,
		Visibility: s.Visibility,
		Opacity:    s.Opacity,
	}
}
