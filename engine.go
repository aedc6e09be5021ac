package findlight

import (
	"context"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/findlight/findlight/internal/domain/dom"
	"github.com/findlight/findlight/internal/domain/match"
	"github.com/findlight/findlight/internal/domain/pattern"
	"github.com/findlight/findlight/internal/metrics"
	"github.com/findlight/findlight/internal/render"
	"github.com/findlight/findlight/internal/usecase/finder"
	"github.com/findlight/findlight/internal/usecase/highlight"
	"github.com/findlight/findlight/internal/usecase/session"
)

// ErrNoRenderer is returned by RenderHTML when the engine was built
// without WithMarkRenderer.
var ErrNoRenderer = errors.New("findlight: mark renderer not installed")

// Engine is the public entry point: one engine per document view,
// wrapping the finder, the highlight coordinator, and the debounced
// search orchestrator.
type Engine struct {
	docRoot *html.Node
	marker  *render.Marker
	session *session.Service
}

// Parse reads an HTML document and builds an engine searching its body.
func Parse(r io.Reader, opts ...Option) (*Engine, error) {
	doc, err := dom.Parse(r)
	if err != nil {
		return nil, err
	}
	return fromDocument(doc, opts...), nil
}

// ParseString builds an engine from an HTML string.
func ParseString(s string, opts ...Option) (*Engine, error) {
	return Parse(strings.NewReader(s), opts...)
}

// FromNode builds an engine searching the subtree under root. The same
// node doubles as the render root for RenderHTML.
func FromNode(root *html.Node, opts ...Option) *Engine {
	return build(root, root, opts...)
}

func fromDocument(doc *dom.Document, opts ...Option) *Engine {
	return build(doc.Root(), doc.Body(), opts...)
}

func build(docRoot, searchRoot *html.Node, opts ...Option) *Engine {
	cfg := &engineConfig{debounce: session.DefaultDebounce}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.searchRoot != nil {
		searchRoot = cfg.searchRoot
	}

	var (
		marker   *render.Marker
		registry highlight.Registry
		scroller highlight.Scroller
	)
	switch {
	case cfg.markRenderer:
		marker = render.NewMarker()
		registry = marker
		scroller = marker
	default:
		if cfg.registry != nil {
			registry = registryAdapter{reg: cfg.registry}
		}
		if cfg.scroller != nil {
			scroller = scrollerAdapter{scr: cfg.scroller}
		}
	}

	var styles dom.StyleResolver
	if cfg.styles != nil {
		styles = styleAdapter{res: cfg.styles}
	}

	find := finder.New(styles, cfg.logger)
	lights := highlight.New(registry, scroller, cfg.logger)
	sess := session.New(find, lights, searchRoot,
		session.WithDebounce(cfg.debounce),
		session.WithLogger(cfg.logger),
	)

	return &Engine{docRoot: docRoot, marker: marker, session: sess}
}

// Search runs a debounced search and waits for its result. If a newer
// Search supersedes this one before its debounce elapses, the call
// blocks until ctx is done: superseded searches never produce a result
// (last-call-wins), only the caller's context unblocks them.
func (e *Engine) Search(ctx context.Context, query string, opts SearchOptions) (*Result, error) {
	select {
	case res := <-e.session.Search(query, opts.internal()):
		return fromResult(res), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// SearchAsync starts a debounced search without waiting. Observe the
// outcome via OnSearchComplete.
func (e *Engine) SearchAsync(query string, opts SearchOptions) {
	e.session.Search(query, opts.internal())
}

// Next moves to the next match, wrapping from the last to the first.
func (e *Engine) Next() { e.session.NavigateNext() }

// Previous moves to the previous match, wrapping from the first to the
// last.
func (e *Engine) Previous() { e.session.NavigatePrevious() }

// GoTo jumps to the match at index. Out-of-range indices leave the
// current match unchanged.
func (e *Engine) GoTo(index int) { e.session.NavigateTo(index) }

// Clear drops highlights, query, and result state, and cancels any
// pending search. Safe to call repeatedly.
func (e *Engine) Clear() { e.session.Clear() }

// Close tears the engine down. Call on unmount.
func (e *Engine) Close() { e.session.Close() }

// ValidatePattern checks a raw pattern: length limit, compilability,
// and a best-effort catastrophic-backtracking shape guard. Independent
// of any engine or search options.
func ValidatePattern(pat string) Validation {
	v := pattern.Validate(pat)
	if !v.IsValid {
		metrics.PatternsRejectedTotal.Inc()
	}
	return Validation{IsValid: v.IsValid, Err: v.Err}
}

// ValidatePattern checks a raw pattern; see the package-level function.
func (e *Engine) ValidatePattern(pat string) Validation {
	v := e.session.ValidatePattern(pat)
	return Validation{IsValid: v.IsValid, Err: v.Err}
}

// OnSearchComplete registers the completion observer; one handler at a
// time, nil unregisters.
func (e *Engine) OnSearchComplete(fn func(*Result)) {
	if fn == nil {
		e.session.OnSearchComplete(nil)
		return
	}
	e.session.OnSearchComplete(func(r *match.Result) { fn(fromResult(r)) })
}

// OnMatchChange registers the current-match observer; one handler at a
// time, nil unregisters.
func (e *Engine) OnMatchChange(fn func(index, total int)) {
	e.session.OnMatchChange(fn)
}

// Query returns the current query, empty when idle.
func (e *Engine) Query() string { return e.session.Query() }

// Options returns the current search options.
func (e *Engine) Options() SearchOptions { return fromOptions(e.session.Options()) }

// LastResult returns the most recently applied result, nil when none.
func (e *Engine) LastResult() *Result { return fromResult(e.session.LastResult()) }

// CurrentIndex returns the current match index, -1 when none.
func (e *Engine) CurrentIndex() int { return e.session.CurrentIndex() }

// TotalMatches returns the size of the active match set.
func (e *Engine) TotalMatches() int { return e.session.TotalMatches() }

// Supported reports whether a highlight capability is installed.
func (e *Engine) Supported() bool { return e.session.Supported() }

// RenderHTML serializes the document with registered highlights
// wrapped in <mark> elements. Requires WithMarkRenderer.
func (e *Engine) RenderHTML() (string, error) {
	if e.marker == nil {
		return "", ErrNoRenderer
	}
	return e.marker.HTML(e.docRoot)
}
