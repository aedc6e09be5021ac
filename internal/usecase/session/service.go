// Package session orchestrates searches over one document view:
// debounced query intake, match finding, highlight handoff, cyclic
// navigation, and observer callbacks. One Service per mounted view,
// constructed by the mount layer and closed on unmount.
package session

import (
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/findlight/findlight/internal/domain/match"
	"github.com/findlight/findlight/internal/domain/pattern"
)

// DefaultDebounce is the quiet period a query must survive before the
// search runs.
const DefaultDebounce = 300 * time.Millisecond

// State is the orchestrator's lifecycle position.
type State int

const (
	// StateIdle means no active query.
	StateIdle State = iota
	// StatePending means a query is waiting out the debounce.
	StatePending
	// StateSettled means the latest query's result has been applied.
	StateSettled
)

// Service is the search orchestrator. Result application is strictly
// last-call-wins: every new Search cancels the prior pending timer, so
// no older call's result can land after a newer call's. A superseded
// call's result channel is never written to; receivers should select
// against a context (see the root package's SearchAndWait).
type Service struct {
	finder   Finder
	lights   Highlighter
	root     *html.Node
	debounce time.Duration
	logger   *zap.Logger

	mu         sync.Mutex
	timer      *time.Timer
	generation uint64
	query      string
	opts       pattern.Options
	last       *match.Result
	closed     bool
	onComplete func(*match.Result)
	onChange   func(index, total int)
}

// Option configures a Service.
type Option func(*Service)

// WithDebounce overrides the debounce delay. Zero or negative runs
// searches immediately.
func WithDebounce(d time.Duration) Option {
	return func(s *Service) { s.debounce = d }
}

// WithLogger sets the orchestrator logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// New creates an orchestrator searching under root.
func New(finder Finder, lights Highlighter, root *html.Node, opts ...Option) *Service {
	s := &Service{
		finder:   finder,
		lights:   lights,
		root:     root,
		debounce: DefaultDebounce,
		logger:   zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Search accepts a query and options. A blank query clears all state
// immediately and delivers an empty result. A non-empty query arms the
// debounce timer, superseding any still-pending call; only the latest
// call's channel ever receives a result. The channel is buffered, so
// the engine never blocks on a receiver.
func (s *Service) Search(query string, opts pattern.Options) <-chan *match.Result {
	out := make(chan *match.Result, 1)
	trimmed := strings.TrimSpace(query)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		out <- match.EmptyResult()
		return out
	}
	s.stopTimerLocked()
	s.generation++
	gen := s.generation

	if trimmed == "" {
		s.resetLocked()
		s.mu.Unlock()
		out <- match.EmptyResult()
		return out
	}

	if s.debounce <= 0 {
		s.mu.Unlock()
		s.fire(gen, trimmed, opts, out)
		return out
	}

	s.timer = time.AfterFunc(s.debounce, func() {
		s.fire(gen, trimmed, opts, out)
	})
	s.mu.Unlock()
	return out
}

// fire runs the search for one debounced call. If a newer call arrived
// since, the generation moved on and this one is dropped without
// delivering anything.
func (s *Service) fire(gen uint64, query string, opts pattern.Options, out chan<- *match.Result) {
	s.mu.Lock()
	if s.closed || gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.timer = nil

	s.lights.ClearHighlights()
	s.query = query
	s.opts = opts

	res := s.finder.Search(query, opts, s.root)
	if res.TotalCount() > 0 {
		s.lights.HighlightMatches(res.Matches())
	}
	s.last = res

	onComplete := s.onComplete
	onChange := s.onChange
	s.mu.Unlock()

	// Observers run in the orchestrator's own turn, never from inside
	// the finder or the coordinator.
	if onComplete != nil {
		onComplete(res)
	}
	if onChange != nil && res.TotalCount() > 0 {
		onChange(0, res.TotalCount())
	}
	out <- res
}

// NavigateNext moves to the next match, wrapping at the end.
func (s *Service) NavigateNext() {
	s.navigate(func() { s.lights.NextMatch() })
}

// NavigatePrevious moves to the previous match, wrapping at the start.
func (s *Service) NavigatePrevious() {
	s.navigate(func() { s.lights.PreviousMatch() })
}

// NavigateTo jumps to a specific match index. Out-of-range indices
// leave the current match unchanged.
func (s *Service) NavigateTo(index int) {
	s.navigate(func() { s.lights.SetCurrentMatch(index) })
}

func (s *Service) navigate(step func()) {
	s.mu.Lock()
	if s.closed || !s.lights.HasMatches() {
		s.mu.Unlock()
		return
	}
	step()
	index := s.lights.CurrentIndex()
	total := s.lights.TotalMatches()
	onChange := s.onChange
	s.mu.Unlock()

	if onChange != nil {
		onChange(index, total)
	}
}

// Clear cancels any pending search, clears highlights, and resets
// query, options, and result. Safe to call from any state, repeatedly.
func (s *Service) Clear() {
	s.mu.Lock()
	s.stopTimerLocked()
	s.generation++
	s.resetLocked()
	s.mu.Unlock()
}

// Close tears the session down. Further calls are no-ops delivering
// empty results.
func (s *Service) Close() {
	s.mu.Lock()
	s.stopTimerLocked()
	s.generation++
	s.resetLocked()
	s.closed = true
	s.mu.Unlock()
}

// OnSearchComplete registers the completion observer. One handler at a
// time; registering replaces the prior handler, nil unregisters.
func (s *Service) OnSearchComplete(fn func(*match.Result)) {
	s.mu.Lock()
	s.onComplete = fn
	s.mu.Unlock()
}

// OnMatchChange registers the current-match observer. One handler at a
// time; registering replaces the prior handler, nil unregisters.
func (s *Service) OnMatchChange(fn func(index, total int)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Query returns the current query, empty when idle.
func (s *Service) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Options returns the current search options.
func (s *Service) Options() pattern.Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts
}

// LastResult returns the most recently applied result, nil when none.
func (s *Service) LastResult() *match.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// CurrentIndex returns the current match index, -1 when none.
func (s *Service) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lights.CurrentIndex()
}

// TotalMatches returns the size of the active match set.
func (s *Service) TotalMatches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lights.TotalMatches()
}

// Supported reports whether the host exposes highlight registration.
func (s *Service) Supported() bool {
	return s.lights.Supported()
}

// ValidatePattern checks a raw pattern without running a search.
func (s *Service) ValidatePattern(pat string) pattern.Validation {
	return s.finder.ValidatePattern(pat)
}

// State reports the orchestrator's lifecycle position.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.timer != nil:
		return StatePending
	case s.last != nil:
		return StateSettled
	default:
		return StateIdle
	}
}

// resetLocked clears highlights and query/result state.
func (s *Service) resetLocked() {
	s.lights.ClearHighlights()
	s.query = ""
	s.opts = pattern.Options{}
	s.last = nil
}

// stopTimerLocked disarms the pending timer. A timer that already
// started firing is rejected by the generation check instead.
func (s *Service) stopTimerLocked() {
	if s.timer == nil {
		return
	}
	s.timer.Stop()
	s.timer = nil
}
