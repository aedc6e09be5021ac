// Package highlight coordinates the two highlight groups over the
// active match set and tracks which match is current.
package highlight

import (
	"go.uber.org/zap"

	"github.com/findlight/findlight/internal/domain/dom"
	"github.com/findlight/findlight/internal/domain/match"
)

// Highlight group names. Both groups live and die together with a
// non-empty match set.
const (
	GroupAll     = "findlight-all-matches"
	GroupCurrent = "findlight-current-match"
)

// Service owns the displayed match set, the current index, and both
// highlight group registrations. Ranges held here are read-only shares
// of the finder's ranges; the service never mutates the document.
type Service struct {
	registry Registry
	scroller Scroller
	logger   *zap.Logger

	matches []match.Match
	current int
}

// New creates a coordinator. A nil registry means the host lacks the
// highlight capability: registration calls are skipped while index and
// scroll bookkeeping keep working. The absence is logged once here.
func New(registry Registry, scroller Scroller, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if registry == nil {
		logger.Warn("highlight registration capability absent, matches will not be visually marked")
	}
	return &Service{
		registry: registry,
		scroller: scroller,
		logger:   logger,
		current:  -1,
	}
}

// Supported reports whether the host exposes highlight registration.
func (s *Service) Supported() bool { return s.registry != nil }

// HighlightMatches replaces the active match set. A non-empty set
// registers the all-matches group and makes match 0 current; an empty
// set leaves no groups and no current match.
func (s *Service) HighlightMatches(matches []match.Match) {
	s.ClearHighlights()
	s.matches = matches
	if len(matches) == 0 {
		return
	}
	s.registerAll()
	s.SetCurrentMatch(0)
}

// SetCurrentMatch makes the match at index current: re-registers the
// current-match group to exactly that range, updates the index, and
// scrolls the range into view. Out-of-range indices are logged and
// change nothing.
func (s *Service) SetCurrentMatch(index int) {
	if index < 0 || index >= len(s.matches) {
		s.logger.Warn("current match index out of range",
			zap.Int("index", index),
			zap.Int("total", len(s.matches)),
		)
		return
	}
	m := &s.matches[index]
	if s.registry != nil {
		s.registry.Clear(GroupCurrent)
		if err := s.registry.Register(GroupCurrent, []*dom.Range{m.Range()}); err != nil {
			s.logger.Warn("register current-match group", zap.Error(err))
		}
	}
	s.current = index
	if s.scroller != nil {
		s.scroller.ScrollTo(m.Range())
	}
}

// NextMatch advances to the next match, wrapping from the last back to
// the first. No-op on an empty set.
func (s *Service) NextMatch() {
	if len(s.matches) == 0 {
		return
	}
	s.SetCurrentMatch((s.current + 1) % len(s.matches))
}

// PreviousMatch steps to the previous match, wrapping from the first to
// the last. No-op on an empty set.
func (s *Service) PreviousMatch() {
	if len(s.matches) == 0 {
		return
	}
	s.SetCurrentMatch((s.current - 1 + len(s.matches)) % len(s.matches))
}

// ClearHighlights unregisters both groups, empties the match set, and
// resets the current index. Idempotent.
func (s *Service) ClearHighlights() {
	if s.registry != nil {
		s.registry.Clear(GroupAll)
		s.registry.Clear(GroupCurrent)
	}
	s.matches = nil
	s.current = -1
}

// RefreshHighlights re-registers both groups from the held match set,
// restoring the previously current index. Recovers from external
// registration loss without re-running the search. No-op when empty.
func (s *Service) RefreshHighlights() {
	if len(s.matches) == 0 {
		return
	}
	s.registerAll()
	if s.current >= 0 {
		s.SetCurrentMatch(s.current)
	}
}

// CurrentIndex returns the current match index, -1 when none.
func (s *Service) CurrentIndex() int { return s.current }

// TotalMatches returns the size of the active match set.
func (s *Service) TotalMatches() int { return len(s.matches) }

// HasMatches reports whether the active match set is non-empty.
func (s *Service) HasMatches() bool { return len(s.matches) > 0 }

// MatchAt returns the match at index, or false when out of range.
func (s *Service) MatchAt(index int) (match.Match, bool) {
	if index < 0 || index >= len(s.matches) {
		return match.Match{}, false
	}
	return s.matches[index], true
}

func (s *Service) registerAll() {
	if s.registry == nil {
		return
	}
	ranges := make([]*dom.Range, len(s.matches))
	for i := range s.matches {
		ranges[i] = s.matches[i].Range()
	}
	if err := s.registry.Register(GroupAll, ranges); err != nil {
		s.logger.Warn("register all-matches group", zap.Error(err))
	}
}
