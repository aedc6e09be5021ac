// Package finder implements the match-finding half of the engine:
// compile a query into a pattern, walk the searchable text under a
// root, and produce an ordered, capped match list.
package finder

import (
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/findlight/findlight/internal/domain/dom"
	"github.com/findlight/findlight/internal/domain/match"
	"github.com/findlight/findlight/internal/domain/pattern"
	"github.com/findlight/findlight/internal/metrics"
)

// Service locates query occurrences in a document subtree. It reads
// live document state at call time and never mutates it.
type Service struct {
	styles dom.StyleResolver
	logger *zap.Logger
}

// New creates a finder. A nil resolver falls back to inline-style
// resolution; a nil logger is replaced with a no-op logger.
func New(styles dom.StyleResolver, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{styles: styles, logger: logger}
}

// Search finds every occurrence of query under root, in document
// order, up to the match cap. A blank query yields an empty result
// with zero elapsed time. A query that fails to compile degrades to an
// empty result; callers wanting the reason pre-validate via
// ValidatePattern.
func (s *Service) Search(query string, opts pattern.Options, root *html.Node) *match.Result {
	mode := "literal"
	if opts.Regex {
		mode = "regex"
	}

	if strings.TrimSpace(query) == "" {
		metrics.SearchesTotal.WithLabelValues(mode, "empty_query").Inc()
		return match.EmptyResult()
	}

	re, err := pattern.Compile(query, opts)
	if err != nil {
		s.logger.Debug("query failed to compile, returning empty result",
			zap.String("query", query),
			zap.Error(err),
		)
		metrics.SearchesTotal.WithLabelValues(mode, "bad_pattern").Inc()
		return match.EmptyResult()
	}

	start := time.Now()
	matches := s.collect(re, root)
	elapsed := time.Since(start)

	metrics.SearchesTotal.WithLabelValues(mode, "ok").Inc()
	metrics.SearchDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
	metrics.MatchesFoundTotal.Add(float64(len(matches)))
	if len(matches) >= match.MaxMatches {
		metrics.MatchCapHitsTotal.Inc()
	}

	return match.NewResult(matches, elapsed)
}

// collect walks searchable text nodes and runs the pattern against
// each, assigning a running global index in traversal order. Traversal
// stops as soon as the cap is reached. Zero-width hits advance the scan
// (regexp's find-all already forces the position forward) but produce
// no descriptor, so every match keeps start < end.
func (s *Service) collect(re *regexp.Regexp, root *html.Node) []match.Match {
	var matches []match.Match
	it := dom.NewTextIterator(root, s.styles)
	for len(matches) < match.MaxMatches {
		node, ok := it.Next()
		if !ok {
			break
		}
		for _, loc := range re.FindAllStringIndex(node.Data, -1) {
			if loc[0] == loc[1] {
				continue
			}
			m, err := match.New(node, len(matches), loc[0], loc[1])
			if err != nil {
				s.logger.Warn("dropping malformed match", zap.Error(err))
				continue
			}
			matches = append(matches, m)
			if len(matches) >= match.MaxMatches {
				break
			}
		}
	}
	return matches
}

// ValidatePattern checks a raw pattern against the length limit, the
// compiler, and the dangerous-shape heuristic, without executing it.
func (s *Service) ValidatePattern(pat string) pattern.Validation {
	v := pattern.Validate(pat)
	if !v.IsValid {
		metrics.PatternsRejectedTotal.Inc()
	}
	return v
}
