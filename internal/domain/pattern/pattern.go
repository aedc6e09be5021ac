// Package pattern turns user queries into compiled match patterns and
// validates raw patterns before they reach the engine.
package pattern

import (
	"regexp"
	"strings"
)

// MaxPatternLength is the maximum accepted pattern length.
const MaxPatternLength = 1000

// Options configure how a query is interpreted. All three flags are
// independent and immutable for the duration of one search.
type Options struct {
	Regex         bool
	CaseSensitive bool
	WholeWord     bool
}

// Compile builds the match pattern for a query. Non-regex queries are
// matched literally; WholeWord anchors the pattern at word boundaries;
// matching is case-insensitive unless CaseSensitive is set.
func Compile(query string, opts Options) (*regexp.Regexp, error) {
	src := query
	if !opts.Regex {
		src = regexp.QuoteMeta(query)
	}
	if opts.WholeWord {
		src = `\b(?:` + src + `)\b`
	}
	if !opts.CaseSensitive {
		src = `(?i)` + src
	}
	return regexp.Compile(src)
}

// dangerousShapes are nested-quantifier forms known to blow up
// backtracking regex engines: a quantified group whose body is itself
// quantified, in star/plus and counted-repetition variants. This is a
// shape heuristic, not an analysis; it exists to reject patterns a host
// with a backtracking engine could choke on, and stays deliberately small.
var dangerousShapes = []*regexp.Regexp{
	regexp.MustCompile(`\((?:[^()\\]|\\.)*[+*]\)[+*]`),
	regexp.MustCompile(`\((?:[^()\\]|\\.)*\{\d+,\d*\}\)[+*]`),
	regexp.MustCompile(`\((?:[^()\\]|\\.)*[+*]\)\{\d+,`),
}

// Validation is the outcome of a pattern check.
type Validation struct {
	IsValid bool
	Err     string
}

// Validate checks a raw pattern without running it: length, syntax, and
// a best-effort catastrophic-backtracking shape guard. A pattern that
// passes is not guaranteed safe on every engine; a pattern that fails
// is never handed to one.
func Validate(pat string) Validation {
	if len(pat) > MaxPatternLength {
		return Validation{Err: "pattern too long"}
	}
	if _, err := regexp.Compile(pat); err != nil {
		return Validation{Err: compileErrMessage(err)}
	}
	for _, shape := range dangerousShapes {
		if shape.MatchString(pat) {
			return Validation{Err: "pattern contains a potentially catastrophic nested quantifier"}
		}
	}
	return Validation{IsValid: true}
}

// compileErrMessage strips the "error parsing regexp: " prefix so the
// caller sees only the reason.
func compileErrMessage(err error) string {
	msg := err.Error()
	if _, reason, ok := strings.Cut(msg, "error parsing regexp: "); ok {
		return reason
	}
	return msg
}
