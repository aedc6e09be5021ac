package findlight

import (
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// Option configures engine construction.
type Option func(*engineConfig)

type engineConfig struct {
	logger       *zap.Logger
	registry     Registry
	scroller     Scroller
	styles       StyleResolver
	debounce     time.Duration
	searchRoot   *html.Node
	markRenderer bool
}

// WithLogger sets the engine logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *engineConfig) { c.logger = l }
}

// WithDebounce overrides the search debounce delay (default 300ms).
// Zero or negative runs searches immediately.
func WithDebounce(d time.Duration) Option {
	return func(c *engineConfig) { c.debounce = d }
}

// WithRegistry installs the host highlight-group capability. Without a
// registry (and without WithMarkRenderer) the engine still tracks
// matches, indices, and scroll targets, but nothing is visually marked.
func WithRegistry(r Registry) Option {
	return func(c *engineConfig) { c.registry = r }
}

// WithScroller installs the host scroll capability.
func WithScroller(s Scroller) Option {
	return func(c *engineConfig) { c.scroller = s }
}

// WithStyleResolver overrides how element styles are resolved during
// traversal. The default parses inline style attributes.
func WithStyleResolver(r StyleResolver) Option {
	return func(c *engineConfig) { c.styles = r }
}

// WithRoot restricts searching to the subtree under root instead of
// the document body.
func WithRoot(root *html.Node) Option {
	return func(c *engineConfig) { c.searchRoot = root }
}

// WithMarkRenderer installs the built-in mark renderer as the highlight
// capability and enables RenderHTML. Overrides WithRegistry and
// WithScroller.
func WithMarkRenderer() Option {
	return func(c *engineConfig) { c.markRenderer = true }
}
