package highlight

import "github.com/findlight/findlight/internal/domain/dom"

// Registry is the host capability for named highlight groups: a group
// is a uniformly styled set of ranges, replaced wholesale on every
// Register call. Hosts without the capability pass a nil Registry and
// the coordinator degrades to index/scroll bookkeeping only.
type Registry interface {
	// Register replaces the named group's ranges.
	Register(group string, ranges []*dom.Range) error
	// Clear removes the named group. Clearing an absent group is a no-op.
	Clear(group string)
}

// Scroller is the host capability that brings a range into view,
// vertically centered. Implementations must schedule the repositioning
// for the next render opportunity and never block the caller.
type Scroller interface {
	ScrollTo(r *dom.Range)
}
