package hierarchy

import (
	"github.com/ajramos/tuirobot/pkg/component"
)

// Hierarchy is the view of the component tree a finder walks.
type Hierarchy interface {
	// Roots returns the unfiltered top-level windows.
	Roots() []component.Component

	// ChildrenOf returns the unfiltered children of c, empty for leaves and
	// filtered components.
	ChildrenOf(c component.Component) []component.Component

	// ParentOf returns the container of c, or nil for roots.
	ParentOf(c component.Component) component.Component

	// Contains reports whether c is reachable from an unfiltered root.
	Contains(c component.Component) bool

	// Dispose removes window w from future traversal. It is idempotent.
	Dispose(w component.Component)
}

// RootSource supplies the registered root windows.
type RootSource interface {
	RootWindows() []component.Component
}

// RootRemover is implemented by root sources that forget disposed windows.
type RootRemover interface {
	RemoveContextFor(w component.Component)
}

// Existing is the session-wide hierarchy: the roots registered by the
// lifecycle monitor, overlaid with a filter.
type Existing struct {
	tree   component.Tree
	roots  RootSource
	filter *Filter
}

var _ Hierarchy = (*Existing)(nil)

// Option configures an Existing hierarchy.
type Option func(*options)

type options struct {
	ignoreExisting []component.Component
	filter         *Filter
}

// IgnoreExisting filters the given windows at construction, so the
// hierarchy only shows windows opened afterwards. Pass the toolkit's
// Windows() to mimic a fresh hierarchy.
func IgnoreExisting(windows []component.Component) Option {
	return func(o *options) { o.ignoreExisting = windows }
}

// WithFilter shares f instead of creating a new filter.
func WithFilter(f *Filter) Option {
	return func(o *options) { o.filter = f }
}

// New creates the session hierarchy.
func New(tree component.Tree, roots RootSource, opts ...Option) *Existing {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.filter == nil {
		o.filter = NewFilter()
	}
	h := &Existing{tree: tree, roots: roots, filter: o.filter}
	for _, w := range o.ignoreExisting {
		h.filter.Filter(w)
	}
	return h
}

// Overlay returns the filter overlay, to share it with scoped hierarchies.
func (h *Existing) Overlay() *Filter { return h.filter }

// Roots returns registered roots that are not filtered.
func (h *Existing) Roots() []component.Component {
	all := h.roots.RootWindows()
	out := make([]component.Component, 0, len(all))
	for _, w := range all {
		if !h.filter.IsFiltered(w) {
			out = append(out, w)
		}
	}
	return out
}

// ChildrenOf returns the live children of c minus filtered ones.
func (h *Existing) ChildrenOf(c component.Component) []component.Component {
	if c == nil || h.filter.IsHidden(h.tree, c) {
		return []component.Component{}
	}
	kids := h.tree.Children(c)
	out := make([]component.Component, 0, len(kids))
	for _, k := range kids {
		if !h.filter.IsFiltered(k) {
			out = append(out, k)
		}
	}
	return out
}

// ParentOf returns the live parent of c.
func (h *Existing) ParentOf(c component.Component) component.Component {
	if c == nil {
		return nil
	}
	return h.tree.Parent(c)
}

// Contains reports whether c and its ancestors are unfiltered and its
// top-most ancestor is a registered root.
func (h *Existing) Contains(c component.Component) bool {
	if c == nil {
		return false
	}
	top := c
	for cur := c; cur != nil; cur = h.tree.Parent(cur) {
		if h.filter.IsFiltered(cur) {
			return false
		}
		top = cur
	}
	for _, r := range h.roots.RootWindows() {
		if r == top {
			return true
		}
	}
	return false
}

// Filter hides c and its subtree.
func (h *Existing) Filter(c component.Component) { h.filter.Filter(c) }

// Unfilter reveals c again.
func (h *Existing) Unfilter(c component.Component) { h.filter.Unfilter(c) }

// IsFiltered reports whether c is hidden by the filter, directly or through
// an ancestor.
func (h *Existing) IsFiltered(c component.Component) bool { return h.filter.IsHidden(h.tree, c) }

// Dispose filters w for good and drops it from the root source when the
// source supports it.
func (h *Existing) Dispose(w component.Component) {
	if w == nil {
		return
	}
	h.filter.Filter(w)
	if r, ok := h.roots.(RootRemover); ok {
		r.RemoveContextFor(w)
	}
}

// Reset clears the filter overlay.
func (h *Existing) Reset() { h.filter.Reset() }
