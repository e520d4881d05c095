package hierarchy

import (
	"github.com/ajramos/tuirobot/internal/cow"
	"github.com/ajramos/tuirobot/pkg/component"
)

// Filter is the set of components excluded from traversal. A filtered
// component hides its descendants as well.
//
// Components are excluded either explicitly, through Filter, or implicitly,
// through Ignore. An implicitly ignored window becomes visible again once it
// is recognized, which the lifecycle monitor does when the window opens.
type Filter struct {
	filtered cow.Map[component.Component, struct{}]
	ignored  cow.Map[component.Component, struct{}]
}

// NewFilter returns an empty filter.
func NewFilter() *Filter { return &Filter{} }

// Filter excludes c until Unfilter.
func (f *Filter) Filter(c component.Component) {
	if c != nil {
		f.filtered.Store(c, struct{}{})
	}
}

// Unfilter makes c visible again, whether it was filtered or ignored.
// Ancestors that are still excluded keep hiding it.
func (f *Filter) Unfilter(c component.Component) {
	f.filtered.Delete(c)
	f.ignored.Delete(c)
}

// Ignore excludes c until it is recognized.
func (f *Filter) Ignore(c component.Component) {
	if c != nil {
		f.ignored.Store(c, struct{}{})
	}
}

// IsIgnored reports whether c is implicitly ignored.
func (f *Filter) IsIgnored(c component.Component) bool {
	return f.ignored.Has(c)
}

// Recognize reveals c if it was only implicitly ignored. Explicit filtering
// is kept.
func (f *Filter) Recognize(c component.Component) {
	f.ignored.Delete(c)
}

// IsFiltered reports whether c itself is excluded.
func (f *Filter) IsFiltered(c component.Component) bool {
	return f.filtered.Has(c) || f.ignored.Has(c)
}

// IsHidden reports whether c or one of its ancestors in tree is excluded.
func (f *Filter) IsHidden(tree component.Tree, c component.Component) bool {
	if f.filtered.Len() == 0 && f.ignored.Len() == 0 {
		return false
	}
	for cur := c; cur != nil; cur = tree.Parent(cur) {
		if f.IsFiltered(cur) {
			return true
		}
	}
	return false
}

// Filtered returns the explicitly filtered components.
func (f *Filter) Filtered() []component.Component { return f.filtered.Keys() }

// Ignored returns the implicitly ignored components.
func (f *Filter) Ignored() []component.Component { return f.ignored.Keys() }

// Reset clears the filter.
func (f *Filter) Reset() {
	f.filtered.Clear()
	f.ignored.Clear()
}
