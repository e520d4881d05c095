package hierarchy

import "github.com/ajramos/tuirobot/pkg/component"

// ScopedHierarchy limits traversal to a single root, reusing the filter and
// live tree of its base hierarchy.
type ScopedHierarchy struct {
	root component.Component
	base Hierarchy
}

var _ Hierarchy = (*ScopedHierarchy)(nil)

// Scoped returns a hierarchy whose only root is root.
func Scoped(root component.Component, base Hierarchy) *ScopedHierarchy {
	return &ScopedHierarchy{root: root, base: base}
}

// Root returns the scope root.
func (s *ScopedHierarchy) Root() component.Component { return s.root }

// Roots returns the scope root alone, or nothing if the base hides it.
func (s *ScopedHierarchy) Roots() []component.Component {
	if s.root == nil || s.hidden(s.root) {
		return []component.Component{}
	}
	return []component.Component{s.root}
}

func (s *ScopedHierarchy) hidden(c component.Component) bool {
	if f, ok := s.base.(interface {
		IsFiltered(component.Component) bool
	}); ok {
		return f.IsFiltered(c)
	}
	return false
}

// ChildrenOf delegates to the base hierarchy.
func (s *ScopedHierarchy) ChildrenOf(c component.Component) []component.Component {
	return s.base.ChildrenOf(c)
}

// ParentOf delegates to the base hierarchy.
func (s *ScopedHierarchy) ParentOf(c component.Component) component.Component {
	return s.base.ParentOf(c)
}

// Contains reports whether c is root or one of its descendants and is
// not filtered.
func (s *ScopedHierarchy) Contains(c component.Component) bool {
	if c == nil || s.root == nil || s.hidden(c) {
		return false
	}
	for cur := c; cur != nil; cur = s.base.ParentOf(cur) {
		if cur == s.root {
			return true
		}
	}
	return false
}

// Dispose delegates to the base hierarchy.
func (s *ScopedHierarchy) Dispose(w component.Component) { s.base.Dispose(w) }
