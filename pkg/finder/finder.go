package finder

import (
	"fmt"

	"github.com/ajramos/tuirobot/pkg/component"
	"github.com/ajramos/tuirobot/pkg/hierarchy"
	"github.com/ajramos/tuirobot/pkg/printer"
	"github.com/ajramos/tuirobot/pkg/uithread"
)

// Order is the traversal order of a search.
type Order int

const (
	// DepthFirst visits a component before its children, children in
	// toolkit order.
	DepthFirst Order = iota
	// BreadthFirst visits components level by level.
	BreadthFirst
)

// Scope decides whether the convenience lookups only consider showing
// components.
type Scope int

const (
	// ShowingOnly restricts FindByName and FindByType to showing components.
	ShowingOnly Scope = iota
	// All lets them match hidden components as well.
	All
)

// Finder searches hierarchies for components.
type Finder struct {
	in      component.Inspector
	exec    *uithread.Executor
	printer *printer.Printer
	order   Order
	scope   Scope
}

// Option configures a Finder.
type Option func(*Finder)

// WithOrder sets the traversal order.
func WithOrder(o Order) Option {
	return func(f *Finder) { f.order = o }
}

// WithScope sets the lookup scope of FindByName and FindByType.
func WithScope(s Scope) Option {
	return func(f *Finder) { f.scope = s }
}

// WithPrinter sets the printer used for hierarchy dumps in lookup errors.
func WithPrinter(p *printer.Printer) Option {
	return func(f *Finder) { f.printer = p }
}

// New returns a finder that inspects components through in and runs every
// search on the executor's UI goroutine.
func New(in component.Inspector, exec *uithread.Executor, opts ...Option) *Finder {
	f := &Finder{in: in, exec: exec}
	for _, o := range opts {
		o(f)
	}
	if f.printer == nil {
		f.printer = printer.New(in, exec)
	}
	return f
}

// Executor returns the executor searches run on.
func (f *Finder) Executor() *uithread.Executor { return f.exec }

// Scope returns the lookup scope.
func (f *Finder) Scope() Scope { return f.scope }

// RequireShowing reports whether the scope restricts lookups to showing
// components.
func (f *Finder) RequireShowing() bool { return f.scope == ShowingOnly }

// Find returns every component of h matched by m. No match is not an error.
func (f *Finder) Find(h hierarchy.Hierarchy, m Matcher) ([]component.Component, error) {
	found, err := uithread.Query(f.exec, func() ([]component.Component, error) {
		return f.collect(h, m), nil
	})
	if err != nil {
		return nil, fmt.Errorf("finding %s: %w", m, err)
	}
	return found, nil
}

// FindOne returns the only component of h matched by m. It fails with
// *LookupError when there is none or more than one.
func (f *Finder) FindOne(h hierarchy.Hierarchy, m Matcher) (component.Component, error) {
	found, err := f.Find(h, m)
	if err != nil {
		return nil, err
	}
	if len(found) != 1 {
		return nil, f.LookupError(h, m, found)
	}
	return found[0], nil
}

// FindIn returns the components matched by m among root and its
// descendants.
func (f *Finder) FindIn(h hierarchy.Hierarchy, root component.Component, m Matcher) ([]component.Component, error) {
	return f.Find(hierarchy.Scoped(root, h), m)
}

// FindOneIn is FindOne restricted to root and its descendants.
func (f *Finder) FindOneIn(h hierarchy.Hierarchy, root component.Component, m Matcher) (component.Component, error) {
	return f.FindOne(hierarchy.Scoped(root, h), m)
}

// FindByName returns the only component named name, honouring the lookup
// scope.
func (f *Finder) FindByName(h hierarchy.Hierarchy, name string) (component.Component, error) {
	return f.FindOne(h, ByName(name, f.RequireShowing()))
}

// FindByType returns the only component of type T, honouring the lookup
// scope of f.
func FindByType[T any](f *Finder, h hierarchy.Hierarchy) (T, error) {
	var zero T
	c, err := f.FindOne(h, ByType[T](f.RequireShowing()))
	if err != nil {
		return zero, err
	}
	return c.(T), nil
}

// LookupError builds the error for a lookup of m in h that found found.
func (f *Finder) LookupError(h hierarchy.Hierarchy, m Matcher, found []component.Component) *LookupError {
	e := &LookupError{Matcher: m.String(), Found: found}
	if len(found) > 1 {
		e.Hierarchy = f.printer.Table(found)
	} else {
		e.Hierarchy = f.printer.Sprint(h)
	}
	return e
}

func (f *Finder) collect(h hierarchy.Hierarchy, m Matcher) []component.Component {
	seen := make(map[component.Component]struct{})
	found := []component.Component{}
	visit := func(c component.Component) bool {
		if _, dup := seen[c]; dup {
			return false
		}
		seen[c] = struct{}{}
		if m.Matches(f.in, c) {
			found = append(found, c)
		}
		return true
	}

	if f.order == BreadthFirst {
		queue := append([]component.Component(nil), h.Roots()...)
		for len(queue) > 0 {
			c := queue[0]
			queue = queue[1:]
			if visit(c) {
				queue = append(queue, h.ChildrenOf(c)...)
			}
		}
		return found
	}

	var walk func(c component.Component)
	walk = func(c component.Component) {
		if !visit(c) {
			return
		}
		for _, child := range h.ChildrenOf(c) {
			walk(child)
		}
	}
	for _, root := range h.Roots() {
		walk(root)
	}
	return found
}
