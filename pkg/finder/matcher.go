package finder

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"github.com/ajramos/tuirobot/pkg/component"
)

// Matcher decides whether a component is the one a test is looking for.
// Matches runs on the UI goroutine.
type Matcher interface {
	Matches(in component.Inspector, c component.Component) bool
	String() string
}

func typeString[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}

type typeMatcher[T any] struct {
	requireShowing bool
}

// ByType matches components whose dynamic type is T. When T is an interface
// any component implementing it matches.
func ByType[T any](requireShowing bool) Matcher {
	return typeMatcher[T]{requireShowing: requireShowing}
}

func (m typeMatcher[T]) Matches(in component.Inspector, c component.Component) bool {
	if _, ok := c.(T); !ok {
		return false
	}
	return !m.requireShowing || in.IsShowing(c)
}

func (m typeMatcher[T]) String() string {
	return fmt.Sprintf("[type=%s, requireShowing=%t]", typeString[T](), m.requireShowing)
}

type nameMatcher struct {
	name           string
	requireShowing bool
}

// ByName matches components whose name equals name exactly.
func ByName(name string, requireShowing bool) Matcher {
	return nameMatcher{name: name, requireShowing: requireShowing}
}

func (m nameMatcher) Matches(in component.Inspector, c component.Component) bool {
	if c == nil || in.Name(c) != m.name {
		return false
	}
	return !m.requireShowing || in.IsShowing(c)
}

func (m nameMatcher) String() string {
	return fmt.Sprintf("[name='%s', requireShowing=%t]", m.name, m.requireShowing)
}

type nameTypeMatcher[T any] struct {
	name           string
	requireShowing bool
}

// ByNameAndType matches components of type T named name.
func ByNameAndType[T any](name string, requireShowing bool) Matcher {
	return nameTypeMatcher[T]{name: name, requireShowing: requireShowing}
}

func (m nameTypeMatcher[T]) Matches(in component.Inspector, c component.Component) bool {
	if _, ok := c.(T); !ok {
		return false
	}
	if in.Name(c) != m.name {
		return false
	}
	return !m.requireShowing || in.IsShowing(c)
}

func (m nameTypeMatcher[T]) String() string {
	return fmt.Sprintf("[name='%s', type=%s, requireShowing=%t]", m.name, typeString[T](), m.requireShowing)
}

type typedMatcher[T any] struct {
	desc           string
	requireShowing bool
	fn             func(T) bool
}

// Typed matches components of type T for which fn returns true. A component
// of another type does not match, and neither does one that makes fn fail a
// type assertion.
func Typed[T any](desc string, requireShowing bool, fn func(T) bool) Matcher {
	return typedMatcher[T]{desc: desc, requireShowing: requireShowing, fn: fn}
}

func (m typedMatcher[T]) Matches(in component.Inspector, c component.Component) (matched bool) {
	t, ok := c.(T)
	if !ok {
		return false
	}
	if m.requireShowing && !in.IsShowing(c) {
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			if _, isAssert := r.(*runtime.TypeAssertionError); !isAssert {
				panic(r)
			}
			matched = false
		}
	}()
	return m.fn(t)
}

func (m typedMatcher[T]) String() string {
	desc := m.desc
	if desc == "" {
		desc = "custom"
	}
	return fmt.Sprintf("[%s, type=%s, requireShowing=%t]", desc, typeString[T](), m.requireShowing)
}

type funcMatcher struct {
	desc string
	fn   func(in component.Inspector, c component.Component) bool
}

// Func adapts a plain predicate.
func Func(desc string, fn func(in component.Inspector, c component.Component) bool) Matcher {
	return funcMatcher{desc: desc, fn: fn}
}

func (m funcMatcher) Matches(in component.Inspector, c component.Component) bool { return m.fn(in, c) }
func (m funcMatcher) String() string                                              { return m.desc }

type allOf []Matcher

// And matches when every matcher matches. With no matchers it matches
// everything.
func And(ms ...Matcher) Matcher { return allOf(ms) }

func (a allOf) Matches(in component.Inspector, c component.Component) bool {
	for _, m := range a {
		if !m.Matches(in, c) {
			return false
		}
	}
	return true
}

func (a allOf) String() string { return join("and", a) }

type anyOf []Matcher

// Or matches when any matcher matches. With no matchers it matches nothing.
func Or(ms ...Matcher) Matcher { return anyOf(ms) }

func (a anyOf) Matches(in component.Inspector, c component.Component) bool {
	for _, m := range a {
		if m.Matches(in, c) {
			return true
		}
	}
	return false
}

func (a anyOf) String() string { return join("or", a) }

type not struct{ m Matcher }

// Not inverts m.
func Not(m Matcher) Matcher { return not{m: m} }

func (n not) Matches(in component.Inspector, c component.Component) bool { return !n.m.Matches(in, c) }
func (n not) String() string                                              { return "not " + n.m.String() }

func join(op string, ms []Matcher) string {
	parts := make([]string, len(ms))
	for i, m := range ms {
		parts[i] = m.String()
	}
	return "(" + strings.Join(parts, " "+op+" ") + ")"
}
