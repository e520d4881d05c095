package monitor

import (
	"github.com/ajramos/tuirobot/internal/cow"
	"github.com/ajramos/tuirobot/pkg/component"
)

// Context records the root windows of the session and the event queue each
// tracked window was seen on.
type Context struct {
	tree   component.Tree
	roots  cow.Map[component.Component, struct{}]
	queues cow.Map[component.Component, component.Queue]
}

// NewContext returns an empty context resolving parents through tree.
func NewContext(tree component.Tree) *Context {
	return &Context{tree: tree}
}

// AddContextFor records q as the queue of w. A window without a parent also
// becomes a root window.
func (c *Context) AddContextFor(w component.Component, q component.Queue) {
	c.queues.Store(w, q)
	if c.tree.Parent(w) == nil && !c.roots.Has(w) {
		c.roots.Store(w, struct{}{})
	}
}

// RemoveContextFor forgets w.
func (c *Context) RemoveContextFor(w component.Component) {
	c.roots.Delete(w)
	c.queues.Delete(w)
}

// StoredQueueFor returns the queue recorded for w, or "" if none.
func (c *Context) StoredQueueFor(w component.Component) component.Queue {
	q, _ := c.queues.Load(w)
	return q
}

// Tracks reports whether w has a context.
func (c *Context) Tracks(w component.Component) bool { return c.queues.Has(w) }

// IsRoot reports whether w is a registered root window.
func (c *Context) IsRoot(w component.Component) bool { return c.roots.Has(w) }

// RootWindows returns the root windows in registration order. The slice is
// an immutable snapshot.
func (c *Context) RootWindows() []component.Component { return c.roots.Keys() }

// Reset forgets every window.
func (c *Context) Reset() {
	c.roots.Clear()
	c.queues.Clear()
}
