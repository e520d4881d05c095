package tviewtk

import (
	"github.com/rivo/tview"

	"github.com/ajramos/tuirobot/pkg/component"
)

// The methods below read tview state and run on the application goroutine.

func (tk *Toolkit) primitive(c component.Component) (tview.Primitive, bool) {
	p, ok := c.(tview.Primitive)
	if !ok || p == nil {
		return nil, false
	}
	return p, true
}

// childrenOf returns the direct children of p, or nil when p is not a
// container it knows.
func (tk *Toolkit) childrenOf(p tview.Primitive) []tview.Primitive {
	for _, fn := range tk.containers {
		if kids, ok := fn(p); ok {
			return kids
		}
	}
	switch v := p.(type) {
	case *tview.Flex:
		kids := make([]tview.Primitive, 0, v.GetItemCount())
		for i := 0; i < v.GetItemCount(); i++ {
			if item := v.GetItem(i); item != nil {
				kids = append(kids, item)
			}
		}
		return kids
	case *tview.Form:
		kids := make([]tview.Primitive, 0, v.GetFormItemCount()+v.GetButtonCount())
		for i := 0; i < v.GetFormItemCount(); i++ {
			kids = append(kids, v.GetFormItem(i))
		}
		for i := 0; i < v.GetButtonCount(); i++ {
			kids = append(kids, v.GetButton(i))
		}
		return kids
	case *Pages:
		return v.Items(false)
	}
	return nil
}

// path returns the chain from a root page item down to p, or nil when p is
// not attached to the root pages.
func (tk *Toolkit) path(p tview.Primitive) []tview.Primitive {
	for _, item := range tk.pages.Items(false) {
		if chain := tk.search(item, p, nil); chain != nil {
			return chain
		}
	}
	return nil
}

func (tk *Toolkit) search(cur, target tview.Primitive, chain []tview.Primitive) []tview.Primitive {
	for _, seen := range chain {
		if seen == cur {
			return nil
		}
	}
	chain = append(chain, cur)
	if cur == target {
		return chain
	}
	for _, kid := range tk.childrenOf(cur) {
		if found := tk.search(kid, target, chain); found != nil {
			return found
		}
	}
	return nil
}

// Parent returns the container of c within the root pages. Page items have
// no parent.
func (tk *Toolkit) Parent(c component.Component) component.Component {
	p, ok := tk.primitive(c)
	if !ok {
		return nil
	}
	chain := tk.path(p)
	if len(chain) < 2 {
		return nil
	}
	return chain[len(chain)-2]
}

// Children returns the children of a known container.
func (tk *Toolkit) Children(c component.Component) []component.Component {
	p, ok := tk.primitive(c)
	if !ok {
		return nil
	}
	kids := tk.childrenOf(p)
	out := make([]component.Component, len(kids))
	for i, k := range kids {
		out[i] = k
	}
	return out
}

// Name returns the name given with SetName or, for page items, the page
// name.
func (tk *Toolkit) Name(c component.Component) string {
	p, ok := tk.primitive(c)
	if !ok {
		return ""
	}
	tk.namesMu.RLock()
	name, named := tk.names[p]
	tk.namesMu.RUnlock()
	if named {
		return name
	}
	for _, pg := range tk.known {
		if pg.item == p {
			return pg.name
		}
	}
	return ""
}

// IsShowing reports whether c is attached to a visible root page while the
// application runs. Nested pages must be visible too.
func (tk *Toolkit) IsShowing(c component.Component) bool {
	p, ok := tk.primitive(c)
	if !ok || !tk.running.Load() || tk.stopped.Load() {
		return false
	}
	chain := tk.path(p)
	if chain == nil || !tk.pages.Contains(chain[0], true) {
		return false
	}
	for i := 0; i+1 < len(chain); i++ {
		if nested, ok := chain[i].(*Pages); ok && !nested.Contains(chain[i+1], true) {
			return false
		}
	}
	return true
}

// IsEnabled is false for primitives that report themselves disabled.
func (tk *Toolkit) IsEnabled(c component.Component) bool {
	p, ok := tk.primitive(c)
	if !ok {
		return false
	}
	if d, ok := p.(interface{ IsDisabled() bool }); ok {
		return !d.IsDisabled()
	}
	return true
}

// IsWindow is true for primitives that have been root page items.
func (tk *Toolkit) IsWindow(c component.Component) bool {
	p, ok := tk.primitive(c)
	return ok && tk.windows[p]
}

// ReadyOnOpen is true for modals, which take input as soon as they show.
func (tk *Toolkit) ReadyOnOpen(w component.Component) bool {
	_, ok := w.(*tview.Modal)
	return ok
}

// Windows returns the items of the current root pages.
func (tk *Toolkit) Windows() []component.Component {
	items := tk.pages.Items(false)
	out := make([]component.Component, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}
