package simtk

import (
	"errors"
	"fmt"

	"github.com/ajramos/tuirobot/pkg/component"
)

// ErrDisposed is the precondition reported for actions on closed windows.
var ErrDisposed = errors.New("window is disposed")

// Widget is implemented by every simtk component.
type Widget interface {
	base() *node
}

// Window is implemented by top-level windows: *Frame, *Dialog and *FileDialog.
type Window interface {
	Widget
	window()
}

type node struct {
	tk       *Toolkit
	name     string
	visible  bool
	enabled  bool
	topLevel bool
	opened   bool
	disposed bool
	parent   Widget
	children []Widget
	queue    component.Queue
}

func (n *node) base() *node { return n }

func (tk *Toolkit) newNode(name string, window bool) node {
	return node{
		tk:       tk,
		name:     name,
		visible:  !window,
		enabled:  true,
		topLevel: window,
		queue:    SystemQueue,
	}
}

// Name returns the widget name.
func (n *node) Name() string {
	n.tk.mu.RLock()
	defer n.tk.mu.RUnlock()
	return n.name
}

// SetName renames the widget. Setters fail once the toolkit is shut down.
func (n *node) SetName(name string) error {
	return n.tk.update(func() { n.name = name })
}

// SetEnabled toggles whether the widget accepts input.
func (n *node) SetEnabled(enabled bool) error {
	return n.tk.update(func() { n.enabled = enabled })
}

// SetVisible toggles visibility of a non-window widget. Windows use
// Toolkit.Show and Toolkit.Hide.
func (n *node) SetVisible(visible bool) error {
	return n.tk.update(func() {
		if !n.topLevel {
			n.visible = visible
		}
	})
}

// SetQueue makes the window's events arrive on q.
func (n *node) SetQueue(q component.Queue) error {
	return n.tk.update(func() { n.queue = q })
}

// Frame is a decorated top-level window.
type Frame struct {
	node
	title string
}

func (*Frame) window() {}

// Title returns the frame title.
func (f *Frame) Title() string {
	f.tk.mu.RLock()
	defer f.tk.mu.RUnlock()
	return f.title
}

// Add appends children to the frame's content.
func (f *Frame) Add(kids ...Widget) *Frame {
	f.tk.mustAdd(f, kids)
	return f
}

// Dialog is a top-level window owned by another window.
type Dialog struct {
	node
	owner Window
	modal bool
}

func (*Dialog) window() {}

// Owner returns the window that owns the dialog, if any.
func (d *Dialog) Owner() Window { return d.owner }

// Add appends children to the dialog.
func (d *Dialog) Add(kids ...Widget) *Dialog {
	d.tk.mustAdd(d, kids)
	return d
}

// FileDialog is a native file chooser. It is ready as soon as it opens.
type FileDialog struct {
	node
	dir string
}

func (*FileDialog) window() {}

// Dir returns the directory the dialog starts in.
func (d *FileDialog) Dir() string { return d.dir }

// Applet is an embedded component that receives window events while living
// inside another container.
type Applet struct {
	node
}

// Add appends children to the applet.
func (a *Applet) Add(kids ...Widget) *Applet {
	a.tk.mustAdd(a, kids)
	return a
}

// Panel is a plain container.
type Panel struct {
	node
}

// Add appends children to the panel.
func (p *Panel) Add(kids ...Widget) *Panel {
	p.tk.mustAdd(p, kids)
	return p
}

// Button invokes a handler when clicked.
type Button struct {
	node
	text    string
	onClick func()
}

// Text returns the button label.
func (b *Button) Text() string {
	b.tk.mu.RLock()
	defer b.tk.mu.RUnlock()
	return b.text
}

// OnClick sets the handler run on the UI goroutine when the button is clicked.
// It panics once the toolkit is shut down.
func (b *Button) OnClick(fn func()) *Button {
	b.tk.mustUpdate(func() { b.onClick = fn })
	return b
}

// Click simulates a user click. It fails with *component.ActionError when the
// button is not showing or disabled.
func (b *Button) Click() error {
	return b.tk.exec.Run(func() error {
		if err := component.RequireShowingAndEnabled(b.tk, "click", b); err != nil {
			return err
		}
		b.tk.mu.RLock()
		fn := b.onClick
		b.tk.mu.RUnlock()
		if fn != nil {
			fn()
		}
		return nil
	})
}

// TextField holds a single line of editable text.
type TextField struct {
	node
	text string
}

// Text returns the current content.
func (f *TextField) Text() string {
	f.tk.mu.RLock()
	defer f.tk.mu.RUnlock()
	return f.text
}

// SetText replaces the content programmatically.
func (f *TextField) SetText(s string) error {
	return f.tk.update(func() { f.text = s })
}

// Type simulates the user typing s at the end of the field.
func (f *TextField) Type(s string) error {
	return f.tk.exec.Run(func() error {
		if err := component.RequireShowingAndEnabled(f.tk, "type into", f); err != nil {
			return err
		}
		f.tk.mu.Lock()
		f.text += s
		f.tk.mu.Unlock()
		return nil
	})
}

// NewFrame creates a hidden frame.
func (tk *Toolkit) NewFrame(name, title string) *Frame {
	f := &Frame{node: tk.newNode(name, true), title: title}
	tk.register(f)
	return f
}

// NewDialog creates a hidden dialog owned by owner, which may be nil.
func (tk *Toolkit) NewDialog(name string, owner Window, modal bool) *Dialog {
	d := &Dialog{node: tk.newNode(name, true), owner: owner, modal: modal}
	tk.register(d)
	return d
}

// NewFileDialog creates a hidden file dialog.
func (tk *Toolkit) NewFileDialog(name, dir string) *FileDialog {
	d := &FileDialog{node: tk.newNode(name, true), dir: dir}
	tk.register(d)
	return d
}

// NewApplet creates an applet; add it to a container to embed it.
func (tk *Toolkit) NewApplet(name string) *Applet {
	return &Applet{node: tk.newNode(name, false)}
}

// NewPanel creates an empty panel.
func (tk *Toolkit) NewPanel(name string) *Panel {
	return &Panel{node: tk.newNode(name, false)}
}

// NewButton creates a button with the given label.
func (tk *Toolkit) NewButton(name, text string) *Button {
	return &Button{node: tk.newNode(name, false), text: text}
}

// NewTextField creates an empty text field.
func (tk *Toolkit) NewTextField(name string) *TextField {
	return &TextField{node: tk.newNode(name, false)}
}

func (tk *Toolkit) register(w Window) {
	tk.mustUpdate(func() { tk.windows = append(tk.windows, w) })
}

func (tk *Toolkit) mustAdd(parent Widget, kids []Widget) {
	err := tk.exec.Run(func() error {
		tk.mu.Lock()
		defer tk.mu.Unlock()
		for _, k := range kids {
			if k.base().topLevel {
				return fmt.Errorf("simtk: cannot add window %q to a container", k.base().name)
			}
			for cur := parent; cur != nil; cur = cur.base().parent {
				if cur == k {
					return fmt.Errorf("simtk: adding %q would create a cycle", k.base().name)
				}
			}
		}
		for _, k := range kids {
			detachLocked(k)
			k.base().parent = parent
			pn := parent.base()
			pn.children = append(pn.children, k)
		}
		return nil
	})
	if err != nil {
		panic(err)
	}
}

// Remove detaches w from its container.
func (tk *Toolkit) Remove(w Widget) error {
	return tk.update(func() { detachLocked(w) })
}

func detachLocked(w Widget) {
	n := w.base()
	if n.parent == nil {
		return
	}
	pn := n.parent.base()
	for i, k := range pn.children {
		if k == w {
			pn.children = append(pn.children[:i:i], pn.children[i+1:]...)
			break
		}
	}
	n.parent = nil
}
