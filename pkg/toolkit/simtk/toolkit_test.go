package simtk

import (
	"sync"
	"testing"

	"github.com/ajramos/tuirobot/pkg/component"
	"github.com/ajramos/tuirobot/pkg/uithread"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []component.WindowEvent
}

func (r *recorder) record(e component.WindowEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) kinds() []component.EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]component.EventKind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

func newToolkit(t *testing.T) *Toolkit {
	t.Helper()
	tk := New()
	t.Cleanup(tk.Shutdown)
	return tk
}

func TestShowAndClose_EventSequence(t *testing.T) {
	tk := newToolkit(t)
	rec := &recorder{}
	cancel := tk.Subscribe(rec.record)
	defer cancel()

	f := tk.NewFrame("main", "Main")
	require.NoError(t, tk.Show(f))
	require.NoError(t, tk.Hide(f))
	require.NoError(t, tk.Show(f))
	require.NoError(t, tk.Close(f))
	require.NoError(t, tk.Close(f))

	assert.Equal(t, []component.EventKind{
		component.EventOpened,
		component.EventHidden,
		component.EventShown,
		component.EventClosing,
		component.EventClosed,
	}, rec.kinds())
	assert.Empty(t, tk.Windows())
}

func TestShow_DisposedWindowFails(t *testing.T) {
	tk := newToolkit(t)
	f := tk.NewFrame("main", "")
	require.NoError(t, tk.Show(f))
	require.NoError(t, tk.Close(f))

	err := tk.Show(f)

	var ae *component.ActionError
	require.ErrorAs(t, err, &ae)
	assert.ErrorIs(t, err, ErrDisposed)
}

func TestIsShowing_FollowsAncestors(t *testing.T) {
	tk := newToolkit(t)
	ok := tk.NewButton("ok", "OK")
	panel := tk.NewPanel("buttons").Add(ok)
	f := tk.NewFrame("main", "").Add(panel)

	assert.False(t, tk.IsShowing(ok), "frame not shown yet")
	require.NoError(t, tk.Show(f))
	assert.True(t, tk.IsShowing(ok))

	require.NoError(t, panel.SetVisible(false))
	assert.False(t, tk.IsShowing(ok))
	assert.True(t, tk.IsShowing(f))
}

func TestAdd_Reparents(t *testing.T) {
	tk := newToolkit(t)
	b := tk.NewButton("b", "B")
	p1 := tk.NewPanel("p1").Add(b)
	p2 := tk.NewPanel("p2")

	p2.Add(b)

	assert.Empty(t, tk.Children(p1))
	assert.Equal(t, []component.Component{b}, tk.Children(p2))
	assert.Equal(t, component.Component(p2), tk.Parent(b))
}

func TestAdd_RejectsCycleAndWindows(t *testing.T) {
	tk := newToolkit(t)
	inner := tk.NewPanel("inner")
	outer := tk.NewPanel("outer").Add(inner)

	assert.Panics(t, func() { inner.Add(outer) })
	assert.Panics(t, func() { outer.Add(tk.NewFrame("f", "")) })
}

func TestButtonClick(t *testing.T) {
	tk := newToolkit(t)
	clicks := 0
	b := tk.NewButton("ok", "OK").OnClick(func() { clicks++ })
	f := tk.NewFrame("main", "").Add(tk.NewPanel("p").Add(b))

	err := b.Click()
	assert.ErrorIs(t, err, component.ErrNotShowing)

	require.NoError(t, tk.Show(f))
	require.NoError(t, b.Click())

	require.NoError(t, b.SetEnabled(false))
	assert.ErrorIs(t, b.Click(), component.ErrNotEnabled)
	assert.Equal(t, 1, clicks)
}

func TestTextFieldType(t *testing.T) {
	tk := newToolkit(t)
	field := tk.NewTextField("query")
	f := tk.NewFrame("main", "").Add(field)
	require.NoError(t, tk.Show(f))

	require.NoError(t, field.SetText("go"))
	require.NoError(t, field.Type("pher"))

	assert.Equal(t, "gopher", field.Text())
}

func TestIconify_DialogUnsupported(t *testing.T) {
	tk := newToolkit(t)
	d := tk.NewDialog("confirm", nil, true)
	require.NoError(t, tk.Show(d))

	err := tk.Iconify(d)

	var ae *component.ActionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "iconify", ae.Action)
	assert.ErrorIs(t, err, component.ErrUnsupported)
}

func TestIsWindowAndReadyOnOpen(t *testing.T) {
	tk := newToolkit(t)
	other := New()
	defer other.Shutdown()

	assert.True(t, tk.IsWindow(tk.NewFrame("f", "")))
	assert.True(t, tk.IsWindow(tk.NewDialog("d", nil, false)))
	assert.True(t, tk.IsWindow(tk.NewApplet("a")))
	assert.False(t, tk.IsWindow(tk.NewPanel("p")))
	assert.False(t, tk.IsWindow(other.NewFrame("foreign", "")))
	assert.True(t, tk.ReadyOnOpen(tk.NewFileDialog("open", "/tmp")))
	assert.False(t, tk.ReadyOnOpen(tk.NewDialog("d2", nil, false)))
}

func TestSetQueue_EventsCarryQueue(t *testing.T) {
	tk := newToolkit(t)
	rec := &recorder{}
	defer tk.Subscribe(rec.record)()

	q := tk.NewQueue()
	f := tk.NewFrame("main", "")
	require.NoError(t, f.SetQueue(q))
	require.NoError(t, tk.Show(f))

	require.Len(t, rec.events, 1)
	assert.Equal(t, q, rec.events[0].Queue)
	assert.NotEqual(t, SystemQueue, q)
}

func TestSetters_FailAfterShutdown(t *testing.T) {
	tk := New()
	b := tk.NewButton("ok", "OK")
	field := tk.NewTextField("query")
	f := tk.NewFrame("main", "").Add(tk.NewPanel("p").Add(b, field))
	tk.Shutdown()

	tests := []struct {
		name string
		set  func() error
	}{
		{"SetName", func() error { return b.SetName("renamed") }},
		{"SetEnabled", func() error { return b.SetEnabled(false) }},
		{"SetVisible", func() error { return b.SetVisible(false) }},
		{"SetQueue", func() error { return f.SetQueue(tk.NewQueue()) }},
		{"SetText", func() error { return field.SetText("go") }},
		{"Remove", func() error { return tk.Remove(field) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.set()
			assert.ErrorIs(t, err, uithread.ErrStopped)
			assert.True(t, uithread.IsMarshalError(err))
		})
	}
	assert.Equal(t, "ok", b.Name())
	assert.Equal(t, "", field.Text())

	assert.Panics(t, func() { b.OnClick(func() {}) })
	assert.Panics(t, func() { tk.NewFrame("late", "") })
}
