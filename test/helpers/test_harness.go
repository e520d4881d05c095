package helpers

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajramos/tuirobot/internal/config"
	"github.com/ajramos/tuirobot/pkg/component"
	"github.com/ajramos/tuirobot/pkg/finder"
	"github.com/ajramos/tuirobot/pkg/session"
	"github.com/ajramos/tuirobot/pkg/toolkit/tviewtk"
	"github.com/ajramos/tuirobot/pkg/wait"
)

// TestHarness runs a tview application on a simulation screen with a robot
// session attached to it
type TestHarness struct {
	Toolkit *tviewtk.Toolkit
	Screen  tcell.SimulationScreen
	Robot   *tviewtk.Robot
	Session *session.Session
}

type harnessOptions struct {
	width, height int
	pages         []namedPage
	session       []session.Option
}

type namedPage struct {
	name    string
	item    tview.Primitive
	visible bool
}

// Option configures a TestHarness
type Option func(*harnessOptions)

// WithPage adds a visible page before the application starts. Such pages
// exist before the session and are ignored by its hierarchy unless the
// session is created WithNewHierarchy(false).
func WithPage(name string, item tview.Primitive) Option {
	return func(o *harnessOptions) {
		o.pages = append(o.pages, namedPage{name: name, item: item, visible: true})
	}
}

// WithHiddenPage adds a page that is not shown before the application
// starts. The session ignores it until it is shown.
func WithHiddenPage(name string, item tview.Primitive) Option {
	return func(o *harnessOptions) { o.pages = append(o.pages, namedPage{name: name, item: item}) }
}

// WithScreenSize overrides the standard 120x40 terminal
func WithScreenSize(width, height int) Option {
	return func(o *harnessOptions) { o.width, o.height = width, height }
}

// WithConfig sizes the screen and configures the session from cfg
func WithConfig(cfg *config.Config) Option {
	return func(o *harnessOptions) {
		o.width, o.height = cfg.Screen.Width, cfg.Screen.Height
		o.session = append(o.session, session.FromConfig(cfg))
	}
}

// WithSessionOptions passes options to the robot session
func WithSessionOptions(opts ...session.Option) Option {
	return func(o *harnessOptions) { o.session = append(o.session, opts...) }
}

// NewTestHarness starts an application and opens a session on it. Both are
// torn down when the test ends.
func NewTestHarness(t *testing.T, opts ...Option) *TestHarness {
	t.Helper()

	o := harnessOptions{width: 120, height: 40} // Standard terminal size for testing
	for _, opt := range opts {
		opt(&o)
	}

	tk := tviewtk.New(tviewtk.WithScreenSize(o.width, o.height))
	for _, p := range o.pages {
		tk.Pages().AddPage(p.name, p.item, true, p.visible)
	}
	require.NoError(t, tk.Start())
	t.Cleanup(func() { _ = tk.Stop() })

	sessionOpts := append([]session.Option{
		session.WithName(t.Name()),
		session.WithTimeout(2 * time.Second),
	}, o.session...)

	return &TestHarness{
		Toolkit: tk,
		Screen:  tk.Screen(),
		Robot:   tk.Robot(),
		Session: session.Open(t, tk, sessionOpts...),
	}
}

// Cleanup closes the session and stops the application. It is safe to call
// more than once.
func (h *TestHarness) Cleanup() {
	_ = h.Session.Close()
	_ = h.Toolkit.Stop()
}

// Named names p for lookups and returns it
func Named[P tview.Primitive](h *TestHarness, name string, p P) P {
	return tviewtk.Named(h.Toolkit, name, p)
}

// ShowPage adds item as a visible page on top of the others
func (h *TestHarness) ShowPage(name string, item tview.Primitive) error {
	return h.Toolkit.AddPage(name, item, true)
}

// HidePage hides the named page
func (h *TestHarness) HidePage(name string) error {
	return h.Toolkit.HidePage(name)
}

// RemovePage closes the named page
func (h *TestHarness) RemovePage(name string) error {
	return h.Toolkit.RemovePage(name)
}

// ShowPageAfter shows the page from another goroutine after delay, the way
// a slow application would
func (h *TestHarness) ShowPageAfter(delay time.Duration, name string, item tview.Primitive) {
	time.AfterFunc(delay, func() { _ = h.ShowPage(name, item) })
}

// Find waits for exactly one showing component with the given name
func (h *TestHarness) Find(name string) (component.Component, error) {
	return h.Session.FindWithTimeout(finder.ByName(name, true), h.Session.Waiter().Timeout())
}

// Click finds the named component and clicks it
func (h *TestHarness) Click(name string) error {
	c, err := h.Find(name)
	if err != nil {
		return err
	}
	return h.Robot.Click(c)
}

// TypeInto finds the named component, focuses it and types text
func (h *TestHarness) TypeInto(name, text string) error {
	c, err := h.Find(name)
	if err != nil {
		return err
	}
	return h.Robot.FocusAndType(c, text)
}

// PressKey injects a key press
func (h *TestHarness) PressKey(key tcell.Key) error {
	return h.Robot.PressKey(key, 0, tcell.ModNone)
}

// Focused returns the primitive that has keyboard focus
func (h *TestHarness) Focused() tview.Primitive {
	var p tview.Primitive
	_ = h.Toolkit.Update(func() { p = h.Toolkit.App().GetFocus() })
	return p
}

// GetScreenContent captures the current screen content as a string
func (h *TestHarness) GetScreenContent() string {
	return h.Toolkit.ScreenText()
}

// AssertScreenContains waits briefly for the screen to show expectedText
func (h *TestHarness) AssertScreenContains(t *testing.T, expectedText string) {
	t.Helper()
	if !h.WaitForText(expectedText, time.Second) {
		assert.Contains(t, h.GetScreenContent(), expectedText)
	}
}

// AssertScreenNotContains checks if the screen doesn't contain specific text
func (h *TestHarness) AssertScreenNotContains(t *testing.T, expectedText string) {
	t.Helper()
	assert.NotContains(t, h.GetScreenContent(), expectedText)
}

// WaitForText waits until the screen shows text
func (h *TestHarness) WaitForText(text string, timeout time.Duration) bool {
	return h.WaitForCondition(func() bool {
		return strings.Contains(h.GetScreenContent(), text)
	}, timeout)
}

// WaitForCondition waits for a condition to be true with timeout
func (h *TestHarness) WaitForCondition(condition func() bool, timeout time.Duration) bool {
	err := h.Session.Until("condition", func() (bool, error) {
		return condition(), nil
	}, wait.WithTimeout(timeout), wait.WithPollInterval(wait.MinPollInterval))
	return err == nil
}
