package tviewtk

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/ajramos/tuirobot/pkg/component"
	"github.com/ajramos/tuirobot/pkg/uithread"
)

// Robot simulates a user at the terminal. Input is injected into the
// simulation screen and handled by the application like real input.
type Robot struct {
	tk     *Toolkit
	settle time.Duration
}

// Robot returns a robot for tk.
func (tk *Toolkit) Robot() *Robot {
	return &Robot{tk: tk, settle: 5 * time.Millisecond}
}

// PressKey injects one key press and waits for the application to handle it.
func (r *Robot) PressKey(key tcell.Key, ch rune, mod tcell.ModMask) error {
	r.tk.screen.InjectKey(key, ch, mod)
	return r.WaitForIdle()
}

// Type injects s one rune at a time into the focused primitive.
func (r *Robot) Type(s string) error {
	for _, ch := range s {
		r.tk.screen.InjectKey(tcell.KeyRune, ch, tcell.ModNone)
	}
	return r.WaitForIdle()
}

// Focus gives keyboard focus to c. It fails with *component.ActionError when
// c is not showing or disabled.
func (r *Robot) Focus(c component.Component) error {
	return r.tk.exec.Run(func() error {
		if err := component.RequireShowingAndEnabled(r.tk, "focus", c); err != nil {
			return err
		}
		p, ok := r.tk.primitive(c)
		if !ok {
			return component.NewActionError(r.tk, "focus", c, component.ErrUnsupported)
		}
		r.tk.app.SetFocus(p)
		return nil
	})
}

// Click presses and releases the left mouse button over the centre of c.
func (r *Robot) Click(c component.Component) error {
	pt, err := uithread.Query(r.tk.exec, func() (point, error) {
		if err := component.RequireShowingAndEnabled(r.tk, "click", c); err != nil {
			return point{}, err
		}
		p, ok := r.tk.primitive(c)
		if !ok {
			return point{}, component.NewActionError(r.tk, "click", c, component.ErrUnsupported)
		}
		return centre(p)
	})
	if err != nil {
		return err
	}
	r.tk.screen.InjectMouse(pt.x, pt.y, tcell.Button1, tcell.ModNone)
	r.tk.screen.InjectMouse(pt.x, pt.y, tcell.ButtonNone, tcell.ModNone)
	return r.WaitForIdle()
}

// FocusAndType focuses c and types s into it.
func (r *Robot) FocusAndType(c component.Component, s string) error {
	if err := r.Focus(c); err != nil {
		return err
	}
	return r.Type(s)
}

// WaitForIdle waits for two round trips through the update queue, each after
// a short settle delay, so injected input has been handled.
func (r *Robot) WaitForIdle() error {
	for i := 0; i < 2; i++ {
		time.Sleep(r.settle)
		if err := r.tk.exec.Run(func() error { return nil }); err != nil {
			return fmt.Errorf("tviewtk: wait for idle: %w", err)
		}
	}
	return nil
}

type point struct{ x, y int }

func centre(p tview.Primitive) (point, error) {
	x, y, w, h := p.GetRect()
	if w <= 0 || h <= 0 {
		return point{}, fmt.Errorf("tviewtk: %T has not been drawn", p)
	}
	return point{x: x + w/2, y: y + h/2}, nil
}
