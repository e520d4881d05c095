package simtk

import "github.com/ajramos/tuirobot/pkg/component"

// Show makes w visible. The first show of a window fires EventOpened; later
// shows after Hide fire EventShown.
func (tk *Toolkit) Show(w Window) error {
	return tk.exec.Run(func() error {
		tk.mu.Lock()
		n := w.base()
		if n.disposed {
			tk.mu.Unlock()
			return component.NewActionError(tk, "show", w, ErrDisposed)
		}
		first := !n.opened
		n.visible = true
		n.opened = true
		tk.mu.Unlock()

		if first {
			tk.emit(component.EventOpened, w)
		} else {
			tk.emit(component.EventShown, w)
		}
		return nil
	})
}

// Hide makes w invisible without disposing it.
func (tk *Toolkit) Hide(w Window) error {
	return tk.exec.Run(func() error {
		tk.mu.Lock()
		n := w.base()
		if n.disposed || !n.visible {
			tk.mu.Unlock()
			return nil
		}
		n.visible = false
		tk.mu.Unlock()
		tk.emit(component.EventHidden, w)
		return nil
	})
}

// Activate brings w to front, firing EventActivated.
func (tk *Toolkit) Activate(w Window) error {
	return tk.exec.Run(func() error {
		if !tk.IsShowing(w) {
			return component.NewActionError(tk, "activate", w, component.ErrNotShowing)
		}
		tk.emit(component.EventActivated, w)
		return nil
	})
}

// Iconify minimizes w. Dialogs cannot be iconified.
func (tk *Toolkit) Iconify(w Window) error {
	return tk.exec.Run(func() error {
		if _, ok := w.(*Frame); !ok {
			return component.NewActionError(tk, "iconify", w, component.ErrUnsupported)
		}
		if !tk.IsShowing(w) {
			return component.NewActionError(tk, "iconify", w, component.ErrNotShowing)
		}
		tk.emit(component.EventIconified, w)
		return nil
	})
}

// Close disposes w: it fires EventClosing, hides and disposes the window, and
// fires EventClosed. Closing a disposed window does nothing.
func (tk *Toolkit) Close(w Window) error {
	return tk.exec.Run(func() error {
		tk.mu.RLock()
		disposed := w.base().disposed
		tk.mu.RUnlock()
		if disposed {
			return nil
		}
		tk.emit(component.EventClosing, w)

		tk.mu.Lock()
		n := w.base()
		n.visible = false
		n.opened = false
		n.disposed = true
		for i, other := range tk.windows {
			if other == w {
				tk.windows = append(tk.windows[:i:i], tk.windows[i+1:]...)
				break
			}
		}
		tk.mu.Unlock()

		tk.emit(component.EventClosed, w)
		return nil
	})
}

// StartApplet fires EventOpened for an embedded applet.
func (tk *Toolkit) StartApplet(a *Applet) error {
	return tk.exec.Run(func() error {
		tk.emit(component.EventOpened, a)
		return nil
	})
}

// StopApplet fires EventClosed for an embedded applet. The applet stays in
// its container.
func (tk *Toolkit) StopApplet(a *Applet) error {
	return tk.exec.Run(func() error {
		tk.emit(component.EventClosed, a)
		return nil
	})
}
