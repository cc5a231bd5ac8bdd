package desktop

import (
	"github.com/1broseidon/floatwin/internal/geometry"
	"github.com/1broseidon/floatwin/internal/pointer"
	"github.com/1broseidon/floatwin/internal/window"
)

// PointerDown handles a press anywhere on the page. The topmost window under
// the pointer becomes selected and every other window is deselected; if the
// press lands on a titlebar or gripper a drag session starts. It returns the
// id of the window hit.
func (d *Desktop) PointerDown(ev pointer.Event) (int, bool) {
	p := geometry.Point{X: ev.X, Y: ev.Y}
	id, hit := d.layers.HitTest(p)
	d.selectWindow(id, hit)
	if !hit {
		return 0, false
	}
	w, err := d.Window(id)
	if err != nil {
		return 0, false
	}
	view := w.View()
	margin := d.opts.GripperMargin
	if view.States.Pinned {
		margin = 0
	}
	if h := d.handleAt(view, p, margin); h != geometry.HandleNone {
		w.PointerDown(h, ev)
	}
	return id, true
}

func (d *Desktop) handleAt(view window.View, p geometry.Point, margin int) geometry.Handle {
	h := geometry.HandleAt(view.Rendered, p, margin, view.TitlebarHeight)
	if h == geometry.HandleTitlebar {
		if view.CanMove {
			return h
		}
		return geometry.HandleNone
	}
	for _, g := range view.Grippers {
		if g == h {
			return h
		}
	}
	return geometry.HandleNone
}

// PointerMove forwards a move to any active drag.
func (d *Desktop) PointerMove(ev pointer.Event) {
	ev.Kind = pointer.Move
	d.doc.pointer(ev)
}

// PointerUp forwards a release to any active drag.
func (d *Desktop) PointerUp(ev pointer.Event) {
	ev.Kind = pointer.Up
	d.doc.pointer(ev)
}

// KeyUp forwards a key release; Escape cancels drags.
func (d *Desktop) KeyUp(key string) {
	d.doc.keyUp(key)
}

// Selected returns the selected window id, or 0.
func (d *Desktop) Selected() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.selected
}

// Select makes id the selected window, or clears the selection for 0.
func (d *Desktop) Select(id int) error {
	if id == 0 {
		d.selectWindow(0, false)
		return nil
	}
	if _, err := d.Window(id); err != nil {
		return err
	}
	d.selectWindow(id, true)
	return nil
}

func (d *Desktop) selectWindow(id int, hit bool) {
	d.mu.Lock()
	if !hit {
		id = 0
	}
	d.selected = id
	d.mu.Unlock()

	for _, w := range d.Windows() {
		w.Select(hit && w.ID() == id)
	}
}
