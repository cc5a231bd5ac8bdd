package window

import "github.com/1broseidon/floatwin/internal/geometry"

// Rect returns the logical rectangle. Floating windows store it relative to
// the viewport; scroll-with-window windows store document coordinates.
func (w *Window) Rect() geometry.Rect {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rect
}

// Rendered returns the rectangle in document coordinates, compensating the
// live scroll for windows that stay put while the page scrolls.
func (w *Window) Rendered() geometry.Rect {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.renderedLocked()
}

func (w *Window) renderedLocked() geometry.Rect {
	if w.cfg.ScrollWithWindow {
		return w.rect
	}
	return w.rect.Offset(w.env.Screen.Scroll())
}

func (w *Window) viewportRectLocked() geometry.Rect {
	size := w.env.Screen.Viewport()
	r := geometry.FromXYWH(0, 0, size.Width, size.Height)
	if w.cfg.ScrollWithWindow {
		r = r.Offset(w.env.Screen.Scroll())
	}
	return r
}

func (w *Window) positionEventLocked(kind EventKind) Event {
	scroll := w.env.Screen.Scroll()
	return Event{
		Kind: kind,
		Position: Position{
			Left:    w.rect.Left,
			Top:     w.rect.Top,
			Width:   w.rect.Width(),
			Height:  w.rect.Height(),
			ScrollX: scroll.X,
			ScrollY: scroll.Y,
		},
	}
}

// setRect replaces the rectangle and emits a position event.
func (w *Window) setRect(fn func(r geometry.Rect) geometry.Rect) {
	w.mu.Lock()
	w.rect = fn(w.rect)
	ev := w.positionEventLocked(EventPosition)
	w.mu.Unlock()
	w.emit([]Event{ev})
}

// SetX moves the left edge, keeping the width.
func (w *Window) SetX(x int) {
	w.setRect(func(r geometry.Rect) geometry.Rect {
		return geometry.FromXYWH(x, r.Top, r.Width(), r.Height())
	})
}

// SetY moves the top edge, keeping the height.
func (w *Window) SetY(y int) {
	w.setRect(func(r geometry.Rect) geometry.Rect {
		return geometry.FromXYWH(r.Left, y, r.Width(), r.Height())
	})
}

func (w *Window) SetXY(x, y int) {
	w.setRect(func(r geometry.Rect) geometry.Rect {
		return geometry.FromXYWH(x, y, r.Width(), r.Height())
	})
}

// SetWidth resizes from the left edge, clamped to the minimum width.
func (w *Window) SetWidth(width int) {
	w.setRect(func(r geometry.Rect) geometry.Rect {
		if width < w.min.Width {
			width = w.min.Width
		}
		r.Right = r.Left + width
		return r
	})
}

// SetHeight resizes from the top edge, clamped to the minimum height.
func (w *Window) SetHeight(height int) {
	w.setRect(func(r geometry.Rect) geometry.Rect {
		if height < w.min.Height {
			height = w.min.Height
		}
		r.Bottom = r.Top + height
		return r
	})
}

// CenterWindow centers the window in the visible viewport.
func (w *Window) CenterWindow() {
	w.setRect(func(r geometry.Rect) geometry.Rect {
		c := geometry.Centered(w.env.Screen.Viewport(), r.Size())
		if w.cfg.ScrollWithWindow {
			c = c.Offset(w.env.Screen.Scroll())
		}
		return c
	})
}

// Refit resizes a maximized or fullscreen window to the current viewport. It
// reports whether anything changed.
func (w *Window) Refit() bool {
	w.mu.Lock()
	if !w.states.Maximized && !w.states.Fullscreen {
		w.mu.Unlock()
		return false
	}
	next := w.viewportRectLocked()
	if next == w.rect {
		w.mu.Unlock()
		return false
	}
	w.rect = next
	ev := w.positionEventLocked(EventPosition)
	w.mu.Unlock()
	w.emit([]Event{ev})
	return true
}

// Grippers returns the resize handles currently usable.
func (w *Window) Grippers() []geometry.Handle {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.grippersLocked()
}

func (w *Window) grippersLocked() []geometry.Handle {
	if w.cfg.NoResize || !w.states.Visible || w.states.Pinned || !w.states.floatingOnly() {
		return nil
	}
	return append([]geometry.Handle(nil), w.resizable...)
}

func (w *Window) canMoveLocked() bool {
	return !w.cfg.NoMove && w.states.Visible && !w.states.Pinned && w.states.floatingOnly()
}

func (w *Window) canGrabLocked(h geometry.Handle) bool {
	if h == geometry.HandleTitlebar {
		return w.canMoveLocked()
	}
	for _, g := range w.grippersLocked() {
		if g == h {
			return true
		}
	}
	return false
}

// View is a read-only projection of everything a renderer needs.
type View struct {
	ID                int               `json:"id"`
	Title             string            `json:"title"`
	Rect              geometry.Rect     `json:"rect"`
	Rendered          geometry.Rect     `json:"rendered"`
	ZIndex            int               `json:"z_index"`
	States            States            `json:"states"`
	Selected          bool              `json:"selected"`
	Dragging          bool              `json:"dragging"`
	FullscreenPending bool              `json:"fullscreen_pending"`
	Placement         string            `json:"placement"`
	Grippers          []geometry.Handle `json:"-"`
	CanMove           bool              `json:"can_move"`
	TitlebarHeight    int               `json:"titlebar_height"`
}

// View returns a consistent projection of the window.
func (w *Window) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	return View{
		ID:                w.id,
		Title:             w.cfg.Title,
		Rect:              w.rect,
		Rendered:          w.renderedLocked(),
		ZIndex:            w.zIndexLocked(),
		States:            w.states,
		Selected:          w.selected,
		Dragging:          w.drag != nil && w.drag.active,
		FullscreenPending: w.fullscreenPending,
		Placement:         w.placementLocked().String(),
		Grippers:          w.grippersLocked(),
		CanMove:           w.canMoveLocked(),
		TitlebarHeight:    w.cfg.TitlebarHeight,
	}
}
