package window

import (
	"github.com/1broseidon/floatwin/internal/geometry"
	"github.com/1broseidon/floatwin/internal/pointer"
)

// KeyEscape cancels an active drag.
const KeyEscape = "Escape"

// DocumentListener receives document-wide input for the length of a drag.
type DocumentListener interface {
	PointerMove(ev pointer.Event)
	PointerUp(ev pointer.Event)
	KeyUp(key string)
}

// Document hosts document-level listeners. Listen returns the func that
// detaches l again.
type Document interface {
	Listen(l DocumentListener) (release func())
}

type dragSession struct {
	w           *Window
	handle      geometry.Handle
	start       geometry.Point
	startScroll geometry.Point
	startRect   geometry.Rect
	active      bool
	release     func()
}

func (s *dragSession) PointerMove(ev pointer.Event) { s.w.dragMove(s, ev) }
func (s *dragSession) PointerUp(ev pointer.Event)   { s.w.dragEnd(s, ev) }
func (s *dragSession) KeyUp(key string) {
	if key == KeyEscape {
		s.w.dragCancel(s)
	}
}

// PointerDown starts a gesture on handle. It returns false when the handle is
// not usable in the current state. The drag only becomes active once the
// pointer moves past the drag threshold; releasing before that is a click.
func (w *Window) PointerDown(h geometry.Handle, ev pointer.Event) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.mounted || w.drag != nil || !w.canGrabLocked(h) {
		return false
	}
	s := &dragSession{
		w:           w,
		handle:      h,
		start:       geometry.Point{X: ev.X, Y: ev.Y},
		startScroll: w.env.Screen.Scroll(),
		startRect:   w.rect,
	}
	s.release = w.env.Document.Listen(s)
	w.drag = s
	return true
}

// Dragging reports whether a drag is active past the threshold.
func (w *Window) Dragging() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.drag != nil && w.drag.active
}

func (w *Window) dragMove(s *dragSession, ev pointer.Event) {
	if ev.Source == pointer.Mouse && !ev.Active() {
		w.dragEnd(s, ev)
		return
	}

	var events []Event
	w.mu.Lock()
	if w.drag != s {
		w.mu.Unlock()
		return
	}
	raw := geometry.Point{X: ev.X - s.start.X, Y: ev.Y - s.start.Y}
	if !s.active {
		if !geometry.PastThreshold(raw, w.env.DragThreshold) {
			w.mu.Unlock()
			return
		}
		s.active = true
		events = append(events, Event{Kind: EventDragging, On: true})
	}
	w.rect = geometry.Apply(s.startRect, s.handle, w.dragDeltaLocked(s, ev), w.min)
	w.mu.Unlock()
	w.emit(events)
}

// dragDeltaLocked converts both pointer positions into window coordinates so
// scrolling during the drag is accounted for.
func (w *Window) dragDeltaLocked(s *dragSession, ev pointer.Event) geometry.Point {
	sww := w.cfg.ScrollWithWindow
	from := geometry.ToLocal(s.start, s.startScroll, sww)
	to := geometry.ToLocal(geometry.Point{X: ev.X, Y: ev.Y}, w.env.Screen.Scroll(), sww)
	return geometry.Point{X: to.X - from.X, Y: to.Y - from.Y}
}

func (w *Window) dragEnd(s *dragSession, ev pointer.Event) {
	var events []Event
	raise := false
	w.mu.Lock()
	if w.drag != s {
		w.mu.Unlock()
		return
	}
	if s.active {
		if ev.Kind == pointer.Up {
			w.rect = geometry.Apply(s.startRect, s.handle, w.dragDeltaLocked(s, ev), w.min)
		}
		events = append(events,
			Event{Kind: EventDragging, On: false},
			w.positionEventLocked(EventPosition),
		)
		raise = w.cfg.BringToFrontAfterDrag
	}
	w.endDragLocked()
	w.mu.Unlock()

	if raise {
		_ = w.BringToFront()
	}
	w.emit(events)
}

func (w *Window) dragCancel(s *dragSession) {
	var events []Event
	w.mu.Lock()
	if w.drag != s {
		w.mu.Unlock()
		return
	}
	w.rect = s.startRect
	if s.active {
		events = append(events, Event{Kind: EventDragging, On: false})
	}
	events = append(events, w.positionEventLocked(EventCanceled))
	w.endDragLocked()
	w.mu.Unlock()
	w.emit(events)
}

// endDragLocked releases the document listener. Callers decide what happens
// to the rect.
func (w *Window) endDragLocked() {
	if w.drag == nil {
		return
	}
	if w.drag.release != nil {
		w.drag.release()
	}
	w.drag = nil
}

// abortDragLocked drops a drag without notifications, putting the rect back
// where the gesture started.
func (w *Window) abortDragLocked() {
	if w.drag == nil {
		return
	}
	w.rect = w.drag.startRect
	w.endDragLocked()
}
