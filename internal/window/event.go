package window

import "sort"

// EventKind identifies a window notification.
type EventKind string

const (
	EventVisible    EventKind = "visible"
	EventEmbedded   EventKind = "embedded"
	EventPinned     EventKind = "pinned"
	EventMaximized  EventKind = "maximized"
	EventMinimized  EventKind = "minimized"
	EventFullscreen EventKind = "fullscreen"
	EventPosition   EventKind = "position"
	EventCanceled   EventKind = "canceled"
	EventSelected   EventKind = "selected"
	EventDragging   EventKind = "dragging"
)

// Position is the geometry payload of position and canceled events.
type Position struct {
	Left    int `json:"left"`
	Top     int `json:"top"`
	Width   int `json:"width"`
	Height  int `json:"height"`
	ScrollX int `json:"scroll_x"`
	ScrollY int `json:"scroll_y"`
}

// Event is delivered to listeners after the window lock is released.
type Event struct {
	WindowID int
	Kind     EventKind
	On       bool
	Position Position
}

// Listener receives window events.
type Listener func(Event)

var stateEvents = map[Action]EventKind{
	ActionVisible:    EventVisible,
	ActionEmbedded:   EventEmbedded,
	ActionPinned:     EventPinned,
	ActionMaximized:  EventMaximized,
	ActionMinimized:  EventMinimized,
	ActionFullscreen: EventFullscreen,
}

// Subscribe registers fn for every event and returns its removal func.
func (w *Window) Subscribe(fn Listener) func() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextListener++
	key := w.nextListener
	w.listeners[key] = fn
	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.listeners, key)
	}
}

func (w *Window) emit(events []Event) {
	if len(events) == 0 {
		return
	}
	w.mu.Lock()
	keys := make([]int, 0, len(w.listeners))
	for k := range w.listeners {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	fns := make([]Listener, 0, len(keys))
	for _, k := range keys {
		fns = append(fns, w.listeners[k])
	}
	id := w.id
	w.mu.Unlock()

	for _, ev := range events {
		ev.WindowID = id
		for _, fn := range fns {
			fn(ev)
		}
	}
}
