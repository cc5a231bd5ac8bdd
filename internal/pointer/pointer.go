// Package pointer normalizes mouse and touch input into a single event shape
// before it reaches window geometry.
package pointer

import (
	"time"

	"golang.org/x/time/rate"
)

// Kind is the phase of a pointer gesture.
type Kind int

const (
	Down Kind = iota
	Move
	Up
)

func (k Kind) String() string {
	switch k {
	case Down:
		return "down"
	case Move:
		return "move"
	case Up:
		return "up"
	default:
		return "unknown"
	}
}

// Source is the device an event came from.
type Source int

const (
	Mouse Source = iota
	Touch
)

// Button bits, matching the DOM MouseEvent.buttons layout.
const (
	ButtonPrimary   = 1
	ButtonSecondary = 2
	ButtonMiddle    = 4
)

// Event is a normalized pointer event in document coordinates.
type Event struct {
	Kind    Kind
	Source  Source
	X, Y    int
	ID      int
	Buttons int
}

// TouchPoint is one contact of a multi-touch event.
type TouchPoint struct {
	ID   int
	X, Y int
}

// FromMouse builds an event from a mouse position and button mask.
func FromMouse(kind Kind, x, y, buttons int) Event {
	return Event{Kind: kind, Source: Mouse, X: x, Y: y, Buttons: buttons}
}

// FromTouches builds an event from the first active touch. ok is false when no
// touch is present.
func FromTouches(kind Kind, touches []TouchPoint) (Event, bool) {
	if len(touches) == 0 {
		return Event{}, false
	}
	t := touches[0]
	ev := Event{Kind: kind, Source: Touch, X: t.X, Y: t.Y, ID: t.ID}
	if kind != Up {
		ev.Buttons = ButtonPrimary
	}
	return ev, true
}

// Active reports whether the gesture still has a button or finger down.
func (e Event) Active() bool {
	return e.Buttons != 0
}

// WheelLimiter throttles wheel scrolling and clamps each step so scrolling
// feels the same across terminals that report wheel ticks at very different
// rates.
type WheelLimiter struct {
	limiter *rate.Limiter
	step    int
}

// NewWheelLimiter allows one wheel step per interval, each at most step pixels.
func NewWheelLimiter(interval time.Duration, step int) *WheelLimiter {
	if interval <= 0 {
		interval = 125 * time.Millisecond
	}
	if step <= 0 {
		step = 3
	}
	return &WheelLimiter{
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		step:    step,
	}
}

// Delta returns the clamped scroll delta, or zero when throttled.
func (w *WheelLimiter) Delta(dx, dy int) (int, int) {
	if dx == 0 && dy == 0 {
		return 0, 0
	}
	if !w.limiter.Allow() {
		return 0, 0
	}
	return clamp(dx, w.step), clamp(dy, w.step)
}

func clamp(v, limit int) int {
	switch {
	case v > limit:
		return limit
	case v < -limit:
		return -limit
	}
	return v
}
