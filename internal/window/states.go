package window

import "fmt"

// States holds the boolean action states of a window.
type States struct {
	Visible    bool `json:"visible"`
	Embedded   bool `json:"embedded"`
	Pinned     bool `json:"pinned"`
	Maximized  bool `json:"maximized"`
	Minimized  bool `json:"minimized"`
	Fullscreen bool `json:"fullscreen"`
}

// Get returns the state behind a. Close reports the inverse of visible.
func (s States) Get(a Action) (bool, error) {
	switch a {
	case ActionVisible:
		return s.Visible, nil
	case ActionEmbedded:
		return s.Embedded, nil
	case ActionPinned:
		return s.Pinned, nil
	case ActionMaximized:
		return s.Maximized, nil
	case ActionMinimized:
		return s.Minimized, nil
	case ActionFullscreen:
		return s.Fullscreen, nil
	case ActionClose:
		return !s.Visible, nil
	}
	return false, fmt.Errorf("%w: %q", ErrUnknownAction, a)
}

// Allows reports whether switching a to the on state is legal from s.
func (s States) Allows(a Action, on bool) (bool, error) {
	switch a {
	case ActionVisible:
		return s.Visible != on, nil

	case ActionEmbedded:
		if s.Fullscreen || s.Embedded == on {
			return false, nil
		}
		if on {
			return !s.Pinned && !s.Maximized && !s.Minimized, nil
		}
		return true, nil

	case ActionPinned:
		return s.Pinned != on && s.floatingOnly(), nil

	case ActionMaximized:
		return s.Maximized != on && !s.Embedded && !s.Minimized && !s.Fullscreen, nil

	case ActionMinimized:
		return s.Minimized != on && !s.Embedded && !s.Maximized && !s.Fullscreen, nil

	case ActionFullscreen:
		return s.Fullscreen != on && !s.Embedded, nil

	case ActionClose:
		if on {
			return !s.Embedded, nil
		}
		return true, nil
	}
	return false, fmt.Errorf("%w: %q", ErrUnknownAction, a)
}

// floatingOnly is true for a plain floating window with no presentation mode.
func (s States) floatingOnly() bool {
	return !s.Embedded && !s.Maximized && !s.Minimized && !s.Fullscreen
}

// Valid reports whether s respects the exclusivity rules: at most one of
// pinned, maximized, minimized, fullscreen, and none of them while embedded.
func (s States) Valid() bool {
	n := 0
	for _, v := range []bool{s.Pinned, s.Maximized, s.Minimized, s.Fullscreen} {
		if v {
			n++
		}
	}
	if n > 1 {
		return false
	}
	return !s.Embedded || n == 0
}
