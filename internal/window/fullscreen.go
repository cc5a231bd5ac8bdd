package window

import (
	"context"
	"fmt"
)

// FullscreenEnter asks the platform for fullscreen and, once it agrees,
// snapshots the window and fills the viewport. A rejected request leaves the
// window untouched and returns the platform error.
func (w *Window) FullscreenEnter(ctx context.Context) (bool, error) {
	id, ok, err := w.beginFullscreen(true)
	if !ok || err != nil {
		return false, err
	}

	if w.env.Presenter != nil {
		if err := w.env.Presenter.RequestFullscreen(ctx, id); err != nil {
			w.finishFullscreen()
			w.log.Warn("fullscreen request rejected", "id", id, "error", err)
			return false, fmt.Errorf("request fullscreen: %w", err)
		}
	}

	var events []Event
	w.mu.Lock()
	w.fullscreenPending = false
	w.abortDragLocked()
	w.pushSnapshotLocked()
	w.setLocked(ActionPinned, false, &events)
	w.setLocked(ActionMaximized, false, &events)
	w.setLocked(ActionMinimized, false, &events)
	w.rect = w.viewportRectLocked()
	w.setLocked(ActionFullscreen, true, &events)
	events = append(events, w.positionEventLocked(EventPosition))
	w.mu.Unlock()
	w.emit(events)
	return true, nil
}

// FullscreenLeave asks the platform to exit fullscreen and restores the
// geometry and states saved on entry.
func (w *Window) FullscreenLeave(ctx context.Context) (bool, error) {
	id, ok, err := w.beginFullscreen(false)
	if !ok || err != nil {
		return false, err
	}

	if w.env.Presenter != nil {
		if err := w.env.Presenter.ExitFullscreen(ctx, id); err != nil {
			w.finishFullscreen()
			w.log.Warn("fullscreen exit rejected", "id", id, "error", err)
			return false, fmt.Errorf("exit fullscreen: %w", err)
		}
	}

	var events []Event
	w.mu.Lock()
	w.fullscreenPending = false
	w.leaveFullscreenLocked(&events)
	w.mu.Unlock()
	w.emit(events)
	return true, nil
}

// ToggleFullscreen enters or leaves fullscreen. Hidden windows are ignored.
func (w *Window) ToggleFullscreen(ctx context.Context) (bool, error) {
	s := w.States()
	if !s.Visible {
		return false, nil
	}
	if s.Fullscreen {
		return w.FullscreenLeave(ctx)
	}
	return w.FullscreenEnter(ctx)
}

// PlatformFullscreenExited handles the platform leaving fullscreen on its own,
// for example when the user presses the platform's exit key.
func (w *Window) PlatformFullscreenExited() bool {
	var events []Event
	w.mu.Lock()
	ok := w.states.Fullscreen && !w.fullscreenPending
	if ok {
		w.leaveFullscreenLocked(&events)
	}
	w.mu.Unlock()
	w.emit(events)
	return ok
}

func (w *Window) leaveFullscreenLocked(events *[]Event) {
	w.setLocked(ActionFullscreen, false, events)
	w.popSnapshotLocked(events)
}

// beginFullscreen checks legality and marks a request in flight.
func (w *Window) beginFullscreen(on bool) (int, bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fullscreenPending {
		return 0, false, ErrFullscreenPending
	}
	if ok, _ := w.states.Allows(ActionFullscreen, on); !ok {
		return 0, false, nil
	}
	w.fullscreenPending = true
	return w.id, true, nil
}

func (w *Window) finishFullscreen() {
	w.mu.Lock()
	w.fullscreenPending = false
	w.mu.Unlock()
}
