// Package window implements a floating window: its action state machine, its
// geometry with drag and resize, and snapshot/restore for the maximized,
// minimized and fullscreen presentations.
package window

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"

	"github.com/1broseidon/floatwin/internal/geometry"
	"github.com/1broseidon/floatwin/internal/layers"
)

const (
	DefaultWidth          = 400
	DefaultHeight         = 400
	DefaultMinWidth       = 100
	DefaultMinHeight      = 100
	DefaultTitlebarHeight = 28
	DefaultDragThreshold  = 3
	// DragBoost is added to the z-index while a drag is in progress.
	DragBoost = 100
)

var (
	// ErrFullscreenPending rejects a fullscreen request while another is in flight.
	ErrFullscreenPending = errors.New("fullscreen request already pending")
	// ErrNotMounted is returned by operations that need a registry entry.
	ErrNotMounted = errors.New("window not mounted")
)

// Screen exposes the viewport size and live document scroll.
type Screen interface {
	Viewport() geometry.Size
	Scroll() geometry.Point
}

// Presenter performs the platform side of fullscreen. Both calls may block
// until the platform settles or ctx ends.
type Presenter interface {
	RequestFullscreen(ctx context.Context, windowID int) error
	ExitFullscreen(ctx context.Context, windowID int) error
}

// Env wires a window to the page it lives on.
type Env struct {
	Layers        *layers.Registry
	Screen        Screen
	Document      Document
	Presenter     Presenter
	Logger        *slog.Logger
	DragThreshold int
	FullscreenZ   int
}

// Config holds construction parameters.
type Config struct {
	Title                 string
	StartX                *int
	StartY                *int
	Width                 int
	Height                int
	MinWidth              int
	MinHeight             int
	TitlebarHeight        int
	Actions               []string
	Resizable             []string
	ScrollWithWindow      bool
	AutoPin               bool
	NoMove                bool
	NoResize              bool
	BringToFrontAfterDrag bool
	Hidden                bool
	Embedded              bool
	Pinned                bool
	// IconSet overrides menu entries for this window only. Empty fields keep
	// the desktop's entry.
	IconSet map[Action]IconPair
}

// Placement tells a renderer where to draw the window.
type Placement int

const (
	// PlacementOverlay draws the window floating above the page.
	PlacementOverlay Placement = iota
	// PlacementInline draws the window in normal document flow.
	PlacementInline
	// PlacementTray draws a titlebar-only strip in the minimized tray.
	PlacementTray
)

func (p Placement) String() string {
	switch p {
	case PlacementOverlay:
		return "overlay"
	case PlacementInline:
		return "inline"
	case PlacementTray:
		return "tray"
	default:
		return "unknown"
	}
}

// snapshot is the geometry and state captured before entering a presentation
// mode. Snapshots nest: fullscreen entered from a maximized window pushes a
// second one.
type snapshot struct {
	rect      geometry.Rect
	pinned    bool
	embedded  bool
	maximized bool
	minimized bool
}

// Window is a single floating window. All methods are safe for concurrent use.
type Window struct {
	mu sync.Mutex

	cfg       Config
	env       Env
	log       *slog.Logger
	allowed   []Action
	resizable []geometry.Handle
	min       geometry.Size

	id      int
	mounted bool

	states            States
	rect              geometry.Rect
	snapshots         []snapshot
	selected          bool
	fullscreenPending bool
	drag              *dragSession

	listeners    map[int]Listener
	nextListener int
}

// New validates cfg, fills defaults and builds an unmounted window.
func New(cfg Config, env Env) (*Window, error) {
	if env.Layers == nil || env.Screen == nil || env.Document == nil {
		return nil, errors.New("window env requires layers, screen and document")
	}
	if env.Logger == nil {
		env.Logger = slog.Default()
	}
	if env.DragThreshold <= 0 {
		env.DragThreshold = DefaultDragThreshold
	}
	if env.FullscreenZ <= 0 {
		env.FullscreenZ = layers.DefaultFullscreen
	}

	if cfg.Width <= 0 {
		cfg.Width = DefaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = DefaultHeight
	}
	if cfg.MinWidth <= 0 {
		cfg.MinWidth = DefaultMinWidth
	}
	if cfg.MinHeight <= 0 {
		cfg.MinHeight = DefaultMinHeight
	}
	if cfg.TitlebarHeight <= 0 {
		cfg.TitlebarHeight = DefaultTitlebarHeight
	}

	allowed := DefaultActions()
	if cfg.Actions != nil {
		var err error
		allowed, err = ParseActions(cfg.Actions)
		if err != nil {
			return nil, fmt.Errorf("window actions: %w", err)
		}
	}

	resizable := geometry.ResizeHandles()
	if cfg.Resizable != nil {
		resizable = make([]geometry.Handle, 0, len(cfg.Resizable))
		for _, name := range cfg.Resizable {
			h, err := geometry.ParseHandle(name)
			if err != nil || !h.IsResize() {
				return nil, fmt.Errorf("window resizable: unknown handle %q", name)
			}
			resizable = append(resizable, h)
		}
	}

	icons := make(map[Action]IconPair, len(cfg.IconSet))
	for a, p := range cfg.IconSet {
		if a == ActionClose {
			a = ActionVisible
		}
		if _, err := (States{}).Get(a); err != nil {
			return nil, fmt.Errorf("window icon set: %w", err)
		}
		icons[a] = p
	}
	cfg.IconSet = icons

	states := States{Visible: !cfg.Hidden, Embedded: cfg.Embedded, Pinned: cfg.Pinned}
	if !states.Valid() {
		return nil, errors.New("window cannot start both embedded and pinned")
	}

	min := geometry.Size{Width: cfg.MinWidth, Height: cfg.MinHeight}
	size := geometry.ClampSize(geometry.Size{Width: cfg.Width, Height: cfg.Height}, min)
	var x, y int
	if cfg.StartX != nil {
		x = *cfg.StartX
	}
	if cfg.StartY != nil {
		y = *cfg.StartY
	}

	return &Window{
		cfg:       cfg,
		env:       env,
		log:       env.Logger,
		allowed:   allowed,
		resizable: resizable,
		min:       min,
		states:    states,
		rect:      geometry.FromXYWH(x, y, size.Width, size.Height),
		listeners: make(map[int]Listener),
	}, nil
}

// Mount registers the window with the layer registry on top of every other
// window and returns its id.
func (w *Window) Mount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.mounted {
		return w.id
	}
	w.id = w.env.Layers.Register(w, 0)
	w.mounted = true
	w.log.Debug("window mounted", "id", w.id, "title", w.cfg.Title)
	return w.id
}

// Unmount discards any drag session, releases its document listeners and
// removes the registry entry.
func (w *Window) Unmount() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.mounted {
		return
	}
	w.abortDragLocked()
	w.env.Layers.Unregister(w.id)
	w.mounted = false
	w.log.Debug("window unmounted", "id", w.id)
}

func (w *Window) ID() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.id
}

func (w *Window) Title() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cfg.Title
}

// SetTitle replaces the titlebar text.
func (w *Window) SetTitle(title string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cfg.Title = title
}

// Actions returns the configured allow-list.
func (w *Window) Actions() []Action {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Action(nil), w.allowed...)
}

// IconSet returns a copy of the window's own menu entry overrides.
func (w *Window) IconSet() map[Action]IconPair {
	w.mu.Lock()
	defer w.mu.Unlock()
	return maps.Clone(w.cfg.IconSet)
}

// States returns a copy of the current action states.
func (w *Window) States() States {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.states
}

// FullscreenPending reports an in-flight platform fullscreen request.
func (w *Window) FullscreenPending() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fullscreenPending
}

// CanDo reports whether switching action to on is currently legal.
func (w *Window) CanDo(a Action, on bool) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.canDoLocked(a, on)
}

func (w *Window) canDoLocked(a Action, on bool) (bool, error) {
	ok, err := w.states.Allows(a, on)
	if err != nil || !ok {
		return ok, err
	}
	if w.fullscreenPending && (a == ActionFullscreen || a == ActionEmbedded) {
		return false, nil
	}
	return true, nil
}

// Placement returns where the window should be drawn.
func (w *Window) Placement() Placement {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.placementLocked()
}

func (w *Window) placementLocked() Placement {
	switch {
	case w.states.Embedded:
		return PlacementInline
	case w.states.Minimized:
		return PlacementTray
	}
	return PlacementOverlay
}

// setLocked flips a boolean state and records the matching event when it
// changes.
func (w *Window) setLocked(a Action, on bool, events *[]Event) {
	var field *bool
	switch a {
	case ActionVisible:
		field = &w.states.Visible
	case ActionEmbedded:
		field = &w.states.Embedded
	case ActionPinned:
		field = &w.states.Pinned
	case ActionMaximized:
		field = &w.states.Maximized
	case ActionMinimized:
		field = &w.states.Minimized
	case ActionFullscreen:
		field = &w.states.Fullscreen
	default:
		return
	}
	if *field == on {
		return
	}
	*field = on
	*events = append(*events, Event{Kind: stateEvents[a], On: on})
	w.log.Debug("window state changed", "id", w.id, "action", string(a), "on", on)
}

// toggle runs a simple single-flag transition.
func (w *Window) toggle(a Action, on bool) bool {
	var events []Event
	w.mu.Lock()
	ok, _ := w.canDoLocked(a, on)
	if ok {
		if a == ActionEmbedded || (a == ActionVisible && !on) {
			w.abortDragLocked()
		}
		w.setLocked(a, on, &events)
	}
	w.mu.Unlock()
	w.emit(events)
	return ok
}

func (w *Window) Show() bool   { return w.toggle(ActionVisible, true) }
func (w *Window) Hide() bool   { return w.toggle(ActionVisible, false) }
func (w *Window) Lock() bool   { return w.toggle(ActionEmbedded, true) }
func (w *Window) Unlock() bool { return w.toggle(ActionEmbedded, false) }
func (w *Window) Pin() bool    { return w.toggle(ActionPinned, true) }
func (w *Window) Unpin() bool  { return w.toggle(ActionPinned, false) }

// Close hides a floating window.
func (w *Window) Close() bool {
	w.mu.Lock()
	ok, _ := w.canDoLocked(ActionClose, true)
	w.mu.Unlock()
	if !ok {
		return false
	}
	return w.Hide()
}

// Maximize fills the viewport, remembering the current geometry for Restore.
func (w *Window) Maximize() bool {
	var events []Event
	w.mu.Lock()
	ok, _ := w.canDoLocked(ActionMaximized, true)
	if ok {
		w.abortDragLocked()
		w.pushSnapshotLocked()
		w.setLocked(ActionPinned, false, &events)
		w.setLocked(ActionEmbedded, false, &events)
		w.rect = w.viewportRectLocked()
		w.setLocked(ActionMaximized, true, &events)
		events = append(events, w.positionEventLocked(EventPosition))
	}
	w.mu.Unlock()
	w.emit(events)
	return ok
}

// Minimize docks the window in the tray, remembering its state for Restore.
func (w *Window) Minimize() bool {
	var events []Event
	w.mu.Lock()
	ok, _ := w.canDoLocked(ActionMinimized, true)
	if ok {
		w.abortDragLocked()
		w.pushSnapshotLocked()
		w.setLocked(ActionPinned, false, &events)
		w.setLocked(ActionMinimized, true, &events)
	}
	w.mu.Unlock()
	w.emit(events)
	return ok
}

// Restore leaves the maximized or minimized presentation. It does nothing for
// hidden windows.
func (w *Window) Restore() bool {
	var events []Event
	w.mu.Lock()
	ok := false
	if w.states.Visible {
		switch {
		case w.states.Maximized:
			w.setLocked(ActionMaximized, false, &events)
			w.popSnapshotLocked(&events)
			ok = true
		case w.states.Minimized:
			w.setLocked(ActionMinimized, false, &events)
			w.popSnapshotLocked(&events)
			ok = true
		}
	}
	w.mu.Unlock()
	w.emit(events)
	return ok
}

// Select flips the click-to-select state. With auto-pin the window follows
// the selection: it is pinned while selected and unpinned when deselected.
// The pin change is skipped where it is illegal, e.g. while embedded.
func (w *Window) Select(selected bool) {
	var events []Event
	w.mu.Lock()
	if w.selected != selected {
		w.selected = selected
		events = append(events, Event{Kind: EventSelected, On: selected})
		if w.cfg.AutoPin {
			if ok, _ := w.canDoLocked(ActionPinned, selected); ok {
				w.setLocked(ActionPinned, selected, &events)
			}
		}
	}
	w.mu.Unlock()
	w.emit(events)
}

func (w *Window) Selected() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selected
}

// Do switches action to on through the matching command.
func (w *Window) Do(ctx context.Context, a Action, on bool) (bool, error) {
	switch a {
	case ActionVisible:
		if on {
			return w.Show(), nil
		}
		return w.Hide(), nil
	case ActionEmbedded:
		if on {
			return w.Lock(), nil
		}
		return w.Unlock(), nil
	case ActionPinned:
		if on {
			return w.Pin(), nil
		}
		return w.Unpin(), nil
	case ActionMaximized, ActionMinimized:
		if on {
			if a == ActionMaximized {
				return w.Maximize(), nil
			}
			return w.Minimize(), nil
		}
		if ok, _ := w.CanDo(a, false); !ok {
			return false, nil
		}
		return w.Restore(), nil
	case ActionFullscreen:
		if on {
			return w.FullscreenEnter(ctx)
		}
		return w.FullscreenLeave(ctx)
	case ActionClose:
		if on {
			return w.Close(), nil
		}
		return w.Show(), nil
	}
	return false, fmt.Errorf("%w: %q", ErrUnknownAction, a)
}

// BringToFront raises the window above every other registered window.
func (w *Window) BringToFront() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.mounted {
		return ErrNotMounted
	}
	return w.env.Layers.BringToFront(w.id)
}

// SendToBack lowers the window below every other registered window.
func (w *Window) SendToBack() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.mounted {
		return ErrNotMounted
	}
	return w.env.Layers.SendToBack(w.id)
}

// ZIndex is the effective stacking value: the registry value, boosted while
// dragging, or the reserved fullscreen band.
func (w *Window) ZIndex() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.zIndexLocked()
}

func (w *Window) zIndexLocked() int {
	if w.states.Fullscreen {
		return w.env.FullscreenZ
	}
	z, err := w.env.Layers.ZIndex(w.id)
	if err != nil {
		return 0
	}
	if w.drag != nil && w.drag.active {
		z += DragBoost
	}
	return z
}

// HitBox implements layers.Layer. Hidden and embedded windows are never hit.
func (w *Window) HitBox() (geometry.Rect, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.states.Visible || w.states.Embedded {
		return geometry.Rect{}, false
	}
	r := w.renderedLocked()
	if w.states.Minimized {
		r.Bottom = r.Top + w.cfg.TitlebarHeight
	}
	return r, !w.states.Pinned
}

// Elevated implements layers.Layer.
func (w *Window) Elevated() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.states.Fullscreen
}

func (w *Window) pushSnapshotLocked() {
	w.snapshots = append(w.snapshots, snapshot{
		rect:      w.rect,
		pinned:    w.states.Pinned,
		embedded:  w.states.Embedded,
		maximized: w.states.Maximized,
		minimized: w.states.Minimized,
	})
}

func (w *Window) popSnapshotLocked(events *[]Event) {
	if len(w.snapshots) == 0 {
		return
	}
	s := w.snapshots[len(w.snapshots)-1]
	w.snapshots = w.snapshots[:len(w.snapshots)-1]

	w.rect = s.rect
	w.setLocked(ActionEmbedded, s.embedded, events)
	w.setLocked(ActionMaximized, s.maximized, events)
	w.setLocked(ActionMinimized, s.minimized, events)
	w.setLocked(ActionPinned, s.pinned, events)
	*events = append(*events, w.positionEventLocked(EventPosition))
}
