// Package desktop assembles a page of floating windows: one layer registry,
// the shared viewport and scroll, document-level input, click-to-select and
// the cascade used to place new windows.
package desktop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sahilm/fuzzy"

	"github.com/1broseidon/floatwin/internal/geometry"
	"github.com/1broseidon/floatwin/internal/layers"
	"github.com/1broseidon/floatwin/internal/menu"
	"github.com/1broseidon/floatwin/internal/window"
)

// ErrWindowNotFound is returned for ids that are not open on the desktop.
var ErrWindowNotFound = errors.New("window not found")

const DefaultCascadeOffset = 20

// Options configures a Desktop.
type Options struct {
	Viewport      geometry.Size
	CascadeOffset int
	FloatingBase  int
	FullscreenZ   int
	DragThreshold int
	GripperMargin int
	Icons         menu.IconSet
	Customize     menu.Customizer
	Presenter     window.Presenter
	Logger        *slog.Logger
}

// Desktop owns every window open on one page.
type Desktop struct {
	// openMu serializes Open so each window claims a distinct cascade slot.
	openMu   sync.Mutex
	mu       sync.Mutex
	opts     Options
	log      *slog.Logger
	layers   *layers.Registry
	screen   *screen
	doc      *document
	windows  map[int]*window.Window
	unsubs   map[int]func()
	created  int
	selected int

	listenersMu sync.Mutex
	listeners   []window.Listener
}

// New creates an empty desktop.
func New(opts Options) *Desktop {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.CascadeOffset <= 0 {
		opts.CascadeOffset = DefaultCascadeOffset
	}
	if opts.FullscreenZ <= 0 {
		opts.FullscreenZ = layers.DefaultFullscreen
	}
	if opts.GripperMargin < 0 {
		opts.GripperMargin = layers.DefaultGripperMargin
	}
	if opts.Icons == nil {
		opts.Icons = menu.DefaultIconSet()
	}
	return &Desktop{
		opts:    opts,
		log:     opts.Logger,
		layers:  layers.NewRegistry(opts.FloatingBase, opts.GripperMargin),
		screen:  &screen{viewport: opts.Viewport},
		doc:     newDocument(),
		windows: make(map[int]*window.Window),
		unsubs:  make(map[int]func()),
	}
}

// Subscribe registers fn for events from every window on the desktop.
func (d *Desktop) Subscribe(fn window.Listener) {
	d.listenersMu.Lock()
	defer d.listenersMu.Unlock()
	d.listeners = append(d.listeners, fn)
}

func (d *Desktop) forward(ev window.Event) {
	d.listenersMu.Lock()
	fns := append([]window.Listener(nil), d.listeners...)
	d.listenersMu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

// Open creates, mounts and stacks a window on top. Windows without an explicit
// start position cascade by the number of windows created so far.
func (d *Desktop) Open(cfg window.Config) (*window.Window, error) {
	d.openMu.Lock()
	defer d.openMu.Unlock()

	d.mu.Lock()
	start := geometry.Cascade(d.created+1, d.opts.CascadeOffset)
	d.mu.Unlock()

	if cfg.StartX == nil {
		x := start.X
		cfg.StartX = &x
	}
	if cfg.StartY == nil {
		y := start.Y
		cfg.StartY = &y
	}

	w, err := window.New(cfg, window.Env{
		Layers:        d.layers,
		Screen:        d.screen,
		Document:      d.doc,
		Presenter:     d.opts.Presenter,
		Logger:        d.log,
		DragThreshold: d.opts.DragThreshold,
		FullscreenZ:   d.opts.FullscreenZ,
	})
	if err != nil {
		return nil, fmt.Errorf("open window: %w", err)
	}
	id := w.Mount()
	unsub := w.Subscribe(d.forward)

	d.mu.Lock()
	d.created++
	d.windows[id] = w
	d.unsubs[id] = unsub
	d.mu.Unlock()

	d.log.Info("window opened", "id", id, "title", cfg.Title, "rect", w.Rect().String())
	return w, nil
}

// Close unmounts a window and forgets it.
func (d *Desktop) Close(id int) error {
	d.mu.Lock()
	w, ok := d.windows[id]
	if !ok {
		d.mu.Unlock()
		return ErrWindowNotFound
	}
	delete(d.windows, id)
	unsub := d.unsubs[id]
	delete(d.unsubs, id)
	if d.selected == id {
		d.selected = 0
	}
	d.mu.Unlock()

	w.Unmount()
	if unsub != nil {
		unsub()
	}
	d.log.Info("window closed", "id", id)
	return nil
}

// CloseAll unmounts every window.
func (d *Desktop) CloseAll() {
	for _, w := range d.Windows() {
		_ = d.Close(w.ID())
	}
}

// Window looks up an open window.
func (d *Desktop) Window(id int) (*window.Window, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	w, ok := d.windows[id]
	if !ok {
		return nil, ErrWindowNotFound
	}
	return w, nil
}

// Windows returns the open windows from bottom to top.
func (d *Desktop) Windows() []*window.Window {
	entries := d.layers.Sorted()
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*window.Window, 0, len(entries))
	for _, e := range entries {
		if w, ok := d.windows[e.ID]; ok {
			out = append(out, w)
		}
	}
	return out
}

// Views projects every window from bottom to top.
func (d *Desktop) Views() []window.View {
	ws := d.Windows()
	out := make([]window.View, len(ws))
	for i, w := range ws {
		out[i] = w.View()
	}
	return out
}

// Len returns the number of open windows.
func (d *Desktop) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.windows)
}

// Created returns how many windows have ever been opened.
func (d *Desktop) Created() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.created
}

// Menu projects the action menu of a window.
func (d *Desktop) Menu(id int) ([]menu.Item, error) {
	w, err := d.Window(id)
	if err != nil {
		return nil, err
	}
	return menu.Project(menu.Input{
		Target:    w,
		Allowed:   w.Actions(),
		Icons:     d.opts.Icons.Merge(w.IconSet()),
		Customize: d.opts.Customize,
	}), nil
}

// Do runs a named action on a window.
func (d *Desktop) Do(ctx context.Context, id int, action string, on bool) (bool, error) {
	w, err := d.Window(id)
	if err != nil {
		return false, err
	}
	a, err := window.ParseAction(action)
	if err != nil {
		return false, err
	}
	ok, err := w.Do(ctx, a, on)
	d.log.Debug("window action", "id", id, "action", string(a), "on", on, "applied", ok)
	return ok, err
}

// BringToFront raises a window.
func (d *Desktop) BringToFront(id int) error {
	w, err := d.Window(id)
	if err != nil {
		return err
	}
	return w.BringToFront()
}

// SendToBack lowers a window.
func (d *Desktop) SendToBack(id int) error {
	w, err := d.Window(id)
	if err != nil {
		return err
	}
	return w.SendToBack()
}

// Viewport returns the current viewport size.
func (d *Desktop) Viewport() geometry.Size {
	return d.screen.Viewport()
}

// Scroll returns the current document scroll.
func (d *Desktop) Scroll() geometry.Point {
	return d.screen.Scroll()
}

// SetViewport updates the viewport and refits maximized and fullscreen
// windows.
func (d *Desktop) SetViewport(size geometry.Size) {
	if !d.screen.setViewport(size) {
		return
	}
	d.log.Debug("viewport changed", "width", size.Width, "height", size.Height)
	for _, w := range d.Windows() {
		w.Refit()
	}
}

// ScrollTo sets the document scroll. Negative values clamp to zero.
func (d *Desktop) ScrollTo(p geometry.Point) {
	d.screen.setScroll(p)
}

// ScrollBy moves the document scroll by a delta.
func (d *Desktop) ScrollBy(dx, dy int) {
	s := d.screen.Scroll()
	d.screen.setScroll(geometry.Point{X: s.X + dx, Y: s.Y + dy})
}

// FullscreenExited tells fullscreen windows that the platform left fullscreen
// without being asked.
func (d *Desktop) FullscreenExited() {
	for _, w := range d.Windows() {
		if w.PlatformFullscreenExited() {
			d.log.Info("platform left fullscreen", "id", w.ID())
		}
	}
}

// ListenerCount reports how many document-level listeners are attached.
func (d *Desktop) ListenerCount() int {
	return d.doc.count()
}

// Find returns the views whose titles fuzzy-match query, best match first. An
// empty query returns every window from top to bottom.
func (d *Desktop) Find(query string) []window.View {
	views := d.Views()
	if query == "" {
		out := make([]window.View, len(views))
		for i := range views {
			out[i] = views[len(views)-1-i]
		}
		return out
	}
	titles := make([]string, len(views))
	for i, v := range views {
		titles[i] = v.Title
	}
	matches := fuzzy.Find(query, titles)
	out := make([]window.View, 0, len(matches))
	for _, m := range matches {
		out = append(out, views[m.Index])
	}
	return out
}
