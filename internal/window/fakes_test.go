package window

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/1broseidon/floatwin/internal/geometry"
	"github.com/1broseidon/floatwin/internal/layers"
	"github.com/1broseidon/floatwin/internal/pointer"
)

type fakeScreen struct {
	mu       sync.Mutex
	viewport geometry.Size
	scroll   geometry.Point
}

func (s *fakeScreen) Viewport() geometry.Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport
}

func (s *fakeScreen) Scroll() geometry.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scroll
}

func (s *fakeScreen) setScroll(p geometry.Point) {
	s.mu.Lock()
	s.scroll = p
	s.mu.Unlock()
}

type fakeDocument struct {
	mu        sync.Mutex
	listeners map[int]DocumentListener
	next      int
}

func (d *fakeDocument) Listen(l DocumentListener) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.listeners == nil {
		d.listeners = make(map[int]DocumentListener)
	}
	d.next++
	key := d.next
	d.listeners[key] = l
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.listeners, key)
	}
}

func (d *fakeDocument) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.listeners)
}

func (d *fakeDocument) snapshot() []DocumentListener {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]DocumentListener, 0, len(d.listeners))
	for _, l := range d.listeners {
		out = append(out, l)
	}
	return out
}

func (d *fakeDocument) move(x, y int) {
	for _, l := range d.snapshot() {
		l.PointerMove(pointer.FromMouse(pointer.Move, x, y, pointer.ButtonPrimary))
	}
}

func (d *fakeDocument) up(x, y int) {
	for _, l := range d.snapshot() {
		l.PointerUp(pointer.FromMouse(pointer.Up, x, y, 0))
	}
}

func (d *fakeDocument) key(k string) {
	for _, l := range d.snapshot() {
		l.KeyUp(k)
	}
}

type fakePresenter struct {
	mu      sync.Mutex
	err     error
	gate    chan struct{}
	entered chan struct{}
	calls   int
}

func (p *fakePresenter) wait(ctx context.Context) error {
	p.mu.Lock()
	p.calls++
	gate, entered, err := p.gate, p.entered, p.err
	p.mu.Unlock()
	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (p *fakePresenter) RequestFullscreen(ctx context.Context, _ int) error { return p.wait(ctx) }
func (p *fakePresenter) ExitFullscreen(ctx context.Context, _ int) error    { return p.wait(ctx) }

type harness struct {
	reg       *layers.Registry
	screen    *fakeScreen
	doc       *fakeDocument
	presenter *fakePresenter
}

func newHarness() *harness {
	return &harness{
		reg:       layers.NewRegistry(0, -1),
		screen:    &fakeScreen{viewport: geometry.Size{Width: 1280, Height: 800}},
		doc:       &fakeDocument{},
		presenter: &fakePresenter{},
	}
}

func (h *harness) env() Env {
	return Env{
		Layers:    h.reg,
		Screen:    h.screen,
		Document:  h.doc,
		Presenter: h.presenter,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func (h *harness) open(t *testing.T, cfg Config) *Window {
	t.Helper()
	w, err := New(cfg, h.env())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	w.Mount()
	return w
}

func intp(v int) *int { return &v }

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func record(w *Window) *recorder {
	r := &recorder{}
	w.Subscribe(func(ev Event) {
		r.mu.Lock()
		r.events = append(r.events, ev)
		r.mu.Unlock()
	})
	return r
}

func (r *recorder) kinds() []EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventKind, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Kind
	}
	return out
}

func (r *recorder) last(kind EventKind) (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Kind == kind {
			return r.events[i], true
		}
	}
	return Event{}, false
}
