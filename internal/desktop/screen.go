package desktop

import (
	"sort"
	"sync"

	"github.com/1broseidon/floatwin/internal/geometry"
	"github.com/1broseidon/floatwin/internal/pointer"
	"github.com/1broseidon/floatwin/internal/window"
)

// screen is the viewport and document scroll shared by every window.
type screen struct {
	mu       sync.RWMutex
	viewport geometry.Size
	scroll   geometry.Point
}

func (s *screen) Viewport() geometry.Size {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewport
}

func (s *screen) Scroll() geometry.Point {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scroll
}

func (s *screen) setViewport(v geometry.Size) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.viewport == v {
		return false
	}
	s.viewport = v
	return true
}

func (s *screen) setScroll(p geometry.Point) {
	if p.X < 0 {
		p.X = 0
	}
	if p.Y < 0 {
		p.Y = 0
	}
	s.mu.Lock()
	s.scroll = p
	s.mu.Unlock()
}

// document fans document-level input out to the drag sessions listening on it.
type document struct {
	mu        sync.Mutex
	listeners map[int]window.DocumentListener
	next      int
}

func newDocument() *document {
	return &document{listeners: make(map[int]window.DocumentListener)}
}

func (d *document) Listen(l window.DocumentListener) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.next++
	key := d.next
	d.listeners[key] = l
	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			delete(d.listeners, key)
		})
	}
}

func (d *document) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.listeners)
}

// snapshot copies the listeners so dispatch runs without d.mu held; listeners
// release themselves from inside the callbacks.
func (d *document) snapshot() []window.DocumentListener {
	d.mu.Lock()
	defer d.mu.Unlock()
	keys := make([]int, 0, len(d.listeners))
	for k := range d.listeners {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	out := make([]window.DocumentListener, 0, len(keys))
	for _, k := range keys {
		out = append(out, d.listeners[k])
	}
	return out
}

func (d *document) pointer(ev pointer.Event) {
	for _, l := range d.snapshot() {
		switch ev.Kind {
		case pointer.Move:
			l.PointerMove(ev)
		case pointer.Up:
			l.PointerUp(ev)
		}
	}
}

func (d *document) keyUp(key string) {
	for _, l := range d.snapshot() {
		l.KeyUp(key)
	}
}
