// Package layers keeps the z-order of every live window on a page and answers
// hit tests against it.
package layers

import (
	"errors"
	"sort"
	"sync"

	"github.com/1broseidon/floatwin/internal/geometry"
)

const (
	// DefaultBase is the z-index assigned to the bottom-most floating window.
	DefaultBase = 4000
	// DefaultFullscreen is the reserved band above every floating window and
	// below system overlays.
	DefaultFullscreen = 6000 - 100
	// DefaultGripperMargin widens unpinned hit boxes so edge grippers stay
	// clickable.
	DefaultGripperMargin = 10
)

// ErrNotRegistered is returned for ids that have no registry entry.
var ErrNotRegistered = errors.New("layer not registered")

// Layer is anything the registry can order and hit test.
type Layer interface {
	// HitBox returns the rendered bounds and whether the gripper margin
	// applies (it does not for pinned windows). An empty rect is never hit.
	HitBox() (bounds geometry.Rect, margin bool)
	// Elevated reports a layer drawn in the fullscreen band.
	Elevated() bool
}

// Entry is a registry record.
type Entry struct {
	ID     int
	Layer  Layer
	ZIndex int
}

// Registry is an ordered collection of live layers. It never owns the layers'
// lifetime: callers must Unregister on unmount.
type Registry struct {
	mu      sync.Mutex
	entries map[int]*Entry
	nextID  int
	base    int
	margin  int
}

// NewRegistry creates an empty registry. A non-positive base or negative margin
// falls back to the defaults.
func NewRegistry(base, margin int) *Registry {
	if base <= 0 {
		base = DefaultBase
	}
	if margin < 0 {
		margin = DefaultGripperMargin
	}
	return &Registry{
		entries: make(map[int]*Entry),
		base:    base,
		margin:  margin,
	}
}

// Base returns the lowest z-index the registry assigns.
func (r *Registry) Base() int {
	return r.base
}

// Register adds a layer. A zero z places it on top of every existing entry.
func (r *Registry) Register(l Layer, z int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID
	if z == 0 {
		z = r.base + len(r.entries)
		for _, e := range r.entries {
			if e.ZIndex >= z {
				z = e.ZIndex + 1
			}
		}
	}
	r.entries[id] = &Entry{ID: id, Layer: l, ZIndex: z}
	return id
}

// Unregister removes an entry. Unknown ids are ignored.
func (r *Registry) Unregister(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}

// Len returns the number of live entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// ZIndex returns the z-index assigned to id.
func (r *Registry) ZIndex(id int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return 0, ErrNotRegistered
	}
	return e.ZIndex, nil
}

// Sorted returns a copy of all entries by ascending z-index, ties broken by
// registration id.
func (r *Registry) Sorted() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sortedLocked()
}

func (r *Registry) sortedLocked() []Entry {
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ZIndex != out[j].ZIndex {
			return out[i].ZIndex < out[j].ZIndex
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// BringToFront renumbers every other entry densely from the base in their
// current order and gives id the next value, so it strictly dominates.
func (r *Registry) BringToFront(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	target, ok := r.entries[id]
	if !ok {
		return ErrNotRegistered
	}
	z := r.base
	for _, e := range r.sortedLocked() {
		if e.ID == id {
			continue
		}
		r.entries[e.ID].ZIndex = z
		z++
	}
	target.ZIndex = z
	return nil
}

// SendToBack gives id the base value and renumbers the others from base+1 in
// their current order.
func (r *Registry) SendToBack(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	target, ok := r.entries[id]
	if !ok {
		return ErrNotRegistered
	}
	z := r.base + 1
	for _, e := range r.sortedLocked() {
		if e.ID == id {
			continue
		}
		r.entries[e.ID].ZIndex = z
		z++
	}
	target.ZIndex = r.base
	return nil
}

// Top returns the id of the highest entry, or false when empty.
func (r *Registry) Top() (int, bool) {
	sorted := r.Sorted()
	if len(sorted) == 0 {
		return 0, false
	}
	return sorted[len(sorted)-1].ID, true
}
