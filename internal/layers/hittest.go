package layers

import "github.com/1broseidon/floatwin/internal/geometry"

// HitTest returns the id of the topmost layer whose hit box contains p.
// Elevated layers are checked first, then the rest from highest to lowest
// z-index.
func (r *Registry) HitTest(p geometry.Point) (int, bool) {
	r.mu.Lock()
	sorted := r.sortedLocked()
	margin := r.margin
	r.mu.Unlock()

	// Layer methods must run without the registry lock held.
	var elevated, normal []Entry
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i].Layer.Elevated() {
			elevated = append(elevated, sorted[i])
		} else {
			normal = append(normal, sorted[i])
		}
	}

	for _, group := range [][]Entry{elevated, normal} {
		for _, e := range group {
			bounds, withMargin := e.Layer.HitBox()
			if !bounds.Valid() {
				continue
			}
			if withMargin {
				bounds = bounds.Expand(margin)
			}
			if bounds.Contains(p) {
				return e.ID, true
			}
		}
	}
	return 0, false
}
