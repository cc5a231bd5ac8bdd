package geometry

// Resize applies a pointer delta to the rect captured at drag start. Each
// moved edge becomes start edge + delta. Corner handles apply their two edges
// one after the other, and when an edge would shrink the rect below min it is
// pinned to the opposite edge at exactly the minimum distance.
func Resize(start Rect, h Handle, delta Point, min Size) Rect {
	r := start
	for _, edge := range h.edges() {
		r = resizeEdge(r, start, edge, delta, min)
	}
	return r
}

func resizeEdge(r, start Rect, edge Handle, delta Point, min Size) Rect {
	switch edge {
	case HandleTop:
		r.Top = start.Top + delta.Y
		if r.Bottom-r.Top < min.Height {
			r.Top = r.Bottom - min.Height
		}
	case HandleBottom:
		r.Bottom = start.Bottom + delta.Y
		if r.Bottom-r.Top < min.Height {
			r.Bottom = r.Top + min.Height
		}
	case HandleLeft:
		r.Left = start.Left + delta.X
		if r.Right-r.Left < min.Width {
			r.Left = r.Right - min.Width
		}
	case HandleRight:
		r.Right = start.Right + delta.X
		if r.Right-r.Left < min.Width {
			r.Right = r.Left + min.Width
		}
	}
	return r
}

// Move translates the rect captured at drag start by the pointer delta.
// Right and bottom follow from the start width and height.
func Move(start Rect, delta Point) Rect {
	return start.Translate(delta.X, delta.Y)
}

// Apply dispatches to Move for the titlebar and Resize for grippers.
func Apply(start Rect, h Handle, delta Point, min Size) Rect {
	switch {
	case h == HandleTitlebar:
		return Move(start, delta)
	case h.IsResize():
		return Resize(start, h, delta, min)
	}
	return start
}

// PastThreshold reports whether a delta is large enough to start a drag.
func PastThreshold(delta Point, threshold int) bool {
	return abs(delta.X) >= threshold || abs(delta.Y) >= threshold
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
