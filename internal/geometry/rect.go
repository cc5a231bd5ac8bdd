package geometry

import "fmt"

// Rect is a window rectangle expressed by its four edges in pixels.
type Rect struct {
	Top    int `json:"top" yaml:"top"`
	Left   int `json:"left" yaml:"left"`
	Right  int `json:"right" yaml:"right"`
	Bottom int `json:"bottom" yaml:"bottom"`
}

// Point is a pointer or offset position in pixels.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Size is a width/height pair in pixels.
type Size struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// FromXYWH builds a Rect from an origin and a size.
func FromXYWH(x, y, width, height int) Rect {
	return Rect{Top: y, Left: x, Right: x + width, Bottom: y + height}
}

func (r Rect) Width() int  { return r.Right - r.Left }
func (r Rect) Height() int { return r.Bottom - r.Top }

func (r Rect) Size() Size {
	return Size{Width: r.Width(), Height: r.Height()}
}

// Valid reports whether the rect has positive extent on both axes.
func (r Rect) Valid() bool {
	return r.Right > r.Left && r.Bottom > r.Top
}

// Contains reports whether p lies inside r. Right and bottom edges are exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X < r.Right && p.Y >= r.Top && p.Y < r.Bottom
}

// Expand grows the rect by margin on every side.
func (r Rect) Expand(margin int) Rect {
	return Rect{
		Top:    r.Top - margin,
		Left:   r.Left - margin,
		Right:  r.Right + margin,
		Bottom: r.Bottom + margin,
	}
}

// Translate moves the rect rigidly by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{
		Top:    r.Top + dy,
		Left:   r.Left + dx,
		Right:  r.Right + dx,
		Bottom: r.Bottom + dy,
	}
}

// Offset returns the rect shifted by a scroll offset.
func (r Rect) Offset(p Point) Rect {
	return r.Translate(p.X, p.Y)
}

func (r Rect) String() string {
	return fmt.Sprintf("{top:%d left:%d right:%d bottom:%d}", r.Top, r.Left, r.Right, r.Bottom)
}

// ClampSize raises s to at least min on each axis.
func ClampSize(s, min Size) Size {
	if s.Width < min.Width {
		s.Width = min.Width
	}
	if s.Height < min.Height {
		s.Height = min.Height
	}
	return s
}

// Centered returns a rect of the given size centered in the viewport.
func Centered(viewport, size Size) Rect {
	x := (viewport.Width - size.Width) / 2
	y := (viewport.Height - size.Height) / 2
	return FromXYWH(x, y, size.Width, size.Height)
}

// Cascade returns the start position for the nth window created on a page.
func Cascade(n, offset int) Point {
	return Point{X: n * offset, Y: n * offset}
}

// ToLocal converts a document-space pointer position into the coordinate space
// that window rects live in. Floating windows are stored relative to the
// viewport, so the live scroll is subtracted unless the window scrolls with the
// document.
func ToLocal(p, scroll Point, scrollWithWindow bool) Point {
	if scrollWithWindow {
		return p
	}
	return Point{X: p.X - scroll.X, Y: p.Y - scroll.Y}
}
