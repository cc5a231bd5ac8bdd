package geometry

import (
	"fmt"
	"strings"
)

// Handle identifies the part of a window a drag gesture started on.
type Handle int

const (
	HandleNone Handle = iota
	HandleTitlebar
	HandleTop
	HandleLeft
	HandleRight
	HandleBottom
	HandleTopLeft
	HandleTopRight
	HandleBottomLeft
	HandleBottomRight
)

var handleNames = map[Handle]string{
	HandleNone:        "none",
	HandleTitlebar:    "titlebar",
	HandleTop:         "top",
	HandleLeft:        "left",
	HandleRight:       "right",
	HandleBottom:      "bottom",
	HandleTopLeft:     "top-left",
	HandleTopRight:    "top-right",
	HandleBottomLeft:  "bottom-left",
	HandleBottomRight: "bottom-right",
}

func (h Handle) String() string {
	if name, ok := handleNames[h]; ok {
		return name
	}
	return fmt.Sprintf("handle(%d)", int(h))
}

// ResizeHandles returns the eight edge and corner handles in display order.
func ResizeHandles() []Handle {
	return []Handle{
		HandleTop, HandleLeft, HandleRight, HandleBottom,
		HandleTopLeft, HandleTopRight, HandleBottomLeft, HandleBottomRight,
	}
}

// ParseHandle resolves a handle name such as "top-left".
func ParseHandle(name string) (Handle, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for h, n := range handleNames {
		if n == name && h != HandleNone {
			return h, nil
		}
	}
	return HandleNone, fmt.Errorf("unknown handle %q", name)
}

// IsResize reports whether h is one of the eight resize grippers.
func (h Handle) IsResize() bool {
	return h >= HandleTop && h <= HandleBottomRight
}

// edges returns the single-edge handles that make up h.
func (h Handle) edges() []Handle {
	switch h {
	case HandleTopLeft:
		return []Handle{HandleTop, HandleLeft}
	case HandleTopRight:
		return []Handle{HandleTop, HandleRight}
	case HandleBottomLeft:
		return []Handle{HandleBottom, HandleLeft}
	case HandleBottomRight:
		return []Handle{HandleBottom, HandleRight}
	case HandleTop, HandleLeft, HandleRight, HandleBottom:
		return []Handle{h}
	}
	return nil
}

// HandleAt resolves which part of a rendered window p falls on. Points in the
// margin band outside an edge pick that edge's gripper (or the corner where two
// bands meet), the top strip of the window is the titlebar, and anything else
// is content.
func HandleAt(r Rect, p Point, margin, titlebar int) Handle {
	if !r.Expand(margin).Contains(p) {
		return HandleNone
	}
	top := p.Y < r.Top
	bottom := p.Y >= r.Bottom
	left := p.X < r.Left
	right := p.X >= r.Right

	switch {
	case top && left:
		return HandleTopLeft
	case top && right:
		return HandleTopRight
	case bottom && left:
		return HandleBottomLeft
	case bottom && right:
		return HandleBottomRight
	case top:
		return HandleTop
	case bottom:
		return HandleBottom
	case left:
		return HandleLeft
	case right:
		return HandleRight
	case p.Y < r.Top+titlebar:
		return HandleTitlebar
	}
	return HandleNone
}
