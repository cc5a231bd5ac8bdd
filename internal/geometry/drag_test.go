package geometry

import "testing"

func TestResize_SingleEdges(t *testing.T) {
	start := Rect{Top: 100, Left: 100, Right: 500, Bottom: 500}
	min := Size{Width: 100, Height: 100}

	tests := []struct {
		name   string
		handle Handle
		delta  Point
		want   Rect
	}{
		{"top grows", HandleTop, Point{X: 7, Y: -20}, Rect{Top: 80, Left: 100, Right: 500, Bottom: 500}},
		{"bottom grows", HandleBottom, Point{X: 7, Y: 30}, Rect{Top: 100, Left: 100, Right: 500, Bottom: 530}},
		{"left shrinks", HandleLeft, Point{X: 50, Y: 9}, Rect{Top: 100, Left: 150, Right: 500, Bottom: 500}},
		{"right shrinks", HandleRight, Point{X: -50, Y: 9}, Rect{Top: 100, Left: 100, Right: 450, Bottom: 500}},
		{"top-left composes", HandleTopLeft, Point{X: -10, Y: -20}, Rect{Top: 80, Left: 90, Right: 500, Bottom: 500}},
		{"top-right composes", HandleTopRight, Point{X: 10, Y: -20}, Rect{Top: 80, Left: 100, Right: 510, Bottom: 500}},
		{"bottom-left composes", HandleBottomLeft, Point{X: -10, Y: 20}, Rect{Top: 100, Left: 90, Right: 500, Bottom: 520}},
		{"bottom-right composes", HandleBottomRight, Point{X: 10, Y: 20}, Rect{Top: 100, Left: 100, Right: 510, Bottom: 520}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resize(start, tt.handle, tt.delta, min)
			if got != tt.want {
				t.Fatalf("Resize(%s, %+v) = %s, want %s", tt.handle, tt.delta, got, tt.want)
			}
		})
	}
}

func TestResize_ClampsEveryHandleToMinimum(t *testing.T) {
	start := Rect{Top: 100, Left: 100, Right: 500, Bottom: 500}
	min := Size{Width: 120, Height: 80}

	// Drag every gripper far past the opposite edge.
	for _, h := range ResizeHandles() {
		t.Run(h.String(), func(t *testing.T) {
			delta := Point{X: 1000, Y: 1000}
			switch h {
			case HandleRight, HandleBottom, HandleBottomRight:
				delta = Point{X: -1000, Y: -1000}
			case HandleTopRight:
				delta = Point{X: -1000, Y: 1000}
			case HandleBottomLeft:
				delta = Point{X: 1000, Y: -1000}
			}

			got := Resize(start, h, delta, min)
			if !got.Valid() {
				t.Fatalf("rect became invalid: %s", got)
			}

			for _, edge := range h.edges() {
				switch edge {
				case HandleTop:
					if got.Top != start.Bottom-min.Height {
						t.Fatalf("top = %d, want %d", got.Top, start.Bottom-min.Height)
					}
				case HandleBottom:
					if got.Bottom != start.Top+min.Height {
						t.Fatalf("bottom = %d, want %d", got.Bottom, start.Top+min.Height)
					}
				case HandleLeft:
					if got.Left != start.Right-min.Width {
						t.Fatalf("left = %d, want %d", got.Left, start.Right-min.Width)
					}
				case HandleRight:
					if got.Right != start.Left+min.Width {
						t.Fatalf("right = %d, want %d", got.Right, start.Left+min.Width)
					}
				}
			}
			if got.Width() < min.Width || got.Height() < min.Height {
				t.Fatalf("size %dx%d below minimum %dx%d", got.Width(), got.Height(), min.Width, min.Height)
			}
		})
	}
}

func TestMove_TranslatesRigidly(t *testing.T) {
	start := Rect{Top: 10, Left: 10, Right: 410, Bottom: 410}
	got := Move(start, Point{X: 100, Y: 100})
	want := Rect{Top: 110, Left: 110, Right: 510, Bottom: 510}
	if got != want {
		t.Fatalf("Move = %s, want %s", got, want)
	}
	if got.Size() != start.Size() {
		t.Fatalf("size changed: %+v -> %+v", start.Size(), got.Size())
	}
}

func TestApply_IgnoresUnknownHandle(t *testing.T) {
	start := Rect{Top: 1, Left: 2, Right: 300, Bottom: 400}
	if got := Apply(start, HandleNone, Point{X: 50, Y: 50}, Size{}); got != start {
		t.Fatalf("Apply(none) = %s, want unchanged %s", got, start)
	}
}

func TestPastThreshold(t *testing.T) {
	tests := []struct {
		delta Point
		want  bool
	}{
		{Point{X: 0, Y: 0}, false},
		{Point{X: 2, Y: -2}, false},
		{Point{X: 3, Y: 0}, true},
		{Point{X: 0, Y: -3}, true},
		{Point{X: -10, Y: 1}, true},
	}
	for _, tt := range tests {
		if got := PastThreshold(tt.delta, 3); got != tt.want {
			t.Errorf("PastThreshold(%+v) = %v, want %v", tt.delta, got, tt.want)
		}
	}
}
