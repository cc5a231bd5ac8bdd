package layers

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/1broseidon/floatwin/internal/geometry"
)

type fakeLayer struct {
	bounds   geometry.Rect
	pinned   bool
	elevated bool
}

func (f *fakeLayer) HitBox() (geometry.Rect, bool) { return f.bounds, !f.pinned }
func (f *fakeLayer) Elevated() bool                 { return f.elevated }

func ids(entries []Entry) []int {
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func without(list []int, id int) []int {
	out := make([]int, 0, len(list))
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func TestRegister_StacksNewLayersOnTop(t *testing.T) {
	r := NewRegistry(0, -1)
	a := r.Register(&fakeLayer{}, 0)
	b := r.Register(&fakeLayer{}, 0)
	c := r.Register(&fakeLayer{}, 0)

	if got := ids(r.Sorted()); !equalInts(got, []int{a, b, c}) {
		t.Fatalf("sorted = %v, want %v", got, []int{a, b, c})
	}
	za, _ := r.ZIndex(a)
	if za != DefaultBase {
		t.Fatalf("first z = %d, want %d", za, DefaultBase)
	}
}

func TestSorted_TieBreaksByID(t *testing.T) {
	r := NewRegistry(0, -1)
	a := r.Register(&fakeLayer{}, 4100)
	b := r.Register(&fakeLayer{}, 4100)
	c := r.Register(&fakeLayer{}, 4050)

	if got := ids(r.Sorted()); !equalInts(got, []int{c, a, b}) {
		t.Fatalf("sorted = %v, want %v", got, []int{c, a, b})
	}
}

func TestBringToFrontAndSendToBack_DominanceAndOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	r := NewRegistry(0, -1)
	for i := 0; i < 8; i++ {
		r.Register(&fakeLayer{}, DefaultBase+rng.Intn(20))
	}

	for step := 0; step < 200; step++ {
		before := ids(r.Sorted())
		target := before[rng.Intn(len(before))]
		front := rng.Intn(2) == 0

		var err error
		if front {
			err = r.BringToFront(target)
		} else {
			err = r.SendToBack(target)
		}
		if err != nil {
			t.Fatalf("step %d: %v", step, err)
		}

		after := r.Sorted()
		tz, _ := r.ZIndex(target)
		for _, e := range after {
			if e.ID == target {
				continue
			}
			if front && e.ZIndex >= tz {
				t.Fatalf("step %d: id %d z=%d not below front target z=%d", step, e.ID, e.ZIndex, tz)
			}
			if !front && e.ZIndex <= tz {
				t.Fatalf("step %d: id %d z=%d not above back target z=%d", step, e.ID, e.ZIndex, tz)
			}
		}

		if got, want := without(ids(after), target), without(before, target); !equalInts(got, want) {
			t.Fatalf("step %d: relative order changed: %v -> %v", step, want, got)
		}
	}
}

func TestBringToFront_DenseFromBase(t *testing.T) {
	r := NewRegistry(100, -1)
	a := r.Register(&fakeLayer{}, 0)
	b := r.Register(&fakeLayer{}, 0)
	c := r.Register(&fakeLayer{}, 0)

	if err := r.BringToFront(a); err != nil {
		t.Fatal(err)
	}
	want := map[int]int{b: 100, c: 101, a: 102}
	for id, z := range want {
		if got, _ := r.ZIndex(id); got != z {
			t.Fatalf("z(%d) = %d, want %d", id, got, z)
		}
	}

	if err := r.SendToBack(c); err != nil {
		t.Fatal(err)
	}
	want = map[int]int{c: 100, b: 101, a: 102}
	for id, z := range want {
		if got, _ := r.ZIndex(id); got != z {
			t.Fatalf("z(%d) = %d, want %d", id, got, z)
		}
	}
}

func TestUnregister_RemovesEntry(t *testing.T) {
	r := NewRegistry(0, -1)
	a := r.Register(&fakeLayer{}, 0)
	r.Unregister(a)

	if r.Len() != 0 {
		t.Fatalf("len = %d, want 0", r.Len())
	}
	if _, err := r.ZIndex(a); !errors.Is(err, ErrNotRegistered) {
		t.Fatalf("ZIndex after unregister: err = %v", err)
	}
	if err := r.BringToFront(a); !errors.Is(err, ErrNotRegistered) {
		t.Fatalf("BringToFront after unregister: err = %v", err)
	}
	if _, ok := r.Top(); ok {
		t.Fatalf("Top on empty registry reported an entry")
	}
}

func TestHitTest(t *testing.T) {
	r := NewRegistry(0, 10)
	bottom := r.Register(&fakeLayer{bounds: geometry.Rect{Top: 0, Left: 0, Right: 200, Bottom: 200}}, 0)
	top := r.Register(&fakeLayer{bounds: geometry.Rect{Top: 100, Left: 100, Right: 300, Bottom: 300}}, 0)
	pinned := r.Register(&fakeLayer{bounds: geometry.Rect{Top: 500, Left: 500, Right: 600, Bottom: 600}, pinned: true}, 0)
	r.Register(&fakeLayer{}, 0)

	tests := []struct {
		name string
		p    geometry.Point
		want int
		ok   bool
	}{
		{"overlap picks topmost", geometry.Point{X: 150, Y: 150}, top, true},
		{"only bottom", geometry.Point{X: 50, Y: 50}, bottom, true},
		{"gripper margin", geometry.Point{X: 305, Y: 200}, top, true},
		{"pinned has no margin", geometry.Point{X: 605, Y: 550}, 0, false},
		{"inside pinned", geometry.Point{X: 550, Y: 550}, pinned, true},
		{"empty space", geometry.Point{X: 900, Y: 900}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.HitTest(tt.p)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("HitTest(%+v) = %d,%v want %d,%v", tt.p, got, ok, tt.want, tt.ok)
			}
		})
	}

	if err := r.BringToFront(bottom); err != nil {
		t.Fatal(err)
	}
	if got, _ := r.HitTest(geometry.Point{X: 150, Y: 150}); got != bottom {
		t.Fatalf("after raise, HitTest = %d, want %d", got, bottom)
	}
}

func TestHitTest_ElevatedWins(t *testing.T) {
	r := NewRegistry(0, 10)
	full := r.Register(&fakeLayer{bounds: geometry.Rect{Right: 1000, Bottom: 1000}, elevated: true}, 0)
	r.Register(&fakeLayer{bounds: geometry.Rect{Right: 100, Bottom: 100}}, 0)

	if got, _ := r.HitTest(geometry.Point{X: 50, Y: 50}); got != full {
		t.Fatalf("HitTest = %d, want elevated layer %d", got, full)
	}
}
