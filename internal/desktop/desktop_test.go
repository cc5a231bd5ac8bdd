package desktop

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/1broseidon/floatwin/internal/geometry"
	"github.com/1broseidon/floatwin/internal/pointer"
	"github.com/1broseidon/floatwin/internal/window"
)

func newTestDesktop() *Desktop {
	return New(Options{
		Viewport:      geometry.Size{Width: 1280, Height: 800},
		GripperMargin: -1,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func mustOpen(t *testing.T, d *Desktop, cfg window.Config) *window.Window {
	t.Helper()
	w, err := d.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return w
}

func intp(v int) *int { return &v }

func TestOpen_Cascades(t *testing.T) {
	d := newTestDesktop()
	mustOpen(t, d, window.Config{})
	mustOpen(t, d, window.Config{})
	third := mustOpen(t, d, window.Config{})

	want := geometry.Rect{Top: 60, Left: 60, Right: 460, Bottom: 460}
	if got := third.Rect(); got != want {
		t.Fatalf("third window rect = %s, want %s", got, want)
	}
}

func TestOpen_FailureDoesNotAdvanceCascade(t *testing.T) {
	d := newTestDesktop()
	if _, err := d.Open(window.Config{Actions: []string{"teleport"}}); err == nil {
		t.Fatalf("expected an error for an unknown action")
	}
	if d.Created() != 0 {
		t.Fatalf("created = %d after a failed open", d.Created())
	}
	w := mustOpen(t, d, window.Config{})
	if got := w.Rect().Left; got != 20 {
		t.Fatalf("first successful window left = %d, want 20", got)
	}
}

func TestOpen_CascadeCountIsNeverDecremented(t *testing.T) {
	d := newTestDesktop()
	first := mustOpen(t, d, window.Config{})
	if err := d.Close(first.ID()); err != nil {
		t.Fatal(err)
	}
	second := mustOpen(t, d, window.Config{})
	if got := second.Rect().Left; got != 40 {
		t.Fatalf("second window left = %d, want 40", got)
	}
	if d.Created() != 2 || d.Len() != 1 {
		t.Fatalf("created=%d len=%d", d.Created(), d.Len())
	}
}

func TestOpen_ExplicitStartWins(t *testing.T) {
	d := newTestDesktop()
	w := mustOpen(t, d, window.Config{StartX: intp(200), StartY: intp(150), Width: 300, Height: 100})
	if got := w.Rect(); got != (geometry.Rect{Top: 150, Left: 200, Right: 500, Bottom: 250}) {
		t.Fatalf("rect = %s", got)
	}
}

func TestOpen_InvalidConfig(t *testing.T) {
	d := newTestDesktop()
	if _, err := d.Open(window.Config{Actions: []string{"levitate"}}); !errors.Is(err, window.ErrUnknownAction) {
		t.Fatalf("err = %v, want ErrUnknownAction", err)
	}
}

func TestWindowsAreOrderedBottomToTop(t *testing.T) {
	d := newTestDesktop()
	a := mustOpen(t, d, window.Config{})
	b := mustOpen(t, d, window.Config{})

	if err := d.BringToFront(a.ID()); err != nil {
		t.Fatal(err)
	}
	ws := d.Windows()
	if len(ws) != 2 || ws[0] != b || ws[1] != a {
		t.Fatalf("unexpected order after raise")
	}
	if err := d.SendToBack(a.ID()); err != nil {
		t.Fatal(err)
	}
	if ws := d.Windows(); ws[0] != a {
		t.Fatalf("unexpected order after lower")
	}
}

func TestMissingWindow(t *testing.T) {
	d := newTestDesktop()
	if err := d.Close(99); !errors.Is(err, ErrWindowNotFound) {
		t.Fatalf("Close err = %v", err)
	}
	if _, err := d.Menu(99); !errors.Is(err, ErrWindowNotFound) {
		t.Fatalf("Menu err = %v", err)
	}
	if _, err := d.Do(context.Background(), 99, "pin", true); !errors.Is(err, ErrWindowNotFound) {
		t.Fatalf("Do err = %v", err)
	}
	if err := d.Select(99); !errors.Is(err, ErrWindowNotFound) {
		t.Fatalf("Select err = %v", err)
	}
}

func TestDo_UnknownAction(t *testing.T) {
	d := newTestDesktop()
	w := mustOpen(t, d, window.Config{})
	if _, err := d.Do(context.Background(), w.ID(), "wobble", true); !errors.Is(err, window.ErrUnknownAction) {
		t.Fatalf("err = %v", err)
	}
}

func TestMenu_EmbeddedDefaultActions(t *testing.T) {
	d := newTestDesktop()
	w := mustOpen(t, d, window.Config{Embedded: true})
	items, err := d.Menu(w.ID())
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || items[0].Key != window.ActionEmbedded || items[1].Key != window.ActionVisible {
		t.Fatalf("menu = %+v", items)
	}

	if _, err := items[0].Toggle(context.Background()); err != nil {
		t.Fatal(err)
	}
	if w.States().Embedded {
		t.Fatalf("menu toggle did not float the window")
	}
	items, _ = d.Menu(w.ID())
	if len(items) != 3 || items[1].Key != window.ActionPinned {
		t.Fatalf("floating menu = %+v", items)
	}
}

func TestMenu_WindowIconSetDoesNotLeak(t *testing.T) {
	d := newTestDesktop()
	custom := mustOpen(t, d, window.Config{IconSet: map[window.Action]window.IconPair{
		window.ActionPinned: {On: window.IconEntry{Label: "Tack"}},
	}})
	plain := mustOpen(t, d, window.Config{})

	pinEntry := func(id int) window.IconEntry {
		t.Helper()
		items, err := d.Menu(id)
		if err != nil {
			t.Fatal(err)
		}
		for _, it := range items {
			if it.Key == window.ActionPinned {
				return it.On
			}
		}
		t.Fatalf("window %d has no pin entry: %+v", id, items)
		return window.IconEntry{}
	}

	if got := pinEntry(custom.ID()); got.Label != "Tack" || got.Icon != "location_searching" {
		t.Fatalf("custom pin entry = %+v", got)
	}
	if got := pinEntry(plain.ID()); got.Label != "Pin" {
		t.Fatalf("override leaked into another window: %+v", got)
	}
	if got := d.opts.Icons[window.ActionPinned].On.Label; got != "Pin" {
		t.Fatalf("desktop icon set mutated: %q", got)
	}
}

func TestPointerDown_SelectsTopmostAndDrags(t *testing.T) {
	d := newTestDesktop()
	var events []window.Event
	d.Subscribe(func(ev window.Event) { events = append(events, ev) })

	bottom := mustOpen(t, d, window.Config{StartX: intp(0), StartY: intp(0)})
	top := mustOpen(t, d, window.Config{StartX: intp(100), StartY: intp(100)})

	id, ok := d.PointerDown(pointer.FromMouse(pointer.Down, 150, 110, pointer.ButtonPrimary))
	if !ok || id != top.ID() {
		t.Fatalf("hit = %d,%v want %d", id, ok, top.ID())
	}
	if !top.Selected() || bottom.Selected() || d.Selected() != top.ID() {
		t.Fatalf("selection wrong")
	}
	if d.ListenerCount() != 1 {
		t.Fatalf("titlebar press should start a drag session")
	}

	d.PointerMove(pointer.FromMouse(pointer.Move, 170, 130, pointer.ButtonPrimary))
	d.PointerUp(pointer.FromMouse(pointer.Up, 170, 130, 0))
	if got := top.Rect(); got.Left != 120 || got.Top != 120 {
		t.Fatalf("dragged rect = %s", got)
	}
	if d.ListenerCount() != 0 {
		t.Fatalf("listeners leaked: %d", d.ListenerCount())
	}

	var sawPosition bool
	for _, ev := range events {
		if ev.Kind == window.EventPosition && ev.WindowID == top.ID() {
			sawPosition = true
		}
	}
	if !sawPosition {
		t.Fatalf("desktop subscriber missed position event")
	}

	if _, ok := d.PointerDown(pointer.FromMouse(pointer.Down, 1000, 700, pointer.ButtonPrimary)); ok {
		t.Fatalf("empty space should not hit")
	}
	if top.Selected() || d.Selected() != 0 {
		t.Fatalf("click on empty space should deselect")
	}
}

func TestPointerDown_GripperResizes(t *testing.T) {
	d := newTestDesktop()
	w := mustOpen(t, d, window.Config{StartX: intp(100), StartY: intp(100), Width: 200, Height: 200})

	// Just outside the right edge, inside the gripper margin.
	d.PointerDown(pointer.FromMouse(pointer.Down, 305, 200, pointer.ButtonPrimary))
	d.PointerMove(pointer.FromMouse(pointer.Move, 355, 200, pointer.ButtonPrimary))
	d.PointerUp(pointer.FromMouse(pointer.Up, 355, 200, 0))

	if got := w.Rect(); got != (geometry.Rect{Top: 100, Left: 100, Right: 350, Bottom: 300}) {
		t.Fatalf("rect = %s", got)
	}
}

func TestPointerDown_TallTitlebarDrags(t *testing.T) {
	d := newTestDesktop()
	w := mustOpen(t, d, window.Config{StartX: intp(100), StartY: intp(100), TitlebarHeight: 40})

	// Below the default titlebar height but inside this window's titlebar.
	d.PointerDown(pointer.FromMouse(pointer.Down, 150, 135, pointer.ButtonPrimary))
	if d.ListenerCount() != 1 {
		t.Fatalf("press inside a 40px titlebar should start a drag")
	}
	d.PointerMove(pointer.FromMouse(pointer.Move, 250, 185, pointer.ButtonPrimary))
	d.PointerUp(pointer.FromMouse(pointer.Up, 250, 185, 0))

	if got := w.Rect(); got != (geometry.Rect{Top: 150, Left: 200, Right: 600, Bottom: 550}) {
		t.Fatalf("rect = %s", got)
	}
}

func TestPointerDown_AutoPinFollowsSelection(t *testing.T) {
	d := newTestDesktop()
	w := mustOpen(t, d, window.Config{StartX: intp(100), StartY: intp(100), AutoPin: true})

	d.PointerDown(pointer.FromMouse(pointer.Down, 150, 110, pointer.ButtonPrimary))
	if !w.Selected() || !w.States().Pinned {
		t.Fatalf("after select: selected=%v pinned=%v", w.Selected(), w.States().Pinned)
	}
	if d.ListenerCount() != 0 {
		t.Fatalf("pinned window should not start a drag")
	}

	d.PointerDown(pointer.FromMouse(pointer.Down, 1000, 700, pointer.ButtonPrimary))
	if w.Selected() || w.States().Pinned {
		t.Fatalf("after deselect: selected=%v pinned=%v", w.Selected(), w.States().Pinned)
	}
}

func TestPointerDown_ContentDoesNotDrag(t *testing.T) {
	d := newTestDesktop()
	mustOpen(t, d, window.Config{StartX: intp(100), StartY: intp(100)})
	if _, ok := d.PointerDown(pointer.FromMouse(pointer.Down, 200, 300, pointer.ButtonPrimary)); !ok {
		t.Fatalf("content press should still select")
	}
	if d.ListenerCount() != 0 {
		t.Fatalf("content press started a drag")
	}
}

func TestEscapeThroughDesktop(t *testing.T) {
	d := newTestDesktop()
	w := mustOpen(t, d, window.Config{StartX: intp(10), StartY: intp(10)})

	d.PointerDown(pointer.FromMouse(pointer.Down, 50, 20, pointer.ButtonPrimary))
	d.PointerMove(pointer.FromMouse(pointer.Move, 150, 120, pointer.ButtonPrimary))
	d.KeyUp(window.KeyEscape)

	if got := w.Rect(); got != (geometry.Rect{Top: 10, Left: 10, Right: 410, Bottom: 410}) {
		t.Fatalf("rect = %s", got)
	}
	if d.ListenerCount() != 0 {
		t.Fatalf("listeners leaked: %d", d.ListenerCount())
	}
}

func TestCloseMidDragReleasesListeners(t *testing.T) {
	d := newTestDesktop()
	w := mustOpen(t, d, window.Config{StartX: intp(10), StartY: intp(10)})

	d.PointerDown(pointer.FromMouse(pointer.Down, 50, 20, pointer.ButtonPrimary))
	d.PointerMove(pointer.FromMouse(pointer.Move, 90, 60, pointer.ButtonPrimary))
	if err := d.Close(w.ID()); err != nil {
		t.Fatal(err)
	}
	if d.ListenerCount() != 0 {
		t.Fatalf("listeners leaked: %d", d.ListenerCount())
	}
	if d.Len() != 0 || len(d.Views()) != 0 {
		t.Fatalf("window still listed after close")
	}
}

func TestSetViewportRefitsMaximized(t *testing.T) {
	d := newTestDesktop()
	w := mustOpen(t, d, window.Config{})
	plain := mustOpen(t, d, window.Config{})
	before := plain.Rect()
	w.Maximize()

	d.SetViewport(geometry.Size{Width: 800, Height: 600})
	if got := w.Rect(); got != (geometry.Rect{Right: 800, Bottom: 600}) {
		t.Fatalf("maximized rect = %s", got)
	}
	if plain.Rect() != before {
		t.Fatalf("floating window moved on viewport change")
	}
}

func TestScroll(t *testing.T) {
	d := newTestDesktop()
	w := mustOpen(t, d, window.Config{StartX: intp(0), StartY: intp(0)})

	d.ScrollBy(0, 250)
	d.ScrollBy(-10, -50)
	if got := d.Scroll(); got != (geometry.Point{X: 0, Y: 200}) {
		t.Fatalf("scroll = %+v", got)
	}
	if got := w.Rendered(); got.Top != 200 {
		t.Fatalf("rendered top = %d, want 200", got.Top)
	}
	// Hit testing uses document coordinates.
	if id, ok := d.PointerDown(pointer.FromMouse(pointer.Down, 50, 300, pointer.ButtonPrimary)); !ok || id != w.ID() {
		t.Fatalf("hit = %d,%v", id, ok)
	}
}

func TestFind(t *testing.T) {
	d := newTestDesktop()
	mustOpen(t, d, window.Config{Title: "Build log"})
	notes := mustOpen(t, d, window.Config{Title: "Release notes"})
	mustOpen(t, d, window.Config{Title: "Terminal"})

	got := d.Find("rlnts")
	if len(got) != 1 || got[0].ID != notes.ID() {
		t.Fatalf("Find = %+v", got)
	}
	all := d.Find("")
	if len(all) != 3 || all[0].Title != "Terminal" {
		t.Fatalf("Find(\"\") should list top to bottom: %+v", all)
	}
}

func TestFullscreenExited(t *testing.T) {
	d := newTestDesktop()
	w := mustOpen(t, d, window.Config{StartX: intp(30), StartY: intp(30)})
	before := w.Rect()

	if _, err := d.Do(context.Background(), w.ID(), "fullscreen", true); err != nil {
		t.Fatal(err)
	}
	d.FullscreenExited()
	if w.States().Fullscreen || w.Rect() != before {
		t.Fatalf("platform exit not applied")
	}
}
