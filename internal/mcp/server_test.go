package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/1broseidon/floatwin/internal/geometry"
	"github.com/1broseidon/floatwin/internal/ipc"
	"github.com/1broseidon/floatwin/internal/menu"
	"github.com/1broseidon/floatwin/internal/window"
)

type fakeDesktop struct {
	views   map[int]window.View
	nextID  int
	calls   []string
	closed  []int
	opened  []ipc.OpenWindowPayload
	applied bool
	err     error
}

func newFakeDesktop() *fakeDesktop {
	return &fakeDesktop{views: make(map[int]window.View), nextID: 1, applied: true}
}

func (f *fakeDesktop) data(id int) (*ipc.WindowData, error) {
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.views[id]
	if !ok {
		return nil, errors.New("window not found")
	}
	return &ipc.WindowData{Applied: f.applied, Window: v}, nil
}

func (f *fakeDesktop) GetStatus() (*ipc.StatusData, error) {
	f.calls = append(f.calls, "status")
	if f.err != nil {
		return nil, f.err
	}
	return &ipc.StatusData{
		WindowCount:    len(f.views),
		WindowsCreated: f.nextID - 1,
		Viewport:       geometry.Size{Width: 1280, Height: 800},
		Platform:       "headless",
		UptimeSeconds:  42,
	}, nil
}

func (f *fakeDesktop) ListWindows(query string) (*ipc.WindowsData, error) {
	f.calls = append(f.calls, "list:"+query)
	out := &ipc.WindowsData{}
	for id := 1; id < f.nextID; id++ {
		if v, ok := f.views[id]; ok {
			out.Windows = append(out.Windows, v)
		}
	}
	return out, f.err
}

func (f *fakeDesktop) OpenWindow(p ipc.OpenWindowPayload) (*ipc.WindowData, error) {
	f.calls = append(f.calls, "open")
	f.opened = append(f.opened, p)
	if f.err != nil {
		return nil, f.err
	}
	id := f.nextID
	f.nextID++
	f.views[id] = window.View{
		ID:        id,
		Title:     p.Title,
		Rect:      geometry.FromXYWH(20*id, 20*id, 400, 300),
		States:    window.States{Visible: !p.Hidden, Embedded: p.Embedded, Pinned: p.Pinned},
		Placement: "overlay",
	}
	return f.data(id)
}

func (f *fakeDesktop) CloseWindow(id int) error {
	f.calls = append(f.calls, "close")
	if _, ok := f.views[id]; !ok {
		return errors.New("window not found")
	}
	delete(f.views, id)
	f.closed = append(f.closed, id)
	return nil
}

func (f *fakeDesktop) DoAction(id int, action string, state bool) (*ipc.WindowData, error) {
	f.calls = append(f.calls, "do:"+action)
	if f.applied && action == "pinned" {
		v := f.views[id]
		v.States.Pinned = state
		f.views[id] = v
	}
	return f.data(id)
}

func (f *fakeDesktop) SetGeometry(p ipc.GeometryPayload) (*ipc.WindowData, error) {
	f.calls = append(f.calls, "geometry")
	v, ok := f.views[p.ID]
	if ok && p.Width != nil {
		v.Rect.Right = v.Rect.Left + *p.Width
		f.views[p.ID] = v
	}
	return f.data(p.ID)
}

func (f *fakeDesktop) CenterWindow(id int) (*ipc.WindowData, error) {
	f.calls = append(f.calls, "center")
	return f.data(id)
}

func (f *fakeDesktop) Raise(id int) (*ipc.WindowData, error) {
	f.calls = append(f.calls, "raise")
	return f.data(id)
}

func (f *fakeDesktop) Lower(id int) (*ipc.WindowData, error) {
	f.calls = append(f.calls, "lower")
	return f.data(id)
}

func (f *fakeDesktop) GetMenu(id int) (*ipc.MenuData, error) {
	f.calls = append(f.calls, "menu")
	return &ipc.MenuData{ID: id, Items: []menu.Item{
		{Key: window.ActionPinned, State: true, On: menu.Entry{Label: "Pin", Icon: "pin"}, Off: menu.Entry{Label: "Unpin", Icon: "pin-off"}},
		{Key: window.ActionVisible, State: true, Disabled: true, On: menu.Entry{Label: "Show"}, Off: menu.Entry{Label: "Close", Icon: "x"}},
	}}, nil
}

func ptr[T any](v T) *T { return &v }

func TestNewServer_RegistersTools(t *testing.T) {
	s := NewServer(newFakeDesktop(), nil)
	if s.mcpServer == nil {
		t.Fatalf("expected MCP server")
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestOpenAndListWindows(t *testing.T) {
	fake := newFakeDesktop()
	s := NewServer(fake, nil)
	ctx := context.Background()

	_, opened, err := s.handleOpenWindow(ctx, nil, OpenWindowInput{Title: "Notes", Pinned: true})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if opened.Window.ID != 1 || !opened.Window.Pinned || opened.Window.Width != 400 {
		t.Fatalf("unexpected window: %+v", opened.Window)
	}

	_, list, err := s.handleListWindows(ctx, nil, ListWindowsInput{Query: "nts"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.Windows) != 1 || list.Windows[0].Title != "Notes" {
		t.Fatalf("unexpected list: %+v", list)
	}
	if fake.calls[len(fake.calls)-1] != "list:nts" {
		t.Fatalf("query not forwarded: %v", fake.calls)
	}
}

func TestOpenWindow_ForwardsBehaviourFlags(t *testing.T) {
	fake := newFakeDesktop()
	s := NewServer(fake, nil)
	in := OpenWindowInput{Title: "Notes", AutoPin: ptr(true), NoMove: true, NoResize: true}
	if _, _, err := s.handleOpenWindow(context.Background(), nil, in); err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(fake.opened) != 1 {
		t.Fatalf("expected one open call, got %d", len(fake.opened))
	}
	got := fake.opened[0]
	if got.AutoPin == nil || !*got.AutoPin || !got.NoMove || !got.NoResize {
		t.Fatalf("flags not forwarded: %+v", got)
	}
}

func TestOpenWindow_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   OpenWindowInput
	}{
		{"x without y", OpenWindowInput{X: ptr(10)}},
		{"unknown action", OpenWindowInput{Actions: []string{"pin", "shrink"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeDesktop()
			s := NewServer(fake, nil)
			if _, _, err := s.handleOpenWindow(context.Background(), nil, tt.in); err == nil {
				t.Fatalf("expected error")
			}
			if len(fake.calls) != 0 {
				t.Fatalf("daemon must not be called: %v", fake.calls)
			}
		})
	}
}

func TestWindowAction(t *testing.T) {
	fake := newFakeDesktop()
	s := NewServer(fake, nil)
	ctx := context.Background()
	if _, _, err := s.handleOpenWindow(ctx, nil, OpenWindowInput{Title: "a"}); err != nil {
		t.Fatal(err)
	}

	_, out, err := s.handleWindowAction(ctx, nil, WindowActionInput{ID: 1, Action: "pin"})
	if err != nil {
		t.Fatalf("pin: %v", err)
	}
	if !out.Applied || !out.Window.Pinned {
		t.Fatalf("expected pinned: %+v", out)
	}
	if fake.calls[len(fake.calls)-1] != "do:pinned" {
		t.Fatalf("alias not canonicalized: %v", fake.calls)
	}

	_, out, err = s.handleWindowAction(ctx, nil, WindowActionInput{ID: 1, Action: "pinned", State: ptr(false)})
	if err != nil || out.Window.Pinned {
		t.Fatalf("unpin: %+v, %v", out, err)
	}

	fake.applied = false
	_, out, err = s.handleWindowAction(ctx, nil, WindowActionInput{ID: 1, Action: "embedded"})
	if err != nil {
		t.Fatalf("rejected transitions are not errors: %v", err)
	}
	if out.Applied {
		t.Fatalf("expected applied=false")
	}

	if _, _, err := s.handleWindowAction(ctx, nil, WindowActionInput{ID: 1, Action: "wobble"}); !errors.Is(err, window.ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
	if _, _, err := s.handleWindowAction(ctx, nil, WindowActionInput{ID: 0, Action: "pin"}); !errors.Is(err, errInvalidID) {
		t.Fatalf("expected errInvalidID, got %v", err)
	}
}

func TestSetGeometry(t *testing.T) {
	fake := newFakeDesktop()
	s := NewServer(fake, nil)
	ctx := context.Background()
	if _, _, err := s.handleOpenWindow(ctx, nil, OpenWindowInput{}); err != nil {
		t.Fatal(err)
	}

	if _, _, err := s.handleSetGeometry(ctx, nil, SetGeometryInput{ID: 1}); err == nil {
		t.Fatalf("expected error for empty change")
	}

	_, out, err := s.handleSetGeometry(ctx, nil, SetGeometryInput{ID: 1, Width: ptr(250), Center: true})
	if err != nil {
		t.Fatalf("geometry: %v", err)
	}
	if out.Window.Width != 250 {
		t.Fatalf("width = %d, want 250", out.Window.Width)
	}
	n := len(fake.calls)
	if fake.calls[n-2] != "geometry" || fake.calls[n-1] != "center" {
		t.Fatalf("expected resize then center, got %v", fake.calls)
	}

	_, _, err = s.handleSetGeometry(ctx, nil, SetGeometryInput{ID: 1, Center: true})
	if err != nil || fake.calls[len(fake.calls)-1] != "center" {
		t.Fatalf("center only: %v %v", err, fake.calls)
	}
}

func TestStackingAndClose(t *testing.T) {
	fake := newFakeDesktop()
	s := NewServer(fake, nil)
	ctx := context.Background()
	for range 2 {
		if _, _, err := s.handleOpenWindow(ctx, nil, OpenWindowInput{}); err != nil {
			t.Fatal(err)
		}
	}

	if _, _, err := s.handleRaise(ctx, nil, WindowIDInput{ID: 1}); err != nil {
		t.Fatalf("raise: %v", err)
	}
	if _, _, err := s.handleLower(ctx, nil, WindowIDInput{ID: 2}); err != nil {
		t.Fatalf("lower: %v", err)
	}

	_, closed, err := s.handleCloseWindow(ctx, nil, WindowIDInput{ID: 2})
	if err != nil || !closed.Closed {
		t.Fatalf("close: %+v %v", closed, err)
	}
	if _, closed, err = s.handleCloseWindow(ctx, nil, WindowIDInput{ID: 2}); err == nil || closed.Closed {
		t.Fatalf("second close must fail")
	}
	if _, _, err := s.handleRaise(ctx, nil, WindowIDInput{ID: 2}); err == nil {
		t.Fatalf("raise of a closed window must fail")
	}
}

func TestWindowMenu(t *testing.T) {
	s := NewServer(newFakeDesktop(), nil)
	_, out, err := s.handleWindowMenu(context.Background(), nil, WindowIDInput{ID: 3})
	if err != nil {
		t.Fatalf("menu: %v", err)
	}
	want := []MenuEntry{
		{Action: "pinned", State: true, Label: "Unpin", Icon: "pin-off"},
		{Action: "visible", State: true, Label: "Close", Icon: "x", Disabled: true},
	}
	if out.ID != 3 || len(out.Items) != len(want) {
		t.Fatalf("unexpected menu: %+v", out)
	}
	for i := range want {
		if out.Items[i] != want[i] {
			t.Errorf("item %d = %+v, want %+v", i, out.Items[i], want[i])
		}
	}
}

func TestStatus(t *testing.T) {
	fake := newFakeDesktop()
	s := NewServer(fake, nil)
	_, out, err := s.handleStatus(context.Background(), nil, StatusInput{})
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if out.ViewportWidth != 1280 || out.Platform != "headless" || out.UptimeSeconds != 42 {
		t.Fatalf("unexpected status: %+v", out)
	}

	fake.err = errors.New("daemon not running")
	if _, _, err := s.handleStatus(context.Background(), nil, StatusInput{}); err == nil {
		t.Fatalf("expected daemon error")
	}
}
