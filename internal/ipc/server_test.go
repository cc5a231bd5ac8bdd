package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/floatwin/internal/config"
	"github.com/1broseidon/floatwin/internal/desktop"
	"github.com/1broseidon/floatwin/internal/geometry"
	"github.com/1broseidon/floatwin/internal/runtimepath"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func newTestServer(t *testing.T, opts ServerOptions) (*Server, chan struct{}) {
	t.Helper()
	t.Setenv(runtimepath.EnvSocket, filepath.Join(t.TempDir(), "fw.sock"))

	desk := desktop.New(desktop.Options{
		Viewport: geometry.Size{Width: 1280, Height: 800},
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	reload := make(chan struct{}, 1)
	srv, err := NewServer(config.DefaultConfig(), desk, reload, opts)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return srv, reload
}

func call(t *testing.T, s *Server, cmd CommandType, payload any) *Response {
	t.Helper()
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		req.Payload = data
	}
	return s.handleCommand(context.Background(), req)
}

func decode[T any](t *testing.T, resp *Response) T {
	t.Helper()
	if resp.Status != StatusOK {
		t.Fatalf("expected OK, got %s: %s", resp.Status, resp.Error)
	}
	var out T
	if err := json.Unmarshal(resp.Data, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestHandleCommand_OpenActionAndIllegalTransition(t *testing.T) {
	s, _ := newTestServer(t, ServerOptions{})

	opened := decode[WindowData](t, call(t, s, CommandOpenWindow, OpenWindowPayload{Title: "Notes"}))
	if opened.Window.ID == 0 || opened.Window.Title != "Notes" {
		t.Fatalf("unexpected open result: %+v", opened)
	}
	if opened.Window.Rect.Left != 20 || opened.Window.Rect.Width() != 400 {
		t.Fatalf("expected cascaded default rect, got %s", opened.Window.Rect)
	}
	id := opened.Window.ID

	pinned := decode[WindowData](t, call(t, s, CommandDoAction, ActionPayload{ID: id, Action: "pin", State: true}))
	if !pinned.Applied || !pinned.Window.States.Pinned {
		t.Fatalf("expected pin applied, got %+v", pinned)
	}

	embedded := decode[WindowData](t, call(t, s, CommandDoAction, ActionPayload{ID: id, Action: "embedded", State: true}))
	if embedded.Applied {
		t.Fatalf("embedding a pinned window must not apply")
	}
	if embedded.Window.States.Embedded || !embedded.Window.States.Pinned {
		t.Fatalf("illegal transition mutated state: %+v", embedded.Window.States)
	}
}

func TestHandleCommand_Errors(t *testing.T) {
	s, _ := newTestServer(t, ServerOptions{})
	opened := decode[WindowData](t, call(t, s, CommandOpenWindow, nil))
	id := opened.Window.ID

	tests := []struct {
		name    string
		cmd     CommandType
		payload any
		want    string
	}{
		{"unknown command", "TELEPORT", nil, "Unknown command"},
		{"unknown action", CommandDoAction, ActionPayload{ID: id, Action: "teleport", State: true}, "unknown action"},
		{"missing action", CommandDoAction, ActionPayload{ID: id}, "action is required"},
		{"missing window", CommandDoAction, ActionPayload{ID: 999, Action: "pinned", State: true}, "not found"},
		{"close missing", CommandCloseWindow, WindowPayload{ID: 999}, "not found"},
		{"geometry missing", CommandSetGeometry, GeometryPayload{ID: 999}, "not found"},
		{"raise missing", CommandRaise, WindowPayload{ID: 999}, "not found"},
		{"menu missing", CommandGetMenu, WindowPayload{ID: 999}, "not found"},
		{"bad open actions", CommandOpenWindow, OpenWindowPayload{Actions: []string{"bogus"}}, "unknown action"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := call(t, s, tt.cmd, tt.payload)
			if resp.Status != StatusError {
				t.Fatalf("expected ERROR, got %s", resp.Status)
			}
			if !strings.Contains(resp.Error, tt.want) {
				t.Fatalf("expected error containing %q, got %q", tt.want, resp.Error)
			}
		})
	}
}

func TestHandleCommand_GeometryAndStacking(t *testing.T) {
	s, _ := newTestServer(t, ServerOptions{})
	a := decode[WindowData](t, call(t, s, CommandOpenWindow, OpenWindowPayload{Title: "a"})).Window.ID
	b := decode[WindowData](t, call(t, s, CommandOpenWindow, OpenWindowPayload{Title: "b"})).Window.ID

	x, width := 100, 50
	moved := decode[WindowData](t, call(t, s, CommandSetGeometry, GeometryPayload{ID: a, X: &x, Width: &width}))
	want := geometry.Rect{Top: 20, Left: 100, Right: 200, Bottom: 420}
	if moved.Window.Rect != want {
		t.Fatalf("rect = %s, want %s (width clamped to min)", moved.Window.Rect, want)
	}

	centered := decode[WindowData](t, call(t, s, CommandCenterWindow, WindowPayload{ID: b}))
	if centered.Window.Rect.Left != 440 || centered.Window.Rect.Top != 200 {
		t.Fatalf("expected centered rect, got %s", centered.Window.Rect)
	}

	decode[WindowData](t, call(t, s, CommandRaise, WindowPayload{ID: a}))
	list := decode[WindowsData](t, call(t, s, CommandListWindows, nil))
	if len(list.Windows) != 2 || list.Windows[0].ID != a {
		t.Fatalf("expected a on top after raise, got %+v", list.Windows)
	}

	decode[WindowData](t, call(t, s, CommandLower, WindowPayload{ID: a}))
	list = decode[WindowsData](t, call(t, s, CommandListWindows, ListWindowsPayload{}))
	if list.Windows[0].ID != b {
		t.Fatalf("expected b on top after lower, got %+v", list.Windows)
	}
	if list.Windows[0].ZIndex <= list.Windows[1].ZIndex {
		t.Fatalf("expected strict dominance, got %d <= %d", list.Windows[0].ZIndex, list.Windows[1].ZIndex)
	}
}

func TestHandleCommand_MenuSelectStatusClose(t *testing.T) {
	s, _ := newTestServer(t, ServerOptions{Platform: "headless"})
	id := decode[WindowData](t, call(t, s, CommandOpenWindow, OpenWindowPayload{Title: "m", Embedded: true})).Window.ID

	m := decode[MenuData](t, call(t, s, CommandGetMenu, WindowPayload{ID: id}))
	if len(m.Items) != 2 || m.Items[0].Key != "embedded" || !m.Items[0].State || m.Items[1].Key != "visible" {
		t.Fatalf("expected embedded and visible items while embedded, got %+v", m.Items)
	}

	decode[WindowData](t, call(t, s, CommandSelect, WindowPayload{ID: id}))
	status := decode[StatusData](t, call(t, s, CommandGetStatus, nil))
	if status.WindowCount != 1 || status.Selected != id || status.Platform != "headless" || !status.DaemonRunning {
		t.Fatalf("unexpected status: %+v", status)
	}

	if resp := call(t, s, CommandCloseWindow, WindowPayload{ID: id}); resp.Status != StatusOK {
		t.Fatalf("close: %s", resp.Error)
	}
	status = decode[StatusData](t, call(t, s, CommandGetStatus, nil))
	if status.WindowCount != 0 || status.WindowsCreated != 1 || status.Selected != 0 {
		t.Fatalf("unexpected status after close: %+v", status)
	}
}

func TestHandleCommand_Reload(t *testing.T) {
	next := config.DefaultConfig()
	next.WindowDefaults.Width = 640
	loads := 0
	s, reload := newTestServer(t, ServerOptions{Loader: func() (*config.Config, error) {
		loads++
		if loads > 1 {
			return nil, errors.New("broken yaml")
		}
		return next, nil
	}})

	if resp := call(t, s, CommandReload, nil); resp.Status != StatusOK {
		t.Fatalf("reload: %s", resp.Error)
	}
	select {
	case <-reload:
	default:
		t.Fatalf("expected reload signal")
	}
	if s.GetConfig().WindowDefaults.Width != 640 {
		t.Fatalf("expected new config installed")
	}

	opened := decode[WindowData](t, call(t, s, CommandOpenWindow, nil))
	if opened.Window.Rect.Width() != 640 {
		t.Fatalf("expected reloaded default width, got %d", opened.Window.Rect.Width())
	}

	resp := call(t, s, CommandReload, nil)
	if resp.Status != StatusError || !strings.Contains(resp.Error, "broken yaml") {
		t.Fatalf("expected reload error, got %+v", resp)
	}
	if s.GetConfig() != next {
		t.Fatalf("failed reload must keep the previous config")
	}
}

func TestClientServer_RoundTrip(t *testing.T) {
	s, _ := newTestServer(t, ServerOptions{})
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop()

	c := NewClientWithSocket(s.SocketPath())
	if err := c.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}

	opened, err := c.OpenWindow(OpenWindowPayload{Title: "Terminal"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := c.OpenWindow(OpenWindowPayload{Title: "Clock"}); err != nil {
		t.Fatalf("open: %v", err)
	}

	found, err := c.ListWindows("trml")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(found.Windows) != 1 || found.Windows[0].ID != opened.Window.ID {
		t.Fatalf("expected fuzzy match on Terminal, got %+v", found.Windows)
	}

	res, err := c.DoAction(opened.Window.ID, "maximized", true)
	if err != nil {
		t.Fatalf("maximize: %v", err)
	}
	if !res.Applied || res.Window.Rect != (geometry.Rect{Right: 1280, Bottom: 800}) {
		t.Fatalf("expected maximized to viewport, got %+v", res)
	}

	if _, err := c.DoAction(opened.Window.ID, "bogus", true); err == nil || !strings.Contains(err.Error(), "daemon error") {
		t.Fatalf("expected daemon error, got %v", err)
	}

	menu, err := c.GetMenu(opened.Window.ID)
	if err != nil {
		t.Fatalf("menu: %v", err)
	}
	if len(menu.Items) == 0 {
		t.Fatalf("expected menu items")
	}

	if err := c.CloseWindow(opened.Window.ID); err != nil {
		t.Fatalf("close: %v", err)
	}
	status, err := c.GetStatus()
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.WindowCount != 1 {
		t.Fatalf("expected 1 window left, got %d", status.WindowCount)
	}
}

func TestClient_NoDaemon(t *testing.T) {
	c := NewClientWithSocket(filepath.Join(t.TempDir(), "missing.sock"))
	if err := c.Ping(); err == nil || !strings.Contains(err.Error(), "is the daemon running") {
		t.Fatalf("expected connection error, got %v", err)
	}
}
