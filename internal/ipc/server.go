package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/1broseidon/floatwin/internal/actionlog"
	"github.com/1broseidon/floatwin/internal/config"
	"github.com/1broseidon/floatwin/internal/desktop"
	"github.com/1broseidon/floatwin/internal/runtimepath"
	"github.com/1broseidon/floatwin/internal/window"
)

const defaultRequestTimeout = 5 * time.Second

// ServerOptions carries optional collaborators.
type ServerOptions struct {
	// Platform is reported by GET_STATUS.
	Platform string
	Actions  *actionlog.Logger
	// Loader re-reads configuration on RELOAD; config.Load when nil.
	Loader func() (*config.Config, error)
}

// handlerFunc serves one command. A nil result is sent as an empty OK.
type handlerFunc func(ctx context.Context, payload json.RawMessage) (any, error)

// Server answers one newline-terminated JSON request per connection against
// a desktop.
type Server struct {
	socketPath string
	listener   net.Listener
	desk       *desktop.Desktop
	opts       ServerOptions
	started    time.Time
	reload     chan<- struct{}
	handlers   map[CommandType]handlerFunc

	cfg     atomic.Pointer[config.Config]
	closing atomic.Bool
	conns   sync.WaitGroup
}

// NewServer prepares a server on the runtime socket path. A stale socket file
// is removed. reload receives a signal after every successful RELOAD.
func NewServer(cfg *config.Config, desk *desktop.Desktop, reload chan<- struct{}, opts ServerOptions) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	if opts.Loader == nil {
		opts.Loader = config.Load
	}
	_ = os.Remove(socketPath)

	s := &Server{
		socketPath: socketPath,
		desk:       desk,
		opts:       opts,
		started:    time.Now(),
		reload:     reload,
	}
	s.cfg.Store(cfg)
	s.handlers = map[CommandType]handlerFunc{
		CommandReload:      s.reloadConfig,
		CommandGetStatus:   s.status,
		CommandListWindows: s.listWindows,
		CommandOpenWindow:  s.openWindow,
		CommandCloseWindow: s.closeWindow,
		CommandDoAction:    s.doAction,
		CommandSetGeometry: s.setGeometry,
		CommandCenterWindow: s.onWindow(CommandCenterWindow, actionlog.ActionGeometry, func(w *window.Window) error {
			w.CenterWindow()
			return nil
		}),
		CommandRaise:   s.onWindow(CommandRaise, actionlog.ActionRaise, (*window.Window).BringToFront),
		CommandLower:   s.onWindow(CommandLower, actionlog.ActionLower, (*window.Window).SendToBack),
		CommandSelect:  s.selectWindow,
		CommandGetMenu: s.menu,
	}
	return s, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start listens on the socket and serves connections in the background.
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	if err := os.Chmod(s.socketPath, 0o600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}
	s.listener = listener
	log.Printf("IPC server listening on %s", s.socketPath)

	go s.serve()
	return nil
}

func (s *Server) serve() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.closing.Load() {
				return
			}
			log.Printf("IPC accept error: %v", err)
			continue
		}
		s.conns.Add(1)
		go func() {
			defer s.conns.Done()
			s.serveConn(conn)
		}()
	}
}

func (s *Server) serveConn(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(2 * defaultRequestTimeout))

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil && len(line) == 0 {
		log.Printf("IPC read error: %v", err)
		return
	}

	var resp *Response
	if req, err := ParseRequest(line); err != nil {
		resp = NewErrorResponse(fmt.Sprintf("Invalid request: %v", err))
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), defaultRequestTimeout)
		resp = s.handleCommand(ctx, req)
		cancel()
	}

	if err := json.NewEncoder(conn).Encode(resp); err != nil {
		log.Printf("IPC write error: %v", err)
	}
}

// handleCommand dispatches req and wraps the outcome in a Response.
func (s *Server) handleCommand(ctx context.Context, req *Request) *Response {
	h, ok := s.handlers[req.Command]
	if !ok {
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
	data, err := h(ctx, req.Payload)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// decodePayload unmarshals an optional payload; an empty one decodes to the
// zero value.
func decodePayload[T any](cmd CommandType, payload json.RawMessage) (T, error) {
	var out T
	if len(payload) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return out, fmt.Errorf("invalid %s payload: %w", cmd, err)
	}
	return out, nil
}

func (s *Server) reloadConfig(context.Context, json.RawMessage) (any, error) {
	log.Println("IPC: Received RELOAD command")
	cfg, err := s.opts.Loader()
	if err != nil {
		s.opts.Actions.Log(actionlog.ActionFailed, -1, map[string]any{"command": string(CommandReload), "error": err.Error()})
		return nil, fmt.Errorf("failed to reload config: %w", err)
	}
	s.cfg.Store(cfg)

	// A signal already pending covers this reload too.
	select {
	case s.reload <- struct{}{}:
	default:
	}
	s.opts.Actions.Log(actionlog.ActionReload, -1, map[string]any{"source": "ipc"})
	log.Println("IPC: Config reloaded successfully")
	return nil, nil
}

func (s *Server) status(context.Context, json.RawMessage) (any, error) {
	return StatusData{
		WindowCount:    s.desk.Len(),
		WindowsCreated: s.desk.Created(),
		Selected:       s.desk.Selected(),
		Viewport:       s.desk.Viewport(),
		Scroll:         s.desk.Scroll(),
		Platform:       s.opts.Platform,
		UptimeSeconds:  int64(time.Since(s.started).Seconds()),
		DaemonRunning:  true,
	}, nil
}

func (s *Server) listWindows(_ context.Context, payload json.RawMessage) (any, error) {
	req, err := decodePayload[ListWindowsPayload](CommandListWindows, payload)
	if err != nil {
		return nil, err
	}
	s.opts.Actions.Log(actionlog.ActionQuery, -1, map[string]any{"query": req.Query})

	views := s.desk.Find(req.Query)
	if views == nil {
		views = []window.View{}
	}
	return WindowsData{Windows: views}, nil
}

func (s *Server) openWindow(_ context.Context, payload json.RawMessage) (any, error) {
	req, err := decodePayload[OpenWindowPayload](CommandOpenWindow, payload)
	if err != nil {
		return nil, err
	}
	w, err := s.desk.Open(s.GetConfig().WindowConfig(config.WindowSpec{
		Title:    req.Title,
		X:        req.X,
		Y:        req.Y,
		Width:    req.Width,
		Height:   req.Height,
		Actions:  req.Actions,
		AutoPin:  req.AutoPin,
		NoMove:   req.NoMove,
		NoResize: req.NoResize,
		Embedded: req.Embedded,
		Pinned:   req.Pinned,
		Hidden:   req.Hidden,
	}))
	if err != nil {
		s.opts.Actions.Log(actionlog.ActionFailed, -1, map[string]any{"command": string(CommandOpenWindow), "error": err.Error()})
		return nil, err
	}

	view := w.View()
	log.Printf("IPC: Opened window %d %q", view.ID, view.Title)
	s.opts.Actions.Log(actionlog.ActionOpen, view.ID, map[string]any{"title": view.Title, "rect": view.Rect.String()})
	return WindowData{Applied: true, Window: view}, nil
}

func (s *Server) closeWindow(_ context.Context, payload json.RawMessage) (any, error) {
	req, err := decodePayload[WindowPayload](CommandCloseWindow, payload)
	if err != nil {
		return nil, err
	}
	if err := s.desk.Close(req.ID); err != nil {
		return nil, fmt.Errorf("failed to close window %d: %w", req.ID, err)
	}
	s.opts.Actions.Log(actionlog.ActionClose, req.ID, nil)
	return nil, nil
}

func (s *Server) doAction(ctx context.Context, payload json.RawMessage) (any, error) {
	req, err := decodePayload[ActionPayload](CommandDoAction, payload)
	if err != nil {
		return nil, err
	}
	if req.Action == "" {
		return nil, errors.New("action is required")
	}

	details := map[string]any{"action": req.Action, "state": req.State}
	applied, err := s.desk.Do(ctx, req.ID, req.Action, req.State)
	if err != nil {
		details["error"] = err.Error()
		s.opts.Actions.Log(actionlog.ActionFailed, req.ID, details)
		return nil, fmt.Errorf("failed to apply %s: %w", req.Action, err)
	}
	kind := actionlog.ActionToggle
	if !applied {
		kind = actionlog.ActionRejected
	}
	s.opts.Actions.Log(kind, req.ID, details)
	return s.windowData(req.ID, applied)
}

func (s *Server) setGeometry(_ context.Context, payload json.RawMessage) (any, error) {
	req, err := decodePayload[GeometryPayload](CommandSetGeometry, payload)
	if err != nil {
		return nil, err
	}
	w, err := s.desk.Window(req.ID)
	if err != nil {
		return nil, fmt.Errorf("window %d: %w", req.ID, err)
	}

	switch {
	case req.X != nil && req.Y != nil:
		w.SetXY(*req.X, *req.Y)
	case req.X != nil:
		w.SetX(*req.X)
	case req.Y != nil:
		w.SetY(*req.Y)
	}
	if req.Width != nil {
		w.SetWidth(*req.Width)
	}
	if req.Height != nil {
		w.SetHeight(*req.Height)
	}
	s.opts.Actions.Log(actionlog.ActionGeometry, req.ID, map[string]any{"rect": w.Rect().String()})
	return s.windowData(req.ID, true)
}

// onWindow builds a handler that runs fn on the window named by the payload.
func (s *Server) onWindow(cmd CommandType, kind actionlog.ActionType, fn func(*window.Window) error) handlerFunc {
	return func(_ context.Context, payload json.RawMessage) (any, error) {
		req, err := decodePayload[WindowPayload](cmd, payload)
		if err != nil {
			return nil, err
		}
		w, err := s.desk.Window(req.ID)
		if err == nil {
			err = fn(w)
		}
		if err != nil {
			return nil, fmt.Errorf("window %d: %w", req.ID, err)
		}
		s.opts.Actions.Log(kind, req.ID, nil)
		return s.windowData(req.ID, true)
	}
}

func (s *Server) selectWindow(_ context.Context, payload json.RawMessage) (any, error) {
	req, err := decodePayload[WindowPayload](CommandSelect, payload)
	if err != nil {
		return nil, err
	}
	if err := s.desk.Select(req.ID); err != nil {
		return nil, fmt.Errorf("window %d: %w", req.ID, err)
	}
	s.opts.Actions.Log(actionlog.ActionSelect, req.ID, nil)
	if req.ID == 0 {
		return nil, nil
	}
	return s.windowData(req.ID, true)
}

func (s *Server) menu(_ context.Context, payload json.RawMessage) (any, error) {
	req, err := decodePayload[WindowPayload](CommandGetMenu, payload)
	if err != nil {
		return nil, err
	}
	items, err := s.desk.Menu(req.ID)
	if err != nil {
		return nil, fmt.Errorf("window %d: %w", req.ID, err)
	}
	return MenuData{ID: req.ID, Items: items}, nil
}

// windowData reports the window after a command. A command that closed the
// window yields an empty view.
func (s *Server) windowData(id int, applied bool) (any, error) {
	w, err := s.desk.Window(id)
	if errors.Is(err, desktop.ErrWindowNotFound) {
		return WindowData{Applied: applied}, nil
	}
	if err != nil {
		return nil, err
	}
	return WindowData{Applied: applied, Window: w.View()}, nil
}

// Stop closes the listener, waits for in-flight requests and removes the
// socket file.
func (s *Server) Stop() {
	s.closing.Store(true)
	if s.listener != nil {
		s.listener.Close()
	}
	s.conns.Wait()
	_ = os.Remove(s.socketPath)
}

// GetConfig returns the config new windows are built from.
func (s *Server) GetConfig() *config.Config {
	return s.cfg.Load()
}

// UpdateConfig replaces the config without signaling a reload.
func (s *Server) UpdateConfig(cfg *config.Config) {
	s.cfg.Store(cfg)
}
