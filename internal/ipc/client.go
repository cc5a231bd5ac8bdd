package ipc

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/floatwin/internal/runtimepath"
)

// Client talks to a running daemon. Each call dials a new connection.
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient targets the default socket path.
func NewClient() *Client {
	socketPath, _ := runtimepath.SocketPath()
	return NewClientWithSocket(socketPath)
}

// NewClientWithSocket creates a client for an explicit socket path.
func NewClientWithSocket(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest performs one request/response exchange on a fresh connection.
// An ERROR response becomes a Go error.
func (c *Client) sendRequest(req *Request) (*Response, error) {
	if c.socketPath == "" {
		return nil, errors.New("no IPC socket path (is $XDG_RUNTIME_DIR usable?)")
	}
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(c.timeout))

	// Encode terminates the request with the newline the server reads up to.
	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return nil, fmt.Errorf("failed to send %s: %w", req.Command, err)
	}
	var resp Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", req.Command, err)
	}
	if resp.Status == StatusError {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}
	return &resp, nil
}

// call sends cmd with an optional payload and decodes the response data
// into out when out is non-nil.
func (c *Client) call(cmd CommandType, payload any, out any) error {
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", cmd, err)
		}
		req.Payload = data
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", cmd, err)
	}
	return nil
}

// Reload asks the daemon to re-read its config file.
func (c *Client) Reload() error {
	return c.call(CommandReload, nil, nil)
}

// GetStatus returns a summary of the daemon's desktop.
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ListWindows returns open windows, topmost first, optionally filtered by a
// fuzzy title query.
func (c *Client) ListWindows(query string) (*WindowsData, error) {
	var data WindowsData
	if err := c.call(CommandListWindows, ListWindowsPayload{Query: query}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// OpenWindow opens a window on the daemon's desktop.
func (c *Client) OpenWindow(p OpenWindowPayload) (*WindowData, error) {
	var data WindowData
	if err := c.call(CommandOpenWindow, p, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// CloseWindow unmounts a window.
func (c *Client) CloseWindow(id int) error {
	return c.call(CommandCloseWindow, WindowPayload{ID: id}, nil)
}

// DoAction drives action toward state. Applied is false when the transition
// is not legal from the window's current state.
func (c *Client) DoAction(id int, action string, state bool) (*WindowData, error) {
	var data WindowData
	if err := c.call(CommandDoAction, ActionPayload{ID: id, Action: action, State: state}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// SetGeometry sets any subset of position and size.
func (c *Client) SetGeometry(p GeometryPayload) (*WindowData, error) {
	var data WindowData
	if err := c.call(CommandSetGeometry, p, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// CenterWindow centers a window in the viewport.
func (c *Client) CenterWindow(id int) (*WindowData, error) {
	return c.windowCommand(CommandCenterWindow, id)
}

// Raise brings a window to the front.
func (c *Client) Raise(id int) (*WindowData, error) {
	return c.windowCommand(CommandRaise, id)
}

// Lower sends a window to the back.
func (c *Client) Lower(id int) (*WindowData, error) {
	return c.windowCommand(CommandLower, id)
}

// Select marks a window as selected; id 0 clears the selection.
func (c *Client) Select(id int) error {
	return c.call(CommandSelect, WindowPayload{ID: id}, nil)
}

// GetMenu returns a window's projected menu.
func (c *Client) GetMenu(id int) (*MenuData, error) {
	var data MenuData
	if err := c.call(CommandGetMenu, WindowPayload{ID: id}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) windowCommand(cmd CommandType, id int) (*WindowData, error) {
	var data WindowData
	if err := c.call(cmd, WindowPayload{ID: id}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Ping reports whether the daemon answers.
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
