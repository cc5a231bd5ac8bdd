package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/floatwin/internal/geometry"
	"github.com/1broseidon/floatwin/internal/menu"
	"github.com/1broseidon/floatwin/internal/window"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload       CommandType = "RELOAD"
	CommandGetStatus    CommandType = "GET_STATUS"
	CommandListWindows  CommandType = "LIST_WINDOWS"
	CommandOpenWindow   CommandType = "OPEN_WINDOW"
	CommandCloseWindow  CommandType = "CLOSE_WINDOW"
	CommandDoAction     CommandType = "DO_ACTION"
	CommandSetGeometry  CommandType = "SET_GEOMETRY"
	CommandCenterWindow CommandType = "CENTER_WINDOW"
	CommandRaise        CommandType = "RAISE"
	CommandLower        CommandType = "LOWER"
	CommandSelect       CommandType = "SELECT"
	CommandGetMenu      CommandType = "GET_MENU"
)

const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	WindowCount    int            `json:"window_count"`
	WindowsCreated int            `json:"windows_created"`
	Selected       int            `json:"selected"`
	Viewport       geometry.Size  `json:"viewport"`
	Scroll         geometry.Point `json:"scroll"`
	Platform       string         `json:"platform"`
	UptimeSeconds  int64          `json:"uptime_seconds"`
	DaemonRunning  bool           `json:"daemon_running"`
}

// ListWindowsPayload filters LIST_WINDOWS by a fuzzy title query.
type ListWindowsPayload struct {
	Query string `json:"query,omitempty"`
}

// WindowsData is returned by LIST_WINDOWS, topmost first.
type WindowsData struct {
	Windows []window.View `json:"windows"`
}

// OpenWindowPayload describes a window to open. Unset fields fall back to
// window_defaults.
type OpenWindowPayload struct {
	Title    string   `json:"title"`
	X        *int     `json:"x,omitempty"`
	Y        *int     `json:"y,omitempty"`
	Width    int      `json:"width,omitempty"`
	Height   int      `json:"height,omitempty"`
	Actions  []string `json:"actions,omitempty"`
	AutoPin  *bool    `json:"auto_pin,omitempty"`
	NoMove   bool     `json:"no_move,omitempty"`
	NoResize bool     `json:"no_resize,omitempty"`
	Embedded bool     `json:"embedded,omitempty"`
	Pinned   bool     `json:"pinned,omitempty"`
	Hidden   bool     `json:"hidden,omitempty"`
}

// WindowPayload addresses a single window.
type WindowPayload struct {
	ID int `json:"id"`
}

// ActionPayload drives one action toward a target state.
type ActionPayload struct {
	ID     int    `json:"id"`
	Action string `json:"action"`
	State  bool   `json:"state"`
}

// GeometryPayload sets any subset of position and size.
type GeometryPayload struct {
	ID     int  `json:"id"`
	X      *int `json:"x,omitempty"`
	Y      *int `json:"y,omitempty"`
	Width  *int `json:"width,omitempty"`
	Height *int `json:"height,omitempty"`
}

// WindowData is returned by commands that mutate a window. Applied is false
// when the transition was not legal from the current state.
type WindowData struct {
	Applied bool        `json:"applied"`
	Window  window.View `json:"window"`
}

// MenuData is returned by GET_MENU.
type MenuData struct {
	ID    int         `json:"id"`
	Items []menu.Item `json:"items"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data any) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: StatusOK,
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: StatusError,
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
