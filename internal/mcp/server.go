package mcp

import (
	"context"
	"log"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/floatwin/internal/actionlog"
	"github.com/1broseidon/floatwin/internal/ipc"
)

const (
	ServerName    = "floatwin"
	ServerVersion = "0.1.0"
)

// Desktop is the slice of the daemon's IPC surface the tools drive.
// *ipc.Client satisfies it.
type Desktop interface {
	GetStatus() (*ipc.StatusData, error)
	ListWindows(query string) (*ipc.WindowsData, error)
	OpenWindow(p ipc.OpenWindowPayload) (*ipc.WindowData, error)
	CloseWindow(id int) error
	DoAction(id int, action string, state bool) (*ipc.WindowData, error)
	SetGeometry(p ipc.GeometryPayload) (*ipc.WindowData, error)
	CenterWindow(id int) (*ipc.WindowData, error)
	Raise(id int) (*ipc.WindowData, error)
	Lower(id int) (*ipc.WindowData, error)
	GetMenu(id int) (*ipc.MenuData, error)
}

// Server exposes a running floatwin daemon as MCP tools.
type Server struct {
	mcpServer *mcpsdk.Server
	desk      Desktop
	actions   *actionlog.Logger
}

// NewServer registers the window tools against desk. actions may be nil.
func NewServer(desk Desktop, actions *actionlog.Logger) *Server {
	s := &Server{
		desk:    desk,
		actions: actions,
	}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run serves MCP on stdio, blocking until the client disconnects or ctx ends.
func (s *Server) Run(ctx context.Context) error {
	log.Printf("floatwin MCP server ready")
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// Close releases the action log.
func (s *Server) Close() error {
	if s == nil || s.actions == nil {
		return nil
	}
	return s.actions.Close()
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "desktop_status",
		Description: "Report the floatwin desktop: open window count, viewport size, selected window and daemon uptime.",
	}, s.handleStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List open windows with their geometry, stacking order and states. Pass query to fuzzy-match titles.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_window",
		Description: "Open a new floating window. Without x/y the window cascades from the top-left corner.",
	}, s.handleOpenWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Destroy a window and release its layer slot.",
	}, s.handleCloseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "window_action",
		Description: "Switch a window state: visible, embedded, pinned, maximized, minimized, fullscreen or close. Illegal transitions are reported with applied=false rather than an error.",
	}, s.handleWindowAction)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_geometry",
		Description: "Move or resize a window. Any subset of x, y, width and height may be given; sizes are clamped to the window minimum.",
	}, s.handleSetGeometry)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "raise_window",
		Description: "Bring a floating window above every other floating window.",
	}, s.handleRaise)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "lower_window",
		Description: "Send a floating window below every other floating window.",
	}, s.handleLower)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "window_menu",
		Description: "Show the action menu a window currently offers, with the label and icon of each entry.",
	}, s.handleWindowMenu)
}
