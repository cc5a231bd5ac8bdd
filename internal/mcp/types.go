package mcp

import (
	"github.com/1broseidon/floatwin/internal/ipc"
	"github.com/1broseidon/floatwin/internal/window"
)

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct {
	Query string `json:"query,omitempty" jsonschema:"Optional fuzzy title filter. Matches are returned best first; without a query windows are listed from top to bottom."`
}

// WindowInfo describes one window.
type WindowInfo struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	ZIndex    int    `json:"z_index"`
	Placement string `json:"placement"`
	Visible   bool   `json:"visible"`
	Embedded  bool   `json:"embedded"`
	Pinned    bool   `json:"pinned"`
	Maximized bool   `json:"maximized"`
	Minimized bool   `json:"minimized"`
	// Fullscreen is only reported once the platform confirmed the request.
	Fullscreen bool `json:"fullscreen"`
	Selected   bool `json:"selected"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []WindowInfo `json:"windows"`
}

// OpenWindowInput is the input for the open_window tool.
type OpenWindowInput struct {
	Title    string   `json:"title,omitempty" jsonschema:"Window title"`
	X        *int     `json:"x,omitempty" jsonschema:"Left edge in pixels. Omit both x and y to cascade from the top-left corner."`
	Y        *int     `json:"y,omitempty" jsonschema:"Top edge in pixels"`
	Width    int      `json:"width,omitempty" jsonschema:"Width in pixels (default from config)"`
	Height   int      `json:"height,omitempty" jsonschema:"Height in pixels (default from config)"`
	Actions  []string `json:"actions,omitempty" jsonschema:"Menu actions to offer: pin, embedded, maximize, minimize, fullscreen, close"`
	AutoPin  *bool    `json:"auto_pin,omitempty" jsonschema:"Pin the window while it is selected and unpin it when deselected (default from config)"`
	NoMove   bool     `json:"no_move,omitempty" jsonschema:"Disable dragging by the titlebar"`
	NoResize bool     `json:"no_resize,omitempty" jsonschema:"Disable every resize gripper"`
	Embedded bool     `json:"embedded,omitempty" jsonschema:"Start embedded in the page flow instead of floating"`
	Pinned   bool     `json:"pinned,omitempty" jsonschema:"Start pinned so the window cannot be dragged"`
	Hidden   bool     `json:"hidden,omitempty" jsonschema:"Start hidden"`
}

// WindowOutput is returned by tools that change a single window.
type WindowOutput struct {
	// Applied is false when the request was not legal in the window's state.
	Applied bool       `json:"applied"`
	Window  WindowInfo `json:"window"`
}

// WindowIDInput addresses one window.
type WindowIDInput struct {
	ID int `json:"id" jsonschema:"Window id as returned by list_windows or open_window"`
}

// CloseWindowOutput is the output for the close_window tool.
type CloseWindowOutput struct {
	ID     int  `json:"id"`
	Closed bool `json:"closed"`
}

// WindowActionInput is the input for the window_action tool.
type WindowActionInput struct {
	ID     int    `json:"id" jsonschema:"Window id"`
	Action string `json:"action" jsonschema:"One of visible, embedded, pinned, maximized, minimized, fullscreen, close"`
	State  *bool  `json:"state,omitempty" jsonschema:"Target state (default true). false restores, unpins, shows or leaves fullscreen."`
}

// SetGeometryInput is the input for the set_geometry tool.
type SetGeometryInput struct {
	ID     int  `json:"id" jsonschema:"Window id"`
	X      *int `json:"x,omitempty" jsonschema:"New left edge"`
	Y      *int `json:"y,omitempty" jsonschema:"New top edge"`
	Width  *int `json:"width,omitempty" jsonschema:"New width, clamped to the window minimum"`
	Height *int `json:"height,omitempty" jsonschema:"New height, clamped to the window minimum"`
	Center bool `json:"center,omitempty" jsonschema:"Center the window in the viewport after resizing"`
}

// MenuEntry is one row of a window's action menu.
type MenuEntry struct {
	Action   string `json:"action"`
	State    bool   `json:"state"`
	Label    string `json:"label"`
	Icon     string `json:"icon"`
	Disabled bool   `json:"disabled"`
}

// WindowMenuOutput is the output for the window_menu tool.
type WindowMenuOutput struct {
	ID    int         `json:"id"`
	Items []MenuEntry `json:"items"`
}

// StatusOutput is the output for the desktop_status tool.
type StatusOutput struct {
	Windows        int    `json:"windows"`
	WindowsCreated int    `json:"windows_created"`
	Selected       int    `json:"selected"`
	ViewportWidth  int    `json:"viewport_width"`
	ViewportHeight int    `json:"viewport_height"`
	Platform       string `json:"platform"`
	UptimeSeconds  int64  `json:"uptime_seconds"`
}

// StatusInput is the (empty) input for the desktop_status tool.
type StatusInput struct{}

func windowInfo(v window.View) WindowInfo {
	return WindowInfo{
		ID:         v.ID,
		Title:      v.Title,
		X:          v.Rect.Left,
		Y:          v.Rect.Top,
		Width:      v.Rect.Width(),
		Height:     v.Rect.Height(),
		ZIndex:     v.ZIndex,
		Placement:  v.Placement,
		Visible:    v.States.Visible,
		Embedded:   v.States.Embedded,
		Pinned:     v.States.Pinned,
		Maximized:  v.States.Maximized,
		Minimized:  v.States.Minimized,
		Fullscreen: v.States.Fullscreen,
		Selected:   v.Selected,
	}
}

func windowOutput(d *ipc.WindowData) WindowOutput {
	return WindowOutput{Applied: d.Applied, Window: windowInfo(d.Window)}
}
