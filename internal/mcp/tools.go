package mcp

import (
	"context"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/floatwin/internal/actionlog"
	"github.com/1broseidon/floatwin/internal/ipc"
	"github.com/1broseidon/floatwin/internal/window"
)

var errInvalidID = errors.New("window id must be positive")

func checkID(id int) error {
	if id <= 0 {
		return fmt.Errorf("%w: %d", errInvalidID, id)
	}
	return nil
}

// fail records a failed tool call and passes the error through.
func (s *Server) fail(tool string, id int, err error) error {
	s.actions.Log(actionlog.ActionFailed, id, map[string]any{
		"tool":  tool,
		"error": err.Error(),
	})
	return err
}

func (s *Server) handleStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ StatusInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	st, err := s.desk.GetStatus()
	if err != nil {
		return nil, StatusOutput{}, s.fail("desktop_status", -1, err)
	}
	return nil, StatusOutput{
		Windows:        st.WindowCount,
		WindowsCreated: st.WindowsCreated,
		Selected:       st.Selected,
		ViewportWidth:  st.Viewport.Width,
		ViewportHeight: st.Viewport.Height,
		Platform:       st.Platform,
		UptimeSeconds:  st.UptimeSeconds,
	}, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	data, err := s.desk.ListWindows(args.Query)
	if err != nil {
		return nil, ListWindowsOutput{}, s.fail("list_windows", -1, err)
	}
	out := ListWindowsOutput{Windows: make([]WindowInfo, 0, len(data.Windows))}
	for _, v := range data.Windows {
		out.Windows = append(out.Windows, windowInfo(v))
	}
	s.actions.Log(actionlog.ActionQuery, -1, map[string]any{
		"tool":    "list_windows",
		"query":   args.Query,
		"results": len(out.Windows),
	})
	return nil, out, nil
}

func (s *Server) handleOpenWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args OpenWindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if (args.X == nil) != (args.Y == nil) {
		return nil, WindowOutput{}, s.fail("open_window", -1, errors.New("x and y must be given together"))
	}
	if _, err := window.ParseActions(args.Actions); err != nil {
		return nil, WindowOutput{}, s.fail("open_window", -1, err)
	}

	data, err := s.desk.OpenWindow(ipc.OpenWindowPayload{
		Title:    args.Title,
		X:        args.X,
		Y:        args.Y,
		Width:    args.Width,
		Height:   args.Height,
		Actions:  args.Actions,
		AutoPin:  args.AutoPin,
		NoMove:   args.NoMove,
		NoResize: args.NoResize,
		Embedded: args.Embedded,
		Pinned:   args.Pinned,
		Hidden:   args.Hidden,
	})
	if err != nil {
		return nil, WindowOutput{}, s.fail("open_window", -1, err)
	}
	s.actions.Log(actionlog.ActionOpen, data.Window.ID, map[string]any{
		"tool":  "open_window",
		"title": data.Window.Title,
	})
	return nil, windowOutput(data), nil
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowIDInput) (*mcpsdk.CallToolResult, CloseWindowOutput, error) {
	if err := checkID(args.ID); err != nil {
		return nil, CloseWindowOutput{ID: args.ID}, err
	}
	if err := s.desk.CloseWindow(args.ID); err != nil {
		return nil, CloseWindowOutput{ID: args.ID}, s.fail("close_window", args.ID, err)
	}
	s.actions.Log(actionlog.ActionClose, args.ID, map[string]any{"tool": "close_window"})
	return nil, CloseWindowOutput{ID: args.ID, Closed: true}, nil
}

func (s *Server) handleWindowAction(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowActionInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if err := checkID(args.ID); err != nil {
		return nil, WindowOutput{}, err
	}
	action, err := window.ParseAction(args.Action)
	if err != nil {
		return nil, WindowOutput{}, s.fail("window_action", args.ID, err)
	}
	state := true
	if args.State != nil {
		state = *args.State
	}

	data, err := s.desk.DoAction(args.ID, string(action), state)
	if err != nil {
		return nil, WindowOutput{}, s.fail("window_action", args.ID, err)
	}
	details := map[string]any{"tool": "window_action", "action": string(action), "state": state}
	if data.Applied {
		s.actions.Log(actionlog.ActionToggle, args.ID, details)
	} else {
		s.actions.Log(actionlog.ActionRejected, args.ID, details)
	}
	return nil, windowOutput(data), nil
}

func (s *Server) handleSetGeometry(_ context.Context, _ *mcpsdk.CallToolRequest, args SetGeometryInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if err := checkID(args.ID); err != nil {
		return nil, WindowOutput{}, err
	}
	if args.X == nil && args.Y == nil && args.Width == nil && args.Height == nil && !args.Center {
		return nil, WindowOutput{}, errors.New("nothing to change: pass x, y, width, height or center")
	}

	var (
		data *ipc.WindowData
		err  error
	)
	if args.X != nil || args.Y != nil || args.Width != nil || args.Height != nil {
		data, err = s.desk.SetGeometry(ipc.GeometryPayload{
			ID:     args.ID,
			X:      args.X,
			Y:      args.Y,
			Width:  args.Width,
			Height: args.Height,
		})
		if err != nil {
			return nil, WindowOutput{}, s.fail("set_geometry", args.ID, err)
		}
	}
	if args.Center {
		data, err = s.desk.CenterWindow(args.ID)
		if err != nil {
			return nil, WindowOutput{}, s.fail("set_geometry", args.ID, err)
		}
	}

	s.actions.Log(actionlog.ActionGeometry, args.ID, map[string]any{
		"tool": "set_geometry",
		"rect": data.Window.Rect.String(),
	})
	return nil, windowOutput(data), nil
}

func (s *Server) handleRaise(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowIDInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if err := checkID(args.ID); err != nil {
		return nil, WindowOutput{}, err
	}
	data, err := s.desk.Raise(args.ID)
	if err != nil {
		return nil, WindowOutput{}, s.fail("raise_window", args.ID, err)
	}
	s.actions.Log(actionlog.ActionRaise, args.ID, map[string]any{"tool": "raise_window", "z": data.Window.ZIndex})
	return nil, windowOutput(data), nil
}

func (s *Server) handleLower(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowIDInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if err := checkID(args.ID); err != nil {
		return nil, WindowOutput{}, err
	}
	data, err := s.desk.Lower(args.ID)
	if err != nil {
		return nil, WindowOutput{}, s.fail("lower_window", args.ID, err)
	}
	s.actions.Log(actionlog.ActionLower, args.ID, map[string]any{"tool": "lower_window", "z": data.Window.ZIndex})
	return nil, windowOutput(data), nil
}

func (s *Server) handleWindowMenu(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowIDInput) (*mcpsdk.CallToolResult, WindowMenuOutput, error) {
	if err := checkID(args.ID); err != nil {
		return nil, WindowMenuOutput{}, err
	}
	data, err := s.desk.GetMenu(args.ID)
	if err != nil {
		return nil, WindowMenuOutput{}, s.fail("window_menu", args.ID, err)
	}
	out := WindowMenuOutput{ID: data.ID, Items: make([]MenuEntry, 0, len(data.Items))}
	for _, item := range data.Items {
		cur := item.Current()
		out.Items = append(out.Items, MenuEntry{
			Action:   string(item.Key),
			State:    item.State,
			Label:    cur.Label,
			Icon:     cur.Icon,
			Disabled: item.Disabled,
		})
	}
	return nil, out, nil
}
