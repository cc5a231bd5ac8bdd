package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	desktop
//	desktop.viewport.width
//	desktop.cascade_offset
//	desktop.platform
//	window_defaults.actions
//	window_defaults.auto_pin
//	icon_set.<action>
//	windows
//	windows.<index>
//	windows.<index>.title
//	logging.level
//	logging.action_log.file
//	tui.cell_width
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	switch parts[0] {
	case "desktop":
		return lookupField(cfg.Desktop, parts, map[string]func() any{
			"viewport":              func() any { return cfg.Desktop.Viewport },
			"viewport.width":        func() any { return cfg.Desktop.Viewport.Width },
			"viewport.height":       func() any { return cfg.Desktop.Viewport.Height },
			"cascade_offset":        func() any { return cfg.Desktop.CascadeOffset },
			"floating_z_base":       func() any { return cfg.Desktop.FloatingZBase },
			"fullscreen_z":          func() any { return cfg.Desktop.FullscreenZ },
			"drag_threshold":        func() any { return cfg.Desktop.DragThreshold },
			"gripper_margin":        func() any { return cfg.Desktop.GripperMargin },
			"platform":              func() any { return cfg.Desktop.Platform },
			"viewport_poll_seconds": func() any { return cfg.Desktop.ViewportPollSeconds },
		})
	case "window_defaults":
		w := cfg.WindowDefaults
		return lookupField(w, parts, map[string]func() any{
			"width":                     func() any { return w.Width },
			"height":                    func() any { return w.Height },
			"min_width":                 func() any { return w.MinWidth },
			"min_height":                func() any { return w.MinHeight },
			"titlebar_height":           func() any { return w.TitlebarHeight },
			"actions":                   func() any { return w.Actions },
			"resizable":                 func() any { return w.Resizable },
			"scroll_with_window":        func() any { return w.ScrollWithWindow },
			"auto_pin":                  func() any { return w.AutoPin },
			"bring_to_front_after_drag": func() any { return w.BringToFrontAfterDrag },
		})
	case "icon_set":
		if len(parts) == 1 {
			return cfg.IconSet, nil
		}
		if o, ok := cfg.IconSet[parts[1]]; ok && len(parts) == 2 {
			return o, nil
		}
		return nil, fmt.Errorf("unknown path %q", path)
	case "windows":
		if len(parts) == 1 {
			return cfg.Windows, nil
		}
		idx, err := strconv.Atoi(parts[1])
		if err != nil || idx < 0 || idx >= len(cfg.Windows) {
			return nil, fmt.Errorf("unknown path %q", path)
		}
		spec := cfg.Windows[idx]
		if len(parts) == 2 {
			return spec, nil
		}
		if len(parts) == 3 && parts[2] == "title" {
			return spec.Title, nil
		}
		return nil, fmt.Errorf("unknown path %q", path)
	case "logging":
		l := cfg.Logging
		return lookupField(l, parts, map[string]func() any{
			"level":                  func() any { return l.Level },
			"action_log":             func() any { return l.ActionLog },
			"action_log.enabled":     func() any { return l.ActionLog.Enabled },
			"action_log.file":        func() any { return l.ActionLog.File },
			"action_log.max_size_mb": func() any { return l.ActionLog.MaxSizeMB },
			"action_log.max_files":   func() any { return l.ActionLog.MaxFiles },
		})
	case "tui":
		t := cfg.TUI
		return lookupField(t, parts, map[string]func() any{
			"cell_width":  func() any { return t.CellWidth },
			"cell_height": func() any { return t.CellHeight },
			"wheel_step":  func() any { return t.WheelStep },
		})
	default:
		return nil, fmt.Errorf("unknown path %q", path)
	}
}

func lookupField(section any, parts []string, fields map[string]func() any) (any, error) {
	if len(parts) == 1 {
		return section, nil
	}
	key := strings.Join(parts[1:], ".")
	get, ok := fields[key]
	if !ok {
		return nil, fmt.Errorf("unknown path %q", strings.Join(parts, "."))
	}
	return get(), nil
}
