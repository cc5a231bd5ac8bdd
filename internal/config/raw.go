package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/floatwin/internal/menu"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawViewport struct {
	Width  *int `yaml:"width"`
	Height *int `yaml:"height"`
}

type RawDesktop struct {
	Viewport            *RawViewport  `yaml:"viewport"`
	CascadeOffset       *int          `yaml:"cascade_offset"`
	FloatingZBase       *int          `yaml:"floating_z_base"`
	FullscreenZ         *int          `yaml:"fullscreen_z"`
	DragThreshold       *int          `yaml:"drag_threshold"`
	GripperMargin       *int          `yaml:"gripper_margin"`
	Platform            *PlatformKind `yaml:"platform"`
	ViewportPollSeconds *int          `yaml:"viewport_poll_seconds"`
}

type RawWindowDefaults struct {
	Width                 *int      `yaml:"width"`
	Height                *int      `yaml:"height"`
	MinWidth              *int      `yaml:"min_width"`
	MinHeight             *int      `yaml:"min_height"`
	TitlebarHeight        *int      `yaml:"titlebar_height"`
	Actions               *[]string `yaml:"actions"`
	Resizable             *[]string `yaml:"resizable"`
	ScrollWithWindow      *bool     `yaml:"scroll_with_window"`
	AutoPin               *bool     `yaml:"auto_pin"`
	BringToFrontAfterDrag *bool     `yaml:"bring_to_front_after_drag"`
}

type RawIconOverride struct {
	On  *menu.Entry `yaml:"on"`
	Off *menu.Entry `yaml:"off"`
}

type RawActionLog struct {
	Enabled   *bool   `yaml:"enabled"`
	File      *string `yaml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
}

type RawLogging struct {
	Level     *string       `yaml:"level"`
	ActionLog *RawActionLog `yaml:"action_log"`
}

type RawTUI struct {
	CellWidth  *int `yaml:"cell_width"`
	CellHeight *int `yaml:"cell_height"`
	WheelStep  *int `yaml:"wheel_step"`
}

// RawConfig mirrors the YAML file. Every field is optional so that included
// files can be layered.
type RawConfig struct {
	Include IncludeList `yaml:"include"`

	Desktop        *RawDesktop                `yaml:"desktop"`
	WindowDefaults *RawWindowDefaults         `yaml:"window_defaults"`
	IconSet        map[string]RawIconOverride `yaml:"icon_set"`
	Windows        *[]WindowSpec              `yaml:"windows"`
	Logging        *RawLogging                `yaml:"logging"`
	TUI            *RawTUI                    `yaml:"tui"`
}

// merge layers overlay on top of c. Scalars and lists replace, maps merge by
// key.
func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Desktop != nil {
		base := RawDesktop{}
		if out.Desktop != nil {
			base = *out.Desktop
		}
		merged := mergeRawDesktop(base, *overlay.Desktop)
		out.Desktop = &merged
	}
	if overlay.WindowDefaults != nil {
		base := RawWindowDefaults{}
		if out.WindowDefaults != nil {
			base = *out.WindowDefaults
		}
		merged := mergeRawWindowDefaults(base, *overlay.WindowDefaults)
		out.WindowDefaults = &merged
	}
	if overlay.IconSet != nil {
		merged := make(map[string]RawIconOverride, len(out.IconSet)+len(overlay.IconSet))
		for k, v := range out.IconSet {
			merged[k] = v
		}
		for k, v := range overlay.IconSet {
			prev := merged[k]
			if v.On != nil {
				prev.On = v.On
			}
			if v.Off != nil {
				prev.Off = v.Off
			}
			merged[k] = prev
		}
		out.IconSet = merged
	}
	if overlay.Windows != nil {
		out.Windows = overlay.Windows
	}
	if overlay.Logging != nil {
		base := RawLogging{}
		if out.Logging != nil {
			base = *out.Logging
		}
		if overlay.Logging.Level != nil {
			base.Level = overlay.Logging.Level
		}
		if overlay.Logging.ActionLog != nil {
			al := RawActionLog{}
			if base.ActionLog != nil {
				al = *base.ActionLog
			}
			al = mergeRawActionLog(al, *overlay.Logging.ActionLog)
			base.ActionLog = &al
		}
		out.Logging = &base
	}
	if overlay.TUI != nil {
		base := RawTUI{}
		if out.TUI != nil {
			base = *out.TUI
		}
		if overlay.TUI.CellWidth != nil {
			base.CellWidth = overlay.TUI.CellWidth
		}
		if overlay.TUI.CellHeight != nil {
			base.CellHeight = overlay.TUI.CellHeight
		}
		if overlay.TUI.WheelStep != nil {
			base.WheelStep = overlay.TUI.WheelStep
		}
		out.TUI = &base
	}
	return out
}

func mergeRawDesktop(base RawDesktop, overlay RawDesktop) RawDesktop {
	out := base
	if overlay.Viewport != nil {
		vp := RawViewport{}
		if out.Viewport != nil {
			vp = *out.Viewport
		}
		if overlay.Viewport.Width != nil {
			vp.Width = overlay.Viewport.Width
		}
		if overlay.Viewport.Height != nil {
			vp.Height = overlay.Viewport.Height
		}
		out.Viewport = &vp
	}
	if overlay.CascadeOffset != nil {
		out.CascadeOffset = overlay.CascadeOffset
	}
	if overlay.FloatingZBase != nil {
		out.FloatingZBase = overlay.FloatingZBase
	}
	if overlay.FullscreenZ != nil {
		out.FullscreenZ = overlay.FullscreenZ
	}
	if overlay.DragThreshold != nil {
		out.DragThreshold = overlay.DragThreshold
	}
	if overlay.GripperMargin != nil {
		out.GripperMargin = overlay.GripperMargin
	}
	if overlay.Platform != nil {
		out.Platform = overlay.Platform
	}
	if overlay.ViewportPollSeconds != nil {
		out.ViewportPollSeconds = overlay.ViewportPollSeconds
	}
	return out
}

func mergeRawWindowDefaults(base RawWindowDefaults, overlay RawWindowDefaults) RawWindowDefaults {
	out := base
	if overlay.Width != nil {
		out.Width = overlay.Width
	}
	if overlay.Height != nil {
		out.Height = overlay.Height
	}
	if overlay.MinWidth != nil {
		out.MinWidth = overlay.MinWidth
	}
	if overlay.MinHeight != nil {
		out.MinHeight = overlay.MinHeight
	}
	if overlay.TitlebarHeight != nil {
		out.TitlebarHeight = overlay.TitlebarHeight
	}
	if overlay.Actions != nil {
		out.Actions = overlay.Actions
	}
	if overlay.Resizable != nil {
		out.Resizable = overlay.Resizable
	}
	if overlay.ScrollWithWindow != nil {
		out.ScrollWithWindow = overlay.ScrollWithWindow
	}
	if overlay.AutoPin != nil {
		out.AutoPin = overlay.AutoPin
	}
	if overlay.BringToFrontAfterDrag != nil {
		out.BringToFrontAfterDrag = overlay.BringToFrontAfterDrag
	}
	return out
}

func mergeRawActionLog(base RawActionLog, overlay RawActionLog) RawActionLog {
	out := base
	if overlay.Enabled != nil {
		out.Enabled = overlay.Enabled
	}
	if overlay.File != nil {
		out.File = overlay.File
	}
	if overlay.MaxSizeMB != nil {
		out.MaxSizeMB = overlay.MaxSizeMB
	}
	if overlay.MaxFiles != nil {
		out.MaxFiles = overlay.MaxFiles
	}
	return out
}
