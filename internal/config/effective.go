package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig applies a merged raw config over the defaults.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if d := raw.Desktop; d != nil {
		if d.Viewport != nil {
			cfg.Desktop.Viewport.Width = derefInt(d.Viewport.Width, cfg.Desktop.Viewport.Width)
			cfg.Desktop.Viewport.Height = derefInt(d.Viewport.Height, cfg.Desktop.Viewport.Height)
		}
		cfg.Desktop.CascadeOffset = derefInt(d.CascadeOffset, cfg.Desktop.CascadeOffset)
		cfg.Desktop.FloatingZBase = derefInt(d.FloatingZBase, cfg.Desktop.FloatingZBase)
		cfg.Desktop.FullscreenZ = derefInt(d.FullscreenZ, cfg.Desktop.FullscreenZ)
		cfg.Desktop.DragThreshold = derefInt(d.DragThreshold, cfg.Desktop.DragThreshold)
		cfg.Desktop.GripperMargin = derefInt(d.GripperMargin, cfg.Desktop.GripperMargin)
		cfg.Desktop.ViewportPollSeconds = derefInt(d.ViewportPollSeconds, cfg.Desktop.ViewportPollSeconds)
		if d.Platform != nil {
			cfg.Desktop.Platform = PlatformKind(strings.ToLower(strings.TrimSpace(string(*d.Platform))))
		}
	}

	if w := raw.WindowDefaults; w != nil {
		cfg.WindowDefaults.Width = derefInt(w.Width, cfg.WindowDefaults.Width)
		cfg.WindowDefaults.Height = derefInt(w.Height, cfg.WindowDefaults.Height)
		cfg.WindowDefaults.MinWidth = derefInt(w.MinWidth, cfg.WindowDefaults.MinWidth)
		cfg.WindowDefaults.MinHeight = derefInt(w.MinHeight, cfg.WindowDefaults.MinHeight)
		cfg.WindowDefaults.TitlebarHeight = derefInt(w.TitlebarHeight, cfg.WindowDefaults.TitlebarHeight)
		if w.Actions != nil {
			cfg.WindowDefaults.Actions = append([]string(nil), (*w.Actions)...)
		}
		if w.Resizable != nil {
			cfg.WindowDefaults.Resizable = append([]string(nil), (*w.Resizable)...)
		}
		cfg.WindowDefaults.ScrollWithWindow = derefBool(w.ScrollWithWindow, cfg.WindowDefaults.ScrollWithWindow)
		cfg.WindowDefaults.AutoPin = derefBool(w.AutoPin, cfg.WindowDefaults.AutoPin)
		cfg.WindowDefaults.BringToFrontAfterDrag = derefBool(w.BringToFrontAfterDrag, cfg.WindowDefaults.BringToFrontAfterDrag)
	}

	for _, name := range sortedKeys(raw.IconSet) {
		o := raw.IconSet[name]
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			return nil, &ValidationError{Path: "icon_set", Err: fmt.Errorf("action name is empty")}
		}
		var eff IconOverride
		if o.On != nil {
			eff.On = *o.On
		}
		if o.Off != nil {
			eff.Off = *o.Off
		}
		cfg.IconSet[key] = eff
	}

	if raw.Windows != nil {
		cfg.Windows = append([]WindowSpec(nil), (*raw.Windows)...)
	}

	if l := raw.Logging; l != nil {
		if l.Level != nil {
			cfg.Logging.Level = strings.ToLower(strings.TrimSpace(*l.Level))
		}
		if al := l.ActionLog; al != nil {
			cfg.Logging.ActionLog.Enabled = derefBool(al.Enabled, cfg.Logging.ActionLog.Enabled)
			if al.File != nil {
				cfg.Logging.ActionLog.File = *al.File
			}
			cfg.Logging.ActionLog.MaxSizeMB = derefInt(al.MaxSizeMB, cfg.Logging.ActionLog.MaxSizeMB)
			cfg.Logging.ActionLog.MaxFiles = derefInt(al.MaxFiles, cfg.Logging.ActionLog.MaxFiles)
		}
	}

	if t := raw.TUI; t != nil {
		cfg.TUI.CellWidth = derefInt(t.CellWidth, cfg.TUI.CellWidth)
		cfg.TUI.CellHeight = derefInt(t.CellHeight, cfg.TUI.CellHeight)
		cfg.TUI.WheelStep = derefInt(t.WheelStep, cfg.TUI.WheelStep)
	}

	return cfg, nil
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
