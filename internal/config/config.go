package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/floatwin/internal/geometry"
	"github.com/1broseidon/floatwin/internal/layers"
	"github.com/1broseidon/floatwin/internal/menu"
	"github.com/1broseidon/floatwin/internal/window"
)

// PlatformKind selects the backend that provides viewport size and
// fullscreen.
type PlatformKind string

const (
	PlatformAuto     PlatformKind = "auto"
	PlatformX11      PlatformKind = "x11"
	PlatformHeadless PlatformKind = "headless"
)

// DesktopConfig holds page-wide settings.
type DesktopConfig struct {
	Viewport      geometry.Size `yaml:"viewport"`
	CascadeOffset int           `yaml:"cascade_offset"`
	FloatingZBase int           `yaml:"floating_z_base"`
	FullscreenZ   int           `yaml:"fullscreen_z"`
	DragThreshold int           `yaml:"drag_threshold"`
	GripperMargin int           `yaml:"gripper_margin"`
	Platform      PlatformKind  `yaml:"platform"`
	// ViewportPollSeconds controls how often the daemon re-reads the platform
	// viewport (0 disables polling).
	ViewportPollSeconds int `yaml:"viewport_poll_seconds"`
}

// WindowDefaults applies to every window unless a window entry overrides it.
type WindowDefaults struct {
	Width                 int      `yaml:"width"`
	Height                int      `yaml:"height"`
	MinWidth              int      `yaml:"min_width"`
	MinHeight             int      `yaml:"min_height"`
	TitlebarHeight        int      `yaml:"titlebar_height"`
	Actions               []string `yaml:"actions"`
	Resizable             []string `yaml:"resizable"`
	ScrollWithWindow      bool     `yaml:"scroll_with_window"`
	AutoPin               bool     `yaml:"auto_pin"`
	BringToFrontAfterDrag bool     `yaml:"bring_to_front_after_drag"`
}

// WindowSpec describes a window opened at startup.
type WindowSpec struct {
	Title                 string   `yaml:"title"`
	X                     *int     `yaml:"x,omitempty"`
	Y                     *int     `yaml:"y,omitempty"`
	Width                 int      `yaml:"width,omitempty"`
	Height                int      `yaml:"height,omitempty"`
	MinWidth              int      `yaml:"min_width,omitempty"`
	MinHeight             int      `yaml:"min_height,omitempty"`
	Actions               []string `yaml:"actions,omitempty"`
	Resizable             []string `yaml:"resizable,omitempty"`
	ScrollWithWindow      *bool    `yaml:"scroll_with_window,omitempty"`
	AutoPin               *bool    `yaml:"auto_pin,omitempty"`
	BringToFrontAfterDrag *bool    `yaml:"bring_to_front_after_drag,omitempty"`
	NoMove                bool     `yaml:"no_move,omitempty"`
	NoResize              bool     `yaml:"no_resize,omitempty"`
	Embedded              bool     `yaml:"embedded,omitempty"`
	Pinned                bool     `yaml:"pinned,omitempty"`
	Hidden                bool     `yaml:"hidden,omitempty"`
	// IconSet overrides menu entries for this window only, over icon_set.
	IconSet map[string]IconOverride `yaml:"icon_set,omitempty"`
}

// IconOverride replaces parts of one action's menu entries.
type IconOverride struct {
	On  menu.Entry `yaml:"on,omitempty"`
	Off menu.Entry `yaml:"off,omitempty"`
}

// ActionLogConfig configures the rotating action log.
type ActionLogConfig struct {
	// Enabled turns action logging on/off
	Enabled bool `yaml:"enabled,omitempty"`
	// File is the log file path (default: ~/.local/share/floatwin/actions.log)
	File string `yaml:"file,omitempty"`
	// MaxSizeMB is the maximum log file size before rotation (default: 10)
	MaxSizeMB int `yaml:"max_size_mb,omitempty"`
	// MaxFiles is the number of rotated files to keep (default: 3)
	MaxFiles int `yaml:"max_files,omitempty"`
}

// LoggingConfig configures diagnostics.
type LoggingConfig struct {
	// Level controls verbosity: debug, info, warn, error
	Level     string          `yaml:"level"`
	ActionLog ActionLogConfig `yaml:"action_log"`
}

// TUIConfig maps terminal cells to the pixel space windows live in.
type TUIConfig struct {
	CellWidth  int `yaml:"cell_width"`
	CellHeight int `yaml:"cell_height"`
	WheelStep  int `yaml:"wheel_step"`
}

// Config is the effective configuration.
type Config struct {
	Desktop        DesktopConfig           `yaml:"desktop"`
	WindowDefaults WindowDefaults          `yaml:"window_defaults"`
	IconSet        map[string]IconOverride `yaml:"icon_set,omitempty"`
	Windows        []WindowSpec            `yaml:"windows,omitempty"`
	Logging        LoggingConfig           `yaml:"logging"`
	TUI            TUIConfig               `yaml:"tui"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	handles := geometry.ResizeHandles()
	resizable := make([]string, len(handles))
	for i, h := range handles {
		resizable[i] = h.String()
	}
	return &Config{
		Desktop: DesktopConfig{
			Viewport:            geometry.Size{Width: 1280, Height: 800},
			CascadeOffset:       20,
			FloatingZBase:       layers.DefaultBase,
			FullscreenZ:         layers.DefaultFullscreen,
			DragThreshold:       window.DefaultDragThreshold,
			GripperMargin:       layers.DefaultGripperMargin,
			Platform:            PlatformAuto,
			ViewportPollSeconds: 2,
		},
		WindowDefaults: WindowDefaults{
			Width:          window.DefaultWidth,
			Height:         window.DefaultHeight,
			MinWidth:       window.DefaultMinWidth,
			MinHeight:      window.DefaultMinHeight,
			TitlebarHeight: window.DefaultTitlebarHeight,
			Actions:        []string{"pin", "embedded", "close"},
			Resizable:      resizable,
		},
		IconSet: map[string]IconOverride{},
		Logging: LoggingConfig{
			Level: "info",
			ActionLog: ActionLogConfig{
				MaxSizeMB: 10,
				MaxFiles:  3,
			},
		},
		TUI: TUIConfig{
			CellWidth:  8,
			CellHeight: 16,
			WheelStep:  3,
		},
	}
}

// WindowConfig merges a window entry over the window defaults.
func (c *Config) WindowConfig(spec WindowSpec) window.Config {
	d := c.WindowDefaults
	cfg := window.Config{
		Title:                 spec.Title,
		StartX:                spec.X,
		StartY:                spec.Y,
		Width:                 firstPositive(spec.Width, d.Width),
		Height:                firstPositive(spec.Height, d.Height),
		MinWidth:              firstPositive(spec.MinWidth, d.MinWidth),
		MinHeight:             firstPositive(spec.MinHeight, d.MinHeight),
		TitlebarHeight:        d.TitlebarHeight,
		Actions:               d.Actions,
		Resizable:             d.Resizable,
		ScrollWithWindow:      derefBool(spec.ScrollWithWindow, d.ScrollWithWindow),
		AutoPin:               derefBool(spec.AutoPin, d.AutoPin),
		BringToFrontAfterDrag: derefBool(spec.BringToFrontAfterDrag, d.BringToFrontAfterDrag),
		NoMove:                spec.NoMove,
		NoResize:              spec.NoResize,
		Embedded:              spec.Embedded,
		Pinned:                spec.Pinned,
		Hidden:                spec.Hidden,
	}
	if spec.Actions != nil {
		cfg.Actions = spec.Actions
	}
	if spec.Resizable != nil {
		cfg.Resizable = spec.Resizable
	}
	if len(spec.IconSet) > 0 {
		// Validate has already rejected unknown action names.
		cfg.IconSet, _ = parseIconSet("icon_set", spec.IconSet)
	}
	return cfg
}

// Icons returns the built-in icon set with icon_set overrides applied.
func (c *Config) Icons() (menu.IconSet, error) {
	overrides, err := parseIconSet("icon_set", c.IconSet)
	if err != nil {
		return nil, err
	}
	return menu.DefaultIconSet().Merge(overrides), nil
}

// parseIconSet keys overrides by action, folding close into visible.
func parseIconSet(path string, set map[string]IconOverride) (map[window.Action]window.IconPair, error) {
	out := make(map[window.Action]window.IconPair, len(set))
	for _, name := range sortedKeys(set) {
		a, err := window.ParseAction(name)
		if err != nil {
			return nil, &ValidationError{Path: path + "." + name, Err: err}
		}
		if a == window.ActionClose {
			a = window.ActionVisible
		}
		o := set[name]
		out[a] = window.IconPair{On: o.On, Off: o.Off}
	}
	return out, nil
}

// Save writes the configuration to path, or the standard location when path
// is empty.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Marshal renders the effective config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Validate checks the effective config.
func (c *Config) Validate() error {
	d := c.Desktop
	if d.Viewport.Width <= 0 || d.Viewport.Height <= 0 {
		return &ValidationError{Path: "desktop.viewport", Err: fmt.Errorf("viewport width and height must be > 0")}
	}
	if d.CascadeOffset <= 0 {
		return &ValidationError{Path: "desktop.cascade_offset", Err: fmt.Errorf("cascade_offset must be > 0")}
	}
	if d.FloatingZBase <= 0 {
		return &ValidationError{Path: "desktop.floating_z_base", Err: fmt.Errorf("floating_z_base must be > 0")}
	}
	if d.FullscreenZ <= d.FloatingZBase {
		return &ValidationError{Path: "desktop.fullscreen_z", Err: fmt.Errorf("fullscreen_z must be above floating_z_base")}
	}
	if d.DragThreshold < 1 {
		return &ValidationError{Path: "desktop.drag_threshold", Err: fmt.Errorf("drag_threshold must be >= 1")}
	}
	if d.GripperMargin < 0 {
		return &ValidationError{Path: "desktop.gripper_margin", Err: fmt.Errorf("gripper_margin must be >= 0")}
	}
	if d.ViewportPollSeconds < 0 {
		return &ValidationError{Path: "desktop.viewport_poll_seconds", Err: fmt.Errorf("viewport_poll_seconds must be >= 0")}
	}
	switch d.Platform {
	case PlatformAuto, PlatformX11, PlatformHeadless:
	default:
		return &ValidationError{Path: "desktop.platform", Err: fmt.Errorf("platform must be one of: auto, x11, headless")}
	}

	w := c.WindowDefaults
	if w.MinWidth <= 0 || w.MinHeight <= 0 {
		return &ValidationError{Path: "window_defaults.min_width", Err: fmt.Errorf("min_width and min_height must be > 0")}
	}
	if w.Width < w.MinWidth {
		return &ValidationError{Path: "window_defaults.width", Err: fmt.Errorf("width must be >= min_width")}
	}
	if w.Height < w.MinHeight {
		return &ValidationError{Path: "window_defaults.height", Err: fmt.Errorf("height must be >= min_height")}
	}
	if w.TitlebarHeight <= 0 {
		return &ValidationError{Path: "window_defaults.titlebar_height", Err: fmt.Errorf("titlebar_height must be > 0")}
	}
	if err := validateActions(w.Actions); err != nil {
		return &ValidationError{Path: "window_defaults.actions", Err: err}
	}
	if err := validateHandles(w.Resizable); err != nil {
		return &ValidationError{Path: "window_defaults.resizable", Err: err}
	}

	if _, err := parseIconSet("icon_set", c.IconSet); err != nil {
		return err
	}

	for i, spec := range c.Windows {
		path := windowsPath(i)
		if spec.Embedded && spec.Pinned {
			return &ValidationError{Path: path, Err: fmt.Errorf("a window cannot start both embedded and pinned")}
		}
		if spec.Width < 0 || spec.Height < 0 || spec.MinWidth < 0 || spec.MinHeight < 0 {
			return &ValidationError{Path: path, Err: fmt.Errorf("sizes must be >= 0")}
		}
		if err := validateActions(spec.Actions); err != nil {
			return &ValidationError{Path: path + ".actions", Err: err}
		}
		if err := validateHandles(spec.Resizable); err != nil {
			return &ValidationError{Path: path + ".resizable", Err: err}
		}
		if _, err := parseIconSet(path+".icon_set", spec.IconSet); err != nil {
			return err
		}
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: debug, info, warn, error")}
	}
	if c.Logging.ActionLog.MaxSizeMB < 0 || c.Logging.ActionLog.MaxFiles < 0 {
		return &ValidationError{Path: "logging.action_log", Err: fmt.Errorf("max_size_mb and max_files must be >= 0")}
	}

	if c.TUI.CellWidth <= 0 || c.TUI.CellHeight <= 0 {
		return &ValidationError{Path: "tui", Err: fmt.Errorf("cell_width and cell_height must be > 0")}
	}
	if c.TUI.WheelStep <= 0 {
		return &ValidationError{Path: "tui.wheel_step", Err: fmt.Errorf("wheel_step must be > 0")}
	}
	return nil
}

func validateActions(names []string) error {
	for _, n := range names {
		a, err := window.ParseAction(n)
		if err != nil {
			return err
		}
		if a == window.ActionVisible {
			return fmt.Errorf("%q is not an allow-list action (use close)", n)
		}
	}
	return nil
}

func validateHandles(names []string) error {
	for _, n := range names {
		h, err := geometry.ParseHandle(n)
		if err != nil {
			return err
		}
		if !h.IsResize() {
			return fmt.Errorf("%q is not a resize handle", n)
		}
	}
	return nil
}

func windowsPath(i int) string {
	return fmt.Sprintf("windows.%d", i)
}

func firstPositive(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func derefBool(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SlogLevel maps the configured level name onto slog.
func (l LoggingConfig) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(l.Level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
