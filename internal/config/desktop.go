package config

import (
	"log/slog"

	"github.com/1broseidon/floatwin/internal/desktop"
	"github.com/1broseidon/floatwin/internal/window"
)

// DesktopOptions converts the desktop section into desktop.Options.
func (c *Config) DesktopOptions(presenter window.Presenter, logger *slog.Logger) (desktop.Options, error) {
	icons, err := c.Icons()
	if err != nil {
		return desktop.Options{}, err
	}
	d := c.Desktop
	return desktop.Options{
		Viewport:      d.Viewport,
		CascadeOffset: d.CascadeOffset,
		FloatingBase:  d.FloatingZBase,
		FullscreenZ:   d.FullscreenZ,
		DragThreshold: d.DragThreshold,
		GripperMargin: d.GripperMargin,
		Icons:         icons,
		Presenter:     presenter,
		Logger:        logger,
	}, nil
}

// OpenWindows opens every configured startup window on desk, in order.
func (c *Config) OpenWindows(desk *desktop.Desktop) ([]*window.Window, error) {
	out := make([]*window.Window, 0, len(c.Windows))
	for i, spec := range c.Windows {
		w, err := desk.Open(c.WindowConfig(spec))
		if err != nil {
			return out, &ValidationError{Path: windowsPath(i), Err: err}
		}
		out = append(out, w)
	}
	return out, nil
}
