package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor represents a physical display
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

func (m Monitor) contains(x, y int) bool {
	return x >= m.X && x < m.X+m.Width && y >= m.Y && y < m.Y+m.Height
}

// Monitors retrieves all active monitors using XRandR
func (c *Connection) Monitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if out, err := randr.GetOutputInfo(c.XUtil.Conn(), info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}

		monitors = append(monitors, Monitor{
			ID:     i,
			Name:   name,
			X:      int(info.X),
			Y:      int(info.Y),
			Width:  int(info.Width),
			Height: int(info.Height),
		})
	}
	return monitors, nil
}

// HostMonitor returns the monitor under the center of win, clipped to the
// EWMH work area so panels and docks are excluded.
func (c *Connection) HostMonitor(win xproto.Window) (Monitor, error) {
	monitors, err := c.Monitors()
	if err != nil {
		return Monitor{}, err
	}
	if len(monitors) == 0 {
		return Monitor{}, fmt.Errorf("no monitors found")
	}

	mon := monitors[0]
	if x, y, ok := c.windowCenter(win); ok {
		for _, m := range monitors {
			if m.contains(x, y) {
				mon = m
				break
			}
		}
	}
	return c.clipToWorkarea(mon), nil
}

func (c *Connection) clipToWorkarea(mon Monitor) Monitor {
	areas, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(areas) == 0 {
		return mon
	}
	idx := 0
	if cur, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(cur) < len(areas) {
		idx = int(cur)
	}
	wa := areas[idx]

	x1 := max(mon.X, int(wa.X))
	y1 := max(mon.Y, int(wa.Y))
	x2 := min(mon.X+mon.Width, int(wa.X)+int(wa.Width))
	y2 := min(mon.Y+mon.Height, int(wa.Y)+int(wa.Height))
	if x2 > x1 && y2 > y1 {
		mon.X, mon.Y = x1, y1
		mon.Width, mon.Height = x2-x1, y2-y1
	}
	return mon
}

func (c *Connection) windowCenter(win xproto.Window) (int, int, bool) {
	if win == 0 {
		return 0, 0, false
	}
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(win)).Reply()
	if err != nil {
		return 0, 0, false
	}
	tr, err := xproto.TranslateCoordinates(c.XUtil.Conn(), win, c.Root, 0, 0).Reply()
	if err != nil {
		return 0, 0, false
	}
	return int(tr.DstX) + int(geom.Width)/2, int(tr.DstY) + int(geom.Height)/2, true
}
