package x11

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

const (
	StateFullscreen = "_NET_WM_STATE_FULLSCREEN"

	stateRemove = 0
	stateAdd    = 1
)

// HostWindow returns the window that hosts the floatwin surface: $WINDOWID
// when the terminal exports it, otherwise the active window.
func (c *Connection) HostWindow() (xproto.Window, error) {
	if raw := strings.TrimSpace(os.Getenv("WINDOWID")); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err == nil && id != 0 {
			return xproto.Window(id), nil
		}
	}
	win, err := ewmh.ActiveWindowGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to get active window: %w", err)
	}
	if win == 0 {
		return 0, fmt.Errorf("no active window")
	}
	return win, nil
}

// HasState reports whether _NET_WM_STATE on win contains state.
func (c *Connection) HasState(win xproto.Window, state string) (bool, error) {
	states, err := ewmh.WmStateGet(c.XUtil, win)
	if err != nil {
		return false, fmt.Errorf("failed to read window state: %w", err)
	}
	for _, s := range states {
		if s == state {
			return true, nil
		}
	}
	return false, nil
}

// SetState asks the window manager to add or remove a _NET_WM_STATE atom.
// The client message is built by hand because the ewmh request helpers
// panic on this xgbutil version.
func (c *Connection) SetState(win xproto.Window, state string, on bool) error {
	stateAtom, err := c.internAtom("_NET_WM_STATE")
	if err != nil {
		return err
	}
	valueAtom, err := c.internAtom(state)
	if err != nil {
		return err
	}

	action := uint32(stateRemove)
	if on {
		action = stateAdd
	}
	const sourceIndication = 2 // pager/direct action
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   stateAtom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{action, uint32(valueAtom), 0, sourceIndication, 0}),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}

func (c *Connection) internAtom(name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(c.XUtil.Conn(), false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("failed to intern %s: %w", name, err)
	}
	return reply.Atom, nil
}
