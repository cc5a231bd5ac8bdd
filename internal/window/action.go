package window

import (
	"errors"
	"fmt"
	"strings"
)

// Action names a togglable window state.
type Action string

const (
	ActionVisible    Action = "visible"
	ActionEmbedded   Action = "embedded"
	ActionPinned     Action = "pinned"
	ActionMaximized  Action = "maximized"
	ActionMinimized  Action = "minimized"
	ActionFullscreen Action = "fullscreen"
	ActionClose      Action = "close"
)

// ErrUnknownAction is returned for action names outside the known set.
var ErrUnknownAction = errors.New("unknown action")

// StateActions lists the actions backed by a boolean state, in menu order.
func StateActions() []Action {
	return []Action{
		ActionEmbedded,
		ActionPinned,
		ActionFullscreen,
		ActionMaximized,
		ActionMinimized,
		ActionVisible,
	}
}

var actionAliases = map[string]Action{
	"visible":    ActionVisible,
	"embedded":   ActionEmbedded,
	"embed":      ActionEmbedded,
	"pinned":     ActionPinned,
	"pin":        ActionPinned,
	"maximized":  ActionMaximized,
	"maximize":   ActionMaximized,
	"minimized":  ActionMinimized,
	"minimize":   ActionMinimized,
	"fullscreen": ActionFullscreen,
	"close":      ActionClose,
}

// ParseAction resolves an action or allow-list name ("pin", "maximize", ...).
func ParseAction(name string) (Action, error) {
	a, ok := actionAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
	return a, nil
}

// ParseActions resolves an allow-list.
func ParseActions(names []string) ([]Action, error) {
	out := make([]Action, 0, len(names))
	for _, n := range names {
		a, err := ParseAction(n)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// DefaultActions is the allow-list used when none is configured.
func DefaultActions() []Action {
	return []Action{ActionPinned, ActionEmbedded, ActionClose}
}

// IconEntry is the label and icon a menu shows for one direction of an action.
type IconEntry struct {
	Label string `json:"label" yaml:"label"`
	Icon  string `json:"icon" yaml:"icon"`
}

// IconPair holds the entry that turns an action on and the one that turns it
// off.
type IconPair struct {
	On  IconEntry `json:"on" yaml:"on"`
	Off IconEntry `json:"off" yaml:"off"`
}
