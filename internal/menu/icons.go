package menu

import "github.com/1broseidon/floatwin/internal/window"

// Entry is the label and icon shown for one direction of an action.
type Entry = window.IconEntry

// Pair holds the entry that turns an action on and the one that turns it off.
type Pair = window.IconPair

// IconSet maps actions to their menu entries.
type IconSet map[window.Action]Pair

// DefaultIconSet returns the built-in labels and Material icon names.
func DefaultIconSet() IconSet {
	return IconSet{
		window.ActionVisible: {
			On:  Entry{Label: "Show", Icon: "close"},
			Off: Entry{Label: "Hide", Icon: "close"},
		},
		window.ActionEmbedded: {
			On:  Entry{Label: "Embed", Icon: "lock_outline"},
			Off: Entry{Label: "Float", Icon: "lock_open"},
		},
		window.ActionPinned: {
			On:  Entry{Label: "Pin", Icon: "location_searching"},
			Off: Entry{Label: "Unpin", Icon: "gps_fixed"},
		},
		window.ActionMaximized: {
			On:  Entry{Label: "Maximize", Icon: "arrow_upward"},
			Off: Entry{Label: "Restore", Icon: "restore"},
		},
		window.ActionMinimized: {
			On:  Entry{Label: "Minimize", Icon: "arrow_downward"},
			Off: Entry{Label: "Restore", Icon: "restore"},
		},
		window.ActionFullscreen: {
			On:  Entry{Label: "Enter fullscreen", Icon: "fullscreen"},
			Off: Entry{Label: "Leave fullscreen", Icon: "fullscreen_exit"},
		},
	}
}

// Merge layers overrides on top of s field by field. Empty override fields
// keep the base value.
func (s IconSet) Merge(overrides IconSet) IconSet {
	out := make(IconSet, len(s))
	for a, p := range s {
		out[a] = p
	}
	for a, o := range overrides {
		p := out[a]
		p.On = mergeEntry(p.On, o.On)
		p.Off = mergeEntry(p.Off, o.Off)
		out[a] = p
	}
	return out
}

func mergeEntry(base, o Entry) Entry {
	if o.Label != "" {
		base.Label = o.Label
	}
	if o.Icon != "" {
		base.Icon = o.Icon
	}
	return base
}
