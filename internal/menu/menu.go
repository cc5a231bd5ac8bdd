// Package menu projects a window's state into the ordered list of action
// entries a titlebar menu shows.
package menu

import (
	"context"

	"github.com/1broseidon/floatwin/internal/window"
)

// Target is the window surface the menu reads and drives.
type Target interface {
	States() window.States
	CanDo(a window.Action, on bool) (bool, error)
	FullscreenPending() bool
	Do(ctx context.Context, a window.Action, on bool) (bool, error)
}

// Handler runs one direction of a menu action.
type Handler func(ctx context.Context) (bool, error)

// Item is one projected menu row.
type Item struct {
	Key      window.Action `json:"key"`
	State    bool          `json:"state"`
	Disabled bool          `json:"disabled"`
	On       Entry         `json:"on"`
	Off      Entry         `json:"off"`
	// CanOn and CanOff report which direction is currently legal.
	CanOn  bool `json:"can_on"`
	CanOff bool `json:"can_off"`

	OnHandler  Handler `json:"-"`
	OffHandler Handler `json:"-"`
}

// Current returns the entry that matches the action's present state: the
// "off" entry when the state is on, since that is what clicking would do.
func (i Item) Current() Entry {
	if i.State {
		return i.Off
	}
	return i.On
}

// Toggle runs whichever handler flips the current state.
func (i Item) Toggle(ctx context.Context) (bool, error) {
	if i.Disabled {
		return false, nil
	}
	if i.State {
		return i.OffHandler(ctx)
	}
	return i.OnHandler(ctx)
}

// Customizer may rewrite the projected list. It runs on every projection.
type Customizer func(items []Item) []Item

// Input gathers everything Project needs.
type Input struct {
	Target    Target
	Allowed   []window.Action
	Icons     IconSet
	Customize Customizer
}

// Project builds the menu. An allowed action is listed when it is legal in at
// least one direction; close is listed as the visible entry. Items follow a
// fixed order regardless of the allow-list order.
func Project(in Input) []Item {
	icons := in.Icons
	if icons == nil {
		icons = DefaultIconSet()
	}

	allowed := make(map[window.Action]bool, len(in.Allowed))
	for _, a := range in.Allowed {
		if a == window.ActionClose {
			a = window.ActionVisible
		}
		allowed[a] = true
	}

	states := in.Target.States()
	pending := in.Target.FullscreenPending()

	var items []Item
	for _, a := range window.StateActions() {
		if !allowed[a] {
			continue
		}
		// Listing follows the state rules alone so that a pending fullscreen
		// request greys entries out instead of dropping them.
		listOn, _ := states.Allows(a, true)
		listOff, _ := states.Allows(a, false)
		if !listOn && !listOff {
			continue
		}
		canOn, _ := in.Target.CanDo(a, true)
		canOff, _ := in.Target.CanDo(a, false)
		state, _ := states.Get(a)
		pair := icons[a]
		items = append(items, Item{
			Key:        a,
			State:      state,
			Disabled:   pending && (a == window.ActionFullscreen || a == window.ActionEmbedded),
			On:         pair.On,
			Off:        pair.Off,
			CanOn:      canOn,
			CanOff:     canOff,
			OnHandler:  handler(in.Target, a, true),
			OffHandler: handler(in.Target, a, false),
		})
	}

	if in.Customize != nil {
		items = in.Customize(items)
	}
	return items
}

func handler(t Target, a window.Action, on bool) Handler {
	return func(ctx context.Context) (bool, error) {
		return t.Do(ctx, a, on)
	}
}
