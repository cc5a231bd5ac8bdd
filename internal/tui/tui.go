// Package tui renders a floatwin desktop in the terminal. Windows are drawn as
// cell boxes, mouse input drives the same drag and selection paths a page
// would, and the keyboard reaches every window command.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/floatwin/internal/desktop"
	"github.com/1broseidon/floatwin/internal/platform"
	"github.com/1broseidon/floatwin/internal/window"
)

// Options configures the terminal desktop.
type Options struct {
	Desktop *desktop.Desktop
	// Backend, when set, reports fullscreen exits made outside the TUI.
	Backend platform.Backend
	// NewWindow builds the config for windows opened with the n key. Zero
	// sizes mean "use the default".
	NewWindow func(title string, width, height int) window.Config

	// CellWidth and CellHeight are the pixel size of one terminal cell.
	CellWidth  int
	CellHeight int
	// WheelStep is the number of rows one wheel tick scrolls.
	WheelStep     int
	WheelInterval time.Duration
	ActionTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.CellWidth <= 0 {
		o.CellWidth = 8
	}
	if o.CellHeight <= 0 {
		o.CellHeight = 16
	}
	if o.WheelStep <= 0 {
		o.WheelStep = 3
	}
	if o.WheelInterval <= 0 {
		o.WheelInterval = 50 * time.Millisecond
	}
	if o.ActionTimeout <= 0 {
		o.ActionTimeout = 5 * time.Second
	}
	if o.NewWindow == nil {
		o.NewWindow = func(title string, width, height int) window.Config {
			return window.Config{Title: title, Width: width, Height: height}
		}
	}
	return o
}

// Run shows the desktop until the user quits or ctx is canceled.
func Run(ctx context.Context, opts Options) error {
	if opts.Desktop == nil {
		return errors.New("tui requires a desktop")
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newModel(opts),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)

	// Events fire from inside Update too, where a blocking Send would stall
	// the program loop.
	opts.Desktop.Subscribe(func(window.Event) {
		go p.Send(refreshMsg{})
	})
	if opts.Backend != nil {
		go func() {
			_ = opts.Backend.WatchFullscreen(ctx, func() {
				opts.Desktop.FullscreenExited()
			})
		}()
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
