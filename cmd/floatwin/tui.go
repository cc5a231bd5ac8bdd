package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/floatwin/internal/config"
	"github.com/1broseidon/floatwin/internal/desktop"
	"github.com/1broseidon/floatwin/internal/platform"
	"github.com/1broseidon/floatwin/internal/tui"
	"github.com/1broseidon/floatwin/internal/window"
)

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/floatwin/config.yaml)")
	platformName := fs.String("platform", "", "Override desktop.platform (auto, x11, headless)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: floatwin tui [--path PATH] [--platform NAME]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run a desktop in this terminal. Windows from the config open at start.")
		fmt.Fprintln(os.Stderr, "With an X11 platform, fullscreen applies to the terminal window itself.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Mouse:")
		fmt.Fprintln(os.Stderr, "  drag titlebar   Move a window")
		fmt.Fprintln(os.Stderr, "  drag edge       Resize a window")
		fmt.Fprintln(os.Stderr, "  right click     Open the window menu")
		fmt.Fprintln(os.Stderr, "  wheel           Scroll the page")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Press ? inside the TUI for every key binding.")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg := res.Config

	// Log lines would corrupt the alternate screen.
	log.SetOutput(io.Discard)
	logger := newLogger(cfg)

	kind := platform.Kind(cfg.Desktop.Platform)
	if *platformName != "" {
		kind = platform.Kind(*platformName)
	}
	backend, err := platform.Open(kind, cfg.Desktop.Viewport, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer backend.Close()

	opts, err := cfg.DesktopOptions(backend, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	desk := desktop.New(opts)
	if _, err := cfg.OpenWindows(desk); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer desk.CloseAll()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = tui.Run(ctx, tui.Options{
		Desktop: desk,
		Backend: backend,
		NewWindow: func(title string, width, height int) window.Config {
			return cfg.WindowConfig(config.WindowSpec{Title: title, Width: width, Height: height})
		},
		CellWidth:  cfg.TUI.CellWidth,
		CellHeight: cfg.TUI.CellHeight,
		WheelStep:  cfg.TUI.WheelStep,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
