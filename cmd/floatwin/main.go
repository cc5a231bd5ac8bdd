package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/1broseidon/floatwin/internal/actionlog"
	"github.com/1broseidon/floatwin/internal/config"
	"github.com/1broseidon/floatwin/internal/daemon"
	"github.com/1broseidon/floatwin/internal/ipc"
	"github.com/1broseidon/floatwin/internal/platform"
	"github.com/1broseidon/floatwin/internal/runtimepath"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "ctl":
		os.Exit(runCtl(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: floatwin <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Run a desktop behind the IPC socket (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  ctl list            List windows")
	fmt.Fprintln(w, "  ctl open            Open a window")
	fmt.Fprintln(w, "  ctl close           Destroy a window")
	fmt.Fprintln(w, "  ctl do              Switch a window state (pin, maximize, ...)")
	fmt.Fprintln(w, "  ctl geometry        Move or resize a window")
	fmt.Fprintln(w, "  ctl center          Center a window in the viewport")
	fmt.Fprintln(w, "  ctl raise|lower     Change stacking order")
	fmt.Fprintln(w, "  ctl select          Select a window (0 clears)")
	fmt.Fprintln(w, "  ctl menu            Show a window's action menu")
	fmt.Fprintln(w, "  ctl reload          Reload the daemon config")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config init         Write the default configuration")
	fmt.Fprintln(w, "  config validate     Check a configuration file")
	fmt.Fprintln(w, "  config print        Print the effective configuration")
	fmt.Fprintln(w, "  config explain      Show a value and the file line that set it")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  tui                 Run a desktop in this terminal")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'floatwin <command> --help' for command-specific options.")
}

// loadConfig reads path, or the default location when path is empty.
func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func configPath(path string) string {
	if path != "" {
		return path
	}
	p, err := config.DefaultConfigPath()
	if err != nil {
		return ""
	}
	return p
}

func newLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Logging.SlogLevel(),
	}))
}

// openActionLog opens the rotating action log. name is used when the config
// does not set a file.
func openActionLog(cfg *config.Config, name string) *actionlog.Logger {
	lc := cfg.Logging.ActionLog
	if !lc.Enabled {
		return nil
	}
	file := lc.File
	if file == "" {
		dir, err := runtimepath.DataDir()
		if err != nil {
			log.Printf("Warning: action log disabled: %v", err)
			return nil
		}
		file = filepath.Join(dir, name)
	}
	logger, err := actionlog.NewLogger(actionlog.LogConfig{
		Enabled:   true,
		Level:     cfg.Logging.SlogLevel(),
		FilePath:  file,
		MaxSizeMB: lc.MaxSizeMB,
		MaxFiles:  lc.MaxFiles,
	})
	if err != nil {
		log.Printf("Warning: failed to initialize action log: %v", err)
		return nil
	}
	return logger
}

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/floatwin/config.yaml)")
	platformName := fs.String("platform", "", "Override desktop.platform (auto, x11, headless)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: floatwin daemon [--path PATH] [--platform NAME]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run a desktop in the foreground and serve it on the IPC socket.")
		fmt.Fprintln(os.Stderr, "SIGHUP or edits to the config file reload it.")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := res.Config
	log.Printf("Configuration loaded (viewport: %dx%d, %d startup windows)",
		cfg.Desktop.Viewport.Width, cfg.Desktop.Viewport.Height, len(cfg.Windows))

	kind := platform.Kind(cfg.Desktop.Platform)
	if *platformName != "" {
		kind = platform.Kind(*platformName)
	}
	logger := newLogger(cfg)
	backend, err := platform.Open(kind, cfg.Desktop.Viewport, logger)
	if err != nil {
		log.Fatalf("Failed to open platform: %v", err)
	}
	defer backend.Close()

	actions := openActionLog(cfg, "actions.log")
	defer actions.Close()

	d, err := daemon.New(cfg, daemon.Options{
		ConfigPath:   configPath(*path),
		Backend:      backend,
		PlatformName: string(platform.KindOf(backend)),
		Logger:       logger,
		Actions:      actions,
	})
	if err != nil {
		log.Fatalf("Failed to create daemon: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				log.Println("Received SIGHUP, reloading config...")
				d.Reload(ctx)
			}
		}
	}()

	if err := d.Run(ctx); err != nil {
		log.Printf("Daemon stopped: %v", err)
		return 1
	}
	log.Println("Shutting down floatwin daemon...")
	return 0
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: floatwin status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	started := time.Now().Add(-time.Duration(status.UptimeSeconds) * time.Second)
	fmt.Printf("daemon_running:  %v\n", status.DaemonRunning)
	fmt.Printf("platform:        %s\n", status.Platform)
	fmt.Printf("viewport:        %dx%d\n", status.Viewport.Width, status.Viewport.Height)
	fmt.Printf("scroll:          %d,%d\n", status.Scroll.X, status.Scroll.Y)
	fmt.Printf("window_count:    %d\n", status.WindowCount)
	fmt.Printf("windows_created: %s\n", humanize.Comma(int64(status.WindowsCreated)))
	fmt.Printf("selected:        %d\n", status.Selected)
	fmt.Printf("started:         %s\n", humanize.Time(started))
	return 0
}
