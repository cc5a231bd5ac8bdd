// Package daemon runs a headless desktop behind the IPC socket.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/1broseidon/floatwin/internal/actionlog"
	"github.com/1broseidon/floatwin/internal/config"
	"github.com/1broseidon/floatwin/internal/desktop"
	"github.com/1broseidon/floatwin/internal/ipc"
	"github.com/1broseidon/floatwin/internal/platform"
)

// Options configures a Daemon.
type Options struct {
	// ConfigPath is watched for edits and re-read on RELOAD. Empty disables
	// both.
	ConfigPath   string
	Backend      platform.Backend
	PlatformName string
	Logger       *slog.Logger
	Actions      *actionlog.Logger
	// ReloadDebounce coalesces bursts of file events.
	ReloadDebounce time.Duration
}

// Daemon owns one desktop and the goroutines that serve it.
type Daemon struct {
	opts       Options
	logger     *slog.Logger
	desk       *desktop.Desktop
	server     *ipc.Server
	reconciler *Reconciler
	reloadChan chan struct{}

	mu  sync.Mutex
	cfg *config.Config
}

// New builds the desktop and IPC server from cfg. Nothing is started.
func New(cfg *config.Config, opts Options) (*Daemon, error) {
	if opts.Backend == nil {
		return nil, errors.New("daemon requires a platform backend")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	deskOpts, err := cfg.DesktopOptions(opts.Backend, opts.Logger)
	if err != nil {
		return nil, err
	}
	desk := desktop.New(deskOpts)

	d := &Daemon{
		opts:       opts,
		logger:     opts.Logger,
		desk:       desk,
		reloadChan: make(chan struct{}, 1),
		cfg:        cfg,
	}

	server, err := ipc.NewServer(cfg, desk, d.reloadChan, ipc.ServerOptions{
		Platform: opts.PlatformName,
		Actions:  opts.Actions,
		Loader:   d.loadConfig,
	})
	if err != nil {
		return nil, err
	}
	d.server = server

	d.reconciler = NewReconciler(ReconcilerConfig{
		Interval: time.Duration(cfg.Desktop.ViewportPollSeconds) * time.Second,
		Logger:   opts.Logger,
	}, desk, opts.Backend.Viewport)

	return d, nil
}

// Desktop returns the daemon's desktop.
func (d *Daemon) Desktop() *desktop.Desktop {
	return d.desk
}

// Config returns the active configuration.
func (d *Daemon) Config() *config.Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg
}

// Run opens the configured startup windows, starts the IPC server and blocks
// until ctx is canceled or a worker fails. Every window is closed on return.
func (d *Daemon) Run(ctx context.Context) error {
	if _, err := d.Config().OpenWindows(d.desk); err != nil {
		return fmt.Errorf("open startup windows: %w", err)
	}
	defer d.desk.CloseAll()

	d.reconciler.ReconcileNow(ctx)

	if err := d.server.Start(); err != nil {
		return err
	}
	defer d.server.Stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		d.reconciler.Run(ctx)
		return nil
	})
	g.Go(func() error {
		return d.opts.Backend.WatchFullscreen(ctx, d.desk.FullscreenExited)
	})
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-d.reloadChan:
				d.apply(ctx, d.server.GetConfig())
			}
		}
	})

	if d.opts.ConfigPath != "" {
		watcher, err := d.newWatcher()
		if err != nil {
			d.logger.Warn("config hot reload disabled", "error", err)
		} else {
			g.Go(func() error {
				return watcher.Run(ctx, func() { d.reloadFromDisk(ctx, "watch") })
			})
		}
	}

	log.Printf("floatwin daemon running (%d windows)", d.desk.Len())
	return g.Wait()
}

// Reload re-reads the config file, as on SIGHUP. A file that fails to load
// leaves the running config in place.
func (d *Daemon) Reload(ctx context.Context) {
	d.reloadFromDisk(ctx, "signal")
}

func (d *Daemon) newWatcher() (*ConfigWatcher, error) {
	if _, err := os.Stat(filepath.Dir(d.opts.ConfigPath)); err != nil {
		return nil, err
	}
	return NewConfigWatcher(d.opts.ConfigPath, d.opts.ReloadDebounce, d.logger)
}

func (d *Daemon) loadConfig() (*config.Config, error) {
	if d.opts.ConfigPath == "" {
		return config.DefaultConfig(), nil
	}
	res, err := config.LoadFromPath(d.opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

func (d *Daemon) reloadFromDisk(ctx context.Context, source string) {
	cfg, err := d.loadConfig()
	if err != nil {
		log.Printf("Config reload failed: %v", err)
		return
	}
	d.server.UpdateConfig(cfg)
	d.opts.Actions.Log(actionlog.ActionReload, -1, map[string]any{"source": source})
	d.apply(ctx, cfg)
	log.Println("Config reloaded successfully")
}

// apply installs cfg for windows opened from now on. A headless backend also
// takes its viewport from the config.
func (d *Daemon) apply(ctx context.Context, cfg *config.Config) {
	d.mu.Lock()
	d.cfg = cfg
	d.mu.Unlock()

	if h, ok := d.opts.Backend.(*platform.Headless); ok {
		h.SetViewport(cfg.Desktop.Viewport)
		d.reconciler.ReconcileNow(ctx)
	}
	d.logger.Debug("config applied", "windows", d.desk.Len())
}
