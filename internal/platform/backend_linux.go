//go:build linux

package platform

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/floatwin/internal/geometry"
	"github.com/1broseidon/floatwin/internal/x11"
)

const (
	statePollInterval = 25 * time.Millisecond
	stateTimeout      = 2 * time.Second
	watchInterval     = 250 * time.Millisecond
)

// LinuxBackend maps fullscreen onto _NET_WM_STATE_FULLSCREEN of the host
// window and reads the viewport from the host's monitor work area.
type LinuxBackend struct {
	conn   *x11.Connection
	host   xproto.Window
	logger *slog.Logger

	mu     sync.Mutex
	owner  int // window id holding fullscreen, 0 when none
	asking bool
}

var _ Backend = (*LinuxBackend)(nil)

func openNative(logger *slog.Logger) (Backend, error) {
	return NewLinuxBackendFromDisplay("", logger)
}

// NewLinuxBackendFromDisplay opens a fresh X11 connection and resolves the
// host window.
func NewLinuxBackendFromDisplay(display string, logger *slog.Logger) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, err
	}
	host, err := conn.HostWindow()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("resolve host window: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LinuxBackend{conn: conn, host: host, logger: logger}, nil
}

func (b *LinuxBackend) Close() error {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
	return nil
}

func (b *LinuxBackend) Viewport(ctx context.Context) (geometry.Size, error) {
	if err := ctx.Err(); err != nil {
		return geometry.Size{}, err
	}
	mon, err := b.conn.HostMonitor(b.host)
	if err != nil {
		return geometry.Size{}, err
	}
	return geometry.Size{Width: mon.Width, Height: mon.Height}, nil
}

func (b *LinuxBackend) RequestFullscreen(ctx context.Context, windowID int) error {
	if err := b.setFullscreen(ctx, true); err != nil {
		return err
	}
	b.mu.Lock()
	b.owner = windowID
	b.mu.Unlock()
	b.logger.Debug("host entered fullscreen", "window", windowID)
	return nil
}

func (b *LinuxBackend) ExitFullscreen(ctx context.Context, windowID int) error {
	b.mu.Lock()
	if b.owner != windowID {
		b.mu.Unlock()
		return nil
	}
	b.owner = 0
	b.mu.Unlock()
	return b.setFullscreen(ctx, false)
}

func (b *LinuxBackend) setFullscreen(ctx context.Context, on bool) error {
	b.mu.Lock()
	b.asking = true
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		b.asking = false
		b.mu.Unlock()
	}()

	if err := b.conn.SetState(b.host, x11.StateFullscreen, on); err != nil {
		return fmt.Errorf("set fullscreen state: %w", err)
	}
	return waitFor(ctx, statePollInterval, stateTimeout, func() (bool, error) {
		has, err := b.conn.HasState(b.host, x11.StateFullscreen)
		if err != nil {
			return false, err
		}
		return has == on, nil
	})
}

// WatchFullscreen polls the host state. When the window manager drops
// fullscreen (for example on Escape or F11) while a window holds it, exited
// is called.
func (b *LinuxBackend) WatchFullscreen(ctx context.Context, exited func()) error {
	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		b.mu.Lock()
		owner, asking := b.owner, b.asking
		b.mu.Unlock()
		if owner == 0 || asking {
			continue
		}
		has, err := b.conn.HasState(b.host, x11.StateFullscreen)
		if err != nil {
			b.logger.Debug("fullscreen watch failed", "error", err)
			continue
		}
		if has {
			continue
		}
		b.mu.Lock()
		b.owner = 0
		b.mu.Unlock()
		b.logger.Info("host left fullscreen", "window", owner)
		exited()
	}
}
