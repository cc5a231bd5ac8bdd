package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/floatwin/internal/geometry"
	"github.com/1broseidon/floatwin/internal/window"
)

// ErrUnsupported is returned when a native backend is not available on this
// build.
var ErrUnsupported = errors.New("platform backend not supported")

// Backend supplies the surface a desktop lives on: its visible size and the
// host-level fullscreen mode.
type Backend interface {
	window.Presenter
	Viewport(ctx context.Context) (geometry.Size, error)
	// WatchFullscreen blocks until ctx ends, calling exited whenever the host
	// leaves fullscreen without being asked to.
	WatchFullscreen(ctx context.Context, exited func()) error
	Close() error
}

// Kind names a backend implementation.
type Kind string

const (
	KindAuto     Kind = "auto"
	KindX11      Kind = "x11"
	KindHeadless Kind = "headless"
)

// Open selects a backend. KindAuto tries the native backend and falls back
// to headless.
func Open(kind Kind, fallback geometry.Size, logger *slog.Logger) (Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch kind {
	case KindHeadless:
		return NewHeadless(fallback), nil
	case KindX11:
		return openNative(logger)
	case KindAuto, "":
		b, err := openNative(logger)
		if err != nil {
			logger.Info("native platform unavailable, running headless", "error", err)
			return NewHeadless(fallback), nil
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown platform %q", kind)
	}
}

// KindOf reports which implementation b is.
func KindOf(b Backend) Kind {
	if _, ok := b.(*Headless); ok {
		return KindHeadless
	}
	return KindX11
}

// Headless is an in-memory backend with a fixed viewport. Fullscreen
// requests succeed immediately.
type Headless struct {
	mu         sync.Mutex
	viewport   geometry.Size
	fullscreen map[int]bool
	exits      chan struct{}
}

var _ Backend = (*Headless)(nil)

func NewHeadless(viewport geometry.Size) *Headless {
	return &Headless{
		viewport:   viewport,
		fullscreen: make(map[int]bool),
		exits:      make(chan struct{}, 1),
	}
}

func (h *Headless) Viewport(ctx context.Context) (geometry.Size, error) {
	if err := ctx.Err(); err != nil {
		return geometry.Size{}, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.viewport, nil
}

// SetViewport changes the size reported by Viewport.
func (h *Headless) SetViewport(size geometry.Size) {
	h.mu.Lock()
	h.viewport = size
	h.mu.Unlock()
}

func (h *Headless) RequestFullscreen(ctx context.Context, windowID int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	h.fullscreen[windowID] = true
	h.mu.Unlock()
	return nil
}

func (h *Headless) ExitFullscreen(ctx context.Context, windowID int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	delete(h.fullscreen, windowID)
	h.mu.Unlock()
	return nil
}

// Fullscreen reports whether windowID currently holds fullscreen.
func (h *Headless) Fullscreen(windowID int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.fullscreen[windowID]
}

// SimulateExit drops fullscreen as if the user pressed the host's exit key.
func (h *Headless) SimulateExit() {
	h.mu.Lock()
	clear(h.fullscreen)
	h.mu.Unlock()
	select {
	case h.exits <- struct{}{}:
	default:
	}
}

func (h *Headless) WatchFullscreen(ctx context.Context, exited func()) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-h.exits:
			exited()
		}
	}
}

func (h *Headless) Close() error { return nil }

// waitFor polls check until it reports true, ctx ends, or timeout passes.
func waitFor(ctx context.Context, interval, timeout time.Duration, check func() (bool, error)) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		ok, err := check()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
