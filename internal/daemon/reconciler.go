package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/floatwin/internal/desktop"
	"github.com/1broseidon/floatwin/internal/geometry"
)

// ViewportSource reports the current size of the surface windows live on.
type ViewportSource func(ctx context.Context) (geometry.Size, error)

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	// Interval between passes; zero or negative disables polling.
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler periodically compares the platform viewport with the desktop's
// and refits maximized and fullscreen windows when it drifts.
type Reconciler struct {
	interval time.Duration
	desk     *desktop.Desktop
	source   ViewportSource
	logger   *slog.Logger
}

// NewReconciler creates a new reconciler with the given configuration.
func NewReconciler(cfg ReconcilerConfig, desk *desktop.Desktop, source ViewportSource) *Reconciler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		interval: cfg.Interval,
		desk:     desk,
		source:   source,
		logger:   logger,
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	if r.interval <= 0 {
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			r.reconcile(ctx)
		}
	}
}

// ReconcileNow triggers an immediate reconciliation pass.
func (r *Reconciler) ReconcileNow(ctx context.Context) {
	r.reconcile(ctx)
}

func (r *Reconciler) reconcile(ctx context.Context) {
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
		}
	}()

	size, err := r.source(ctx)
	if err != nil {
		r.logger.Warn("reconciler: failed to read viewport", "error", err)
		return
	}
	if size.Width <= 0 || size.Height <= 0 {
		r.logger.Debug("reconciler: ignoring empty viewport", "width", size.Width, "height", size.Height)
		return
	}
	if size == r.desk.Viewport() {
		return
	}
	r.logger.Info("viewport changed", "width", size.Width, "height", size.Height)
	r.desk.SetViewport(size)
}
