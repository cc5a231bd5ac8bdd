//go:build !linux

package platform

import (
	"fmt"
	"log/slog"
	"runtime"
)

func openNative(_ *slog.Logger) (Backend, error) {
	return nil, fmt.Errorf("%w on %s", ErrUnsupported, runtime.GOOS)
}
