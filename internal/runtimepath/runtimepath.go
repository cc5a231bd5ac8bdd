package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// EnvSocket overrides the IPC socket location.
const EnvSocket = "FLOATWIN_SOCKET"

// Dir returns the directory holding the IPC socket: $XDG_RUNTIME_DIR, then
// /run/user/<uid> when it exists, then a private directory under /tmp that is
// created on demand.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir, nil
	}
	uid := os.Getuid()
	if dir := filepath.Join("/run/user", strconv.Itoa(uid)); isDir(dir) {
		return dir, nil
	}
	dir := filepath.Join(os.TempDir(), "floatwin-runtime-"+strconv.Itoa(uid))
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return dir, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// SocketPath returns the daemon IPC socket path.
func SocketPath() (string, error) {
	if p := os.Getenv(EnvSocket); p != "" {
		return p, nil
	}
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, "floatwin.sock"), nil
}

// DataDir returns the persistent data directory ($XDG_DATA_HOME/floatwin or
// ~/.local/share/floatwin). It is not created.
func DataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "floatwin"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "floatwin"), nil
}
