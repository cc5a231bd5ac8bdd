package actionlog

import (
	"fmt"
	"os"
	"path/filepath"
)

// rotatingFile is an append-only file that moves itself aside to path.1 once
// it reaches limit bytes. Older generations shift up to path.<keep>.
type rotatingFile struct {
	path  string
	limit int64
	keep  int
	f     *os.File
	size  int64
}

func openRotating(path string, limit int64, keep int) (*rotatingFile, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}
	r := &rotatingFile{path: path, limit: limit, keep: keep}
	if err := r.open(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *rotatingFile) open() error {
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", r.path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to stat log file %s: %w", r.path, err)
	}
	r.f, r.size = f, info.Size()
	return nil
}

// Write rotates first when the current file is full, so one entry never
// straddles two files.
func (r *rotatingFile) Write(p []byte) (int, error) {
	if r.f != nil && r.size >= r.limit {
		if err := r.rotate(); err != nil {
			return 0, err
		}
	}
	if r.f == nil {
		return 0, os.ErrClosed
	}
	n, err := r.f.Write(p)
	r.size += int64(n)
	return n, err
}

func (r *rotatingFile) rotate() error {
	r.f.Close()
	r.f = nil

	generation := func(i int) string { return fmt.Sprintf("%s.%d", r.path, i) }
	os.Remove(generation(r.keep))
	for i := r.keep - 1; i >= 1; i-- {
		os.Rename(generation(i), generation(i+1))
	}
	if err := os.Rename(r.path, generation(1)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to rotate log file: %w", err)
	}
	return r.open()
}

func (r *rotatingFile) Close() error {
	if r.f == nil {
		return nil
	}
	err := r.f.Close()
	r.f = nil
	return err
}
