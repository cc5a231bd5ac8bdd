// Package actionlog records commands applied to windows in a rotating
// plain-text log.
package actionlog

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"
	"time"
)

// ActionType names a logged command.
type ActionType string

const (
	ActionQuery    ActionType = "QUERY"
	ActionOpen     ActionType = "OPEN"
	ActionClose    ActionType = "CLOSE"
	ActionToggle   ActionType = "ACTION"
	ActionGeometry ActionType = "GEOMETRY"
	ActionRaise    ActionType = "RAISE"
	ActionLower    ActionType = "LOWER"
	ActionSelect   ActionType = "SELECT"
	ActionReload   ActionType = "RELOAD"
	ActionRejected ActionType = "REJECTED"
	ActionFailed   ActionType = "FAILED"
)

// Level is the severity an action is logged at.
func (a ActionType) Level() slog.Level {
	switch a {
	case ActionQuery:
		return slog.LevelDebug
	case ActionRejected:
		return slog.LevelWarn
	case ActionFailed:
		return slog.LevelError
	}
	return slog.LevelInfo
}

// LogConfig holds configuration for the action logger.
type LogConfig struct {
	Enabled   bool
	Level     slog.Level
	FilePath  string
	MaxSizeMB int
	MaxFiles  int
}

// Logger writes one line per action. A nil *Logger drops everything.
type Logger struct {
	mu    sync.Mutex
	out   *rotatingFile
	level slog.Level
	now   func() time.Time
}

// NewLogger opens the log file. A disabled config yields a logger that
// drops everything without touching the filesystem.
func NewLogger(cfg LogConfig) (*Logger, error) {
	l := &Logger{level: cfg.Level, now: time.Now}
	if !cfg.Enabled {
		return l, nil
	}
	sizeMB, keep := cfg.MaxSizeMB, cfg.MaxFiles
	if sizeMB <= 0 {
		sizeMB = 10
	}
	if keep <= 0 {
		keep = 3
	}
	out, err := openRotating(cfg.FilePath, int64(sizeMB)<<20, keep)
	if err != nil {
		return nil, err
	}
	l.out = out
	return l, nil
}

// Log records an action. windowID < 0 omits the window field.
func (l *Logger) Log(action ActionType, windowID int, details map[string]any) {
	if l == nil || action.Level() < l.level {
		return
	}
	line := formatEntry(l.now(), action, windowID, details)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.out == nil {
		return
	}
	if _, err := l.out.Write([]byte(line)); err != nil {
		fmt.Fprintf(os.Stderr, "action log: %v\n", err)
	}
}

// formatEntry renders `<time> [ACTION] window=N key=value...` with keys in
// lexical order and strings quoted.
func formatEntry(ts time.Time, action ActionType, windowID int, details map[string]any) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s]", ts.Format(time.DateTime), action)
	if windowID >= 0 {
		fmt.Fprintf(&sb, " window=%d", windowID)
	}

	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if s, ok := details[k].(string); ok {
			fmt.Fprintf(&sb, " %s=%q", k, s)
			continue
		}
		fmt.Fprintf(&sb, " %s=%v", k, details[k])
	}
	sb.WriteByte('\n')
	return sb.String()
}

// Close releases the log file.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.out == nil {
		return nil
	}
	return l.out.Close()
}
