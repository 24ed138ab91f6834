package logbook

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Level represents the severity of a log entry.
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Logbook persists the browsing session to a plain text journal so the
// board can show recent activity and users can inspect it afterwards.
type Logbook struct {
	path   string
	mu     sync.Mutex
	file   *os.File
	logger zerolog.Logger
}

// Option customizes logbook construction.
type Option func(*options)

type options struct {
	level zerolog.Level
	clock func() time.Time
}

// WithLevel drops entries below the named level (debug, info, warn, error).
func WithLevel(level string) Option {
	return func(o *options) {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level))); err == nil && parsed != zerolog.NoLevel {
			o.level = parsed
		}
	}
}

// WithClock overrides entry timestamps; tests use it for stable output.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// New creates a logbook that appends to the provided path.
func New(path string, opts ...Option) (*Logbook, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logbook: ensure dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logbook: open %s: %w", path, err)
	}
	o := options{level: zerolog.InfoLevel, clock: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	writer := zerolog.ConsoleWriter{
		Out:        file,
		NoColor:    true,
		TimeFormat: time.RFC3339,
		FormatLevel: func(i interface{}) string {
			return fmt.Sprintf("%-5s", strings.ToUpper(fmt.Sprint(i)))
		},
	}
	clock := o.clock
	logger := zerolog.New(writer).
		Level(o.level).
		Hook(zerolog.HookFunc(func(e *zerolog.Event, _ zerolog.Level, _ string) {
			e.Time(zerolog.TimestampFieldName, clock())
		}))
	return &Logbook{path: path, file: file, logger: logger}, nil
}

// Path returns the file backing this logbook.
func (l *Logbook) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Close releases the file handle.
func (l *Logbook) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	err := l.file.Close()
	l.file = nil
	return err
}

// Append writes a single entry to the logbook. Fields are rendered as
// key=value pairs after the message.
func (l *Logbook) Append(level Level, message string, fields map[string]any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return
	}
	var event *zerolog.Event
	switch level {
	case LevelDebug:
		event = l.logger.Debug()
	case LevelWarn:
		event = l.logger.Warn()
	case LevelError:
		event = l.logger.Error()
	default:
		event = l.logger.Info()
	}
	if len(fields) > 0 {
		event = event.Fields(fields)
	}
	event.Msg(strings.TrimSpace(message))
}

// Tail returns up to maxLines of the most recent entries plus the total
// number of entries in the journal.
func (l *Logbook) Tail(maxLines int) ([]string, int) {
	if l == nil || maxLines <= 0 {
		return nil, 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	file, err := os.Open(l.path)
	if err != nil {
		return nil, 0
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	total := len(lines)
	if total == 0 {
		return nil, 0
	}
	if total > maxLines {
		lines = lines[total-maxLines:]
	}
	return lines, total
}

// Debug appends a debug entry; dropped unless the level allows it.
func (l *Logbook) Debug(format string, args ...any) {
	l.Append(LevelDebug, fmt.Sprintf(format, args...), nil)
}

// Info appends an informational entry.
func (l *Logbook) Info(format string, args ...any) {
	l.Append(LevelInfo, fmt.Sprintf(format, args...), nil)
}

// Warn appends a warning entry.
func (l *Logbook) Warn(format string, args ...any) {
	l.Append(LevelWarn, fmt.Sprintf(format, args...), nil)
}

// Error appends an error entry.
func (l *Logbook) Error(format string, args ...any) {
	l.Append(LevelError, fmt.Sprintf(format, args...), nil)
}
