package app

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"
	"time"
)

// LogLevel is the severity of a log line.
type LogLevel int

// Log levels, least severe first.
const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l LogLevel) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLogLevel maps a config level name to a LogLevel. Unknown names log
// at info.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LogLevelDebug
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	}
	return LogLevelInfo
}

// Logger writes leveled log lines with optional key/value fields.
// Loggers derived with WithField share the parent's output and level.
type Logger struct {
	core   *logSink
	prefix string
	fields map[string]any
}

// logSink is the state shared by a root logger and its derivatives.
type logSink struct {
	mu      sync.Mutex
	min     LogLevel
	w       io.Writer
	discard bool
}

// LoggerConfig configures NewLogger.
type LoggerConfig struct {
	Level LogLevel

	// Output defaults to os.Stderr.
	Output io.Writer

	// Prefix starts every message, followed by ": ".
	Prefix string
}

// NewLogger returns a root logger.
func NewLogger(cfg LoggerConfig) *Logger {
	w := cfg.Output
	if w == nil {
		w = os.Stderr
	}
	return &Logger{core: &logSink{min: cfg.Level, w: w}, prefix: cfg.Prefix}
}

// NullLogger discards everything.
var NullLogger = &Logger{core: &logSink{w: io.Discard, discard: true}}

// WithField returns a derived logger that appends key=value to each line.
func (l *Logger) WithField(key string, value any) *Logger {
	fields := maps.Clone(l.fields)
	if fields == nil {
		fields = make(map[string]any, 1)
	}
	fields[key] = value
	return &Logger{core: l.core, prefix: l.prefix, fields: fields}
}

// WithComponent is WithField("component", component).
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithField("component", component)
}

// SetLevel changes the minimum level of l and every logger sharing its root.
func (l *Logger) SetLevel(level LogLevel) {
	l.core.mu.Lock()
	l.core.min = level
	l.core.mu.Unlock()
}

// Level returns the minimum level.
func (l *Logger) Level() LogLevel {
	l.core.mu.Lock()
	defer l.core.mu.Unlock()
	return l.core.min
}

func (l *Logger) Debug(format string, args ...any) { l.log(LogLevelDebug, format, args...) }
func (l *Logger) Info(format string, args ...any)  { l.log(LogLevelInfo, format, args...) }
func (l *Logger) Warn(format string, args ...any)  { l.log(LogLevelWarn, format, args...) }
func (l *Logger) Error(format string, args ...any) { l.log(LogLevelError, format, args...) }

// log formats one line as
//
//	2006-01-02T15:04:05.000 [LEVEL] prefix: message {k1=v1, k2=v2}
func (l *Logger) log(level LogLevel, format string, args ...any) {
	s := l.core
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.discard || level < s.min {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] ", time.Now().Format("2006-01-02T15:04:05.000"), level)
	if l.prefix != "" {
		b.WriteString(l.prefix + ": ")
	}
	if len(args) > 0 {
		fmt.Fprintf(&b, format, args...)
	} else {
		b.WriteString(format)
	}

	if len(l.fields) > 0 {
		pairs := make([]string, 0, len(l.fields))
		for _, k := range slices.Sorted(maps.Keys(l.fields)) {
			pairs = append(pairs, fmt.Sprintf("%s=%v", k, l.fields[k]))
		}
		b.WriteString(" {" + strings.Join(pairs, ", ") + "}")
	}
	b.WriteByte('\n')

	_, _ = io.WriteString(s.w, b.String())
}

// Writer returns an io.Writer that logs each written line at level.
func (l *Logger) Writer(level LogLevel) io.Writer {
	return lineWriter{l: l, level: level}
}

type lineWriter struct {
	l     *Logger
	level LogLevel
}

func (w lineWriter) Write(p []byte) (int, error) {
	for line := range strings.SplitSeq(strings.TrimRight(string(p), "\n"), "\n") {
		w.l.log(w.level, "%s", line)
	}
	return len(p), nil
}
