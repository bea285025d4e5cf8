// Package logger writes structured JSON log lines and keeps in-process
// metrics for hackfind.
//
// Every line is one JSON object:
//
//	{"timestamp":"2025-03-01T12:00:00Z","level":"WARN","component":"api",
//	 "message":"Sources endpoint unavailable","fields":{"status":503}}
//
// Loggers derived with With carry a component name and base fields into
// every line they write. The package-level functions use a default logger
// that writes WARN and above to stderr, so stdout stays clean for
// machine-readable command output.
//
//	log := logger.With("api", logger.Fields{"base_url": baseURL})
//	log.Debug("Fetched page", logger.Fields{"page": 2, "events": 200})
//
//	logger.IncrCounter("api.pages_fetched")
//	defer logger.StartTimer("api.fetch_all")()
package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level is a log severity. Higher levels are more severe.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// ParseLevel converts a level name such as "debug" or "WARN" to a Level.
func ParseLevel(name string) (Level, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if upper == "WARNING" {
		return LevelWarn, nil
	}
	for level, n := range levelNames {
		if n == upper {
			return level, nil
		}
	}
	return LevelWarn, fmt.Errorf("unknown log level %q", name)
}

// Fields are structured key/value pairs attached to a log line.
type Fields map[string]interface{}

// LogEntry is the JSON shape of one log line.
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Component string `json:"component,omitempty"`
	Message   string `json:"message"`
	Fields    Fields `json:"fields,omitempty"`
	Error     string `json:"error,omitempty"`
}

// sink is shared by a logger and everything derived from it so that lines
// from different components never interleave.
type sink struct {
	mu  sync.Mutex
	out io.Writer
}

// Logger writes LogEntry lines at or above its minimum level.
type Logger struct {
	sink      *sink
	min       Level
	component string
	base      Fields
	now       func() time.Time
}

var (
	defaultMu     sync.RWMutex
	defaultLogger = New(LevelWarn, os.Stderr)
)

// New creates a logger writing to output. Lines below level are dropped.
func New(level Level, output io.Writer) *Logger {
	return &Logger{
		sink: &sink{out: output},
		min:  level,
		now:  time.Now,
	}
}

// SetDefault replaces the logger used by the package-level functions.
func SetDefault(l *Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// Default returns the package-level logger.
func Default() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// With returns a logger that tags every line with component and merges
// base into the fields of every line. Per-call fields win on conflict.
func (l *Logger) With(component string, base Fields) *Logger {
	merged := make(Fields, len(l.base)+len(base))
	for k, v := range l.base {
		merged[k] = v
	}
	for k, v := range base {
		merged[k] = v
	}

	child := *l
	child.base = merged
	if component != "" {
		child.component = component
	}
	return &child
}

// Enabled reports whether a line at level would be written.
func (l *Logger) Enabled(level Level) bool {
	return level >= l.min
}

func (l *Logger) log(level Level, message string, fields Fields, err error) {
	if !l.Enabled(level) {
		return
	}

	entry := LogEntry{
		Timestamp: l.now().UTC().Format(time.RFC3339),
		Level:     level.String(),
		Component: l.component,
		Message:   message,
		Fields:    l.merge(fields),
	}
	if err != nil {
		entry.Error = err.Error()
	}

	var buf bytes.Buffer
	if encErr := json.NewEncoder(&buf).Encode(entry); encErr != nil {
		// Unencodable field values still produce a readable line.
		buf.Reset()
		fmt.Fprintf(&buf, "[%s] %s: %s (encode error: %v)\n",
			entry.Timestamp, entry.Level, entry.Message, encErr)
	}

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.out.Write(buf.Bytes()) // nolint:errcheck
}

func (l *Logger) merge(fields Fields) Fields {
	if len(l.base) == 0 {
		return fields
	}
	merged := make(Fields, len(l.base)+len(fields))
	for k, v := range l.base {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return merged
}

func (l *Logger) Debug(message string, fields Fields) {
	l.log(LevelDebug, message, fields, nil)
}

func (l *Logger) Info(message string, fields Fields) {
	l.log(LevelInfo, message, fields, nil)
}

// Warn is for degraded but recoverable conditions, such as a corrupt
// bookmark file or an unavailable sources endpoint.
func (l *Logger) Warn(message string, fields Fields) {
	l.log(LevelWarn, message, fields, nil)
}

func (l *Logger) Error(message string, fields Fields, err error) {
	l.log(LevelError, message, fields, err)
}

// With derives a component logger from the default logger.
func With(component string, base Fields) *Logger {
	return Default().With(component, base)
}

func Debug(message string, fields Fields) {
	Default().Debug(message, fields)
}

func Info(message string, fields Fields) {
	Default().Info(message, fields)
}

func Warn(message string, fields Fields) {
	Default().Warn(message, fields)
}

func Error(message string, fields Fields, err error) {
	Default().Error(message, fields, err)
}
