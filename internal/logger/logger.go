package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

// Level represents log severity
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

// String returns the string representation of the log level
func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "INFO"
	}
}

// ParseLevel converts a string to a Level, defaulting to INFO
func ParseLevel(s string) Level {
	switch s {
	case "DEBUG":
		return DEBUG
	case "WARN":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// Field is a key-value pair for structured logging
type Field struct {
	Key   string
	Value interface{}
}

// F is a shorthand for creating a Field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Config holds logger configuration
type Config struct {
	Level    Level  // Minimum log level
	FilePath string // Path to log file; empty disables file output
	MaxSize  int64  // Max size in bytes before rotation
	Console  bool   // Enable console logging (off by default, TUI-safe)
}

// DefaultConfig returns default logger configuration
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	logPath := ""
	if home != "" {
		logPath = filepath.Join(home, ".blobtask", "logs", "blobtask.log")
	}

	return Config{
		Level:    INFO,
		FilePath: logPath,
		MaxSize:  10 * 1024 * 1024,
	}
}

// Logger writes leveled, fielded log lines to a file and optionally stderr
type Logger struct {
	config  Config
	file    *os.File
	mu      sync.Mutex
	fields  []Field
	writers []io.Writer
}

var (
	globalLogger *Logger
	once         sync.Once
)

// Init initializes the global logger
func Init(config Config) error {
	var err error
	once.Do(func() {
		globalLogger, err = New(config)
	})
	return err
}

// New creates a new logger instance
func New(config Config) (*Logger, error) {
	l := &Logger{config: config}

	if config.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(config.FilePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		file, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		l.file = file
		l.writers = append(l.writers, file)
	}

	if config.Console {
		l.writers = append(l.writers, os.Stderr)
	}

	return l, nil
}

// rotateIfNeeded rolls the log file to .1 once it exceeds MaxSize
func (l *Logger) rotateIfNeeded() {
	if l.file == nil || l.config.MaxSize <= 0 {
		return
	}

	info, err := l.file.Stat()
	if err != nil || info.Size() < l.config.MaxSize {
		return
	}

	l.file.Close()
	os.Rename(l.config.FilePath, l.config.FilePath+".1")

	file, err := os.OpenFile(l.config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		l.file = nil
		l.writers = nil
		if l.config.Console {
			l.writers = []io.Writer{os.Stderr}
		}
		return
	}

	l.file = file
	l.writers = []io.Writer{file}
	if l.config.Console {
		l.writers = append(l.writers, os.Stderr)
	}
}

func (l *Logger) log(level Level, msg string, fields []Field) {
	if level < l.config.Level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.rotateIfNeeded()

	_, file, line, ok := runtime.Caller(2)
	caller := "???"
	if ok {
		caller = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	entry := fmt.Sprintf("[%s] %s %s: %s", timestamp, level.String(), caller, msg)

	allFields := append(l.fields, fields...)
	if len(allFields) > 0 {
		entry += " |"
		for _, f := range allFields {
			entry += fmt.Sprintf(" %s=%v", f.Key, f.Value)
		}
	}
	entry += "\n"

	for _, w := range l.writers {
		w.Write([]byte(entry))
	}
}

// WithFields creates a new logger with preset fields
func (l *Logger) WithFields(fields ...Field) *Logger {
	return &Logger{
		config:  l.config,
		file:    l.file,
		fields:  append(l.fields, fields...),
		writers: l.writers,
	}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields ...Field) {
	l.log(DEBUG, msg, fields)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields ...Field) {
	l.log(INFO, msg, fields)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields ...Field) {
	l.log(WARN, msg, fields)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields ...Field) {
	l.log(ERROR, msg, fields)
}

// Close closes the logger's file output
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Global logger functions

// Debug logs a debug message using the global logger
func Debug(msg string, fields ...Field) {
	if globalLogger != nil {
		globalLogger.Debug(msg, fields...)
	}
}

// Info logs an info message using the global logger
func Info(msg string, fields ...Field) {
	if globalLogger != nil {
		globalLogger.Info(msg, fields...)
	}
}

// Warn logs a warning message using the global logger
func Warn(msg string, fields ...Field) {
	if globalLogger != nil {
		globalLogger.Warn(msg, fields...)
	}
}

// Error logs an error message using the global logger
func Error(msg string, fields ...Field) {
	if globalLogger != nil {
		globalLogger.Error(msg, fields...)
	}
}

// Close closes the global logger
func Close() error {
	if globalLogger != nil {
		return globalLogger.Close()
	}
	return nil
}
