package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the log level
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

var levelNames = map[LogLevel]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
}

// ParseLevel maps a config value to a LogLevel, defaulting to INFO.
func ParseLevel(value string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return DEBUG
	case "warn":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}

func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// Logger writes leveled messages to a log file and mirrors warnings to the
// console unless the console is muted (the TUI owns the screen).
type Logger struct {
	mu            sync.Mutex
	level         LogLevel
	fileLogger    *log.Logger
	consoleLogger *log.Logger
	consoleMuted  bool
	file          *os.File
	logDir        string
}

var defaultLogger *Logger

// Init initializes the default logger
func Init(logDir string, level LogLevel) error {
	logger, err := NewLogger(logDir, level)
	if err != nil {
		return err
	}
	defaultLogger = logger
	return nil
}

// NewLogger creates a new logger instance
func NewLogger(logDir string, level LogLevel) (*Logger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logFile := filepath.Join(logDir, fmt.Sprintf("restaurant-finder_%s.log", timestamp))

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	latestLog := filepath.Join(logDir, "latest.log")
	os.Remove(latestLog)
	os.Symlink(filepath.Base(logFile), latestLog)

	l := NewWriterLogger(file, os.Stderr, level)
	l.file = file
	l.logDir = logDir
	return l, nil
}

// NewWriterLogger creates a logger writing to arbitrary writers. console may
// be nil.
func NewWriterLogger(out, console io.Writer, level LogLevel) *Logger {
	l := &Logger{
		level:      level,
		fileLogger: log.New(out, "", 0),
	}
	if console != nil {
		l.consoleLogger = log.New(console, "", 0)
	}
	return l
}

// MuteConsole stops warnings from being echoed to the console.
func (l *Logger) MuteConsole(muted bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.consoleMuted = muted
}

// SetLevel changes the minimum level, e.g. after a config reload.
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level {
		return
	}

	message := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	logMessage := fmt.Sprintf("[%s] %s: %s", timestamp, levelNames[level], message)

	l.fileLogger.Println(logMessage)
	if level >= WARN && l.consoleLogger != nil && !l.consoleMuted {
		l.consoleLogger.Println(logMessage)
	}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(DEBUG, format, args...)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(INFO, format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(WARN, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(ERROR, format, args...)
}

// Close closes the log file
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// GetLogDir returns the log directory
func (l *Logger) GetLogDir() string {
	return l.logDir
}

// Package-level functions for default logger

// SetDefault replaces the default logger, mostly for tests.
func SetDefault(l *Logger) {
	defaultLogger = l
}

// Default returns the default logger, nil before Init.
func Default() *Logger {
	return defaultLogger
}

// Debug logs a debug message using the default logger
func Debug(format string, args ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.Debug(format, args...)
	}
}

// Info logs an info message using the default logger
func Info(format string, args ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.Info(format, args...)
	}
}

// Warn logs a warning message using the default logger
func Warn(format string, args ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.Warn(format, args...)
	}
}

// Error logs an error message using the default logger
func Error(format string, args ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.Error(format, args...)
	}
}

// Close closes the default logger
func Close() error {
	if defaultLogger != nil {
		return defaultLogger.Close()
	}
	return nil
}
