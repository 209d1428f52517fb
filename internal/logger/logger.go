package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/liftlog/internal/constants"
)

var (
	// Logger is the global logger instance
	Logger *log.Logger

	// file is the rotating writer behind Logger, closed by Close
	file *lumberjack.Logger
)

// Config holds logger configuration
type Config struct {
	Debug     bool
	ConfigDir string
	// Level is a charmbracelet/log level name; empty means warn. Debug overrides it.
	Level string
	// Component tags a process that runs alongside the CLI, e.g. the countdown worker
	Component string
}

// FileName returns the log file used by component. Each process kind rotates
// its own file; lumberjack does not coordinate rotation across processes.
func FileName(component string) string {
	if component == "" {
		return constants.AppName + ".log"
	}
	return constants.AppName + "-" + component + ".log"
}

// Init initializes the global logger with the given configuration
func Init(cfg Config) error {
	level, err := parseLevel(cfg)
	if err != nil {
		return err
	}

	logDir := filepath.Join(cfg.ConfigDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	if file != nil {
		_ = file.Close()
	}
	file = &lumberjack.Logger{
		Filename:   filepath.Join(logDir, FileName(cfg.Component)),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	// debug output also goes to stderr; the detached worker has none worth writing to
	var writer io.Writer = file
	if cfg.Debug && cfg.Component == "" {
		writer = io.MultiWriter(os.Stderr, file)
	}

	prefix := constants.AppName
	if cfg.Component != "" {
		prefix += "/" + cfg.Component
	}

	Logger = log.NewWithOptions(writer, log.Options{
		ReportCaller:    level == log.DebugLevel,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          prefix,
	})

	return nil
}

func parseLevel(cfg Config) (log.Level, error) {
	if cfg.Debug {
		return log.DebugLevel, nil
	}
	if cfg.Level == "" {
		return log.WarnLevel, nil
	}
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return log.WarnLevel, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	return level, nil
}

// Close flushes and closes the log file. Logging after Close is a no-op.
func Close() error {
	Logger = nil
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	return err
}

// Debug logs a debug message
func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

// Info logs an info message
func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

// Warn logs a warning message
func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

// Error logs an error message
func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}
