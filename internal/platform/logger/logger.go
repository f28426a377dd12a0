package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu    sync.RWMutex
	sugar *zap.SugaredLogger
)

func init() {
	l, err := build(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	if err != nil {
		l = zap.NewNop()
	}
	sugar = l.Sugar()
}

// Configure rebuilds the package logger. level is one of debug, info, warn
// or error (empty means info); format "console" selects the human readable
// encoder, anything else JSON.
func Configure(level, format string) error {
	l, err := build(level, format)
	if err != nil {
		return err
	}
	Replace(l)
	return nil
}

// Replace swaps the underlying zap logger, mostly for tests.
func Replace(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	sugar = l.Sugar()
}

func build(level, format string) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		parsed, err := zapcore.ParseLevel(strings.ToLower(level))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}

	cfg := zap.NewProductionConfig()
	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build(zap.AddCallerSkip(1))
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

func Debug(msg string, v ...interface{}) {
	current().Debugf(msg, v...)
}

func Info(msg string, v ...interface{}) {
	current().Infof(msg, v...)
}

func Warn(msg string, v ...interface{}) {
	current().Warnf(msg, v...)
}

func Error(msg string, err error, v ...interface{}) {
	if err != nil {
		current().With("error", err).Errorf(msg, v...)
	} else {
		current().Errorf(msg, v...)
	}
}

// Sync flushes buffered entries. Call it before the process exits.
func Sync() {
	_ = current().Sync()
}
