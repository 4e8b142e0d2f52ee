package util

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

var (
	globalLogger LoggerInterface
	loggerMu     sync.RWMutex
)

// InitLogger initializes the global logger instance
func InitLogger(logLevel, logFile string, debugToConsole bool) error {
	logger, err := NewLogger(logLevel, logFile, debugToConsole, FormatText)
	if err != nil {
		return err
	}
	SetLogger(logger)
	return nil
}

// SetLogger replaces the global logger
func SetLogger(logger LoggerInterface) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	globalLogger = logger
}

// GetLogger returns the global logger, or nil before initialization
func GetLogger() LoggerInterface {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return globalLogger
}

// WithTrace returns a child context carrying a fresh trace id
func WithTrace(ctx context.Context) (context.Context, string) {
	traceID := uuid.NewString()
	return context.WithValue(ctx, TraceIDKey, traceID), traceID
}

// LogCtx returns a logger bound to the trace id in ctx; before initialization it discards everything
func LogCtx(ctx context.Context) LoggerInterface {
	logger := GetLogger()
	if logger == nil {
		return &Logger{level: LevelError, fields: make(map[string]interface{})}
	}
	return logger.WithContext(ctx)
}

func LogInfo(msg string, fields ...Field) {
	if logger := GetLogger(); logger != nil {
		logger.Info(msg, fields...)
	}
}

func LogInfof(format string, args ...interface{}) {
	if logger := GetLogger(); logger != nil {
		logger.Infof(format, args...)
	}
}

func LogDebug(msg string, fields ...Field) {
	if logger := GetLogger(); logger != nil {
		logger.Debug(msg, fields...)
	}
}

func LogDebugf(format string, args ...interface{}) {
	if logger := GetLogger(); logger != nil {
		logger.Debugf(format, args...)
	}
}

func LogWarn(msg string, fields ...Field) {
	if logger := GetLogger(); logger != nil {
		logger.Warn(msg, fields...)
	}
}

func LogWarnf(format string, args ...interface{}) {
	if logger := GetLogger(); logger != nil {
		logger.Warnf(format, args...)
	}
}

func LogError(msg string, fields ...Field) {
	if logger := GetLogger(); logger != nil {
		logger.Error(msg, fields...)
	}
}

func LogErrorf(format string, args ...interface{}) {
	if logger := GetLogger(); logger != nil {
		logger.Errorf(format, args...)
	}
}
