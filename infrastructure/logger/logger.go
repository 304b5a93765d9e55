package logger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
)

type contextKey struct{}

var logger = log.New()

func init() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Info("Failed get current working directory")
		log.Fatal(err)
	}
	layout := "2006-01-02"
	env := os.Getenv("ENV")
	formatTime := time.Now().Format(layout)
	// LOG_TO_FILE=true forces file logging; stdout otherwise.
	logger.Out = os.Stdout
	if os.Getenv("LOG_TO_FILE") == "true" {
		logsDir := filepath.Join(cwd, "logs")
		if mkErr := os.MkdirAll(logsDir, 0o755); mkErr != nil {
			log.Warnf("Failed to create logs directory %s: %v, falling back to stdout", logsDir, mkErr)
		} else {
			filePath := filepath.Join(logsDir, fmt.Sprintf("%s%s.log", formatTime, env))
			f, openErr := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
			if openErr != nil {
				log.Warnf("Failed to open log file %s: %v, falling back to stdout", filePath, openErr)
			} else {
				logger.Out = f
			}
		}
	}

	logger.Formatter = &log.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
	}
	level := log.DebugLevel
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if parsed, parseErr := log.ParseLevel(v); parseErr == nil {
			level = parsed
		}
	}
	logger.SetLevel(level)
}

// GetLogger returns an entry annotated with the calling function and location.
func GetLogger() *log.Entry {
	return withCaller(logger.WithFields(log.Fields{}), 2)
}

// FromContext is GetLogger plus the request id stored by WithRequestID, if any.
func FromContext(ctx context.Context) *log.Entry {
	entry := logger.WithContext(ctx)
	if id := RequestID(ctx); id != "" {
		entry = entry.WithField("requestId", id)
	}
	return withCaller(entry, 2)
}

// WithRequestID stores a request id for later log entries.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKey{}, requestID)
}

// RequestID returns the request id stored in ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}

func withCaller(entry *log.Entry, skip int) *log.Entry {
	function, file, line, _ := runtime.Caller(skip)
	functionObject := runtime.FuncForPC(function)
	name := ""
	if functionObject != nil {
		name = functionObject.Name()
	}
	return entry.WithFields(log.Fields{
		"function": name,
		"file":     file,
		"line":     line,
	})
}
