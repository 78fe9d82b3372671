package logger

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"runtime/debug"
	"sync"
	"time"
)

type Logger interface {
	Info(action, message, requestID string, details map[string]interface{})
	Debug(action, message, requestID string, details map[string]interface{})
	Warn(action, message, requestID string, details map[string]interface{})
	Error(action, message, requestID string, details map[string]interface{}, err error)
}

type jsonLogger struct {
	service  string
	hostname string
	level    Level
	out      io.Writer
	mu       sync.Mutex
}

func New(service string, level Level) Logger {
	return NewWithWriter(service, level, os.Stdout)
}

func NewWithWriter(service string, level Level, out io.Writer) Logger {
	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		hostname = "unknown-host"
	}
	return &jsonLogger{
		service:  service,
		hostname: hostname,
		level:    level,
		out:      out,
	}
}

func (l *jsonLogger) Info(action, message, requestID string, details map[string]interface{}) {
	l.log(LevelInfo, action, message, requestID, details, nil)
}

func (l *jsonLogger) Debug(action, message, requestID string, details map[string]interface{}) {
	l.log(LevelDebug, action, message, requestID, details, nil)
}

func (l *jsonLogger) Warn(action, message, requestID string, details map[string]interface{}) {
	l.log(LevelWarn, action, message, requestID, details, nil)
}

func (l *jsonLogger) Error(action, message, requestID string, details map[string]interface{}, err error) {
	l.log(LevelError, action, message, requestID, details, err)
}

func (l *jsonLogger) log(level Level, action, message, requestID string, details map[string]interface{}, err error) {
	if level < l.level {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level.String(),
		Service:   l.service,
		Hostname:  l.hostname,
		RequestID: requestID,
		Action:    action,
		Message:   message,
		Details:   details,
	}

	if err != nil {
		entry.Error = &ErrorInfo{
			Msg:   err.Error(),
			Stack: string(debug.Stack()),
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	json.NewEncoder(l.out).Encode(entry)
}

type requestIDKey struct{}

// WithRequestID stores the request ID so lower layers can tag their logs.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
