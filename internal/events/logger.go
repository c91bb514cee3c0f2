// Package events provides structured event logging for the projector hook,
// adapted from the teacher's internal/events logger: same slog JSON handler
// and global get/set-with-noop-fallback shape, rebound to needleset-scoped
// attributes and projector event names (spec.md §7, §10).
package events

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

// EventLogger emits structured JSON events bound to one needleset_id.
type EventLogger struct {
	logger      *slog.Logger
	needlesetID string
}

// NewEventLogger creates an EventLogger with JSON output to stdout.
func NewEventLogger(needlesetID string) *EventLogger {
	return newWithWriter(needlesetID, os.Stdout)
}

// NewEventLoggerWithWriter creates an EventLogger with JSON output to w.
// Useful for testing or redirecting output.
func NewEventLoggerWithWriter(needlesetID string, w io.Writer) *EventLogger {
	return newWithWriter(needlesetID, w)
}

func newWithWriter(needlesetID string, w io.Writer) *EventLogger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	logger := slog.New(handler).With("needleset_id", needlesetID)
	return &EventLogger{logger: logger, needlesetID: needlesetID}
}

// LogNeedlesCompiled logs successful compilation of a NeedleSet.
// event: "needles_compiled"
// Attributes: needle_count, fields_count
func (el *EventLogger) LogNeedlesCompiled(needleCount, fieldsCount int) {
	el.logger.Info("needles_compiled",
		"needle_count", needleCount,
		"fields_count", fieldsCount,
	)
}

// LogNeedleCompileError logs a configuration validation/compile failure.
// event: "needle_compile_error"
// Attributes: reason
func (el *EventLogger) LogNeedleCompileError(reason string) {
	el.logger.Error("needle_compile_error", "reason", reason)
}

// LogMessageDropped logs a silent filter/action drop decision (spec.md §7
// category 4 — not an error, but a useful rate signal).
// event: "message_dropped"
// Attributes: pointer, action, filter
func (el *EventLogger) LogMessageDropped(pointer, action, filter string) {
	el.logger.Info("message_dropped",
		"pointer", pointer,
		"action", action,
		"filter", filter,
	)
}

// LogMessageError logs a contract or format diagnostic that folded a message
// to a drop (spec.md §7 categories 2 and 3).
// event: "message_error"
// Attributes: reason
func (el *EventLogger) LogMessageError(reason string) {
	el.logger.Warn("message_error", "reason", reason)
}

// LogHookInit logs a successful hook Init call.
// event: "hook_init"
// Attributes: context_id
func (el *EventLogger) LogHookInit(contextID string) {
	el.logger.Info("hook_init", "context_id", contextID)
}

// LogHookFree logs a hook Free call releasing a Context.
// event: "hook_free"
// Attributes: context_id, messages_handled
func (el *EventLogger) LogHookFree(contextID string, messagesHandled int64) {
	el.logger.Info("hook_free",
		"context_id", contextID,
		"messages_handled", messagesHandled,
	)
}

var (
	globalLogger *EventLogger
	globalMu     sync.RWMutex

	noopOnce     sync.Once
	noopInstance *EventLogger
)

// SetGlobalEventLogger sets the global event logger instance.
func SetGlobalEventLogger(l *EventLogger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = l
}

// GetGlobalEventLogger returns the global event logger instance. If no
// logger is set, returns a no-op logger.
func GetGlobalEventLogger() *EventLogger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalLogger != nil {
		return globalLogger
	}
	return NoopEventLogger()
}

// NoopEventLogger returns the shared event logger that discards all events.
func NoopEventLogger() *EventLogger {
	noopOnce.Do(func() {
		handler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelInfo})
		noopInstance = &EventLogger{logger: slog.New(handler)}
	})
	return noopInstance
}
