// Package projector wires the needle compiler, evaluator, logging, and
// OpenTelemetry instrumentation into the hook contract spec.md §6 describes:
// Validate/Init/Handle/Free over an opaque *Context. This is the library
// surface a host message pipeline embeds; cmd/ingestd is the only caller
// allowed to turn a fatal error into a process exit.
package projector

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/bc-dunia/projector/internal/config"
	"github.com/bc-dunia/projector/internal/evaluator"
	"github.com/bc-dunia/projector/internal/events"
	"github.com/bc-dunia/projector/internal/hookmsg"
	"github.com/bc-dunia/projector/internal/needle"
	"github.com/bc-dunia/projector/internal/otelproj"
)

// Decision is the hook's keep/drop verdict for one message, per spec.md §6.
type Decision int

const (
	// Keep means the message's payload was replaced with a binary row.
	Keep Decision = iota
	// Drop means the message should not reach the downstream store.
	Drop
)

func (d Decision) String() string {
	if d == Keep {
		return "keep"
	}
	return "drop"
}

// Hook is the contract a host message pipeline invokes around the
// projector, per spec.md §6.
type Hook interface {
	Validate(cfg any) error
	Init(cfg any) (*Context, error)
	Handle(ctx *Context, msg hookmsg.Message) (Decision, error)
	Free(ctx *Context)
}

// Context is the opaque handle Init returns: one compiled, immutable
// NeedleSet plus the collaborators bound to it (logger, metrics, tracer).
// Concurrent Handle calls over the same Context share it read-only.
type Context struct {
	ID  string
	Set *needle.NeedleSet

	ev      *evaluator.Evaluator
	logger  *events.EventLogger
	metrics *otelproj.Metrics
	tracer  *otelproj.Tracer

	messagesHandled atomic.Int64
}

// Option configures a Projector at construction time.
type Option func(*options)

type options struct {
	logWriter io.Writer
	metrics   *otelproj.Metrics
	tracer    *otelproj.Tracer
}

// WithLogWriter redirects a Context's event log to w instead of stdout.
// Used by tests and by hosts that capture logs themselves.
func WithLogWriter(w io.Writer) Option {
	return func(o *options) { o.logWriter = w }
}

// WithMetrics binds a pre-built otelproj.Metrics instance instead of the
// global/no-op default.
func WithMetrics(m *otelproj.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithTracer binds a pre-built otelproj.Tracer instance instead of the
// global/no-op default.
func WithTracer(t *otelproj.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// Projector implements Hook.
type Projector struct {
	opts options
}

var _ Hook = (*Projector)(nil)

// New builds a Projector. Every Init call against it produces an
// independent Context; the Projector itself holds no per-message state.
func New(opts ...Option) *Projector {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.metrics == nil {
		o.metrics = otelproj.GetGlobalMetrics()
	}
	if o.tracer == nil {
		o.tracer = otelproj.GetGlobalTracer()
	}
	return &Projector{opts: o}
}

// Validate checks cfg (the "jpointers" configuration value) without
// retaining anything, per spec.md §6/§7's "configuration error is fatal to
// startup" category.
func (p *Projector) Validate(cfg any) error {
	_, err := compile(cfg)
	return err
}

// Init compiles cfg into a NeedleSet and returns a ready-to-use Context.
func (p *Projector) Init(cfg any) (*Context, error) {
	set, err := compile(cfg)
	if err != nil {
		return nil, fmt.Errorf("projector: init: %w", err)
	}

	id := uuid.New().String()

	var logger *events.EventLogger
	if p.opts.logWriter != nil {
		logger = events.NewEventLoggerWithWriter(id, p.opts.logWriter)
	} else {
		logger = events.NewEventLogger(id)
	}
	logger.LogNeedlesCompiled(len(set.Needles), set.FieldsCount)
	logger.LogHookInit(id)

	return &Context{
		ID:      id,
		Set:     set,
		ev:      evaluator.New(set),
		logger:  logger,
		metrics: p.opts.metrics,
		tracer:  p.opts.tracer,
	}, nil
}

func compile(cfg any) (*needle.NeedleSet, error) {
	raw, ok := cfg.([]any)
	if !ok {
		return nil, fmt.Errorf("projector: configuration must be a list of jpointer entries, got %T", cfg)
	}
	tuples, err := config.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid jpointer configuration: %w", err)
	}
	set, err := needle.Compile(tuples)
	if err != nil {
		return nil, fmt.Errorf("needle compile: %w", err)
	}
	return set, nil
}

// Handle evaluates one message against ctx's NeedleSet, wrapping the call in
// an OpenTelemetry span and recording outcome metrics/events, per spec.md
// §5's ambient addition.
func (p *Projector) Handle(ctx *Context, msg hookmsg.Message) (Decision, error) {
	spanCtx, span := ctx.tracer.StartHandleSpan(context.Background(), ctx.ID)
	defer span.End()

	start := time.Now()
	outcome, err := ctx.ev.Evaluate(msg)
	elapsedMs := float64(time.Since(start)) / float64(time.Millisecond)

	ctx.metrics.RecordEvalDuration(spanCtx, elapsedMs)
	ctx.messagesHandled.Add(1)

	decision := Drop
	if outcome == evaluator.Keep {
		decision = Keep
	}

	switch {
	case err != nil:
		category := "contract"
		if _, ok := err.(*evaluator.FormatError); ok {
			category = "format"
		}
		ctx.metrics.RecordErrored(spanCtx, category)
		ctx.logger.LogMessageError(err.Error())
		otelproj.RecordError(span, err, category)
	case decision == Keep:
		ctx.metrics.RecordKept(spanCtx)
	default:
		// The evaluator does not report which needle decided the drop, so
		// every silent drop is tagged "filter" and logged with empty
		// pointer/action/filter attributes.
		ctx.metrics.RecordDropped(spanCtx, "filter")
		ctx.logger.LogMessageDropped("", "", "")
	}

	return decision, err
}

// Free releases a Context. The projector holds no OS resources per
// Context, so this only emits a closing log event.
func (p *Projector) Free(ctx *Context) {
	if ctx == nil {
		return
	}
	ctx.logger.LogHookFree(ctx.ID, ctx.messagesHandled.Load())
}
