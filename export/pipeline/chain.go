package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/semtrace/semtrace/core/span"
)

// Options configures a processing chain.
type Options struct {
	// Exporter receives the flushed batches. Required.
	Exporter sdktrace.SpanExporter

	// Filter enables kind-based filtering: only spans carrying the
	// semantic-kind marker attribute reach the buffer. Disabled, every span
	// passes.
	Filter bool

	// InjectAttributes are stamped on every span at creation time, in
	// addition to the session identifier.
	InjectAttributes []attribute.KeyValue

	// BatchSize is the buffer capacity (default 128).
	BatchSize int

	// FlushInterval is the background flush period for partial batches
	// (default 5s; zero disables, negative keeps the default).
	FlushInterval time.Duration

	// Logger receives internal telemetry-error reports (default
	// slog.Default).
	Logger *slog.Logger
}

// Chain is the composed span processor: injector → filter → export buffer.
// One Chain serves one provider; create it via [New] or [Attach].
type Chain struct {
	inject []attribute.KeyValue
	filter bool
	buf    *buffer
	logger *slog.Logger
}

var _ sdktrace.SpanProcessor = (*Chain)(nil)

// newChain builds the chain stages from o.
func newChain(o Options) *Chain {
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}

	batchSize := o.BatchSize
	if batchSize <= 0 {
		batchSize = 128
	}
	interval := o.FlushInterval
	if interval < 0 {
		interval = 5 * time.Second
	}

	// The session identifier correlates every span of one process run.
	inject := append([]attribute.KeyValue{
		attribute.String(span.AttrSessionID, uuid.NewString()),
	}, o.InjectAttributes...)

	return &Chain{
		inject: inject,
		filter: o.Filter,
		buf:    newBuffer(o.Exporter, batchSize, interval, logger),
		logger: logger,
	}
}

// OnStart is the injector stage: it observes every span at creation time,
// before any filtering decision exists, and stamps the configured
// attributes.
func (c *Chain) OnStart(_ context.Context, s sdktrace.ReadWriteSpan) {
	s.SetAttributes(c.inject...)
}

// OnEnd is the filter stage: a completed span reaches the buffer only if
// filtering is disabled or the span carries the semantic-kind marker.
func (c *Chain) OnEnd(s sdktrace.ReadOnlySpan) {
	if c.filter && !hasKindMarker(s) {
		return
	}
	c.buf.append(s)
}

// ForceFlush exports the pending batch immediately.
func (c *Chain) ForceFlush(ctx context.Context) error {
	c.buf.flush(ctx)
	return nil
}

// Shutdown flushes the remaining batch and shuts the exporter down. The
// provider invokes it when the provider's owner shuts down; the chain never
// installs a shutdown hook of its own.
func (c *Chain) Shutdown(ctx context.Context) error {
	return c.buf.shutdown(ctx)
}

// hasKindMarker reports whether s carries the semantic-kind marker
// attribute.
func hasKindMarker(s sdktrace.ReadOnlySpan) bool {
	for _, kv := range s.Attributes() {
		if string(kv.Key) == span.AttrKind {
			return true
		}
	}
	return false
}
