package semtrace

import (
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option adjusts [Init] and [Attach].
type Option func(*options)

type options struct {
	logger      *slog.Logger
	exporter    sdktrace.SpanExporter
	injectAttrs []attribute.KeyValue
}

// WithLogger routes semtrace's internal telemetry-error reports to logger
// instead of [slog.Default]. Instrumentation failures are only ever visible
// through this logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithExporter supplies the span exporter directly, bypassing the
// configuration's backend selection. Required for [Attach]; useful in tests
// with an in-memory exporter.
func WithExporter(exporter sdktrace.SpanExporter) Option {
	return func(o *options) { o.exporter = exporter }
}

// WithInjectAttributes stamps the given attributes on every span at creation
// time, alongside the session identifier.
func WithInjectAttributes(attrs ...attribute.KeyValue) Option {
	return func(o *options) { o.injectAttrs = append(o.injectAttrs, attrs...) }
}

func buildOptions(opts []Option) options {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
