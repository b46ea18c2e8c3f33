package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/semtrace/semtrace/config"
)

// attachments tracks which providers already carry a chain. The guard is
// keyed per provider instance, so independent providers in one process never
// share guard state.
var (
	attachMu    sync.Mutex
	attachments = make(map[*sdktrace.TracerProvider]*Chain)
)

// New builds the owned-provider deployment: a fresh tracer provider whose
// only processor is the chain, with the exporter and resource derived from
// cfg. The caller takes ownership of the provider's shutdown, which flushes
// the buffer.
func New(ctx context.Context, cfg *config.Config, o Options) (*sdktrace.TracerProvider, *Chain, error) {
	if o.Exporter == nil {
		exp, err := NewExporter(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		o.Exporter = exp
	}
	if o.BatchSize == 0 {
		o.BatchSize = cfg.BatchSize
	}
	if o.FlushInterval == 0 && cfg.FlushIntervalSeconds > 0 {
		o.FlushInterval = time.Duration(cfg.FlushIntervalSeconds) * time.Second
	}
	o.Filter = o.Filter || cfg.FilterGenAI

	res, err := resource.New(ctx,
		resource.WithSchemaURL(semconv.SchemaURL),
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		// Non-fatal — fall back to empty resource.
		logger(o).Warn("semtrace: resource detection failed", slog.String("error", err.Error()))
		res = resource.Empty()
	}

	chain := newChain(o)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(chain),
		sdktrace.WithResource(res),
	)

	attachMu.Lock()
	attachments[tp] = chain
	attachMu.Unlock()

	return tp, chain, nil
}

// Attach is the foreign-provider deployment: it registers the chain as an
// additional processor on a provider the host application owns. The provider
// is never replaced or reset, and no shutdown hook is installed. A second
// Attach to the same provider is a no-op with a logged warning — once a
// global provider is fixed it cannot be swapped out, so a per-provider
// attached flag suffices.
func Attach(tp *sdktrace.TracerProvider, o Options) (*Chain, error) {
	if tp == nil {
		return nil, fmt.Errorf("semtrace: cannot attach to a nil provider")
	}
	if o.Exporter == nil {
		return nil, fmt.Errorf("semtrace: attach requires an exporter")
	}

	attachMu.Lock()
	defer attachMu.Unlock()

	if existing, ok := attachments[tp]; ok {
		logger(o).Warn("semtrace: provider already has a processing chain attached; ignoring")
		return existing, nil
	}

	chain := newChain(o)
	tp.RegisterSpanProcessor(chain)
	attachments[tp] = chain

	return chain, nil
}

// Attached reports whether tp already carries a chain. Exposed for tests and
// diagnostics.
func Attached(tp *sdktrace.TracerProvider) bool {
	attachMu.Lock()
	defer attachMu.Unlock()
	_, ok := attachments[tp]
	return ok
}

func logger(o Options) *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
