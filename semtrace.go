// Package semtrace instruments LLM/agent applications with semantic spans:
// explicit units of work such as an LLM generation, a tool invocation, an
// agent run, or a retrieval step, exported through OpenTelemetry without
// coupling application code to any concrete tracing backend.
//
// Setup happens once, in one of two modes. [Init] creates and owns a fresh
// tracer provider configured from a [config.Config]; the returned [Handle]
// flushes and shuts it down. [Attach] bolts the semtrace processing chain
// onto a tracer provider the host application already owns, without
// replacing it, resetting it, or hooking its shutdown.
//
// After setup, application callables are wrapped with the core/wrap package
// (one wrapper per callable shape) and enriched in place with the
// core/enrich package. Both are safe before setup and after a failed one:
// telemetry can never alter, block, or break the instrumented logic.
package semtrace

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/semtrace/semtrace/config"
	"github.com/semtrace/semtrace/core/span"
	"github.com/semtrace/semtrace/export/dialect"
	"github.com/semtrace/semtrace/export/mapper"
	"github.com/semtrace/semtrace/export/pipeline"
)

// scopeName is the instrumentation scope under which semtrace spans are
// created.
const scopeName = "github.com/semtrace/semtrace"

// Semantic kinds, re-exported so simple callers import one package.
type Kind = span.Kind

const (
	KindGeneration = span.KindGeneration
	KindEmbedding  = span.KindEmbedding
	KindTool       = span.KindTool
	KindAgent      = span.KindAgent
	KindRetrieval  = span.KindRetrieval
	KindTask       = span.KindTask
	KindCustom     = span.KindCustom
)

// Handle owns the resources created by [Init]. In owned-provider mode the
// caller is responsible for calling [Handle.Shutdown]; in degraded (no-op)
// mode Shutdown is inert.
type Handle struct {
	// Tracer is the semantic span factory installed as the process default.
	Tracer *span.Tracer

	tp     *sdktrace.TracerProvider
	logger *slog.Logger
}

// Shutdown flushes the export buffer and shuts the owned provider down. It
// is safe to call on a degraded handle.
func (h *Handle) Shutdown(ctx context.Context) error {
	if h.tp == nil {
		return nil
	}
	return h.tp.Shutdown(ctx)
}

// Init sets semtrace up in owned-provider mode: it builds the exporter,
// resource, and processing chain from cfg, creates a fresh tracer provider,
// installs it as the OpenTelemetry global, and installs the semantic tracer
// as the process default used by wrapped callables.
//
// A nil cfg is loaded from the environment via [config.Load]; a completely
// absent configuration always fails with [config.ErrEmpty]. An invalid cfg
// fails in strict mode; in permissive mode setup degrades to a no-op
// provider (spans are created but never exported) with a logged warning.
func Init(ctx context.Context, cfg *config.Config, opts ...Option) (*Handle, error) {
	o := buildOptions(opts)

	if cfg == nil {
		loaded, err := config.Load()
		if err != nil {
			// Includes config.ErrEmpty: with no configuration at all there
			// is nothing to degrade to, so this always surfaces.
			return nil, err
		}
		cfg = loaded
	} else if err := cfg.Validate(); err != nil {
		if cfg.Mode != config.ModePermissive {
			return nil, err
		}
		o.logger.Warn("semtrace: invalid configuration, degrading to no-op provider",
			slog.String("error", err.Error()),
		)
		return noopHandle(cfg, o.logger), nil
	}

	if cfg.Backend == config.BackendNone {
		return noopHandle(cfg, o.logger), nil
	}

	tp, _, err := pipeline.New(ctx, cfg, pipeline.Options{
		Exporter:         o.exporter,
		Filter:           cfg.FilterGenAI,
		InjectAttributes: o.injectAttrs,
		Logger:           o.logger,
	})
	if err != nil {
		if cfg.Mode == config.ModePermissive {
			o.logger.Warn("semtrace: exporter setup failed, degrading to no-op provider",
				slog.String("error", err.Error()),
			)
			return noopHandle(cfg, o.logger), nil
		}
		return nil, fmt.Errorf("semtrace: setting up provider: %w", err)
	}

	otel.SetTracerProvider(tp)

	tracer := newTracer(tp.Tracer(scopeName), cfg, o.logger)
	span.SetDefault(tracer)

	return &Handle{Tracer: tracer, tp: tp, logger: o.logger}, nil
}

// Attach sets semtrace up in foreign-provider mode: the processing chain is
// registered as an additional processor on tp, which the host application
// created and continues to own. The exporter must be supplied via
// [WithExporter]. Attaching twice to the same provider is a logged no-op.
func Attach(tp *sdktrace.TracerProvider, cfg *config.Config, opts ...Option) (*span.Tracer, error) {
	o := buildOptions(opts)

	if cfg == nil {
		cfg = &config.Config{Mode: config.ModePermissive, Dialect: config.DialectPassThrough}
	}

	if _, err := pipeline.Attach(tp, pipeline.Options{
		Exporter:         o.exporter,
		Filter:           cfg.FilterGenAI,
		InjectAttributes: o.injectAttrs,
		Logger:           o.logger,
	}); err != nil {
		return nil, err
	}

	tracer := newTracer(tp.Tracer(scopeName), cfg, o.logger)
	span.SetDefault(tracer)

	return tracer, nil
}

// newTracer wires the semantic tracer: mapper, dialect, capture default, and
// validation mode.
func newTracer(otelTracer trace.Tracer, cfg *config.Config, logger *slog.Logger) *span.Tracer {
	var tr dialect.Translator = dialect.PassThrough{}
	if cfg.Dialect == config.DialectInference {
		tr = dialect.Inference{}
	}

	return span.NewTracer(span.TracerOptions{
		Tracer:         otelTracer,
		Renderer:       dialect.Wrap(mapper.New(), tr, logger),
		CaptureContent: cfg.CaptureContent,
		Mode:           validationMode(cfg.Mode),
		Logger:         logger,
	})
}

// noopHandle installs a tracer backed by a no-op provider, keeping every
// wrapper and enrichment call inert but safe.
func noopHandle(cfg *config.Config, logger *slog.Logger) *Handle {
	tracer := newTracer(noop.NewTracerProvider().Tracer(scopeName), cfg, logger)
	span.SetDefault(tracer)
	return &Handle{Tracer: tracer, logger: logger}
}

// validationMode converts the configuration mode to the span factory's
// validation mode.
func validationMode(m config.Mode) span.Validation {
	if m == config.ModeStrict {
		return span.ValidationStrict
	}
	return span.ValidationPermissive
}
