package span

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/semtrace/semtrace/internal/utils"
)

// tracerName is the instrumentation scope reported to the backing provider.
const tracerName = "github.com/semtrace/semtrace"

// Event is one backend-neutral content event produced by a renderer.
type Event struct {
	Name  string
	Time  time.Time
	Attrs []attribute.KeyValue
}

// StartSpec tells the tracer how to open the native span for a semantic span:
// display name, client-vs-internal classification, and the attributes that
// must be present from creation time (the kind marker among them, so that
// pipeline stages can see it before the span completes).
type StartSpec struct {
	Name       string
	SpanKind   trace.SpanKind
	Attributes []attribute.KeyValue
}

// Renderer converts semantic spans to the backend-neutral representation.
// The attribute mapper implements it; dialect decorators translate its
// output into backend-specific conventions.
type Renderer interface {
	// StartSpec is consulted once, at span creation.
	StartSpec(kind Kind, name, model string) StartSpec
	// Render is consulted once, at span end, and may read every accessor of s.
	Render(s *Span) ([]attribute.KeyValue, []Event)
}

// Tracer is the semantic span factory. It binds together the backing
// OpenTelemetry tracer, the renderer, the tracer-wide content-capture
// default, and the validation mode for unknown kinds.
type Tracer struct {
	otel     trace.Tracer
	renderer Renderer
	capture  bool
	mode     Validation
	logger   *slog.Logger
}

// TracerOptions configures [NewTracer]. Zero values select safe defaults:
// the process-global OpenTelemetry tracer (a no-op unless a provider was
// installed), a minimal renderer, capture disabled, permissive validation,
// and [slog.Default].
type TracerOptions struct {
	Tracer         trace.Tracer
	Renderer       Renderer
	CaptureContent bool
	Mode           Validation
	Logger         *slog.Logger
}

// NewTracer builds a Tracer from o, applying the documented defaults.
func NewTracer(o TracerOptions) *Tracer {
	t := &Tracer{
		otel:     o.Tracer,
		renderer: o.Renderer,
		capture:  o.CaptureContent,
		mode:     o.Mode,
		logger:   o.Logger,
	}
	if t.otel == nil {
		t.otel = otel.Tracer(tracerName)
	}
	if t.renderer == nil {
		t.renderer = minimalRenderer{}
	}
	if t.mode == "" {
		t.mode = ValidationPermissive
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}

	return t
}

// Logger returns the tracer's internal logger, used by collaborating
// packages for telemetry-error reporting.
func (t *Tracer) Logger() *slog.Logger { return t.logger }

// CaptureDefault returns the tracer-wide content-capture default.
func (t *Tracer) CaptureDefault() bool { return t.capture }

// StartOptions carries the optional creation-time parameters of a span.
type StartOptions struct {
	// Name overrides the display identifier (defaults to the callable name).
	Name string
	// Model is the generative model involved, expected for generation and
	// embedding kinds.
	Model string
	// Capture is the span-level privacy override (nil means unset).
	Capture *bool
	// Metadata is recorded onto the span at creation under the custom
	// namespace.
	Metadata map[string]any
}

// Start opens a new semantic span as a child of the span bound to ctx (or as
// a root span) and returns a context with the new span bound as current.
//
// Unknown kinds are rejected in strict mode — Start returns the original
// context and a nil span, which every downstream consumer tolerates — or
// downgraded to [KindCustom] with a warning in permissive mode. Start never
// panics and never returns an error: instrumentation must not be able to
// break the caller.
func (t *Tracer) Start(ctx context.Context, kind Kind, o StartOptions) (context.Context, *Span) {
	if ctx == nil {
		ctx = context.Background()
	}

	if !kind.Valid() {
		if t.mode == ValidationStrict {
			t.logger.Error("semtrace: rejecting span with unknown kind",
				slog.String("kind", string(kind)),
				slog.String("name", o.Name),
			)
			return ctx, nil
		}
		t.logger.Warn("semtrace: downgrading unknown kind to custom",
			slog.String("kind", string(kind)),
			slog.String("name", o.Name),
		)
		kind = KindCustom
	}

	if kind.WantsModel() && o.Model == "" {
		t.logger.Debug("semtrace: span kind expects a model identifier",
			slog.String("kind", string(kind)),
			slog.String("name", o.Name),
		)
	}

	// Consult the renderer for the native span's name, classification, and
	// creation-time attributes, falling back to a bare spec if it misbehaves.
	spec := StartSpec{
		Name:     fallbackSpanName(kind, o.Name, o.Model),
		SpanKind: trace.SpanKindInternal,
		Attributes: []attribute.KeyValue{
			attribute.String(AttrKind, string(kind)),
		},
	}
	utils.Guard(t.logger, "span.start_spec", func() {
		spec = t.renderer.StartSpec(kind, o.Name, o.Model)
	})

	nativeCtx, native := t.otel.Start(ctx, spec.Name,
		trace.WithSpanKind(spec.SpanKind),
		trace.WithAttributes(spec.Attributes...),
	)

	s := &Span{
		tracer:          t,
		kind:            kind,
		name:            o.Name,
		model:           o.Model,
		start:           time.Now(),
		ttfcTimer:       utils.NewTimer(),
		native:          native,
		parent:          FromContext(ctx),
		captureOverride: o.Capture,
	}
	for k, v := range o.Metadata {
		s.metadata = ensureMetadata(s.metadata)
		s.metadata[k] = v
	}

	if s.parent != nil {
		s.parent.addChild(s)
	}

	return ContextWithSpan(nativeCtx, s), s
}

// ensureMetadata lazily allocates the metadata map.
func ensureMetadata(m map[string]any) map[string]any {
	if m == nil {
		return make(map[string]any)
	}
	return m
}

// fallbackSpanName formats a display name without consulting the renderer.
func fallbackSpanName(kind Kind, name, model string) string {
	label := model
	if label == "" {
		label = name
	}
	if label == "" {
		return string(kind)
	}
	return fmt.Sprintf("%s %s", kind, label)
}

// minimalRenderer is the renderer used when none was wired (e.g. wrapping
// callables before Init). It keeps the kind marker and model visible but
// performs no neutral mapping; Init replaces it with the full mapper.
type minimalRenderer struct{}

func (minimalRenderer) StartSpec(kind Kind, name, model string) StartSpec {
	attrs := []attribute.KeyValue{attribute.String(AttrKind, string(kind))}
	if model != "" {
		attrs = append(attrs, attribute.String(AttrRequestModel, model))
	}
	return StartSpec{
		Name:       fallbackSpanName(kind, name, model),
		SpanKind:   trace.SpanKindInternal,
		Attributes: attrs,
	}
}

func (minimalRenderer) Render(*Span) ([]attribute.KeyValue, []Event) {
	return nil, nil
}

// --- Process default tracer ---

var defaultTracer atomic.Pointer[Tracer]

// SetDefault installs t as the process-wide default tracer used by the
// callable wrappers when no per-wrap tracer is given. The root semtrace
// package calls this from Init and Attach.
func SetDefault(t *Tracer) {
	if t == nil {
		return
	}
	defaultTracer.Store(t)
}

// Default returns the process-wide default tracer, lazily installing an
// inert one (backed by the global OpenTelemetry tracer, which is a no-op
// until a provider is registered) so that wrapped callables are always safe
// to invoke before setup.
func Default() *Tracer {
	if t := defaultTracer.Load(); t != nil {
		return t
	}
	t := NewTracer(TracerOptions{})
	// Keep the first lazily created tracer if several goroutines race.
	defaultTracer.CompareAndSwap(nil, t)
	return defaultTracer.Load()
}
