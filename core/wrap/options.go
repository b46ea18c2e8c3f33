package wrap

import (
	"context"

	"github.com/semtrace/semtrace/core/span"
	"github.com/semtrace/semtrace/internal/utils"
)

// Option adjusts how a callable is wrapped. Options are evaluated once, at
// wrap time, not per call.
type Option func(*options)

type options struct {
	name     string
	model    string
	capture  *bool
	tracer   *span.Tracer
	parent   context.Context
	metadata map[string]any
}

// WithName overrides the span's display identifier. The default is the
// wrapped callable's declared name.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithModel records the generative model involved. Generation and embedding
// spans are expected to carry one.
func WithModel(model string) Option {
	return func(o *options) { o.model = model }
}

// WithCapture sets the span-level content-capture override, the middle of
// the three privacy precedence levels.
func WithCapture(capture bool) Option {
	return func(o *options) { o.capture = &capture }
}

// WithTracer uses t instead of the process default tracer for spans opened
// by this wrapper.
func WithTracer(t *span.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// WithParent supplies a creation-time parent context for the context-free
// [Call] shape, letting its spans nest under an enclosing span. Ignored by
// the shapes that receive a context per call.
func WithParent(ctx context.Context) Option {
	return func(o *options) { o.parent = ctx }
}

// WithMetadata records key/value pairs on every span opened by this wrapper,
// under the reserved custom namespace.
func WithMetadata(metadata map[string]any) Option {
	return func(o *options) {
		if o.metadata == nil {
			o.metadata = make(map[string]any, len(metadata))
		}
		for k, v := range metadata {
			o.metadata[k] = v
		}
	}
}

// buildOptions resolves the wrap-time configuration, deriving the default
// span name from the callable itself.
func buildOptions(fn any, opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.name == "" {
		o.name = utils.FuncName(fn)
	}
	return o
}

// tracer returns the wrap-time tracer or the process default.
func (o options) tracerOrDefault() *span.Tracer {
	if o.tracer != nil {
		return o.tracer
	}
	return span.Default()
}

// startOptions converts the wrap-time configuration to span creation options.
func (o options) startOptions() span.StartOptions {
	return span.StartOptions{
		Name:     o.name,
		Model:    o.model,
		Capture:  o.capture,
		Metadata: o.metadata,
	}
}
