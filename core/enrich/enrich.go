package enrich

import (
	"context"

	"github.com/semtrace/semtrace/core/span"
	"github.com/semtrace/semtrace/internal/utils"
)

// Message is one turn of a chat exchange, re-exported from core/span for
// callers that only import the enrichment API.
type Message = span.Message

// Messages is an ordered chat conversation, re-exported from core/span.
type Messages = span.Messages

// Option adjusts a single enrichment call.
type Option func(*options)

type options struct {
	capture *bool
}

// WithCapture sets the per-call content-capture override, the highest of the
// three privacy precedence levels.
func WithCapture(capture bool) Option {
	return func(o *options) {
		o.capture = &capture
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// SetInput records v as the current span's input. Type and size are recorded
// unconditionally; the literal content only when capture resolves true. No
// current span means no effect.
func SetInput(ctx context.Context, v any, opts ...Option) {
	s := span.FromContext(ctx)
	if s == nil {
		return
	}
	o := buildOptions(opts)
	utils.Guard(s.Logger(), "enrich.set_input", func() {
		s.SetInput(v, o.capture)
	})
}

// SetOutput records v as the current span's output, with the same capture
// semantics as [SetInput].
func SetOutput(ctx context.Context, v any, opts ...Option) {
	s := span.FromContext(ctx)
	if s == nil {
		return
	}
	o := buildOptions(opts)
	utils.Guard(s.Logger(), "enrich.set_output", func() {
		s.SetOutput(v, o.capture)
	})
}

// SetTokens records token counts on the current span. Pass zero for an
// unreported field; a zero total is derived from the components, an explicit
// total wins.
func SetTokens(ctx context.Context, input, output, total int) {
	s := span.FromContext(ctx)
	if s == nil {
		return
	}
	utils.Guard(s.Logger(), "enrich.set_tokens", func() {
		s.SetUsage(input, output, total)
	})
}

// EmitChunk appends one streamed element to the current span. The first
// chunk of a span also records the time-to-first-chunk measurement. Wrapped
// streaming callables emit chunks automatically; EmitChunk exists for
// hand-rolled streaming loops.
func EmitChunk(ctx context.Context, v any, opts ...Option) {
	s := span.FromContext(ctx)
	if s == nil {
		return
	}
	o := buildOptions(opts)
	utils.Guard(s.Logger(), "enrich.emit_chunk", func() {
		s.AppendChunk(v, o.capture)
	})
}

// SetError records err's type and message on the current span and flags it
// as failed. It never swallows err: the caller remains responsible for
// returning or re-panicking it. A nil err has no effect.
func SetError(ctx context.Context, err error) {
	s := span.FromContext(ctx)
	if s == nil || err == nil {
		return
	}
	utils.Guard(s.Logger(), "enrich.set_error", func() {
		s.RecordError(err)
	})
}

// SetMetadata stores one scalar key/value pair on the current span under the
// reserved custom namespace, which every backend dialect passes through
// unchanged.
func SetMetadata(ctx context.Context, key string, value any) {
	s := span.FromContext(ctx)
	if s == nil {
		return
	}
	utils.Guard(s.Logger(), "enrich.set_metadata", func() {
		s.SetMetadata(key, value)
	})
}
