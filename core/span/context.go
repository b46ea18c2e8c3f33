package span

import "context"

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

var spanContextKey = contextKey{}

// FromContext extracts the current *Span from the context.
// Returns nil if no span is present.
func FromContext(ctx context.Context) *Span {
	if ctx == nil {
		return nil
	}
	s, _ := ctx.Value(spanContextKey).(*Span)
	return s
}

// ContextWithSpan returns a new context with the given span bound as current.
// The caller's original context is the restoration token: once the span's
// extent ends, continuing with the original context restores the previous
// current span, including across panics, since the binding is immutable
// context state rather than a mutable global.
func ContextWithSpan(ctx context.Context, s *Span) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, spanContextKey, s)
}
