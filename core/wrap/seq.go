package wrap

import (
	"context"
	"iter"

	"github.com/semtrace/semtrace/core/span"
)

// Seq wraps a pull-based streaming function returning an [iter.Seq2] of
// elements and errors (the shape used throughout LLM streaming code).
//
// Calling the wrapped function is free: no span opens and fn itself is not
// invoked until the consumer starts ranging, matching the fact that a
// sequence constructor's body does not run until iteration begins. From the
// first pull the span is open and bound to the context passed to fn, every
// yielded element is recorded as a chunk (the first one also records
// time-to-first-chunk), and the span closes exactly once on whichever comes
// first:
//
//   - exhaustion — normal close after the last element;
//   - a yielded error — the span is marked failed, then the error is
//     forwarded to the consumer unchanged;
//   - a panic during production — the span is marked failed, then the panic
//     is re-raised once;
//   - abandonment — the consumer breaks out of the loop; the span closes
//     immediately with the chunks recorded so far and no error.
//
// A wrapped sequence that is never iterated produces no span at all.
func Seq[I, T any](kind span.Kind, fn func(context.Context, I) iter.Seq2[T, error], opts ...Option) func(context.Context, I) iter.Seq2[T, error] {
	o := buildOptions(fn, opts)

	return func(ctx context.Context, in I) iter.Seq2[T, error] {
		return func(yield func(T, error) bool) {
			spanCtx, s := startSpan(ctx, kind, o)

			defer func() {
				if r := recover(); r != nil {
					abortSpan(s, r)
					panic(r)
				}
			}()

			for v, err := range fn(spanCtx, in) {
				if err != nil {
					// Production failed: close first so the span is complete
					// even if the consumer stops here, then forward the error.
					finishSpan(s, err)
					yield(v, err)
					return
				}

				recordChunk(s, v, nil)

				if !yield(v, nil) {
					// Consumer broke out early: abnormal close with partial
					// data, not an error.
					finishSpan(s, nil)
					return
				}
			}

			finishSpan(s, nil)
		}
	}
}
