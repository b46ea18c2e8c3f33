package wrap

import (
	"context"

	"github.com/semtrace/semtrace/core/span"
)

// Chan wraps a push-based streaming function: fn returns a receive channel
// fed by its own producer goroutine. The span opens before fn runs (the
// producer starts at call time) and the context passed to fn carries the
// span, so the producer's enrichment calls and child spans attach correctly
// even though production happens on another goroutine.
//
// The wrapper relays elements through a fresh channel, recording each as a
// chunk, and closes the span exactly once:
//
//   - when fn returns an error — the span is marked failed and the error is
//     returned unchanged;
//   - when the producer closes its channel — normal close;
//   - when ctx is canceled — abandonment; the span closes immediately with
//     the chunks recorded so far and no error.
//
// Consumers that stop reading must cancel ctx (the standard contract for
// channel-producing APIs); otherwise neither the producer nor the relay can
// make progress.
func Chan[I, T any](kind span.Kind, fn func(context.Context, I) (<-chan T, error), opts ...Option) func(context.Context, I) (<-chan T, error) {
	o := buildOptions(fn, opts)

	return func(ctx context.Context, in I) (<-chan T, error) {
		spanCtx, s := startSpan(ctx, kind, o)

		ch, err := fn(spanCtx, in)
		if err != nil {
			finishSpan(s, err)
			return nil, err
		}

		out := make(chan T)
		go func() {
			defer close(out)

			for {
				select {
				case v, ok := <-ch:
					if !ok {
						finishSpan(s, nil)
						return
					}

					recordChunk(s, v, nil)

					select {
					case out <- v:
					case <-spanCtx.Done():
						finishSpan(s, nil)
						return
					}
				case <-spanCtx.Done():
					finishSpan(s, nil)
					return
				}
			}
		}()

		return out, nil
	}
}
