package wrap

import (
	"context"

	"github.com/semtrace/semtrace/core/span"
)

// Call wraps a plain, context-free function. The span opens immediately
// before fn runs and closes immediately after it returns or panics.
//
// Because no context travels into fn, enrichment calls inside its body
// cannot see the span, and the span is a root unless [WithParent] supplies a
// creation-time parent. Prefer [Func] whenever the callable can take a
// context; Call exists for pure functions whose signature cannot change.
func Call[I, O any](kind span.Kind, fn func(I) (O, error), opts ...Option) func(I) (O, error) {
	o := buildOptions(fn, opts)

	return func(in I) (O, error) {
		parent := o.parent
		if parent == nil {
			parent = context.Background()
		}
		_, s := startSpan(parent, kind, o)

		defer func() {
			if r := recover(); r != nil {
				abortSpan(s, r)
				panic(r)
			}
		}()

		out, err := fn(in)
		finishSpan(s, err)

		return out, err
	}
}

// Func wraps a context-aware function, the shape used for operations that
// block or call downstream services. The span opens before fn runs, is bound
// into the context passed to fn — so child spans nest under it and
// enrichment calls find it — and closes after fn returns or panics. The
// span stays current for the calling goroutine however long fn blocks.
func Func[I, O any](kind span.Kind, fn func(context.Context, I) (O, error), opts ...Option) func(context.Context, I) (O, error) {
	o := buildOptions(fn, opts)

	return func(ctx context.Context, in I) (O, error) {
		spanCtx, s := startSpan(ctx, kind, o)

		defer func() {
			if r := recover(); r != nil {
				abortSpan(s, r)
				panic(r)
			}
		}()

		out, err := fn(spanCtx, in)
		finishSpan(s, err)

		return out, err
	}
}
