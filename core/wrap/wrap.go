package wrap

import (
	"context"
	"fmt"

	"github.com/semtrace/semtrace/core/span"
	"github.com/semtrace/semtrace/internal/utils"
)

// startSpan opens a semantic span for one invocation. It never panics into
// the caller: a failure in span creation is logged and the invocation
// proceeds un-instrumented (nil span, original context).
func startSpan(ctx context.Context, kind span.Kind, o options) (context.Context, *span.Span) {
	t := o.tracerOrDefault()

	spanCtx, s := ctx, (*span.Span)(nil)
	utils.Guard(t.Logger(), "wrap.start", func() {
		spanCtx, s = t.Start(ctx, kind, o.startOptions())
	})
	if s == nil {
		// Rejected or failed bookkeeping: run the callable untouched.
		return ctx, nil
	}

	return spanCtx, s
}

// finishSpan closes s with the invocation's outcome. Safe on a nil span and
// safe to call more than once; span.End guards the close itself.
func finishSpan(s *span.Span, appErr error) {
	if s == nil {
		return
	}
	s.End(appErr)
}

// abortSpan closes s after the wrapped body panicked. The panic value is
// recorded as the span's error; the caller re-panics exactly once.
func abortSpan(s *span.Span, recovered any) {
	if s == nil {
		return
	}
	err, ok := recovered.(error)
	if !ok {
		err = fmt.Errorf("panic: %v", recovered)
	}
	s.End(err)
}

// recordChunk appends one streamed element to s under the error boundary.
func recordChunk(s *span.Span, v any, callOverride *bool) {
	if s == nil {
		return
	}
	utils.Guard(s.Logger(), "wrap.chunk", func() {
		s.AppendChunk(v, callOverride)
	})
}
