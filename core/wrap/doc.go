// Package wrap is the instrumentation engine: it turns an application
// callable into an identical-signature callable that also opens and closes a
// semantic span around every invocation.
//
// Go callables come in four shapes here, each with its own lifecycle
// strategy, selected once at wrap time:
//
//   - [Call] — a plain function without a context. The span opens before the
//     body and closes after it returns or panics. Without a caller context
//     the span is a root unless [WithParent] supplies one at wrap time.
//   - [Func] — a context-aware function. Identical lifecycle to Call, but the
//     span travels to the body (and to everything it calls) through the
//     context, so child spans nest and enrichment calls find it.
//   - [Seq] — a pull-based stream returning an [iter.Seq2]. Calling the
//     wrapped function runs no body and opens no span; the span opens when
//     the consumer starts iterating, records every yielded element as a
//     chunk, and closes on exhaustion, on the first yielded error, on panic,
//     or — abandonment — the moment the consumer breaks out of the loop.
//   - [Chan] — a push-based stream returning a receive channel fed by a
//     producer goroutine. The span opens before the producer starts and
//     closes when the channel is closed or the context is canceled.
//
// Two failure rules hold for every shape. An error or panic raised by the
// wrapped callable's own body reaches the caller exactly as it would without
// instrumentation, after the span is marked failed. An error inside the
// wrapper's own bookkeeping is logged and discarded: the callable still runs
// and its result is still returned.
//
// Because the wrappers are generic higher-order functions, the wrapped
// callable's signature is identical to the original by construction, so
// frameworks that introspect parameter and result types keep working. The
// default span name is the callable's declared name.
//
// Abandoned streams are finalized immediately: a Seq span ends synchronously
// inside the iterator when the consumer stops, a Chan span when the producer
// relay observes context cancellation. Neither waits for garbage collection,
// so partial data becomes visible to the backend right away.
package wrap
