// Package pipeline composes the ordered span-processing chain attached to a
// tracer provider: attribute injection, kind-based filtering, and a batching
// export buffer.
//
// The stage order is fixed, outer to inner: injector → filter → buffer. The
// injector must observe every span at creation time (it stamps the session
// identifier and any configured static attributes before anything can be
// filtered); the filter decides at span completion whether the now-tagged
// span reaches the buffer at all.
//
// The chain attaches in one of two modes. In owned-provider mode ([New]) it
// creates a fresh tracer provider and becomes its only processor; the caller
// owns the provider's shutdown. In foreign-provider mode ([Attach]) it
// registers as an additional processor on a provider the host application
// already created: the provider is never replaced or reset and no shutdown
// hook is installed — lifecycle stays with the host. Attaching to the same
// provider twice is detected per provider instance and degrades to a logged
// no-op.
//
// When kind filtering is enabled, a span without the semantic-kind marker is
// skipped entirely. Its children, if marked, still export and will appear at
// the backend without their original ancestor; that broken parent link is
// the documented trade-off of filtering, not a bug.
package pipeline
