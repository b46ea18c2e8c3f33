// Package span defines the semantic span model at the core of semtrace: the
// in-memory representation of one traced LLM/agent operation, independent of
// any concrete tracing backend.
//
// A [Span] is created through a [Tracer] (usually the process default
// installed by the root semtrace package), carries a semantic [Kind]
// (generation, tool, agent, retrieval, embedding, task), and is bound at
// creation to exactly one native OpenTelemetry span. Applications never
// construct spans directly; the core/wrap package opens and closes them
// around instrumented callables, and the core/enrich package mutates the
// current one.
//
// The current span travels through a [context.Context] via [ContextWithSpan]
// and [FromContext], which keeps it isolated across concurrent goroutines and
// stable across blocking calls. A span's parent link is fixed at creation
// time by reading the caller's context; only its children list grows.
//
// Content capture (whether literal inputs, outputs, and chunks are recorded,
// as opposed to just their type and size) is resolved by [ResolveCapture]
// with precedence per-call override > per-span override > tracer default.
//
// The semconv.go file contains the backend-neutral attribute-key and
// event-name constants shared by the mapper, the dialects, and the pipeline.
package span
