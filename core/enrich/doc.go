// Package enrich provides the explicit enrichment API applications call to
// attach data to the current semantic span: inputs, outputs, token counts,
// streamed chunks, errors, and metadata.
//
// Every function follows one contract: look up the current span in the
// context; if none is bound, return immediately. This makes enrichment calls
// safe to sprinkle anywhere, including outside any instrumented extent. All
// mutation runs inside the telemetry error boundary, so a failure inside
// semtrace is logged and discarded rather than surfaced to the caller.
//
// Content-bearing functions ([SetInput], [SetOutput], [EmitChunk]) always
// record type and size metadata; the literal content is recorded only when
// the privacy resolution (per-call [WithCapture] override, then span
// override, then tracer default) says to capture.
package enrich
