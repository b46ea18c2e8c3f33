// Package utils provides shared low-level helpers used throughout the
// semtrace internals: the telemetry error boundary that keeps instrumentation
// failures away from application code, callable name discovery, generic
// pointer and string utilities, and a simple elapsed-time timer.
//
// Key entry points: [Guard] for running span bookkeeping that must never
// panic into the host application, [FuncName] for deriving default span names
// from wrapped callables, [Ptr] for converting values to pointers, and
// [Timer] for measuring time-to-first-chunk latency.
package utils
