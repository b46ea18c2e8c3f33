package utils

import "log/slog"

// Guard runs fn and converts any panic into a structured log entry instead of
// letting it escape. Every span-bookkeeping path in semtrace (span creation,
// enrichment, attribute mapping, export dispatch) runs inside Guard so that a
// telemetry failure can never alter the behavior of the instrumented
// application: the worst case is a missing span plus a log line.
//
// The op string names the operation for the log entry, e.g. "span.end" or
// "enrich.set_input". A nil logger falls back to [slog.Default].
func Guard(logger *slog.Logger, op string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			if logger == nil {
				logger = slog.Default()
			}
			logger.Error("semtrace: internal telemetry failure",
				slog.String("op", op),
				slog.Any("panic", r),
			)
		}
	}()

	fn()
}

// GuardErr is the error-returning variant of [Guard]: it runs fn, logs a
// non-nil error or a panic, and never propagates either. It is used on paths
// such as batch export where the inner operation reports failure through an
// error value rather than a panic.
func GuardErr(logger *slog.Logger, op string, fn func() error) {
	Guard(logger, op, func() {
		if err := fn(); err != nil {
			if logger == nil {
				logger = slog.Default()
			}
			logger.Error("semtrace: internal telemetry failure",
				slog.String("op", op),
				slog.String("error", err.Error()),
			)
		}
	})
}
