package span

// ResolveCapture computes the effective content-capture decision from the
// three precedence levels: a per-call override beats a per-span override,
// which beats the tracer-wide default. Nil overrides mean "unset". The
// function is pure and never fails.
func ResolveCapture(globalDefault bool, spanOverride, callOverride *bool) bool {
	if callOverride != nil {
		return *callOverride
	}
	if spanOverride != nil {
		return *spanOverride
	}

	return globalDefault
}
