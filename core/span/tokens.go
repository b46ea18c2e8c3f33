package span

// Usage holds the token accounting for a generation or embedding span. Zero
// means "not reported" for every field.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// resolveUsage applies the token-total rule: an explicitly reported total
// always wins; otherwise the total is derived from the reported components.
func resolveUsage(input, output, total int) Usage {
	u := Usage{
		InputTokens:  input,
		OutputTokens: output,
		TotalTokens:  total,
	}
	if total == 0 {
		u.TotalTokens = input + output
	}

	return u
}
