package span

// Kind classifies the semantic operation a span represents. The set is
// closed: unknown kinds are rejected in [ValidationStrict] mode or downgraded
// to [KindCustom] with a warning in [ValidationPermissive] mode.
type Kind string

const (
	// KindGeneration is an LLM completion/chat call. A model identifier is
	// expected for this kind.
	KindGeneration Kind = "generation"
	// KindEmbedding is an embedding computation. A model identifier is
	// expected for this kind.
	KindEmbedding Kind = "embedding"
	// KindTool is a tool/function invocation made on behalf of a model.
	KindTool Kind = "tool"
	// KindAgent is a full agent run, typically the parent of generation and
	// tool spans.
	KindAgent Kind = "agent"
	// KindRetrieval is a retrieval/search step (e.g. a vector store query).
	KindRetrieval Kind = "retrieval"
	// KindTask is a generic unit of work inside an agent workflow.
	KindTask Kind = "task"
	// KindCustom is the downgrade target for unknown kinds in permissive mode.
	KindCustom Kind = "custom"
)

// Valid reports whether k is one of the declared semantic kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindGeneration, KindEmbedding, KindTool, KindAgent, KindRetrieval, KindTask, KindCustom:
		return true
	}
	return false
}

// WantsModel reports whether spans of this kind semantically require a model
// identifier. Missing models are logged, never rejected.
func (k Kind) WantsModel() bool {
	return k == KindGeneration || k == KindEmbedding
}

// Validation selects how the span factory treats unknown kinds.
type Validation string

const (
	// ValidationStrict rejects spans with unknown kinds: the callable still
	// runs, but un-instrumented, and an error is logged.
	ValidationStrict Validation = "strict"
	// ValidationPermissive downgrades unknown kinds to [KindCustom] and logs
	// a warning.
	ValidationPermissive Validation = "permissive"
)
