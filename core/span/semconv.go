package span

// Backend-neutral attribute names produced by the attribute mapper. They
// follow the OpenTelemetry GenAI semantic conventions where one exists and
// use the "semtrace." namespace otherwise. Backend dialects translate from
// these keys; nothing else in the codebase hardcodes an attribute name.

// --- GenAI Attributes ---

const (
	// AttrOperationName is the canonical operation for the span's kind
	// (e.g. "chat", "execute_tool").
	AttrOperationName = "gen_ai.operation.name"

	// AttrRequestModel is the generative model identifier.
	AttrRequestModel = "gen_ai.request.model"

	// AttrUsageInputTokens is the prompt-side token count.
	AttrUsageInputTokens = "gen_ai.usage.input_tokens" // #nosec G101 -- LLM tokens, not a credential

	// AttrUsageOutputTokens is the completion-side token count.
	AttrUsageOutputTokens = "gen_ai.usage.output_tokens" // #nosec G101 -- LLM tokens, not a credential

	// AttrUsageTotalTokens is the resolved total token count.
	AttrUsageTotalTokens = "gen_ai.usage.total_tokens" // #nosec G101 -- LLM tokens, not a credential

	// AttrTimeToFirstChunk is the seconds elapsed between span start and the
	// first streamed chunk.
	AttrTimeToFirstChunk = "gen_ai.server.time_to_first_token" // #nosec G101 -- LLM tokens, not a credential
)

// --- Semtrace Attributes ---

const (
	// AttrKind is the marker attribute carrying the semantic kind. Its
	// presence identifies a span as GenAI-relevant to the kind filter.
	AttrKind = "semtrace.kind"

	// AttrInputType is the type tag of the recorded input (always present
	// once an input is set, regardless of content capture).
	AttrInputType = "semtrace.input.type"

	// AttrInputSize is the serialized input size in bytes.
	AttrInputSize = "semtrace.input.size"

	// AttrOutputType is the type tag of the recorded output.
	AttrOutputType = "semtrace.output.type"

	// AttrOutputSize is the serialized output size in bytes.
	AttrOutputSize = "semtrace.output.size"

	// AttrChunkCount is the number of chunks produced by a streaming span.
	AttrChunkCount = "semtrace.chunks"

	// AttrSessionID is stamped on every span by the pipeline's attribute
	// injector to correlate all spans of one process run.
	AttrSessionID = "semtrace.session.id"

	// AttrErrorType is the Go type of the error a span ended with.
	AttrErrorType = "error.type"

	// CustomPrefix is the reserved namespace for caller-supplied metadata.
	// Dialects must pass custom.* attributes through unchanged.
	CustomPrefix = "custom."
)

// --- Content Events ---

const (
	// EventPrompt is the content event carrying the captured input.
	EventPrompt = "gen_ai.content.prompt"

	// EventCompletion is the content event carrying the captured output.
	EventCompletion = "gen_ai.content.completion"

	// EventChunk is the content event emitted per captured streamed chunk.
	EventChunk = "gen_ai.content.chunk"

	// AttrPromptBody is the serialized input on an EventPrompt event.
	AttrPromptBody = "gen_ai.prompt"

	// AttrCompletionBody is the serialized output on an EventCompletion event.
	AttrCompletionBody = "gen_ai.completion"

	// AttrChunkIndex is the zero-based chunk position on an EventChunk event.
	AttrChunkIndex = "semtrace.chunk.index"

	// AttrChunkBody is the captured chunk content on an EventChunk event.
	AttrChunkBody = "semtrace.chunk.content"
)
