package span

import "time"

// Chunk is one element produced by a streaming span. Chunks are append-only
// and ordered by Index; type tag and size are always recorded, the body only
// when content capture resolved true for the emitting call.
type Chunk struct {
	// Index is the zero-based position of the chunk in the stream.
	Index int
	// TypeTag classifies the chunk payload (see [Content.TypeTag]).
	TypeTag string
	// Size is the serialized chunk size in bytes.
	Size int
	// Body is the captured chunk content, truncated to
	// [utils.DefaultMaxStringLength] to bound span size; empty unless Captured.
	Body string
	// Captured reports whether Body holds literal content.
	Captured bool
	// At is the instant the chunk was recorded.
	At time.Time
}
