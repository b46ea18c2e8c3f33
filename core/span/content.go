package span

import (
	"encoding/json"

	"github.com/semtrace/semtrace/internal/utils"
)

// Message is one turn of a chat exchange. Callers pass a [Messages] value to
// the enrichment API when the input or output is a structured conversation;
// translating dialects rely on this shape to flatten per-message attributes.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Messages is an ordered chat conversation.
type Messages []Message

// Content describes one side of a span's payload (input or output). The type
// tag and serialized size are always recorded; Body is present only when the
// privacy resolver decided to capture content for the recording call.
type Content struct {
	// TypeTag names the payload shape: "text", "bytes", "messages", "error",
	// or "json" for arbitrary serializable values.
	TypeTag string
	// Size is the serialized payload size in bytes, recorded unconditionally.
	Size int
	// Body is the serialized payload, empty unless Captured.
	Body string
	// Captured reports whether Body holds the literal content.
	Captured bool
}

// newContent serializes v and applies the capture decision. Serialization
// never fails: values that cannot be marshaled fall back to their JSON error
// representation via [utils.ToString].
func newContent(v any, captured bool) Content {
	tag, body := serialize(v)

	c := Content{
		TypeTag:  tag,
		Size:     len(body),
		Captured: captured,
	}
	if captured {
		c.Body = body
	}

	return c
}

// serialize renders v to a string and classifies it with a type tag.
func serialize(v any) (tag, body string) {
	switch x := v.(type) {
	case nil:
		return "nil", ""
	case string:
		return "text", x
	case []byte:
		return "bytes", string(x)
	case Message:
		return "messages", utils.ToString(Messages{x})
	case Messages:
		return "messages", utils.ToString(x)
	case []Message:
		return "messages", utils.ToString(Messages(x))
	case error:
		return "error", x.Error()
	}

	encoded, err := json.Marshal(v)
	if err != nil {
		return "json", utils.ToString(v) // error-JSON fallback, never panics
	}

	return "json", string(encoded)
}
