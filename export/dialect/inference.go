package dialect

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"go.opentelemetry.io/otel/attribute"

	"github.com/semtrace/semtrace/core/span"
)

// OpenInference-style attribute keys produced by the [Inference] translator.
const (
	attrSpanKind         = "openinference.span.kind"
	attrModelName        = "llm.model_name"
	attrTokenCountPrompt = "llm.token_count.prompt"     // #nosec G101 -- LLM tokens, not a credential
	attrTokenCountOutput = "llm.token_count.completion" // #nosec G101 -- LLM tokens, not a credential
	attrTokenCountTotal  = "llm.token_count.total"      // #nosec G101 -- LLM tokens, not a credential
	inputMessagesPrefix  = "llm.input_messages"
	outputMessagesPrefix = "llm.output_messages"
	messageRoleField     = "message.role"
	messageContentField  = "message.content"
)

// operationToSpanKind is the fixed classification table from neutral
// operation names to OpenInference span kinds.
var operationToSpanKind = map[string]string{
	"chat":         "LLM",
	"embeddings":   "EMBEDDING",
	"execute_tool": "TOOL",
	"invoke_agent": "AGENT",
	"retrieve":     "RETRIEVER",
	"task":         "CHAIN",
	"custom":       "CHAIN",
}

// Inference is the translating dialect: it renames the neutral scalar keys
// through a fixed table and flattens each content event's message list into
// indexed attributes, one role/content pair per message. Backends in the
// OpenInference family consume attributes only, so content events are
// consumed by the translation rather than forwarded.
type Inference struct{}

var _ Translator = Inference{}

// Translate implements [Translator].
func (Inference) Translate(attrs []attribute.KeyValue, events []span.Event) ([]attribute.KeyValue, []span.Event) {
	out := make([]attribute.KeyValue, 0, len(attrs))

	for _, kv := range attrs {
		key := string(kv.Key)
		switch key {
		case span.AttrOperationName:
			kind, ok := operationToSpanKind[kv.Value.AsString()]
			if !ok {
				kind = "CHAIN"
			}
			out = append(out, attribute.String(attrSpanKind, kind))
		case span.AttrRequestModel:
			out = append(out, attribute.String(attrModelName, kv.Value.AsString()))
		case span.AttrUsageInputTokens:
			out = append(out, attribute.Int64(attrTokenCountPrompt, kv.Value.AsInt64()))
		case span.AttrUsageOutputTokens:
			out = append(out, attribute.Int64(attrTokenCountOutput, kv.Value.AsInt64()))
		case span.AttrUsageTotalTokens:
			out = append(out, attribute.Int64(attrTokenCountTotal, kv.Value.AsInt64()))
		default:
			// custom.* passes through byte-for-byte, as do the neutral keys
			// that have no dialect-specific rename.
			out = append(out, kv)
		}
	}

	inputIndex, outputIndex := 0, 0
	for _, e := range events {
		switch e.Name {
		case span.EventPrompt:
			out = append(out, flattenMessages(inputMessagesPrefix, &inputIndex, eventBody(e, span.AttrPromptBody), "user")...)
		case span.EventCompletion:
			out = append(out, flattenMessages(outputMessagesPrefix, &outputIndex, eventBody(e, span.AttrCompletionBody), "assistant")...)
		default:
			// Chunk events have no OpenInference equivalent; the chunk count
			// and time-to-first-chunk attributes already carry the signal.
		}
	}

	return out, nil
}

// eventBody extracts the serialized content from a content event.
func eventBody(e span.Event, key string) string {
	for _, kv := range e.Attrs {
		if string(kv.Key) == key {
			return kv.Value.AsString()
		}
	}
	return ""
}

// flattenMessages turns serialized content into indexed per-message
// attributes. The index pointer advances across events so that several
// content events of one direction keep a contiguous message numbering.
func flattenMessages(prefix string, index *int, body, fallbackRole string) []attribute.KeyValue {
	msgs := parseMessages(body, fallbackRole)

	out := make([]attribute.KeyValue, 0, len(msgs)*2)
	for _, m := range msgs {
		out = append(out,
			attribute.String(fmt.Sprintf("%s.%d.%s", prefix, *index, messageRoleField), m.Role),
			attribute.String(fmt.Sprintf("%s.%d.%s", prefix, *index, messageContentField), m.Content),
		)
		*index++
	}

	return out
}

// parseMessages decodes body as a message list. LLM-produced JSON is often
// slightly malformed, so a failed decode is retried after jsonrepair; content
// that is not a message list at all becomes a single message with the
// fallback role.
func parseMessages(body, fallbackRole string) span.Messages {
	if body == "" {
		return nil
	}

	if msgs, ok := decodeMessages(body); ok {
		return msgs
	}

	if looksLikeJSON(body) {
		if repaired, err := jsonrepair.JSONRepair(body); err == nil {
			if msgs, ok := decodeMessages(repaired); ok {
				return msgs
			}
		}
	}

	return span.Messages{{Role: fallbackRole, Content: body}}
}

// decodeMessages attempts a strict decode of body into a message list and
// reports whether the result is usable (at least one message with a role).
func decodeMessages(body string) (span.Messages, bool) {
	var msgs span.Messages
	if err := json.Unmarshal([]byte(body), &msgs); err != nil {
		return nil, false
	}
	if len(msgs) == 0 {
		return nil, false
	}
	for _, m := range msgs {
		if m.Role == "" {
			return nil, false
		}
	}
	return msgs, true
}

// looksLikeJSON is a cheap pre-filter before attempting a repair pass.
func looksLikeJSON(s string) bool {
	trimmed := strings.TrimSpace(s)
	return strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{")
}
