package mapper

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/semtrace/semtrace/core/span"
)

// kindSpec is one row of the kind table: the canonical operation name and
// the native span classification for a semantic kind.
type kindSpec struct {
	operation string
	spanKind  trace.SpanKind
}

// kindTable maps every semantic kind to its neutral operation name and
// client/internal classification. The set is closed; unknown kinds never
// reach the mapper because the span factory validates them first.
var kindTable = map[span.Kind]kindSpec{
	span.KindGeneration: {operation: "chat", spanKind: trace.SpanKindClient},
	span.KindEmbedding:  {operation: "embeddings", spanKind: trace.SpanKindClient},
	span.KindTool:       {operation: "execute_tool", spanKind: trace.SpanKindInternal},
	span.KindAgent:      {operation: "invoke_agent", spanKind: trace.SpanKindInternal},
	span.KindRetrieval:  {operation: "retrieve", spanKind: trace.SpanKindInternal},
	span.KindTask:       {operation: "task", spanKind: trace.SpanKindInternal},
	span.KindCustom:     {operation: "custom", spanKind: trace.SpanKindInternal},
}

// Operation returns the canonical operation name for k ("custom" when k is
// not in the table, which validation makes unreachable in practice).
func Operation(k span.Kind) string {
	if spec, ok := kindTable[k]; ok {
		return spec.operation
	}
	return "custom"
}

// Mapper implements [span.Renderer] over the neutral gen_ai.* schema.
type Mapper struct{}

// New returns the neutral attribute mapper.
func New() Mapper {
	return Mapper{}
}

var _ span.Renderer = Mapper{}

// StartSpec names and classifies the native span and supplies the
// creation-time attributes: the kind marker (so pipeline stages can identify
// GenAI-relevant spans before completion) and the model when known.
func (Mapper) StartSpec(kind span.Kind, name, model string) span.StartSpec {
	spec, ok := kindTable[kind]
	if !ok {
		spec = kindSpec{operation: "custom", spanKind: trace.SpanKindInternal}
	}

	attrs := []attribute.KeyValue{
		attribute.String(span.AttrKind, string(kind)),
		attribute.String(span.AttrOperationName, spec.operation),
	}
	if model != "" {
		attrs = append(attrs, attribute.String(span.AttrRequestModel, model))
	}

	return span.StartSpec{
		Name:       displayName(spec.operation, name, model),
		SpanKind:   spec.spanKind,
		Attributes: attrs,
	}
}

// Render produces the flat neutral attribute set and the content events for
// a completed (or in-flight) semantic span.
func (Mapper) Render(s *span.Span) ([]attribute.KeyValue, []span.Event) {
	spec := kindTable[s.Kind()]

	attrs := []attribute.KeyValue{
		attribute.String(span.AttrKind, string(s.Kind())),
		attribute.String(span.AttrOperationName, spec.operation),
	}
	if model := s.Model(); model != "" {
		attrs = append(attrs, attribute.String(span.AttrRequestModel, model))
	}

	if u := s.TokenUsage(); u != nil {
		attrs = append(attrs,
			attribute.Int(span.AttrUsageInputTokens, u.InputTokens),
			attribute.Int(span.AttrUsageOutputTokens, u.OutputTokens),
			attribute.Int(span.AttrUsageTotalTokens, u.TotalTokens),
		)
	}

	var events []span.Event

	if in := s.Input(); in != nil {
		attrs = append(attrs,
			attribute.String(span.AttrInputType, in.TypeTag),
			attribute.Int(span.AttrInputSize, in.Size),
		)
		if in.Captured {
			events = append(events, span.Event{
				Name:  span.EventPrompt,
				Attrs: []attribute.KeyValue{attribute.String(span.AttrPromptBody, in.Body)},
			})
		}
	}

	if out := s.Output(); out != nil {
		attrs = append(attrs,
			attribute.String(span.AttrOutputType, out.TypeTag),
			attribute.Int(span.AttrOutputSize, out.Size),
		)
		if out.Captured {
			events = append(events, span.Event{
				Name:  span.EventCompletion,
				Attrs: []attribute.KeyValue{attribute.String(span.AttrCompletionBody, out.Body)},
			})
		}
	}

	if chunks := s.Chunks(); len(chunks) > 0 {
		attrs = append(attrs,
			attribute.Int(span.AttrChunkCount, len(chunks)),
			attribute.Float64(span.AttrTimeToFirstChunk, s.TimeToFirstChunk().Seconds()),
		)
		for _, c := range chunks {
			if !c.Captured {
				continue
			}
			events = append(events, span.Event{
				Name: span.EventChunk,
				Time: c.At,
				Attrs: []attribute.KeyValue{
					attribute.Int(span.AttrChunkIndex, c.Index),
					attribute.String(span.AttrChunkBody, c.Body),
				},
			})
		}
	}

	if errRec := s.Err(); errRec != nil {
		attrs = append(attrs, attribute.String(span.AttrErrorType, errRec.Type))
	}

	for k, v := range s.Metadata() {
		attrs = append(attrs, customAttr(k, v))
	}

	return attrs, events
}

// customAttr converts one caller-supplied metadata scalar into an attribute
// under the reserved custom namespace.
func customAttr(key string, value any) attribute.KeyValue {
	k := span.CustomPrefix + key
	switch x := value.(type) {
	case string:
		return attribute.String(k, x)
	case bool:
		return attribute.Bool(k, x)
	case int:
		return attribute.Int(k, x)
	case int64:
		return attribute.Int64(k, x)
	case float64:
		return attribute.Float64(k, x)
	default:
		return attribute.String(k, fmt.Sprint(x))
	}
}

// displayName formats the native span name as "{operation} {model-or-name}".
func displayName(operation, name, model string) string {
	label := model
	if label == "" {
		label = name
	}
	if label == "" {
		return operation
	}
	return fmt.Sprintf("%s %s", operation, label)
}
