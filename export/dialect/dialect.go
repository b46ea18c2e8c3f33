package dialect

import (
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/semtrace/semtrace/core/span"
)

// Translator converts the neutral attribute/event representation into a
// backend's dialect. Implementations must pass custom.* attributes through
// unchanged and must be safe for concurrent use.
type Translator interface {
	Translate(attrs []attribute.KeyValue, events []span.Event) ([]attribute.KeyValue, []span.Event)
}

// PassThrough is the identity translator for backends that consume the
// neutral gen_ai.* schema natively.
type PassThrough struct{}

var _ Translator = PassThrough{}

// Translate returns its inputs unchanged.
func (PassThrough) Translate(attrs []attribute.KeyValue, events []span.Event) ([]attribute.KeyValue, []span.Event) {
	return attrs, events
}

// Renderer decorates a neutral [span.Renderer] with a translator. Span
// creation stays neutral (the kind marker must remain visible to pipeline
// stages); only the end-of-span rendering is translated.
type Renderer struct {
	inner  span.Renderer
	tr     Translator
	logger *slog.Logger
}

var _ span.Renderer = Renderer{}

// Wrap composes renderer and translator. A nil logger falls back to
// [slog.Default].
func Wrap(inner span.Renderer, tr Translator, logger *slog.Logger) Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return Renderer{inner: inner, tr: tr, logger: logger}
}

// StartSpec delegates to the neutral renderer untranslated.
func (r Renderer) StartSpec(kind span.Kind, name, model string) span.StartSpec {
	return r.inner.StartSpec(kind, name, model)
}

// Render maps the span to the neutral representation and translates it. A
// panicking translator drops this span's rendered data (the span itself is
// still exported, bare) and logs the failure; it never reaches the caller.
func (r Renderer) Render(s *span.Span) (attrs []attribute.KeyValue, events []span.Event) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("semtrace: dialect translation failed, dropping span attributes",
				slog.String("span", s.Name()),
				slog.Any("panic", rec),
			)
			attrs, events = nil, nil
		}
	}()

	attrs, events = r.inner.Render(s)
	attrs, events = r.tr.Translate(attrs, events)

	return attrs, events
}
