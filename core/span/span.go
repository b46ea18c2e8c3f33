package span

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/semtrace/semtrace/internal/utils"
)

// ErrorRecord captures the type and message of the error a span ended with.
type ErrorRecord struct {
	// Type is the Go type of the error value, e.g. "*errors.errorString".
	Type string
	// Message is the error's Error() text.
	Message string
}

// Span is the semantic record of one traced operation. It is created through
// [Tracer.Start], mutated by the enrichment API while current, and ended
// exactly once; double-ending and mutation-after-end are tolerated no-ops.
//
// Every Span is bound at creation to exactly one native OpenTelemetry span,
// which receives the rendered attributes and events when the Span ends. The
// parent link is fixed at creation from the caller's context; only the
// children list grows afterwards.
type Span struct {
	tracer    *Tracer
	kind      Kind
	name      string
	model     string
	start     time.Time
	ttfcTimer *utils.Timer
	native    trace.Span
	parent    *Span

	mu              sync.Mutex
	ended           bool
	input           *Content
	output          *Content
	usage           *Usage
	chunks          []Chunk
	ttfc            time.Duration
	errRec          *ErrorRecord
	metadata        map[string]any
	captureOverride *bool
	children        []*Span
}

// --- Read accessors (used by the attribute mapper) ---

// Kind returns the span's semantic kind.
func (s *Span) Kind() Kind { return s.kind }

// Name returns the span's display identifier.
func (s *Span) Name() string { return s.name }

// Model returns the generative model identifier, if any.
func (s *Span) Model() string { return s.model }

// StartTime returns the instant the span was opened.
func (s *Span) StartTime() time.Time { return s.start }

// Parent returns the enclosing span, or nil for a root span. The link never
// changes after creation.
func (s *Span) Parent() *Span { return s.parent }

// Native returns the backing OpenTelemetry span.
func (s *Span) Native() trace.Span { return s.native }

// Logger returns the error-boundary logger of the span's tracer, used by
// collaborating packages when guarding mutations of this span.
func (s *Span) Logger() *slog.Logger { return s.tracer.logger }

// Ended reports whether the span has been closed.
func (s *Span) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

// Input returns a copy of the recorded input content, or nil.
func (s *Span) Input() *Content {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.input == nil {
		return nil
	}
	c := *s.input
	return &c
}

// Output returns a copy of the recorded output content, or nil.
func (s *Span) Output() *Content {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.output == nil {
		return nil
	}
	c := *s.output
	return &c
}

// TokenUsage returns a copy of the recorded token counts, or nil.
func (s *Span) TokenUsage() *Usage {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.usage == nil {
		return nil
	}
	u := *s.usage
	return &u
}

// Chunks returns a copy of the chunk list in emission order.
func (s *Span) Chunks() []Chunk {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Chunk, len(s.chunks))
	copy(out, s.chunks)
	return out
}

// TimeToFirstChunk returns the latency between span start and the first
// emitted chunk, or zero when no chunk was recorded.
func (s *Span) TimeToFirstChunk() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ttfc
}

// Err returns a copy of the error record, or nil for a clean span.
func (s *Span) Err() *ErrorRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.errRec == nil {
		return nil
	}
	e := *s.errRec
	return &e
}

// Metadata returns a copy of the caller-supplied metadata mapping.
func (s *Span) Metadata() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.metadata) == 0 {
		return nil
	}
	out := make(map[string]any, len(s.metadata))
	for k, v := range s.metadata {
		out[k] = v
	}
	return out
}

// Children returns a copy of the child spans in creation order.
func (s *Span) Children() []*Span {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Span, len(s.children))
	copy(out, s.children)
	return out
}

// --- Mutators (used by the enrichment API and the callable wrapper) ---

// capture resolves the effective content-capture decision for one enrichment
// call against the three precedence levels.
func (s *Span) capture(callOverride *bool) bool {
	return ResolveCapture(s.tracer.capture, s.captureOverride, callOverride)
}

// SetInput records the span's input payload. Type tag and size are recorded
// unconditionally; the literal body only when capture resolves true.
func (s *Span) SetInput(v any, callOverride *bool) {
	c := newContent(v, s.capture(callOverride))

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	s.input = &c
}

// SetOutput records the span's output payload, with the same capture
// semantics as [Span.SetInput].
func (s *Span) SetOutput(v any, callOverride *bool) {
	c := newContent(v, s.capture(callOverride))

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	s.output = &c
}

// SetUsage records token counts. A zero total is derived from the components;
// an explicit total wins over the derived sum.
func (s *Span) SetUsage(input, output, total int) {
	u := resolveUsage(input, output, total)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	s.usage = &u
}

// AppendChunk records one streamed element. The first chunk also captures the
// time-to-first-chunk measurement. Captured chunk bodies are truncated to
// [utils.DefaultMaxStringLength] so that long streams cannot grow a span
// without bound.
func (s *Span) AppendChunk(v any, callOverride *bool) {
	c := newContent(v, s.capture(callOverride))

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}

	if len(s.chunks) == 0 {
		s.ttfcTimer.Stop()
		s.ttfc = s.ttfcTimer.GetDuration()
	}

	s.chunks = append(s.chunks, Chunk{
		Index:    len(s.chunks),
		TypeTag:  c.TypeTag,
		Size:     c.Size,
		Body:     utils.TruncateString(c.Body, utils.DefaultMaxStringLength),
		Captured: c.Captured,
		At:       time.Now(),
	})
}

// RecordError records err's type and message and flags the span as failed.
// It never swallows the error: the caller stays responsible for returning or
// re-panicking it.
func (s *Span) RecordError(err error) {
	if err == nil {
		return
	}

	rec := newErrorRecord(err)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	s.errRec = &rec
}

// SetMetadata stores one caller-supplied scalar under the reserved custom
// namespace. Keys are recorded as given; the mapper prefixes them with
// [CustomPrefix].
func (s *Span) SetMetadata(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	if s.metadata == nil {
		s.metadata = make(map[string]any)
	}
	s.metadata[key] = value
}

// addChild appends a newly created child span. Called by [Tracer.Start] only.
func (s *Span) addChild(child *Span) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.children = append(s.children, child)
}

// --- Lifecycle ---

// End closes the span exactly once: it records appErr (when non-nil), renders
// the neutral attribute set through the tracer's renderer, applies the
// translated result to the native span, sets the status, and ends the native
// span. Subsequent calls are no-ops. Rendering runs inside the telemetry
// error boundary; a renderer failure costs attributes, never the span close
// and never an error into the application.
func (s *Span) End(appErr error) {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.ended = true
	if appErr != nil && s.errRec == nil {
		rec := newErrorRecord(appErr)
		s.errRec = &rec
	}
	errRec := s.errRec
	s.mu.Unlock()

	utils.Guard(s.tracer.logger, "span.render", func() {
		attrs, events := s.tracer.renderer.Render(s)
		if len(attrs) > 0 {
			s.native.SetAttributes(attrs...)
		}
		for _, e := range events {
			opts := []trace.EventOption{trace.WithAttributes(e.Attrs...)}
			if !e.Time.IsZero() {
				opts = append(opts, trace.WithTimestamp(e.Time))
			}
			s.native.AddEvent(e.Name, opts...)
		}
	})

	utils.Guard(s.tracer.logger, "span.end", func() {
		if errRec != nil {
			s.native.SetStatus(codes.Error, errRec.Message)
		} else {
			s.native.SetStatus(codes.Ok, "")
		}
		s.native.End()
	})
}

// newErrorRecord builds the type/message record for err.
func newErrorRecord(err error) ErrorRecord {
	return ErrorRecord{
		Type:    fmt.Sprintf("%T", err),
		Message: err.Error(),
	}
}
