package semtrace

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/semtrace/semtrace/config"
	"github.com/semtrace/semtrace/core/enrich"
	"github.com/semtrace/semtrace/core/span"
	"github.com/semtrace/semtrace/core/wrap"
)

// ========== Init ==========

// TestInit_BackendNone verifies the disabled deployment: setup succeeds, spans
// are created but never exported, and shutdown is inert.
func TestInit_BackendNone(t *testing.T) {
	h, err := Init(context.Background(), &config.Config{
		Backend: config.BackendNone,
		Mode:    config.ModePermissive,
		Dialect: config.DialectPassThrough,
	})
	if err != nil {
		t.Fatal(err)
	}
	if h.Tracer == nil {
		t.Fatal("handle carries no tracer")
	}

	_, s := h.Tracer.Start(context.Background(), KindTask, span.StartOptions{Name: "noop"})
	if s == nil {
		t.Fatal("disabled deployment should still create (inert) spans")
	}
	s.End(nil)

	if err := h.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown on a degraded handle = %v", err)
	}
}

// TestInit_InvalidStrict verifies that strict mode surfaces configuration
// errors at setup.
func TestInit_InvalidStrict(t *testing.T) {
	_, err := Init(context.Background(), &config.Config{
		Backend: "kafka",
		Mode:    config.ModeStrict,
		Dialect: config.DialectPassThrough,
	})
	if err == nil || !strings.Contains(err.Error(), "unknown backend") {
		t.Errorf("Init() = %v, want the validation error", err)
	}
}

// TestInit_InvalidPermissive verifies the degrade path: setup succeeds with a
// warning, spans go nowhere, and the application keeps working.
func TestInit_InvalidPermissive(t *testing.T) {
	buf := &bytes.Buffer{}

	h, err := Init(context.Background(), &config.Config{
		Backend: "kafka",
		Mode:    config.ModePermissive,
		Dialect: config.DialectPassThrough,
	}, WithLogger(slog.New(slog.NewTextHandler(buf, nil))))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "degrading") {
		t.Errorf("expected a degrade warning, got: %s", buf.String())
	}

	echo := wrap.Func(KindTask, func(_ context.Context, s string) (string, error) {
		return s, nil
	}, wrap.WithTracer(h.Tracer))
	out, err := echo(context.Background(), "still works")
	if err != nil || out != "still works" {
		t.Errorf("wrapped callable on a degraded handle = %q, %v", out, err)
	}
}

// TestInit_EmptyEnvironment verifies that a nil configuration with no
// SEMTRACE_ variables fails with the dedicated error even in permissive
// setups: there is nothing to degrade to.
func TestInit_EmptyEnvironment(t *testing.T) {
	_, err := Init(context.Background(), nil)
	if !errors.Is(err, config.ErrEmpty) {
		t.Errorf("Init(nil) = %v, want config.ErrEmpty", err)
	}
}

// ========== Attach ==========

// TestAttach_EndToEnd verifies the foreign-provider deployment: spans created
// through wrapped callables land on the host's provider, enriched and
// rendered.
func TestAttach_EndToEnd(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	tracer, err := Attach(tp, &config.Config{
		Mode:           config.ModePermissive,
		Dialect:        config.DialectPassThrough,
		CaptureContent: true,
	}, WithExporter(exp))
	if err != nil {
		t.Fatal(err)
	}

	generate := wrap.Func(KindGeneration, func(ctx context.Context, prompt string) (string, error) {
		enrich.SetInput(ctx, prompt)
		enrich.SetOutput(ctx, "hello")
		enrich.SetTokens(ctx, 3, 1, 0)
		return "hello", nil
	}, wrap.WithTracer(tracer), wrap.WithModel("gpt-4o"))

	if _, err := generate(context.Background(), "say hello"); err != nil {
		t.Fatal(err)
	}

	if err := tp.ForceFlush(context.Background()); err != nil {
		t.Fatal(err)
	}

	spans := exp.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("exported %d spans, want 1", len(spans))
	}
	stub := spans[0]
	if stub.Name != "chat gpt-4o" {
		t.Errorf("span name = %q", stub.Name)
	}

	var hasKind, hasSession, hasTokens bool
	for _, kv := range stub.Attributes {
		switch string(kv.Key) {
		case span.AttrKind:
			hasKind = true
		case span.AttrSessionID:
			hasSession = true
		case span.AttrUsageTotalTokens:
			hasTokens = kv.Value.AsInt64() == 4
		}
	}
	if !hasKind || !hasSession || !hasTokens {
		t.Errorf("attributes incomplete (kind=%v session=%v tokens=%v): %v",
			hasKind, hasSession, hasTokens, stub.Attributes)
	}

	var hasPrompt, hasCompletion bool
	for _, e := range stub.Events {
		switch e.Name {
		case span.EventPrompt:
			hasPrompt = true
		case span.EventCompletion:
			hasCompletion = true
		}
	}
	if !hasPrompt || !hasCompletion {
		t.Errorf("content events incomplete: %v", stub.Events)
	}
}

// TestAttach_InferenceDialect verifies that the translating dialect reaches
// the exported attributes end to end.
func TestAttach_InferenceDialect(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	tracer, err := Attach(tp, &config.Config{
		Mode:           config.ModePermissive,
		Dialect:        config.DialectInference,
		CaptureContent: true,
	}, WithExporter(exp))
	if err != nil {
		t.Fatal(err)
	}

	ctx, s := tracer.Start(context.Background(), KindGeneration, span.StartOptions{
		Name:  "gen",
		Model: "gpt-4o",
	})
	enrich.SetInput(ctx, "hi")
	s.End(nil)

	if err := tp.ForceFlush(context.Background()); err != nil {
		t.Fatal(err)
	}

	spans := exp.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("exported %d spans, want 1", len(spans))
	}

	var spanKind, content string
	for _, kv := range spans[0].Attributes {
		switch string(kv.Key) {
		case "openinference.span.kind":
			spanKind = kv.Value.AsString()
		case "llm.input_messages.0.message.content":
			content = kv.Value.AsString()
		}
	}
	if spanKind != "LLM" {
		t.Errorf("openinference.span.kind = %q, want LLM", spanKind)
	}
	if content != "hi" {
		t.Errorf("flattened input content = %q, want %q", content, "hi")
	}
}
