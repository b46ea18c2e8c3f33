package pipeline

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/semtrace/semtrace/config"
	"github.com/semtrace/semtrace/core/span"
)

// ========== Test harness ==========

// newTestChain builds a provider whose only processor is a chain over an
// in-memory exporter. Background flushing is disabled so tests control every
// flush.
func newTestChain(t *testing.T, o Options) (*sdktrace.TracerProvider, *Chain, *tracetest.InMemoryExporter) {
	t.Helper()

	exp := tracetest.NewInMemoryExporter()
	o.Exporter = exp

	chain := newChain(o)
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(chain))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	return tp, chain, exp
}

// endSpan opens and immediately ends one native span, optionally carrying the
// semantic-kind marker.
func endSpan(tp *sdktrace.TracerProvider, name string, marked bool) {
	var opts []trace.SpanStartOption
	if marked {
		opts = append(opts, trace.WithAttributes(attribute.String(span.AttrKind, "generation")))
	}
	_, s := tp.Tracer("test").Start(context.Background(), name, opts...)
	s.End()
}

// ========== Filter stage ==========

// TestChain_FilterEnabled verifies that only marker-carrying spans reach the
// exporter when filtering is on.
func TestChain_FilterEnabled(t *testing.T) {
	tp, chain, exp := newTestChain(t, Options{Filter: true, BatchSize: 100})

	endSpan(tp, "instrumented", true)
	endSpan(tp, "http request", false)
	endSpan(tp, "db query", false)

	if err := chain.ForceFlush(context.Background()); err != nil {
		t.Fatal(err)
	}

	spans := exp.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("exported %d spans, want 1", len(spans))
	}
	if spans[0].Name != "instrumented" {
		t.Errorf("exported span = %q", spans[0].Name)
	}
}

// TestChain_FilterDisabled verifies the default: every completed span passes.
func TestChain_FilterDisabled(t *testing.T) {
	tp, chain, exp := newTestChain(t, Options{BatchSize: 100})

	endSpan(tp, "instrumented", true)
	endSpan(tp, "http request", false)

	if err := chain.ForceFlush(context.Background()); err != nil {
		t.Fatal(err)
	}

	if got := len(exp.GetSpans()); got != 2 {
		t.Errorf("exported %d spans, want 2", got)
	}
}

// ========== Injector stage ==========

// TestChain_Injector verifies that every span is stamped with the session
// identifier and the configured static attributes, filtered spans included
// (injection happens at creation, before any filtering decision exists).
func TestChain_Injector(t *testing.T) {
	tp, chain, exp := newTestChain(t, Options{
		BatchSize:        100,
		InjectAttributes: []attribute.KeyValue{attribute.String("deployment.environment", "test")},
	})

	endSpan(tp, "first", true)
	endSpan(tp, "second", false)

	if err := chain.ForceFlush(context.Background()); err != nil {
		t.Fatal(err)
	}

	spans := exp.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("exported %d spans, want 2", len(spans))
	}

	var sessions []string
	for _, stub := range spans {
		var session, env string
		for _, kv := range stub.Attributes {
			switch string(kv.Key) {
			case span.AttrSessionID:
				session = kv.Value.AsString()
			case "deployment.environment":
				env = kv.Value.AsString()
			}
		}
		if session == "" {
			t.Errorf("span %q missing session identifier", stub.Name)
		}
		if env != "test" {
			t.Errorf("span %q missing injected attribute", stub.Name)
		}
		sessions = append(sessions, session)
	}

	if sessions[0] != sessions[1] {
		t.Errorf("session identifiers differ within one chain: %v", sessions)
	}
}

// ========== Buffer stage ==========

// TestBuffer_SizeTrigger verifies that filling the batch flushes it as a unit
// while a partial batch stays pending.
func TestBuffer_SizeTrigger(t *testing.T) {
	tp, _, exp := newTestChain(t, Options{BatchSize: 2})

	endSpan(tp, "a", false)
	if got := len(exp.GetSpans()); got != 0 {
		t.Fatalf("partial batch flushed early: %d spans", got)
	}

	endSpan(tp, "b", false)
	if got := len(exp.GetSpans()); got != 2 {
		t.Fatalf("full batch not flushed: %d spans", got)
	}

	endSpan(tp, "c", false)
	if got := len(exp.GetSpans()); got != 2 {
		t.Errorf("next partial batch flushed early: %d spans", got)
	}
}

// TestBuffer_ShutdownFlushes verifies that shutdown drains the pending batch
// before stopping.
func TestBuffer_ShutdownFlushes(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	chain := newChain(Options{Exporter: exp, BatchSize: 100})
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(chain))

	endSpan(tp, "pending", false)

	if err := tp.Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := len(exp.GetSpans()); got != 1 {
		t.Errorf("shutdown exported %d spans, want 1", got)
	}
}

// TestBuffer_ExportFailure verifies the adapter error boundary: a failing
// exporter is logged, the spans are dropped, and nothing propagates.
func TestBuffer_ExportFailure(t *testing.T) {
	buf := &bytes.Buffer{}
	failing := &failingExporter{}
	chain := newChain(Options{
		Exporter:  failing,
		BatchSize: 1,
		Logger:    slog.New(slog.NewTextHandler(buf, nil)),
	})
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(chain))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	endSpan(tp, "doomed", false)

	if !strings.Contains(buf.String(), "refused") {
		t.Errorf("expected the export error in the log, got: %s", buf.String())
	}
}

type failingExporter struct{}

func (*failingExporter) ExportSpans(context.Context, []sdktrace.ReadOnlySpan) error {
	return errors.New("collector refused the batch")
}

func (*failingExporter) Shutdown(context.Context) error { return nil }

// ========== Deployment modes ==========

// TestNew_OwnedProvider verifies the owned-mode wiring: the provider carries
// the chain and its shutdown drains the buffer.
func TestNew_OwnedProvider(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	cfg := &config.Config{
		ServiceName: "test-svc",
		Backend:     config.BackendOTLPHTTP,
		BatchSize:   100,
	}

	tp, _, err := New(context.Background(), cfg, Options{Exporter: exp})
	if err != nil {
		t.Fatal(err)
	}
	if !Attached(tp) {
		t.Error("owned provider should be tracked as attached")
	}

	endSpan(tp, "work", false)
	if err := tp.Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := len(exp.GetSpans()); got != 1 {
		t.Errorf("shutdown exported %d spans, want 1", got)
	}
}

// TestAttach verifies foreign-mode attachment and the double-attach guard.
func TestAttach(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	buf := &bytes.Buffer{}
	o := Options{Exporter: exp, Logger: slog.New(slog.NewTextHandler(buf, nil))}

	first, err := Attach(tp, o)
	if err != nil {
		t.Fatal(err)
	}
	if !Attached(tp) {
		t.Error("Attached() = false after Attach")
	}
	if buf.Len() != 0 {
		t.Errorf("first attach logged: %s", buf.String())
	}

	second, err := Attach(tp, o)
	if err != nil {
		t.Fatal(err)
	}
	if second != first {
		t.Error("second attach should return the existing chain")
	}
	if !strings.Contains(buf.String(), "already") {
		t.Errorf("expected a double-attach warning, got: %s", buf.String())
	}

	// One chain means one injector: spans carry exactly one session value.
	endSpan(tp, "once", false)
	if err := first.ForceFlush(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := len(exp.GetSpans()); got != 1 {
		t.Errorf("exported %d spans, want 1", got)
	}
}

// TestAttach_Errors verifies the attach preconditions.
func TestAttach_Errors(t *testing.T) {
	if _, err := Attach(nil, Options{Exporter: tracetest.NewInMemoryExporter()}); err == nil {
		t.Error("attach to a nil provider should fail")
	}

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	if _, err := Attach(tp, Options{}); err == nil {
		t.Error("attach without an exporter should fail")
	}
}

// ========== Exporter construction ==========

// TestNewExporter verifies backend selection, including the rejection of
// backends that have no exporter.
func TestNewExporter(t *testing.T) {
	ctx := context.Background()

	if _, err := NewExporter(ctx, &config.Config{Backend: config.BackendNone}); err == nil {
		t.Error("BackendNone should be rejected")
	}

	exp, err := NewExporter(ctx, &config.Config{
		Backend:  config.BackendOTLPHTTP,
		Endpoint: "http://localhost:4318",
		Insecure: true,
	})
	if err != nil {
		t.Fatalf("http exporter: %v", err)
	}
	_ = exp.Shutdown(ctx)

	exp, err = NewExporter(ctx, &config.Config{
		Backend:  config.BackendOTLPGRPC,
		Endpoint: "localhost:4317",
		Insecure: true,
		Headers:  map[string]string{"authorization": "Bearer t"},
	})
	if err != nil {
		t.Fatalf("grpc exporter: %v", err)
	}
	_ = exp.Shutdown(ctx)
}
