package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/semtrace/semtrace/internal/utils"
)

// buffer is the innermost chain stage: a mutex-guarded batch of completed
// spans flushed to the exporter as a unit — when full, on the background
// interval, on ForceFlush, and on Shutdown. It is the one piece of shared
// mutable state written by every completed span across every goroutine.
type buffer struct {
	exporter sdktrace.SpanExporter
	max      int
	logger   *slog.Logger

	mu    sync.Mutex
	batch []sdktrace.ReadOnlySpan

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func newBuffer(exporter sdktrace.SpanExporter, max int, interval time.Duration, logger *slog.Logger) *buffer {
	b := &buffer{
		exporter: exporter,
		max:      max,
		logger:   logger,
		batch:    make([]sdktrace.ReadOnlySpan, 0, max),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	go b.run(interval)

	return b
}

// run flushes partially filled batches on the configured interval until the
// buffer is stopped. A zero interval disables time-based flushing.
func (b *buffer) run(interval time.Duration) {
	defer close(b.done)

	if interval <= 0 {
		<-b.stop
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			b.flush(context.Background())
		case <-b.stop:
			return
		}
	}
}

// append adds one completed span and flushes when the batch is full.
func (b *buffer) append(s sdktrace.ReadOnlySpan) {
	b.mu.Lock()
	b.batch = append(b.batch, s)
	full := len(b.batch) >= b.max
	b.mu.Unlock()

	if full {
		b.flush(context.Background())
	}
}

// flush exports the pending batch as a unit. Export failures are logged and
// the affected spans dropped; they never propagate past the adapter
// boundary.
func (b *buffer) flush(ctx context.Context) {
	b.mu.Lock()
	if len(b.batch) == 0 {
		b.mu.Unlock()
		return
	}
	pending := b.batch
	b.batch = make([]sdktrace.ReadOnlySpan, 0, b.max)
	b.mu.Unlock()

	utils.GuardErr(b.logger, "pipeline.export", func() error {
		return b.exporter.ExportSpans(ctx, pending)
	})
}

// shutdown stops the interval flusher, flushes the remaining batch, and
// shuts the exporter down.
func (b *buffer) shutdown(ctx context.Context) error {
	b.stopOnce.Do(func() {
		close(b.stop)
	})
	<-b.done

	b.flush(ctx)

	return b.exporter.Shutdown(ctx)
}
