package config

import (
	"errors"
	"fmt"
	"slices"
)

// Backend identifies the transport used by the owned-provider pipeline to
// ship spans.
type Backend string

const (
	// BackendOTLPHTTP exports over OTLP/HTTP (protobuf).
	BackendOTLPHTTP Backend = "otlp-http"
	// BackendOTLPGRPC exports over OTLP/gRPC.
	BackendOTLPGRPC Backend = "otlp-grpc"
	// BackendNone disables export entirely; spans are created against a
	// no-op provider. Useful in tests and local development.
	BackendNone Backend = "none"
)

// Dialect selects how neutral attributes are translated before export.
type Dialect string

const (
	// DialectPassThrough keeps the neutral gen_ai.* schema.
	DialectPassThrough Dialect = "passthrough"
	// DialectInference translates to the OpenInference-style llm.* schema.
	DialectInference Dialect = "inference"
)

// Mode selects how the core treats unknown semantic kinds and, at setup
// time, invalid configuration.
type Mode string

const (
	// ModeStrict surfaces configuration errors at setup and rejects spans
	// with unknown kinds.
	ModeStrict Mode = "strict"
	// ModePermissive degrades invalid setup to a no-op provider and
	// downgrades unknown kinds to the generic custom kind.
	ModePermissive Mode = "permissive"
)

// ErrEmpty is returned when no configuration could be located at all. Unlike
// other validation failures, this one is surfaced even in permissive mode.
var ErrEmpty = errors.New("semtrace: no configuration found")

// Config is the validated configuration consumed by the instrumentation
// core. Field tags drive [Load]'s environment parsing.
type Config struct {
	// ServiceName labels the exporting resource.
	ServiceName string `env:"SERVICE_NAME" envDefault:"semtrace"`

	// Backend selects the export transport in owned-provider mode.
	Backend Backend `env:"BACKEND" envDefault:"otlp-http"`

	// Endpoint is the collector endpoint URL (http backends) or host:port
	// (grpc backends). Required unless Backend is "none".
	Endpoint string `env:"ENDPOINT"`

	// Headers are added to every export request (e.g. authorization).
	Headers map[string]string `env:"HEADERS"`

	// Insecure disables transport security for the exporter connection.
	Insecure bool `env:"INSECURE"`

	// CaptureContent is the global default of the privacy resolver: whether
	// literal inputs, outputs, and chunks are recorded as events.
	CaptureContent bool `env:"CAPTURE_CONTENT"`

	// Mode is the validation mode: "strict" or "permissive".
	Mode Mode `env:"MODE" envDefault:"permissive"`

	// Dialect selects the attribute translation: "passthrough" or
	// "inference".
	Dialect Dialect `env:"DIALECT" envDefault:"passthrough"`

	// FilterGenAI, when true, exports only spans carrying the semantic-kind
	// marker attribute; all other spans produced by the same provider are
	// skipped. Filtered spans' children lose their parent link at the
	// backend, which is the documented trade-off of this mode.
	FilterGenAI bool `env:"FILTER_GENAI"`

	// Instrumentations toggles optional auto-instrumentation integrations
	// by name. Unknown names are rejected by Validate.
	Instrumentations []string `env:"INSTRUMENTATIONS"`

	// BatchSize is the export buffer capacity; a full buffer flushes as a
	// unit.
	BatchSize int `env:"BATCH_SIZE" envDefault:"128"`

	// FlushIntervalSeconds is the background flush period for a partially
	// filled buffer. Zero disables interval flushing.
	FlushIntervalSeconds int `env:"FLUSH_INTERVAL_SECONDS" envDefault:"5"`
}

// knownInstrumentations is the closed set of toggleable integrations.
var knownInstrumentations = []string{"http", "grpc"}

// Validate checks cross-field consistency. It reports the first problem
// found; callers in permissive mode may degrade instead of failing (see the
// root package's Init).
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendOTLPHTTP, BackendOTLPGRPC, BackendNone:
	default:
		return fmt.Errorf("semtrace: unknown backend %q", c.Backend)
	}

	if c.Backend != BackendNone && c.Endpoint == "" {
		return fmt.Errorf("semtrace: backend %q requires an endpoint", c.Backend)
	}

	switch c.Mode {
	case ModeStrict, ModePermissive:
	default:
		return fmt.Errorf("semtrace: unknown mode %q", c.Mode)
	}

	switch c.Dialect {
	case DialectPassThrough, DialectInference:
	default:
		return fmt.Errorf("semtrace: unknown dialect %q", c.Dialect)
	}

	for _, name := range c.Instrumentations {
		if !slices.Contains(knownInstrumentations, name) {
			return fmt.Errorf("semtrace: unknown instrumentation %q", name)
		}
	}

	if c.BatchSize <= 0 {
		return fmt.Errorf("semtrace: batch size must be positive, got %d", c.BatchSize)
	}
	if c.FlushIntervalSeconds < 0 {
		return fmt.Errorf("semtrace: flush interval must not be negative, got %d", c.FlushIntervalSeconds)
	}

	return nil
}
