package span

import (
	"testing"

	"github.com/semtrace/semtrace/internal/utils"
)

// TestResolveCapture walks the full precedence table: call override over span
// override over tracer default.
func TestResolveCapture(t *testing.T) {
	tests := []struct {
		name         string
		globalDef    bool
		spanOverride *bool
		callOverride *bool
		want         bool
	}{
		{"default off, nothing set", false, nil, nil, false},
		{"default on, nothing set", true, nil, nil, true},
		{"span on beats default off", false, utils.Ptr(true), nil, true},
		{"span off beats default on", true, utils.Ptr(false), nil, false},
		{"call on beats default off", false, nil, utils.Ptr(true), true},
		{"call off beats default on", true, nil, utils.Ptr(false), false},
		{"call off beats span on", false, utils.Ptr(true), utils.Ptr(false), false},
		{"call on beats span off", true, utils.Ptr(false), utils.Ptr(true), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveCapture(tt.globalDef, tt.spanOverride, tt.callOverride)
			if got != tt.want {
				t.Errorf("ResolveCapture(%v, %v, %v) = %v, want %v",
					tt.globalDef, tt.spanOverride, tt.callOverride, got, tt.want)
			}
		})
	}
}
