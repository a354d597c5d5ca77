// CCATrack - Anonymous Usage Tracking and Aggregate Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ccatrack

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func captureInit(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })
	return &buf
}

func TestWithComponent(t *testing.T) {
	buf := captureInit(t)

	log := WithComponent("store")
	log.Info().Msg("Opening event store")

	out := buf.String()
	if !strings.Contains(out, `"component":"store"`) {
		t.Errorf("component field missing from output: %s", out)
	}
	if !strings.Contains(out, "Opening event store") {
		t.Errorf("message missing from output: %s", out)
	}
}

func TestCtx_RequestID(t *testing.T) {
	buf := captureInit(t)

	ctx := ContextWithRequestID(context.Background(), "req-123")
	Ctx(ctx).Info().Msg("handled")

	if !strings.Contains(buf.String(), `"request_id":"req-123"`) {
		t.Errorf("request_id missing from output: %s", buf.String())
	}
}

func TestCtx_NoRequestID(t *testing.T) {
	buf := captureInit(t)

	Ctx(context.Background()).Info().Msg("handled")

	if strings.Contains(buf.String(), "request_id") {
		t.Errorf("request_id present without one in context: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"debug", "debug"},
		{"WARN", "warn"},
		{"warning", "warn"},
		{"nonsense", "info"},
		{"", "info"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input).String(); got != tt.want {
				t.Errorf("parseLevel(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
