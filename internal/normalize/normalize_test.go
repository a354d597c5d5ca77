// CCATrack - Anonymous Usage Tracking and Aggregate Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ccatrack

package normalize

import (
	"reflect"
	"testing"
)

func TestScalar(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"nil", nil, ""},
		{"plain string", "Sports", "Sports"},
		{"whitespace trimmed", "  Sports  ", "Sports"},
		{"whitespace only", "   ", ""},
		{"empty string", "", ""},
		{"integral number", float64(3), "3"},
		{"fractional number", 3.5, "3.5"},
		{"zero", float64(0), "0"},
		{"negative number", -2.0, "-2"},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Scalar(tt.input); got != tt.want {
				t.Errorf("Scalar(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestScalar_NumericGradeGroupsWithString(t *testing.T) {
	// "grade": 3 and "grade": "3" must normalize to the same value
	if Scalar(float64(3)) != Scalar("3") {
		t.Errorf("numeric and string grades diverge: %q vs %q", Scalar(float64(3)), Scalar("3"))
	}
}

func TestList(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  int
	}{
		{"nil", nil, 0},
		{"string", "not a list", 0},
		{"number", 42.0, 0},
		{"object", map[string]any{"a": 1}, 0},
		{"empty array", []any{}, 0},
		{"array", []any{"a", "b", "c"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := List(tt.input)
			if got == nil {
				t.Fatal("List returned nil, want non-nil slice")
			}
			if len(got) != tt.want {
				t.Errorf("len(List(%v)) = %d, want %d", tt.input, len(got), tt.want)
			}
		})
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"nil becomes sentinel", nil, BlankKey},
		{"empty becomes sentinel", "", BlankKey},
		{"whitespace becomes sentinel", "  ", BlankKey},
		{"value passes through", "Sports", "Sports"},
		{"value trimmed", " Sports ", "Sports"},
		{"number rendered", float64(5), "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Key(tt.input); got != tt.want {
				t.Errorf("Key(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStringList(t *testing.T) {
	got := StringList([]any{" coding ", float64(7), nil, "art"})
	want := []string{"coding", "7", "", "art"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("StringList = %v, want %v", got, want)
	}
}

func TestStringList_NonArray(t *testing.T) {
	got := StringList("oops")
	if got == nil || len(got) != 0 {
		t.Errorf("StringList(non-array) = %v, want empty slice", got)
	}
}
