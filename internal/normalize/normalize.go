// CCATrack - Anonymous Usage Tracking and Aggregate Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ccatrack

// Package normalize converts untrusted client payload fields into canonical
// values. Every function is pure and total: any input has a defined output,
// nothing returns an error, and malformed shapes degrade to empty defaults
// instead of failing. Callers decide what an empty result means (the ingest
// path maps "" to NULL before storage; the aggregation path maps it to the
// "(blank)" grouping sentinel).
package normalize

import (
	"fmt"
	"strconv"
	"strings"
)

// BlankKey is the grouping sentinel for absent or blank values. It exists
// only inside aggregation output and is never persisted.
const BlankKey = "(blank)"

// Scalar converts an arbitrary decoded JSON value to a trimmed string.
// nil yields the empty string; any other value yields its string
// representation with surrounding whitespace stripped.
func Scalar(v any) string {
	if v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		// JSON numbers decode as float64; render integral values without
		// a trailing ".0" so "grade": 3 groups with "grade": "3".
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// List converts an arbitrary decoded JSON value to a slice. Anything that
// is not a JSON array yields an empty slice; malformed client input is
// silently dropped, never rejected.
func List(v any) []any {
	if items, ok := v.([]any); ok {
		return items
	}
	return []any{}
}

// Key is the aggregation-time grouping form of a stored value: like Scalar,
// but an empty result becomes the BlankKey sentinel so absent and blank
// values share one bucket.
func Key(v any) string {
	if s := Scalar(v); s != "" {
		return s
	}
	return BlankKey
}

// StringList renders every element of a decoded JSON array through Scalar.
// Non-array input yields an empty slice.
func StringList(v any) []string {
	items := List(v)
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, Scalar(item))
	}
	return out
}
