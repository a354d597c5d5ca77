// CCATrack - Anonymous Usage Tracking and Aggregate Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ccatrack

package models

// Bucket is one {key, count} pair within a distribution.
type Bucket struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// StatsSummary is the full aggregate view served by GET /stats.
//
// Each distribution is sorted by count descending, then key ascending
// case-insensitively, so output is deterministic for identical event sets.
// TopClicked is the exception: it is a top-10 truncation of the raw-key
// click table ordered by count only, with tie order left to the store
// engine.
type StatsSummary struct {
	TotalEvents     int `json:"totalEvents"`
	GenerateEvents  int `json:"generateEvents"`
	ShortlistEvents int `json:"shortlistEvents"`

	Categories    []Bucket `json:"categories"`
	ActivityTypes []Bucket `json:"activityTypes"`
	Grades        []Bucket `json:"grades"`
	Genders       []Bucket `json:"genders"`
	Interests     []Bucket `json:"interests"`
	Shortlisted   []Bucket `json:"shortlisted"`

	TopClicked []Bucket `json:"topClicked"`
}
