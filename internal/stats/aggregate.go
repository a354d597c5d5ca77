// CCATrack - Anonymous Usage Tracking and Aggregate Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ccatrack

// Package stats turns the raw event log into sorted frequency
// distributions. Aggregation is a deterministic pure function of the full
// event set: order of input does not matter, and two calls over the same
// events produce identical output.
package stats

import (
	"sort"
	"strings"

	"github.com/tomtom215/ccatrack/internal/models"
	"github.com/tomtom215/ccatrack/internal/normalize"
)

// Grouping sentinels for absent generate-event dimensions. ActivityType
// and gender have dedicated fallbacks distinct from the generic blank key;
// these are deliberate special cases the frontend keys on.
const (
	// NotAvailableKey groups generate events with no activity type.
	NotAvailableKey = "(n/a)"

	// AnyGenderKey groups generate events with no gender preference.
	AnyGenderKey = "Any"
)

// tally is one in-progress frequency map.
type tally map[string]int

func (t tally) inc(key string) {
	t[key]++
}

// Aggregate computes the summary over the full event set. The TopClicked
// field is left empty; it comes from a separate store query keyed by raw
// values (see Service.Summary).
func Aggregate(events []models.Event) *models.StatsSummary {
	var (
		categories    = tally{}
		activityTypes = tally{}
		grades        = tally{}
		genders       = tally{}
		interests     = tally{}
		shortlisted   = tally{}

		generateCount  int
		shortlistCount int
	)

	for i := range events {
		event := &events[i]
		switch event.Kind {
		case models.KindGenerate:
			generateCount++
			categories.inc(groupKey(event.Category))
			activityTypes.inc(fallbackKey(event.ActivityType, NotAvailableKey))
			grades.inc(groupKey(event.Grade))
			genders.inc(fallbackKey(event.Gender, AnyGenderKey))
			for _, interest := range event.Interests {
				if lowered := strings.ToLower(interest); lowered != "" {
					interests.inc(lowered)
				}
			}
		case models.KindShortlist:
			shortlistCount++
			// Shortlisted items keep their raw casing; "Chess Club" and
			// "chess club" are distinct keys here.
			if event.ShortlistedItem != nil && *event.ShortlistedItem != "" {
				shortlisted.inc(*event.ShortlistedItem)
			}
		}
	}

	return &models.StatsSummary{
		TotalEvents:     len(events),
		GenerateEvents:  generateCount,
		ShortlistEvents: shortlistCount,
		Categories:      sortedBuckets(categories),
		ActivityTypes:   sortedBuckets(activityTypes),
		Grades:          sortedBuckets(grades),
		Genders:         sortedBuckets(genders),
		Interests:       sortedBuckets(interests),
		Shortlisted:     sortedBuckets(shortlisted),
		TopClicked:      []models.Bucket{},
	}
}

// groupKey maps a stored optional value to its grouping key, folding
// absent and blank into the "(blank)" sentinel.
func groupKey(v *string) string {
	if v == nil {
		return normalize.BlankKey
	}
	return normalize.Key(*v)
}

// fallbackKey maps a stored optional value to its grouping key with a
// field-specific fallback instead of the generic blank sentinel.
func fallbackKey(v *string, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return *v
}

// sortedBuckets renders a tally as an ordered sequence: count descending,
// then key ascending case-insensitively, with a byte-wise tiebreak for
// case-folded duplicates so the order is fully deterministic.
func sortedBuckets(t tally) []models.Bucket {
	buckets := make([]models.Bucket, 0, len(t))
	for key, count := range t {
		buckets = append(buckets, models.Bucket{Key: key, Count: count})
	}

	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		li, lj := strings.ToLower(buckets[i].Key), strings.ToLower(buckets[j].Key)
		if li != lj {
			return li < lj
		}
		return buckets[i].Key < buckets[j].Key
	})

	return buckets
}
