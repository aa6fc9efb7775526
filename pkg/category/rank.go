package category

import (
	"sort"
	"strings"
)

// matchQuality orders exact matches before prefix matches before substring
// matches. Non-matching items score below zero.
func matchQuality(name, query string) int {
	name = strings.ToLower(name)
	query = strings.ToLower(query)
	switch {
	case name == query:
		return 3
	case strings.HasPrefix(name, query):
		return 2
	case strings.Contains(name, query):
		return 1
	default:
		return -1
	}
}

// Rank filters refs against query (case-insensitive) and orders them by
// match quality, ties broken by display name. An empty query keeps every
// ref in name order. At most limit items are returned; limit <= 0 means
// no limit.
func Rank(refs []EntityRef, query string, limit int) []EntityRef {
	query = strings.TrimSpace(query)

	type ranked struct {
		ref     EntityRef
		quality int
	}
	matched := make([]ranked, 0, len(refs))
	for _, ref := range refs {
		if query == "" {
			matched = append(matched, ranked{ref, 0})
			continue
		}
		if q := matchQuality(ref.DisplayName, query); q > 0 {
			matched = append(matched, ranked{ref, q})
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].quality != matched[j].quality {
			return matched[i].quality > matched[j].quality
		}
		return matched[i].ref.DisplayName < matched[j].ref.DisplayName
	})

	result := make([]EntityRef, 0, len(matched))
	for _, m := range matched {
		result = append(result, m.ref)
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}
