package normalize

import (
	"strings"

	"biosync/internal/domain"
)

// canonicalDay maps a model-emitted key to a canonical day name.
// Matching is case-insensitive and accepts the common three-letter
// abbreviations.
func canonicalDay(key string) (string, bool) {
	k := strings.ToLower(strings.TrimSpace(key))
	if len(k) < 3 {
		return "", false
	}
	for _, day := range domain.DaysOfWeek {
		lower := strings.ToLower(day)
		if k == lower || k == lower[:3] {
			return day, true
		}
	}
	return "", false
}

// looksLikeSchedule reports whether a parsed object is plausibly a bare
// day-name map, i.e. the model dropped the weekly_schedule wrapper.
func looksLikeSchedule(m map[string]any) bool {
	for key := range m {
		if _, ok := canonicalDay(key); ok {
			return true
		}
	}
	return false
}
