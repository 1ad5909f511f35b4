package normalize

import (
	"strconv"
	"strings"
)

func getString(m map[string]any, key, def string) string {
	if s, ok := m[key].(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	return def
}

func getInt(m map[string]any, key string, def int) int {
	if f, ok := asNumber(m[key]); ok {
		return int(f)
	}
	return def
}

func getFloat(m map[string]any, key string, def float64) float64 {
	if f, ok := asNumber(m[key]); ok {
		return f
	}
	return def
}

func getList(m map[string]any, key string) []any {
	if l, ok := m[key].([]any); ok {
		return l
	}
	return nil
}

// asNumber accepts JSON numbers and numeric strings, including unit
// suffixes the models like to emit ("12g", "95 kcal"). Unparseable
// values fall through to the schema default.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		return numericPrefix(n)
	default:
		return 0, false
	}
}

func numericPrefix(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) {
		c := s[end]
		if (c >= '0' && c <= '9') || c == '.' || (end == 0 && (c == '-' || c == '+')) {
			end++
			continue
		}
		break
	}
	if end == 0 {
		return 0, false
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
