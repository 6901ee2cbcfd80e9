package util

import (
	"encoding/json"
	"strconv"
	"strings"
)

// AsString converts a decoded JSON value to a trimmed string.
// Numbers are rendered without exponent so long barcodes survive.
func AsString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}

// AsStrings converts a decoded JSON array to strings, one per element.
// Elements that are not strings or numbers become "" and keep their position.
func AsStrings(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			out = append(out, AsString(item))
		}
		return out
	default:
		return nil
	}
}

// AsInt converts a decoded JSON value to an int
func AsInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case json.Number:
		i, err := t.Int64()
		return int(i), err == nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(t))
		return i, err == nil
	default:
		return 0, false
	}
}

// FirstToken returns the trimmed text before the first comma
func FirstToken(s string) string {
	if idx := strings.Index(s, ","); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
