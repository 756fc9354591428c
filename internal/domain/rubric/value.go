package rubric

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// categoryKey renders raw as the text used for categorical lookups.
// Blank values are reported as not present.
func categoryKey(raw any) (string, bool) {
	var s string
	switch v := raw.(type) {
	case nil:
		return "", false
	case string:
		s = v
	case bool:
		s = strconv.FormatBool(v)
	case float64:
		if math.IsNaN(v) {
			return "", false
		}
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		s = strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		s = strconv.Itoa(v)
	case int64:
		s = strconv.FormatInt(v, 10)
	case json.Number:
		s = v.String()
	default:
		s = fmt.Sprint(v)
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// numeric coerces raw to a float64 for weighted fields.
func numeric(raw any) (float64, Outcome) {
	switch v := raw.(type) {
	case nil:
		return 0, Missing
	case float64:
		if !finite(v) {
			return 0, Malformed
		}
		return v, Scored
	case float32:
		return numeric(float64(v))
	case int:
		return float64(v), Scored
	case int64:
		return float64(v), Scored
	case bool:
		if v {
			return 1, Scored
		}
		return 0, Scored
	case json.Number:
		return parseNumber(v.String())
	case string:
		return parseNumber(v)
	default:
		return 0, Malformed
	}
}

func parseNumber(s string) (float64, Outcome) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, Missing
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(f) {
		return 0, Malformed
	}
	return f, Scored
}

// Numeric exposes the weighted-field coercion to adapters that parse
// identifiers from loosely typed input. ok is false for blank or malformed input.
func Numeric(raw any) (float64, bool) {
	f, outcome := numeric(raw)
	return f, outcome == Scored
}
