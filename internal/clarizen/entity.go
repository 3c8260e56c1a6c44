package clarizen

import (
	"math"
	"strconv"
)

// RawEntity is a schema-less result row returned by a CZQL query. Tenants
// disagree on field naming and nesting, so values are only ever accessed
// defensively; a missing field is an empty result, never a panic.
type RawEntity map[string]any

// QueryResult is the top-level container for CZQL query responses.
type QueryResult struct {
	Entities []RawEntity `json:"entities"`
}

// Dig walks a nested field path and returns the value at the end, or nil if
// any step is absent or not an object.
func Dig(e RawEntity, path ...string) any {
	var cur any = map[string]any(e)
	for _, key := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = obj[key]
		if !ok {
			return nil
		}
	}
	return cur
}

// Str returns the string at a nested field path, or "" when absent.
func Str(e RawEntity, path ...string) string {
	if s, ok := Dig(e, path...).(string); ok {
		return s
	}
	return ""
}

// Num returns the numeric value at a nested field path. The second return is
// false when the field is absent, not numeric, or not finite. JSON numbers
// arrive as float64; numeric strings are tolerated because some tenants
// serialize effort fields that way, and ParseFloat accepts "NaN" and "+Inf",
// which must not leak into records.
func Num(e RawEntity, path ...string) (float64, bool) {
	switch v := Dig(e, path...).(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// FirstString returns the first non-empty string among the candidate fields.
// Each candidate is a nested path.
func FirstString(e RawEntity, candidates ...[]string) string {
	for _, path := range candidates {
		if s := Str(e, path...); s != "" {
			return s
		}
	}
	return ""
}

// FirstNumber returns the first present numeric value among the candidate
// fields, defaulting to 0. The result is always finite and never negative.
func FirstNumber(e RawEntity, candidates ...[]string) float64 {
	for _, path := range candidates {
		if f, ok := Num(e, path...); ok {
			if f < 0 {
				return 0
			}
			return f
		}
	}
	return 0
}
