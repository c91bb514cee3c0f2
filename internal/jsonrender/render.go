// Package jsonrender coerces a decoded JSON value (as produced by
// encoding/json's default any-decoding) to its UTF-8 string rendering, the
// shared primitive behind the text type formatter and the match/substr
// filters.
package jsonrender

import "encoding/json"

// Render returns the string rendering of v. JSON strings render as their raw
// value with no surrounding quotes; every other JSON value (number, bool,
// null, array, object) renders as its compact JSON encoding.
func Render(v any) (string, bool) {
	if s, ok := v.(string); ok {
		return s, true
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", false
	}
	return string(b), true
}
