// Package jsonpointer resolves RFC 6901 JSON Pointer strings against a JSON
// document decoded the way encoding/json decodes into `any`: objects as
// map[string]any, arrays as []any, scalars as string/float64/bool/nil.
package jsonpointer

import (
	"strconv"
	"strings"
)

// Resolve walks doc along pointer and reports the located value and whether
// resolution succeeded. The empty pointer resolves to doc itself.
func Resolve(doc any, pointer string) (any, bool) {
	if pointer == "" {
		return doc, true
	}
	if pointer[0] != '/' {
		return nil, false
	}

	cur := doc
	for _, tok := range strings.Split(pointer[1:], "/") {
		tok = unescape(tok)

		switch v := cur.(type) {
		case map[string]any:
			val, ok := v[tok]
			if !ok {
				return nil, false
			}
			cur = val
		case []any:
			idx, ok := arrayIndex(tok, len(v))
			if !ok {
				return nil, false
			}
			cur = v[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}

func unescape(tok string) string {
	if !strings.Contains(tok, "~") {
		return tok
	}
	tok = strings.ReplaceAll(tok, "~1", "/")
	tok = strings.ReplaceAll(tok, "~0", "~")
	return tok
}

// arrayIndex parses an RFC 6901 array reference token. "-" (the append
// marker) and indices with leading zeros other than "0" itself are rejected
// as non-resolvable, since this resolver is read-only.
func arrayIndex(tok string, length int) (int, bool) {
	if tok == "" || tok == "-" {
		return 0, false
	}
	if len(tok) > 1 && tok[0] == '0' {
		return 0, false
	}
	n, err := strconv.Atoi(tok)
	if err != nil || n < 0 || n >= length {
		return 0, false
	}
	return n, true
}
