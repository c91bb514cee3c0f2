// Package config is the configuration validator/normalizer, per spec.md
// §4.8: it accepts three shapes of jpointer entry and rewrites all of them
// to a canonical needle.Tuple, rejecting unknown enum values and missing
// filter arguments before the needle compiler ever sees them.
package config

import (
	"fmt"

	"github.com/bc-dunia/projector/internal/action"
	"github.com/bc-dunia/projector/internal/codec"
	"github.com/bc-dunia/projector/internal/filter"
	"github.com/bc-dunia/projector/internal/needle"
)

const (
	defaultOutputType = "text"
	defaultAction     = "store"
	defaultFilter     = "noop"
)

// Normalize rewrites a list of raw jpointer entries (as decoded from JSON:
// a string, a []any of strings, or a map[string]any) into needle.Tuple
// values, validating enum values and required filter arguments along the
// way. The returned slice is ready for needle.Compile.
func Normalize(raw []any) ([]needle.Tuple, error) {
	out := make([]needle.Tuple, 0, len(raw))
	for i, entry := range raw {
		t, err := normalizeEntry(entry)
		if err != nil {
			return nil, fmt.Errorf("jpointers[%d]: %w", i, err)
		}
		if err := validate(t); err != nil {
			return nil, fmt.Errorf("jpointers[%d]: %w", i, err)
		}
		out = append(out, t)
	}
	return out, nil
}

func normalizeEntry(entry any) (needle.Tuple, error) {
	t := needle.Tuple{OutputType: defaultOutputType, Action: defaultAction, Filter: defaultFilter}

	switch v := entry.(type) {
	case string:
		if v == "" {
			return t, fmt.Errorf("pointer must not be empty")
		}
		t.Pointer = v
		return t, nil

	case []any:
		if len(v) < 1 || len(v) > 5 {
			return t, fmt.Errorf("positional array must have 1-5 elements, got %d", len(v))
		}
		fields := [5]*string{&t.Pointer, &t.OutputType, &t.Action, &t.Filter, &t.FilterArg}
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return t, fmt.Errorf("positional element %d must be a string", i)
			}
			*fields[i] = s
		}
		if t.Pointer == "" {
			return t, fmt.Errorf("pointer must not be empty")
		}
		return t, nil

	case map[string]any:
		if p, ok := v["jpointer"].(string); ok {
			t.Pointer = p
		}
		if t.Pointer == "" {
			return t, fmt.Errorf("jpointer is required")
		}
		if s, ok := v["pqtype"].(string); ok && s != "" {
			t.OutputType = s
		}
		if s, ok := v["action"].(string); ok && s != "" {
			t.Action = s
		}
		if s, ok := v["filter"].(string); ok && s != "" {
			t.Filter = s
		}
		if s, ok := v["data"].(string); ok {
			t.FilterArg = s
		}
		return t, nil

	default:
		return t, fmt.Errorf("unsupported jpointer entry shape %T", entry)
	}
}

func validate(t needle.Tuple) error {
	if _, ok := codec.Lookup(t.OutputType); !ok {
		return fmt.Errorf("unknown pqtype %q", t.OutputType)
	}
	if _, ok := action.Lookup(t.Action); !ok {
		return fmt.Errorf("unknown action %q", t.Action)
	}
	if _, ok := filter.Lookup(t.Filter); !ok {
		return fmt.Errorf("unknown filter %q", t.Filter)
	}
	if (t.Filter == "match" || t.Filter == "substr") && t.FilterArg == "" {
		return fmt.Errorf("filter %q requires data", t.Filter)
	}
	return nil
}
