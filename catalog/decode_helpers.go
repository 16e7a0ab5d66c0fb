package catalog

import (
	"fmt"
	"math"

	"github.com/joshuadavidthomas/djtagspecs/tserrors"
)

// The accessors below read one field out of a raw parsed tree. Absent keys
// are never an error; a present key holding the wrong value kind is a
// ParseError carrying the dotted field path.

func wrongKind(field, want string, got any) error {
	return &tserrors.ParseError{
		Field:   field,
		Message: fmt.Sprintf("expected %s, got %T", want, got),
	}
}

func rawString(m map[string]any, key, field string) (string, bool, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, wrongKind(field, "string", v)
	}
	return s, true, nil
}

func rawBool(m map[string]any, key, field string) (bool, bool, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return false, false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, false, wrongKind(field, "boolean", v)
	}
	return b, true, nil
}

// rawIntPtr reads an optional integer. TOML decodes integers as int64, YAML
// as int, and JSON as float64; all three are accepted, but a fractional
// float is a wrong kind.
func rawIntPtr(m map[string]any, key, field string) (*int, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch n := v.(type) {
	case int:
		return &n, nil
	case int64:
		i := int(n)
		return &i, nil
	case uint64:
		if n > math.MaxInt {
			return nil, wrongKind(field, "integer", v)
		}
		i := int(n)
		return &i, nil
	case float64:
		if n != math.Trunc(n) {
			return nil, wrongKind(field, "integer", v)
		}
		i := int(n)
		return &i, nil
	default:
		return nil, wrongKind(field, "integer", v)
	}
}

func rawStringSlice(m map[string]any, key, field string) ([]string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	arr, ok := v.([]any)
	if !ok {
		// TOML decoders may hand back a typed string slice directly.
		if ss, ok := v.([]string); ok {
			out := make([]string, len(ss))
			copy(out, ss)
			return out, nil
		}
		return nil, wrongKind(field, "array of strings", v)
	}
	out := make([]string, 0, len(arr))
	for i, item := range arr {
		s, ok := item.(string)
		if !ok {
			return nil, wrongKind(fmt.Sprintf("%s[%d]", field, i), "string", item)
		}
		out = append(out, s)
	}
	return out, nil
}

func rawMapSlice(m map[string]any, key, field string) ([]map[string]any, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch arr := v.(type) {
	case []any:
		out := make([]map[string]any, 0, len(arr))
		for i, item := range arr {
			obj, ok := item.(map[string]any)
			if !ok {
				return nil, wrongKind(fmt.Sprintf("%s[%d]", field, i), "object", item)
			}
			out = append(out, obj)
		}
		return out, nil
	case []map[string]any:
		// BurntSushi/toml decodes arrays of tables this way.
		return arr, nil
	default:
		return nil, wrongKind(field, "array of objects", v)
	}
}

func rawMap(m map[string]any, key, field string) (map[string]any, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, wrongKind(field, "object", v)
	}
	return obj, nil
}
