package rawdoc

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"github.com/erraggy/apiflow/ordered"
	"go.yaml.in/yaml/v4"
)

// AsObject converts v to an Object. Plain map[string]any values are accepted
// too; their keys are sorted since they carry no order.
func AsObject(v any) (Object, bool) {
	switch o := v.(type) {
	case Object:
		return o, true
	case map[string]any:
		keys := make([]string, 0, len(o))
		for k := range o {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		var b ordered.Builder[any]
		for _, k := range keys {
			b.Set(k, o[k])
		}
		return b.Build(), true
	default:
		return Object{}, false
	}
}

// Get walks obj through nested objects along path.
func Get(obj Object, path ...string) (any, bool) {
	var cur any = obj
	for _, key := range path {
		o, ok := AsObject(cur)
		if !ok {
			return nil, false
		}
		cur, ok = o.Get(key)
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// ObjectAt returns the object found along path, or an empty Object.
func ObjectAt(obj Object, path ...string) Object {
	v, ok := Get(obj, path...)
	if !ok {
		return Object{}
	}
	o, _ := AsObject(v)
	return o
}

// String returns the value along path rendered as a string. Numbers and
// booleans are formatted; missing values and containers yield "".
func String(obj Object, path ...string) string {
	v, ok := Get(obj, path...)
	if !ok {
		return ""
	}
	return Scalar(v)
}

// Scalar formats a scalar raw value as a string.
func Scalar(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	case nil:
		return ""
	case fmt.Stringer:
		return s.String()
	default:
		return ""
	}
}

// Slice returns the sequence along path, or nil.
func Slice(obj Object, path ...string) []any {
	v, ok := Get(obj, path...)
	if !ok {
		return nil
	}
	s, _ := v.([]any)
	return s
}

// Strings returns the string items of the sequence along path. A single
// scalar is returned as a one-element slice.
func Strings(obj Object, path ...string) []string {
	v, ok := Get(obj, path...)
	if !ok {
		return nil
	}
	if items, ok := v.([]any); ok {
		out := make([]string, 0, len(items))
		for _, item := range items {
			if s := Scalar(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	if s := Scalar(v); s != "" {
		return []string{s}
	}
	return nil
}

// Has reports whether path exists in obj.
func Has(obj Object, path ...string) bool {
	_, ok := Get(obj, path...)
	return ok
}

// EncodeJSON renders a raw value as indented JSON, keeping object key order.
func EncodeJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("rawdoc: encoding JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// EncodeYAML renders a raw value as YAML, keeping object key order.
func EncodeYAML(v any) ([]byte, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("rawdoc: encoding YAML: %w", err)
	}
	return data, nil
}
