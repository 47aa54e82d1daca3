package rawdoc

// RefKey is the key of a JSON reference object.
const RefKey = "$ref"

// MapRefs returns a copy of v where every "$ref" string is replaced by
// fn(ref). Values without references are returned as is.
func MapRefs(v any, fn func(ref string) string) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = MapRefs(item, fn)
		}
		return out
	default:
		obj, ok := AsObject(v)
		if !ok {
			return v
		}
		b := obj.Builder()
		for key, val := range obj.All() {
			if ref, isRef := val.(string); isRef && key == RefKey {
				b.Set(key, fn(ref))
				continue
			}
			b.Set(key, MapRefs(val, fn))
		}
		return b.Build()
	}
}
