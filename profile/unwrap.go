package profile

import (
	"fmt"
	"sort"
)

// Unwrap returns the payload mapping of a raw response. With an envelope name
// set and present at the top level, the payload is the value under it; a
// missing envelope means the whole response is the payload. The envelope key
// is matched by its canonical form, an exact raw match preferred.
//
// Anything that is not a mapping (array, scalar, null) yields an empty map.
func Unwrap(raw any, envelope string) map[string]any {
	top, ok := asMap(raw)
	if !ok {
		return map[string]any{}
	}

	if envelope == "" {
		return top
	}

	inner, found := lookupEnvelope(top, envelope)
	if !found {
		return top
	}

	payload, ok := asMap(inner)
	if !ok {
		return map[string]any{}
	}
	return payload
}

func lookupEnvelope(top map[string]any, envelope string) (any, bool) {
	if v, ok := top[envelope]; ok {
		return v, true
	}

	want := CanonicalKey(envelope)
	keys := make([]string, 0, len(top))
	for key := range top {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if CanonicalKey(key) == want {
			return top[key], true
		}
	}
	return nil, false
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		if m == nil {
			return nil, false
		}
		return m, true
	case map[any]any:
		if m == nil {
			return nil, false
		}
		out := make(map[string]any, len(m))
		for key, value := range m {
			out[fmt.Sprint(key)] = value
		}
		return out, true
	default:
		return nil, false
	}
}
