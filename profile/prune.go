package profile

// Prune returns a copy of m without nil values, empty mappings and empty
// sequences. Removal is bottom-up: a mapping left empty by pruning is removed
// from its parent as well. Sequence elements are never dropped, but mappings
// inside sequences, at any nesting depth, are pruned in place.
func Prune(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}

	pruned, _ := pruneValue(deepCopy(m))
	return pruned.(map[string]any)
}

// pruneValue prunes v in place and reports whether it should be kept.
func pruneValue(v any) (any, bool) {
	switch value := v.(type) {
	case nil:
		return nil, false
	case map[string]any:
		for key, child := range value {
			pruned, keep := pruneValue(child)
			if !keep {
				delete(value, key)
				continue
			}
			value[key] = pruned
		}
		return value, len(value) > 0
	case []any:
		for i, item := range value {
			switch item.(type) {
			case map[string]any, []any:
				pruned, _ := pruneValue(item)
				value[i] = pruned
			}
		}
		return value, len(value) > 0
	default:
		return v, true
	}
}

func deepCopy(v any) any {
	switch value := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(value))
		for key, child := range value {
			out[key] = deepCopy(child)
		}
		return out
	case []any:
		out := make([]any, len(value))
		for i, item := range value {
			out[i] = deepCopy(item)
		}
		return out
	default:
		return v
	}
}
