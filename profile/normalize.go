package profile

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Normalize returns a copy of raw in which every mapping, at any depth, is a
// map[string]any keyed by CanonicalKey. Sequences are rebuilt element by
// element; scalars are returned as is.
//
// When two raw keys collapse to the same canonical key the one already in
// canonical form wins, otherwise the lexicographically smallest raw key wins.
func Normalize(raw any) any {
	switch v := raw.(type) {
	case map[string]any:
		entries := make([]entry, 0, len(v))
		for key, value := range v {
			entries = append(entries, entry{key: key, value: value})
		}
		return normalizeEntries(entries)
	case map[any]any:
		entries := make([]entry, 0, len(v))
		for key, value := range v {
			entries = append(entries, entry{key: fmt.Sprint(key), value: value})
		}
		return normalizeEntries(entries)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Normalize(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Normalize(item)
		}
		return out
	default:
		return raw
	}
}

// NormalizeMap is Normalize for a top-level mapping.
func NormalizeMap(raw map[string]any) map[string]any {
	if raw == nil {
		return map[string]any{}
	}
	return Normalize(raw).(map[string]any)
}

type entry struct {
	key   string
	value any
}

func normalizeEntries(entries []entry) map[string]any {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].key < entries[j].key
	})

	out := make(map[string]any, len(entries))
	exact := make(map[string]bool, len(entries))

	for _, e := range entries {
		canonical := CanonicalKey(e.key)
		isExact := canonical == e.key

		if _, taken := out[canonical]; taken && (exact[canonical] || !isExact) {
			continue
		}

		out[canonical] = Normalize(e.value)
		if isExact {
			exact[canonical] = true
		}
	}

	return out
}

// CanonicalKey converts a key to lower snake_case. Word boundaries are case
// changes (firstName, HTTPServer) and any run of characters that are not
// letters, digits or underscores (First-Name, first name). Leading separators
// are dropped. CanonicalKey is idempotent.
func CanonicalKey(key string) string {
	runes := []rune(strings.TrimSpace(key))

	var b strings.Builder
	b.Grow(len(runes) + 4)

	pendingSep := false
	lastUnderscore := false

	for i, r := range runes {
		switch {
		case unicode.IsUpper(r):
			if b.Len() > 0 && !lastUnderscore && (pendingSep || wordBoundary(runes, i)) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			pendingSep, lastUnderscore = false, false
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingSep && b.Len() > 0 && !lastUnderscore {
				b.WriteByte('_')
			}
			b.WriteRune(r)
			pendingSep, lastUnderscore = false, false
		case r == '_':
			b.WriteRune(r)
			pendingSep, lastUnderscore = false, true
		default:
			pendingSep = true
		}
	}

	if pendingSep && b.Len() > 0 && !lastUnderscore {
		b.WriteByte('_')
	}

	return b.String()
}

func wordBoundary(runes []rune, i int) bool {
	if i == 0 {
		return false
	}

	prev := runes[i-1]
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}

	return unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
