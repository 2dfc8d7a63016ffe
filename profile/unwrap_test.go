package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnwrap(t *testing.T) {
	tests := []struct {
		name     string
		raw      any
		envelope string
		want     map[string]any
	}{
		{
			name:     "descends into envelope",
			raw:      map[string]any{"data": map[string]any{"id": "1"}, "status": "OK"},
			envelope: "data",
			want:     map[string]any{"id": "1"},
		},
		{
			name:     "empty envelope payload",
			raw:      map[string]any{"data": map[string]any{}},
			envelope: "data",
			want:     map[string]any{},
		},
		{
			name:     "missing envelope uses whole response",
			raw:      map[string]any{"id": "1"},
			envelope: "data",
			want:     map[string]any{"id": "1"},
		},
		{
			name:     "no envelope configured",
			raw:      map[string]any{"data": map[string]any{"id": "1"}},
			envelope: "",
			want:     map[string]any{"data": map[string]any{"id": "1"}},
		},
		{
			name:     "envelope matched canonically",
			raw:      map[string]any{"Data": map[string]any{"id": "1"}},
			envelope: "data",
			want:     map[string]any{"id": "1"},
		},
		{
			name:     "array envelope payload",
			raw:      map[string]any{"data": []any{map[string]any{"id": "1"}}},
			envelope: "data",
			want:     map[string]any{},
		},
		{
			name:     "null envelope payload",
			raw:      map[string]any{"data": nil},
			envelope: "data",
			want:     map[string]any{},
		},
		{
			name:     "top level array",
			raw:      []any{"a"},
			envelope: "data",
			want:     map[string]any{},
		},
		{
			name:     "top level scalar",
			raw:      "nope",
			envelope: "",
			want:     map[string]any{},
		},
		{
			name:     "nil response",
			raw:      nil,
			envelope: "data",
			want:     map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Unwrap(tt.raw, tt.envelope))
		})
	}
}
