package mlhauth

import (
	"errors"
	"strings"
	"testing"
)

func TestBuildProfileURL(t *testing.T) {
	const base = "https://api.mlh.com/v4/users/me"

	tests := []struct {
		name     string
		base     string
		expand   []string
		expected string
	}{
		{
			name:     "nil expand returns base",
			base:     base,
			expand:   nil,
			expected: base,
		},
		{
			name:     "empty expand returns base",
			base:     base,
			expand:   []string{},
			expected: base,
		},
		{
			name:     "single field",
			base:     base,
			expand:   []string{"education"},
			expected: base + "?expand[]=education",
		},
		{
			name:     "order is preserved",
			base:     base,
			expand:   []string{"education", "address", "demographics"},
			expected: base + "?expand[]=education&expand[]=address&expand[]=demographics",
		},
		{
			name:     "reverse order",
			base:     base,
			expand:   []string{"demographics", "address"},
			expected: base + "?expand[]=demographics&expand[]=address",
		},
		{
			name:     "blank fields are skipped",
			base:     base,
			expand:   []string{"", "education", "  "},
			expected: base + "?expand[]=education",
		},
		{
			name:     "only blank fields returns base",
			base:     base,
			expand:   []string{"", " "},
			expected: base,
		},
		{
			name:     "existing query uses ampersand",
			base:     base + "?foo=bar",
			expand:   []string{"education"},
			expected: base + "?foo=bar&expand[]=education",
		},
		{
			name:     "trailing question mark",
			base:     base + "?",
			expand:   []string{"address"},
			expected: base + "?expand[]=address",
		},
		{
			name:     "unsafe characters are escaped",
			base:     base,
			expand:   []string{"a&b"},
			expected: base + "?expand[]=a%26b",
		},
		{
			name:     "fragment stays last",
			base:     base + "#top",
			expand:   []string{"education"},
			expected: base + "?expand[]=education#top",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildProfileURL(tt.base, tt.expand)
			if got != tt.expected {
				t.Errorf("BuildProfileURL(%q, %v) = %q; want %q", tt.base, tt.expand, got, tt.expected)
			}
		})
	}
}

func TestBuildProfileURLDoesNotMutateInput(t *testing.T) {
	expand := []string{" education ", "address"}
	_ = BuildProfileURL("https://api.mlh.com/v4/users/me", expand)

	if expand[0] != " education " || expand[1] != "address" {
		t.Errorf("input slice was modified: %v", expand)
	}
}

func TestBuildProfileURLIsDeterministic(t *testing.T) {
	expand := []string{"education", "employment", "address"}
	first := BuildProfileURL(DefaultAPIBase+"/v4/users/me", expand)
	for i := 0; i < 10; i++ {
		if got := BuildProfileURL(DefaultAPIBase+"/v4/users/me", expand); got != first {
			t.Fatalf("iteration %d: got %q, want %q", i, got, first)
		}
	}
}

func TestBuilder(t *testing.T) {
	endpoints := NewEndpoints(DefaultAPIBase, DefaultRoutes())

	t.Run("me with expansions", func(t *testing.T) {
		got, err := endpoints.Builder(RouteMe).
			WithExpand("education").
			WithExpand("address", "employment").
			Build()
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}

		want := "https://api.mlh.com/v4/users/me?expand[]=education&expand[]=address&expand[]=employment"
		if got != want {
			t.Errorf("got %q; want %q", got, want)
		}
	})

	t.Run("user with param and query", func(t *testing.T) {
		got, err := endpoints.Builder(RouteUser).
			WithParam("id", "c2ac35c6-aa8c-11ed").
			WithExpand("education").
			WithQuery("page", 2).
			Build()
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}

		want := "https://api.mlh.com/v4/users/c2ac35c6-aa8c-11ed?expand[]=education&page=2"
		if got != want {
			t.Errorf("got %q; want %q", got, want)
		}
	})

	t.Run("unknown route", func(t *testing.T) {
		_, err := endpoints.Builder("missing").WithExpand("education").Build()
		if !errors.Is(err, ErrRouteNotFound) {
			t.Errorf("expected ErrRouteNotFound, got %v", err)
		}
	})

	t.Run("missing param", func(t *testing.T) {
		_, err := endpoints.Builder(RouteUser).Build()
		if err == nil {
			t.Error("Expected error for missing parameter, got nil")
		}
	})

	t.Run("empty param key", func(t *testing.T) {
		_, err := endpoints.Builder(RouteUser).WithParam("", "x").Build()
		if err == nil || !strings.Contains(err.Error(), "param key cannot be empty") {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("MustBuild panics on error", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("expected panic")
			}
		}()
		endpoints.Builder("missing").MustBuild()
	})
}
