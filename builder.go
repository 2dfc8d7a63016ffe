package mlhauth

import (
	"fmt"
	"net/url"
	"strings"
)

// ExpandParam is the query parameter the MyMLH API reads expansions from.
const ExpandParam = "expand[]"

// BuildProfileURL appends one expand[] parameter per field to base, in order.
// Empty field names are skipped; with nothing left to expand base is returned
// unchanged. The brackets are written literally.
func BuildProfileURL(base string, expand []string) string {
	query := expandQuery(expand)
	if query == "" {
		return base
	}

	return appendQuery(base, query)
}

func expandQuery(fields []string) string {
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		parts = append(parts, ExpandParam+"="+url.QueryEscape(field))
	}
	return strings.Join(parts, "&")
}

func appendQuery(base, query string) string {
	if query == "" {
		return base
	}

	fragment := ""
	if idx := strings.Index(base, "#"); idx != -1 {
		base, fragment = base[:idx], base[idx:]
	}

	switch {
	case !strings.Contains(base, "?"):
		base += "?"
	case !strings.HasSuffix(base, "?") && !strings.HasSuffix(base, "&"):
		base += "&"
	}

	return base + query + fragment
}

// Builder renders a single named route. Errors are deferred until Build.
type Builder struct {
	endpoints *Endpoints
	route     string
	params    map[string]any
	expand    []string
	query     []queryPair
	err       error
}

type queryPair struct {
	key   string
	value string
}

func (b *Builder) WithParam(key string, value any) *Builder {
	if b.err != nil {
		return b
	}

	if key == "" {
		b.err = fmt.Errorf("route %q: param key cannot be empty", b.route)
		return b
	}

	b.params[key] = fmt.Sprint(value)
	return b
}

// WithExpand adds expand[] fields, keeping call order.
func (b *Builder) WithExpand(fields ...string) *Builder {
	if b.err != nil {
		return b
	}

	b.expand = append(b.expand, fields...)
	return b
}

// WithQuery adds a plain query parameter rendered after the expansions.
func (b *Builder) WithQuery(key string, value any) *Builder {
	if b.err != nil {
		return b
	}

	if key == "" {
		b.err = fmt.Errorf("route %q: query key cannot be empty", b.route)
		return b
	}

	b.query = append(b.query, queryPair{key: key, value: fmt.Sprint(value)})
	return b
}

func (b *Builder) Build() (string, error) {
	if b.err != nil {
		return "", b.err
	}

	base, err := b.endpoints.Render(b.route, b.params)
	if err != nil {
		return "", err
	}

	u := BuildProfileURL(base, b.expand)
	if len(b.query) == 0 {
		return u, nil
	}

	parts := make([]string, 0, len(b.query))
	for _, pair := range b.query {
		parts = append(parts, url.QueryEscape(pair.key)+"="+url.QueryEscape(pair.value))
	}

	return appendQuery(u, strings.Join(parts, "&")), nil
}

func (b *Builder) MustBuild() string {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}
