package profile

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmespath-community/go-jmespath"
)

// DefaultUIDPath selects the top-level id of the payload.
const DefaultUIDPath = "id"

// DefaultFields returns the profile fields projected into Identity.Profile.
func DefaultFields() []string {
	return []string{
		"email",
		"first_name",
		"last_name",
		"created_at",
		"updated_at",
		"demographics",
		"education",
		"employment",
		"phone_number",
		"address",
		"birthday",
		"event_preferences",
		"social_profiles",
		"roles",
	}
}

// Projector maps a normalized payload onto an Identity.
// A Projector is immutable after construction and safe for concurrent use.
type Projector struct {
	uidPath        string
	fields         []string
	extraFields    []string
	prune          bool
	includeMissing bool
}

type ProjectorOption func(*Projector)

// WithUIDPath sets the JMESPath expression that locates the uid, e.g. "id"
// or "user.id". An empty path disables uid extraction.
func WithUIDPath(path string) ProjectorOption {
	return func(p *Projector) {
		p.uidPath = strings.TrimSpace(path)
	}
}

// WithFields replaces the selected profile fields. Keys are canonicalized.
func WithFields(fields ...string) ProjectorOption {
	return func(p *Projector) {
		p.fields = canonicalList(fields)
	}
}

// WithPrune toggles removal of nil, empty mapping and empty sequence values
// from the projected profile.
func WithPrune(prune bool) ProjectorOption {
	return func(p *Projector) {
		p.prune = prune
	}
}

// WithIncludeMissing reports selected fields absent from the payload as
// explicit nil entries. It has no effect while pruning is enabled.
func WithIncludeMissing(include bool) ProjectorOption {
	return func(p *Projector) {
		p.includeMissing = include
	}
}

// WithExtraFields limits extras to the given top-level keys. With no keys the
// whole payload is kept.
func WithExtraFields(fields ...string) ProjectorOption {
	return func(p *Projector) {
		p.extraFields = canonicalList(fields)
	}
}

// NewProjector returns a Projector with the default uid path, the default
// fields and pruning enabled, adjusted by opts.
func NewProjector(opts ...ProjectorOption) (*Projector, error) {
	p := &Projector{
		uidPath: DefaultUIDPath,
		fields:  DefaultFields(),
		prune:   true,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.uidPath != "" {
		if _, err := jmespath.Compile(p.uidPath); err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidUIDPath, p.uidPath, err)
		}
	}

	return p, nil
}

// MustProjector is NewProjector that panics on error.
func MustProjector(opts ...ProjectorOption) *Projector {
	p, err := NewProjector(opts...)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Projector) Fields() []string {
	return append([]string(nil), p.fields...)
}

// Project builds the Identity for a normalized payload. A nil payload gives
// Empty().
func (p *Projector) Project(normalized map[string]any) Identity {
	if normalized == nil {
		return Empty()
	}

	return Identity{
		UID:     p.uid(normalized),
		Profile: p.profile(normalized),
		Extras:  p.extras(normalized),
	}
}

// ProjectRaw runs the whole pipeline on a decoded response: Unwrap with the
// given envelope, Normalize, Project.
func (p *Projector) ProjectRaw(raw any, envelope string) Identity {
	payload := Unwrap(raw, envelope)
	return p.Project(NormalizeMap(payload))
}

func (p *Projector) uid(payload map[string]any) *string {
	if p.uidPath == "" {
		return nil
	}

	value, err := jmespath.Search(p.uidPath, payload)
	if err != nil {
		return nil
	}

	return formatUID(value)
}

func formatUID(value any) *string {
	var s string

	switch v := value.(type) {
	case nil:
		return nil
	case string:
		s = v
	case json.Number:
		s = v.String()
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		s = strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, bool:
		s = fmt.Sprint(v)
	default:
		return nil
	}

	if s == "" {
		return nil
	}
	return &s
}

func (p *Projector) profile(payload map[string]any) map[string]any {
	out := make(map[string]any, len(p.fields))

	for _, field := range p.fields {
		value, ok := payload[field]
		if !ok {
			if p.includeMissing && !p.prune {
				out[field] = nil
			}
			continue
		}

		value = deepCopy(value)
		if p.prune {
			var keep bool
			if value, keep = pruneValue(value); !keep {
				continue
			}
		}

		out[field] = value
	}

	return out
}

func (p *Projector) extras(payload map[string]any) map[string]any {
	if len(p.extraFields) == 0 {
		return deepCopy(payload).(map[string]any)
	}

	out := make(map[string]any, len(p.extraFields))
	for _, field := range p.extraFields {
		if value, ok := payload[field]; ok {
			out[field] = deepCopy(value)
		}
	}
	return out
}

func canonicalList(fields []string) []string {
	out := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))

	for _, field := range fields {
		key := CanonicalKey(field)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}
