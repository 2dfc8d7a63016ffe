package profile

// Identity is the canonical identity handed to the host framework.
type Identity struct {
	// UID is nil when the payload carries no usable identifier.
	UID     *string        `json:"uid"`
	Profile map[string]any `json:"info"`
	Extras  map[string]any `json:"extra"`
}

// Empty returns the identity used when nothing could be fetched.
func Empty() Identity {
	return Identity{
		Profile: map[string]any{},
		Extras:  map[string]any{},
	}
}

func (i Identity) IsEmpty() bool {
	return i.UID == nil && len(i.Profile) == 0 && len(i.Extras) == 0
}

// UIDString returns the uid or "" when absent.
func (i Identity) UIDString() string {
	if i.UID == nil {
		return ""
	}
	return *i.UID
}

func (i Identity) HasUID() bool {
	return i.UID != nil
}
