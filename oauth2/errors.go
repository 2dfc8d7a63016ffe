package oauth2

import "errors"

var (
	// ErrStateNotFound is returned when a state was never issued or has
	// already been consumed.
	ErrStateNotFound = errors.New("state not found or already used")
	// ErrStateInvalid is returned for a state that fails signature checks.
	ErrStateInvalid = errors.New("state invalid")
	// ErrStateExpired is returned for a correctly signed but stale state.
	ErrStateExpired = errors.New("state expired")
	// ErrDeserializationFailed is returned when the state payload does not
	// match the client's data type.
	ErrDeserializationFailed = errors.New("failed to deserialize state data")

	ErrMissingCode       = errors.New("authorization code missing")
	ErrTokenExchange     = errors.New("token exchange failed")
	ErrUnknownAuthScheme = errors.New("unknown auth scheme")
	ErrStoreClosed       = errors.New("state store closed")
)
