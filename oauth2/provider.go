package oauth2

import (
	"golang.org/x/oauth2"
)

// Provider describes an OAuth2 authorization server and the API endpoint the
// authenticated profile is read from. The Client only depends on this
// interface, so a provider for another MyMLH deployment (staging, a local
// mock) is just another implementation.
//
// Usage Example:
//
//	provider, err := NewMLHProvider()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	provider.SetScopes([]string{"user:read:profile", "user:read:education", "offline_access"})
//
// Implementation Notes:
//   - Providers should validate their configuration during construction
//   - Implementations must be safe for concurrent use
//   - Scopes can be modified after creation to support different access levels
type Provider interface {
	// Name returns the provider identifier used in the auth hash and in
	// callback paths, e.g. "mlh".
	Name() string

	// Scopes returns the OAuth2 scopes requested during authorization.
	// Implementations return a copy.
	Scopes() []string

	// SetScopes replaces the requested scopes. Empty strings are dropped.
	// Changes take effect on the next authorization URL.
	SetScopes(scopes []string)

	// Endpoint returns the authorization and token URLs together with the
	// client authentication style used at the token endpoint.
	//
	// Example:
	//   endpoint := provider.Endpoint()
	//   // endpoint.AuthURL = "https://my.mlh.io/oauth/authorize"
	//   // endpoint.TokenURL = "https://my.mlh.io/oauth/token"
	//   // endpoint.AuthStyle = oauth2.AuthStyleInParams
	Endpoint() oauth2.Endpoint

	// ProfileURL returns the base URL of the authenticated user's profile,
	// before any expand[] parameters are appended.
	//
	// Example:
	//   provider.ProfileURL() // "https://api.mlh.com/v4/users/me"
	ProfileURL() string
}
