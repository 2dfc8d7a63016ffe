package oauth2

import (
	"fmt"
	"strings"

	"golang.org/x/oauth2"
)

const (
	MLHProviderName  = "mlh"
	MLHSite          = "https://my.mlh.io"
	MLHAuthorizePath = "oauth/authorize"
	MLHTokenPath     = "oauth/token"
	MLHAPIBase       = "https://api.mlh.com"
	MLHProfilePath   = "/v4/users/me"

	// ScopeOfflineAccess asks MyMLH for a refresh token.
	ScopeOfflineAccess = "offline_access"
)

var (
	// MLHDefaultScopes cover the basic profile and the email address.
	MLHDefaultScopes = []string{
		"user:read:profile",
		"user:read:email",
	}

	// MLHFieldScopes maps profile fields to the scope that releases them.
	MLHFieldScopes = map[string]string{
		"email":             "user:read:email",
		"first_name":        "user:read:profile",
		"last_name":         "user:read:profile",
		"demographics":      "user:read:demographics",
		"education":         "user:read:education",
		"phone_number":      "user:read:phone",
		"address":           "user:read:address",
		"birthday":          "user:read:birthday",
		"employment":        "user:read:employment",
		"event_preferences": "user:read:event_preferences",
		"social_profiles":   "user:read:social_profiles",
	}
)

// MLHConfig overrides the MyMLH endpoints. Zero fields take the defaults.
// AuthorizeURL and TokenURL may be relative to Site.
type MLHConfig struct {
	Site         string
	AuthorizeURL string
	TokenURL     string
	APIBase      string
	ProfilePath  string
	AuthScheme   AuthScheme
	Scopes       []string
}

// NewMLHProvider returns a provider for my.mlh.io with the default scopes.
// Credentials are sent in the request body.
//
// Example:
//
//	provider, err := NewMLHProvider()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client, err := NewClient[State](provider, id, secret, "https://app.example/auth/mlh/callback", stateKey)
func NewMLHProvider() (*GenericProvider, error) {
	return NewMLHProviderWithConfig(MLHConfig{})
}

// NewMLHProviderWithScopes is NewMLHProvider with a custom scope list.
func NewMLHProviderWithScopes(scopes []string) (*GenericProvider, error) {
	return NewMLHProviderWithConfig(MLHConfig{Scopes: scopes})
}

func NewMLHProviderWithConfig(cfg MLHConfig) (*GenericProvider, error) {
	site := firstNonEmpty(cfg.Site, MLHSite)
	apiBase := firstNonEmpty(cfg.APIBase, MLHAPIBase)

	scheme := cfg.AuthScheme
	if scheme == "" {
		scheme = AuthSchemeRequestBody
	}

	scopes := cfg.Scopes
	if scopes == nil {
		scopes = MLHDefaultScopes
	}

	endpoint := oauth2.Endpoint{
		AuthURL:   ResolveURL(site, firstNonEmpty(cfg.AuthorizeURL, MLHAuthorizePath)),
		TokenURL:  ResolveURL(site, firstNonEmpty(cfg.TokenURL, MLHTokenPath)),
		AuthStyle: scheme.AuthStyle(),
	}

	provider, err := NewGenericProvider(MLHProviderName, endpoint,
		ResolveURL(apiBase, firstNonEmpty(cfg.ProfilePath, MLHProfilePath)), scopes)
	if err != nil {
		return nil, fmt.Errorf("mlh provider: %w", err)
	}
	return provider, nil
}

// ScopesForFields returns the default scopes plus the scopes needed to
// release the given profile fields, without duplicates and in first-seen
// order. Unknown fields are ignored.
func ScopesForFields(fields []string) []string {
	scopes := append([]string(nil), MLHDefaultScopes...)
	seen := make(map[string]struct{}, len(scopes))
	for _, scope := range scopes {
		seen[scope] = struct{}{}
	}

	for _, field := range fields {
		scope, ok := MLHFieldScopes[field]
		if !ok {
			continue
		}
		if _, dup := seen[scope]; dup {
			continue
		}
		seen[scope] = struct{}{}
		scopes = append(scopes, scope)
	}

	return scopes
}

// ParseScopes splits a space or comma separated scope string.
func ParseScopes(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	})
}

// ResolveURL joins a relative path to site. Absolute URLs are returned as is.
func ResolveURL(site, path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if path == "" {
		return site
	}
	return strings.TrimRight(site, "/") + "/" + strings.TrimLeft(path, "/")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
