package oauth2

import (
	"fmt"
	"strings"

	"golang.org/x/oauth2"
)

// AuthScheme selects how client credentials are sent to the token endpoint.
type AuthScheme string

const (
	// AuthSchemeRequestBody sends client_id and client_secret as form fields.
	AuthSchemeRequestBody AuthScheme = "request_body"
	// AuthSchemeBasicAuth sends them in an HTTP Basic Authorization header.
	AuthSchemeBasicAuth AuthScheme = "basic_auth"
	// AuthSchemeHeader is an alias of AuthSchemeBasicAuth.
	AuthSchemeHeader AuthScheme = "header"
	// AuthSchemeAuto lets x/oauth2 probe both styles.
	AuthSchemeAuto AuthScheme = "auto"
)

// ParseAuthScheme accepts the scheme names case-insensitively, with "-" or
// "_" separators.
func ParseAuthScheme(s string) (AuthScheme, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	switch AuthScheme(normalized) {
	case AuthSchemeRequestBody, AuthSchemeBasicAuth, AuthSchemeHeader, AuthSchemeAuto:
		return AuthScheme(normalized), nil
	case "":
		return AuthSchemeRequestBody, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAuthScheme, s)
	}
}

// UnmarshalText allows AuthScheme to be read from environment variables.
func (s *AuthScheme) UnmarshalText(text []byte) error {
	parsed, err := ParseAuthScheme(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s AuthScheme) String() string {
	return string(s)
}

// AuthStyle maps the scheme to its x/oauth2 equivalent. Unknown values map
// to AuthStyleAutoDetect.
func (s AuthScheme) AuthStyle() oauth2.AuthStyle {
	switch s {
	case AuthSchemeRequestBody:
		return oauth2.AuthStyleInParams
	case AuthSchemeBasicAuth, AuthSchemeHeader:
		return oauth2.AuthStyleInHeader
	default:
		return oauth2.AuthStyleAutoDetect
	}
}
