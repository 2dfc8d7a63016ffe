// Package statetoken signs and verifies the OAuth2 state parameter.
//
// A state token is an HMAC-signed JWT carrying a one-time nonce, an optional
// JSON payload and an expiry:
//
//	signer, err := statetoken.New(statetoken.Config{
//		SigningKey: "a-very-secure-key-of-at-least-32-bytes",
//		TTL:        10 * time.Minute,
//	})
//	token, err := signer.Sign(nonce, payload)
//	claims, err := signer.Verify(token)
//
// The nonce is what a StateStore records, so a verified token can still be
// rejected once it has been consumed.
package statetoken

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	minKeyLengthHS256 = 32 // 256 bits
	minKeyLengthHS384 = 48 // 384 bits
	minKeyLengthHS512 = 64 // 512 bits
)

// DefaultTTL bounds how long a user may take on the provider's consent page.
const DefaultTTL = 10 * time.Minute

var (
	ErrTokenInvalid = errors.New("state token invalid")
	ErrTokenExpired = errors.New("state token expired")
	ErrEmptyNonce   = errors.New("state nonce cannot be empty")
)

type Config struct {
	SigningKey    string
	TTL           time.Duration
	SigningMethod jwt.SigningMethod
	// Issuer, when set, is written to and required in every token.
	Issuer string
	// Now overrides the clock, mostly for tests.
	Now func() time.Time
}

// Claims is the verified content of a state token.
type Claims struct {
	Nonce     string
	Payload   []byte
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type stateClaims struct {
	Data json.RawMessage `json:"dat,omitempty"`
	jwt.RegisteredClaims
}

// Signer is safe for concurrent use.
type Signer struct {
	key    []byte
	ttl    time.Duration
	method jwt.SigningMethod
	issuer string
	now    func() time.Time
}

// validateSigningKey checks the key against the minimum length of the algorithm
func validateSigningKey(key string, method jwt.SigningMethod) error {
	keyLength := len(key)
	var minLength int

	switch method {
	case jwt.SigningMethodHS256:
		minLength = minKeyLengthHS256
	case jwt.SigningMethodHS384:
		minLength = minKeyLengthHS384
	case jwt.SigningMethodHS512:
		minLength = minKeyLengthHS512
	default:
		return fmt.Errorf("unsupported signing method: %v", method.Alg())
	}

	if keyLength < minLength {
		return fmt.Errorf("signing key too short for %s algorithm: got %d bytes, need at least %d bytes (%d bits)",
			method.Alg(), keyLength, minLength, minLength*8)
	}

	return nil
}

// New returns a Signer. SigningMethod defaults to HS256 and TTL to DefaultTTL.
func New(cfg Config) (*Signer, error) {
	method := cfg.SigningMethod
	if method == nil {
		method = jwt.SigningMethodHS256
	}

	if err := validateSigningKey(cfg.SigningKey, method); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Signer{
		key:    []byte(cfg.SigningKey),
		ttl:    ttl,
		method: method,
		issuer: cfg.Issuer,
		now:    now,
	}, nil
}

func (s *Signer) TTL() time.Duration {
	return s.ttl
}

// Sign issues a token for nonce. payload must be valid JSON or empty.
func (s *Signer) Sign(nonce string, payload []byte) (string, error) {
	if nonce == "" {
		return "", ErrEmptyNonce
	}

	if len(payload) > 0 && !json.Valid(payload) {
		return "", fmt.Errorf("state payload is not valid JSON")
	}

	now := s.now()
	claims := stateClaims{
		Data: json.RawMessage(payload),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        nonce,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.key)
	if err != nil {
		// library errors may leak key details
		return "", errors.New("token signing failed")
	}

	return signed, nil
}

// Verify checks signature, algorithm, issuer and expiry and returns the claims.
func (s *Signer) Verify(token string) (Claims, error) {
	if token == "" {
		return Claims{}, ErrTokenInvalid
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	claims := &stateClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method != s.method {
			return nil, errors.New("token signing method validation failed")
		}
		return s.key, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}

	if !parsed.Valid || claims.ID == "" {
		return Claims{}, ErrTokenInvalid
	}

	out := Claims{
		Nonce:   claims.ID,
		Payload: []byte(claims.Data),
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}

	return out, nil
}
