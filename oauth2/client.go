package oauth2

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/goliatone/go-mlhauth/statetoken"
	"golang.org/x/oauth2"
)

// Client runs the OAuth2 authorization code flow against a Provider.
//
// The client is generic over type T, the data carried through the flow in
// the state parameter (a return path, a tenant, ...). State values are
// signed, expiring tokens; their nonce is recorded in a StateStore so each
// state can be redeemed once.
//
// Usage Example:
//
//	provider, err := NewMLHProvider()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	type FlowData struct {
//	    ReturnTo string `json:"return_to"`
//	}
//
//	client, err := NewClient[FlowData](provider, "client-id", "client-secret",
//	    "http://localhost:8080/auth/mlh/callback", "a-state-signing-key-of-at-least-32-bytes")
//
//	authURL, err := client.AuthCodeURL(ctx, FlowData{ReturnTo: "/dashboard"})
//
//	// Handle callback
//	data, err := client.ValidateState(ctx, r.FormValue("state"))
//	token, err := client.Exchange(ctx, r.FormValue("code"))
//	resp, err := client.AccessToken(ctx, token).Get(ctx, provider.ProfileURL())
//
// Thread Safety:
//   - All methods are safe for concurrent use
//   - State management is handled by the underlying StateStore implementation
type Client[T any] struct {
	config     *oauth2.Config
	provider   Provider
	states     StateStore
	signer     *statetoken.Signer
	httpClient *http.Client
	authParams map[string]string
}

type clientOptions struct {
	states     StateStore
	httpClient *http.Client
	stateTTL   time.Duration
	authParams map[string]string
	issuer     string
}

// ClientOption customizes a Client.
type ClientOption func(*clientOptions)

// WithStateStore replaces the default MemoryStateStore.
func WithStateStore(store StateStore) ClientOption {
	return func(o *clientOptions) {
		o.states = store
	}
}

// WithHTTPClient sets the client used for token exchange and API calls.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithStateTTL sets how long a state token stays valid.
func WithStateTTL(ttl time.Duration) ClientOption {
	return func(o *clientOptions) {
		o.stateTTL = ttl
	}
}

// WithAuthParam adds a parameter to every authorization URL.
func WithAuthParam(key, value string) ClientOption {
	return func(o *clientOptions) {
		if o.authParams == nil {
			o.authParams = make(map[string]string)
		}
		o.authParams[key] = value
	}
}

// WithStateIssuer binds state tokens to an issuer name so tokens minted by
// another application sharing the key are rejected.
func WithStateIssuer(issuer string) ClientOption {
	return func(o *clientOptions) {
		o.issuer = issuer
	}
}

// NewClient creates a Client for provider.
//
// Validation Rules:
//   - provider cannot be nil
//   - clientID, clientSecret and redirectURL must be non-empty
//   - stateKey must satisfy the HS256 minimum of 32 bytes
//
// Scopes and endpoints are read from the provider at construction time.
func NewClient[T any](provider Provider, clientID, clientSecret, redirectURL, stateKey string, opts ...ClientOption) (*Client[T], error) {
	if provider == nil {
		return nil, fmt.Errorf("provider cannot be nil")
	}

	if clientID == "" {
		return nil, fmt.Errorf("client ID cannot be empty")
	}

	if clientSecret == "" {
		return nil, fmt.Errorf("client secret cannot be empty")
	}

	if redirectURL == "" {
		return nil, fmt.Errorf("redirect URL cannot be empty")
	}

	options := clientOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	ttl := DefaultStateTTL
	if options.stateTTL > 0 {
		ttl = options.stateTTL
	}

	signer, err := statetoken.New(statetoken.Config{
		SigningKey: stateKey,
		TTL:        ttl,
		Issuer:     options.issuer,
	})
	if err != nil {
		return nil, fmt.Errorf("state key: %w", err)
	}

	states := options.states
	if states == nil {
		states = NewMemoryStateStoreWithTTL(ttl)
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       provider.Scopes(),
		Endpoint:     provider.Endpoint(),
	}

	return &Client[T]{
		config:     config,
		provider:   provider,
		states:     states,
		signer:     signer,
		httpClient: options.httpClient,
		authParams: options.authParams,
	}, nil
}

// SetStateStore replaces the StateStore. It must not be called while flows
// are in progress.
func (c *Client[T]) SetStateStore(store StateStore) {
	c.states = store
}

func (c *Client[T]) Provider() Provider {
	return c.provider
}

// Config returns a copy of the underlying x/oauth2 configuration.
func (c *Client[T]) Config() oauth2.Config {
	cfg := *c.config
	cfg.Scopes = append([]string(nil), c.config.Scopes...)
	return cfg
}

// Scopes returns the scopes requested by this client.
func (c *Client[T]) Scopes() []string {
	return append([]string(nil), c.config.Scopes...)
}

// AuthCodeURL returns the provider authorization URL for a new flow
// carrying data. The state nonce is recorded before the URL is returned.
//
// Example:
//
//	authURL, err := client.AuthCodeURL(r.Context(), FlowData{ReturnTo: "/dashboard"})
//	if err != nil {
//	    http.Error(w, "cannot start login", http.StatusInternalServerError)
//	    return
//	}
//	http.Redirect(w, r, authURL, http.StatusFound)
func (c *Client[T]) AuthCodeURL(ctx context.Context, data T, opts ...oauth2.AuthCodeOption) (string, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to serialize state data: %w", err)
	}

	nonce := uuid.New().String()
	state, err := c.signer.Sign(nonce, payload)
	if err != nil {
		return "", fmt.Errorf("failed to sign state: %w", err)
	}

	if err := c.states.Store(ctx, nonce); err != nil {
		return "", fmt.Errorf("failed to store state for validation: %w", err)
	}

	params := make([]oauth2.AuthCodeOption, 0, len(c.authParams)+len(opts))
	for key, value := range c.authParams {
		params = append(params, oauth2.SetAuthURLParam(key, value))
	}
	params = append(params, opts...)

	return c.config.AuthCodeURL(state, params...), nil
}

// ValidateState verifies a state returned to the callback, consumes its
// nonce and returns the carried data.
//
// Error Conditions:
//   - ErrStateInvalid: malformed, tampered or foreign state
//   - ErrStateExpired: state older than the state TTL
//   - ErrStateNotFound: state never recorded or already consumed
//   - ErrDeserializationFailed: payload does not decode into T
func (c *Client[T]) ValidateState(ctx context.Context, state string) (T, error) {
	var empty T

	claims, err := c.signer.Verify(state)
	switch {
	case errors.Is(err, statetoken.ErrTokenExpired):
		return empty, ErrStateExpired
	case err != nil:
		return empty, ErrStateInvalid
	}

	ok, err := c.states.Validate(ctx, claims.Nonce)
	if err != nil {
		return empty, fmt.Errorf("state lookup failed: %w", err)
	}
	if !ok {
		return empty, ErrStateNotFound
	}

	var data T
	if len(claims.Payload) > 0 {
		if err := json.Unmarshal(claims.Payload, &data); err != nil {
			return empty, fmt.Errorf("%w: %w", ErrDeserializationFailed, err)
		}
	}

	return data, nil
}

// Exchange trades an authorization code for a token. Failures wrap
// ErrTokenExchange.
func (c *Client[T]) Exchange(ctx context.Context, code string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: %w", ErrTokenExchange, ErrMissingCode)
	}

	token, err := c.config.Exchange(c.withHTTPClient(ctx), code, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenExchange, err)
	}
	return token, nil
}

// AccessToken returns an AccessToken bound to token. Expired tokens are
// refreshed transparently when a refresh token is present.
func (c *Client[T]) AccessToken(ctx context.Context, token *oauth2.Token) AccessToken {
	return NewAccessToken(c.config.Client(c.withHTTPClient(ctx), token))
}

func (c *Client[T]) withHTTPClient(ctx context.Context) context.Context {
	if c.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}
