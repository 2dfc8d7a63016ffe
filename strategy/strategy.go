package strategy

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/goliatone/go-mlhauth/logger"
	mlhoauth "github.com/goliatone/go-mlhauth/oauth2"
	"golang.org/x/oauth2"
)

// State is carried through the provider round trip.
type State struct {
	ReturnTo string `json:"return_to,omitempty"`
}

// Client is the OAuth2 client the strategy drives. *oauth2.Client[State]
// implements it.
type Client interface {
	AuthCodeURL(ctx context.Context, data State, opts ...oauth2.AuthCodeOption) (string, error)
	ValidateState(ctx context.Context, state string) (State, error)
	Exchange(ctx context.Context, code string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error)
	AccessToken(ctx context.Context, token *oauth2.Token) mlhoauth.AccessToken
}

var _ Client = (*mlhoauth.Client[State])(nil)

// Strategy is safe for concurrent use. Per-request data lives in Callback.
type Strategy struct {
	client  Client
	opts    Options
	fetcher *Fetcher
	logger  *slog.Logger
	methods map[string]struct{}
}

type Option func(*Strategy)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(s *Strategy) {
		if l != nil {
			s.logger = l
		}
	}
}

func New(client Client, opts Options, options ...Option) (*Strategy, error) {
	if client == nil {
		return nil, fmt.Errorf("client cannot be nil")
	}

	opts = opts.withDefaults()
	s := &Strategy{
		client:  client,
		opts:    opts,
		logger:  logger.Discard(),
		methods: make(map[string]struct{}, len(opts.AllowedMethods)),
	}

	for _, opt := range options {
		opt(s)
	}

	for _, m := range opts.AllowedMethods {
		s.methods[strings.ToUpper(m)] = struct{}{}
	}

	fetcher, err := NewFetcher(opts, s.logger)
	if err != nil {
		return nil, fmt.Errorf("strategy %s: %w", opts.Name, err)
	}
	s.fetcher = fetcher

	return s, nil
}

func (s *Strategy) Name() string {
	return s.opts.Name
}

func (s *Strategy) Options() Options {
	return s.opts
}

func (s *Strategy) Fetcher() *Fetcher {
	return s.fetcher
}

// NewCallback binds a memoized profile lookup to token.
func (s *Strategy) NewCallback(ctx context.Context, token mlhoauth.AccessToken) *Callback {
	return NewCallback(ctx, s.fetcher, token)
}

func (s *Strategy) allowed(method string) bool {
	_, ok := s.methods[method]
	return ok
}

// RequestPhase redirects to the provider's authorization page. A local
// return_to path is carried through the flow.
func (s *Strategy) RequestPhase(w http.ResponseWriter, r *http.Request) error {
	if !s.allowed(r.Method) {
		return fmt.Errorf("%w: %s", ErrMethodNotAllowed, r.Method)
	}

	state := State{ReturnTo: safeReturnTo(r.FormValue("return_to"))}

	authURL, err := s.client.AuthCodeURL(r.Context(), state)
	if err != nil {
		return fmt.Errorf("request phase: %w", err)
	}

	http.Redirect(w, r, authURL, http.StatusFound)
	return nil
}

// CallbackPhase completes the flow. Provider errors, bad state and a failed
// token exchange are returned as errors; a failed profile fetch is not and
// yields a sparse AuthHash instead.
func (s *Strategy) CallbackPhase(r *http.Request) (*AuthHash, error) {
	if !s.allowed(r.Method) {
		return nil, fmt.Errorf("%w: %s", ErrMethodNotAllowed, r.Method)
	}

	ctx := r.Context()

	if code := r.FormValue("error"); code != "" {
		if desc := r.FormValue("error_description"); desc != "" {
			return nil, fmt.Errorf("%w: %s: %s", ErrAccessDenied, code, desc)
		}
		return nil, fmt.Errorf("%w: %s", ErrAccessDenied, code)
	}

	state, err := s.client.ValidateState(ctx, r.FormValue("state"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}

	token, err := s.client.Exchange(ctx, r.FormValue("code"))
	if err != nil {
		s.logger.ErrorContext(ctx, "token exchange failed",
			logger.Component("strategy"),
			logger.Provider(s.opts.Name),
			logger.Error(err),
		)
		return nil, err
	}

	cb := s.NewCallback(ctx, s.client.AccessToken(ctx, token))

	hash := &AuthHash{
		Provider:    s.opts.Name,
		UID:         cb.UID(),
		Info:        cb.Info(),
		Credentials: CredentialsFromToken(token),
		Extra:       cb.Extra(),
		ReturnTo:    state.ReturnTo,
	}

	s.logger.InfoContext(ctx, "authentication completed",
		logger.Component("strategy"),
		logger.Provider(s.opts.Name),
		logger.UID(hash.UID),
	)

	return hash, nil
}

// SuccessFunc receives the AuthHash of a completed login.
type SuccessFunc func(w http.ResponseWriter, r *http.Request, hash *AuthHash)

// FailureFunc receives any phase error.
type FailureFunc func(w http.ResponseWriter, r *http.Request, err error)

// DefaultSuccess writes the hash as JSON. Credentials are left out.
func DefaultSuccess(w http.ResponseWriter, _ *http.Request, hash *AuthHash) {
	body := struct {
		Provider string         `json:"provider"`
		UID      *string        `json:"uid"`
		Info     map[string]any `json:"info"`
		Extra    Extra          `json:"extra"`
		ReturnTo string         `json:"return_to,omitempty"`
	}{
		Provider: hash.Provider,
		UID:      hash.UID,
		Info:     hash.Info,
		Extra:    hash.Extra,
		ReturnTo: hash.ReturnTo,
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

// DefaultFailure writes the status from HTTPStatus.
func DefaultFailure(w http.ResponseWriter, _ *http.Request, err error) {
	status := HTTPStatus(err)
	http.Error(w, http.StatusText(status), status)
}

// Handler serves the request and callback paths. Nil callbacks fall back to
// DefaultSuccess and DefaultFailure.
func (s *Strategy) Handler(onSuccess SuccessFunc, onFailure FailureFunc) http.Handler {
	if onSuccess == nil {
		onSuccess = DefaultSuccess
	}
	if onFailure == nil {
		onFailure = DefaultFailure
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case s.opts.RequestPath:
			if err := s.RequestPhase(w, r); err != nil {
				onFailure(w, r, err)
			}
		case s.opts.CallbackPath:
			hash, err := s.CallbackPhase(r)
			if err != nil {
				onFailure(w, r, err)
				return
			}
			onSuccess(w, r, hash)
		default:
			onFailure(w, r, fmt.Errorf("%w: %s", ErrNotFound, r.URL.Path))
		}
	})
}

// safeReturnTo keeps only local absolute paths.
func safeReturnTo(p string) string {
	p = strings.TrimSpace(p)
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return ""
	}
	return p
}
