package strategy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	mlhauth "github.com/goliatone/go-mlhauth"
	"github.com/goliatone/go-mlhauth/logger"
	mlhoauth "github.com/goliatone/go-mlhauth/oauth2"
	"github.com/goliatone/go-mlhauth/profile"
)

// Result is the outcome of a profile fetch. Identity is always usable;
// Err records why it is empty, for logging only.
type Result struct {
	Identity profile.Identity
	Err      error
}

func (r Result) OK() bool {
	return r.Err == nil
}

func failed(err error) Result {
	return Result{Identity: profile.Empty(), Err: err}
}

// Fetcher retrieves and projects the authenticated user's profile.
// It is immutable and safe for concurrent use.
type Fetcher struct {
	name      string
	url       string
	envelope  string
	projector *profile.Projector
	logger    *slog.Logger
}

// NewFetcher validates opts and prepares the request URL and projector.
// A nil logger discards output.
func NewFetcher(opts Options, log *slog.Logger) (*Fetcher, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	projector, err := opts.Projector()
	if err != nil {
		return nil, err
	}

	if log == nil {
		log = logger.Discard()
	}

	return &Fetcher{
		name:      opts.Name,
		url:       mlhauth.BuildProfileURL(opts.ProfileURL, opts.ExpandFields),
		envelope:  opts.Envelope,
		projector: projector,
		logger:    log,
	}, nil
}

// URL is the profile request URL including expansions.
func (f *Fetcher) URL() string {
	return f.url
}

// Fetch performs one GET through token and projects the response. It never
// panics and never fails: on any error the Result carries an empty
// Identity and the cause.
func (f *Fetcher) Fetch(ctx context.Context, token mlhoauth.AccessToken) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = failed(fmt.Errorf("%w: %v", ErrProfileFetch, r))
		}
		if res.Err != nil {
			f.logFailure(ctx, res.Err)
		}
	}()

	if token == nil {
		return failed(ErrNoAccessToken)
	}

	resp, err := token.Get(ctx, f.url)
	if err != nil {
		return failed(fmt.Errorf("%w: %w", ErrProfileFetch, err))
	}

	raw, err := resp.Parsed()
	if err != nil {
		return failed(fmt.Errorf("%w: %w", ErrProfileDecode, err))
	}

	identity := f.projector.ProjectRaw(raw, f.envelope)
	f.logger.DebugContext(ctx, "profile fetched",
		logger.Component("strategy"),
		logger.Provider(f.name),
		logger.UID(identity.UID),
		logger.Fields(len(identity.Profile)),
	)

	return Result{Identity: identity}
}

func (f *Fetcher) logFailure(ctx context.Context, err error) {
	status := 0
	var respErr *mlhoauth.ResponseError
	if errors.As(err, &respErr) {
		status = respErr.StatusCode
	}

	f.logger.WarnContext(ctx, "profile fetch failed, continuing with empty identity",
		logger.Component("strategy"),
		logger.Provider(f.name),
		logger.Endpoint(f.url),
		logger.StatusCode(status),
		logger.Error(err),
	)
}

// FetchIdentity is a one-shot fetch with opts. Invalid options are reported
// through Result.Err like any other failure.
func FetchIdentity(ctx context.Context, token mlhoauth.AccessToken, opts Options) Result {
	fetcher, err := NewFetcher(opts, nil)
	if err != nil {
		return failed(err)
	}
	return fetcher.Fetch(ctx, token)
}
