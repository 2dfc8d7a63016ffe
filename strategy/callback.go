package strategy

import (
	"context"

	mlhoauth "github.com/goliatone/go-mlhauth/oauth2"
	"github.com/goliatone/go-mlhauth/profile"
)

// Callback belongs to a single callback request. The profile is fetched on
// first access and reused by every later accessor. A Callback is not safe
// for concurrent use.
type Callback struct {
	ctx     context.Context
	fetcher *Fetcher
	token   mlhoauth.AccessToken
	result  *Result
}

func NewCallback(ctx context.Context, fetcher *Fetcher, token mlhoauth.AccessToken) *Callback {
	return &Callback{ctx: ctx, fetcher: fetcher, token: token}
}

func (c *Callback) Result() Result {
	if c.result == nil {
		r := c.fetcher.Fetch(c.ctx, c.token)
		c.result = &r
	}
	return *c.result
}

func (c *Callback) Identity() profile.Identity {
	return c.Result().Identity
}

func (c *Callback) UID() *string {
	return c.Identity().UID
}

func (c *Callback) Info() map[string]any {
	return c.Identity().Profile
}

func (c *Callback) RawInfo() map[string]any {
	return c.Identity().Extras
}

// Extra returns the extras wrapped the way hosts expect them.
func (c *Callback) Extra() Extra {
	return Extra{RawInfo: c.RawInfo()}
}

// Err is the fetch failure cause, nil on success.
func (c *Callback) Err() error {
	return c.Result().Err
}
