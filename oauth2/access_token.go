package oauth2

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
)

// maxResponseBytes caps how much of a profile response is read.
const maxResponseBytes = 4 << 20

// AccessToken performs authenticated requests on behalf of the user.
type AccessToken interface {
	// Get issues a GET with the bearer token and returns the response body.
	// Non-2xx responses are returned as *ResponseError.
	Get(ctx context.Context, url string) (*Response, error)
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Parsed decodes the body as JSON. Numbers are kept as json.Number so
// large integer ids survive unchanged.
func (r *Response) Parsed() (any, error) {
	if r == nil || len(bytes.TrimSpace(r.Body)) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	dec := json.NewDecoder(bytes.NewReader(r.Body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if err := dec.Decode(new(any)); err != io.EOF {
		return nil, fmt.Errorf("failed to decode response: unexpected data after JSON value")
	}
	return v, nil
}

// ResponseError reports a non-2xx response.
type ResponseError struct {
	StatusCode int
	Body       []byte
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

type bearerAccessToken struct {
	client *http.Client
}

var _ AccessToken = &bearerAccessToken{}

// NewAccessToken wraps an HTTP client that already authenticates its
// requests, such as one from oauth2.Config.Client.
func NewAccessToken(client *http.Client) AccessToken {
	if client == nil {
		client = http.DefaultClient
	}
	return &bearerAccessToken{client: client}
}

// NewStaticAccessToken returns an AccessToken for a bare token value, using
// base as the underlying client. base may be nil.
func NewStaticAccessToken(ctx context.Context, token *oauth2.Token, base *http.Client) AccessToken {
	if base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	}
	return NewAccessToken(oauth2.NewClient(ctx, oauth2.StaticTokenSource(token)))
}

func (a *bearerAccessToken) Get(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ResponseError{StatusCode: resp.StatusCode, Body: body}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}
