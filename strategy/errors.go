package strategy

import (
	"errors"
	"net/http"

	mlhoauth "github.com/goliatone/go-mlhauth/oauth2"
)

var (
	ErrMethodNotAllowed = errors.New("request method not allowed")
	ErrInvalidState     = errors.New("invalid oauth state")
	ErrAccessDenied     = errors.New("access denied by provider")
	ErrNoAccessToken    = errors.New("no access token")
	ErrProfileFetch     = errors.New("profile fetch failed")
	ErrProfileDecode    = errors.New("profile decode failed")
	ErrNotFound         = errors.New("no such auth route")
)

// HTTPStatus maps phase errors to a response status.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidState), errors.Is(err, ErrAccessDenied):
		return http.StatusUnauthorized
	case errors.Is(err, mlhoauth.ErrTokenExchange):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
