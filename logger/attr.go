// Package logger holds slog attribute helpers shared by the mlhauth packages.
package logger

import (
	"io"
	"log/slog"
)

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the emitting component under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Provider records the identity provider name under the key "provider".
func Provider(name string) slog.Attr {
	return slog.String("provider", name)
}

// UID records the provider user identifier under the key "uid".
// If uid is nil, it returns an empty Attr.
func UID(uid *string) slog.Attr {
	if uid == nil {
		return slog.Attr{}
	}
	return slog.String("uid", *uid)
}

// Endpoint records a request URL under the key "endpoint". Never pass URLs
// that carry credentials.
func Endpoint(url string) slog.Attr {
	return slog.String("endpoint", url)
}

// StatusCode records an HTTP status under the key "status_code".
// Zero yields an empty Attr.
func StatusCode(code int) slog.Attr {
	if code == 0 {
		return slog.Attr{}
	}
	return slog.Int("status_code", code)
}

// Fields records the number of projected profile fields under "fields".
func Fields(n int) slog.Attr {
	return slog.Int("fields", n)
}
