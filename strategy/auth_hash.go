package strategy

import (
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// AuthHash is the normalized outcome of a successful login.
type AuthHash struct {
	Provider    string         `json:"provider"`
	UID         *string        `json:"uid"`
	Info        map[string]any `json:"info"`
	Credentials Credentials    `json:"credentials"`
	Extra       Extra          `json:"extra"`
	// ReturnTo is the local path requested when the flow started.
	ReturnTo string `json:"return_to,omitempty"`
}

// Valid reports whether the hash identifies a user.
func (h *AuthHash) Valid() bool {
	return h != nil && h.Provider != "" && h.UID != nil && *h.UID != ""
}

type Extra struct {
	RawInfo map[string]any `json:"raw_info"`
}

type Credentials struct {
	Token        string   `json:"token"`
	TokenType    string   `json:"token_type,omitempty"`
	RefreshToken string   `json:"refresh_token,omitempty"`
	ExpiresAt    int64    `json:"expires_at,omitempty"`
	Expires      bool     `json:"expires"`
	Scopes       []string `json:"scopes,omitempty"`
}

// CredentialsFromToken copies the token fields hosts persist. RefreshToken is
// only set when the server issued one, typically with offline_access.
func CredentialsFromToken(tok *oauth2.Token) Credentials {
	if tok == nil {
		return Credentials{}
	}

	creds := Credentials{
		Token:        tok.AccessToken,
		TokenType:    tok.TokenType,
		RefreshToken: tok.RefreshToken,
	}

	if !tok.Expiry.IsZero() {
		creds.Expires = true
		creds.ExpiresAt = tok.Expiry.Unix()
	}

	if scope, ok := tok.Extra("scope").(string); ok && scope != "" {
		creds.Scopes = strings.Fields(scope)
	}

	return creds
}

// Expired reports whether the access token is past its expiry at now.
func (c Credentials) Expired(now time.Time) bool {
	return c.Expires && now.Unix() >= c.ExpiresAt
}
