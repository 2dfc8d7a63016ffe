package strategy

import (
	"fmt"
	"net/http"
	"strings"

	mlhauth "github.com/goliatone/go-mlhauth"
	mlhoauth "github.com/goliatone/go-mlhauth/oauth2"
	"github.com/goliatone/go-mlhauth/profile"
)

const (
	DefaultEnvelope     = "data"
	DefaultRequestPath  = "/auth/mlh"
	DefaultCallbackPath = "/auth/mlh/callback"
)

// Options configures profile retrieval and the HTTP phases. Start from
// DefaultOptions; the zero value disables pruning and has no profile URL.
type Options struct {
	Name string
	// ProfileURL is the profile endpoint before expand[] parameters.
	ProfileURL   string
	ExpandFields []string
	// Envelope names the top-level key holding the payload. Empty means the
	// response is the payload.
	Envelope string
	// UIDPath is a JMESPath expression evaluated against the payload.
	UIDPath        string
	InfoFields     []string
	Prune          bool
	IncludeMissing bool
	ExtraFields    []string

	RequestPath    string
	CallbackPath   string
	AllowedMethods []string
}

var defaultProfileURL = mlhauth.NewEndpoints(mlhauth.DefaultAPIBase, mlhauth.DefaultRoutes()).
	Builder(mlhauth.RouteMe).
	MustBuild()

func DefaultOptions() Options {
	return Options{
		Name:           mlhoauth.MLHProviderName,
		ProfileURL:     defaultProfileURL,
		Envelope:       DefaultEnvelope,
		UIDPath:        profile.DefaultUIDPath,
		InfoFields:     profile.DefaultFields(),
		Prune:          true,
		RequestPath:    DefaultRequestPath,
		CallbackPath:   DefaultCallbackPath,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	}
}

// Projector builds the profile.Projector described by o.
func (o Options) Projector() (*profile.Projector, error) {
	opts := []profile.ProjectorOption{
		profile.WithUIDPath(o.UIDPath),
		profile.WithPrune(o.Prune),
		profile.WithIncludeMissing(o.IncludeMissing),
		profile.WithExtraFields(o.ExtraFields...),
	}
	if o.InfoFields != nil {
		opts = append(opts, profile.WithFields(o.InfoFields...))
	}
	return profile.NewProjector(opts...)
}

func (o Options) validate() error {
	if strings.TrimSpace(o.ProfileURL) == "" {
		return fmt.Errorf("profile URL cannot be empty")
	}
	return nil
}

func (o Options) withDefaults() Options {
	if o.Name == "" {
		o.Name = mlhoauth.MLHProviderName
	}
	if o.RequestPath == "" {
		o.RequestPath = DefaultRequestPath
	}
	if o.CallbackPath == "" {
		o.CallbackPath = DefaultCallbackPath
	}
	if len(o.AllowedMethods) == 0 {
		o.AllowedMethods = []string{http.MethodGet, http.MethodPost}
	}
	return o
}
