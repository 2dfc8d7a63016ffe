// Package config loads the MyMLH integration settings from the environment.
//
// Every variable carries the MLH_ prefix. A .env file in the working
// directory is read first when present; explicit files passed to Load must
// exist.
//
//	cfg, err := config.Load()
//	provider, err := oauth2.NewMLHProviderWithConfig(cfg.MLHConfig())
//	opts, err := cfg.StrategyOptions()
//	st, err := strategy.New(client, opts)
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	mlhauth "github.com/goliatone/go-mlhauth"
	mlhoauth "github.com/goliatone/go-mlhauth/oauth2"
	"github.com/goliatone/go-mlhauth/strategy"
)

const Prefix = "MLH_"

// NoEnvelope disables envelope unwrapping when used as MLH_ENVELOPE.
const NoEnvelope = "none"

type Config struct {
	ClientID     string `env:"CLIENT_ID,required"`
	ClientSecret string `env:"CLIENT_SECRET,required"`
	RedirectURL  string `env:"REDIRECT_URL" envDefault:"http://localhost:8080/auth/mlh/callback"`

	Site         string              `env:"SITE" envDefault:"https://my.mlh.io"`
	AuthorizeURL string              `env:"AUTHORIZE_URL" envDefault:"oauth/authorize"`
	TokenURL     string              `env:"TOKEN_URL" envDefault:"oauth/token"`
	AuthScheme   mlhoauth.AuthScheme `env:"AUTH_SCHEME" envDefault:"request_body"`
	Scope        string              `env:"SCOPE" envDefault:"user:read:profile user:read:email"`

	APIBase      string   `env:"API_BASE" envDefault:"https://api.mlh.com"`
	ProfilePath  string   `env:"PROFILE_PATH" envDefault:"/v4/users/me"`
	ExpandFields []string `env:"EXPAND_FIELDS" envSeparator:","`

	Envelope       string   `env:"ENVELOPE" envDefault:"data"`
	UIDPath        string   `env:"UID_PATH" envDefault:"id"`
	InfoFields     []string `env:"INFO_FIELDS" envSeparator:","`
	Prune          bool     `env:"PRUNE" envDefault:"true"`
	IncludeMissing bool     `env:"INCLUDE_MISSING" envDefault:"false"`
	ExtraFields    []string `env:"EXTRA_FIELDS" envSeparator:","`

	RequestPath  string `env:"REQUEST_PATH" envDefault:"/auth/mlh"`
	CallbackPath string `env:"CALLBACK_PATH" envDefault:"/auth/mlh/callback"`

	StateKey string        `env:"STATE_KEY,required"`
	StateTTL time.Duration `env:"STATE_TTL" envDefault:"10m"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"mlhauth:state:"`

	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`
	ListenAddr  string        `env:"LISTEN_ADDR" envDefault:":8080"`
	LogLevel    slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
}

// Load reads the optional .env file, or the given files, and parses the
// environment into a validated Config.
func Load(files ...string) (Config, error) {
	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return Config{}, fmt.Errorf("%w: %w", ErrEnvFile, err)
		}
	} else {
		// the default .env file is optional
		_ = godotenv.Load()
	}

	return Parse()
}

// Parse reads the current environment without touching .env files.
func Parse() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: Prefix}); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// MustLoad works like Load but panics on error.
func MustLoad(files ...string) Config {
	cfg, err := Load(files...)
	if err != nil {
		panic(fmt.Sprintf("failed to load mlh configuration: %v", err))
	}
	return cfg
}

func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.ClientID) == "" {
		errs = append(errs, fmt.Errorf("%w: client id", ErrMissingValue))
	}
	if strings.TrimSpace(c.ClientSecret) == "" {
		errs = append(errs, fmt.Errorf("%w: client secret", ErrMissingValue))
	}
	if strings.TrimSpace(c.RedirectURL) == "" {
		errs = append(errs, fmt.Errorf("%w: redirect url", ErrMissingValue))
	}
	if len(c.StateKey) < 32 {
		errs = append(errs, fmt.Errorf("%w: state key must be at least 32 bytes", ErrInvalidValue))
	}
	if len(c.Scopes()) == 0 {
		errs = append(errs, fmt.Errorf("%w: scope", ErrMissingValue))
	}
	if _, err := mlhoauth.ParseAuthScheme(string(c.AuthScheme)); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidValue, err))
	}
	if c.StateTTL <= 0 {
		errs = append(errs, fmt.Errorf("%w: state ttl must be positive", ErrInvalidValue))
	}
	if _, err := c.ProfileURL(); err != nil {
		errs = append(errs, err)
	}
	if c.HTTPTimeout < 0 {
		errs = append(errs, fmt.Errorf("%w: http timeout cannot be negative", ErrInvalidValue))
	}

	return errors.Join(errs...)
}

func (c Config) Scopes() []string {
	return mlhoauth.ParseScopes(c.Scope)
}

func (c Config) MLHConfig() mlhoauth.MLHConfig {
	return mlhoauth.MLHConfig{
		Site:         c.Site,
		AuthorizeURL: c.AuthorizeURL,
		TokenURL:     c.TokenURL,
		APIBase:      c.APIBase,
		ProfilePath:  c.ProfilePath,
		AuthScheme:   c.AuthScheme,
		Scopes:       c.Scopes(),
	}
}

// Endpoints returns the API routes against APIBase with RouteMe replaced by
// ProfilePath.
func (c Config) Endpoints() (*mlhauth.Endpoints, error) {
	routes := mlhauth.DefaultRoutes()
	if p := strings.TrimSpace(c.ProfilePath); p != "" {
		routes[mlhauth.RouteMe] = "/" + strings.TrimLeft(p, "/")
	}

	base := strings.TrimSpace(c.APIBase)
	if base == "" {
		base = mlhauth.DefaultAPIBase
	}

	endpoints, err := mlhauth.CompileEndpoints(base, routes)
	if err != nil {
		return nil, fmt.Errorf("%w: profile path: %w", ErrInvalidValue, err)
	}
	return endpoints, nil
}

// ProfileURL renders the profile route. An absolute ProfilePath is used as is.
func (c Config) ProfileURL() (string, error) {
	if isAbsoluteURL(c.ProfilePath) {
		return c.ProfilePath, nil
	}

	endpoints, err := c.Endpoints()
	if err != nil {
		return "", err
	}

	profileURL, err := endpoints.Render(mlhauth.RouteMe, nil)
	if err != nil {
		return "", fmt.Errorf("%w: profile path: %w", ErrInvalidValue, err)
	}
	return profileURL, nil
}

func (c Config) StrategyOptions() (strategy.Options, error) {
	opts := strategy.DefaultOptions()

	profileURL, err := c.ProfileURL()
	if err != nil {
		return strategy.Options{}, err
	}

	opts.ProfileURL = profileURL
	opts.ExpandFields = cleanList(c.ExpandFields)
	opts.UIDPath = c.UIDPath
	opts.Prune = c.Prune
	opts.IncludeMissing = c.IncludeMissing
	opts.ExtraFields = cleanList(c.ExtraFields)
	opts.RequestPath = c.RequestPath
	opts.CallbackPath = c.CallbackPath

	opts.Envelope = c.Envelope
	if strings.EqualFold(c.Envelope, NoEnvelope) {
		opts.Envelope = ""
	}

	if fields := cleanList(c.InfoFields); len(fields) > 0 {
		opts.InfoFields = fields
	}

	return opts, nil
}

// HTTPClient returns the client used for token and profile requests.
func (c Config) HTTPClient() *http.Client {
	return &http.Client{Timeout: c.HTTPTimeout}
}

// RedisOptions returns nil when no Redis address is configured.
func (c Config) RedisOptions() *redis.Options {
	if c.RedisAddr == "" {
		return nil
	}
	return &redis.Options{
		Addr:     c.RedisAddr,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	}
}

func isAbsoluteURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
