package mlhauth

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	ptre "github.com/soongo/path-to-regexp"
)

// DefaultAPIBase is the MyMLH API host.
const DefaultAPIBase = "https://api.mlh.com"

const (
	RouteMe   = "me"
	RouteUser = "user"
)

var ErrRouteNotFound = errors.New("route not found")

// DefaultRoutes returns the v4 user routes. The map is a fresh copy.
func DefaultRoutes() map[string]string {
	return map[string]string{
		RouteMe:   "/v4/users/me",
		RouteUser: "/v4/users/:id",
	}
}

// Endpoints holds the API base URL and a set of named, compiled route
// templates. It is safe for concurrent use.
type Endpoints struct {
	mu             sync.RWMutex
	baseURL        string
	routes         map[string]string
	compiledRoutes map[string]func(any) (string, error)
}

// NewEndpoints compiles every route template. It panics on a malformed
// template, routes are expected to be static.
func NewEndpoints(baseURL string, routes map[string]string) *Endpoints {
	e, err := CompileEndpoints(baseURL, routes)
	if err != nil {
		panic(err)
	}
	return e
}

// CompileEndpoints is NewEndpoints for templates that come from
// configuration.
func CompileEndpoints(baseURL string, routes map[string]string) (*Endpoints, error) {
	e := &Endpoints{
		baseURL:        strings.TrimRight(baseURL, "/"),
		routes:         make(map[string]string, len(routes)),
		compiledRoutes: make(map[string]func(any) (string, error), len(routes)),
	}

	for name, tpl := range routes {
		if err := e.addRoute(name, tpl); err != nil {
			return nil, err
		}
	}

	return e, nil
}

func (e *Endpoints) addRoute(name, tpl string) error {
	compiled, err := ptre.Compile(tpl, &ptre.Options{
		Encode: func(uri string, token any) string {
			return url.PathEscape(uri)
		},
	})
	if err != nil {
		return fmt.Errorf("invalid route %q: %w", name, err)
	}

	e.routes[name] = tpl
	e.compiledRoutes[name] = compiled
	return nil
}

// AddRoute registers or replaces a named route.
func (e *Endpoints) AddRoute(name, tpl string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.addRoute(name, tpl)
}

func (e *Endpoints) BaseURL() string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.baseURL
}

// Route returns the raw template registered under name.
func (e *Endpoints) Route(name string) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	tpl, ok := e.routes[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrRouteNotFound, name)
	}
	return tpl, nil
}

// Render fills the route template with params and joins it to the base URL.
func (e *Endpoints) Render(name string, params map[string]any) (string, error) {
	e.mu.RLock()
	compiled, ok := e.compiledRoutes[name]
	baseURL := e.baseURL
	e.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrRouteNotFound, name)
	}

	if params == nil {
		params = map[string]any{}
	}

	path, err := compiled(params)
	if err != nil {
		return "", fmt.Errorf("failed to build route %q: %w", name, err)
	}

	return joinPath(baseURL, path), nil
}

// ProfileURL renders RouteMe with the given expansions.
func (e *Endpoints) ProfileURL(expand ...string) (string, error) {
	return e.Builder(RouteMe).WithExpand(expand...).Build()
}

func (e *Endpoints) Builder(route string) *Builder {
	b := &Builder{
		endpoints: e,
		route:     route,
		params:    make(map[string]any),
	}

	if _, err := e.Route(route); err != nil {
		b.err = err
	}

	return b
}
