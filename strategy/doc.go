// Package strategy is the host-facing side of the MyMLH integration.
//
// A Strategy drives the two OAuth2 phases. The request phase redirects the
// user to my.mlh.io; the callback phase validates the returned state,
// exchanges the code and assembles an AuthHash from the user's profile.
//
// Profile retrieval is fail-soft. Once a token has been obtained, transport
// errors, non-2xx responses and undecodable bodies never fail the login:
// the AuthHash is returned with a nil UID and empty info, and the cause is
// logged at WARN. Token exchange failures remain hard errors.
//
//	st, err := strategy.New(client, strategy.DefaultOptions(), strategy.WithLogger(log))
//	mux.Handle("/auth/mlh/*", st.Handler(onLogin, nil))
package strategy
