// Package mlhauth builds the request URLs used to talk to the MyMLH API.
//
// The profile endpoint accepts repeated expand[] query parameters that ask the
// API to inline related records (education, employment, address, ...) in the
// same response:
//
//	u := mlhauth.BuildProfileURL("https://api.mlh.com/v4/users/me", []string{"education", "address"})
//	// https://api.mlh.com/v4/users/me?expand[]=education&expand[]=address
//
// Named API routes are compiled once and rendered through a Builder:
//
//	endpoints := mlhauth.NewEndpoints(mlhauth.DefaultAPIBase, mlhauth.DefaultRoutes())
//	u, err := endpoints.Builder(mlhauth.RouteUser).
//		WithParam("id", "c2ac35c6").
//		WithExpand("education").
//		Build()
//
// The OAuth2 flow lives in the oauth2 subpackage, profile normalization in
// profile, and the host-facing orchestration in strategy.
package mlhauth
