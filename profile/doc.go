// Package profile turns a decoded MyMLH API response into an Identity.
//
// The pipeline is Unwrap (descend into the response envelope), Normalize
// (canonical lower snake_case keys at every depth) and Projector.Project
// (uid extraction, selected profile fields, optional pruning, extras).
// Every step is pure and leaves its input untouched.
package profile
