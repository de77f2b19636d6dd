// Package preflight provides readiness checks for the paths and the speech
// API a build depends on.
//
// The checks back the CLI "gioibon status" command and the stage health
// checks the build logs before it starts. Each check is gated by its config
// toggle; the speech API is only probed when synthesis is enabled.
package preflight
