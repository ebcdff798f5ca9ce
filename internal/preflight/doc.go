// Package preflight provides readiness checks for the filesystem paths and
// external services that subtrans depends on.
//
// The CLI "subtrans check" command runs RunAll and renders one status line
// per Result. Each check is gated by its config toggle; disabled features are
// skipped.
package preflight
