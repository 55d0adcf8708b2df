// Package preflight provides readiness checks for the filesystem paths and
// external collaborators reelcaption depends on.
//
// These checks run in two contexts:
//   - "reelcaption render" and "reelcaption serve" call RunAll before opening
//     a composition and refuse to start when a check fails.
//   - "reelcaption status" displays every result, including binary
//     dependencies from CheckSystemDeps.
//
// Checks for optional features are skipped when the feature is not configured.
package preflight
