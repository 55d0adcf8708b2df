// Package assets resolves asset references against the static directory.
//
// It derives transcript identifiers from video references, lists the files
// the static directory currently serves, answers existence checks, and
// delivers change signals for individual files so transcripts can be
// hot-reloaded.
package assets
