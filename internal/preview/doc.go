// Package preview serves a live composition over a local HTTP API.
//
// The server reads the session's latest stack on every request, so
// transcript edits show up without a restart. A flock lock file in the log
// directory keeps two previews from sharing one log directory.
package preview
