// Package main hosts the reelcaption CLI entrypoint and command graph.
//
// The Cobra-based command tree schedules captions, renders layer stacks to
// JSON, SRT, or SQLite, probes assets, serves a live preview, and reports
// environment health. Configuration resolution and logger setup live in the
// shared command context so subcommands stay declarative.
package main
