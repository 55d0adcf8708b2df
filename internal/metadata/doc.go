// Package metadata derives composition metadata (frame rate and duration in
// frames) from a probed video asset.
//
// A Deriver makes exactly one probe attempt per call. Any failure is fatal
// for the composition that asked: there is no partial metadata and no retry.
package metadata
