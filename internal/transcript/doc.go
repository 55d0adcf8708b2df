// Package transcript fetches caption transcripts and keeps the latest
// validated copy available to the composition.
//
// A Controller owns the current Snapshot. Its first fetch resolves a one-shot
// gate that blocks rendering; later fetches, triggered by file change
// signals, replace the snapshot atomically and are announced on a separate,
// non-blocking update channel. Only the first fetch can fail a render: once
// captions are known, a failed reload keeps the last good snapshot.
package transcript
