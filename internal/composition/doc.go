// Package composition assembles the timed layer stack for one video asset.
//
// Open probes the asset and waits for the first transcript fetch
// concurrently; a failure of either aborts the session. The resulting Session
// serves the current Stack and rebuilds it whenever the transcript
// controller publishes a newer snapshot.
package composition
