// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual audio/video stream properties
//   - Format: container-level metadata (duration, size)
//
// Inspect executes ffprobe against a local path or URL and returns the parsed
// Result. Helper methods give the container duration and the native frame
// rate of the first video stream.
package ffprobe
