// Package services defines shared utilities consumed by the composition
// pipeline and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp session IDs, asset references, and component
//     names for logging.
//   - Structured error markers plus the Wrap helper that let callers tell
//     fatal initialization failures apart from soft conditions.
//
// Use these helpers when wiring new collaborators so error handling and
// observability stay uniform across the pipeline.
package services
