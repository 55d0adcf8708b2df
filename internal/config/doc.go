// Package config loads, normalizes, and validates reelcaption configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// REELCAPTION_STATIC_DIR. The Config type centralizes every knob the CLI and
// preview server need: where static assets live, how the composition is
// framed, and how assets are probed.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
