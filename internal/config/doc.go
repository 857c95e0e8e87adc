// Package config loads, normalizes, and validates gwatching configuration
// data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// GWATCHING_BOARD_KEY. The Config type centralizes every knob the CLI and
// the cron runner need, so board credentials, scraper endpoints, and log
// sinks are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
