// Package config loads, normalizes, and validates subtrans configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SUBTRANS_API_KEY and OPENROUTER_API_KEY. The Config type centralizes every
// knob the CLI needs: backend credentials, languages, chunking, worker count,
// output directories and the block cache.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
