// Package config loads, normalizes, and validates stockpile configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// daemon and CLI need: storage locations, the identifier format, and the token
// patterns the scanner session recognizes.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical scanner literals, and clear validation errors.
package config
