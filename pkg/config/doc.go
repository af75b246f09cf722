// Package config loads and validates the relay configuration from YAML,
// applies environment variable overrides, and watches the file for
// credential changes at runtime.
//
// The loading sequence is: parse YAML, apply defaults, apply LIFELAYER_*
// environment overrides, validate. Validation failures name the offending
// field so operators can fix the file without reading source.
package config
