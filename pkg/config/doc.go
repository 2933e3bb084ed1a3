// Package config loads iconify configuration files.
//
// A [Loader] decodes YAML into any versioned config type, validates it
// against the type's JSON schema and its Go-side rules, and annotates errors
// with the offending part of the source document.
package config
