// Package yaml wraps [github.com/goccy/go-yaml] for configuration files.
//
// Decoding and schema validation errors are returned as [*Error], which
// renders the offending part of the source document when printed.
package yaml
