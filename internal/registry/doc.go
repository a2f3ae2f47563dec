// Package registry provides read-only shelf name lookups keyed by nid.
//
// Three sources are supported: a fixed in-memory table, a YAML file loaded
// once at startup and a Redis hash queried on every lookup. A missing entry
// is reported as not found, never as an error; errors mean the source itself
// failed.
package registry
