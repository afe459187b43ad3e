// Package ports defines interfaces for infrastructure operations.
// Data wrappers depend on these abstractions; the dataset file, its storage
// engine and the dump format are adapters implementing them.
package ports
