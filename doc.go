// Package sqlite is a minimal, type-safe client layer over the embedded
// SQLite engine: single-statement execution with positional parameter
// binding, typed row access, transaction scoping, and schema migration
// support via the migrate subpackage.
//
// SQL text is passed through to the engine unmodified. Every operation on a
// Conn is funneled through one internal serialization point, so a single
// Conn is safe to share between goroutines.
package sqlite
