// Package vectordb defines the database-agnostic abstraction for vector
// similarity indexes.
//
// Application code depends on the Store interface and the types in this
// package; concrete backends (Qdrant today) live in their own packages
// and can be swapped without touching pipeline logic. Tests run against
// an in-memory Store implementation.
package vectordb
