// Package store defines persistence interfaces and the shared error
// taxonomy used by their implementations. Handlers and services depend
// on these interfaces, never on a concrete database package.
package store
