// Package worker contains the recurring work units registered on the
// scheduler at startup. Each worker performs one bounded unit of work
// per invocation; pacing, cancellation, and failure isolation are the
// scheduler's job.
package worker
