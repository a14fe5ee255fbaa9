// Package scheduler provides an interval-based supervisor for named
// recurring background tasks. Each task runs in its own goroutine,
// failures inside a task's work unit are isolated and logged, and the
// scheduler owns cancellation and clean shutdown of every task it
// spawned.
package scheduler
