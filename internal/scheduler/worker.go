package scheduler

import "context"

// Worker is the capability required of a unit of recurring work: perform
// one invocation and report its outcome. The context is cancelled when
// the owning task is removed or the scheduler stops, so long-running
// work should honor it.
type Worker interface {
	RunOnce(ctx context.Context) error
}

// WorkerFunc adapts a plain function to the Worker interface, so callers
// can register closures without defining a type.
type WorkerFunc func(ctx context.Context) error

// RunOnce implements the Worker interface.
func (f WorkerFunc) RunOnce(ctx context.Context) error {
	return f(ctx)
}
