package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Structural errors returned by scheduler bookkeeping operations.
// Failures inside a task's work unit are never surfaced through these;
// they are logged and the task keeps its cycle.
var (
	// ErrEmptyTaskName indicates an AddTask call without a task name.
	ErrEmptyTaskName = errors.New("task name cannot be empty")

	// ErrNilWorker indicates an AddTask call without a work unit.
	ErrNilWorker = errors.New("task worker cannot be nil")

	// ErrInvalidInterval indicates an AddTask call with a zero or
	// negative interval.
	ErrInvalidInterval = errors.New("task interval must be positive")
)

// TaskStatus is a point-in-time view of one registered task. Callers
// exposing it over the wire own the serialized shape.
type TaskStatus struct {
	// Interval is the configured delay between invocations.
	Interval time.Duration

	// Done reports whether the task's goroutine has fully terminated.
	Done bool

	// Cancelled reports whether the task terminated because its
	// cancellation was requested.
	Cancelled bool
}

// Status is a point-in-time view of the whole scheduler, suitable for
// an operational/health endpoint.
type Status struct {
	Running bool
	Tasks   map[string]TaskStatus
}

// scheduledTask is one registered recurring job. The cancel func and
// done channel are owned exclusively by the scheduler entry; awaiting
// done is the only way to observe termination.
type scheduledTask struct {
	name     string
	interval time.Duration

	cancel    context.CancelFunc
	done      chan struct{}
	cancelled atomic.Bool

	// termErr records an abnormal termination (a panic escaping the
	// work unit). Written once by the task goroutine before done is
	// closed; read only after done is closed.
	termErr error
}

func (t *scheduledTask) isDone() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Scheduler supervises named recurring tasks, each running on its own
// goroutine with a fixed interval between invocations. A task name maps
// to at most one live goroutine at a time. Work failures are isolated
// per task; only cancellation or the scheduler stopping ends a task's
// loop.
type Scheduler struct {
	mu      sync.Mutex
	tasks   map[string]*scheduledTask
	gate    chan struct{} // closed while the scheduler is running
	running atomic.Bool
	logger  *slog.Logger
}

// New creates a Scheduler. The logger may be nil, in which case the
// process default logger is used.
func New(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		tasks:  make(map[string]*scheduledTask),
		gate:   make(chan struct{}),
		logger: logger,
	}
}

// Start marks the scheduler as running, releasing any tasks that were
// registered before startup. Calling Start on a running scheduler is a
// logged no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running.Load() {
		s.logger.Warn("scheduler is already running")
		return
	}

	s.running.Store(true)
	close(s.gate)
	s.logger.Info("scheduler started")
}

// Stop clears the running flag, then cancels and awaits every
// registered task. On return the task map is empty and no
// scheduler-owned goroutines remain. Abnormal task terminations are
// joined into the returned error; plain cancellations are absorbed.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	s.running.Store(false)
	s.gate = make(chan struct{})
	names := make([]string, 0, len(s.tasks))
	for name := range s.tasks {
		names = append(names, name)
	}
	s.mu.Unlock()

	var errs []error
	for _, name := range names {
		if err := s.RemoveTask(name); err != nil {
			errs = append(errs, err)
		}
	}

	s.logger.Info("scheduler stopped", "removed_tasks", len(names))
	return errors.Join(errs...)
}

// AddTask registers a named recurring task and spawns its goroutine.
// The first invocation happens promptly, with no initial delay. If the
// name is already registered, the existing task is cancelled and
// awaited before the new one is installed: a replace, not an error.
//
// The scheduler imposes no per-invocation timeout and no bound on the
// task count; a work unit that never returns stalls only its own task.
func (s *Scheduler) AddTask(name string, work Worker, interval time.Duration) error {
	if name == "" {
		return ErrEmptyTaskName
	}
	if work == nil {
		return ErrNilWorker
	}
	if interval <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidInterval, interval)
	}

	s.mu.Lock()
	_, exists := s.tasks[name]
	s.mu.Unlock()
	if exists {
		s.logger.Warn("task already exists, replacing", "task", name)
		if err := s.RemoveTask(name); err != nil {
			return fmt.Errorf("replacing task %q: %w", name, err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	t := &scheduledTask{
		name:     name,
		interval: interval,
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	s.mu.Lock()
	old := s.tasks[name]
	s.tasks[name] = t
	s.mu.Unlock()
	if old != nil {
		// Lost a race with a concurrent AddTask for the same name; tear
		// down the displaced goroutine so the name maps to exactly one
		// live execution unit.
		old.cancel()
		<-old.done
	}

	go s.runLoop(ctx, t, work)

	s.logger.Info("task added", "task", name, "interval", interval)
	return nil
}

// RemoveTask cancels the named task, awaits its termination, and
// deletes its record. Removing an unknown name is a no-op. A plain
// cancellation is absorbed; an abnormal termination (a panic that
// escaped the work unit) is returned to the caller.
func (s *Scheduler) RemoveTask(name string) error {
	s.mu.Lock()
	t, ok := s.tasks[name]
	s.mu.Unlock()
	if !ok {
		return nil
	}

	t.cancel()
	<-t.done

	s.mu.Lock()
	// Guard against the entry having been replaced while we waited.
	if s.tasks[name] == t {
		delete(s.tasks, name)
	}
	s.mu.Unlock()

	if t.termErr != nil {
		return fmt.Errorf("task %q terminated abnormally: %w", name, t.termErr)
	}

	s.logger.Info("task removed", "task", name)
	return nil
}

// Status returns a snapshot of the scheduler and every registered task.
// It never blocks and never mutates state.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := make(map[string]TaskStatus, len(s.tasks))
	for name, t := range s.tasks {
		tasks[name] = TaskStatus{
			Interval:  t.interval,
			Done:      t.isDone(),
			Cancelled: t.cancelled.Load(),
		}
	}

	return Status{
		Running: s.running.Load(),
		Tasks:   tasks,
	}
}

// startGate returns the channel that is closed while the scheduler is
// running. Tasks registered before Start park on it.
func (s *Scheduler) startGate() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gate
}

// runLoop is the body of one task's goroutine: invoke the work unit,
// sleep for the interval (on success and on failure alike), repeat.
// Only cancellation or the scheduler's running flag dropping ends the
// loop; a work failure is logged and absorbed.
func (s *Scheduler) runLoop(ctx context.Context, t *scheduledTask, work Worker) {
	defer close(t.done)
	defer func() {
		if r := recover(); r != nil {
			t.termErr = fmt.Errorf("panic in work unit: %v", r)
			s.logger.Error("task panicked", "task", t.name, "panic", r)
		}
	}()

	for {
		if !s.running.Load() {
			// Registered before Start, or the scheduler stopped while
			// we slept. Park until started or cancelled.
			select {
			case <-ctx.Done():
				t.cancelled.Store(true)
				s.logger.Info("task cancelled", "task", t.name)
				return
			case <-s.startGate():
			}
			continue
		}

		if err := work.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				t.cancelled.Store(true)
				s.logger.Info("task cancelled", "task", t.name)
				return
			}
			s.logger.Error("task work failed", "task", t.name, "error", err)
		}

		timer := time.NewTimer(t.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			t.cancelled.Store(true)
			s.logger.Info("task cancelled", "task", t.name)
			return
		case <-timer.C:
		}
	}
}
