package lifecycle

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	wferr "github.com/wallframe/wallframe-core/pkg/errors"
)

// tracerName is the OpenTelemetry instrumentation scope name for this package.
// It follows the Go module path convention for OTel instrumentation libraries.
const tracerName = "github.com/wallframe/wallframe-core/pkg/lifecycle"

// StateChangeHandler is a callback invoked when a worker's lifecycle state
// changes. It receives the previous state and the new state.
//
// Handlers execute synchronously under the worker's state mutex during
// [BaseWorker.SetState]. Implementations must not block for extended periods
// or call lifecycle methods on the same worker, as this will cause a deadlock.
// Handlers that panic are recovered and logged without preventing the state
// change.
//
// Typical uses include emitting metrics, updating service registries, and
// triggering alerts on failure transitions.
type StateChangeHandler func(old, new State)

// Hook is a function called during a lifecycle transition (start, stop,
// pause, resume) or on each tick of a periodic task. It receives the
// caller's context, which may carry deadlines and cancellation signals.
//
// If a lifecycle hook returns a non-nil error, the transition is aborted
// and the worker moves to [StateFailed]. Hooks should perform cleanup on
// error to avoid leaving resources in an inconsistent state. An error from
// a periodic task tick is logged and the loop continues.
//
// Hooks execute outside the worker's state mutex, so they may safely call
// read-only methods ([BaseWorker.State], [BaseWorker.Info]) on the worker
// without causing deadlocks.
type Hook func(ctx context.Context) error

// Worker defines the lifecycle contract for background workers on the
// WallFrame platform. Maintenance processes such as the failed-attempt
// sweeper implement this interface to provide uniform lifecycle management
// and health reporting to the service host.
//
// All methods must be safe for concurrent use by multiple goroutines.
//
// The platform provides [BaseWorker] as a ready-to-use implementation
// with thread-safe state management, OpenTelemetry tracing, hook support,
// and an optional periodic task loop. Concrete workers embed or compose
// [BaseWorker] and register lifecycle hooks via [BaseWorkerBuilder] to
// inject domain-specific startup and shutdown logic.
//
// Example (attempt-counter sweeper):
//
//	tracker := auth.NewAttemptTracker(cfg, clock)
//	worker, err := lifecycle.NewBaseWorkerBuilder("attempt-sweeper-001", "attempt-sweeper", "1.0.0").
//	    WithPeriodicTask(cfg.AttemptResetInterval, func(ctx context.Context) error {
//	        tracker.Sweep()
//	        return nil
//	    }).
//	    Build()
//	if err != nil {
//	    return err
//	}
//	if err := worker.Start(ctx); err != nil {
//	    return err
//	}
//	defer worker.Stop(context.Background())
type Worker interface {
	// ID returns the unique identifier of the worker instance. IDs are
	// immutable after construction and typically follow the format
	// "<type>-<uuid>" (e.g., "attempt-sweeper-a1b2c3").
	ID() string

	// Name returns the human-readable name of the worker (e.g.,
	// "attempt-sweeper"). Names identify the worker type, not the instance.
	Name() string

	// Version returns the semantic version of the worker implementation
	// (e.g., "1.2.0").
	Version() string

	// Info returns a point-in-time snapshot of the worker's identity,
	// state, capabilities, and uptime. The returned [WorkerInfo] is a
	// deep copy safe to serialize or store.
	Info() WorkerInfo

	// Start begins the worker's operation. It transitions the worker through
	// [StateStarting] to [StateRunning], executing any registered OnStart
	// hook between the two transitions, and launches the periodic task loop
	// if one is registered. If the hook fails, the worker transitions to
	// [StateFailed].
	//
	// Start may only be called from [StateUnknown], [StateStopped], or
	// [StateFailed]. Calling Start from any other state returns a
	// [wferr.CodeConflict] error.
	//
	// The context controls the deadline for startup; if the context is
	// canceled, Start returns immediately with a [wferr.CodeTimeout] error.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the worker. It transitions the worker
	// through [StateStopping] to [StateStopped], stopping the periodic task
	// loop and executing any registered OnStop hook between the two
	// transitions. If the hook fails, the worker transitions to
	// [StateFailed].
	//
	// Stop may be called from [StateRunning], [StatePaused], or
	// [StateStarting]. Calling Stop from a terminal state is a no-op
	// and returns nil. Calling Stop from any other state returns a
	// [wferr.CodeConflict] error.
	Stop(ctx context.Context) error

	// Pause temporarily suspends the worker's operation. The worker retains
	// its resources but its periodic task stops ticking. It transitions from
	// [StateRunning] to [StatePaused], executing any registered OnPause
	// hook. If the hook fails, the worker transitions to [StateFailed].
	//
	// Pause may only be called from [StateRunning]. Calling Pause from
	// any other state returns a [wferr.CodeConflict] error.
	Pause(ctx context.Context) error

	// Resume restores a paused worker to [StateRunning] and restarts the
	// periodic task loop. It transitions from [StatePaused] to
	// [StateRunning], executing any registered OnResume hook. If the hook
	// fails, the worker transitions to [StateFailed].
	//
	// Resume may only be called from [StatePaused]. Calling Resume from
	// any other state returns a [wferr.CodeConflict] error.
	Resume(ctx context.Context) error

	// State returns the current lifecycle state of the worker.
	State() State

	// Capabilities returns the list of capabilities supported by this
	// worker. The returned slice is a defensive copy; modifying it does
	// not affect the worker's internal state.
	Capabilities() []Capability

	// Health performs a health check on the worker. Returns nil if the
	// worker is in [StateRunning], or a [wferr.CodeUnavailable] error
	// describing the current state otherwise. Concrete workers may
	// override this method to add deeper health checks (e.g., verifying
	// Redis connectivity).
	Health(ctx context.Context) error
}

// WorkerInfo provides a point-in-time snapshot of a worker's identity,
// state, capabilities, and uptime. It is returned by [Worker.Info] and
// is safe to serialize to JSON for API responses, health endpoints,
// and service registries.
//
// The Uptime field is computed at the time Info() is called and reflects
// the elapsed time since the worker entered [StateRunning]. It is zero
// if the worker has not yet started or has been stopped.
type WorkerInfo struct {
	// ID is the unique identifier of the worker instance.
	ID string `json:"id"`

	// Name is the human-readable name of the worker type.
	Name string `json:"name"`

	// Version is the semantic version of the worker implementation.
	Version string `json:"version"`

	// State is the current lifecycle state of the worker.
	State State `json:"state"`

	// Capabilities is the list of capabilities the worker supports.
	Capabilities []Capability `json:"capabilities"`

	// StartedAt is the time the worker entered StateRunning. Nil if the
	// worker has not started or has been stopped.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// Uptime is the elapsed time since the worker entered StateRunning.
	// Zero if the worker is not currently running.
	Uptime time.Duration `json:"uptime,omitempty"`
}

// BaseWorker provides a thread-safe base implementation of the [Worker]
// interface with lifecycle state management, observer hooks, an optional
// periodic task loop, and OpenTelemetry tracing. It is the recommended
// foundation for all background workers on the WallFrame platform.
//
// A BaseWorker is safe for concurrent use by multiple goroutines. Create
// one using [BaseWorkerBuilder] and share it across the application.
//
// BaseWorker enforces a state machine that prevents invalid lifecycle
// transitions. All state changes are validated against the transition
// matrix defined in [validTransitions]. State change observers registered
// via [BaseWorkerBuilder.OnStateChange] are notified synchronously on
// every transition.
//
// Lifecycle hooks (OnStart, OnStop, OnPause, OnResume) execute outside
// the state mutex to prevent deadlocks. If a hook fails, the worker
// transitions to [StateFailed] and the error is wrapped with a platform
// error code.
type BaseWorker struct {
	// Immutable fields set at construction, never modified. These do
	// not require mutex protection.
	id      string
	name    string
	version string

	// Mutable fields protected by mu.
	mu           sync.RWMutex
	state        State
	capabilities []Capability
	startedAt    *time.Time

	// Observability, set at construction, never modified.
	tracer trace.Tracer
	logger *slog.Logger

	// Lifecycle hooks, set at construction via builder, never modified.
	onStart  Hook
	onStop   Hook
	onPause  Hook
	onResume Hook

	// Periodic task, set at construction via builder, never modified.
	task         Hook
	taskInterval time.Duration

	// Periodic task runtime state, protected by mu.
	taskCancel context.CancelFunc
	taskDone   chan struct{}

	// State change observers, set at construction via builder, never modified.
	stateHandlers []StateChangeHandler
}

// Compile-time interface compliance check. This ensures that *BaseWorker
// satisfies the Worker interface at compile time rather than at runtime.
var _ Worker = (*BaseWorker)(nil)

// ID returns the unique identifier of the worker. This value is immutable
// after construction.
func (w *BaseWorker) ID() string {
	return w.id
}

// Name returns the human-readable name of the worker. This value is
// immutable after construction.
func (w *BaseWorker) Name() string {
	return w.name
}

// Version returns the semantic version of the worker. This value is
// immutable after construction.
func (w *BaseWorker) Version() string {
	return w.version
}

// State returns the current lifecycle state of the worker. This method
// is safe for concurrent use.
func (w *BaseWorker) State() State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

// Capabilities returns a defensive copy of the worker's registered
// capabilities. Modifying the returned slice or its elements does not
// affect the worker's internal state. This method is safe for concurrent
// use.
func (w *BaseWorker) Capabilities() []Capability {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return cloneCapabilities(w.capabilities)
}

// Info returns a point-in-time snapshot of the worker's identity, state,
// capabilities, and uptime. The returned [WorkerInfo] contains deep copies
// of all mutable fields and is safe to serialize to JSON. This method is
// safe for concurrent use.
func (w *BaseWorker) Info() WorkerInfo {
	w.mu.RLock()
	defer w.mu.RUnlock()

	info := WorkerInfo{
		ID:           w.id,
		Name:         w.name,
		Version:      w.version,
		State:        w.state,
		Capabilities: cloneCapabilities(w.capabilities),
	}

	if w.startedAt != nil && w.state == StateRunning {
		t := *w.startedAt
		info.StartedAt = &t
		info.Uptime = time.Since(t)
	}

	return info
}

// Health performs a health check on the worker. Returns nil if the worker
// is in [StateRunning], or a [*wferr.Error] with code
// [wferr.CodeUnavailable] if the worker is in any other state.
//
// Concrete workers may embed BaseWorker and override this method to add
// deeper health checks (e.g., verifying the Redis connection the sweeper
// depends on).
//
// Example:
//
//	func (s *DenylistSweeper) Health(ctx context.Context) error {
//	    if err := s.BaseWorker.Health(ctx); err != nil {
//	        return err
//	    }
//	    return s.redis.Health(ctx)
//	}
func (w *BaseWorker) Health(ctx context.Context) error {
	state := w.State()
	if state != StateRunning {
		return wferr.Newf(wferr.CodeUnavailable,
			"lifecycle: worker is not running, current state is %q", state)
	}
	return nil
}

// SetState transitions the worker to the given state after validating the
// transition against the lifecycle state machine. Returns a
// [*wferr.Error] with code [wferr.CodeConflict] if the transition is
// not allowed.
//
// On a successful transition, all registered [StateChangeHandler]
// functions are called synchronously with the old and new state values.
// Handlers execute under the state mutex; they must not call lifecycle
// methods on the same worker or block for extended periods.
//
// SetState is exported for use by concrete worker implementations that
// need to set state programmatically (e.g., transitioning to
// [StateFailed] when an internal error is detected).
//
// Example:
//
//	if err := criticalOperation(); err != nil {
//	    slog.ErrorContext(ctx, "lifecycle: critical operation failed", "error", err)
//	    _ = worker.SetState(lifecycle.StateFailed)
//	}
func (w *BaseWorker) SetState(new State) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	old := w.state
	if !ValidTransition(old, new) {
		return wferr.Newf(wferr.CodeConflict,
			"lifecycle: invalid state transition from %q to %q", old, new)
	}

	w.state = new

	// Notify state change handlers under the lock to guarantee ordering.
	// Each handler is called in a deferred-recover wrapper to prevent a
	// panicking handler from crashing the worker or corrupting state.
	for _, h := range w.stateHandlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					w.logger.Error("lifecycle: state change handler panicked",
						"panic", r,
						"worker_id", w.id,
						"old_state", string(old),
						"new_state", string(new),
					)
				}
			}()
			h(old, new)
		}()
	}

	return nil
}

// Start begins the worker's operation. It transitions the worker through
// [StateStarting] to [StateRunning], executing any registered OnStart
// hook between the two transitions. If a periodic task is registered,
// the task loop is launched after the worker enters [StateRunning].
//
// The context controls the deadline for startup. If the context is
// already canceled, Start returns immediately without modifying state.
//
// If the OnStart hook returns an error, the worker transitions to
// [StateFailed] and the error is returned wrapped with
// [wferr.CodeInternal].
func (w *BaseWorker) Start(ctx context.Context) error {
	ctx, span := w.tracer.Start(ctx, "lifecycle.Start",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("worker.id", w.id),
			attribute.String("worker.name", w.name),
		),
	)
	defer span.End()

	// Check context before acquiring the lock.
	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return wferr.Wrap(err, wferr.CodeTimeout,
			"lifecycle: start canceled before execution")
	}

	// Transition to Starting.
	if err := w.SetState(StateStarting); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	w.logger.InfoContext(ctx, "lifecycle: starting worker",
		"worker_id", w.id,
		"worker_name", w.name,
		"worker_version", w.version,
	)

	// Execute the OnStart hook outside the lock.
	if w.onStart != nil {
		if err := w.onStart(ctx); err != nil {
			w.logger.ErrorContext(ctx, "lifecycle: start hook failed",
				"worker_id", w.id,
				"error", err,
			)
			_ = w.SetState(StateFailed)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return wferr.Wrap(err, wferr.CodeInternal,
				"lifecycle: start hook failed")
		}
	}

	// Transition to Running and record the start timestamp.
	if err := w.SetState(StateRunning); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	now := time.Now().UTC()
	w.mu.Lock()
	w.startedAt = &now
	w.mu.Unlock()

	w.startTask()

	w.logger.InfoContext(ctx, "lifecycle: worker started",
		"worker_id", w.id,
		"worker_name", w.name,
	)
	span.SetStatus(codes.Ok, "")

	return nil
}

// Stop gracefully shuts down the worker. It transitions the worker through
// [StateStopping] to [StateStopped], stopping the periodic task loop and
// executing any registered OnStop hook between the two transitions.
//
// If the worker is already in a terminal state ([StateStopped] or
// [StateFailed]), Stop is a no-op and returns nil. This makes it safe
// to call Stop multiple times or in a deferred cleanup.
//
// If the OnStop hook returns an error, the worker transitions to
// [StateFailed] and the error is returned wrapped with
// [wferr.CodeInternal].
func (w *BaseWorker) Stop(ctx context.Context) error {
	ctx, span := w.tracer.Start(ctx, "lifecycle.Stop",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("worker.id", w.id),
			attribute.String("worker.name", w.name),
		),
	)
	defer span.End()

	// Terminal states: Stop is a no-op.
	if w.State().IsTerminal() {
		span.SetStatus(codes.Ok, "")
		return nil
	}

	// Check context before proceeding.
	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return wferr.Wrap(err, wferr.CodeTimeout,
			"lifecycle: stop canceled before execution")
	}

	// Transition to Stopping.
	if err := w.SetState(StateStopping); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	w.logger.InfoContext(ctx, "lifecycle: stopping worker",
		"worker_id", w.id,
		"worker_name", w.name,
	)

	// Stop the periodic task loop before running the OnStop hook so the
	// hook observes a quiesced worker.
	w.stopTask()

	// Execute the OnStop hook outside the lock.
	if w.onStop != nil {
		if err := w.onStop(ctx); err != nil {
			w.logger.ErrorContext(ctx, "lifecycle: stop hook failed",
				"worker_id", w.id,
				"error", err,
			)
			_ = w.SetState(StateFailed)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return wferr.Wrap(err, wferr.CodeInternal,
				"lifecycle: stop hook failed")
		}
	}

	// Transition to Stopped and clear the start timestamp.
	if err := w.SetState(StateStopped); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	w.mu.Lock()
	w.startedAt = nil
	w.mu.Unlock()

	w.logger.InfoContext(ctx, "lifecycle: worker stopped",
		"worker_id", w.id,
		"worker_name", w.name,
	)
	span.SetStatus(codes.Ok, "")

	return nil
}

// Pause temporarily suspends the worker's operation. It transitions from
// [StateRunning] to [StatePaused], stopping the periodic task loop and
// executing any registered OnPause hook.
//
// If the OnPause hook returns an error, the worker transitions to
// [StateFailed] and the error is returned wrapped with
// [wferr.CodeInternal].
func (w *BaseWorker) Pause(ctx context.Context) error {
	ctx, span := w.tracer.Start(ctx, "lifecycle.Pause",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("worker.id", w.id),
			attribute.String("worker.name", w.name),
		),
	)
	defer span.End()

	// Check context before proceeding.
	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return wferr.Wrap(err, wferr.CodeTimeout,
			"lifecycle: pause canceled before execution")
	}

	// The state machine enforces that only Running -> Paused is valid.
	if err := w.SetState(StatePaused); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	w.logger.InfoContext(ctx, "lifecycle: pausing worker",
		"worker_id", w.id,
		"worker_name", w.name,
	)

	w.stopTask()

	// Execute the OnPause hook outside the lock.
	if w.onPause != nil {
		if err := w.onPause(ctx); err != nil {
			w.logger.ErrorContext(ctx, "lifecycle: pause hook failed",
				"worker_id", w.id,
				"error", err,
			)
			_ = w.SetState(StateFailed)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return wferr.Wrap(err, wferr.CodeInternal,
				"lifecycle: pause hook failed")
		}
	}

	w.logger.InfoContext(ctx, "lifecycle: worker paused",
		"worker_id", w.id,
		"worker_name", w.name,
	)
	span.SetStatus(codes.Ok, "")

	return nil
}

// Resume restores a paused worker to [StateRunning] and restarts the
// periodic task loop. It transitions from [StatePaused] to [StateRunning],
// executing any registered OnResume hook.
//
// If the OnResume hook returns an error, the worker transitions to
// [StateFailed] and the error is returned wrapped with
// [wferr.CodeInternal].
func (w *BaseWorker) Resume(ctx context.Context) error {
	ctx, span := w.tracer.Start(ctx, "lifecycle.Resume",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("worker.id", w.id),
			attribute.String("worker.name", w.name),
		),
	)
	defer span.End()

	// Check context before proceeding.
	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return wferr.Wrap(err, wferr.CodeTimeout,
			"lifecycle: resume canceled before execution")
	}

	// The state machine enforces that only Paused -> Running is valid.
	if err := w.SetState(StateRunning); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	w.logger.InfoContext(ctx, "lifecycle: resuming worker",
		"worker_id", w.id,
		"worker_name", w.name,
	)

	// Execute the OnResume hook outside the lock.
	if w.onResume != nil {
		if err := w.onResume(ctx); err != nil {
			w.logger.ErrorContext(ctx, "lifecycle: resume hook failed",
				"worker_id", w.id,
				"error", err,
			)
			_ = w.SetState(StateFailed)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return wferr.Wrap(err, wferr.CodeInternal,
				"lifecycle: resume hook failed")
		}
	}

	w.startTask()

	w.logger.InfoContext(ctx, "lifecycle: worker resumed",
		"worker_id", w.id,
		"worker_name", w.name,
	)
	span.SetStatus(codes.Ok, "")

	return nil
}

// startTask launches the periodic task loop in a new goroutine. It is a
// no-op if no task is registered or a loop is already running. The loop
// runs the task once per interval until the loop's context is canceled
// by [BaseWorker.stopTask].
func (w *BaseWorker) startTask() {
	if w.task == nil {
		return
	}

	w.mu.Lock()
	if w.taskCancel != nil {
		w.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	w.taskCancel = cancel
	w.taskDone = done
	w.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(w.taskInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := w.task(ctx); err != nil {
					w.logger.ErrorContext(ctx, "lifecycle: periodic task failed",
						"worker_id", w.id,
						"worker_name", w.name,
						"error", err,
					)
				}
			}
		}
	}()
}

// stopTask cancels the periodic task loop and waits for the loop goroutine
// to exit. It is a no-op if no loop is running. A tick that is already
// executing completes before stopTask returns.
func (w *BaseWorker) stopTask() {
	w.mu.Lock()
	cancel := w.taskCancel
	done := w.taskDone
	w.taskCancel = nil
	w.taskDone = nil
	w.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// cloneCapabilities returns a deep copy of a capability slice, including
// independent copies of each capability's metadata map.
func cloneCapabilities(caps []Capability) []Capability {
	if caps == nil {
		return []Capability{}
	}
	cloned := make([]Capability, len(caps))
	for i, c := range caps {
		cloned[i] = c.Clone()
	}
	return cloned
}
