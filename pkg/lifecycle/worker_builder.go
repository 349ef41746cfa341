package lifecycle

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"

	wferr "github.com/wallframe/wallframe-core/pkg/errors"
)

// BaseWorkerBuilder constructs a [BaseWorker] with validated configuration
// and optional lifecycle hooks. Use [NewBaseWorkerBuilder] to start building.
//
// The builder follows the fluent API pattern: all configuration methods
// return the builder for chaining. Call [BaseWorkerBuilder.Build] to
// validate the configuration and produce the worker.
//
// Example:
//
//	worker, err := lifecycle.NewBaseWorkerBuilder("attempt-sweeper-001", "attempt-sweeper", "1.0.0").
//	    WithCapability(lifecycle.Capability{Name: "attempt-reset", Version: "1.0.0"}).
//	    WithPeriodicTask(30*time.Minute, func(ctx context.Context) error {
//	        tracker.Sweep()
//	        return nil
//	    }).
//	    WithOnStop(func(ctx context.Context) error {
//	        redisClient.Close()
//	        return nil
//	    }).
//	    OnStateChange(func(old, new lifecycle.State) {
//	        metrics.WorkerStateTransition(old, new)
//	    }).
//	    Build()
type BaseWorkerBuilder struct {
	id            string
	name          string
	version       string
	capabilities  []Capability
	logger        *slog.Logger
	onStart       Hook
	onStop        Hook
	onPause       Hook
	onResume      Hook
	task          Hook
	taskInterval  time.Duration
	stateHandlers []StateChangeHandler
}

// NewBaseWorkerBuilder creates a new builder with the required identity
// fields. The id, name, and version are validated during
// [BaseWorkerBuilder.Build].
//
// Parameters:
//   - id: unique identifier for the worker instance (e.g., "attempt-sweeper-a1b2c3")
//   - name: human-readable worker type name (e.g., "attempt-sweeper")
//   - version: semantic version of the worker implementation (e.g., "1.0.0")
func NewBaseWorkerBuilder(id, name, version string) *BaseWorkerBuilder {
	return &BaseWorkerBuilder{
		id:      id,
		name:    name,
		version: version,
	}
}

// WithCapability adds a single capability to the worker. The capability is
// validated and deep-copied during [BaseWorkerBuilder.Build] to prevent
// external mutation. Build returns an error if the capability has an empty
// Name or Version.
func (b *BaseWorkerBuilder) WithCapability(cap Capability) *BaseWorkerBuilder {
	b.capabilities = append(b.capabilities, cap)
	return b
}

// WithCapabilities adds multiple capabilities to the worker. Each capability
// is validated and deep-copied during [BaseWorkerBuilder.Build].
func (b *BaseWorkerBuilder) WithCapabilities(caps []Capability) *BaseWorkerBuilder {
	b.capabilities = append(b.capabilities, caps...)
	return b
}

// WithLogger sets a custom [*slog.Logger] for the worker. If not called,
// [slog.Default] is used. The logger is used for lifecycle event logging,
// periodic task failures, and panic recovery messages.
func (b *BaseWorkerBuilder) WithLogger(logger *slog.Logger) *BaseWorkerBuilder {
	b.logger = logger
	return b
}

// WithOnStart sets the lifecycle hook called during [BaseWorker.Start],
// after the worker transitions to [StateStarting] and before it transitions
// to [StateRunning]. Use this to perform worker-specific initialization
// (e.g., verifying Redis connectivity before the sweep loop begins).
func (b *BaseWorkerBuilder) WithOnStart(hook Hook) *BaseWorkerBuilder {
	b.onStart = hook
	return b
}

// WithOnStop sets the lifecycle hook called during [BaseWorker.Stop],
// after the periodic task loop has been stopped and before the worker
// transitions to [StateStopped]. Use this to perform worker-specific
// cleanup (e.g., closing client connections, flushing buffers).
func (b *BaseWorkerBuilder) WithOnStop(hook Hook) *BaseWorkerBuilder {
	b.onStop = hook
	return b
}

// WithOnPause sets the lifecycle hook called during [BaseWorker.Pause],
// after the worker transitions to [StatePaused] and its periodic task
// loop has been stopped. Use this to release non-essential resources
// while the worker is paused.
func (b *BaseWorkerBuilder) WithOnPause(hook Hook) *BaseWorkerBuilder {
	b.onPause = hook
	return b
}

// WithOnResume sets the lifecycle hook called during [BaseWorker.Resume],
// after the worker transitions back to [StateRunning] and before its
// periodic task loop restarts. Use this to reacquire resources that were
// released during pause.
func (b *BaseWorkerBuilder) WithOnResume(hook Hook) *BaseWorkerBuilder {
	b.onResume = hook
	return b
}

// WithPeriodicTask registers a task that runs once per interval while the
// worker is in [StateRunning]. The task loop starts when the worker starts,
// stops while it is paused or stopped, and restarts on resume.
//
// An error returned by a tick is logged and the loop continues; a task
// that must halt the worker should call [BaseWorker.SetState] with
// [StateFailed] itself.
//
// Build returns an error if a task is registered with a non-positive
// interval.
func (b *BaseWorkerBuilder) WithPeriodicTask(interval time.Duration, task Hook) *BaseWorkerBuilder {
	b.task = task
	b.taskInterval = interval
	return b
}

// OnStateChange registers a [StateChangeHandler] that is called on every
// state transition. Multiple handlers may be registered and are called in
// registration order. Handlers execute synchronously under the state mutex
// during [BaseWorker.SetState].
//
// Handlers are defensively copied during [BaseWorkerBuilder.Build] to
// prevent external modification of the handler list after construction.
func (b *BaseWorkerBuilder) OnStateChange(handler StateChangeHandler) *BaseWorkerBuilder {
	b.stateHandlers = append(b.stateHandlers, handler)
	return b
}

// Build validates the configuration and constructs a [*BaseWorker]. Returns
// a [*wferr.Error] with code [wferr.CodeValidation] if any required field
// is empty, any capability has an empty Name or Version, or a periodic
// task is registered with a non-positive interval.
//
// Build performs defensive copies of all mutable inputs (capabilities,
// state handlers) to prevent external mutation after construction. The
// initial state is [StateUnknown].
func (b *BaseWorkerBuilder) Build() (*BaseWorker, error) {
	if b.id == "" {
		return nil, wferr.New(wferr.CodeValidation,
			"lifecycle: worker id must not be empty")
	}
	if b.name == "" {
		return nil, wferr.New(wferr.CodeValidation,
			"lifecycle: worker name must not be empty")
	}
	if b.version == "" {
		return nil, wferr.New(wferr.CodeValidation,
			"lifecycle: worker version must not be empty")
	}
	if b.task != nil && b.taskInterval <= 0 {
		return nil, wferr.New(wferr.CodeValidation,
			"lifecycle: periodic task interval must be positive")
	}

	// Validate and defensively copy capabilities.
	caps := make([]Capability, len(b.capabilities))
	for i, c := range b.capabilities {
		if err := validateCapability(c); err != nil {
			return nil, err
		}
		caps[i] = c.Clone()
	}

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}

	// Defensive copy of state handlers.
	handlers := make([]StateChangeHandler, len(b.stateHandlers))
	copy(handlers, b.stateHandlers)

	return &BaseWorker{
		id:            b.id,
		name:          b.name,
		version:       b.version,
		state:         StateUnknown,
		capabilities:  caps,
		tracer:        otel.Tracer(tracerName),
		logger:        logger,
		onStart:       b.onStart,
		onStop:        b.onStop,
		onPause:       b.onPause,
		onResume:      b.onResume,
		task:          b.task,
		taskInterval:  b.taskInterval,
		stateHandlers: handlers,
	}, nil
}
