package scheduler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-curations/internal/logging"
	"github.com/goliatone/go-curations/pkg/interfaces"
)

var (
	// ErrStopTask can be returned by a task function to end the loop.
	ErrStopTask = errors.New("scheduler: stop task")
	// ErrTaskRunning is returned when starting a task that is already running.
	ErrTaskRunning = errors.New("scheduler: task already running")
	// ErrTaskFuncRequired is returned when starting a task without a function.
	ErrTaskFuncRequired = errors.New("scheduler: task function required")
	// ErrTaskIntervalInvalid is returned when the task interval is not positive.
	ErrTaskIntervalInvalid = errors.New("scheduler: task interval must be positive")
)

// TaskFunc is executed on every tick.
type TaskFunc func(ctx context.Context) error

// Option customises a Task.
type Option func(*Task)

// WithTickerFactory overrides how tickers are created, used mainly for tests.
func WithTickerFactory(factory interfaces.TickerFactory) Option {
	return func(t *Task) {
		if factory != nil {
			t.newTicker = factory
		}
	}
}

// WithLogger sets the logger used to report failed runs.
func WithLogger(logger interfaces.Logger) Option {
	return func(t *Task) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// Task is a cancellable repeating task. The loop lifetime is bound to the
// context passed to Start and to Stop, whichever ends first.
type Task struct {
	name      string
	interval  time.Duration
	fn        TaskFunc
	newTicker interfaces.TickerFactory
	logger    interfaces.Logger

	mu     sync.Mutex
	ticker interfaces.Ticker
	cancel context.CancelFunc
	done   chan struct{}
}

var _ interfaces.RepeatingTask = (*Task)(nil)

// NewTask builds a task that calls fn every interval once started.
func NewTask(name string, interval time.Duration, fn TaskFunc, opts ...Option) *Task {
	task := &Task{
		name:      strings.TrimSpace(name),
		interval:  interval,
		fn:        fn,
		newTicker: NewTimeTicker,
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(task)
		}
	}
	return task
}

// Name returns the task name used in log entries.
func (t *Task) Name() string {
	return t.name
}

// Interval returns the configured interval.
func (t *Task) Interval() time.Duration {
	return t.interval
}

// Start launches the loop. The first run happens one interval after Start.
func (t *Task) Start(ctx context.Context) error {
	if t.fn == nil {
		return ErrTaskFuncRequired
	}
	if t.interval <= 0 {
		return ErrTaskIntervalInvalid
	}
	if ctx == nil {
		ctx = context.Background()
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		return ErrTaskRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	ticker := t.newTicker(t.interval)
	done := make(chan struct{})
	t.ticker = ticker
	t.cancel = cancel
	t.done = done

	go t.loop(runCtx, ticker, done)
	t.logger.Debug("scheduler.task.started", "task", t.name, "interval", t.interval)
	return nil
}

// Reset restarts the interval so the next run is one full interval away.
func (t *Task) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ticker != nil {
		t.ticker.Reset(t.interval)
	}
}

// Stop cancels the loop. Calling Stop on a stopped task is a no-op.
func (t *Task) Stop() {
	t.mu.Lock()
	cancel := t.cancel
	t.cancel = nil
	t.ticker = nil
	t.done = nil
	t.mu.Unlock()

	if cancel != nil {
		cancel()
		t.logger.Debug("scheduler.task.stopped", "task", t.name)
	}
}

// Running reports whether the loop is active.
func (t *Task) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancel != nil
}

// Done returns a channel closed when the current loop exits, or nil when the
// task is not running.
func (t *Task) Done() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done == nil {
		return nil
	}
	return t.done
}

func (t *Task) loop(ctx context.Context, ticker interfaces.Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()
	defer t.release(done)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			if ctx.Err() != nil {
				return
			}
			if err := t.fn(ctx); err != nil {
				if errors.Is(err, ErrStopTask) {
					t.logger.Debug("scheduler.task.completed", "task", t.name)
					return
				}
				t.logger.Warn("scheduler.task.failed", "task", t.name, "error", err)
			}
		}
	}
}

// release clears the running state when the loop that owns done exits on its
// own, leaving state installed by a later Start untouched.
func (t *Task) release(done chan struct{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done != done {
		return
	}
	if t.cancel != nil {
		t.cancel()
	}
	t.cancel = nil
	t.ticker = nil
	t.done = nil
}
