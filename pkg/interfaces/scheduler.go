package interfaces

import (
	"context"
	"time"
)

// Ticker delivers ticks until stopped. It mirrors *time.Ticker behind an
// interface so timer-driven code can be exercised with manual tickers.
type Ticker interface {
	C() <-chan time.Time
	Reset(d time.Duration)
	Stop()
}

// TickerFactory creates a ticker firing at the supplied interval.
type TickerFactory func(d time.Duration) Ticker

// RepeatingTask runs work at a fixed interval until stopped.
type RepeatingTask interface {
	// Start launches the task loop. Starting a running task returns an error.
	Start(ctx context.Context) error
	// Reset restarts the interval so the next run happens one full interval from now.
	Reset()
	// Stop cancels the loop. A run in progress observes the cancelled context.
	Stop()
	// Running reports whether the loop is active.
	Running() bool
}
