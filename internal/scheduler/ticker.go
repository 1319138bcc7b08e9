package scheduler

import (
	"sync"
	"time"

	"github.com/goliatone/go-curations/pkg/interfaces"
)

// NewTimeTicker adapts time.Ticker to interfaces.Ticker.
func NewTimeTicker(d time.Duration) interfaces.Ticker {
	return &timeTicker{ticker: time.NewTicker(d)}
}

type timeTicker struct {
	ticker *time.Ticker
}

func (t *timeTicker) C() <-chan time.Time   { return t.ticker.C }
func (t *timeTicker) Reset(d time.Duration) { t.ticker.Reset(d) }
func (t *timeTicker) Stop()                 { t.ticker.Stop() }

// ManualTickers is a deterministic ticker factory suitable for tests. Every
// ticker it creates only fires when Tick is called.
type ManualTickers struct {
	mu      sync.Mutex
	tickers []*ManualTicker
}

// NewManualTickers returns an empty manual ticker factory.
func NewManualTickers() *ManualTickers {
	return &ManualTickers{}
}

// Factory returns the interfaces.TickerFactory backed by this set.
func (m *ManualTickers) Factory() interfaces.TickerFactory {
	return func(d time.Duration) interfaces.Ticker {
		ticker := &ManualTicker{
			interval: d,
			ch:       make(chan time.Time),
			stopped:  make(chan struct{}),
		}
		m.mu.Lock()
		m.tickers = append(m.tickers, ticker)
		m.mu.Unlock()
		return ticker
	}
}

// All returns the tickers created so far in creation order.
func (m *ManualTickers) All() []*ManualTicker {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*ManualTicker(nil), m.tickers...)
}

// ForInterval returns the most recent ticker created with interval d.
func (m *ManualTickers) ForInterval(d time.Duration) *ManualTicker {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.tickers) - 1; i >= 0; i-- {
		if m.tickers[i].interval == d {
			return m.tickers[i]
		}
	}
	return nil
}

// ManualTicker fires on demand.
type ManualTicker struct {
	interval time.Duration
	ch       chan time.Time

	mu       sync.Mutex
	resets   int
	stopped  chan struct{}
	isClosed bool
}

// TickTimeout bounds how long Tick waits for the consumer.
const TickTimeout = time.Second

func (t *ManualTicker) C() <-chan time.Time { return t.ch }

func (t *ManualTicker) Reset(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.interval = d
	t.resets++
}

func (t *ManualTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.isClosed {
		close(t.stopped)
		t.isClosed = true
	}
}

// Tick delivers one tick. It reports false when the ticker is stopped or the
// consumer did not receive within TickTimeout.
func (t *ManualTicker) Tick() bool {
	select {
	case <-t.stopped:
		return false
	default:
	}
	select {
	case t.ch <- time.Now():
		return true
	case <-t.stopped:
		return false
	case <-time.After(TickTimeout):
		return false
	}
}

// Interval returns the current interval.
func (t *ManualTicker) Interval() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.interval
}

// Resets returns how many times Reset was called.
func (t *ManualTicker) Resets() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.resets
}

// Stopped reports whether Stop was called.
func (t *ManualTicker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.isClosed
}
