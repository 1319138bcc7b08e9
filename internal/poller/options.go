package poller

import (
	"time"

	"github.com/goliatone/go-curations/internal/curation"
	"github.com/goliatone/go-curations/internal/runtimeconfig"
	"github.com/goliatone/go-curations/pkg/interfaces"
)

// Overlap selects how concurrent fetches for the same record are handled.
type Overlap string

const (
	// OverlapCoalesce merges concurrent fetches of one topic into a single call.
	OverlapCoalesce Overlap = runtimeconfig.OverlapCoalesce
	// OverlapAllow lets every trigger issue its own call.
	OverlapAllow Overlap = runtimeconfig.OverlapAllow
)

const (
	DefaultRecordIDInterval = time.Second
	DefaultRefreshInterval  = 10 * time.Second
)

// Option configures a Poller.
type Option func(*Poller)

// WithIDSource sets where the record identifier is read from while the record is unsaved.
func WithIDSource(source IDSource) Option {
	return func(p *Poller) {
		p.source = source
	}
}

// WithIntervals overrides the record-ID detection and refresh intervals.
func WithIntervals(recordID, refresh time.Duration) Option {
	return func(p *Poller) {
		if recordID > 0 {
			p.recordIDInterval = recordID
		}
		if refresh > 0 {
			p.refreshInterval = refresh
		}
	}
}

// WithOverlap selects the overlap policy. Unknown values keep the default.
func WithOverlap(policy Overlap) Option {
	return func(p *Poller) {
		switch policy {
		case OverlapCoalesce, OverlapAllow:
			p.overlap = policy
		}
	}
}

// WithPollingConfig applies the runtime polling section.
func WithPollingConfig(cfg runtimeconfig.PollingConfig) Option {
	return func(p *Poller) {
		WithIntervals(cfg.RecordIDInterval, cfg.RefreshInterval)(p)
		WithOverlap(Overlap(cfg.Overlap))(p)
	}
}

// WithTickerFactory overrides the ticker used by both timers.
func WithTickerFactory(factory interfaces.TickerFactory) Option {
	return func(p *Poller) {
		if factory != nil {
			p.tickers = factory
		}
	}
}

func WithClock(clock func() time.Time) Option {
	return func(p *Poller) {
		if clock != nil {
			p.now = clock
		}
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(p *Poller) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithPresenter overrides how snapshots derive labels and links.
func WithPresenter(presenter *curation.Presenter) Option {
	return func(p *Poller) {
		if presenter != nil {
			p.presenter = presenter
		}
	}
}

// WithActor sets the capabilities used to resolve the action.
func WithActor(actor curation.ActorContext) Option {
	return func(p *Poller) {
		p.actor = actor
	}
}
