package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/goliatone/go-curations/internal/curation"
	"github.com/goliatone/go-curations/internal/logging"
	"github.com/goliatone/go-curations/internal/scheduler"
	"github.com/goliatone/go-curations/pkg/interfaces"
)

var (
	ErrFetcherRequired     = errors.New("poller: fetcher required")
	ErrAlreadyStarted      = errors.New("poller: already started")
	ErrRecordNotSaved      = errors.New("poller: record has not been saved")
	ErrNoRequest           = errors.New("poller: record has no curation request")
	ErrRequestNotCritiqued = errors.New("poller: request cannot be resubmitted")
)

// Fetcher is the subset of the curations API the poller needs.
type Fetcher interface {
	LatestRequest(ctx context.Context, recordID string) (*curation.Request, error)
	CreateRequest(ctx context.Context, recordID string) (*curation.Request, error)
	Resubmit(ctx context.Context, request *curation.Request) (*curation.Request, error)
}

// Snapshot is the observable state of a poller.
type Snapshot struct {
	Record      curation.Record
	Request     *curation.Request
	Loading     bool
	Err         error
	LastFetched time.Time
	Status      curation.DisplayStatus
	Action      curation.ActionSpec
}

// Poller keeps the latest curation request of a record up to date.
type Poller struct {
	fetcher Fetcher
	source  IDSource

	recordIDInterval time.Duration
	refreshInterval  time.Duration
	overlap          Overlap
	tickers          interfaces.TickerFactory
	now              func() time.Time
	logger           interfaces.Logger
	presenter        *curation.Presenter
	actor            curation.ActorContext

	flights singleflight.Group

	mu          sync.Mutex
	record      curation.Record
	request     *curation.Request
	inflight    int
	lastErr     error
	lastFetched time.Time
	started     bool
	runCtx      context.Context
	cancel      context.CancelFunc
	idTask      *scheduler.Task
	refreshTask *scheduler.Task

	subMu       sync.Mutex
	subscribers map[int]func(Snapshot)
	nextSub     int
}

// New constructs a poller for the record. Nothing runs until Start.
func New(fetcher Fetcher, record curation.Record, opts ...Option) (*Poller, error) {
	if fetcher == nil {
		return nil, ErrFetcherRequired
	}
	p := &Poller{
		fetcher:          fetcher,
		recordIDInterval: DefaultRecordIDInterval,
		refreshInterval:  DefaultRefreshInterval,
		overlap:          OverlapCoalesce,
		tickers:          scheduler.NewTimeTicker,
		now:              time.Now,
		logger:           logging.NoOp(),
		presenter:        curation.NewPresenter(),
		record:           record,
		subscribers:      make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p, nil
}

// Start fetches the latest request right away when the record has an ID and
// starts the timers: ID detection while the record is unsaved, and the
// periodic refresh for the poller's lifetime.
func (p *Poller) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return ErrAlreadyStarted
	}
	runCtx, cancel := context.WithCancel(ctx)
	p.started = true
	p.runCtx = runCtx
	p.cancel = cancel
	p.refreshTask = scheduler.NewTask("curation.refresh", p.refreshInterval, p.refresh,
		scheduler.WithTickerFactory(p.tickers), scheduler.WithLogger(p.logger))
	needsID := !p.record.Persisted() && p.source != nil
	if needsID {
		p.idTask = scheduler.NewTask("curation.record_id", p.recordIDInterval, p.detectID,
			scheduler.WithTickerFactory(p.tickers), scheduler.WithLogger(p.logger))
	}
	idTask, refreshTask := p.idTask, p.refreshTask
	p.mu.Unlock()

	p.Refresh(runCtx)

	if idTask != nil {
		if err := idTask.Start(runCtx); err != nil {
			p.Stop()
			return err
		}
	}
	if err := refreshTask.Start(runCtx); err != nil {
		p.Stop()
		return err
	}
	p.logger.Debug("poller.started", "record_id", p.Record().ID, "detect_id", needsID)
	return nil
}

// Stop cancels both timers. In-flight calls observe the cancelled context;
// a later Reset fetches without the poller's run context.
func (p *Poller) Stop() {
	p.mu.Lock()
	idTask, refreshTask, cancel := p.idTask, p.refreshTask, p.cancel
	p.idTask, p.refreshTask, p.cancel = nil, nil, nil
	p.runCtx = nil
	p.started = false
	p.mu.Unlock()

	if idTask != nil {
		idTask.Stop()
	}
	if refreshTask != nil {
		refreshTask.Stop()
	}
	if cancel != nil {
		cancel()
	}
}

// Reset replaces the record. When the record was updated after the last
// fetch, or gained a different ID, the request is refetched now and the
// refresh interval restarts.
func (p *Poller) Reset(record curation.Record) {
	p.mu.Lock()
	stale := record.Persisted() && (record.Updated.After(p.lastFetched) || record.ID != p.record.ID)
	if record.ID != p.record.ID {
		p.request = nil
	}
	p.record = record
	ctx := p.runCtx
	refreshTask := p.refreshTask
	p.mu.Unlock()

	if !stale {
		p.notify()
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	p.Refresh(ctx)
	if refreshTask != nil {
		refreshTask.Reset()
	}
}

// SetActor updates the capabilities used to resolve the action.
func (p *Poller) SetActor(actor curation.ActorContext) {
	p.mu.Lock()
	p.actor = actor
	p.mu.Unlock()
	p.notify()
}

// Record returns the current record.
func (p *Poller) Record() curation.Record {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.record
}

// Snapshot returns the current state with the derived status and action.
func (p *Poller) Snapshot() Snapshot {
	p.mu.Lock()
	snap := Snapshot{
		Record:      p.record,
		Request:     p.request,
		Loading:     p.inflight > 0,
		Err:         p.lastErr,
		LastFetched: p.lastFetched,
	}
	actor := p.actor
	p.mu.Unlock()

	snap.Status = p.presenter.Classify(snap.Record, snap.Request)
	snap.Action = p.presenter.ResolveAction(snap.Record, snap.Request, actor)
	return snap
}

// Subscribe registers fn to receive every snapshot change. The returned
// function removes the subscription.
func (p *Poller) Subscribe(fn func(Snapshot)) func() {
	if fn == nil {
		return func() {}
	}
	p.subMu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subscribers[id] = fn
	p.subMu.Unlock()

	return func() {
		p.subMu.Lock()
		delete(p.subscribers, id)
		p.subMu.Unlock()
	}
}

// Refresh fetches the latest request now. Failures are logged and kept on the
// snapshot; the previous request stays in place.
func (p *Poller) Refresh(ctx context.Context) {
	record := p.Record()
	if !record.Persisted() {
		return
	}
	if _, err := p.fetch(ctx, record.ID); err != nil {
		logging.WithRequestContext(p.logger, record.ID, "", "").Warn("poller.fetch.failed", "error", err)
	}
}

// CreateRequest opens a curation request for the record. An existing open
// request is returned instead of creating a second one.
func (p *Poller) CreateRequest(ctx context.Context) (*curation.Request, error) {
	record := p.Record()
	if !record.Persisted() {
		return nil, ErrRecordNotSaved
	}

	existing, err := p.fetch(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	created, err := p.track(func() (*curation.Request, error) {
		return p.fetcher.CreateRequest(ctx, record.ID)
	})
	if err != nil {
		p.fail(err)
		logging.WithRequestContext(p.logger, record.ID, "", "").Error("poller.create.failed", "error", err)
		return nil, err
	}
	p.store(record.ID, created)
	logging.WithRequestContext(p.logger, record.ID, created.ID, string(created.Status)).Info("poller.request.created")
	return created, nil
}

// Resubmit resubmits the current request after the author addressed a critique.
func (p *Poller) Resubmit(ctx context.Context) (*curation.Request, error) {
	p.mu.Lock()
	record, request := p.record, p.request
	p.mu.Unlock()

	if request == nil {
		return nil, ErrNoRequest
	}
	if _, ok := request.ActionLink("resubmit"); !ok {
		return nil, ErrRequestNotCritiqued
	}

	updated, err := p.track(func() (*curation.Request, error) {
		return p.fetcher.Resubmit(ctx, request)
	})
	if err != nil {
		p.fail(err)
		logging.WithRequestContext(p.logger, record.ID, request.ID, string(request.Status)).Error("poller.resubmit.failed", "error", err)
		return nil, err
	}
	p.store(record.ID, updated)
	return updated, nil
}

func (p *Poller) refresh(ctx context.Context) error {
	p.Refresh(ctx)
	return nil
}

func (p *Poller) detectID(ctx context.Context) error {
	if p.Record().Persisted() {
		return scheduler.ErrStopTask
	}
	id, ok := p.source.RecordID()
	if !ok {
		return nil
	}

	p.mu.Lock()
	p.record = p.record.WithID(id)
	p.mu.Unlock()
	p.logger.Info("poller.record_id.detected", "record_id", id)

	p.Refresh(ctx)
	return scheduler.ErrStopTask
}

// fetch loads the latest request for recordID under the overlap policy and
// stores it when the record did not change meanwhile.
func (p *Poller) fetch(ctx context.Context, recordID string) (*curation.Request, error) {
	request, err := p.track(func() (*curation.Request, error) {
		if p.overlap == OverlapAllow {
			return p.fetcher.LatestRequest(ctx, recordID)
		}
		// the shared call outlives any single caller; each caller gives up on its own ctx
		flight := context.WithoutCancel(ctx)
		results := p.flights.DoChan("record:"+recordID, func() (any, error) {
			return p.fetcher.LatestRequest(flight, recordID)
		})
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res := <-results:
			request, _ := res.Val.(*curation.Request)
			return request, res.Err
		}
	})
	if err != nil {
		p.fail(err)
		return nil, err
	}
	p.store(recordID, request)
	return request, nil
}

// track wraps a call with the loading flag.
func (p *Poller) track(call func() (*curation.Request, error)) (*curation.Request, error) {
	p.mu.Lock()
	p.inflight++
	p.mu.Unlock()
	p.notify()

	request, err := call()

	p.mu.Lock()
	p.inflight--
	p.mu.Unlock()
	return request, err
}

func (p *Poller) store(recordID string, request *curation.Request) {
	p.mu.Lock()
	if p.record.ID == recordID {
		p.request = request
		p.lastErr = nil
		p.lastFetched = p.now()
	}
	p.mu.Unlock()
	p.notify()
}

func (p *Poller) fail(err error) {
	p.mu.Lock()
	p.lastErr = err
	p.mu.Unlock()
	p.notify()
}

func (p *Poller) notify() {
	p.subMu.Lock()
	subscribers := make([]func(Snapshot), 0, len(p.subscribers))
	for _, fn := range p.subscribers {
		subscribers = append(subscribers, fn)
	}
	p.subMu.Unlock()
	if len(subscribers) == 0 {
		return
	}

	snap := p.Snapshot()
	for _, fn := range subscribers {
		fn(snap)
	}
}
