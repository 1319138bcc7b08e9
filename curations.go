// Package curations reports where a deposit stands in the curation workflow
// and which single action its author can take next.
package curations

import (
	"context"
	"net/http"
	"time"

	curationcmd "github.com/goliatone/go-curations/internal/commands/curation"
	"github.com/goliatone/go-curations/internal/curation"
	"github.com/goliatone/go-curations/internal/di"
	"github.com/goliatone/go-curations/internal/logging"
	"github.com/goliatone/go-curations/internal/poller"
	"github.com/goliatone/go-curations/internal/requests"
	"github.com/goliatone/go-curations/pkg/interfaces"
)

type (
	// Record is the deposit snapshot the workflow reasons about.
	Record        = curation.Record
	Request       = curation.Request
	DisplayStatus = curation.DisplayStatus
	StatusKind    = curation.StatusKind
	ActionSpec    = curation.ActionSpec
	ActionKind    = curation.ActionKind
	ActorContext  = curation.ActorContext

	Poller         = poller.Poller
	PollerOption   = poller.Option
	Snapshot       = poller.Snapshot
	RequestService = requests.Service
	DraftUpdate    = requests.DraftUpdate
	CommandSet     = curationcmd.HandlerSet
)

var (
	ErrRequestNotAccepted = requests.ErrRequestNotAccepted
	ErrRequestMissing     = requests.ErrRequestMissing
)

// Module represents the top level curations runtime facade.
type Module struct {
	container *di.Container
}

// New constructs a curations module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Classify derives the display status of record with the module's translator.
func (m *Module) Classify(record Record, request *Request) DisplayStatus {
	return m.container.Presenter().Classify(record, request)
}

// ResolveAction selects the action to present for record.
func (m *Module) ResolveAction(record Record, request *Request, actor ActorContext) ActionSpec {
	return m.container.Presenter().ResolveAction(record, request, actor)
}

// NewPoller builds a request poller for record. Commands dispatched for the
// record's ID act on the most recently created poller.
func (m *Module) NewPoller(record Record, opts ...PollerOption) (*Poller, error) {
	return m.container.NewPoller(record, opts...)
}

// ReleasePoller stops p and forgets it.
func (m *Module) ReleasePoller(p *Poller) error {
	return m.container.ReleasePoller(p)
}

func (m *Module) Poller(recordID string) (*Poller, bool) {
	return m.container.Poller(recordID)
}

// LoadActor fetches the acting user's capabilities from the API.
func (m *Module) LoadActor(ctx context.Context) (ActorContext, error) {
	return m.container.LoadActor(ctx)
}

// Commands returns the create/resubmit/refresh command handlers.
func (m *Module) Commands() *CommandSet {
	return m.container.Commands()
}

// Requests exposes the reference request service backing APIHandler.
func (m *Module) Requests() RequestService {
	return m.container.RequestService()
}

// CanPublish returns ErrRequestNotAccepted unless an accepted curation
// request exists for the record.
func (m *Module) CanPublish(ctx context.Context, recordID string) error {
	_, err := m.container.RequestService().CanPublish(ctx, recordID)
	return err
}

// DraftUpdated sends an accepted request back for resubmission when the saved
// draft changed.
func (m *Module) DraftUpdated(ctx context.Context, update DraftUpdate) (Request, error) {
	svc := m.container.RequestService()
	record, err := svc.DraftUpdated(ctx, update)
	if err != nil {
		return Request{}, err
	}
	actions, err := svc.AvailableActions(ctx, record.ID)
	if err != nil {
		return Request{}, err
	}
	return requests.View(record, actions, m.container.Routes(), time.Now())
}

// APIHandler returns the reference curations REST API.
func (m *Module) APIHandler() (http.Handler, error) {
	return m.container.APIHandler()
}

// Logger returns a module-scoped logger; without a provider it discards entries.
func (m *Module) Logger(name string) interfaces.Logger {
	return logging.ModuleLogger(m.container.LoggerProvider(), name)
}
