package curationcmd

import (
	"errors"

	"github.com/goliatone/go-curations/internal/commands"
	"github.com/goliatone/go-curations/pkg/interfaces"
	"github.com/goliatone/go-command/dispatcher"
)

// HandlerSet groups the curation command handlers.
type HandlerSet struct {
	Create   *CreateCurationRequestHandler
	Resubmit *ResubmitCurationRequestHandler
	Refresh  *RefreshCurationRequestHandler
}

// NewHandlerSet builds the curation command handlers around resolver.
func NewHandlerSet(resolver TargetResolver, provider interfaces.LoggerProvider) (*HandlerSet, error) {
	if resolver == nil {
		return nil, errors.New("curation command registration: resolver is nil")
	}
	logger := commands.CommandLogger(provider, "curation")
	return &HandlerSet{
		Create:   NewCreateCurationRequestHandler(resolver, logger),
		Resubmit: NewResubmitCurationRequestHandler(resolver, logger),
		Refresh:  NewRefreshCurationRequestHandler(resolver, logger),
	}, nil
}

// Subscribe registers the handlers with the global go-command dispatcher. The
// returned function removes every subscription.
func (s *HandlerSet) Subscribe() func() {
	create := dispatcher.SubscribeCommand[CreateCurationRequestCommand](s.Create)
	resubmit := dispatcher.SubscribeCommand[ResubmitCurationRequestCommand](s.Resubmit)
	refresh := dispatcher.SubscribeCommand[RefreshCurationRequestCommand](s.Refresh)
	return func() {
		create.Unsubscribe()
		resubmit.Unsubscribe()
		refresh.Unsubscribe()
	}
}
