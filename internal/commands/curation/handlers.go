package curationcmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-curations/internal/commands"
	"github.com/goliatone/go-curations/internal/curation"
	"github.com/goliatone/go-curations/pkg/interfaces"
)

var ErrTargetNotFound = errors.New("curation command: no active poller for record")

// Target is the per-record state the handlers act on. *poller.Poller satisfies it.
type Target interface {
	CreateRequest(ctx context.Context) (*curation.Request, error)
	Resubmit(ctx context.Context) (*curation.Request, error)
	Refresh(ctx context.Context)
}

// TargetResolver returns the active target for a record.
type TargetResolver func(recordID string) (Target, bool)

func resolve(resolver TargetResolver, recordID string) (Target, error) {
	recordID = strings.TrimSpace(recordID)
	if resolver != nil {
		if target, ok := resolver(recordID); ok && target != nil {
			return target, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTargetNotFound, recordID)
}

// CreateCurationRequestHandler executes CreateCurationRequestCommand.
type CreateCurationRequestHandler struct {
	inner *commands.Handler[CreateCurationRequestCommand]
}

// NewCreateCurationRequestHandler constructs the create handler.
func NewCreateCurationRequestHandler(resolver TargetResolver, logger interfaces.Logger, opts ...commands.HandlerOption[CreateCurationRequestCommand]) *CreateCurationRequestHandler {
	exec := func(ctx context.Context, msg CreateCurationRequestCommand) error {
		target, err := resolve(resolver, msg.RecordID)
		if err != nil {
			return err
		}
		_, err = target.CreateRequest(ctx)
		return err
	}

	handlerOpts := []commands.HandlerOption[CreateCurationRequestCommand]{
		commands.WithLogger[CreateCurationRequestCommand](logger),
		commands.WithOperation[CreateCurationRequestCommand]("curation.create"),
	}
	return &CreateCurationRequestHandler{
		inner: commands.NewHandler(exec, append(handlerOpts, opts...)...),
	}
}

// Execute satisfies command.Commander[CreateCurationRequestCommand].
func (h *CreateCurationRequestHandler) Execute(ctx context.Context, msg CreateCurationRequestCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ResubmitCurationRequestHandler executes ResubmitCurationRequestCommand.
type ResubmitCurationRequestHandler struct {
	inner *commands.Handler[ResubmitCurationRequestCommand]
}

func NewResubmitCurationRequestHandler(resolver TargetResolver, logger interfaces.Logger, opts ...commands.HandlerOption[ResubmitCurationRequestCommand]) *ResubmitCurationRequestHandler {
	exec := func(ctx context.Context, msg ResubmitCurationRequestCommand) error {
		target, err := resolve(resolver, msg.RecordID)
		if err != nil {
			return err
		}
		_, err = target.Resubmit(ctx)
		return err
	}

	handlerOpts := []commands.HandlerOption[ResubmitCurationRequestCommand]{
		commands.WithLogger[ResubmitCurationRequestCommand](logger),
		commands.WithOperation[ResubmitCurationRequestCommand]("curation.resubmit"),
	}
	return &ResubmitCurationRequestHandler{
		inner: commands.NewHandler(exec, append(handlerOpts, opts...)...),
	}
}

func (h *ResubmitCurationRequestHandler) Execute(ctx context.Context, msg ResubmitCurationRequestCommand) error {
	return h.inner.Execute(ctx, msg)
}

// RefreshCurationRequestHandler executes RefreshCurationRequestCommand. Fetch
// failures stay on the poller snapshot, so the command only fails when the
// record has no poller.
type RefreshCurationRequestHandler struct {
	inner *commands.Handler[RefreshCurationRequestCommand]
}

func NewRefreshCurationRequestHandler(resolver TargetResolver, logger interfaces.Logger, opts ...commands.HandlerOption[RefreshCurationRequestCommand]) *RefreshCurationRequestHandler {
	exec := func(ctx context.Context, msg RefreshCurationRequestCommand) error {
		target, err := resolve(resolver, msg.RecordID)
		if err != nil {
			return err
		}
		target.Refresh(ctx)
		return nil
	}

	handlerOpts := []commands.HandlerOption[RefreshCurationRequestCommand]{
		commands.WithLogger[RefreshCurationRequestCommand](logger),
		commands.WithOperation[RefreshCurationRequestCommand]("curation.refresh"),
		commands.WithTelemetry(commands.DefaultTelemetry[RefreshCurationRequestCommand](logger)),
	}
	return &RefreshCurationRequestHandler{
		inner: commands.NewHandler(exec, append(handlerOpts, opts...)...),
	}
}

func (h *RefreshCurationRequestHandler) Execute(ctx context.Context, msg RefreshCurationRequestCommand) error {
	return h.inner.Execute(ctx, msg)
}
