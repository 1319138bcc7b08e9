package di_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	curationcmd "github.com/goliatone/go-curations/internal/commands/curation"
	"github.com/goliatone/go-curations/internal/curation"
	"github.com/goliatone/go-curations/internal/di"
	"github.com/goliatone/go-curations/internal/domain"
	"github.com/goliatone/go-curations/internal/runtimeconfig"
)

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.API.BaseURL = ""

	if _, err := di.NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrAPIBaseURLRequired) {
		t.Fatalf("expected ErrAPIBaseURLRequired, got %v", err)
	}
}

func TestContainerPresenterUsesConfiguredLocale(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.I18N.Locale = "de"

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	status := container.Presenter().Classify(curation.Record{}, nil)
	if status.Kind != curation.StatusDraft || status.Label != "Entwurf" {
		t.Fatalf("expected german draft label, got %+v", status)
	}
}

func TestContainerPollerTalksToReferenceAPI(t *testing.T) {
	server, err := di.NewContainer(runtimeconfig.DefaultConfig())
	if err != nil {
		t.Fatalf("server container: %v", err)
	}
	handler, err := server.APIHandler()
	if err != nil {
		t.Fatalf("api handler: %v", err)
	}
	srv := httptest.NewServer(handler)
	defer srv.Close()

	cfg := runtimeconfig.DefaultConfig()
	cfg.API.BaseURL = srv.URL
	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("client container: %v", err)
	}

	record := curation.Record{ID: "abc12", Status: domain.RecordStatusDraftWithReview, SavedSuccessfully: true}
	p, err := container.NewPoller(record)
	if err != nil {
		t.Fatalf("new poller: %v", err)
	}
	if got, ok := container.Poller("abc12"); !ok || got != p {
		t.Fatalf("expected poller to be registered")
	}

	ctx := context.Background()
	created, err := p.CreateRequest(ctx)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if created.NormalizedStatus() != domain.RequestStatusSubmitted {
		t.Fatalf("expected submitted request, got %q", created.Status)
	}

	snap := p.Snapshot()
	if snap.Status.Kind != curation.StatusUnderReview {
		t.Fatalf("expected under review, got %q", snap.Status.Kind)
	}
	if snap.Action.Kind != curation.ActionViewRequest || snap.Action.Href != srv.URL+"/me/requests/"+created.ID {
		t.Fatalf("unexpected action %+v", snap.Action)
	}

	if err := container.Commands().Refresh.Execute(ctx, curationcmd.RefreshCurationRequestCommand{RecordID: "abc12"}); err != nil {
		t.Fatalf("refresh command: %v", err)
	}
	if err := container.Commands().Create.Execute(ctx, curationcmd.CreateCurationRequestCommand{RecordID: "abc12"}); err != nil {
		t.Fatalf("create command should reuse the open request: %v", err)
	}
	if p.Snapshot().Request.ID != created.ID {
		t.Fatalf("expected the open request to be kept")
	}

	if err := container.ReleasePoller(p); err != nil {
		t.Fatalf("release poller: %v", err)
	}
	err = container.Commands().Refresh.Execute(ctx, curationcmd.RefreshCurationRequestCommand{RecordID: "abc12"})
	if !errors.Is(err, curationcmd.ErrTargetNotFound) {
		t.Fatalf("expected ErrTargetNotFound after release, got %v", err)
	}
}
