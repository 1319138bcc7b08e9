package curations_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-curations"
	"github.com/goliatone/go-curations/internal/curation"
	"github.com/goliatone/go-curations/internal/domain"
	"github.com/goliatone/go-curations/internal/requests"
)

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := curations.DefaultConfig()
	cfg.Polling.RefreshInterval = 0

	if _, err := curations.New(cfg); !errors.Is(err, curations.ErrPollingIntervalInvalid) {
		t.Fatalf("expected ErrPollingIntervalInvalid, got %v", err)
	}
}

func TestConfigValidateOverlapPolicy(t *testing.T) {
	cfg := curations.DefaultConfig()
	cfg.Polling.Overlap = "queue"

	if err := cfg.Validate(); !errors.Is(err, curations.ErrOverlapPolicyUnknown) {
		t.Fatalf("expected ErrOverlapPolicyUnknown, got %v", err)
	}
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curations.yaml")
	data := []byte("api:\n  base_url: https://repo.example.org\npolling:\n  refresh_interval: 30s\ni18n:\n  locale: de\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := curations.LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.API.BaseURL != "https://repo.example.org" {
		t.Fatalf("unexpected base url %q", cfg.API.BaseURL)
	}
	if cfg.Polling.RefreshInterval != 30*time.Second {
		t.Fatalf("expected 30s refresh, got %s", cfg.Polling.RefreshInterval)
	}
	if cfg.Polling.RecordIDInterval != time.Second {
		t.Fatalf("expected default record id interval, got %s", cfg.Polling.RecordIDInterval)
	}
	if cfg.Curations.ModerationRole == "" {
		t.Fatalf("expected default moderation role to survive")
	}
}

func TestModuleClassifiesAndResolvesActions(t *testing.T) {
	module, err := curations.New(curations.DefaultConfig())
	if err != nil {
		t.Fatalf("new module: %v", err)
	}

	record := curations.Record{ID: "abc12", Status: domain.RecordStatusDraftWithReview, SavedSuccessfully: true}
	request := &curations.Request{ID: "req-1", Status: domain.RequestStatusCritiqued}

	status := module.Classify(record, request)
	if status.Kind != curation.StatusNeedsRevision {
		t.Fatalf("expected needs revision, got %q", status.Kind)
	}

	action := module.ResolveAction(record, request, curations.ActorContext{})
	if action.Kind != curation.ActionResubmit || !action.Enabled {
		t.Fatalf("expected enabled resubmit, got %+v", action)
	}

	admin := module.ResolveAction(record, request, curations.ActorContext{IsAdmin: true})
	if admin.Kind != curation.ActionPublish {
		t.Fatalf("expected publish for admins, got %q", admin.Kind)
	}
}

func TestModuleServesPublishingData(t *testing.T) {
	cfg := curations.DefaultConfig()
	cfg.Server.Actor = curations.ActorConfig{ID: "1", IsPrivileged: true}
	cfg.Curations.AllowPublishingEdits = true

	module, err := curations.New(cfg)
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	handler, err := module.APIHandler()
	if err != nil {
		t.Fatalf("api handler: %v", err)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/curations/publishing-data", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var actor curations.ActorContext
	if err := json.Unmarshal(rec.Body.Bytes(), &actor); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !actor.IsPrivileged || actor.IsAdmin || !actor.PublishingEdits {
		t.Fatalf("unexpected actor %+v", actor)
	}
}

func TestModuleGatesPublishingOnAcceptedRequest(t *testing.T) {
	ctx := context.Background()
	module, err := curations.New(curations.DefaultConfig())
	if err != nil {
		t.Fatalf("new module: %v", err)
	}

	if err := module.CanPublish(ctx, "abc12"); !errors.Is(err, curations.ErrRequestNotAccepted) {
		t.Fatalf("expected ErrRequestNotAccepted, got %v", err)
	}
	if _, err := module.DraftUpdated(ctx, curations.DraftUpdate{RecordID: "abc12", Changed: true}); !errors.Is(err, curations.ErrRequestMissing) {
		t.Fatalf("expected ErrRequestMissing, got %v", err)
	}

	svc := module.Requests()
	req, err := svc.Create(ctx, requests.CreateRequest{RecordID: "abc12", Submit: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, action := range []string{"review", "accept"} {
		if _, err := svc.Apply(ctx, requests.ApplyRequest{ID: req.ID, Action: action}); err != nil {
			t.Fatalf("apply %s: %v", action, err)
		}
	}
	if err := module.CanPublish(ctx, "abc12"); err != nil {
		t.Fatalf("expected publishing to be allowed, got %v", err)
	}

	view, err := module.DraftUpdated(ctx, curations.DraftUpdate{RecordID: "abc12", Changed: true})
	if err != nil {
		t.Fatalf("draft updated: %v", err)
	}
	if view.Status != domain.RequestStatusPendingResubmission || view.RecordID() != "abc12" {
		t.Fatalf("unexpected view %+v", view)
	}
	if _, ok := view.ActionLink("resubmit"); !ok {
		t.Fatalf("expected resubmit link, got %v", view.Links.Actions)
	}
	if err := module.CanPublish(ctx, "abc12"); !errors.Is(err, curations.ErrRequestNotAccepted) {
		t.Fatalf("expected publishing to be blocked after edits, got %v", err)
	}
}
