package http

import (
	"net/http"
	"testing"

	"github.com/goliatone/go-curations/internal/curation"
	"github.com/goliatone/go-curations/internal/domain"
)

func draftUpdateBody(recordID string, changed bool) map[string]any {
	return map[string]any{"topic": map[string]any{"record": recordID}, "changed": changed}
}

func TestCurationsAPI_PublishCheckAndDraftUpdates(t *testing.T) {
	mux := setupCurationsAPI(t)

	rec := doJSONRequest(t, mux, http.MethodPost, "/api/curations", createBody("abc12"), http.StatusCreated)
	var created curation.Request
	decodeJSONBody(t, rec, &created)

	rec = doJSONRequest(t, mux, http.MethodGet, "/api/curations/publish-check?topic=record:abc12", nil, http.StatusConflict)
	var failure errorResponse
	decodeJSONBody(t, rec, &failure)
	if failure.Error != "not_accepted" {
		t.Fatalf("expected not_accepted, got %+v", failure)
	}

	base := "/api/curations/" + created.ID
	doJSONRequest(t, mux, http.MethodPost, base+"/actions/review", nil, http.StatusOK)
	doJSONRequest(t, mux, http.MethodPost, base+"/actions/accept", nil, http.StatusOK)

	rec = doJSONRequest(t, mux, http.MethodGet, "/api/curations/publish-check?topic=record:abc12", nil, http.StatusOK)
	var check publishCheckResponse
	decodeJSONBody(t, rec, &check)
	if !check.CanPublish || check.Request.ID != created.ID || check.Request.Status != domain.RequestStatusAccepted {
		t.Fatalf("unexpected publish check %+v", check)
	}

	rec = doJSONRequest(t, mux, http.MethodPost, "/api/curations/draft-updates", draftUpdateBody("abc12", false), http.StatusOK)
	var unchanged curation.Request
	decodeJSONBody(t, rec, &unchanged)
	if unchanged.Status != domain.RequestStatusAccepted {
		t.Fatalf("expected accepted request without changes, got %q", unchanged.Status)
	}

	rec = doJSONRequest(t, mux, http.MethodPost, "/api/curations/draft-updates", draftUpdateBody("abc12", true), http.StatusOK)
	var reopened curation.Request
	decodeJSONBody(t, rec, &reopened)
	if reopened.Status != domain.RequestStatusPendingResubmission {
		t.Fatalf("expected pending_resubmission, got %q", reopened.Status)
	}
	if _, ok := reopened.ActionLink("resubmit"); !ok {
		t.Fatalf("expected resubmit link after edits, got %v", reopened.Links.Actions)
	}

	doJSONRequest(t, mux, http.MethodGet, "/api/curations/publish-check?topic=record:abc12", nil, http.StatusConflict)
}

func TestCurationsAPI_DraftUpdateErrors(t *testing.T) {
	mux := setupCurationsAPI(t)

	rec := doJSONRequest(t, mux, http.MethodPost, "/api/curations/draft-updates", draftUpdateBody("nope1", true), http.StatusNotFound)
	var failure errorResponse
	decodeJSONBody(t, rec, &failure)
	if failure.Error != "missing_request" {
		t.Fatalf("expected missing_request, got %+v", failure)
	}

	body := draftUpdateBody("abc12", true)
	body["files"] = 3
	doJSONRequest(t, mux, http.MethodPost, "/api/curations/draft-updates", body, http.StatusUnprocessableEntity)
	doJSONRequest(t, mux, http.MethodGet, "/api/curations/publish-check", nil, http.StatusBadRequest)
}
