package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-curations/internal/curation"
	"github.com/goliatone/go-curations/internal/domain"
	"github.com/goliatone/go-curations/internal/markdown"
	"github.com/goliatone/go-curations/internal/requests"
	"github.com/goliatone/go-curations/internal/routes"
	"github.com/goliatone/go-curations/internal/runtimeconfig"
)

func setupCurationsAPI(t *testing.T, opts ...Option) *http.ServeMux {
	t.Helper()

	current := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		current = current.Add(time.Second)
		return current
	}
	svc := requests.NewService(
		requests.NewMemoryRequestRepository(),
		requests.WithClock(clock),
		requests.WithCommentRenderer(markdown.NewRenderer(markdown.DefaultOptions())),
	)
	links, err := routes.New(runtimeconfig.DefaultRoutes("https://repo.example.org"))
	if err != nil {
		t.Fatalf("routes: %v", err)
	}

	base := []Option{
		WithRequestService(svc),
		WithLinks(links),
		WithActor(runtimeconfig.ActorConfig{ID: "7"}),
		WithClock(clock),
	}
	api := NewCurationsAPI(append(base, opts...)...)
	mux := http.NewServeMux()
	if err := api.Register(mux); err != nil {
		t.Fatalf("register api: %v", err)
	}
	return mux
}

func doJSONRequest(t *testing.T, mux *http.ServeMux, method, path string, body any, wantStatus int) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != wantStatus {
		t.Fatalf("expected status %d got %d (%s)", wantStatus, rec.Code, rec.Body.String())
	}
	return rec
}

func decodeJSONBody(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), target); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func createBody(recordID string) map[string]any {
	return map[string]any{"topic": map[string]any{"record": recordID}, "title": "Soil samples"}
}

func TestCurationsAPI_CreateAndSearch(t *testing.T) {
	mux := setupCurationsAPI(t)

	rec := doJSONRequest(t, mux, http.MethodPost, "/api/curations?expand=1", createBody("abc12"), http.StatusCreated)
	var created curation.Request
	decodeJSONBody(t, rec, &created)
	if created.Status != domain.RequestStatusSubmitted {
		t.Fatalf("expected submitted request, got %q", created.Status)
	}
	if created.RecordID() != "abc12" {
		t.Fatalf("expected record topic abc12, got %v", created.Topic)
	}
	if created.CreatedBy["user"] != "7" {
		t.Fatalf("expected creator 7, got %v", created.CreatedBy)
	}
	if _, ok := created.ActionLink("review"); !ok {
		t.Fatalf("expected review action link, got %v", created.Links.Actions)
	}
	if created.Links.HTML != "https://repo.example.org/me/requests/"+created.ID {
		t.Fatalf("unexpected html link %q", created.Links.HTML)
	}

	rec = doJSONRequest(t, mux, http.MethodPost, "/api/curations", createBody("abc12"), http.StatusBadRequest)
	var failure errorResponse
	decodeJSONBody(t, rec, &failure)
	if failure.Error != "open_request_exists" {
		t.Fatalf("expected open_request_exists, got %+v", failure)
	}

	doJSONRequest(t, mux, http.MethodPost, "/api/curations", createBody("zzz99"), http.StatusCreated)

	rec = doJSONRequest(t, mux, http.MethodGet, "/api/curations?topic=record:abc12&is_open=true", nil, http.StatusOK)
	var search searchResponse
	decodeJSONBody(t, rec, &search)
	if search.Hits.Total != 1 || len(search.Hits.Hits) != 1 {
		t.Fatalf("expected one hit, got %+v", search.Hits)
	}
	if search.Hits.Hits[0].ID != created.ID {
		t.Fatalf("expected hit %s, got %s", created.ID, search.Hits.Hits[0].ID)
	}

	rec = doJSONRequest(t, mux, http.MethodGet, "/api/curations", nil, http.StatusOK)
	decodeJSONBody(t, rec, &search)
	if search.Hits.Total != 2 {
		t.Fatalf("expected two requests, got %d", search.Hits.Total)
	}

	doJSONRequest(t, mux, http.MethodGet, "/api/curations?topic=abc12", nil, http.StatusBadRequest)
}

func TestCurationsAPI_CreateValidatesPayload(t *testing.T) {
	mux := setupCurationsAPI(t)

	rec := doJSONRequest(t, mux, http.MethodPost, "/api/curations", map[string]any{"topic": map[string]any{}}, http.StatusUnprocessableEntity)
	var failure errorResponse
	decodeJSONBody(t, rec, &failure)
	if failure.Error != "validation_failed" || len(failure.Issues) == 0 {
		t.Fatalf("expected validation issues, got %+v", failure)
	}
}

func TestCurationsAPI_ActionsAndErrors(t *testing.T) {
	mux := setupCurationsAPI(t)

	rec := doJSONRequest(t, mux, http.MethodPost, "/api/curations", createBody("abc12"), http.StatusCreated)
	var created curation.Request
	decodeJSONBody(t, rec, &created)

	base := "/api/curations/" + created.ID
	doJSONRequest(t, mux, http.MethodPost, base+"/actions/accept", nil, http.StatusConflict)

	rec = doJSONRequest(t, mux, http.MethodPost, base+"/actions/review", nil, http.StatusOK)
	var reviewed curation.Request
	decodeJSONBody(t, rec, &reviewed)
	if reviewed.Status != domain.RequestStatusReview {
		t.Fatalf("expected review status, got %q", reviewed.Status)
	}

	comment := map[string]any{"payload": map[string]any{"content": "Please add a **license**", "format": "markdown"}}
	rec = doJSONRequest(t, mux, http.MethodPost, base+"/actions/critique", comment, http.StatusOK)
	var critiqued curation.Request
	decodeJSONBody(t, rec, &critiqued)
	if critiqued.Status != domain.RequestStatusCritiqued {
		t.Fatalf("expected critiqued status, got %q", critiqued.Status)
	}
	if _, ok := critiqued.ActionLink("resubmit"); !ok {
		t.Fatalf("expected resubmit link after critique, got %v", critiqued.Links.Actions)
	}

	rec = doJSONRequest(t, mux, http.MethodGet, base, nil, http.StatusOK)
	var fetched curation.Request
	decodeJSONBody(t, rec, &fetched)
	if fetched.Status != domain.RequestStatusCritiqued {
		t.Fatalf("expected persisted critiqued status, got %q", fetched.Status)
	}

	doJSONRequest(t, mux, http.MethodGet, "/api/curations/not-a-uuid", nil, http.StatusBadRequest)
	doJSONRequest(t, mux, http.MethodGet, "/api/curations/6f1c2f5e-8e1d-4b3c-9a59-2f9d1f6b4c10", nil, http.StatusNotFound)
	doJSONRequest(t, mux, http.MethodPost, base+"/actions/review", map[string]any{"payload": map[string]any{"extra": true}}, http.StatusUnprocessableEntity)
}

func TestCurationsAPI_Timeline(t *testing.T) {
	mux := setupCurationsAPI(t)

	rec := doJSONRequest(t, mux, http.MethodPost, "/api/curations", createBody("abc12"), http.StatusCreated)
	var created curation.Request
	decodeJSONBody(t, rec, &created)
	base := "/api/curations/" + created.ID

	doJSONRequest(t, mux, http.MethodPost, base+"/actions/review", nil, http.StatusOK)

	req := httptest.NewRequest(http.MethodPost, base+"/timeline", strings.NewReader(`{"payload":{"content":"Looks **good**"}}`))
	req.Header.Set(ActorHeader, "42")
	commentRec := httptest.NewRecorder()
	mux.ServeHTTP(commentRec, req)
	if commentRec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", commentRec.Code, commentRec.Body.String())
	}
	var comment timelineEvent
	decodeJSONBody(t, commentRec, &comment)
	if comment.CreatedBy["user"] != "42" {
		t.Fatalf("expected header actor, got %v", comment.CreatedBy)
	}
	if comment.Payload == nil || !strings.Contains(comment.Payload.Content, "<strong>good</strong>") {
		t.Fatalf("expected rendered comment, got %+v", comment.Payload)
	}

	doJSONRequest(t, mux, http.MethodPost, base+"/timeline", map[string]any{"payload": map[string]any{"content": ""}}, http.StatusUnprocessableEntity)

	rec = doJSONRequest(t, mux, http.MethodGet, base+"/timeline", nil, http.StatusOK)
	var timeline timelineResponse
	decodeJSONBody(t, rec, &timeline)
	if timeline.Total != 4 || len(timeline.Hits) != 4 {
		t.Fatalf("expected create, submit, review and comment events, got %+v", timeline)
	}
	review := timeline.Hits[2]
	if review.ToStatus != domain.RequestStatusReview || review.Caption != "started a review" {
		t.Fatalf("unexpected review event %+v", review)
	}

	doJSONRequest(t, mux, http.MethodGet, base+"/timeline?page=-1", nil, http.StatusBadRequest)
}

func TestCurationsAPI_PublishingData(t *testing.T) {
	mux := setupCurationsAPI(t,
		WithActor(runtimeconfig.ActorConfig{ID: "1", IsAdmin: true, IsPrivileged: true}),
		WithPublishingEdits(true),
	)

	rec := doJSONRequest(t, mux, http.MethodGet, "/api/curations/publishing-data", nil, http.StatusOK)
	var data publishingData
	decodeJSONBody(t, rec, &data)
	if !data.IsAdmin || !data.IsPrivileged || !data.PublishingEdits {
		t.Fatalf("unexpected publishing data %+v", data)
	}
}

func TestCurationsAPI_RegisterRequiresService(t *testing.T) {
	api := NewCurationsAPI()
	if err := api.Register(http.NewServeMux()); err != ErrRequestServiceRequired {
		t.Fatalf("expected ErrRequestServiceRequired, got %v", err)
	}
}
