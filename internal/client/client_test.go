package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-curations/internal/curation"
	"github.com/goliatone/go-curations/internal/domain"
	"github.com/goliatone/go-curations/internal/routes"
	"github.com/goliatone/go-curations/internal/runtimeconfig"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	set, err := routes.New(runtimeconfig.DefaultRoutes(server.URL))
	if err != nil {
		t.Fatalf("routes: %v", err)
	}
	c, err := New(runtimeconfig.APIConfig{Timeout: 2 * time.Second, UserAgent: "go-curations-test", Token: "secret"}, set)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	return c
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, payload any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		t.Errorf("encode: %v", err)
	}
}

func TestLatestRequestQueriesOpenRequestsForRecord(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/curations" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		query := r.URL.Query()
		if query.Get("topic") != "record:abc12" || query.Get("expand") != "1" || query.Get("is_open") != "true" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		if r.Header.Get("Authorization") != "Bearer secret" || r.Header.Get("User-Agent") != "go-curations-test" {
			t.Errorf("expected auth and user agent headers")
		}
		writeJSON(t, w, http.StatusOK, map[string]any{
			"hits": map[string]any{
				"total": 1,
				"hits": []map[string]any{{
					"id":     "req-1",
					"status": "critiqued",
					"topic":  map[string]string{"record": "abc12"},
					"links":  map[string]any{"actions": map[string]string{"resubmit": "/api/curations/req-1/actions/resubmit"}},
				}},
			},
		})
	}))

	req, err := c.LatestRequest(context.Background(), "abc12")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if req == nil || req.ID != "req-1" || req.Status != domain.RequestStatusCritiqued {
		t.Fatalf("unexpected request %+v", req)
	}
	if req.RecordID() != "abc12" {
		t.Fatalf("expected record topic, got %q", req.RecordID())
	}
}

func TestLatestRequestReturnsNilWithoutHits(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"hits": map[string]any{"total": 0, "hits": []any{}}})
	}))

	req, err := c.LatestRequest(context.Background(), "abc12")
	if err != nil || req != nil {
		t.Fatalf("expected no request, got %+v (%v)", req, err)
	}
	if _, err := c.LatestRequest(context.Background(), " "); !errors.Is(err, ErrRecordIDRequired) {
		t.Fatalf("expected ErrRecordIDRequired, got %v", err)
	}
}

func TestCreateRequestPostsTopic(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Query().Get("expand") != "1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.String())
		}
		raw, _ := io.ReadAll(r.Body)
		if string(raw) != `{"topic":{"record":"abc12"}}` {
			t.Errorf("unexpected body %s", raw)
		}
		writeJSON(t, w, http.StatusCreated, map[string]any{"id": "req-2", "status": "submitted"})
	}))

	req, err := c.CreateRequest(context.Background(), "abc12")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if req.ID != "req-2" {
		t.Fatalf("unexpected request %+v", req)
	}
}

func TestCreateRequestMapsOpenRequestConflict(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, map[string]string{"error": "open_request_exists", "message": "open request exists"})
	}))

	_, err := c.CreateRequest(context.Background(), "abc12")
	if !errors.Is(err, ErrOpenRequestExists) {
		t.Fatalf("expected ErrOpenRequestExists, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryConflict) {
		t.Fatalf("expected conflict category, got %v", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected APIError with status 400, got %v", err)
	}
}

func TestResubmitUsesActionLink(t *testing.T) {
	var called string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = r.Method + " " + r.URL.Path
		writeJSON(t, w, http.StatusOK, map[string]any{"id": "req-1", "status": "resubmitted"})
	})
	server := httptest.NewServer(handler)
	defer server.Close()

	set, err := routes.New(runtimeconfig.DefaultRoutes(server.URL))
	if err != nil {
		t.Fatalf("routes: %v", err)
	}
	c, err := New(runtimeconfig.APIConfig{Timeout: time.Second}, set)
	if err != nil {
		t.Fatalf("client: %v", err)
	}

	request := &curation.Request{
		ID:    "req-1",
		Links: curation.Links{Actions: map[string]string{"resubmit": server.URL + "/api/curations/req-1/actions/resubmit"}},
	}
	updated, err := c.Resubmit(context.Background(), request)
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if called != "POST /api/curations/req-1/actions/resubmit" {
		t.Fatalf("unexpected call %q", called)
	}
	if updated.Status != domain.RequestStatusResubmitted {
		t.Fatalf("unexpected status %q", updated.Status)
	}

	if _, err := c.Resubmit(context.Background(), &curation.Request{ID: "req-1"}); !errors.Is(err, ErrResubmitUnavailable) {
		t.Fatalf("expected ErrResubmitUnavailable, got %v", err)
	}
}

func TestPublishingDataDecodesActor(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/curations/publishing-data" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		writeJSON(t, w, http.StatusOK, map[string]bool{"is_admin": false, "is_privileged": true, "publishing_edits": true})
	}))

	actor, err := c.PublishingData(context.Background())
	if err != nil {
		t.Fatalf("publishing data: %v", err)
	}
	if actor != (curation.ActorContext{IsPrivileged: true, PublishingEdits: true}) {
		t.Fatalf("unexpected actor %+v", actor)
	}
}

func TestErrorsAreCategorised(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/curations/missing/actions/accept":
			writeJSON(t, w, http.StatusNotFound, map[string]string{"error": "not_found"})
		case "/api/curations/req-1/actions/accept":
			writeJSON(t, w, http.StatusConflict, map[string]string{"error": "invalid_transition"})
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	ctx := context.Background()

	if _, err := c.Apply(ctx, "missing", "accept", ""); !errors.Is(err, ErrRequestNotFound) || !goerrors.IsCategory(err, goerrors.CategoryNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := c.Apply(ctx, "req-1", "accept", ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if _, err := c.PublishingData(ctx); !errors.Is(err, ErrUnexpectedStatus) || !goerrors.IsCategory(err, goerrors.CategoryExternal) {
		t.Fatalf("expected unexpected status, got %v", err)
	}
}

func TestTransportFailureIsExternal(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	set, err := routes.New(runtimeconfig.DefaultRoutes(server.URL))
	if err != nil {
		t.Fatalf("routes: %v", err)
	}
	server.Close()

	c, err := New(runtimeconfig.APIConfig{Timeout: time.Second}, set)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	if _, err := c.LatestRequest(context.Background(), "abc12"); !goerrors.IsCategory(err, goerrors.CategoryExternal) {
		t.Fatalf("expected external category, got %v", err)
	}
}
