package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-curations/internal/curation"
	"github.com/goliatone/go-curations/internal/domain"
	"github.com/goliatone/go-curations/internal/logging"
	"github.com/goliatone/go-curations/internal/requests"
	"github.com/goliatone/go-curations/internal/runtimeconfig"
	"github.com/goliatone/go-curations/internal/validation"
	"github.com/goliatone/go-curations/pkg/interfaces"
)

const (
	defaultBasePath = "/api/curations"
	maxBodyBytes    = 1 << 20

	// ActorHeader overrides the configured actor for a single call.
	ActorHeader = "X-User-ID"
)

var (
	ErrRequestServiceRequired = errors.New("curations api: request service required")
	ErrMuxRequired            = errors.New("curations api: mux required")
)

// CurationsAPI exposes the curation request endpoints consumed by the client.
type CurationsAPI struct {
	basePath        string
	requests        requests.Service
	validator       *validation.Validator
	links           requests.LinkBuilder
	presenter       *curation.Presenter
	actor           runtimeconfig.ActorConfig
	publishingEdits bool
	autoSubmit      bool
	now             func() time.Time
	logger          interfaces.Logger
}

// Option customises the API.
type Option func(*CurationsAPI)

// WithBasePath mounts the routes under path instead of /api/curations.
func WithBasePath(path string) Option {
	return func(api *CurationsAPI) {
		if strings.TrimSpace(path) != "" {
			api.basePath = path
		}
	}
}

func WithRequestService(svc requests.Service) Option {
	return func(api *CurationsAPI) {
		api.requests = svc
	}
}

// WithValidator replaces the payload validator built from the embedded schemas.
func WithValidator(v *validation.Validator) Option {
	return func(api *CurationsAPI) {
		if v != nil {
			api.validator = v
		}
	}
}

// WithLinks sets the builder used for hypermedia links in responses.
func WithLinks(links requests.LinkBuilder) Option {
	return func(api *CurationsAPI) {
		api.links = links
	}
}

func WithPresenter(presenter *curation.Presenter) Option {
	return func(api *CurationsAPI) {
		if presenter != nil {
			api.presenter = presenter
		}
	}
}

// WithActor sets the default acting user and its capabilities.
func WithActor(actor runtimeconfig.ActorConfig) Option {
	return func(api *CurationsAPI) {
		api.actor = actor
	}
}

func WithPublishingEdits(enabled bool) Option {
	return func(api *CurationsAPI) {
		api.publishingEdits = enabled
	}
}

// WithAutoSubmit submits new requests right after creation.
func WithAutoSubmit(enabled bool) Option {
	return func(api *CurationsAPI) {
		api.autoSubmit = enabled
	}
}

func WithClock(clock func() time.Time) Option {
	return func(api *CurationsAPI) {
		if clock != nil {
			api.now = clock
		}
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(api *CurationsAPI) {
		if logger != nil {
			api.logger = logger
		}
	}
}

// NewCurationsAPI constructs the API with the supplied options.
func NewCurationsAPI(opts ...Option) *CurationsAPI {
	api := &CurationsAPI{
		basePath:   defaultBasePath,
		presenter:  curation.NewPresenter(),
		autoSubmit: true,
		now:        time.Now,
		logger:     logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// Register installs the curations routes on mux.
func (api *CurationsAPI) Register(mux *http.ServeMux) error {
	if mux == nil {
		return ErrMuxRequired
	}
	if api.requests == nil {
		return ErrRequestServiceRequired
	}
	if api.validator == nil {
		validator, err := validation.NewValidator()
		if err != nil {
			return err
		}
		api.validator = validator
	}

	base := joinPath(api.basePath, "")
	mux.HandleFunc("GET "+base, api.handleSearch)
	mux.HandleFunc("POST "+base, api.handleCreate)
	mux.HandleFunc("GET "+joinPath(base, "publishing-data"), api.handlePublishingData)
	mux.HandleFunc("GET "+joinPath(base, "publish-check"), api.handlePublishCheck)
	mux.HandleFunc("POST "+joinPath(base, "draft-updates"), api.handleDraftUpdate)
	mux.HandleFunc("GET "+joinPath(base, "{id}"), api.handleGet)
	mux.HandleFunc("POST "+joinPath(base, "{id}/actions/{action}"), api.handleAction)
	mux.HandleFunc("GET "+joinPath(base, "{id}/timeline"), api.handleTimeline)
	mux.HandleFunc("POST "+joinPath(base, "{id}/timeline"), api.handleComment)
	return nil
}

type searchHits struct {
	Total int                `json:"total"`
	Hits  []curation.Request `json:"hits"`
}

type searchResponse struct {
	Hits searchHits `json:"hits"`
}

type createPayload struct {
	Topic struct {
		Record string `json:"record"`
	} `json:"topic"`
	Title string `json:"title"`
}

type commentPayload struct {
	Payload struct {
		Content string `json:"content"`
		Format  string `json:"format,omitempty"`
	} `json:"payload"`
}

type publishingData struct {
	IsPrivileged    bool `json:"is_privileged"`
	IsAdmin         bool `json:"is_admin"`
	PublishingEdits bool `json:"publishing_edits"`
}

func (api *CurationsAPI) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := requests.SearchQuery{
		OpenOnly: parseBoolQuery(q.Get("is_open"), false),
		Status:   domain.NormalizeRequestStatus(q.Get("status")),
		Page:     parseIntQuery(q.Get("page"), 1),
		Size:     parseIntQuery(q.Get("size"), 0),
	}
	if raw := strings.TrimSpace(q.Get("topic")); raw != "" {
		ref, ok := curation.ParseRef(raw)
		if !ok || ref["record"] == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "topic must be record:<id>"})
			return
		}
		query.RecordID = ref["record"]
	}

	result, err := api.requests.Search(r.Context(), query)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := searchResponse{Hits: searchHits{Total: result.Total, Hits: make([]curation.Request, 0, len(result.Hits))}}
	for _, hit := range result.Hits {
		view, err := api.view(r, hit)
		if err != nil {
			writeError(w, err)
			return
		}
		resp.Hits.Hits = append(resp.Hits.Hits, view)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (api *CurationsAPI) handleCreate(w http.ResponseWriter, r *http.Request) {
	raw, err := readBody(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	if err := api.validator.ValidateJSON(validation.SchemaCreateRequest, raw); err != nil {
		writeError(w, err)
		return
	}
	var payload createPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}

	actor := api.actorID(r)
	record, err := api.requests.Create(r.Context(), requests.CreateRequest{
		RecordID:    payload.Topic.Record,
		RecordTitle: payload.Title,
		ActorID:     actor,
		Submit:      api.autoSubmit,
	})
	if err != nil {
		api.logger.Warn("api.create.failed", "record_id", payload.Topic.Record, "error", err)
		writeError(w, err)
		return
	}
	logging.WithRequestContext(api.logger, record.RecordID, record.ID.String(), string(record.Status)).
		Info("api.create.succeeded", "actor", actor)

	view, err := api.view(r, record)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (api *CurationsAPI) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid request id"})
		return
	}
	record, err := api.requests.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	view, err := api.view(r, record)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (api *CurationsAPI) handleAction(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid request id"})
		return
	}
	raw, err := readBody(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	if err := api.validator.ValidateJSON(validation.SchemaAction, raw); err != nil {
		writeError(w, err)
		return
	}
	var payload commentPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}

	action := strings.ToLower(strings.TrimSpace(r.PathValue("action")))
	record, err := api.requests.Apply(r.Context(), requests.ApplyRequest{
		ID:      id,
		Action:  action,
		ActorID: api.actorID(r),
		Comment: payload.Payload.Content,
	})
	if err != nil {
		api.logger.Warn("api.action.failed", "request_id", id.String(), "action", action, "error", err)
		writeError(w, err)
		return
	}
	logging.WithRequestContext(api.logger, record.RecordID, record.ID.String(), string(record.Status)).
		Info("api.action.succeeded", "action", action)

	view, err := api.view(r, record)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (api *CurationsAPI) handlePublishingData(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, publishingData{
		IsPrivileged:    api.actor.IsPrivileged,
		IsAdmin:         api.actor.IsAdmin,
		PublishingEdits: api.publishingEdits,
	})
}

func (api *CurationsAPI) view(r *http.Request, record *requests.Request) (curation.Request, error) {
	actions, err := api.requests.AvailableActions(r.Context(), record.ID)
	if err != nil {
		return curation.Request{}, err
	}
	return requests.View(record, actions, api.links, api.now())
}

func (api *CurationsAPI) actorID(r *http.Request) string {
	if r != nil {
		if header := strings.TrimSpace(r.Header.Get(ActorHeader)); header != "" {
			return header
		}
	}
	return strings.TrimSpace(api.actor.ID)
}
