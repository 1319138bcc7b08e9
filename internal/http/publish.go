package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/goliatone/go-curations/internal/curation"
	"github.com/goliatone/go-curations/internal/logging"
	"github.com/goliatone/go-curations/internal/requests"
	"github.com/goliatone/go-curations/internal/validation"
)

type publishCheckResponse struct {
	CanPublish bool             `json:"can_publish"`
	Request    curation.Request `json:"request"`
}

type draftUpdatePayload struct {
	Topic struct {
		Record string `json:"record"`
	} `json:"topic"`
	Changed bool `json:"changed"`
}

// handlePublishCheck answers 200 when an accepted request lets the record be
// published and 409 not_accepted otherwise.
func (api *CurationsAPI) handlePublishCheck(w http.ResponseWriter, r *http.Request) {
	ref, ok := curation.ParseRef(strings.TrimSpace(r.URL.Query().Get("topic")))
	if !ok || ref["record"] == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "topic must be record:<id>"})
		return
	}

	accepted, err := api.requests.CanPublish(r.Context(), ref["record"])
	if err != nil {
		api.logger.Debug("api.publish_check.denied", "record_id", ref["record"], "error", err)
		writeError(w, err)
		return
	}
	view, err := api.view(r, accepted)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, publishCheckResponse{CanPublish: true, Request: view})
}

func (api *CurationsAPI) handleDraftUpdate(w http.ResponseWriter, r *http.Request) {
	raw, err := readBody(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	if err := api.validator.ValidateJSON(validation.SchemaDraftUpdate, raw); err != nil {
		writeError(w, err)
		return
	}
	var payload draftUpdatePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}

	record, err := api.requests.DraftUpdated(r.Context(), requests.DraftUpdate{
		RecordID: payload.Topic.Record,
		ActorID:  api.actorID(r),
		Changed:  payload.Changed,
	})
	if err != nil {
		api.logger.Warn("api.draft_update.failed", "record_id", payload.Topic.Record, "error", err)
		writeError(w, err)
		return
	}
	logging.WithRequestContext(api.logger, record.RecordID, record.ID.String(), string(record.Status)).
		Info("api.draft_update.succeeded", "changed", payload.Changed)

	view, err := api.view(r, record)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
