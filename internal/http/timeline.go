package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/goliatone/go-curations/internal/curation"
	"github.com/goliatone/go-curations/internal/domain"
	"github.com/goliatone/go-curations/internal/requests"
	"github.com/goliatone/go-curations/internal/validation"
)

type eventPayload struct {
	Content string `json:"content"`
	Format  string `json:"format"`
}

type timelineEvent struct {
	ID         string               `json:"id"`
	Type       requests.EventType   `json:"type"`
	Action     string               `json:"action,omitempty"`
	FromStatus domain.RequestStatus `json:"from_status,omitempty"`
	ToStatus   domain.RequestStatus `json:"to_status,omitempty"`
	Caption    string               `json:"caption,omitempty"`
	CreatedBy  curation.EntityRef   `json:"created_by,omitempty"`
	Payload    *eventPayload        `json:"payload,omitempty"`
	Created    time.Time            `json:"created"`
}

type timelineResponse struct {
	Page  int             `json:"page"`
	Size  int             `json:"size"`
	Total int             `json:"total"`
	Hits  []timelineEvent `json:"hits"`
}

func (api *CurationsAPI) handleTimeline(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid request id"})
		return
	}
	page, err := api.requests.Timeline(r.Context(), id, parseIntQuery(r.URL.Query().Get("page"), 1))
	if err != nil {
		writeError(w, err)
		return
	}
	resp := timelineResponse{
		Page:  page.Page,
		Size:  page.Size,
		Total: page.Total,
		Hits:  make([]timelineEvent, 0, len(page.Events)),
	}
	for _, event := range page.Events {
		resp.Hits = append(resp.Hits, api.eventView(event))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (api *CurationsAPI) handleComment(w http.ResponseWriter, r *http.Request) {
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
	if err := api.validator.ValidateJSON(validation.SchemaComment, raw); err != nil {
		writeError(w, err)
		return
	}
	var payload commentPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}

	event, err := api.requests.Comment(r.Context(), requests.CommentRequest{
		ID:      id,
		ActorID: api.actorID(r),
		Body:    payload.Payload.Content,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, api.eventView(event))
}

func (api *CurationsAPI) eventView(event *requests.Event) timelineEvent {
	out := timelineEvent{
		ID:         event.ID.String(),
		Type:       event.Type,
		Action:     event.Action,
		FromStatus: event.FromStatus,
		ToStatus:   event.ToStatus,
		Created:    event.CreatedAt,
	}
	if event.ActorID != "" {
		out.CreatedBy = curation.Ref("user", event.ActorID)
	}
	if event.Type == requests.EventAction && event.ToStatus != "" {
		if caption, ok := api.presenter.TimelineCaption(event.ToStatus); ok {
			out.Caption = caption
		}
	}
	if event.HTML != "" {
		out.Payload = &eventPayload{Content: event.HTML, Format: "html"}
	} else if event.Body != "" {
		out.Payload = &eventPayload{Content: event.Body, Format: "markdown"}
	}
	return out
}
