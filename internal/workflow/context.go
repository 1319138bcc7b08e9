package workflow

import (
	"time"

	"github.com/goliatone/go-curations/internal/domain"
	"github.com/google/uuid"
)

// RequestContext captures metadata about a curation request used during transitions.
type RequestContext struct {
	ID         uuid.UUID
	RecordID   string
	Status     domain.RequestStatus
	ReceiverID string
	CreatedBy  string
	ExpiresAt  *time.Time
}

// Metadata renders the context as a map suitable for workflow metadata payloads.
func (c RequestContext) Metadata() map[string]any {
	payload := map[string]any{
		"request_id": c.ID.String(),
		"record_id":  c.RecordID,
		"status":     string(c.Status),
	}
	if c.ReceiverID != "" {
		payload["receiver_id"] = c.ReceiverID
	}
	if c.CreatedBy != "" {
		payload["created_by"] = c.CreatedBy
	}
	if c.ExpiresAt != nil {
		payload["expires_at"] = c.ExpiresAt.UTC().Format(time.RFC3339)
	}
	return payload
}
