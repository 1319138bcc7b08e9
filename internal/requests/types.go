package requests

import (
	"time"

	"github.com/goliatone/go-curations/internal/domain"
	"github.com/google/uuid"
)

// Request is the stored form of a curation request.
type Request struct {
	ID         uuid.UUID
	Number     int
	Type       string
	Title      string
	Status     domain.RequestStatus
	Closed     bool
	RecordID   string
	CreatedBy  string
	ReceiverID string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	ExpiresAt  *time.Time
}

// Open reports whether the request still accepts actions that keep it alive.
func (r *Request) Open() bool {
	return r != nil && !r.Closed
}

// Expired reports whether the request passed its expiry at the given time.
func (r *Request) Expired(now time.Time) bool {
	return r != nil && r.ExpiresAt != nil && !now.Before(*r.ExpiresAt)
}

// EventType discriminates timeline entries.
type EventType string

const (
	EventAction  EventType = "action"
	EventComment EventType = "comment"
)

// Event is a single entry on a request timeline.
type Event struct {
	ID         uuid.UUID
	RequestID  uuid.UUID
	Sequence   int
	Type       EventType
	Action     string
	FromStatus domain.RequestStatus
	ToStatus   domain.RequestStatus
	ActorID    string
	Body       string
	HTML       string
	CreatedAt  time.Time
}

// CreateRequest captures the data required to open a curation request for a record.
type CreateRequest struct {
	RecordID    string
	RecordTitle string
	ActorID     string
	// Submit moves the new request straight to submitted.
	Submit bool
}

// ApplyRequest runs a workflow action on a request.
type ApplyRequest struct {
	ID      uuid.UUID
	Action  string
	ActorID string
	// Comment is attached to the timeline alongside the action when set.
	Comment string
}

// CommentRequest appends a comment to a request timeline.
type CommentRequest struct {
	ID      uuid.UUID
	ActorID string
	Body    string
}

// DraftUpdate reports a saved draft. Changed is set when the saved content
// differs from the previous draft.
type DraftUpdate struct {
	RecordID string
	ActorID  string
	Changed  bool
}

// SearchQuery filters requests. Zero values match everything.
type SearchQuery struct {
	RecordID string
	OpenOnly bool
	Status   domain.RequestStatus
	Page     int
	Size     int
}

// SearchResult is a page of requests, newest first.
type SearchResult struct {
	Total int
	Hits  []*Request
}

// TimelinePage is a page of timeline events, oldest first.
type TimelinePage struct {
	Page   int
	Size   int
	Total  int
	Events []*Event
}
