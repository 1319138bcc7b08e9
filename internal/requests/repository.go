package requests

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// RequestRepository abstracts storage of curation requests and their timelines.
type RequestRepository interface {
	Create(ctx context.Context, record *Request) (*Request, error)
	Update(ctx context.Context, record *Request) (*Request, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Request, error)
	// ListByRecord returns the requests for a record, newest first.
	ListByRecord(ctx context.Context, recordID string) ([]*Request, error)
	List(ctx context.Context) ([]*Request, error)
	NextNumber(ctx context.Context) (int, error)
	AppendEvent(ctx context.Context, event *Event) (*Event, error)
	ListEvents(ctx context.Context, requestID uuid.UUID) ([]*Event, error)
}

// NotFoundError represents missing records from repository lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}
