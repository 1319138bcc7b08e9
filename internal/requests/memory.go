package requests

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryRequestRepository is an in-memory implementation for the reference server and tests.
type MemoryRequestRepository struct {
	mu       sync.RWMutex
	requests map[uuid.UUID]*Request
	events   map[uuid.UUID][]*Event
	number   int
}

// NewMemoryRequestRepository creates an empty in-memory repository.
func NewMemoryRequestRepository() *MemoryRequestRepository {
	return &MemoryRequestRepository{
		requests: make(map[uuid.UUID]*Request),
		events:   make(map[uuid.UUID][]*Event),
	}
}

func (m *MemoryRequestRepository) Create(_ context.Context, record *Request) (*Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneRequest(record)
	m.requests[copied.ID] = copied
	return cloneRequest(copied), nil
}

func (m *MemoryRequestRepository) Update(_ context.Context, record *Request) (*Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.requests[record.ID]; !ok {
		return nil, &NotFoundError{Resource: "request", Key: record.ID.String()}
	}
	copied := cloneRequest(record)
	m.requests[copied.ID] = copied
	return cloneRequest(copied), nil
}

func (m *MemoryRequestRepository) GetByID(_ context.Context, id uuid.UUID) (*Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.requests[id]
	if !ok {
		return nil, &NotFoundError{Resource: "request", Key: id.String()}
	}
	return cloneRequest(rec), nil
}

func (m *MemoryRequestRepository) ListByRecord(_ context.Context, recordID string) ([]*Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Request, 0)
	for _, rec := range m.requests {
		if rec.RecordID == recordID {
			out = append(out, cloneRequest(rec))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (m *MemoryRequestRepository) List(_ context.Context) ([]*Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Request, 0, len(m.requests))
	for _, rec := range m.requests {
		out = append(out, cloneRequest(rec))
	}
	sortNewestFirst(out)
	return out, nil
}

func (m *MemoryRequestRepository) NextNumber(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.number++
	return m.number, nil
}

func (m *MemoryRequestRepository) AppendEvent(_ context.Context, event *Event) (*Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.requests[event.RequestID]; !ok {
		return nil, &NotFoundError{Resource: "request", Key: event.RequestID.String()}
	}
	copied := *event
	m.events[event.RequestID] = append(m.events[event.RequestID], &copied)
	out := copied
	return &out, nil
}

func (m *MemoryRequestRepository) ListEvents(_ context.Context, requestID uuid.UUID) ([]*Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := m.events[requestID]
	out := make([]*Event, len(events))
	for i, event := range events {
		copied := *event
		out[i] = &copied
	}
	return out, nil
}

// Number breaks ties between requests created within the same clock tick.
func sortNewestFirst(records []*Request) {
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		}
		return records[i].Number > records[j].Number
	})
}

func cloneRequest(src *Request) *Request {
	if src == nil {
		return nil
	}
	copied := *src
	if src.ExpiresAt != nil {
		expires := *src.ExpiresAt
		copied.ExpiresAt = &expires
	}
	return &copied
}
