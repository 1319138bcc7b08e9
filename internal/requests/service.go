package requests

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-curations/internal/domain"
	"github.com/goliatone/go-curations/internal/identity"
	"github.com/goliatone/go-curations/internal/logging"
	"github.com/goliatone/go-curations/internal/workflow"
	"github.com/goliatone/go-curations/internal/workflow/simple"
	"github.com/goliatone/go-curations/pkg/interfaces"
	"github.com/google/uuid"
)

// Service exposes the curation request use-cases backing the reference API.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Request, error)
	Get(ctx context.Context, id uuid.UUID) (*Request, error)
	Latest(ctx context.Context, recordID string, openOnly bool) (*Request, error)
	Search(ctx context.Context, query SearchQuery) (*SearchResult, error)
	Apply(ctx context.Context, req ApplyRequest) (*Request, error)
	AvailableActions(ctx context.Context, id uuid.UUID) ([]string, error)
	AcceptedFor(ctx context.Context, recordID string) (*Request, error)
	CanPublish(ctx context.Context, recordID string) (*Request, error)
	DraftUpdated(ctx context.Context, update DraftUpdate) (*Request, error)
	Comment(ctx context.Context, req CommentRequest) (*Event, error)
	Timeline(ctx context.Context, id uuid.UUID, page int) (*TimelinePage, error)
}

var (
	ErrRecordIDRequired    = errors.New("requests: record id required")
	ErrRequestIDRequired   = errors.New("requests: request id required")
	ErrActionRequired      = errors.New("requests: action required")
	ErrCommentRequired     = errors.New("requests: comment body required")
	ErrOpenRequestExists   = errors.New("requests: an open curation request already exists for this record")
	ErrRequestNotFound     = errors.New("requests: curation request not found")
	ErrRequestClosed       = errors.New("requests: curation request is closed")
	ErrRenderingFailed     = errors.New("requests: comment rendering failed")
	ErrTimelinePageInvalid = errors.New("requests: timeline page must be positive")
	ErrRequestNotAccepted  = errors.New("requests: the record has not been curated yet")
	ErrRequestMissing      = errors.New("requests: missing curation request, create one when the record is ready to be published")
)

const (
	defaultTitleKey     = "request.title"
	defaultTitleFormat  = "RDM Curation: %s"
	defaultTimelineSize = 15
)

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp requests and events.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

type IDGenerator func() uuid.UUID

func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithWorkflowEngine overrides the engine driving request statuses.
func WithWorkflowEngine(engine interfaces.WorkflowEngine) ServiceOption {
	return func(s *service) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// WithRequestType selects the workflow definition new requests follow.
func WithRequestType(requestType string) ServiceOption {
	return func(s *service) {
		if normalized := workflow.NormalizeRequestType(requestType); normalized != "" {
			s.requestType = normalized
		}
	}
}

// WithModerationRole sets the group receiving new requests.
func WithModerationRole(role string) ServiceOption {
	return func(s *service) {
		if ref := identity.ModerationGroupRef(role); ref != "" {
			s.receiverID = ref
		}
	}
}

// WithCommentRenderer renders comment bodies to HTML.
func WithCommentRenderer(renderer interfaces.CommentRenderer) ServiceOption {
	return func(s *service) {
		s.renderer = renderer
	}
}

// WithTranslator localises generated request titles.
func WithTranslator(translator interfaces.Translator, locale string) ServiceOption {
	return func(s *service) {
		s.translator = translator
		s.locale = locale
	}
}

// WithTimelinePageSize sets the number of events per timeline page.
func WithTimelinePageSize(size int) ServiceOption {
	return func(s *service) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

// WithLogger overrides the logger used for request lifecycle events.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	repo        RequestRepository
	engine      interfaces.WorkflowEngine
	renderer    interfaces.CommentRenderer
	translator  interfaces.Translator
	locale      string
	requestType string
	receiverID  string
	pageSize    int
	now         func() time.Time
	id          IDGenerator
	logger      interfaces.Logger
	locks       *recordLocks
}

// NewService constructs a request service over the supplied repository.
func NewService(repo RequestRepository, opts ...ServiceOption) Service {
	s := &service{
		repo:        repo,
		engine:      simple.New(),
		requestType: workflow.RequestTypeCuration,
		receiverID:  identity.ModerationGroupRef("administration-rdm-records-curation"),
		pageSize:    defaultTimelineSize,
		now:         time.Now,
		id:          uuid.New,
		logger:      logging.NoOp(),
		locks:       newRecordLocks(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create opens a new request for a record. Only one open request may exist per record.
func (s *service) Create(ctx context.Context, req CreateRequest) (*Request, error) {
	recordID := strings.TrimSpace(req.RecordID)
	if recordID == "" {
		return nil, ErrRecordIDRequired
	}

	unlock := s.locks.lock(recordID)
	defer unlock()

	existing, err := s.repo.ListByRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	for _, candidate := range existing {
		if candidate.Open() {
			return nil, ErrOpenRequestExists
		}
	}

	initial, err := s.initialState()
	if err != nil {
		return nil, err
	}
	number, err := s.repo.NextNumber(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	record := &Request{
		ID:         s.id(),
		Number:     number,
		Type:       s.requestType,
		Title:      s.title(req.RecordTitle, recordID),
		Status:     initial,
		RecordID:   recordID,
		CreatedBy:  strings.TrimSpace(req.ActorID),
		ReceiverID: s.receiverID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	if _, err := s.appendEvent(ctx, created.ID, &Event{
		Type:     EventAction,
		Action:   "create",
		ToStatus: created.Status,
		ActorID:  created.CreatedBy,
	}); err != nil {
		return nil, err
	}

	logger := logging.WithRequestContext(s.logger, recordID, created.ID.String(), string(created.Status))
	logger.Info("requests.created", "number", created.Number)

	if !req.Submit {
		return created, nil
	}
	return s.apply(ctx, created, ApplyRequest{ID: created.ID, Action: workflow.ActionSubmit, ActorID: created.CreatedBy})
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Request, error) {
	if id == uuid.Nil {
		return nil, ErrRequestIDRequired
	}
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return record, nil
}

// Latest returns the most recent request for a record.
func (s *service) Latest(ctx context.Context, recordID string, openOnly bool) (*Request, error) {
	recordID = strings.TrimSpace(recordID)
	if recordID == "" {
		return nil, ErrRecordIDRequired
	}
	records, err := s.repo.ListByRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		if openOnly && !record.Open() {
			continue
		}
		return record, nil
	}
	return nil, ErrRequestNotFound
}

func (s *service) Search(ctx context.Context, query SearchQuery) (*SearchResult, error) {
	var (
		records []*Request
		err     error
	)
	if recordID := strings.TrimSpace(query.RecordID); recordID != "" {
		records, err = s.repo.ListByRecord(ctx, recordID)
	} else {
		records, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, err
	}

	status := domain.NormalizeRequestStatus(string(query.Status))
	hits := make([]*Request, 0, len(records))
	for _, record := range records {
		if query.OpenOnly && !record.Open() {
			continue
		}
		if status != "" && record.Status != status {
			continue
		}
		hits = append(hits, record)
	}

	result := &SearchResult{Total: len(hits)}
	start, end := pageBounds(query.Page, query.Size, len(hits))
	result.Hits = hits[start:end]
	return result, nil
}

// Apply runs a workflow action and records it on the timeline.
func (s *service) Apply(ctx context.Context, req ApplyRequest) (*Request, error) {
	if req.ID == uuid.Nil {
		return nil, ErrRequestIDRequired
	}
	action := workflow.NormalizeAction(req.Action)
	if action == "" {
		return nil, ErrActionRequired
	}

	record, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(record.RecordID)
	defer unlock()

	// re-read under the record lock
	record, err = s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, record, req)
}

// apply expects the caller to hold the record lock.
func (s *service) apply(ctx context.Context, record *Request, req ApplyRequest) (*Request, error) {
	action := workflow.NormalizeAction(req.Action)
	if record.Closed {
		return nil, ErrRequestClosed
	}

	meta := workflow.RequestContext{
		ID:         record.ID,
		RecordID:   record.RecordID,
		Status:     record.Status,
		ReceiverID: record.ReceiverID,
		CreatedBy:  record.CreatedBy,
		ExpiresAt:  record.ExpiresAt,
	}
	result, err := s.engine.Transition(ctx, interfaces.TransitionInput{
		RequestID:    record.ID,
		RequestType:  record.Type,
		CurrentState: interfaces.WorkflowState(record.Status),
		Action:       action,
		ActorID:      strings.TrimSpace(req.ActorID),
		Metadata:     meta.Metadata(),
	})
	if err != nil {
		return nil, err
	}

	from := record.Status
	record.Status = domain.RequestStatus(result.ToState)
	record.Closed = result.Closed
	record.UpdatedAt = s.now()
	updated, err := s.repo.Update(ctx, record)
	if err != nil {
		return nil, err
	}

	if _, err := s.appendEvent(ctx, updated.ID, &Event{
		Type:       EventAction,
		Action:     result.Action,
		FromStatus: from,
		ToStatus:   updated.Status,
		ActorID:    result.ActorID,
	}); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Comment) != "" {
		if _, err := s.comment(ctx, CommentRequest{ID: updated.ID, ActorID: req.ActorID, Body: req.Comment}); err != nil {
			return nil, err
		}
	}

	logger := logging.WithRequestContext(s.logger, updated.RecordID, updated.ID.String(), string(updated.Status))
	logger.Info("requests.action.applied", "action", result.Action, "from", string(from), "closed", updated.Closed)
	return updated, nil
}

// AvailableActions lists the workflow actions allowed from the request's status.
func (s *service) AvailableActions(ctx context.Context, id uuid.UUID) ([]string, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Closed {
		return nil, nil
	}
	transitions, err := s.engine.AvailableTransitions(ctx, interfaces.TransitionQuery{
		RequestType: record.Type,
		State:       interfaces.WorkflowState(record.Status),
	})
	if err != nil {
		return nil, err
	}
	actions := make([]string, 0, len(transitions))
	for _, transition := range transitions {
		actions = append(actions, transition.Name)
	}
	sort.Strings(actions)
	return actions, nil
}

// AcceptedFor returns the latest accepted request of a record.
func (s *service) AcceptedFor(ctx context.Context, recordID string) (*Request, error) {
	recordID = strings.TrimSpace(recordID)
	if recordID == "" {
		return nil, ErrRecordIDRequired
	}
	records, err := s.repo.ListByRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		if record.Status == domain.RequestStatusAccepted {
			return record, nil
		}
	}
	return nil, ErrRequestNotFound
}

// CanPublish returns the accepted request that allows the record to be
// published, or ErrRequestNotAccepted.
func (s *service) CanPublish(ctx context.Context, recordID string) (*Request, error) {
	accepted, err := s.AcceptedFor(ctx, recordID)
	if errors.Is(err, ErrRequestNotFound) {
		return nil, ErrRequestNotAccepted
	}
	if err != nil {
		return nil, err
	}
	return accepted, nil
}

// DraftUpdated reacts to a saved draft. An accepted request goes back to
// pending_resubmission when the draft content changed; records without a
// live request get ErrRequestMissing.
func (s *service) DraftUpdated(ctx context.Context, update DraftUpdate) (*Request, error) {
	recordID := strings.TrimSpace(update.RecordID)
	if recordID == "" {
		return nil, ErrRecordIDRequired
	}

	unlock := s.locks.lock(recordID)
	defer unlock()

	latest, err := s.Latest(ctx, recordID, false)
	if errors.Is(err, ErrRequestNotFound) {
		return nil, ErrRequestMissing
	}
	if err != nil {
		return nil, err
	}
	if latest.Closed {
		return nil, ErrRequestMissing
	}
	if !update.Changed || latest.Status != domain.RequestStatusAccepted {
		return latest, nil
	}
	return s.apply(ctx, latest, ApplyRequest{ID: latest.ID, Action: workflow.ActionReopen, ActorID: update.ActorID})
}

// Comment appends a Markdown comment to the request timeline.
func (s *service) Comment(ctx context.Context, req CommentRequest) (*Event, error) {
	if req.ID == uuid.Nil {
		return nil, ErrRequestIDRequired
	}
	if strings.TrimSpace(req.Body) == "" {
		return nil, ErrCommentRequired
	}
	record, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(record.RecordID)
	defer unlock()
	return s.comment(ctx, req)
}

func (s *service) comment(ctx context.Context, req CommentRequest) (*Event, error) {
	body := strings.TrimSpace(req.Body)
	event := &Event{
		Type:    EventComment,
		ActorID: strings.TrimSpace(req.ActorID),
		Body:    body,
	}
	if s.renderer != nil {
		html, err := s.renderer.RenderString(body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRenderingFailed, err)
		}
		event.HTML = html
	}
	return s.appendEvent(ctx, req.ID, event)
}

// Timeline returns a page of events; pages are 1-based.
func (s *service) Timeline(ctx context.Context, id uuid.UUID, page int) (*TimelinePage, error) {
	if page == 0 {
		page = 1
	}
	if page < 0 {
		return nil, ErrTimelinePageInvalid
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	events, err := s.repo.ListEvents(ctx, id)
	if err != nil {
		return nil, err
	}
	start, end := pageBounds(page, s.pageSize, len(events))
	return &TimelinePage{
		Page:   page,
		Size:   s.pageSize,
		Total:  len(events),
		Events: events[start:end],
	}, nil
}

func (s *service) appendEvent(ctx context.Context, requestID uuid.UUID, event *Event) (*Event, error) {
	existing, err := s.repo.ListEvents(ctx, requestID)
	if err != nil {
		return nil, err
	}
	event.RequestID = requestID
	event.Sequence = len(existing) + 1
	event.ID = identity.TimelineEventUUID(requestID, event.Sequence)
	event.CreatedAt = s.now()
	return s.repo.AppendEvent(ctx, event)
}

func (s *service) initialState() (domain.RequestStatus, error) {
	type initialStater interface {
		InitialState(requestType string) (interfaces.WorkflowState, error)
	}
	if engine, ok := s.engine.(initialStater); ok {
		state, err := engine.InitialState(s.requestType)
		if err != nil {
			return "", err
		}
		return domain.RequestStatus(state), nil
	}
	return domain.RequestStatusCreated, nil
}

func (s *service) title(recordTitle, recordID string) string {
	subject := strings.TrimSpace(recordTitle)
	if subject == "" {
		subject = recordID
	}
	if s.translator != nil {
		if title, err := s.translator.Translate(s.locale, defaultTitleKey, subject); err == nil && title != "" && title != defaultTitleKey {
			return title
		}
	}
	return fmt.Sprintf(defaultTitleFormat, subject)
}

func translateNotFound(err error) error {
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return ErrRequestNotFound
	}
	return err
}

func pageBounds(page, size, total int) (int, int) {
	if size <= 0 {
		return 0, total
	}
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	return start, end
}
