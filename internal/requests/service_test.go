package requests_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-curations/internal/domain"
	"github.com/goliatone/go-curations/internal/identity"
	"github.com/goliatone/go-curations/internal/markdown"
	"github.com/goliatone/go-curations/internal/requests"
	"github.com/goliatone/go-curations/internal/routes"
	"github.com/goliatone/go-curations/internal/runtimeconfig"
	"github.com/goliatone/go-curations/internal/workflow"
	"github.com/goliatone/go-curations/internal/workflow/simple"
)

func steppingClock() func() time.Time {
	current := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func newService(opts ...requests.ServiceOption) requests.Service {
	base := []requests.ServiceOption{
		requests.WithClock(steppingClock()),
		requests.WithCommentRenderer(markdown.NewRenderer(markdown.DefaultOptions())),
	}
	return requests.NewService(requests.NewMemoryRequestRepository(), append(base, opts...)...)
}

func TestServiceCreateSubmitsAndRejectsSecondOpenRequest(t *testing.T) {
	ctx := context.Background()
	svc := newService(requests.WithModerationRole("Curators"))

	created, err := svc.Create(ctx, requests.CreateRequest{RecordID: "abc12", RecordTitle: "Soil samples", ActorID: "7", Submit: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != domain.RequestStatusSubmitted {
		t.Fatalf("expected submitted status, got %q", created.Status)
	}
	if created.Title != "RDM Curation: Soil samples" {
		t.Fatalf("unexpected title %q", created.Title)
	}
	if created.ReceiverID != identity.ModerationGroupRef("curators") {
		t.Fatalf("expected moderation group receiver, got %q", created.ReceiverID)
	}
	if created.Number != 1 {
		t.Fatalf("expected first request number, got %d", created.Number)
	}

	if _, err := svc.Create(ctx, requests.CreateRequest{RecordID: "abc12"}); !errors.Is(err, requests.ErrOpenRequestExists) {
		t.Fatalf("expected ErrOpenRequestExists, got %v", err)
	}

	if _, err := svc.Apply(ctx, requests.ApplyRequest{ID: created.ID, Action: workflow.ActionCancel, ActorID: "7"}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	second, err := svc.Create(ctx, requests.CreateRequest{RecordID: "abc12"})
	if err != nil {
		t.Fatalf("create after cancel: %v", err)
	}
	if second.Status != domain.RequestStatusCreated || second.Title != "RDM Curation: abc12" {
		t.Fatalf("unexpected second request %+v", second)
	}

	latest, err := svc.Latest(ctx, "abc12", true)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.ID != second.ID {
		t.Fatalf("expected latest open request %s, got %s", second.ID, latest.ID)
	}
}

func TestServiceCreateRequiresRecordID(t *testing.T) {
	svc := newService()
	if _, err := svc.Create(context.Background(), requests.CreateRequest{RecordID: "  "}); !errors.Is(err, requests.ErrRecordIDRequired) {
		t.Fatalf("expected ErrRecordIDRequired, got %v", err)
	}
}

func TestServiceApplyFollowsWorkflow(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	req, err := svc.Create(ctx, requests.CreateRequest{RecordID: "rec-1", Submit: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Apply(ctx, requests.ApplyRequest{ID: req.ID, Action: workflow.ActionAccept}); !errors.Is(err, simple.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition accepting a submitted request, got %v", err)
	}

	steps := []struct {
		action string
		want   domain.RequestStatus
	}{
		{workflow.ActionReview, domain.RequestStatusReview},
		{workflow.ActionCritique, domain.RequestStatusCritiqued},
		{workflow.ActionResubmit, domain.RequestStatusResubmitted},
		{workflow.ActionAccept, domain.RequestStatusAccepted},
	}
	for _, step := range steps {
		req, err = svc.Apply(ctx, requests.ApplyRequest{ID: req.ID, Action: step.action})
		if err != nil {
			t.Fatalf("apply %s: %v", step.action, err)
		}
		if req.Status != step.want {
			t.Fatalf("apply %s: expected %q, got %q", step.action, step.want, req.Status)
		}
	}
	if !req.Open() {
		t.Fatal("expected accepted request to stay open")
	}

	accepted, err := svc.AcceptedFor(ctx, "rec-1")
	if err != nil || accepted.ID != req.ID {
		t.Fatalf("expected accepted request, got %+v (%v)", accepted, err)
	}

	actions, err := svc.AvailableActions(ctx, req.ID)
	if err != nil {
		t.Fatalf("available actions: %v", err)
	}
	if strings.Join(actions, ",") != "cancel,reopen" {
		t.Fatalf("unexpected actions %v", actions)
	}

	declined, err := svc.Create(ctx, requests.CreateRequest{RecordID: "rec-2", Submit: true})
	if err != nil {
		t.Fatalf("create rec-2: %v", err)
	}
	for _, action := range []string{workflow.ActionReview, workflow.ActionDecline} {
		if declined, err = svc.Apply(ctx, requests.ApplyRequest{ID: declined.ID, Action: action}); err != nil {
			t.Fatalf("apply %s: %v", action, err)
		}
	}
	if declined.Open() {
		t.Fatal("expected declined request to be closed")
	}
	if _, err := svc.Apply(ctx, requests.ApplyRequest{ID: declined.ID, Action: workflow.ActionReview}); !errors.Is(err, requests.ErrRequestClosed) {
		t.Fatalf("expected ErrRequestClosed, got %v", err)
	}
	if _, err := svc.AcceptedFor(ctx, "rec-2"); !errors.Is(err, requests.ErrRequestNotFound) {
		t.Fatalf("expected ErrRequestNotFound, got %v", err)
	}
}

func TestServiceTimelineRendersCommentsAndPages(t *testing.T) {
	ctx := context.Background()
	svc := newService(requests.WithTimelinePageSize(2))

	req, err := svc.Create(ctx, requests.CreateRequest{RecordID: "rec-3", Submit: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	event, err := svc.Comment(ctx, requests.CommentRequest{ID: req.ID, ActorID: "9", Body: "Please add a **license**."})
	if err != nil {
		t.Fatalf("comment: %v", err)
	}
	if !strings.Contains(event.HTML, "<strong>license</strong>") {
		t.Fatalf("expected rendered markdown, got %q", event.HTML)
	}
	if event.ID != identity.TimelineEventUUID(req.ID, 3) {
		t.Fatalf("expected deterministic event id for sequence 3")
	}
	if _, err := svc.Comment(ctx, requests.CommentRequest{ID: req.ID, Body: " "}); !errors.Is(err, requests.ErrCommentRequired) {
		t.Fatalf("expected ErrCommentRequired, got %v", err)
	}

	first, err := svc.Timeline(ctx, req.ID, 1)
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if first.Total != 3 || len(first.Events) != 2 {
		t.Fatalf("expected 2 of 3 events on page 1, got %d of %d", len(first.Events), first.Total)
	}
	if first.Events[0].Action != "create" || first.Events[1].Action != workflow.ActionSubmit {
		t.Fatalf("unexpected event order %q, %q", first.Events[0].Action, first.Events[1].Action)
	}
	second, err := svc.Timeline(ctx, req.ID, 2)
	if err != nil {
		t.Fatalf("timeline page 2: %v", err)
	}
	if len(second.Events) != 1 || second.Events[0].Type != requests.EventComment {
		t.Fatalf("expected the comment on page 2, got %+v", second.Events)
	}
	if _, err := svc.Timeline(ctx, req.ID, -1); !errors.Is(err, requests.ErrTimelinePageInvalid) {
		t.Fatalf("expected ErrTimelinePageInvalid, got %v", err)
	}
}

func TestServiceSearchFilters(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	for _, id := range []string{"a", "b", "c"} {
		if _, err := svc.Create(ctx, requests.CreateRequest{RecordID: id, Submit: id != "c"}); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	result, err := svc.Search(ctx, requests.SearchQuery{Status: domain.RequestStatusSubmitted})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("expected 2 submitted requests, got %d", result.Total)
	}
	if result.Hits[0].RecordID != "b" {
		t.Fatalf("expected newest first, got %q", result.Hits[0].RecordID)
	}

	paged, err := svc.Search(ctx, requests.SearchQuery{Page: 2, Size: 2})
	if err != nil {
		t.Fatalf("paged search: %v", err)
	}
	if paged.Total != 3 || len(paged.Hits) != 1 || paged.Hits[0].RecordID != "a" {
		t.Fatalf("unexpected second page %+v", paged)
	}

	if _, err := svc.Get(ctx, paged.Hits[0].ID); err != nil {
		t.Fatalf("get: %v", err)
	}
}

func TestViewAddsLinks(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	set, err := routes.New(runtimeconfig.DefaultRoutes("https://repo.example.org"))
	if err != nil {
		t.Fatalf("routes: %v", err)
	}

	req, err := svc.Create(ctx, requests.CreateRequest{RecordID: "abc12", ActorID: "3", Submit: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	actions, err := svc.AvailableActions(ctx, req.ID)
	if err != nil {
		t.Fatalf("actions: %v", err)
	}

	view, err := requests.View(req, actions, set, req.UpdatedAt)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if view.RecordID() != "abc12" || !view.IsOpen || view.IsExpired {
		t.Fatalf("unexpected view %+v", view)
	}
	if view.Links.HTML != "https://repo.example.org/me/requests/"+req.ID.String() {
		t.Fatalf("unexpected html link %q", view.Links.HTML)
	}
	link, ok := view.ActionLink(workflow.ActionReview)
	if !ok || link != "https://repo.example.org/api/curations/"+req.ID.String()+"/actions/review" {
		t.Fatalf("expected review action link, got %q", link)
	}
	if _, ok := view.ActionLink(workflow.ActionResubmit); ok {
		t.Fatal("resubmit should not be offered for a submitted request")
	}
	if view.CreatedBy.String() != "user:3" {
		t.Fatalf("unexpected created_by %q", view.CreatedBy.String())
	}
}
