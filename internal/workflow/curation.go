package workflow

import (
	"github.com/goliatone/go-curations/internal/domain"
	"github.com/goliatone/go-curations/pkg/interfaces"
)

// RequestTypeCuration identifies the curation request type.
const RequestTypeCuration = "rdm-curation"

// Actions understood by the curation request type.
const (
	ActionSubmit   = "submit"
	ActionReview   = "review"
	ActionCritique = "critique"
	ActionResubmit = "resubmit"
	ActionAccept   = "accept"
	ActionDecline  = "decline"
	ActionCancel   = "cancel"
	ActionExpire   = "expire"
	ActionReopen   = "reopen"
)

func state(status domain.RequestStatus) interfaces.WorkflowState {
	return interfaces.WorkflowState(status)
}

// CurationDefinition returns the built-in state machine for curation requests.
func CurationDefinition() interfaces.WorkflowDefinition {
	var (
		created     = state(domain.RequestStatusCreated)
		submitted   = state(domain.RequestStatusSubmitted)
		review      = state(domain.RequestStatusReview)
		critiqued   = state(domain.RequestStatusCritiqued)
		resubmitted = state(domain.RequestStatusResubmitted)
		pending     = state(domain.RequestStatusPendingResubmission)
		accepted    = state(domain.RequestStatusAccepted)
		declined    = state(domain.RequestStatusDeclined)
		cancelled   = state(domain.RequestStatusCancelled)
		expired     = state(domain.RequestStatusExpired)
	)

	transitions := []interfaces.WorkflowTransition{
		{Name: ActionSubmit, From: created, To: submitted, Description: "Submit the record for curation"},
		{Name: ActionReview, From: submitted, To: review, Description: "Start curation review"},
		{Name: ActionReview, From: resubmitted, To: review, Description: "Start curation review"},
		{Name: ActionCritique, From: review, To: critiqued, Description: "Request changes"},
		{Name: ActionResubmit, From: critiqued, To: resubmitted, Description: "Resubmit record for review"},
		{Name: ActionResubmit, From: pending, To: resubmitted, Description: "Resubmit published record"},
		{Name: ActionAccept, From: review, To: accepted, Description: "Accept the record for publication"},
		{Name: ActionAccept, From: resubmitted, To: accepted, Description: "Accept the record for publication"},
		{Name: ActionDecline, From: review, To: declined, Description: "Decline the record"},
		{Name: ActionDecline, From: resubmitted, To: declined, Description: "Decline the record"},
		{Name: ActionReopen, From: accepted, To: pending, Description: "Reopen after edits to a published record"},
	}
	for _, from := range []interfaces.WorkflowState{created, submitted, review, critiqued, resubmitted, pending, accepted} {
		transitions = append(transitions, interfaces.WorkflowTransition{Name: ActionCancel, From: from, To: cancelled, Description: "Cancel the request"})
	}
	for _, from := range []interfaces.WorkflowState{submitted, review, critiqued, resubmitted} {
		transitions = append(transitions, interfaces.WorkflowTransition{Name: ActionExpire, From: from, To: expired, Description: "Expire the request"})
	}

	return interfaces.WorkflowDefinition{
		RequestType:  RequestTypeCuration,
		InitialState: created,
		States: []interfaces.WorkflowStateDefinition{
			{Name: created, Description: "Request created, not yet submitted"},
			{Name: submitted, Description: "Submitted and waiting for a curator"},
			{Name: review, Description: "Curator review in progress"},
			{Name: critiqued, Description: "Changes requested by a curator"},
			{Name: resubmitted, Description: "Updated record resubmitted for review"},
			{Name: pending, Description: "Published record edited, waiting for resubmission"},
			{Name: accepted, Description: "Accepted, the author may publish"},
			{Name: declined, Description: "Declined by a curator", Terminal: true},
			{Name: cancelled, Description: "Cancelled by the author", Terminal: true},
			{Name: expired, Description: "Expired without a decision", Terminal: true},
		},
		Transitions: transitions,
	}
}
