package interfaces

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// WorkflowState represents a request status understood by workflow engines.
type WorkflowState string

// WorkflowEngine coordinates status transitions for curation requests.
type WorkflowEngine interface {
	// Transition applies the named action (or explicit target status) to the request.
	Transition(ctx context.Context, input TransitionInput) (*TransitionResult, error)
	// AvailableTransitions lists the actions allowed from the supplied status.
	AvailableTransitions(ctx context.Context, query TransitionQuery) ([]WorkflowTransition, error)
	// RegisterWorkflow installs or replaces a workflow definition for the given request type.
	RegisterWorkflow(ctx context.Context, definition WorkflowDefinition) error
}

// TransitionInput captures the data required to run a request action.
type TransitionInput struct {
	RequestID    uuid.UUID
	RequestType  string
	CurrentState WorkflowState
	Action       string
	TargetState  WorkflowState
	ActorID      string
	Metadata     map[string]any
}

// TransitionResult describes the outcome of a request action.
type TransitionResult struct {
	RequestID   uuid.UUID
	RequestType string
	Action      string
	FromState   WorkflowState
	ToState     WorkflowState
	Closed      bool
	CompletedAt time.Time
	ActorID     string
	Metadata    map[string]any
}

// TransitionQuery describes the status for which actions should be listed.
type TransitionQuery struct {
	RequestType string
	State       WorkflowState
}

// WorkflowDefinition describes the state machine of a request type.
type WorkflowDefinition struct {
	RequestType  string
	InitialState WorkflowState
	States       []WorkflowStateDefinition
	Transitions  []WorkflowTransition
}

// WorkflowStateDefinition documents a request status. Terminal statuses close the request.
type WorkflowStateDefinition struct {
	Name        WorkflowState
	Description string
	Terminal    bool
}

// WorkflowTransition declares an action moving a request between two statuses.
type WorkflowTransition struct {
	Name        string
	Description string
	From        WorkflowState
	To          WorkflowState
}
