package simple

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/goliatone/go-curations/internal/domain"
	"github.com/goliatone/go-curations/internal/workflow"
	"github.com/goliatone/go-curations/pkg/interfaces"
	"github.com/google/uuid"
)

var (
	// ErrUnknownRequestType indicates no workflow definition exists for the request type.
	ErrUnknownRequestType = errors.New("workflow: request type not registered")
	// ErrInvalidTransition indicates the requested action is not allowed from the current status.
	ErrInvalidTransition = errors.New("workflow: transition not allowed")
	// ErrMissingTransition indicates neither an action nor a target status were supplied.
	ErrMissingTransition = errors.New("workflow: action or target state required")
	// ErrNilRequestID signals input validation failure.
	ErrNilRequestID = errors.New("workflow: request id required")
)

// Engine is an in-memory workflow engine executing deterministic status transitions.
type Engine struct {
	mu          sync.RWMutex
	definitions map[string]*compiledDefinition
	now         func() time.Time
}

var _ interfaces.WorkflowEngine = (*Engine)(nil)

// Option configures the engine.
type Option func(*Engine)

// WithClock overrides the clock used for transition timestamps (primarily for testing).
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.now = clock
		}
	}
}

// WithDefinitions registers additional or replacement definitions at construction.
func WithDefinitions(definitions ...interfaces.WorkflowDefinition) Option {
	return func(e *Engine) {
		for _, definition := range definitions {
			_ = e.RegisterWorkflow(context.Background(), definition)
		}
	}
}

// New constructs a workflow engine seeded with the curation request workflow.
func New(opts ...Option) *Engine {
	engine := &Engine{
		definitions: make(map[string]*compiledDefinition),
		now:         time.Now,
	}
	_ = engine.RegisterWorkflow(context.Background(), workflow.CurationDefinition())
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// Transition applies an action to a request and reports the resulting status.
func (e *Engine) Transition(ctx context.Context, input interfaces.TransitionInput) (*interfaces.TransitionResult, error) {
	if input.RequestID == uuid.Nil {
		return nil, ErrNilRequestID
	}

	definition, err := e.definitionFor(input.RequestType)
	if err != nil {
		return nil, err
	}

	current := definition.stateOrInitial(input.CurrentState)
	action := workflow.NormalizeAction(input.Action)
	target := normalizeState(input.TargetState)

	if action == "" && (target == "" || target == current) {
		return &interfaces.TransitionResult{
			RequestID:   input.RequestID,
			RequestType: definition.definition.RequestType,
			FromState:   current,
			ToState:     current,
			Closed:      definition.terminal[current],
			CompletedAt: e.now(),
			ActorID:     input.ActorID,
			Metadata:    maps.Clone(input.Metadata),
		}, nil
	}

	var transition interfaces.WorkflowTransition
	switch {
	case action != "":
		transition, err = definition.lookupAction(action, current)
	case target != "":
		transition, err = definition.lookupByStates(current, target)
	default:
		err = ErrMissingTransition
	}
	if err != nil {
		return nil, err
	}

	return &interfaces.TransitionResult{
		RequestID:   input.RequestID,
		RequestType: definition.definition.RequestType,
		Action:      transition.Name,
		FromState:   current,
		ToState:     transition.To,
		Closed:      definition.terminal[transition.To],
		CompletedAt: e.now(),
		ActorID:     input.ActorID,
		Metadata:    maps.Clone(input.Metadata),
	}, nil
}

// AvailableTransitions returns the actions reachable from the supplied status.
func (e *Engine) AvailableTransitions(ctx context.Context, query interfaces.TransitionQuery) ([]interfaces.WorkflowTransition, error) {
	definition, err := e.definitionFor(query.RequestType)
	if err != nil {
		return nil, err
	}
	transitions := definition.byState[definition.stateOrInitial(query.State)]
	result := make([]interfaces.WorkflowTransition, len(transitions))
	copy(result, transitions)
	return result, nil
}

// InitialState returns the status new requests of the given type start in.
func (e *Engine) InitialState(requestType string) (interfaces.WorkflowState, error) {
	definition, err := e.definitionFor(requestType)
	if err != nil {
		return "", err
	}
	return definition.definition.InitialState, nil
}

// RegisterWorkflow installs or replaces the definition for a request type.
func (e *Engine) RegisterWorkflow(ctx context.Context, definition interfaces.WorkflowDefinition) error {
	requestType := workflow.NormalizeRequestType(definition.RequestType)
	if requestType == "" {
		return workflow.ErrDefinitionRequestTypeRequired
	}
	definition.RequestType = requestType
	compiled := compile(definition)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.definitions[requestType] = compiled
	return nil
}

func (e *Engine) definitionFor(requestType string) (*compiledDefinition, error) {
	key := workflow.NormalizeRequestType(requestType)
	if key == "" {
		key = workflow.RequestTypeCuration
	}
	e.mu.RLock()
	definition, ok := e.definitions[key]
	e.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRequestType, requestType)
	}
	return definition, nil
}

type compiledDefinition struct {
	definition interfaces.WorkflowDefinition
	actions    map[string]interfaces.WorkflowTransition
	byState    map[interfaces.WorkflowState][]interfaces.WorkflowTransition
	terminal   map[interfaces.WorkflowState]bool
}

func compile(definition interfaces.WorkflowDefinition) *compiledDefinition {
	compiled := &compiledDefinition{
		actions:  make(map[string]interfaces.WorkflowTransition),
		byState:  make(map[interfaces.WorkflowState][]interfaces.WorkflowTransition),
		terminal: make(map[interfaces.WorkflowState]bool),
	}
	definition.InitialState = normalizeState(definition.InitialState)
	for _, state := range definition.States {
		compiled.terminal[normalizeState(state.Name)] = state.Terminal
	}
	for _, transition := range definition.Transitions {
		transition.Name = workflow.NormalizeAction(transition.Name)
		transition.From = normalizeState(transition.From)
		transition.To = normalizeState(transition.To)
		compiled.actions[actionKey(transition.Name, transition.From)] = transition
		compiled.byState[transition.From] = append(compiled.byState[transition.From], transition)
	}
	compiled.definition = definition
	return compiled
}

func (d *compiledDefinition) stateOrInitial(state interfaces.WorkflowState) interfaces.WorkflowState {
	if normalized := normalizeState(state); normalized != "" {
		return normalized
	}
	return d.definition.InitialState
}

func (d *compiledDefinition) lookupAction(action string, from interfaces.WorkflowState) (interfaces.WorkflowTransition, error) {
	transition, ok := d.actions[actionKey(action, from)]
	if !ok {
		return interfaces.WorkflowTransition{}, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, action, from)
	}
	return transition, nil
}

func (d *compiledDefinition) lookupByStates(from, to interfaces.WorkflowState) (interfaces.WorkflowTransition, error) {
	for _, candidate := range d.byState[from] {
		if candidate.To == to {
			return candidate, nil
		}
	}
	return interfaces.WorkflowTransition{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

func actionKey(action string, from interfaces.WorkflowState) string {
	return action + "::" + string(from)
}

func normalizeState(state interfaces.WorkflowState) interfaces.WorkflowState {
	return interfaces.WorkflowState(domain.NormalizeRequestStatus(string(state)))
}
