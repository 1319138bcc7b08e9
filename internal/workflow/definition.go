package workflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-curations/internal/domain"
	"github.com/goliatone/go-curations/internal/runtimeconfig"
	"github.com/goliatone/go-curations/pkg/interfaces"
)

var (
	// ErrDefinitionRequestTypeRequired indicates the workflow definition lacks a request type.
	ErrDefinitionRequestTypeRequired = errors.New("workflow: definition request type required")
	// ErrDefinitionStatesRequired indicates the workflow definition does not declare any states.
	ErrDefinitionStatesRequired = errors.New("workflow: definition requires at least one state")
	// ErrStateNameRequired indicates a workflow state is missing its name.
	ErrStateNameRequired = errors.New("workflow: state name required")
	// ErrDuplicateState indicates duplicate workflow state names were declared.
	ErrDuplicateState = errors.New("workflow: duplicate state")
	// ErrDuplicateDefinition indicates multiple definitions were provided for the same request type.
	ErrDuplicateDefinition = errors.New("workflow: duplicate request type definition")
	// ErrTransitionNameRequired indicates a transition lacks a name.
	ErrTransitionNameRequired = errors.New("workflow: transition name required")
	// ErrTransitionStateUnknown indicates a transition references a state that was not declared.
	ErrTransitionStateUnknown = errors.New("workflow: transition references unknown state")
	// ErrDuplicateTransition indicates the same action is declared twice for a status.
	ErrDuplicateTransition = errors.New("workflow: duplicate action for status")
	// ErrInitialStateInvalid indicates the supplied initial state flag is inconsistent or unknown.
	ErrInitialStateInvalid = errors.New("workflow: invalid initial state")
)

// CompileDefinitionConfigs converts request workflows declared in configuration
// into engine definitions. Status names go through the same normalisation as
// statuses read from the API so configured and fetched values compare equal.
func CompileDefinitionConfigs(configs []runtimeconfig.WorkflowDefinitionConfig) ([]interfaces.WorkflowDefinition, error) {
	if len(configs) == 0 {
		return nil, nil
	}

	definitions := make([]interfaces.WorkflowDefinition, 0, len(configs))
	seenTypes := make(map[string]struct{}, len(configs))

	for _, cfg := range configs {
		definition, err := compileDefinitionConfig(cfg)
		if err != nil {
			return nil, err
		}

		if _, exists := seenTypes[definition.RequestType]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateDefinition, definition.RequestType)
		}
		seenTypes[definition.RequestType] = struct{}{}
		definitions = append(definitions, definition)
	}

	return definitions, nil
}

func compileDefinitionConfig(cfg runtimeconfig.WorkflowDefinitionConfig) (interfaces.WorkflowDefinition, error) {
	requestType := NormalizeRequestType(cfg.RequestType)
	if requestType == "" {
		return interfaces.WorkflowDefinition{}, ErrDefinitionRequestTypeRequired
	}

	if len(cfg.States) == 0 {
		return interfaces.WorkflowDefinition{}, fmt.Errorf("%w: %s", ErrDefinitionStatesRequired, requestType)
	}

	known, stateDefs, initialState, err := compileStates(cfg.States)
	if err != nil {
		return interfaces.WorkflowDefinition{}, err
	}

	transitions, err := compileTransitions(cfg.Transitions, known)
	if err != nil {
		return interfaces.WorkflowDefinition{}, err
	}

	return interfaces.WorkflowDefinition{
		RequestType:  requestType,
		InitialState: initialState,
		States:       stateDefs,
		Transitions:  transitions,
	}, nil
}

func statusState(raw string) interfaces.WorkflowState {
	return interfaces.WorkflowState(domain.NormalizeRequestStatus(raw))
}

func compileStates(configs []runtimeconfig.WorkflowStateConfig) (map[interfaces.WorkflowState]struct{}, []interfaces.WorkflowStateDefinition, interfaces.WorkflowState, error) {
	known := make(map[interfaces.WorkflowState]struct{}, len(configs))
	ordered := make([]interfaces.WorkflowStateDefinition, 0, len(configs))
	var initial interfaces.WorkflowState

	for idx, cfg := range configs {
		name := statusState(cfg.Name)
		if name == "" {
			return nil, nil, "", fmt.Errorf("%w at index %d", ErrStateNameRequired, idx)
		}
		if _, exists := known[name]; exists {
			return nil, nil, "", fmt.Errorf("%w: %s", ErrDuplicateState, name)
		}
		if cfg.Initial {
			if initial != "" {
				return nil, nil, "", ErrInitialStateInvalid
			}
			if cfg.Terminal {
				return nil, nil, "", fmt.Errorf("%w: %s is terminal", ErrInitialStateInvalid, name)
			}
			initial = name
		}
		known[name] = struct{}{}
		ordered = append(ordered, interfaces.WorkflowStateDefinition{
			Name:        name,
			Description: strings.TrimSpace(cfg.Description),
			Terminal:    cfg.Terminal,
		})
	}

	if initial == "" {
		initial = ordered[0].Name
	}
	return known, ordered, initial, nil
}

func compileTransitions(configs []runtimeconfig.WorkflowTransitionConfig, states map[interfaces.WorkflowState]struct{}) ([]interfaces.WorkflowTransition, error) {
	if len(configs) == 0 {
		return nil, nil
	}

	result := make([]interfaces.WorkflowTransition, 0, len(configs))
	seen := make(map[string]struct{}, len(configs))

	for idx, cfg := range configs {
		name := NormalizeAction(cfg.Name)
		if name == "" {
			return nil, fmt.Errorf("%w at index %d", ErrTransitionNameRequired, idx)
		}

		from, to := statusState(cfg.From), statusState(cfg.To)
		if _, ok := states[from]; !ok || from == "" {
			return nil, fmt.Errorf("%w: %q", ErrTransitionStateUnknown, cfg.From)
		}
		if _, ok := states[to]; !ok || to == "" {
			return nil, fmt.Errorf("%w: %q", ErrTransitionStateUnknown, cfg.To)
		}

		key := transitionKey(name, from)
		if _, exists := seen[key]; exists {
			return nil, fmt.Errorf("%w: %s from %s", ErrDuplicateTransition, name, from)
		}
		seen[key] = struct{}{}

		result = append(result, interfaces.WorkflowTransition{
			Name:        name,
			Description: strings.TrimSpace(cfg.Description),
			From:        from,
			To:          to,
		})
	}

	return result, nil
}

func transitionKey(name string, from interfaces.WorkflowState) string {
	return NormalizeAction(name) + "::" + string(from)
}

// NormalizeAction lower-cases and trims an action name.
func NormalizeAction(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NormalizeRequestType lower-cases and trims a request type identifier.
func NormalizeRequestType(requestType string) string {
	return strings.ToLower(strings.TrimSpace(requestType))
}
