package routes

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	urlkit "github.com/goliatone/go-urlkit"
)

const (
	GroupAPI = "api"
	GroupUI  = "ui"

	RouteCurations      = "curations"
	RouteCuration       = "curation"
	RouteAction         = "action"
	RouteTimeline       = "timeline"
	RoutePublishingData = "publishing_data"
	RouteRequest        = "request"
)

var (
	ErrRouteConfigRequired = errors.New("routes: route config required")
	ErrRequestIDRequired   = errors.New("routes: request id required")
	ErrActionRequired      = errors.New("routes: action required")
)

// Set builds the API and UI URLs used by the client and presenters.
type Set struct {
	manager *urlkit.RouteManager

	mu     sync.RWMutex
	groups map[string]*urlkit.Group
}

// New constructs a route set from a go-urlkit config.
func New(cfg *urlkit.Config) (*Set, error) {
	if cfg == nil {
		return nil, ErrRouteConfigRequired
	}
	return &Set{
		manager: urlkit.NewRouteManager(cfg),
		groups:  make(map[string]*urlkit.Group),
	}, nil
}

// Curations returns the search/create endpoint with the supplied query.
func (s *Set) Curations(query url.Values) (string, error) {
	return s.build(GroupAPI, RouteCurations, nil, query)
}

// Curation returns the endpoint of a single request.
func (s *Set) Curation(id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", ErrRequestIDRequired
	}
	return s.build(GroupAPI, RouteCuration, map[string]any{"id": id}, nil)
}

// Action returns the endpoint applying action to a request.
func (s *Set) Action(id, action string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", ErrRequestIDRequired
	}
	if strings.TrimSpace(action) == "" {
		return "", ErrActionRequired
	}
	return s.build(GroupAPI, RouteAction, map[string]any{"id": id, "action": action}, nil)
}

func (s *Set) Timeline(id string, query url.Values) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", ErrRequestIDRequired
	}
	return s.build(GroupAPI, RouteTimeline, map[string]any{"id": id}, query)
}

func (s *Set) PublishingData() (string, error) {
	return s.build(GroupAPI, RoutePublishingData, nil, nil)
}

// RequestPage returns the request detail page URL.
func (s *Set) RequestPage(id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", ErrRequestIDRequired
	}
	return s.build(GroupUI, RouteRequest, map[string]any{"id": id}, nil)
}

// RequestPageFunc adapts RequestPage to the presenter link option. Build
// failures fall back to the relative request path.
func (s *Set) RequestPageFunc() func(string) string {
	return func(id string) string {
		link, err := s.RequestPage(id)
		if err != nil {
			return "/me/requests/" + id
		}
		return link
	}
}

func (s *Set) build(groupPath, route string, params map[string]any, query url.Values) (string, error) {
	if s == nil || s.manager == nil {
		return "", ErrRouteConfigRequired
	}
	group, err := s.group(groupPath)
	if err != nil {
		return "", err
	}
	builder, err := safeBuilder(group, route)
	if err != nil {
		return "", err
	}
	for key, val := range params {
		builder.WithParam(key, val)
	}
	for key, values := range query {
		for _, v := range values {
			builder.WithQuery(key, v)
		}
	}
	return builder.Build()
}

func (s *Set) group(path string) (*urlkit.Group, error) {
	s.mu.RLock()
	group, ok := s.groups[path]
	s.mu.RUnlock()
	if ok {
		return group, nil
	}

	parts := strings.Split(path, ".")
	current, err := lookupGroup(s.manager, parts[0])
	if err != nil {
		return nil, err
	}
	for _, part := range parts[1:] {
		current, err = lookupChildGroup(current, part)
		if err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	s.groups[path] = current
	s.mu.Unlock()
	return current, nil
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			group, err = nil, fmt.Errorf("routes: route group %q not found", name)
		}
	}()
	return manager.Group(name), nil
}

func lookupChildGroup(parent *urlkit.Group, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			group, err = nil, fmt.Errorf("routes: child group %q not found", name)
		}
	}()
	return parent.Group(name), nil
}

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			builder, err = nil, fmt.Errorf("routes: route %q: %v", route, rec)
		}
	}()
	return group.Builder(route), nil
}
