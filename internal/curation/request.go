package curation

import (
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-curations/internal/domain"
)

// EntityRef references an entity by kind, e.g. {"record": "abc12"} or {"group": "3"}.
type EntityRef map[string]string

// Ref builds a single-entry entity reference.
func Ref(kind, id string) EntityRef {
	return EntityRef{kind: id}
}

// Kind returns the reference kind and identifier. References with several
// keys resolve to the alphabetically first kind.
func (e EntityRef) Kind() (string, string) {
	if len(e) == 0 {
		return "", ""
	}
	kinds := make([]string, 0, len(e))
	for kind := range e {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds[0], e[kinds[0]]
}

// String renders the reference as "kind:id".
func (e EntityRef) String() string {
	kind, id := e.Kind()
	if kind == "" {
		return ""
	}
	return kind + ":" + id
}

// ParseRef parses a "kind:id" reference.
func ParseRef(raw string) (EntityRef, bool) {
	kind, id, ok := strings.Cut(strings.TrimSpace(raw), ":")
	kind, id = strings.TrimSpace(kind), strings.TrimSpace(id)
	if !ok || kind == "" || id == "" {
		return nil, false
	}
	return Ref(kind, id), true
}

// Links are the hypermedia links attached to a request.
type Links struct {
	Self     string            `json:"self,omitempty"`
	HTML     string            `json:"self_html,omitempty"`
	Timeline string            `json:"timeline,omitempty"`
	Actions  map[string]string `json:"actions,omitempty"`
}

// Request is a curation request as returned by the curations API.
type Request struct {
	ID        string               `json:"id"`
	Number    string               `json:"number,omitempty"`
	Type      string               `json:"type"`
	Title     string               `json:"title"`
	Status    domain.RequestStatus `json:"status"`
	IsOpen    bool                 `json:"is_open"`
	IsExpired bool                 `json:"is_expired"`
	Topic     EntityRef            `json:"topic"`
	CreatedBy EntityRef            `json:"created_by,omitempty"`
	Receiver  EntityRef            `json:"receiver,omitempty"`
	Expanded  map[string]any       `json:"expanded,omitempty"`
	Created   time.Time            `json:"created"`
	Updated   time.Time            `json:"updated"`
	ExpiresAt *time.Time           `json:"expires_at,omitempty"`
	Links     Links                `json:"links"`
}

// NormalizedStatus returns the status in canonical form. Unknown values are kept.
func (r *Request) NormalizedStatus() domain.RequestStatus {
	if r == nil {
		return ""
	}
	return domain.NormalizeRequestStatus(string(r.Status))
}

// RecordID returns the identifier of the record the request is about.
func (r *Request) RecordID() string {
	if r == nil {
		return ""
	}
	return r.Topic["record"]
}

// ActionLink returns the link for the named action when the server offered it.
func (r *Request) ActionLink(action string) (string, bool) {
	if r == nil || r.Links.Actions == nil {
		return "", false
	}
	link, ok := r.Links.Actions[strings.ToLower(strings.TrimSpace(action))]
	return link, ok && link != ""
}
