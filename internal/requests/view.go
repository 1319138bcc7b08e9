package requests

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/goliatone/go-curations/internal/curation"
)

// LinkBuilder produces the hypermedia links attached to API responses.
type LinkBuilder interface {
	Curation(id string) (string, error)
	Action(id, action string) (string, error)
	Timeline(id string, query url.Values) (string, error)
	RequestPage(id string) (string, error)
}

// View converts a stored request into its API representation. actions lists
// the workflow actions currently available; each one gets a link. Link
// builder failures are joined into the returned error.
func View(record *Request, actions []string, links LinkBuilder, now time.Time) (curation.Request, error) {
	if record == nil {
		return curation.Request{}, nil
	}
	id := record.ID.String()
	out := curation.Request{
		ID:        id,
		Number:    strconv.Itoa(record.Number),
		Type:      record.Type,
		Title:     record.Title,
		Status:    record.Status,
		IsOpen:    record.Open(),
		IsExpired: record.Expired(now),
		Topic:     curation.Ref("record", record.RecordID),
		Created:   record.CreatedAt,
		Updated:   record.UpdatedAt,
		ExpiresAt: record.ExpiresAt,
	}
	if record.CreatedBy != "" {
		out.CreatedBy = curation.Ref("user", record.CreatedBy)
	}
	if record.ReceiverID != "" {
		out.Receiver = curation.Ref("group", record.ReceiverID)
	}
	if links == nil {
		return out, nil
	}

	var errs []error
	link := func(name string, build func() (string, error)) string {
		value, err := build()
		if err != nil {
			errs = append(errs, fmt.Errorf("requests: %s link: %w", name, err))
		}
		return value
	}
	out.Links.Self = link("self", func() (string, error) { return links.Curation(id) })
	out.Links.HTML = link("self_html", func() (string, error) { return links.RequestPage(id) })
	out.Links.Timeline = link("timeline", func() (string, error) { return links.Timeline(id, nil) })
	if len(actions) > 0 {
		out.Links.Actions = make(map[string]string, len(actions))
		for _, action := range actions {
			out.Links.Actions[action] = link("action "+action, func() (string, error) { return links.Action(id, action) })
		}
	}
	return out, errors.Join(errs...)
}
