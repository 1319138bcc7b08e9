package curation

import (
	"strings"

	"github.com/goliatone/go-curations/internal/domain"
)

// StatusBadge is a non-interactive request status label.
type StatusBadge struct {
	Status    domain.RequestStatus `json:"status"`
	Icon      string               `json:"icon"`
	ClassName string               `json:"class_name"`
	Label     string               `json:"label"`
}

// ActionButton describes the control curators and authors use to run a request action.
type ActionButton struct {
	Action     string `json:"action"`
	Icon       string `json:"icon"`
	Color      string `json:"color"`
	Label      string `json:"label"`
	ModalTitle string `json:"modal_title"`
}

// TypeLabel describes how a request type is labelled in request lists.
type TypeLabel struct {
	Icon  string `json:"icon"`
	Label string `json:"label"`
}

type badgeEntry struct {
	icon  string
	label Text
}

type buttonEntry struct {
	icon  string
	color string
	label Text
	modal Text
}

// statusBadges covers every declared request status. The curation specific
// statuses carry their own wording, the rest mirror the generic request labels.
var statusBadges = map[domain.RequestStatus]badgeEntry{
	domain.RequestStatusCreated:             {"pencil", Text{"request.status.created", "Created"}},
	domain.RequestStatusSubmitted:           {"clock", Text{"request.status.submitted", "Submitted"}},
	domain.RequestStatusReview:              {"eye", Text{"request.status.review", "In review"}},
	domain.RequestStatusCritiqued:           {"exclamation circle", Text{"request.status.critiqued", "Review available"}},
	domain.RequestStatusResubmitted:         {"hand paper outline", Text{"request.status.resubmitted", "Resubmitted"}},
	domain.RequestStatusPendingResubmission: {"redo", Text{"request.status.pending_resubmission", "Pending resubmission"}},
	domain.RequestStatusAccepted:            {"check circle", Text{"request.status.accepted", "Accepted"}},
	domain.RequestStatusDeclined:            {"times", Text{"request.status.declined", "Declined"}},
	domain.RequestStatusCancelled:           {"square", Text{"request.status.cancelled", "Cancelled"}},
	domain.RequestStatusExpired:             {"hourglass", Text{"request.status.expired", "Expired"}},
}

// detailStatuses is the wording used on the request detail page.
var detailStatuses = map[domain.RequestStatus]badgeEntry{
	domain.RequestStatusReview:      {"eye", Text{"request.detail.review", "In review"}},
	domain.RequestStatusResubmitted: {"paper hand outline", Text{"request.detail.resubmitted", "Resubmitted for review"}},
	domain.RequestStatusCritiqued:   {"exclamation circle", Text{"request.detail.critiqued", "Changes requested"}},
}

var actionButtons = map[string]buttonEntry{
	"critique": {"exclamation circle", "negative", Text{"request.action.critique", "Request changes"}, Text{"request.modal.critique", "Request changes"}},
	"resubmit": {"paper hand outline", "neutral", Text{"request.action.resubmit", "Resubmit for review"}, Text{"request.modal.resubmit", "Resubmit record for review"}},
	"review":   {"eye", "neutral", Text{"request.action.review", "Start review"}, Text{"request.modal.review", "Start curation review"}},
}

// timelineCaptions describe the status change events shown in the request timeline.
var timelineCaptions = map[domain.RequestStatus]Text{
	domain.RequestStatusReview:      {"request.timeline.review", "started a review"},
	domain.RequestStatusResubmitted: {"request.timeline.resubmitted", "resubmitted the record for review"},
	domain.RequestStatusCritiqued:   {"request.timeline.critiqued", "requested changes"},
}

var typeLabels = map[string]badgeEntry{
	"rdm-curation": {"eye", Text{"request.type.rdm-curation", "Curation review"}},
}

// StatusBadge returns the request status label. Unknown statuses keep their raw value.
func (p *Presenter) StatusBadge(status domain.RequestStatus) StatusBadge {
	status = domain.NormalizeRequestStatus(string(status))
	entry, ok := statusBadges[status]
	if !ok {
		return StatusBadge{Status: status, Icon: "question circle", ClassName: string(status), Label: string(status)}
	}
	return StatusBadge{Status: status, Icon: entry.icon, ClassName: string(status), Label: p.text(entry.label)}
}

// DetailStatus returns the request detail page wording for curation specific statuses.
func (p *Presenter) DetailStatus(status domain.RequestStatus) (StatusBadge, bool) {
	status = domain.NormalizeRequestStatus(string(status))
	entry, ok := detailStatuses[status]
	if !ok {
		return StatusBadge{}, false
	}
	return StatusBadge{Status: status, Icon: entry.icon, ClassName: string(status), Label: p.text(entry.label)}, true
}

// ActionButton returns the button and modal wording for a curator or author action.
func (p *Presenter) ActionButton(action string) (ActionButton, bool) {
	action = strings.ToLower(strings.TrimSpace(action))
	entry, ok := actionButtons[action]
	if !ok {
		return ActionButton{}, false
	}
	return ActionButton{
		Action:     action,
		Icon:       entry.icon,
		Color:      entry.color,
		Label:      p.text(entry.label),
		ModalTitle: p.text(entry.modal),
	}, true
}

// TimelineCaption returns the caption for a status change event in the request timeline.
func (p *Presenter) TimelineCaption(status domain.RequestStatus) (string, bool) {
	text, ok := timelineCaptions[domain.NormalizeRequestStatus(string(status))]
	if !ok {
		return "", false
	}
	return p.text(text), true
}

// TypeLabel returns the label of a request type.
func (p *Presenter) TypeLabel(requestType string) (TypeLabel, bool) {
	entry, ok := typeLabels[strings.ToLower(strings.TrimSpace(requestType))]
	if !ok {
		return TypeLabel{}, false
	}
	return TypeLabel{Icon: entry.icon, Label: p.text(entry.label)}, true
}
