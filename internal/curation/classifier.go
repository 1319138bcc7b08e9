package curation

import "github.com/goliatone/go-curations/internal/domain"

// StatusKind identifies the display status a record was classified into.
type StatusKind string

const (
	StatusDraft          StatusKind = "draft"
	StatusPublished      StatusKind = "published"
	StatusReadyForReview StatusKind = "ready_for_review"
	StatusUnderReview    StatusKind = "under_review"
	StatusReadyToPublish StatusKind = "ready_to_publish"
	StatusDeclined       StatusKind = "declined"
	StatusNeedsRevision  StatusKind = "needs_revision"
)

// DisplayStatus is the derived status shown next to a deposit. It is never stored.
type DisplayStatus struct {
	Kind    StatusKind `json:"kind"`
	Icon    string     `json:"icon"`
	Color   string     `json:"color"`
	Label   string     `json:"label"`
	Tooltip string     `json:"tooltip"`
}

type statusPresentation struct {
	kind    StatusKind
	icon    string
	color   string
	label   Text
	tooltip Text
}

var publishedStatus = statusPresentation{
	kind:    StatusPublished,
	icon:    "check circle",
	color:   "green",
	label:   Text{"curation.status.published", "Published"},
	tooltip: Text{"curation.status.published.tooltip", "This record is published."},
}

var draftStatus = statusPresentation{
	kind:  StatusDraft,
	icon:  "circle",
	color: "grey",
	label: Text{"curation.status.draft", "Draft"},
}

var (
	draftInvalidTooltip = Text{"curation.status.draft.tooltip.invalid", "Please fill in all required fields before submitting for review."}
	draftReadyTooltip   = Text{"curation.status.draft.tooltip.ready", "Once your upload is complete, you can submit it for review to the global repository curators."}
)

// reviewStatuses maps the request statuses that change the display of a
// draft under review. Statuses missing here fall back to Draft.
var reviewStatuses = map[domain.RequestStatus]statusPresentation{
	domain.RequestStatusCreated: {
		kind:    StatusReadyForReview,
		icon:    "clock",
		color:   "blue",
		label:   Text{"curation.status.ready_for_review", "Ready for Review"},
		tooltip: Text{"curation.status.ready_for_review.tooltip", "Your record is ready to be submitted for review."},
	},
	domain.RequestStatusSubmitted: {
		kind:    StatusUnderReview,
		icon:    "clock",
		color:   "yellow",
		label:   Text{"curation.status.under_review", "Under Review"},
		tooltip: Text{"curation.status.under_review.tooltip", "This record is being reviewed by curators."},
	},
	domain.RequestStatusAccepted: {
		kind:    StatusReadyToPublish,
		icon:    "check",
		color:   "green",
		label:   Text{"curation.status.ready_to_publish", "Ready to Publish"},
		tooltip: Text{"curation.status.ready_to_publish.tooltip", "Once accepted, you can publish the record yourself."},
	},
	domain.RequestStatusDeclined: {
		kind:    StatusDeclined,
		icon:    "times",
		color:   "red",
		label:   Text{"curation.status.declined", "Declined"},
		tooltip: Text{"curation.status.declined.tooltip", "This record has been declined. Please check the curation request for details."},
	},
	domain.RequestStatusCritiqued: {
		kind:    StatusNeedsRevision,
		icon:    "exclamation",
		color:   "orange",
		label:   Text{"curation.status.needs_revision", "Needs revision"},
		tooltip: Text{"curation.status.needs_revision.tooltip", "This record needs revision. Please check the curation request for details."},
	},
}

// Classify derives the display status with English labels.
func Classify(record Record, request *Request) DisplayStatus {
	return defaultPresenter.Classify(record, request)
}

// Classify derives the display status of a record. The first matching rule wins:
// published records, then drafts under review with a request and no
// validation errors, then Draft.
func (p *Presenter) Classify(record Record, request *Request) DisplayStatus {
	if record.IsPublished {
		return p.render(publishedStatus, publishedStatus.tooltip)
	}

	invalid := record.HasValidationErrors()
	if domain.NormalizeRecordStatus(string(record.Status)) == domain.RecordStatusDraftWithReview && request != nil && !invalid {
		if presentation, ok := reviewStatuses[request.NormalizedStatus()]; ok {
			return p.render(presentation, presentation.tooltip)
		}
	}

	if invalid {
		return p.render(draftStatus, draftInvalidTooltip)
	}
	return p.render(draftStatus, draftReadyTooltip)
}

func (p *Presenter) render(presentation statusPresentation, tooltip Text) DisplayStatus {
	return DisplayStatus{
		Kind:    presentation.kind,
		Icon:    presentation.icon,
		Color:   presentation.color,
		Label:   p.text(presentation.label),
		Tooltip: p.text(tooltip),
	}
}
