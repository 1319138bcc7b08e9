package curation

import "github.com/goliatone/go-curations/internal/domain"

// ActionKind identifies the single action control presented for a deposit.
type ActionKind string

const (
	ActionPublish           ActionKind = "publish"
	ActionResubmitPublished ActionKind = "resubmit_published"
	ActionCreateRequest     ActionKind = "create_request"
	ActionResubmit          ActionKind = "resubmit"
	ActionViewRequest       ActionKind = "view_request"
)

// Interactive reports whether the action triggers a request call rather than
// navigation or the repository's own publish flow.
func (k ActionKind) Interactive() bool {
	switch k {
	case ActionCreateRequest, ActionResubmit, ActionResubmitPublished:
		return true
	default:
		return false
	}
}

// ActorContext describes the acting user, as reported by the publishing-data endpoint.
type ActorContext struct {
	IsAdmin         bool `json:"is_admin"`
	IsPrivileged    bool `json:"is_privileged"`
	PublishingEdits bool `json:"publishing_edits"`
}

// ActionSpec describes the action control to render.
type ActionSpec struct {
	Kind    ActionKind   `json:"kind"`
	Enabled bool         `json:"enabled"`
	Label   string       `json:"label"`
	Tooltip string       `json:"tooltip,omitempty"`
	Icon    string       `json:"icon,omitempty"`
	Href    string       `json:"href,omitempty"`
	Badge   *StatusBadge `json:"badge,omitempty"`
}

var (
	publishLabel           = Text{"curation.action.publish", "Publish"}
	createLabel            = Text{"curation.action.create", "Start publication process"}
	createDisabledTooltip  = Text{"curation.action.create.disabled", "Before creating a curation request, the draft has to be saved."}
	resubmitLabel          = Text{"curation.action.resubmit", "Resubmit updated record"}
	resubmitPublishedLabel = Text{"curation.action.resubmit_published", "Resubmit published record"}
	resubmitPublishedHelp  = Text{"curation.action.resubmit_published.tooltip", "Your edits to the published record must be reviewed again before they can be published."}
	resubmitDisabledTip    = Text{"curation.action.resubmit.disabled", "Before resubmitting the curation request, the draft has to be saved."}
	viewLabel              = Text{"curation.action.view", "View request"}
)

const (
	requestIcon = "paper hand outline"
	viewIcon    = "right arrow"
)

// ResolveAction selects the action with English labels.
func ResolveAction(record Record, request *Request, actor ActorContext) ActionSpec {
	return defaultPresenter.ResolveAction(record, request, actor)
}

// ResolveAction selects the single action to present. Administrators always
// get Publish. A published record awaiting resubmission gets the dedicated
// resubmit action when edits after publishing are not allowed. Otherwise the
// request status decides.
func (p *Presenter) ResolveAction(record Record, request *Request, actor ActorContext) ActionSpec {
	if actor.IsAdmin {
		return p.publish()
	}

	status := request.NormalizedStatus()
	if record.IsPublished && !actor.PublishingEdits && request != nil && status == domain.RequestStatusPendingResubmission {
		spec := p.gated(ActionResubmitPublished, resubmitPublishedLabel, record.Curateable(), resubmitDisabledTip)
		if spec.Enabled {
			spec.Tooltip = p.text(resubmitPublishedHelp)
		}
		return spec
	}

	if request == nil {
		return p.gated(ActionCreateRequest, createLabel, record.Curateable(), createDisabledTooltip)
	}

	switch status {
	case domain.RequestStatusAccepted:
		return p.publish()
	case domain.RequestStatusCritiqued:
		return p.gated(ActionResubmit, resubmitLabel, record.Curateable(), resubmitDisabledTip)
	default:
		badge := p.StatusBadge(status)
		return ActionSpec{
			Kind:    ActionViewRequest,
			Enabled: true,
			Label:   p.text(viewLabel),
			Icon:    viewIcon,
			Href:    p.requestURL(request.ID),
			Badge:   &badge,
		}
	}
}

func (p *Presenter) publish() ActionSpec {
	return ActionSpec{Kind: ActionPublish, Enabled: true, Label: p.text(publishLabel)}
}

func (p *Presenter) gated(kind ActionKind, label Text, enabled bool, disabledTip Text) ActionSpec {
	spec := ActionSpec{
		Kind:    kind,
		Enabled: enabled,
		Label:   p.text(label),
		Icon:    requestIcon,
	}
	if !enabled {
		spec.Tooltip = p.text(disabledTip)
	}
	return spec
}
