package curationcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	createCurationRequestMessageType   = "curations.request.create"
	resubmitCurationRequestMessageType = "curations.request.resubmit"
	refreshCurationRequestMessageType  = "curations.request.refresh"
)

// recordIDRule rejects blank record identifiers with a stable error code.
func recordIDRule(code string) validation.Rule {
	return validation.By(func(value any) error {
		if strings.TrimSpace(value.(string)) == "" {
			return validation.NewError(code, "record_id is required")
		}
		return nil
	})
}

// CreateCurationRequestCommand opens a curation request for a saved record,
// reusing the open request when one already exists.
type CreateCurationRequestCommand struct {
	RecordID string `json:"record_id"`
}

// Type implements command.Message.
func (CreateCurationRequestCommand) Type() string { return createCurationRequestMessageType }

// RecordRef implements commands.RecordScoped.
func (m CreateCurationRequestCommand) RecordRef() string { return strings.TrimSpace(m.RecordID) }

func (m CreateCurationRequestCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.RecordID, validation.Required, recordIDRule("curations.request.create.record_id_required")),
	)
}

// ResubmitCurationRequestCommand resubmits the record's request after its
// author addressed the curators' critique.
type ResubmitCurationRequestCommand struct {
	RecordID string `json:"record_id"`
}

// Type implements command.Message.
func (ResubmitCurationRequestCommand) Type() string { return resubmitCurationRequestMessageType }

func (m ResubmitCurationRequestCommand) RecordRef() string { return strings.TrimSpace(m.RecordID) }

func (m ResubmitCurationRequestCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.RecordID, validation.Required, recordIDRule("curations.request.resubmit.record_id_required")),
	)
}

// RefreshCurationRequestCommand refetches the latest request of a record outside the refresh interval.
type RefreshCurationRequestCommand struct {
	RecordID string `json:"record_id"`
}

// Type implements command.Message.
func (RefreshCurationRequestCommand) Type() string { return refreshCurationRequestMessageType }

func (m RefreshCurationRequestCommand) RecordRef() string { return strings.TrimSpace(m.RecordID) }

func (m RefreshCurationRequestCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.RecordID, validation.Required, recordIDRule("curations.request.refresh.record_id_required")),
	)
}
