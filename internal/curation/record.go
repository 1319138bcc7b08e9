package curation

import (
	"slices"
	"strings"
	"time"

	"github.com/goliatone/go-curations/internal/domain"
)

// FieldError is a validation error reported by the repository for a record field.
type FieldError struct {
	Field    string   `json:"field"`
	Messages []string `json:"messages,omitempty"`
}

// Files describes the attachment state of a record.
type Files struct {
	Enabled bool `json:"enabled"`
	Count   int  `json:"count"`
}

// UIState carries form-level flags reported by the deposit form.
type UIState struct {
	ValidationErrors bool `json:"validation_errors"`
}

// Record is a snapshot of a deposit as seen by the curation workflow. Values
// are treated as immutable: the With* helpers return modified copies.
type Record struct {
	ID                string              `json:"id,omitempty"`
	IsPublished       bool                `json:"is_published"`
	Status            domain.RecordStatus `json:"status"`
	UI                UIState             `json:"ui"`
	Errors            []FieldError        `json:"errors,omitempty"`
	Files             Files               `json:"files"`
	SavedSuccessfully bool                `json:"saved_successfully"`
	Updated           time.Time           `json:"updated"`
}

// HasValidationErrors reports whether the form flagged errors, the record
// carries field errors, or files are required but none are attached.
func (r Record) HasValidationErrors() bool {
	return r.UI.ValidationErrors ||
		len(r.Errors) > 0 ||
		(r.Files.Enabled && r.Files.Count == 0)
}

// Curateable reports whether the record can take part in a curation request:
// it has been persisted and the last save did not fail.
func (r Record) Curateable() bool {
	return r.Persisted() && r.SavedSuccessfully
}

// Persisted reports whether the record has an identifier.
func (r Record) Persisted() bool {
	return strings.TrimSpace(r.ID) != ""
}

// Topic returns the request topic reference, "record:{id}".
func (r Record) Topic() string {
	if !r.Persisted() {
		return ""
	}
	return "record:" + strings.TrimSpace(r.ID)
}

// WithID returns a copy carrying the supplied identifier.
func (r Record) WithID(id string) Record {
	next := r.clone()
	next.ID = strings.TrimSpace(id)
	return next
}

// WithSaveFeedback returns a copy reflecting the outcome of a save. A zero
// timestamp leaves Updated untouched.
func (r Record) WithSaveFeedback(ok bool, at time.Time) Record {
	next := r.clone()
	next.SavedSuccessfully = ok
	if !at.IsZero() {
		next.Updated = at
	}
	return next
}

// WithErrors returns a copy carrying the supplied field errors.
func (r Record) WithErrors(errs ...FieldError) Record {
	next := r.clone()
	next.Errors = slices.Clone(errs)
	return next
}

// WithPublished returns a copy marked as published.
func (r Record) WithPublished(at time.Time) Record {
	next := r.clone()
	next.IsPublished = true
	next.Status = domain.RecordStatusPublished
	if !at.IsZero() {
		next.Updated = at
	}
	return next
}

func (r Record) clone() Record {
	next := r
	if r.Errors != nil {
		next.Errors = make([]FieldError, len(r.Errors))
		for i, fieldErr := range r.Errors {
			next.Errors[i] = FieldError{Field: fieldErr.Field, Messages: slices.Clone(fieldErr.Messages)}
		}
	}
	return next
}
