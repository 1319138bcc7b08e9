package domain

import "strings"

// RequestStatus represents the lifecycle stage of a curation request.
type RequestStatus string

const (
	RequestStatusCreated             RequestStatus = "created"
	RequestStatusSubmitted           RequestStatus = "submitted"
	RequestStatusReview              RequestStatus = "review"
	RequestStatusCritiqued           RequestStatus = "critiqued"
	RequestStatusResubmitted         RequestStatus = "resubmitted"
	RequestStatusPendingResubmission RequestStatus = "pending_resubmission"
	RequestStatusAccepted            RequestStatus = "accepted"
	RequestStatusDeclined            RequestStatus = "declined"
	RequestStatusCancelled           RequestStatus = "cancelled"
	RequestStatusExpired             RequestStatus = "expired"
)

// KnownRequestStatuses lists the statuses the curation request type declares.
func KnownRequestStatuses() []RequestStatus {
	return []RequestStatus{
		RequestStatusCreated,
		RequestStatusSubmitted,
		RequestStatusReview,
		RequestStatusCritiqued,
		RequestStatusResubmitted,
		RequestStatusPendingResubmission,
		RequestStatusAccepted,
		RequestStatusDeclined,
		RequestStatusCancelled,
		RequestStatusExpired,
	}
}

// NormalizeRequestStatus lower-cases and trims the supplied value. Values the
// server invents are preserved verbatim so callers can still route them to a
// fallback instead of rejecting them.
func NormalizeRequestStatus(input string) RequestStatus {
	return RequestStatus(strings.ToLower(strings.TrimSpace(input)))
}

// Known reports whether the status is one of the declared request statuses.
func (s RequestStatus) Known() bool {
	for _, candidate := range KnownRequestStatuses() {
		if s == candidate {
			return true
		}
	}
	return false
}

// Open reports whether a request in this status still gates the record.
// Accepted requests stay open until the record is published and may be
// reopened for resubmission afterwards.
func (s RequestStatus) Open() bool {
	switch s {
	case RequestStatusDeclined, RequestStatusCancelled, RequestStatusExpired:
		return false
	default:
		return true
	}
}

// RecordStatus represents the deposit state of a record as reported by the repository.
type RecordStatus string

const (
	// RecordStatusDraft is a draft that was never submitted for review
	RecordStatusDraft RecordStatus = "draft"
	// RecordStatusDraftWithReview is a draft attached to a review request
	RecordStatusDraftWithReview RecordStatus = "draft_with_review"
	// RecordStatusPublished is an immutable published record
	RecordStatusPublished RecordStatus = "published"
	// RecordStatusNewVersionDraft is a draft created from a published record
	RecordStatusNewVersionDraft RecordStatus = "new_version_draft"
)

// NormalizeRecordStatus coerces arbitrary record status strings, defaulting to draft.
func NormalizeRecordStatus(input string) RecordStatus {
	trimmed := strings.ToLower(strings.TrimSpace(input))
	if trimmed == "" {
		return RecordStatusDraft
	}
	return RecordStatus(trimmed)
}
