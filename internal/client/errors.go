package client

import (
	"errors"
	"fmt"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

var (
	ErrRecordIDRequired    = errors.New("client: record id required")
	ErrResubmitUnavailable = errors.New("client: request does not offer a resubmit action")
	ErrUnexpectedStatus    = errors.New("client: unexpected response status")
	ErrOpenRequestExists   = errors.New("client: an open curation request already exists")
	ErrRequestNotFound     = errors.New("client: curation request not found")
	ErrInvalidTransition   = errors.New("client: action not allowed for the request status")
	ErrMalformedResponse   = errors.New("client: malformed response body")
	ErrRoutesNotConfigured = errors.New("client: route set not configured")
)

const (
	transportFailedCode   = "CURATIONS_TRANSPORT_FAILED"
	unexpectedStatusCode  = "CURATIONS_UNEXPECTED_STATUS"
	requestNotFoundCode   = "CURATIONS_REQUEST_NOT_FOUND"
	requestConflictCode   = "CURATIONS_REQUEST_CONFLICT"
	malformedResponseCode = "CURATIONS_MALFORMED_RESPONSE"
)

// APIError carries the error payload returned by the curations API.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"error"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("curations api: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("curations api: %d %s", e.StatusCode, e.Message)
}

func wrapTransportError(err error, op string) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryExternal, op+" request failed").
		WithTextCode(transportFailedCode)
}

func wrapDecodeError(err error, op string) error {
	return goerrors.Wrap(fmt.Errorf("%w: %v", ErrMalformedResponse, err), goerrors.CategoryExternal, op+" response could not be decoded").
		WithTextCode(malformedResponseCode)
}

// wrapStatusError maps a non-2xx API response to a categorised error.
func wrapStatusError(apiErr *APIError, op string) error {
	switch apiErr.StatusCode {
	case http.StatusNotFound:
		return goerrors.Wrap(fmt.Errorf("%w: %w", ErrRequestNotFound, apiErr), goerrors.CategoryNotFound, op+" target not found").
			WithTextCode(requestNotFoundCode)
	case http.StatusConflict:
		return goerrors.Wrap(fmt.Errorf("%w: %w", ErrInvalidTransition, apiErr), goerrors.CategoryConflict, op+" conflicts with request status").
			WithTextCode(requestConflictCode)
	case http.StatusBadRequest:
		if apiErr.Code == "open_request_exists" {
			return goerrors.Wrap(fmt.Errorf("%w: %w", ErrOpenRequestExists, apiErr), goerrors.CategoryConflict, op+" rejected").
				WithTextCode(requestConflictCode)
		}
	}
	return goerrors.Wrap(fmt.Errorf("%w: %w", ErrUnexpectedStatus, apiErr), goerrors.CategoryExternal, op+" returned an error status").
		WithTextCode(unexpectedStatusCode)
}
