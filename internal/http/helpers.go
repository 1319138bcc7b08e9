package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goliatone/go-curations/internal/requests"
	"github.com/goliatone/go-curations/internal/validation"
	"github.com/goliatone/go-curations/internal/workflow/simple"
	"github.com/google/uuid"
)

type errorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message,omitempty"`
	Issues  []validation.ValidationIssue `json:"issues,omitempty"`
}

func joinPath(base, suffix string) string {
	trimmedBase := strings.TrimSpace(base)
	trimmedSuffix := strings.TrimSpace(suffix)
	if trimmedBase == "" {
		if trimmedSuffix == "" {
			return "/"
		}
		return "/" + strings.Trim(trimmedSuffix, "/")
	}
	baseClean := "/" + strings.Trim(trimmedBase, "/")
	if trimmedSuffix == "" {
		return baseClean
	}
	return baseClean + "/" + strings.Trim(trimmedSuffix, "/")
}

// readBody returns the raw request body; an absent body reads as "{}".
func readBody(r *http.Request) ([]byte, error) {
	if r == nil || r.Body == nil {
		return []byte("{}"), nil
	}
	defer r.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return []byte("{}"), nil
	}
	return raw, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status, payload := mapError(err)
	writeJSON(w, status, payload)
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	}

	if errors.Is(err, requests.ErrRequestNotFound) || errors.Is(err, simple.ErrUnknownRequestType) {
		return http.StatusNotFound, errorResponse{
			Error:   "not_found",
			Message: err.Error(),
		}
	}

	if errors.Is(err, requests.ErrOpenRequestExists) {
		return http.StatusBadRequest, errorResponse{
			Error:   "open_request_exists",
			Message: err.Error(),
		}
	}

	if errors.Is(err, requests.ErrRequestMissing) {
		return http.StatusNotFound, errorResponse{
			Error:   "missing_request",
			Message: err.Error(),
		}
	}

	if errors.Is(err, requests.ErrRequestNotAccepted) {
		return http.StatusConflict, errorResponse{
			Error:   "not_accepted",
			Message: err.Error(),
		}
	}

	if errors.Is(err, simple.ErrInvalidTransition) || errors.Is(err, requests.ErrRequestClosed) {
		return http.StatusConflict, errorResponse{
			Error:   "invalid_transition",
			Message: err.Error(),
		}
	}

	if errors.Is(err, validation.ErrSchemaValidation) || errors.Is(err, validation.ErrSchemaInvalid) {
		return http.StatusUnprocessableEntity, errorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
			Issues:  validation.Issues(err),
		}
	}

	if errors.Is(err, requests.ErrRecordIDRequired) ||
		errors.Is(err, requests.ErrRequestIDRequired) ||
		errors.Is(err, requests.ErrActionRequired) ||
		errors.Is(err, requests.ErrCommentRequired) ||
		errors.Is(err, requests.ErrTimelinePageInvalid) {
		return http.StatusBadRequest, errorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		}
	}

	return http.StatusInternalServerError, errorResponse{
		Error:   "internal_error",
		Message: err.Error(),
	}
}

func parseUUID(value string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return uuid.Nil, errors.New("uuid required")
	}
	return uuid.Parse(trimmed)
}

func parseBoolQuery(value string, defaultValue bool) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(trimmed)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func parseIntQuery(value string, defaultValue int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return defaultValue
	}
	return parsed
}
