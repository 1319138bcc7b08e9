package logging

import (
	"strings"

	"github.com/goliatone/go-curations/pkg/interfaces"
)

// WithFields binds fields when the logger implements interfaces.FieldsLogger.
// Nil values and blank strings are dropped; a logger is returned unchanged
// when nothing is left to bind.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil {
		return nil
	}
	fieldsLogger, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		return logger
	}

	kept := make(map[string]any, len(fields))
	for key, value := range fields {
		switch v := value.(type) {
		case nil:
			continue
		case string:
			if v = strings.TrimSpace(v); v == "" {
				continue
			}
			kept[key] = v
		default:
			kept[key] = value
		}
	}
	if len(kept) == 0 {
		return logger
	}
	return fieldsLogger.WithFields(kept)
}

// WithRequestContext tags entries with the record, request and request status
// they concern.
func WithRequestContext(logger interfaces.Logger, recordID, requestID, status string) interfaces.Logger {
	return WithFields(logger, map[string]any{
		fieldRecordID:  recordID,
		fieldRequestID: requestID,
		fieldStatus:    status,
	})
}
