package logging

import (
	"context"
	"maps"

	"github.com/goliatone/go-curations/pkg/interfaces"
)

type contextKey string

const contextFieldsKey contextKey = "curations.logging.fields"

// ContextWithFields returns a context carrying structured logging fields.
// Existing fields on the context are preserved and merged with the provided values.
func ContextWithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil || len(fields) == 0 {
		return ctx
	}

	merged := ContextFields(ctx)
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	maps.Copy(merged, fields)
	return context.WithValue(ctx, contextFieldsKey, merged)
}

// ContextFields extracts previously annotated logging fields from the context.
// The returned map is a copy.
func ContextFields(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, ok := ctx.Value(contextFieldsKey).(map[string]any)
	if !ok || len(fields) == 0 {
		return nil
	}
	return maps.Clone(fields)
}

// FromContext binds the context and any annotated fields to the logger.
func FromContext(ctx context.Context, logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		logger = NoOp()
	}
	if ctx == nil {
		return logger
	}
	return WithFields(logger.WithContext(ctx), ContextFields(ctx))
}
