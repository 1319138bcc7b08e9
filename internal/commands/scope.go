package commands

import (
	"context"
	"strings"
	"time"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-curations/internal/logging"
	"github.com/goliatone/go-curations/pkg/interfaces"
)

// DefaultCommandTimeout bounds a curation command. Commands wrap at most a
// fetch and a write against the curations API.
const DefaultCommandTimeout = 20 * time.Second

const commandModule = "curations.commands"

// RecordScoped is implemented by messages that act on a single record. Their
// record ID is attached to every log entry of the execution.
type RecordScoped interface {
	RecordRef() string
}

// CommandLogger returns the logger shared by the handlers of a command group.
func CommandLogger(provider interfaces.LoggerProvider, group string) interfaces.Logger {
	group = strings.TrimSpace(group)
	if group == "" {
		group = "curation"
	}
	return logging.WithFields(logging.ModuleLogger(provider, commandModule+"."+group), map[string]any{
		"component":     "command",
		"command_group": group,
	})
}

// executionScope derives the context a command runs under and the fields its
// log entries carry. A timeout of zero leaves ctx unbounded.
func executionScope[T command.Message](ctx context.Context, msg T, operation string, timeout time.Duration) (context.Context, context.CancelFunc, map[string]any) {
	if ctx == nil {
		ctx = context.Background()
	}
	fields := map[string]any{
		"command":   command.GetMessageType(msg),
		"operation": operation,
	}
	if scoped, ok := any(msg).(RecordScoped); ok {
		fields["record_id"] = scoped.RecordRef()
	}
	if timeout <= 0 {
		return ctx, func() {}, fields
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, cancel, fields
}

func loggerOrNoOp(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return logging.NoOp()
	}
	return logger
}
