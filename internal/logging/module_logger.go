package logging

import (
	"context"

	"github.com/goliatone/go-curations/pkg/interfaces"
)

const (
	rootModule      = "curations"
	pollerModule    = "curations.poller"
	clientModule    = "curations.client"
	apiModule       = "curations.api"
	requestsModule  = "curations.requests"
	schedulerModule = "curations.scheduler"
)

const (
	fieldRecordID  = "record_id"
	fieldRequestID = "request_id"
	fieldStatus    = "request_status"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// PollerLogger returns the logger namespace reserved for request pollers.
func PollerLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, pollerModule)
}

// ClientLogger returns the logger namespace reserved for the REST client.
func ClientLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, clientModule)
}

// APILogger returns the logger namespace reserved for the HTTP API.
func APILogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, apiModule)
}

// RequestsLogger returns the logger namespace reserved for the request service.
func RequestsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, requestsModule)
}

// SchedulerLogger returns the logger namespace reserved for repeating tasks.
func SchedulerLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, schedulerModule)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
