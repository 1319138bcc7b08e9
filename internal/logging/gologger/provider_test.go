package gologger

import (
	"context"
	"testing"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-curations/internal/runtimeconfig"
	"github.com/goliatone/go-curations/pkg/interfaces"
)

func TestNewProviderFromRuntimeConfig(t *testing.T) {
	runtime := runtimeconfig.DefaultConfig().Logging
	runtime.Level = "debug"
	runtime.Focus = []string{" curations.poller ", ""}

	cfg := FromRuntime(runtime)
	if len(cfg.Focus) != 2 {
		t.Fatalf("expected focus copied verbatim, got %v", cfg.Focus)
	}

	p, err := NewProvider(cfg)
	if err != nil {
		t.Fatalf("NewProvider returned error: %v", err)
	}

	logger := p.GetLogger("curations.poller")
	if logger == nil {
		t.Fatal("expected logger, got nil")
	}
	if again := p.GetLogger("curations.poller"); again != logger {
		t.Fatalf("expected cached child logger")
	}

	logger.(interfaces.FieldsLogger).WithFields(map[string]any{"record_id": "abc12"}).Debug("poller.tick")
}

func TestNewProviderRejectsUnknownFormat(t *testing.T) {
	if _, err := NewProvider(Config{Format: "xml"}); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestNilProviderReturnsNoOp(t *testing.T) {
	var p *Provider
	logger := p.GetLogger("curations")
	if logger == nil {
		t.Fatalf("expected noop logger")
	}
	logger.Info("ignored")
}

func TestAdapterDelegatesToUnderlyingLogger(t *testing.T) {
	stub := &stubLogger{}
	adapted := adapt(stub)

	adapted.Trace("trace", "key", "value")
	adapted.Debug("debug")
	adapted.Info("info")
	adapted.Warn("warn")
	adapted.Error("error")
	adapted.Fatal("fatal")

	fields := map[string]any{"request_status": "submitted"}
	if child := adapted.(interfaces.FieldsLogger).WithFields(fields); child == nil {
		t.Fatal("expected WithFields to return logger")
	}
	fields["request_status"] = "accepted"
	if len(stub.fields) != 1 {
		t.Fatalf("expected fields to be recorded once, got %d", len(stub.fields))
	}
	if stub.fields[0]["request_status"] != "submitted" {
		t.Fatalf("expected fields to be cloned, got %v", stub.fields[0]["request_status"])
	}

	if same := adapted.(interfaces.FieldsLogger).WithFields(nil); same != adapted {
		t.Fatalf("expected empty fields to return the same logger")
	}

	ctx := context.WithValue(context.Background(), struct{}{}, "value")
	adapted.WithContext(ctx)
	if len(stub.contexts) != 1 || stub.contexts[0] != ctx {
		t.Fatalf("expected context propagation, got %#v", stub.contexts)
	}

	wantCalls := []string{"trace", "debug", "info", "warn", "error", "fatal"}
	if len(stub.calls) != len(wantCalls) {
		t.Fatalf("expected %d calls, got %d", len(wantCalls), len(stub.calls))
	}
	for i, want := range wantCalls {
		if stub.calls[i] != want {
			t.Fatalf("call %d: expected %q, got %q", i, want, stub.calls[i])
		}
	}
}

type stubLogger struct {
	calls    []string
	fields   []map[string]any
	contexts []context.Context
}

var _ glog.Logger = (*stubLogger)(nil)
var _ glog.FieldsLogger = (*stubLogger)(nil)

func (s *stubLogger) Trace(string, ...any) { s.calls = append(s.calls, "trace") }
func (s *stubLogger) Debug(string, ...any) { s.calls = append(s.calls, "debug") }
func (s *stubLogger) Info(string, ...any)  { s.calls = append(s.calls, "info") }
func (s *stubLogger) Warn(string, ...any)  { s.calls = append(s.calls, "warn") }
func (s *stubLogger) Error(string, ...any) { s.calls = append(s.calls, "error") }
func (s *stubLogger) Fatal(string, ...any) { s.calls = append(s.calls, "fatal") }

func (s *stubLogger) WithContext(ctx context.Context) glog.Logger {
	s.contexts = append(s.contexts, ctx)
	return s
}

func (s *stubLogger) WithFields(fields map[string]any) glog.Logger {
	s.fields = append(s.fields, fields)
	return s
}
