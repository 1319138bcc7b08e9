// Package gologger adapts github.com/goliatone/go-logger to the curations
// logging contracts.
package gologger

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"sync"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-curations/internal/logging"
	"github.com/goliatone/go-curations/internal/runtimeconfig"
	"github.com/goliatone/go-curations/pkg/interfaces"
)

// Config captures the options exposed by the go-logger adapter.
type Config struct {
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// FromRuntime maps the runtime logging section onto the adapter config.
func FromRuntime(cfg runtimeconfig.LoggingConfig) Config {
	return Config{
		Level:     cfg.Level,
		Format:    cfg.Format,
		AddSource: cfg.AddSource,
		Focus:     append([]string(nil), cfg.Focus...),
	}
}

var formats = map[string]glog.Option{
	"":        glog.WithLoggerTypeJSON(),
	"json":    glog.WithLoggerTypeJSON(),
	"console": glog.WithLoggerTypeConsole(),
	"pretty":  glog.WithLoggerTypePretty(),
}

var levels = map[string]string{
	"trace":   glog.Trace,
	"debug":   glog.Debug,
	"info":    glog.Info,
	"warn":    glog.Warn,
	"warning": glog.Warn,
	"error":   glog.Error,
	"fatal":   glog.Fatal,
}

// Provider hands out named go-logger children. Names are cached so repeated
// lookups for the same module share one child.
type Provider struct {
	root     *glog.BaseLogger
	mu       sync.Mutex
	children map[string]interfaces.Logger
}

// NewProvider constructs a logger provider backed by go-logger.
func NewProvider(cfg Config) (*Provider, error) {
	format := strings.ToLower(strings.TrimSpace(cfg.Format))
	formatOption, ok := formats[format]
	if !ok {
		return nil, fmt.Errorf("logging: unsupported go-logger format %q", cfg.Format)
	}

	options := []glog.Option{formatOption}
	if level, ok := levels[strings.ToLower(strings.TrimSpace(cfg.Level))]; ok {
		options = append(options, glog.WithLevel(level))
	}
	if cfg.AddSource {
		options = append(options, glog.WithAddSource(true))
	}

	root := glog.NewLogger(options...)
	if focus := trimmedNames(cfg.Focus); len(focus) > 0 {
		root.Focus(focus...)
	}

	return &Provider{root: root, children: map[string]interfaces.Logger{}}, nil
}

// GetLogger satisfies interfaces.LoggerProvider.
func (p *Provider) GetLogger(name string) interfaces.Logger {
	if p == nil || p.root == nil {
		return logging.NoOp()
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return adapt(p.root)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if cached, ok := p.children[name]; ok {
		return cached
	}
	child := adapt(p.root.GetLogger(name))
	p.children[name] = child
	return child
}

func adapt(inner glog.Logger) interfaces.Logger {
	if inner == nil {
		return logging.NoOp()
	}
	return &loggerAdapter{inner: inner}
}

type loggerAdapter struct {
	inner glog.Logger
}

func (l *loggerAdapter) Trace(msg string, args ...any) { l.inner.Trace(msg, args...) }
func (l *loggerAdapter) Debug(msg string, args ...any) { l.inner.Debug(msg, args...) }
func (l *loggerAdapter) Info(msg string, args ...any)  { l.inner.Info(msg, args...) }
func (l *loggerAdapter) Warn(msg string, args ...any)  { l.inner.Warn(msg, args...) }
func (l *loggerAdapter) Error(msg string, args ...any) { l.inner.Error(msg, args...) }
func (l *loggerAdapter) Fatal(msg string, args ...any) { l.inner.Fatal(msg, args...) }

// WithFields attaches a copy of fields when the backend supports structured
// fields. Backends without field support keep logging unchanged.
func (l *loggerAdapter) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	fieldsLogger, ok := l.inner.(glog.FieldsLogger)
	if !ok {
		return l
	}
	return adapt(fieldsLogger.WithFields(maps.Clone(fields)))
}

func (l *loggerAdapter) WithContext(ctx context.Context) interfaces.Logger {
	if ctx == nil {
		return l
	}
	return adapt(l.inner.WithContext(ctx))
}

func trimmedNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
