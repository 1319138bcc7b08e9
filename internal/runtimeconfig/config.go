package runtimeconfig

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	slug "github.com/goliatone/go-slug"
	urlkit "github.com/goliatone/go-urlkit"
	"gopkg.in/yaml.v3"
)

var ErrAPIBaseURLRequired = errors.New("curations config: api base url is required")
var ErrAPIBaseURLInvalid = errors.New("curations config: api base url is invalid")
var ErrPollingIntervalInvalid = errors.New("curations config: polling intervals must be positive")
var ErrOverlapPolicyUnknown = errors.New("curations config: overlap policy is invalid")
var ErrModerationRoleRequired = errors.New("curations config: moderation role is required")
var ErrTimelinePageSizeInvalid = errors.New("curations config: timeline page size must be positive")
var ErrLoggingProviderRequired = errors.New("curations config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("curations config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("curations config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("curations config: logging format is invalid")
var ErrServerAddressRequired = errors.New("curations config: server address is required when the api server is enabled")

const (
	// OverlapCoalesce merges concurrent fetches of the same topic into one request.
	OverlapCoalesce = "coalesce"
	// OverlapAllow lets concurrent fetches run side by side.
	OverlapAllow = "allow"
)

const (
	// DefaultRequestType identifies the curation request type on the server.
	DefaultRequestType = "rdm-curation"
	// DefaultModerationRole names the group that receives curation requests.
	DefaultModerationRole = "administration-rdm-records-curation"
)

// Config aggregates the options of the curations client, poller, and reference API.
type Config struct {
	API       APIConfig       `yaml:"api"`
	Polling   PollingConfig   `yaml:"polling"`
	Curations CurationsConfig `yaml:"curations"`
	Routes    RoutesConfig    `yaml:"routes"`
	Server    ServerConfig    `yaml:"server"`
	I18N      I18NConfig      `yaml:"i18n"`
	Logging   LoggingConfig   `yaml:"logging"`
	Workflow  WorkflowConfig  `yaml:"workflow"`
	Features  Features        `yaml:"features"`
}

// APIConfig configures the REST client talking to the curations endpoint.
type APIConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
	Token     string        `yaml:"token"`
}

// PollingConfig configures the request poller timers.
type PollingConfig struct {
	RecordIDInterval time.Duration `yaml:"record_id_interval"`
	RefreshInterval  time.Duration `yaml:"refresh_interval"`
	Overlap          string        `yaml:"overlap"`
}

// CurationsConfig mirrors the server-side curation settings.
type CurationsConfig struct {
	RequestType          string `yaml:"request_type"`
	ModerationRole       string `yaml:"moderation_role"`
	AllowPublishingEdits bool   `yaml:"allow_publishing_edits"`
	TimelinePageSize     int    `yaml:"timeline_page_size"`
	AutoSubmit           bool   `yaml:"auto_submit"`
}

// RoutesConfig captures the go-urlkit route groups used to build API and UI links.
// The "api" group must declare the curations routes, the "ui" group the request page.
type RoutesConfig struct {
	RouteConfig *urlkit.Config `yaml:"-"`
}

// ServerConfig configures the reference API server.
type ServerConfig struct {
	Address         string        `yaml:"address"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	Actor           ActorConfig   `yaml:"actor"`
}

// ActorConfig describes the acting user reported by the publishing-data endpoint.
type ActorConfig struct {
	ID           string `yaml:"id"`
	IsAdmin      bool   `yaml:"is_admin"`
	IsPrivileged bool   `yaml:"is_privileged"`
}

// I18NConfig selects the locale used for labels and tooltips.
type I18NConfig struct {
	Locale string `yaml:"locale"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// WorkflowConfig allows replacing the built-in request workflow.
type WorkflowConfig struct {
	Definitions []WorkflowDefinitionConfig `yaml:"definitions"`
}

// WorkflowDefinitionConfig declares the statuses and actions of a request type.
type WorkflowDefinitionConfig struct {
	RequestType string                     `yaml:"request_type"`
	States      []WorkflowStateConfig      `yaml:"states"`
	Transitions []WorkflowTransitionConfig `yaml:"transitions"`
}

// WorkflowStateConfig declares a single request status.
type WorkflowStateConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Initial     bool   `yaml:"initial"`
	Terminal    bool   `yaml:"terminal"`
}

// WorkflowTransitionConfig declares an action between two statuses.
type WorkflowTransitionConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	From        string `yaml:"from"`
	To          string `yaml:"to"`
}

// Features toggles module functionality.
type Features struct {
	Logger bool `yaml:"logger"`
	Server bool `yaml:"server"`
}

// DefaultConfig returns defaults matching the deposit form behaviour.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL:   "http://localhost:5000",
			Timeout:   10 * time.Second,
			UserAgent: "go-curations",
		},
		Polling: PollingConfig{
			RecordIDInterval: time.Second,
			RefreshInterval:  10 * time.Second,
			Overlap:          OverlapCoalesce,
		},
		Curations: CurationsConfig{
			RequestType:      DefaultRequestType,
			ModerationRole:   DefaultModerationRole,
			TimelinePageSize: 15,
			AutoSubmit:       true,
		},
		Server: ServerConfig{
			Address:         ":5000",
			ShutdownTimeout: 5 * time.Second,
		},
		I18N: I18NConfig{
			Locale: "en",
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "console",
		},
	}
}

// LoadFile reads a YAML configuration file on top of DefaultConfig.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("curations config: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("curations config: decode %q: %w", path, err)
	}
	return cfg, nil
}

// Normalize returns a copy with trimmed values and the moderation role in slug form.
func (cfg Config) Normalize() Config {
	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.API.BaseURL), "/")
	cfg.Polling.Overlap = strings.ToLower(strings.TrimSpace(cfg.Polling.Overlap))
	if cfg.Polling.Overlap == "" {
		cfg.Polling.Overlap = OverlapCoalesce
	}
	cfg.Curations.RequestType = strings.TrimSpace(cfg.Curations.RequestType)
	if cfg.Curations.RequestType == "" {
		cfg.Curations.RequestType = DefaultRequestType
	}
	if role := strings.TrimSpace(cfg.Curations.ModerationRole); role != "" {
		if normalized, err := slug.Normalize(role); err == nil && normalized != "" {
			role = normalized
		}
		cfg.Curations.ModerationRole = role
	}
	cfg.I18N.Locale = strings.ToLower(strings.TrimSpace(cfg.I18N.Locale))
	return cfg
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	base := strings.TrimSpace(cfg.API.BaseURL)
	if base == "" {
		return ErrAPIBaseURLRequired
	}
	if parsed, err := url.Parse(base); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("%w: %s", ErrAPIBaseURLInvalid, base)
	}
	if cfg.Polling.RecordIDInterval <= 0 || cfg.Polling.RefreshInterval <= 0 {
		return ErrPollingIntervalInvalid
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Polling.Overlap)) {
	case "", OverlapCoalesce, OverlapAllow:
	default:
		return fmt.Errorf("%w: %s", ErrOverlapPolicyUnknown, cfg.Polling.Overlap)
	}
	if strings.TrimSpace(cfg.Curations.ModerationRole) == "" {
		return ErrModerationRoleRequired
	}
	if cfg.Curations.TimelinePageSize <= 0 {
		return fmt.Errorf("%w: %d", ErrTimelinePageSizeInvalid, cfg.Curations.TimelinePageSize)
	}
	if cfg.Features.Server && strings.TrimSpace(cfg.Server.Address) == "" {
		return ErrServerAddressRequired
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

// DefaultRoutes returns the route groups matching the curations REST API and
// the request detail page, rooted at the supplied base URL.
func DefaultRoutes(baseURL string) *urlkit.Config {
	return &urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    "api",
				BaseURL: baseURL,
				Paths: map[string]string{
					"curations":       "/api/curations",
					"curation":        "/api/curations/:id",
					"action":          "/api/curations/:id/actions/:action",
					"timeline":        "/api/curations/:id/timeline",
					"publishing_data": "/api/curations/publishing-data",
				},
			},
			{
				Name:    "ui",
				BaseURL: baseURL,
				Paths: map[string]string{
					"request": "/me/requests/:id",
				},
			},
		},
	}
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	return provider == "gologger"
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
