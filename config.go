package curations

import "github.com/goliatone/go-curations/internal/runtimeconfig"

var (
	ErrAPIBaseURLRequired      = runtimeconfig.ErrAPIBaseURLRequired
	ErrAPIBaseURLInvalid       = runtimeconfig.ErrAPIBaseURLInvalid
	ErrPollingIntervalInvalid  = runtimeconfig.ErrPollingIntervalInvalid
	ErrOverlapPolicyUnknown    = runtimeconfig.ErrOverlapPolicyUnknown
	ErrModerationRoleRequired  = runtimeconfig.ErrModerationRoleRequired
	ErrTimelinePageSizeInvalid = runtimeconfig.ErrTimelinePageSizeInvalid
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
	ErrServerAddressRequired   = runtimeconfig.ErrServerAddressRequired
)

const (
	OverlapCoalesce = runtimeconfig.OverlapCoalesce
	OverlapAllow    = runtimeconfig.OverlapAllow
)

type (
	Config                   = runtimeconfig.Config
	APIConfig                = runtimeconfig.APIConfig
	PollingConfig            = runtimeconfig.PollingConfig
	CurationsConfig          = runtimeconfig.CurationsConfig
	RoutesConfig             = runtimeconfig.RoutesConfig
	ServerConfig             = runtimeconfig.ServerConfig
	ActorConfig              = runtimeconfig.ActorConfig
	I18NConfig               = runtimeconfig.I18NConfig
	LoggingConfig            = runtimeconfig.LoggingConfig
	WorkflowConfig           = runtimeconfig.WorkflowConfig
	WorkflowDefinitionConfig = runtimeconfig.WorkflowDefinitionConfig
	WorkflowStateConfig      = runtimeconfig.WorkflowStateConfig
	WorkflowTransitionConfig = runtimeconfig.WorkflowTransitionConfig
	Features                 = runtimeconfig.Features
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.LoadFile(path)
}
