package i18n

import (
	"strings"

	"github.com/goliatone/go-curations/internal/runtimeconfig"
)

type Config struct {
	DefaultLocale string   `json:"default_locale"`
	Locales       []string `json:"locales"`
}

// FromRuntime builds a catalog config whose default locale follows the runtime
// locale when set.
func FromRuntime(cfg runtimeconfig.I18NConfig, base Config) Config {
	if locale := normalizeLocale(cfg.Locale); locale != "" {
		base.DefaultLocale = locale
	}
	return base
}

func normalizeLocale(locale string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(locale)), "_", "-")
}
