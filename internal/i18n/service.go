package i18n

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-curations/pkg/interfaces"
)

var ErrDefaultLocaleRequired = errors.New("i18n: default locale required")

// Catalog is an in-memory translator. Lookups fall back from a regional
// locale to its parent ("de-at" to "de") and then to the default locale.
// Missing keys translate to the key itself.
type Catalog struct {
	defaultLocale string
	entries       map[string]map[string]string
}

var _ interfaces.Translator = (*Catalog)(nil)

// NewCatalog builds a catalog from a locale -> key -> message map.
func NewCatalog(cfg Config, translations map[string]map[string]string) (*Catalog, error) {
	defaultLocale := normalizeLocale(cfg.DefaultLocale)
	if defaultLocale == "" {
		return nil, ErrDefaultLocaleRequired
	}
	entries := make(map[string]map[string]string, len(translations))
	for locale, messages := range translations {
		key := normalizeLocale(locale)
		if key == "" {
			continue
		}
		copied := make(map[string]string, len(messages))
		for k, v := range messages {
			copied[k] = v
		}
		entries[key] = copied
	}
	return &Catalog{defaultLocale: defaultLocale, entries: entries}, nil
}

// DefaultCatalog returns the embedded curations catalog.
func DefaultCatalog() (*Catalog, error) {
	fx, err := DefaultFixture()
	if err != nil {
		return nil, err
	}
	return NewCatalog(fx.Config, fx.Translations)
}

// DefaultLocale returns the locale used when lookups miss.
func (c *Catalog) DefaultLocale() string {
	return c.defaultLocale
}

// Locales lists the locales with at least one message.
func (c *Catalog) Locales() []string {
	out := make([]string, 0, len(c.entries))
	for locale := range c.entries {
		out = append(out, locale)
	}
	return out
}

// Translate implements interfaces.Translator.
func (c *Catalog) Translate(locale string, key string, args ...any) (string, error) {
	for _, candidate := range c.chain(locale) {
		if message, ok := c.entries[candidate][key]; ok {
			if len(args) > 0 {
				return fmt.Sprintf(message, args...), nil
			}
			return message, nil
		}
	}
	return key, nil
}

func (c *Catalog) chain(locale string) []string {
	locale = normalizeLocale(locale)
	chain := make([]string, 0, 3)
	if locale != "" {
		chain = append(chain, locale)
		if parent, _, ok := strings.Cut(locale, "-"); ok && parent != "" {
			chain = append(chain, parent)
		}
	}
	return append(chain, c.defaultLocale)
}

// NoOp returns a translator that echoes keys.
func NoOp() interfaces.Translator {
	return noopTranslator{}
}

type noopTranslator struct{}

func (noopTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	return key, nil
}
