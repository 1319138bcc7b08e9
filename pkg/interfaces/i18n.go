package interfaces

// Translator resolves a message key for a locale. Implementations should
// return the key itself when no translation exists so callers always have
// something to render.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}
