package curation

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-curations/pkg/interfaces"
)

// Text is a translatable message: the catalog key plus the English fallback
// used when no translator is configured or the key is missing.
type Text struct {
	Key      string
	Fallback string
}

// Presenter classifies records and resolves actions, rendering labels
// through an optional translator.
type Presenter struct {
	translator interfaces.Translator
	locale     string
	requestURL func(id string) string
}

// PresenterOption customises a Presenter.
type PresenterOption func(*Presenter)

// WithTranslator renders labels through translator for locale.
func WithTranslator(translator interfaces.Translator, locale string) PresenterOption {
	return func(p *Presenter) {
		p.translator = translator
		p.locale = strings.TrimSpace(locale)
	}
}

// WithRequestURL overrides how request detail links are built.
func WithRequestURL(build func(id string) string) PresenterOption {
	return func(p *Presenter) {
		if build != nil {
			p.requestURL = build
		}
	}
}

// NewPresenter builds a presenter. Without options labels are English.
func NewPresenter(opts ...PresenterOption) *Presenter {
	p := &Presenter{requestURL: DefaultRequestURL}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// DefaultRequestURL returns the request page path used by the repository UI.
func DefaultRequestURL(id string) string {
	return "/me/requests/" + strings.TrimSpace(id)
}

var defaultPresenter = NewPresenter()

func (p *Presenter) text(t Text, args ...any) string {
	if p == nil || p.translator == nil || t.Key == "" {
		return format(t.Fallback, args...)
	}
	translated, err := p.translator.Translate(p.locale, t.Key, args...)
	if err != nil || translated == "" || translated == t.Key {
		return format(t.Fallback, args...)
	}
	return translated
}

func format(msg string, args ...any) string {
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}
