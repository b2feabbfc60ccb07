// Package locale renders user-facing messages. Hebrew is the default language.
package locale

import (
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

var bundle = newBundle()

func newBundle() *goi18n.Bundle {
	b := goi18n.NewBundle(language.Hebrew)
	if err := b.AddMessages(language.Hebrew, hebrew...); err != nil {
		panic(err)
	}
	if err := b.AddMessages(language.English, english...); err != nil {
		panic(err)
	}
	return b
}

// Translator renders a message id, optionally with template data.
type Translator interface {
	T(id string, data ...map[string]any) string
}

type Localizer struct {
	l *goi18n.Localizer
}

// New builds a localizer for the given Accept-Language style preferences.
func New(langs ...string) *Localizer {
	return &Localizer{l: goi18n.NewLocalizer(bundle, langs...)}
}

// Default renders Hebrew.
func Default() *Localizer {
	return New(language.Hebrew.String())
}

// T returns the message, or the id itself when it is unknown.
func (l *Localizer) T(id string, data ...map[string]any) string {
	cfg := &goi18n.LocalizeConfig{MessageID: id}
	if len(data) > 0 {
		cfg.TemplateData = data[0]
	}
	msg, err := l.l.Localize(cfg)
	if err != nil {
		return id
	}
	return msg
}

// Tag reports the language the localizer resolves to.
func (l *Localizer) Tag() language.Tag {
	_, tag, err := l.l.LocalizeWithTag(&goi18n.LocalizeConfig{MessageID: GenericError})
	if err != nil {
		return language.Hebrew
	}
	return tag
}

// Prompt is the confirmation shown before a destructive action.
type Prompt struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Warning string `json:"warning,omitempty"`
}
