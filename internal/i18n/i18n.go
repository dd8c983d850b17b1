// Package i18n resolves the /{lang} path prefix and translates the messages
// the album shows to visitors.
package i18n

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

type Translator struct {
	tags    []language.Tag
	matcher language.Matcher
	cat     *catalog.Builder
}

// New builds a translator for the given language codes. The first one is
// the fallback language.
func New(langs []string) (*Translator, error) {
	if len(langs) == 0 {
		return nil, errors.New("at least one language is required")
	}
	tags := make([]language.Tag, 0, len(langs))
	for _, l := range langs {
		tag, err := language.Parse(l)
		if err != nil {
			return nil, fmt.Errorf("invalid language %q: %w", l, err)
		}
		tags = append(tags, tag)
	}

	cat := catalog.NewBuilder(catalog.Fallback(tags[0]))
	for tag, msgs := range translations {
		for key, msg := range msgs {
			if err := cat.SetString(tag, key, msg); err != nil {
				return nil, fmt.Errorf("failed to load %s translations: %w", tag, err)
			}
		}
	}

	return &Translator{
		tags:    tags,
		matcher: language.NewMatcher(tags),
		cat:     cat,
	}, nil
}

// Match resolves a path language code to one of the supported languages.
func (t *Translator) Match(lang string) (language.Tag, bool) {
	requested, err := language.Parse(lang)
	if err != nil {
		return language.Und, false
	}
	_, idx, conf := t.matcher.Match(requested)
	if conf < language.High {
		return language.Und, false
	}
	return t.tags[idx], true
}

// Default is the fallback language.
func (t *Translator) Default() language.Tag {
	return t.tags[0]
}

// Printer returns a printer translating into tag.
func (t *Translator) Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(t.cat))
}

// Locale is the index locale of a language: its lowercase base code.
func Locale(tag language.Tag) string {
	base, _ := tag.Base()
	return base.String()
}

type ctxKey struct{}

// WithLanguage stores the request language in ctx.
func WithLanguage(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, ctxKey{}, tag)
}

// LanguageFrom returns the language stored by WithLanguage, or
// language.English.
func LanguageFrom(ctx context.Context) language.Tag {
	if tag, ok := ctx.Value(ctxKey{}).(language.Tag); ok {
		return tag
	}
	return language.English
}
