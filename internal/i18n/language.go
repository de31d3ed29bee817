// Package i18n resuelve idioma, unidades y mensajes localizados (es, en, fr, pt).
package i18n

import (
	"context"
	"strings"

	"golang.org/x/text/language"
)

type Language string

const (
	Spanish    Language = "es"
	English    Language = "en"
	French     Language = "fr"
	Portuguese Language = "pt"

	DefaultLanguage = Spanish
)

// El primero es el fallback del matcher.
var supportedTags = []language.Tag{
	language.Spanish,
	language.English,
	language.French,
	language.Portuguese,
}

var matcher = language.NewMatcher(supportedTags)

func Supported() []Language {
	return []Language{Spanish, English, French, Portuguese}
}

func (l Language) Valid() bool {
	switch l {
	case Spanish, English, French, Portuguese:
		return true
	}
	return false
}

func (l Language) Tag() language.Tag {
	switch l {
	case English:
		return language.English
	case French:
		return language.French
	case Portuguese:
		return language.Portuguese
	default:
		return language.Spanish
	}
}

// Parse acepta "pt", "pt-BR", "en_US"... y cae en español si no matchea.
func Parse(s string) Language {
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", "-")
	if s == "" {
		return DefaultLanguage
	}
	tag, err := language.Parse(s)
	if err != nil {
		return DefaultLanguage
	}
	return fromMatch(tag)
}

// MatchAcceptLanguage elige el mejor idioma soportado para un header Accept-Language.
func MatchAcceptLanguage(header string) Language {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return DefaultLanguage
	}
	return fromMatch(tags...)
}

func fromMatch(tags ...language.Tag) Language {
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return DefaultLanguage
	}
	base, _ := supportedTags[idx].Base()
	return Language(base.String())
}

type ctxKey struct{}

func WithLanguage(ctx context.Context, l Language) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

func FromContext(ctx context.Context) Language {
	if l, ok := ctx.Value(ctxKey{}).(Language); ok && l.Valid() {
		return l
	}
	return DefaultLanguage
}
