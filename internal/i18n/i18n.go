// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package i18n loads the embedded message catalogs and localizes page text.
package i18n

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed translations/*.toml
var translationFS embed.FS

// DefaultLanguage is used when no catalog matches the request.
var DefaultLanguage = language.English

var (
	bundle  *i18n.Bundle
	matcher language.Matcher
)

type localeContextKey struct{}
type localizerContextKey struct{}

// Init loads every translations/active.*.toml catalog. The languages
// offered to clients are the ones that have a catalog.
func Init() error {
	b := i18n.NewBundle(DefaultLanguage)
	b.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.Glob(translationFS, "translations/active.*.toml")
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no translation catalogs embedded")
	}

	for _, file := range files {
		if _, err := b.LoadMessageFileFS(translationFS, file); err != nil {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}

	bundle = b
	matcher = language.NewMatcher(b.LanguageTags())
	return nil
}

// Languages returns the languages that have a catalog, default first.
func Languages() []language.Tag {
	if bundle == nil {
		return []language.Tag{DefaultLanguage}
	}
	return bundle.LanguageTags()
}

// WithLocale adds the locale to the context.
func WithLocale(ctx context.Context, lang language.Tag) context.Context {
	locale := lang.String()
	ctx = context.WithValue(ctx, localeContextKey{}, locale)
	return context.WithValue(ctx, localizerContextKey{}, i18n.NewLocalizer(bundle, locale))
}

// GetLocale returns the current locale from context.
func GetLocale(ctx context.Context) string {
	if locale, ok := ctx.Value(localeContextKey{}).(string); ok {
		return locale
	}
	return DefaultLanguage.String()
}

// T translates a message by ID. Unknown IDs are returned unchanged.
func T(ctx context.Context, messageID string) string {
	msg, err := getLocalizer(ctx).Localize(&i18n.LocalizeConfig{MessageID: messageID})
	if err != nil {
		return messageID
	}
	return msg
}

// Messages translates several messages at once, keyed by ID.
// Page scripts receive their labels this way.
func Messages(ctx context.Context, messageIDs ...string) map[string]string {
	out := make(map[string]string, len(messageIDs))
	for _, id := range messageIDs {
		out[id] = T(ctx, id)
	}
	return out
}

// MatchLanguage picks the catalog language that best fits an
// Accept-Language header. The result is always one of Languages().
func MatchLanguage(acceptLanguage string) language.Tag {
	supported := Languages()
	if matcher == nil {
		return supported[0]
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return supported[0]
	}

	_, index, _ := matcher.Match(tags...)
	return supported[index]
}

func getLocalizer(ctx context.Context) *i18n.Localizer {
	if localizer, ok := ctx.Value(localizerContextKey{}).(*i18n.Localizer); ok {
		return localizer
	}
	return i18n.NewLocalizer(bundle, DefaultLanguage.String())
}
