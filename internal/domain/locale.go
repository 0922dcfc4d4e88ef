package domain

import "strings"

type Locale string

const (
	LocaleEN Locale = "en"
	LocalePT Locale = "pt"
)

var SupportedLocales = []Locale{LocaleEN, LocalePT}

// ParseLocale maps user input to a supported locale, defaulting to English.
func ParseLocale(raw string) Locale {
	switch Locale(strings.ToLower(strings.TrimSpace(raw))) {
	case LocalePT:
		return LocalePT
	default:
		return LocaleEN
	}
}

// pick returns the variant for locale, or "" when that variant is unset.
func pick(locale Locale, en, pt string) string {
	if locale == LocalePT {
		return strings.TrimSpace(pt)
	}
	return strings.TrimSpace(en)
}
