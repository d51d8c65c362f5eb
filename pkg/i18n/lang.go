package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// DefaultLanguage is used when no locale can be determined.
const DefaultLanguage = "en"

// maxAcceptLanguageLength bounds the Accept-Language header we are willing to parse.
const maxAcceptLanguageLength = 4096

// Negotiate picks the best supported locale for an Accept-Language header.
// It returns fallback when the header is empty, malformed or matches nothing.
func Negotiate(header string, supported []string, fallback string) string {
	header = strings.TrimSpace(header)
	if header == "" || len(supported) == 0 {
		return fallback
	}
	if len(header) > maxAcceptLanguageLength {
		header = header[:maxAcceptLanguageLength]
	}

	tags := make([]language.Tag, 0, len(supported))
	names := make([]string, 0, len(supported))
	for _, s := range supported {
		tag, err := language.Parse(s)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		names = append(names, s)
	}
	if len(tags) == 0 {
		return fallback
	}

	desired, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(desired) == 0 {
		return fallback
	}

	_, idx, conf := language.NewMatcher(tags).Match(desired...)
	if conf == language.No {
		return fallback
	}
	return names[idx]
}

// baseLanguage returns "pt" for "pt-BR".
func baseLanguage(locale string) string {
	if i := strings.IndexAny(locale, "-_"); i > 0 {
		return locale[:i]
	}
	return locale
}
