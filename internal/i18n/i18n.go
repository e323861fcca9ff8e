// Package i18n localizes the messages sheetsl shows to users.
package i18n

import (
	"embed"
	"errors"
	"log"
	"os"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"

	"github.com/pricofy/sheet-translator/internal/domain"
)

//go:embed active.*.toml
var localeFS embed.FS

var messageFiles = []string{"active.en.toml", "active.ja.toml"}

// Translator is a thin wrapper around go-i18n's Bundle/Localizer.
type Translator struct {
	bundle          *i18n.Bundle
	defaultLanguage language.Tag
}

// NewTranslator builds a Translator backed by the embedded active.*.toml
// files. Unknown locales fall back to English.
func NewTranslator(defaultLocale string) *Translator {
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		tag = language.English
	}
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, file := range messageFiles {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			log.Printf("i18n: failed to load %s: %v", file, err)
		}
	}

	return &Translator{
		bundle:          bundle,
		defaultLanguage: tag,
	}
}

// Locale returns the default locale of t.
func (t *Translator) Locale() string {
	return t.defaultLanguage.String()
}

// T renders the message identified by key. If the key is not found it falls
// back to English, then finally to the key itself.
func (t *Translator) T(key string, data map[string]any) string {
	if key == "" {
		return ""
	}

	localizer := i18n.NewLocalizer(t.bundle, t.defaultLanguage.String(), language.English.String())
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		log.Printf("i18n: localize failed (key=%s, locale=%s): %v", key, t.defaultLanguage, err)
		return key
	}
	return msg
}

// Error renders a domain error in the user's language. Details carried by the
// error (a response body, the offending cell) are appended after the
// localized message. Errors outside the domain are returned verbatim.
func (t *Translator) Error(err error) string {
	if err == nil {
		return ""
	}
	kind := domain.Kind(err)
	if kind == "" {
		return err.Error()
	}
	msg := t.T(kind, nil)
	if detail := Detail(err); detail != "" {
		sep := ": "
		if strings.Contains(detail, "\n") || errors.Is(err, domain.ErrOversizedItem) || errors.Is(err, domain.ErrCredentialUnavailable) {
			sep = "\n"
		}
		msg += sep + detail
	}
	return msg
}

// Detail returns what err adds after the text of the domain error it wraps.
func Detail(err error) string {
	text := err.Error()
	for _, sentinel := range []error{
		domain.ErrOversizedItem,
		domain.ErrRemoteCallFailed,
		domain.ErrInvalidLocale,
		domain.ErrCredentialUnavailable,
	} {
		if !errors.Is(err, sentinel) {
			continue
		}
		i := strings.Index(text, sentinel.Error())
		if i < 0 {
			return ""
		}
		rest := text[i+len(sentinel.Error()):]
		return strings.TrimSpace(strings.TrimPrefix(rest, ":"))
	}
	return ""
}

// DetectLocale picks the message locale: explicit when set, otherwise the
// POSIX locale variables ("ja_JP.UTF-8" becomes "ja"), otherwise English.
func DetectLocale(explicit string) string {
	candidates := []string{explicit, os.Getenv("LC_ALL"), os.Getenv("LC_MESSAGES"), os.Getenv("LANG")}
	for _, raw := range candidates {
		raw = strings.TrimSpace(raw)
		if raw == "" || raw == "C" || raw == "POSIX" {
			continue
		}
		if i := strings.IndexAny(raw, ".@"); i >= 0 {
			raw = raw[:i]
		}
		tag, err := language.Parse(strings.ReplaceAll(raw, "_", "-"))
		if err != nil {
			continue
		}
		base, _ := tag.Base()
		return base.String()
	}
	return language.English.String()
}
