package settings

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/pricofy/sheet-translator/internal/deepl"
	"github.com/pricofy/sheet-translator/internal/domain"
)

// LanguageLister lists the languages supported in one direction.
type LanguageLister interface {
	Languages(ctx context.Context, kind deepl.LanguageType) ([]domain.Language, error)
}

// NormalizeLocale turns user input such as "en_us" or "pt-br" into DeepL's
// upper-case form ("EN-US", "PT-BR").
func NormalizeLocale(code string) string {
	code = strings.ReplaceAll(strings.TrimSpace(code), "_", "-")
	if code == "" {
		return ""
	}
	if tag, err := language.Parse(code); err == nil {
		return strings.ToUpper(tag.String())
	}
	return strings.ToUpper(code)
}

// ValidateLocale returns the supported code matching code, or
// domain.ErrInvalidLocale.
func ValidateLocale(code string, supported []domain.Language) (string, error) {
	raw := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(code), "_", "-"))
	normalized := NormalizeLocale(code)
	for _, lang := range supported {
		l := strings.ToUpper(lang.Language)
		if l == raw || l == normalized {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: %s: enter a valid value", domain.ErrInvalidLocale, raw)
}

// SetLanguage validates the locales against the languages DeepL currently
// supports and stores them. An empty source selects auto-detection.
func SetLanguage(ctx context.Context, lister LanguageLister, store *Store, source, target string) (string, string, error) {
	if strings.TrimSpace(target) == "" {
		return "", "", fmt.Errorf("%w: a target language is required", domain.ErrInvalidLocale)
	}

	if strings.TrimSpace(source) != "" {
		sources, err := lister.Languages(ctx, deepl.SourceLanguages)
		if err != nil {
			return "", "", fmt.Errorf("listing source languages: %w", err)
		}
		if source, err = ValidateLocale(source, sources); err != nil {
			return "", "", err
		}
	} else {
		source = ""
	}

	targets, err := lister.Languages(ctx, deepl.TargetLanguages)
	if err != nil {
		return "", "", fmt.Errorf("listing target languages: %w", err)
	}
	if target, err = ValidateLocale(target, targets); err != nil {
		return "", "", err
	}

	if err := store.Set(map[string]string{
		KeySourceLocale: source,
		KeyTargetLocale: target,
	}); err != nil {
		return "", "", err
	}
	return source, target, nil
}
