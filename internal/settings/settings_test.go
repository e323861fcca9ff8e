package settings

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pricofy/sheet-translator/internal/deepl"
	"github.com/pricofy/sheet-translator/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	t.Setenv(EnvAPIKey, "")
	return Open(filepath.Join(t.TempDir(), "sheetsl", "settings.json"))
}

func TestDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	path, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath() unexpected error: %v", err)
	}
	if want := filepath.Join(dir, "sheetsl", "settings.json"); path != want {
		t.Errorf("DefaultPath() = %q, want %q", path, want)
	}
}

func TestStore_MissingFileIsEmpty(t *testing.T) {
	s := newTestStore(t)

	values, err := s.Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("Load() = %v, want empty", values)
	}

	key, err := s.APIKey()
	if err != nil || key != "" {
		t.Errorf("APIKey() = %q, %v; want empty", key, err)
	}
}

func TestStore_APIKeyLifecycle(t *testing.T) {
	s := newTestStore(t)

	if err := s.SetAPIKey("  Sample-API-key:fx  "); err != nil {
		t.Fatalf("SetAPIKey() unexpected error: %v", err)
	}
	key, err := s.APIKey()
	if err != nil || key != "Sample-API-key:fx" {
		t.Fatalf("APIKey() = %q, %v", key, err)
	}

	info, err := os.Stat(s.Path())
	if err != nil {
		t.Fatalf("settings file not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("settings file mode = %o, want 600", perm)
	}

	if err := s.DeleteAPIKey(); err != nil {
		t.Fatalf("DeleteAPIKey() unexpected error: %v", err)
	}
	if key, _ := s.APIKey(); key != "" {
		t.Errorf("APIKey() after delete = %q, want empty", key)
	}
	// Deleting twice is fine
	if err := s.DeleteAPIKey(); err != nil {
		t.Errorf("second DeleteAPIKey() unexpected error: %v", err)
	}
}

func TestStore_SetAPIKeyRejectsEmpty(t *testing.T) {
	s := newTestStore(t)
	if err := s.SetAPIKey("   "); err == nil {
		t.Error("SetAPIKey() should reject an empty key")
	}
}

func TestStore_EnvOverridesFile(t *testing.T) {
	s := newTestStore(t)
	if err := s.SetAPIKey("file-key"); err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvAPIKey, "env-key:fx")
	if key, _ := s.APIKey(); key != "env-key:fx" {
		t.Errorf("APIKey() = %q, want env-key:fx", key)
	}
}

func TestStore_CorruptFile(t *testing.T) {
	s := newTestStore(t)
	if err := os.MkdirAll(filepath.Dir(s.Path()), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.Path(), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := s.APIKey(); err == nil {
		t.Error("APIKey() should report a corrupt settings file")
	}
}

func TestStore_AsCredentialStore(t *testing.T) {
	s := newTestStore(t)
	if err := s.SetAPIKey("pro-key"); err != nil {
		t.Fatal(err)
	}

	session, err := deepl.ResolveSession(s, "")
	if err != nil {
		t.Fatalf("ResolveSession() unexpected error: %v", err)
	}
	if session.BaseURL != deepl.ProBaseURL {
		t.Errorf("BaseURL = %q, want %q", session.BaseURL, deepl.ProBaseURL)
	}

	if err := s.DeleteAPIKey(); err != nil {
		t.Fatal(err)
	}
	if _, err := deepl.ResolveSession(s, ""); !errors.Is(err, domain.ErrCredentialUnavailable) {
		t.Errorf("ResolveSession() error = %v, want ErrCredentialUnavailable", err)
	}
}

func TestEnvStore(t *testing.T) {
	t.Setenv(EnvAPIKey, " lambda-key:fx ")
	key, err := EnvStore{}.APIKey()
	if err != nil || key != "lambda-key:fx" {
		t.Errorf("EnvStore.APIKey() = %q, %v", key, err)
	}
}

func TestMaskKey(t *testing.T) {
	tests := []struct {
		key      string
		expected string
	}{
		{"short", "****"},
		{"12345678", "****"},
		{"abcd-efgh-ijkl:fx", "abcd...l:fx"},
	}

	for _, tt := range tests {
		if got := MaskKey(tt.key); got != tt.expected {
			t.Errorf("MaskKey(%q) = %q, want %q", tt.key, got, tt.expected)
		}
	}
}

// fakeLister serves fixed language lists and counts calls.
type fakeLister struct {
	sources []domain.Language
	targets []domain.Language
	calls   int
	err     error
}

func (f *fakeLister) Languages(ctx context.Context, kind deepl.LanguageType) ([]domain.Language, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if kind == deepl.TargetLanguages {
		return f.targets, nil
	}
	return f.sources, nil
}

func newFakeLister() *fakeLister {
	return &fakeLister{
		sources: []domain.Language{{Language: "EN", Name: "English"}, {Language: "DE", Name: "German"}},
		targets: []domain.Language{{Language: "EN-US", Name: "English (American)"}, {Language: "DE", Name: "German"}, {Language: "ZH-HANS", Name: "Chinese (simplified)"}},
	}
}

func TestSetLanguage(t *testing.T) {
	tests := []struct {
		name           string
		source         string
		target         string
		expectedSource string
		expectedTarget string
		expectedCalls  int
	}{
		{"both set", "EN", "DE", "EN", "DE", 2},
		{"lower case input", "en", "de", "EN", "DE", 2},
		{"regional target", "", "en_us", "", "EN-US", 1},
		{"script subtag", "de", "zh-hans", "DE", "ZH-HANS", 2},
		{"auto detect source", "", "DE", "", "DE", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			lister := newFakeLister()

			source, target, err := SetLanguage(context.Background(), lister, s, tt.source, tt.target)
			if err != nil {
				t.Fatalf("SetLanguage() unexpected error: %v", err)
			}
			if source != tt.expectedSource || target != tt.expectedTarget {
				t.Errorf("SetLanguage() = %q, %q; want %q, %q", source, target, tt.expectedSource, tt.expectedTarget)
			}
			if lister.calls != tt.expectedCalls {
				t.Errorf("Languages() called %d times, want %d", lister.calls, tt.expectedCalls)
			}

			storedSource, storedTarget, err := s.Locales()
			if err != nil {
				t.Fatal(err)
			}
			if storedSource != tt.expectedSource || storedTarget != tt.expectedTarget {
				t.Errorf("stored locales = %q, %q", storedSource, storedTarget)
			}
		})
	}
}

func TestSetLanguage_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		source string
		target string
	}{
		{"unknown source", "XX", "DE"},
		{"unknown target", "EN", "XX"},
		{"source-only code as target", "", "EN"},
		{"missing target", "EN", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)

			_, _, err := SetLanguage(context.Background(), newFakeLister(), s, tt.source, tt.target)
			if !errors.Is(err, domain.ErrInvalidLocale) {
				t.Fatalf("SetLanguage() error = %v, want ErrInvalidLocale", err)
			}
			if _, target, _ := s.Locales(); target != "" {
				t.Error("invalid locales must not be stored")
			}
		})
	}
}

func TestSetLanguage_ListerError(t *testing.T) {
	s := newTestStore(t)
	lister := &fakeLister{err: domain.ErrCredentialUnavailable}

	_, _, err := SetLanguage(context.Background(), lister, s, "EN", "DE")
	if !errors.Is(err, domain.ErrCredentialUnavailable) {
		t.Errorf("SetLanguage() error = %v, want ErrCredentialUnavailable", err)
	}
}

func TestValidateLocale_Message(t *testing.T) {
	_, err := ValidateLocale("xx", []domain.Language{{Language: "DE"}})
	if err == nil || err.Error() != "invalid locale: XX: enter a valid value" {
		t.Errorf("ValidateLocale() error = %v", err)
	}
}
