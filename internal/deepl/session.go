package deepl

import (
	"fmt"
	"strings"

	"github.com/pricofy/sheet-translator/internal/domain"
)

const (
	// APIVersion is the DeepL API version path segment.
	APIVersion = "v2"

	// FreeBaseURL serves DeepL API Free accounts.
	FreeBaseURL = "https://api-free.deepl.com/" + APIVersion

	// ProBaseURL serves DeepL API Pro accounts.
	ProBaseURL = "https://api.deepl.com/" + APIVersion

	// freeKeySuffix marks the authentication keys of DeepL API Free accounts.
	freeKeySuffix = ":fx"
)

// CredentialStore provides the DeepL authentication key.
// An empty key with a nil error means no key is configured.
type CredentialStore interface {
	APIKey() (string, error)
}

// Session is a resolved credential and the endpoint it belongs to.
type Session struct {
	Key     string
	BaseURL string
}

// BaseURL returns the API base URL for a key. Free and Pro accounts are
// served from different hosts.
func BaseURL(key string) string {
	if strings.HasSuffix(key, freeKeySuffix) {
		return FreeBaseURL
	}
	return ProBaseURL
}

// ResolveSession reads the key from the store and derives its endpoint.
// A non-empty override replaces the derived base URL.
func ResolveSession(store CredentialStore, override string) (Session, error) {
	if store == nil {
		return Session{}, domain.ErrCredentialUnavailable
	}
	key, err := store.APIKey()
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", domain.ErrCredentialUnavailable, err)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return Session{}, domain.ErrCredentialUnavailable
	}

	base := BaseURL(key)
	if override != "" {
		base = override
	}
	return Session{Key: key, BaseURL: strings.TrimSuffix(base, "/")}, nil
}

// APIKey returns the resolved key, so a Session can stand in for the store it
// was read from.
func (s Session) APIKey() (string, error) {
	return s.Key, nil
}

// endpoint joins the base URL and an API path.
func (s Session) endpoint(path string) string {
	return s.BaseURL + "/" + strings.TrimPrefix(path, "/")
}
