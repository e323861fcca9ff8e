// Package settings provides storage for sheetsl user settings: the DeepL
// authentication key and the source/target locales.
//
// Settings are stored as flat key-value pairs in the XDG data directory:
//
//	$XDG_DATA_HOME/sheetsl/settings.json  (default: ~/.local/share/sheetsl/)
//
// File permissions are 0600 (owner read/write only).
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	dataDirName = "sheetsl"
	fileName    = "settings.json"

	// KeyAPIKey holds the DeepL authentication key.
	KeyAPIKey = "deeplApiKey"
	// KeySourceLocale holds the source language; empty means auto-detect.
	KeySourceLocale = "sourceLocale"
	// KeyTargetLocale holds the target language.
	KeyTargetLocale = "targetLocale"

	// EnvAPIKey overrides the stored key.
	EnvAPIKey = "DEEPL_AUTH_KEY"
)

// DefaultPath returns the settings file location.
// Respects $XDG_DATA_HOME (falls back to ~/.local/share).
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, dataDirName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", dataDirName, fileName), nil
}

// Store is a file-backed key-value settings store.
type Store struct {
	path string
}

// Open returns a Store backed by the file at path. The file is created on
// the first write.
func Open(path string) *Store {
	return &Store{path: path}
}

// OpenDefault returns a Store at DefaultPath.
func OpenDefault() (*Store, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return Open(path), nil
}

// Path returns the settings file path for display purposes.
func (s *Store) Path() string {
	return s.path
}

// Load reads all settings. A missing file is an empty store.
func (s *Store) Load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parsing settings %s: %w", s.path, err)
	}
	return values, nil
}

// save writes all settings with 0600 permissions.
func (s *Store) save(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}
	return nil
}

// Get returns a single value, "" if unset.
func (s *Store) Get(key string) (string, error) {
	values, err := s.Load()
	if err != nil {
		return "", err
	}
	return values[key], nil
}

// Set stores several values at once (upsert).
func (s *Store) Set(updates map[string]string) error {
	values, err := s.Load()
	if err != nil {
		return err
	}
	for k, v := range updates {
		values[k] = v
	}
	return s.save(values)
}

// Delete removes a key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	values, err := s.Load()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return s.save(values)
}

// APIKey returns the DeepL key, preferring $DEEPL_AUTH_KEY over the file.
func (s *Store) APIKey() (string, error) {
	if key := strings.TrimSpace(os.Getenv(EnvAPIKey)); key != "" {
		return key, nil
	}
	return s.Get(KeyAPIKey)
}

// SetAPIKey stores the DeepL key.
func (s *Store) SetAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("you must enter a valid DeepL API authentication key")
	}
	return s.Set(map[string]string{KeyAPIKey: key})
}

// DeleteAPIKey removes the stored DeepL key.
func (s *Store) DeleteAPIKey() error {
	return s.Delete(KeyAPIKey)
}

// Locales returns the stored source and target locales.
func (s *Store) Locales() (source, target string, err error) {
	values, err := s.Load()
	if err != nil {
		return "", "", err
	}
	return values[KeySourceLocale], values[KeyTargetLocale], nil
}

// EnvStore reads the DeepL key from $DEEPL_AUTH_KEY only.
type EnvStore struct{}

// APIKey implements deepl.CredentialStore.
func (EnvStore) APIKey() (string, error) {
	return strings.TrimSpace(os.Getenv(EnvAPIKey)), nil
}

// MaskKey returns a masked version of a key for display.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
