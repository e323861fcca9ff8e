package deepl

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pricofy/sheet-translator/internal/chunker"
	"github.com/pricofy/sheet-translator/internal/domain"
)

// newTestClient starts a stub DeepL server and a client pointed at it.
func newTestClient(t *testing.T, key string, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(staticKey(key), Config{BaseURL: srv.URL + "/v2"})
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		note       string
		sourceLang string
		texts      []string
		translated []string
	}{
		{
			note:       "with source language specified",
			sourceLang: "EN-US",
			texts:      []string{"Hello, World!"},
			translated: []string{"Hallo, Welt!"},
		},
		{
			note:       "without source language specified",
			texts:      []string{"Hello, World!"},
			translated: []string{"Hallo, Welt!"},
		},
		{
			note:       "in a list of strings",
			texts:      []string{"Hello, World!", "Good morning"},
			translated: []string{"Hallo, Welt!", "Guten Morgen"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.note, func(t *testing.T) {
			var got domain.TranslateRequest
			c := newTestClient(t, "SampleApiKey:fx", func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/v2/translate" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				if auth := r.Header.Get("Authorization"); auth != "DeepL-Auth-Key SampleApiKey:fx" {
					t.Errorf("Authorization = %q", auth)
				}
				if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
					t.Errorf("decode request: %v", err)
				}

				var resp domain.TranslateResponse
				for _, text := range tt.translated {
					resp.Translations = append(resp.Translations, domain.Translation{DetectedSourceLanguage: "EN", Text: text})
				}
				_ = json.NewEncoder(w).Encode(resp)
			})

			result, err := c.Translate(context.Background(), tt.texts, "DE", tt.sourceLang)
			if err != nil {
				t.Fatalf("Translate() unexpected error: %v", err)
			}
			if strings.Join(result, "|") != strings.Join(tt.translated, "|") {
				t.Errorf("Translate() = %v, want %v", result, tt.translated)
			}
			if got.TargetLang != "DE" || got.SourceLang != tt.sourceLang {
				t.Errorf("request langs = %q/%q", got.SourceLang, got.TargetLang)
			}
			if strings.Join(got.Text, "|") != strings.Join(tt.texts, "|") {
				t.Errorf("request text = %v, want %v", got.Text, tt.texts)
			}
		})
	}
}

func TestTranslate_OmitsEmptySourceLang(t *testing.T) {
	c := newTestClient(t, "key", func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		_ = json.NewDecoder(r.Body).Decode(&raw)
		if _, ok := raw["source_lang"]; ok {
			t.Error("source_lang should be omitted for auto detection")
		}
		_, _ = w.Write([]byte(`{"translations":[{"detected_source_language":"EN","text":"Hallo"}]}`))
	})

	if _, err := c.Translate(context.Background(), []string{"Hello"}, "DE", ""); err != nil {
		t.Fatalf("Translate() unexpected error: %v", err)
	}
}

func TestTranslate_EmptyInput(t *testing.T) {
	called := false
	c := newTestClient(t, "key", func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	tests := []struct {
		note  string
		texts []string
	}{
		{"when source text is nil", nil},
		{"when source text is empty", []string{}},
		{"when source text is an empty string", []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.note, func(t *testing.T) {
			_, err := c.Translate(context.Background(), tt.texts, "DE", "EN-US")
			if !errors.Is(err, domain.ErrEmptyInput) {
				t.Errorf("Translate() error = %v, want ErrEmptyInput", err)
			}
		})
	}
	if called {
		t.Error("empty input must not reach the API")
	}
}

func TestTranslate_CredentialUnavailable(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		t.Error("request sent without a key")
	})

	_, err := c.Translate(context.Background(), []string{"Hello"}, "DE", "")
	if !errors.Is(err, domain.ErrCredentialUnavailable) {
		t.Errorf("Translate() error = %v, want ErrCredentialUnavailable", err)
	}
}

func TestTranslate_ErrorResponses(t *testing.T) {
	tests := []struct {
		status   int
		expected error
	}{
		{429, domain.ErrRateLimited},
		{456, domain.ErrQuotaExceeded},
		{502, domain.ErrServiceUnavailable},
		{400, domain.ErrRemoteCallFailed},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c := newTestClient(t, "key", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"message":"Bad request"}`))
			})

			_, err := c.Translate(context.Background(), []string{"Hello"}, "DE", "")
			if !errors.Is(err, tt.expected) {
				t.Errorf("Translate() error = %v, want %v", err, tt.expected)
			}
		})
	}
}

func TestTranslate_RemoteBodyInError(t *testing.T) {
	c := newTestClient(t, "key", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Value for 'target_lang' not supported."}`))
	})

	_, err := c.Translate(context.Background(), []string{"Hello"}, "XX", "")
	if err == nil || !strings.Contains(err.Error(), "Value for 'target_lang' not supported.") {
		t.Errorf("Translate() error = %v, want the remote body", err)
	}
}

func TestTranslate_CountMismatch(t *testing.T) {
	c := newTestClient(t, "key", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"translations":[{"text":"Hallo"}]}`))
	})

	_, err := c.Translate(context.Background(), []string{"Hello", "World"}, "DE", "")
	if !errors.Is(err, domain.ErrRemoteCallFailed) {
		t.Errorf("Translate() error = %v, want ErrRemoteCallFailed", err)
	}
}

func TestLanguages(t *testing.T) {
	tests := []struct {
		kind     LanguageType
		expected string
	}{
		{"", "source"},
		{SourceLanguages, "source"},
		{TargetLanguages, "target"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			c := newTestClient(t, "SampleApiKey:fx", func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet || r.URL.Path != "/v2/languages" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				if got := r.URL.Query().Get("type"); got != tt.expected {
					t.Errorf("type = %q, want %q", got, tt.expected)
				}
				if got := r.URL.Query().Get("auth_key"); got != "SampleApiKey:fx" {
					t.Errorf("auth_key = %q", got)
				}
				_, _ = w.Write([]byte(`[
					{"language":"EN","name":"English","supports_formality":false},
					{"language":"DE","name":"German","supports_formality":true}
				]`))
			})

			languages, err := c.Languages(context.Background(), tt.kind)
			if err != nil {
				t.Fatalf("Languages() unexpected error: %v", err)
			}
			expected := []domain.Language{
				{Language: "EN", Name: "English"},
				{Language: "DE", Name: "German", SupportsFormality: true},
			}
			if len(languages) != len(expected) {
				t.Fatalf("Languages() returned %d entries, want %d", len(languages), len(expected))
			}
			for i := range expected {
				if languages[i] != expected[i] {
					t.Errorf("Languages()[%d] = %+v, want %+v", i, languages[i], expected[i])
				}
			}
		})
	}
}

func TestLanguages_Error(t *testing.T) {
	c := newTestClient(t, "key", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("Forbidden"))
	})

	_, err := c.Languages(context.Background(), TargetLanguages)
	if !errors.Is(err, domain.ErrRemoteCallFailed) {
		t.Errorf("Languages() error = %v, want ErrRemoteCallFailed", err)
	}
}

func TestUsage(t *testing.T) {
	c := newTestClient(t, "key", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/usage" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"character_count":10,"character_limit":50}`))
	})

	usage, err := c.Usage(context.Background())
	if err != nil {
		t.Fatalf("Usage() unexpected error: %v", err)
	}
	if usage.CharacterCount != 10 || usage.CharacterLimit != 50 {
		t.Errorf("Usage() = %+v", usage)
	}
	if usage.Remaining() != 40 {
		t.Errorf("Remaining() = %d, want 40", usage.Remaining())
	}
}

func TestUsage_ServiceUnavailable(t *testing.T) {
	c := newTestClient(t, "key", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.Usage(context.Background())
	if !errors.Is(err, domain.ErrServiceUnavailable) {
		t.Errorf("Usage() error = %v, want ErrServiceUnavailable", err)
	}
}

func TestTranslate_WireSizeWithinChunkBudget(t *testing.T) {
	const maxBytes = 1024
	cell := strings.Repeat("<b>&</b>", 100)

	chunks, err := chunker.Split([]string{cell}, 50, maxBytes)
	if err != nil {
		t.Fatalf("Split() unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("Split() returned %d chunks, want 1", len(chunks))
	}

	var wire json.RawMessage
	c := newTestClient(t, "key", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text json.RawMessage `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		wire = req.Text
		_, _ = w.Write([]byte(`{"translations":[{"text":"ok"}]}`))
	})

	if _, err := c.Translate(context.Background(), chunks[0], "DE", ""); err != nil {
		t.Fatalf("Translate() unexpected error: %v", err)
	}
	if len(wire) > maxBytes {
		t.Errorf("text array on the wire is %d bytes, want at most %d", len(wire), maxBytes)
	}
	if strings.Contains(string(wire), `\u003c`) {
		t.Errorf("text array on the wire has escaped HTML: %s", wire)
	}
}

// countingKey is a CredentialStore that counts its reads.
type countingKey struct {
	key   string
	reads int
}

func (k *countingKey) APIKey() (string, error) {
	k.reads++
	return k.key, nil
}

func TestBindSession(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if auth := r.Header.Get("Authorization"); auth != "DeepL-Auth-Key bound-key" {
			t.Errorf("Authorization = %q", auth)
		}
		_, _ = w.Write([]byte(`{"translations":[{"text":"Hallo"}]}`))
	}))
	t.Cleanup(srv.Close)

	store := &countingKey{key: "bound-key"}
	translate, err := New(store, Config{BaseURL: srv.URL + "/v2"}).BindSession()
	if err != nil {
		t.Fatalf("BindSession() unexpected error: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := translate(context.Background(), []string{"Hello"}, "DE", ""); err != nil {
			t.Fatalf("Translate() unexpected error: %v", err)
		}
	}
	if store.reads != 1 {
		t.Errorf("credential reads = %d, want 1", store.reads)
	}
	if requests != 3 {
		t.Errorf("requests = %d, want 3", requests)
	}
}

func TestBindSession_CredentialUnavailable(t *testing.T) {
	_, err := New(staticKey(""), Config{}).BindSession()
	if !errors.Is(err, domain.ErrCredentialUnavailable) {
		t.Errorf("BindSession() error = %v, want ErrCredentialUnavailable", err)
	}
}
