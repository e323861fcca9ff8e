// Package deepl is a minimal client for the DeepL REST API: translate,
// languages and usage.
package deepl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pricofy/sheet-translator/internal/domain"
)

// DefaultTimeout is the per-request timeout when none is configured.
const DefaultTimeout = 30 * time.Second

// LanguageType selects the direction of GET /languages.
type LanguageType string

const (
	// SourceLanguages lists languages text can be translated from.
	SourceLanguages LanguageType = "source"
	// TargetLanguages lists languages text can be translated into.
	TargetLanguages LanguageType = "target"
)

// Config tunes the HTTP side of the client.
type Config struct {
	// BaseURL overrides the endpoint derived from the key (tests, proxies).
	BaseURL string
	// Timeout is the per-request timeout (default DefaultTimeout).
	Timeout time.Duration
	// Proxy is an explicit proxy URL; HTTP(S)_PROXY is used when empty.
	Proxy string
}

// Client calls the DeepL API with the key held by a CredentialStore.
type Client struct {
	store      CredentialStore
	baseURL    string
	httpClient *http.Client
}

// New creates a new Client.
func New(store CredentialStore, cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		store:      store,
		baseURL:    cfg.BaseURL,
		httpClient: makeHTTPClient(cfg.Proxy, timeout),
	}
}

func makeHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if proxyURL != "" {
		parsed, err := url.Parse(proxyURL)
		if err == nil {
			transport.Proxy = http.ProxyURL(parsed)
		}
	} else {
		transport.Proxy = http.ProxyFromEnvironment
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// Translate translates texts into targetLang with a single POST /translate.
// An empty sourceLang lets DeepL detect the source language. The result has
// one entry per input text, in input order.
func (c *Client) Translate(ctx context.Context, texts []string, targetLang, sourceLang string) ([]string, error) {
	if isEmpty(texts) {
		return nil, domain.ErrEmptyInput
	}

	session, err := ResolveSession(c.store, c.baseURL)
	if err != nil {
		return nil, err
	}

	payload, err := domain.EncodeJSON(domain.TranslateRequest{
		Text:       texts,
		TargetLang: targetLang,
		SourceLang: sourceLang,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, session.endpoint("translate"), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req, session)
	if err != nil {
		return nil, err
	}

	var resp domain.TranslateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(resp.Translations) != len(texts) {
		return nil, fmt.Errorf("%w: got %d translations for %d texts", domain.ErrRemoteCallFailed, len(resp.Translations), len(texts))
	}

	translated := make([]string, len(resp.Translations))
	for i, t := range resp.Translations {
		translated[i] = t.Text
	}
	return translated, nil
}

// BindSession resolves the session once and returns a Translate that reuses
// it, so a run of chunk requests reads the credential a single time.
func (c *Client) BindSession() (func(ctx context.Context, texts []string, targetLang, sourceLang string) ([]string, error), error) {
	session, err := ResolveSession(c.store, c.baseURL)
	if err != nil {
		return nil, err
	}
	bound := &Client{
		store:      session,
		baseURL:    session.BaseURL,
		httpClient: c.httpClient,
	}
	return bound.Translate, nil
}

// Languages lists the languages DeepL supports in the given direction.
// An empty kind means SourceLanguages.
func (c *Client) Languages(ctx context.Context, kind LanguageType) ([]domain.Language, error) {
	if kind == "" {
		kind = SourceLanguages
	}

	session, err := ResolveSession(c.store, c.baseURL)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("auth_key", session.Key)
	query.Set("type", string(kind))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, session.endpoint("languages")+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	body, err := c.do(req, session)
	if err != nil {
		return nil, err
	}

	var languages []domain.Language
	if err := json.Unmarshal(body, &languages); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return languages, nil
}

// Usage returns the character usage of the account.
func (c *Client) Usage(ctx context.Context) (domain.Usage, error) {
	session, err := ResolveSession(c.store, c.baseURL)
	if err != nil {
		return domain.Usage{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, session.endpoint("usage"), nil)
	if err != nil {
		return domain.Usage{}, fmt.Errorf("failed to create request: %w", err)
	}

	body, err := c.do(req, session)
	if err != nil {
		return domain.Usage{}, err
	}

	var usage domain.Usage
	if err := json.Unmarshal(body, &usage); err != nil {
		return domain.Usage{}, fmt.Errorf("failed to parse response: %w", err)
	}
	return usage, nil
}

// do sends an authenticated request and returns the body of a successful
// response. Failed responses are classified by CheckResponse.
func (c *Client) do(req *http.Request, session Session) ([]byte, error) {
	req.Header.Set("Authorization", "DeepL-Auth-Key "+session.Key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRemoteCallFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if err := CheckResponse(resp.StatusCode, body); err != nil {
		return nil, err
	}
	return body, nil
}

// isEmpty reports whether there is nothing to translate.
func isEmpty(texts []string) bool {
	for _, text := range texts {
		if text != "" {
			return false
		}
	}
	return true
}
