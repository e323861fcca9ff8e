// Package config loads sheetsl configuration from an optional .env file, an
// optional sheetsl.yaml file and the environment, in that order of precedence
// (environment wins).
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/pricofy/sheet-translator/internal/chunker"
	"github.com/pricofy/sheet-translator/internal/translator"
)

// FileName is the optional YAML configuration file looked up in the working directory.
const FileName = "sheetsl.yaml"

// Environment variables.
const (
	EnvAPIBaseURL   = "DEEPL_API_BASE_URL"
	EnvMaxItems     = "SHEETSL_MAX_ITEMS"
	EnvMaxBytes     = "SHEETSL_MAX_BYTES"
	EnvRequestDelay = "SHEETSL_REQUEST_DELAY"
	EnvTimeout      = "SHEETSL_TIMEOUT"
	EnvProxy        = "SHEETSL_PROXY"
	EnvLocale       = "SHEETSL_LOCALE"
	EnvConfigFile   = "SHEETSL_CONFIG"
)

// Config is the runtime configuration shared by the CLI and the Lambda.
type Config struct {
	// APIBaseURL overrides the DeepL endpoint derived from the key.
	APIBaseURL string `yaml:"api_base_url,omitempty"`
	// MaxItems is the maximum number of texts per request.
	MaxItems int `yaml:"max_items,omitempty"`
	// MaxBytes is the maximum serialized size of the texts in one request.
	MaxBytes int `yaml:"max_bytes,omitempty"`
	// RequestDelay is the pause between consecutive requests.
	RequestDelay time.Duration `yaml:"request_delay,omitempty"`
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `yaml:"timeout,omitempty"`
	// Proxy is an explicit HTTP proxy URL.
	Proxy string `yaml:"proxy,omitempty"`
	// Locale is the language of CLI messages (e.g. "ja").
	Locale string `yaml:"locale,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		MaxItems:     chunker.DefaultMaxItems,
		MaxBytes:     chunker.DefaultMaxBytes,
		RequestDelay: translator.DefaultRequestDelay,
		Timeout:      30 * time.Second,
	}
}

// Load builds the configuration and validates it.
func Load() (*Config, error) {
	// .env is optional when variables come from the environment (Lambda, CI)
	_ = godotenv.Load()

	cfg := Default()

	path := os.Getenv(EnvConfigFile)
	explicit := path != ""
	if !explicit {
		path = FileName
	}
	if err := cfg.loadFile(path, explicit); err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile merges a YAML file into cfg. A missing file is only an error when
// it was asked for explicitly.
func (c *Config) loadFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !required {
		return nil
	}
	if err != nil {
		return fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvAPIBaseURL); v != "" {
		c.APIBaseURL = v
	}
	if v := os.Getenv(EnvProxy); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv(EnvLocale); v != "" {
		c.Locale = v
	}
	if err := envInt(EnvMaxItems, &c.MaxItems); err != nil {
		return err
	}
	if err := envInt(EnvMaxBytes, &c.MaxBytes); err != nil {
		return err
	}
	if err := envDuration(EnvRequestDelay, &c.RequestDelay); err != nil {
		return err
	}
	return envDuration(EnvTimeout, &c.Timeout)
}

// validate applies the rules on the loaded configuration.
func (c *Config) validate() error {
	if c.MaxItems < 1 {
		return fmt.Errorf("config: %s must be at least 1, got %d", EnvMaxItems, c.MaxItems)
	}
	if c.MaxBytes < 1 {
		return fmt.Errorf("config: %s must be at least 1, got %d", EnvMaxBytes, c.MaxBytes)
	}
	if c.RequestDelay < 0 {
		return fmt.Errorf("config: %s must not be negative", EnvRequestDelay)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("config: %s must be positive", EnvTimeout)
	}
	for name, raw := range map[string]string{EnvAPIBaseURL: c.APIBaseURL, EnvProxy: c.Proxy} {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		parsed, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("config: %s invalid (%q): %w", name, raw, err)
		}
		if parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("config: %s invalid (%q): missing scheme or host", name, raw)
		}
	}
	return nil
}

// TranslatorOptions maps the configuration onto translator options.
func (c *Config) TranslatorOptions() translator.Options {
	delay := c.RequestDelay
	if delay == 0 {
		// zero means "no pause" here, translator treats zero as "default"
		delay = -1
	}
	return translator.Options{
		MaxItems:     c.MaxItems,
		MaxBytes:     c.MaxBytes,
		RequestDelay: delay,
	}
}

func envInt(name string, dst *int) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("config: %s must be an integer: %w", name, err)
	}
	*dst = n
	return nil
}

// envDuration accepts Go durations ("250ms") or plain milliseconds ("250").
func envDuration(name string, dst *time.Duration) error {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return nil
	}
	if ms, err := strconv.Atoi(v); err == nil {
		*dst = time.Duration(ms) * time.Millisecond
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("config: %s must be a duration: %w", name, err)
	}
	*dst = d
	return nil
}
