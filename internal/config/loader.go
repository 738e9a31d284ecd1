package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultWindowDays = 7
	DefaultMaxItems   = 400

	DefaultTitle       = "Agregat podcastów (7 dni)"
	DefaultLink        = "https://example.com"
	DefaultDescription = "Zbiorczy RSS z filtracją po nazwach podcastów."
	DefaultLanguage    = "pl"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads, defaults and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	// Defaults are set before decoding so an explicit 0 survives.
	c := Config{
		WindowDays: DefaultWindowDays,
		MaxItems:   DefaultMaxItems,
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	setChannelDefaults(&c.Channel)

	if err := validate(&c); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if len(c.Sources) == 0 {
		slog.Warn("Configuration has no sources, output will be empty")
	}

	return &c, nil
}

// Window returns the recency window as a duration.
func (c *Config) Window() time.Duration {
	return time.Duration(c.WindowDays) * 24 * time.Hour
}

func setChannelDefaults(ch *Channel) {
	if ch.Title == "" {
		ch.Title = DefaultTitle
	}
	if ch.Link == "" {
		ch.Link = DefaultLink
	}
	if ch.Description == "" {
		ch.Description = DefaultDescription
	}
	if ch.Language == "" {
		ch.Language = DefaultLanguage
	}
}

func validate(c *Config) error {
	nonNegativeFields := map[string]int{
		"window_days": c.WindowDays,
		"max_items":   c.MaxItems,
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	for i, src := range c.Sources {
		if src.URL == "" {
			return fmt.Errorf("source at index %d: url is required", i)
		}
		if src.Label == "" {
			return fmt.Errorf("source at index %d (%s): label is required", i, src.URL)
		}
	}

	return nil
}
