package config

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateComposition(); err != nil {
		return err
	}
	if err := c.validateTimeouts(); err != nil {
		return err
	}
	if err := c.validateTranscript(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateComposition() error {
	if err := ensurePositiveMap(map[string]int{
		"composition.fps":    c.Composition.FPS,
		"composition.width":  c.Composition.Width,
		"composition.height": c.Composition.Height,
	}); err != nil {
		return err
	}
	if c.Composition.IntroFrames < 0 {
		return errors.New("composition.intro_frames must be zero or positive")
	}
	if c.Composition.AudioFadeFrames < 0 {
		return errors.New("composition.audio_fade_frames must be zero or positive")
	}
	if c.Composition.AudioMaxVolume < 0 || c.Composition.AudioMaxVolume > 1 {
		return errors.New("composition.audio_max_volume must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateTimeouts() error {
	if c.Probe.TimeoutSeconds < 0 {
		return errors.New("probe.timeout_seconds must be zero (no timeout) or positive")
	}
	if c.Transcript.TimeoutSeconds < 0 {
		return errors.New("transcript.timeout_seconds must be zero (no timeout) or positive")
	}
	return nil
}

func (c *Config) validateTranscript() error {
	if c.Transcript.BaseURL == "" {
		return nil
	}
	parsed, err := url.Parse(c.Transcript.BaseURL)
	if err != nil {
		return fmt.Errorf("transcript.base_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("transcript.base_url must use http or https, got %q", parsed.Scheme)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if values[key] <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
