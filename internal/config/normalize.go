package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeComposition()
	c.normalizeTranscript()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("REELCAPTION_STATIC_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.StaticDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.StaticDir) == "" {
		c.Paths.StaticDir = defaultStaticDir
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	var err error
	if c.Paths.StaticDir, err = expandPath(c.Paths.StaticDir); err != nil {
		return fmt.Errorf("paths.static_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeComposition() {
	c.Composition.AudioTrack = strings.TrimSpace(c.Composition.AudioTrack)
}

func (c *Config) normalizeTranscript() {
	if c.Transcript.BaseURL == "" {
		if value, ok := os.LookupEnv("REELCAPTION_TRANSCRIPT_BASE_URL"); ok {
			c.Transcript.BaseURL = value
		}
	}
	c.Transcript.BaseURL = strings.TrimRight(strings.TrimSpace(c.Transcript.BaseURL), "/")
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
