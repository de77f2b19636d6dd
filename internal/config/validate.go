package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTTS(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.Source) == "" {
		return errors.New("paths.source must be set")
	}
	if strings.TrimSpace(c.Paths.DBOut) == "" {
		return errors.New("paths.db_out must be set")
	}
	if strings.TrimSpace(c.Paths.TSVOut) == "" {
		return errors.New("paths.tsv_out must be set")
	}
	if strings.TrimSpace(c.Paths.AudioDir) == "" || strings.TrimSpace(c.Paths.AudioCacheDir) == "" {
		return errors.New("paths.audio_dir and paths.audio_cache_dir must be set")
	}
	if filepath.Clean(c.Paths.AudioDir) == filepath.Clean(c.Paths.AudioCacheDir) {
		return errors.New("paths.audio_dir and paths.audio_cache_dir must differ")
	}
	return nil
}

func (c *Config) validateTTS() error {
	if c.TTS.TimeoutSeconds <= 0 {
		return errors.New("tts.timeout_seconds must be positive")
	}
	if c.TTS.RetryAttempts <= 0 {
		return errors.New("tts.retry_attempts must be positive")
	}
	switch c.TTS.AudioEncoding {
	case "MP3":
	default:
		return fmt.Errorf("tts.audio_encoding %q is not supported (expected MP3)", c.TTS.AudioEncoding)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not recognized", c.Logging.Level)
	}
	return nil
}

// SynthesisReady reports whether audio can be requested from the provider.
func (c *Config) SynthesisReady() bool {
	return c.TTS.Enabled && c.TTS.APIKey != ""
}
