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
	c.normalizeTTS()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	fields := []struct {
		key      string
		value    *string
		fallback string
	}{
		{"paths.source", &c.Paths.Source, defaultSourcePath},
		{"paths.rule_names", &c.Paths.RuleNames, ""},
		{"paths.tsv_out", &c.Paths.TSVOut, defaultTSVOut},
		{"paths.db_out", &c.Paths.DBOut, defaultDBOut},
		{"paths.audio_dir", &c.Paths.AudioDir, defaultAudioDir},
		{"paths.audio_cache_dir", &c.Paths.AudioCacheDir, defaultAudioCacheDir()},
		{"paths.tts_rules", &c.Paths.TTSRules, ""},
		{"paths.log_dir", &c.Paths.LogDir, ""},
	}
	for _, field := range fields {
		trimmed := strings.TrimSpace(*field.value)
		if trimmed == "" {
			trimmed = field.fallback
		}
		expanded, err := expandPath(trimmed)
		if err != nil {
			return fmt.Errorf("%s: %w", field.key, err)
		}
		*field.value = expanded
	}
	return nil
}

func (c *Config) normalizeTTS() {
	c.TTS.APIKey = strings.TrimSpace(c.TTS.APIKey)
	if c.TTS.APIKey == "" {
		if value, ok := os.LookupEnv(TTSAPIKeyEnv); ok {
			c.TTS.APIKey = strings.TrimSpace(value)
		}
	}
	c.TTS.BaseURL = strings.TrimSpace(c.TTS.BaseURL)
	if c.TTS.BaseURL == "" {
		c.TTS.BaseURL = defaultTTSBaseURL
	}
	c.TTS.Voice = strings.TrimSpace(c.TTS.Voice)
	if c.TTS.Voice == "" {
		c.TTS.Voice = defaultTTSVoice
	}
	c.TTS.Language = strings.TrimSpace(c.TTS.Language)
	if c.TTS.Language == "" {
		c.TTS.Language = defaultTTSLanguage
	}
	c.TTS.AudioEncoding = strings.ToUpper(strings.TrimSpace(c.TTS.AudioEncoding))
	if c.TTS.AudioEncoding == "" {
		c.TTS.AudioEncoding = defaultTTSEncoding
	}
	if c.TTS.TimeoutSeconds == 0 {
		c.TTS.TimeoutSeconds = defaultTTSTimeout
	}
	if c.TTS.RetryAttempts == 0 {
		c.TTS.RetryAttempts = defaultTTSRetries
	}
	c.TTS.Album = strings.TrimSpace(c.TTS.Album)
	c.TTS.Artist = strings.TrimSpace(c.TTS.Artist)
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
