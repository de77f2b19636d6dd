package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultConfigPath  = "~/.config/gioibon/config.toml"
	projectConfigName  = "gioibon.toml"
	defaultSourcePath  = "data/Gioi bon Viet"
	defaultTSVOut      = "data/content/content.tsv"
	defaultDBOut       = "web/app-content/content.db"
	defaultAudioDir    = "web/app-content/audio"
	defaultTTSRules    = "web/app-content/tts_rules.json"
	defaultTTSBaseURL  = "https://texttospeech.googleapis.com/v1/text:synthesize"
	defaultTTSVoice    = "vi-VN-Chirp3-HD-Charon"
	defaultTTSLanguage = "vi-VN"
	defaultTTSEncoding = "MP3"
	defaultTTSTimeout  = 30
	defaultTTSRetries  = 3
	defaultAlbum       = "Giới bổn Patimokkha Việt"
	defaultArtist      = "Vi-Charon"
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"

	// TTSAPIKeyEnv is consulted when tts.api_key is empty.
	TTSAPIKeyEnv = "GOOGLE_TTS_API_KEY"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			Source:        defaultSourcePath,
			TSVOut:        defaultTSVOut,
			DBOut:         defaultDBOut,
			AudioDir:      defaultAudioDir,
			AudioCacheDir: defaultAudioCacheDir(),
			TTSRules:      defaultTTSRules,
		},
		TTS: TTS{
			Enabled:        true,
			BaseURL:        defaultTTSBaseURL,
			Voice:          defaultTTSVoice,
			Language:       defaultTTSLanguage,
			AudioEncoding:  defaultTTSEncoding,
			TimeoutSeconds: defaultTTSTimeout,
			RetryAttempts:  defaultTTSRetries,
			TagMetadata:    true,
			Album:          defaultAlbum,
			Artist:         defaultArtist,
		},
		Store: Store{IndexLabel: true},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func defaultAudioCacheDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "gioibon", "tts")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/gioibon/tts"
	}
	return filepath.Join(home, ".cache", "gioibon", "tts")
}
