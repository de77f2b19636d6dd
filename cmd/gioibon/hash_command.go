package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"gioibon/internal/audiocache"
	"gioibon/internal/build"
	"gioibon/internal/ttsrules"
)

func newHashCommand(ctx *commandContext) *cobra.Command {
	var voice string
	var language string
	var normalize bool

	cmd := &cobra.Command{
		Use:   "hash TEXT...",
		Short: "Print the audio artifact name for a text",
		Long: `Print the content-addressed audio artifact name for TEXT, voice and
language. The name is the first 16 hex digits of SHA-256 over
"text|voice|language" plus ".mp3", the same key the web client computes.

By default TEXT is hashed as given; --normalize applies the configured TTS
rules first, as a build does.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(voice) == "" {
				voice = cfg.TTS.Voice
			}
			if strings.TrimSpace(language) == "" {
				language = cfg.TTS.Language
			}

			text := strings.Join(args, " ")
			if normalize {
				rules, err := build.LoadRules(cfg.Paths.TTSRules, nil)
				if err != nil {
					return err
				}
				text = ttsrules.NewNormalizer(rules).Normalize(text)
			}

			key := audiocache.Key(text, voice, language)
			if ctx.JSONMode() {
				return writeJSON(cmd, map[string]string{
					"text":     text,
					"voice":    voice,
					"language": language,
					"key":      key,
					"artifact": audiocache.ArtifactName(key),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), audiocache.ArtifactName(key))
			return nil
		},
	}

	cmd.Flags().StringVar(&voice, "voice", "", "Voice name (defaults to tts.voice)")
	cmd.Flags().StringVar(&language, "lang", "", "Language code (defaults to tts.language)")
	cmd.Flags().BoolVar(&normalize, "normalize", false, "Apply the configured TTS rules before hashing")
	return cmd
}
