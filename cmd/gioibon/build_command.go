package main

import (
	"fmt"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"gioibon/internal/build"
	"gioibon/internal/stage"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var noTTS bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Parse the source, resolve audio and publish the outputs",
		Long: `Parse the source document into segments, resolve each segment's audio
through the staging cache (synthesizing misses when the speech API is
configured), then write the TSV export, the SQLite database and its
version descriptor.

The database and descriptor are left untouched when their content has not
changed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			runID := uuid.NewString()
			logger, err := ctx.logger(runID)
			if err != nil {
				return err
			}

			runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			opts := []build.Option{build.WithRunID(runID)}
			if noTTS {
				opts = append(opts, build.WithSynthesizer(nil))
			}
			summary, err := build.New(cfg, logger, opts...).Run(runCtx)
			if err != nil {
				return err
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, summary)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderSummary(summary))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noTTS, "no-tts", false, "Use cached audio only; never call the speech API")
	return cmd
}

func renderSummary(s stage.Summary) string {
	rows := [][]string{
		{"Segments", strconv.Itoa(s.Segments)},
		{"Synthesized", strconv.Itoa(s.Synthesized)},
		{"Reused", strconv.Itoa(s.Reused)},
		{"Skipped", strconv.Itoa(s.Skipped)},
		{"Missing", strconv.Itoa(s.Missing)},
		{"Failed", strconv.Itoa(s.Failed)},
		{"Pruned", strconv.Itoa(s.Pruned)},
		{"Database changed", yesNo(s.StoreChanged)},
		{"Version rewritten", yesNo(s.VersionRewritten)},
		{"Version", shortVersion(s.Version)},
		{"Duration", s.Duration.Round(time.Millisecond).String()},
	}
	return renderTable([]string{"Build " + s.RunID, ""}, rows, []columnAlignment{alignLeft, alignRight})
}

func shortVersion(v string) string {
	if len(v) > 16 {
		return v[:16]
	}
	return v
}
