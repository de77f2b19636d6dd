package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"gioibon/internal/audiocache"
	"gioibon/internal/config"
	"gioibon/internal/services"
	"gioibon/internal/store"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and clean the audio staging store",
	}
	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheGCCommand(ctx))
	return cacheCmd
}

type cacheStats struct {
	StagingDir      string `json:"staging_dir"`
	Artifacts       int    `json:"artifacts"`
	SizeBytes       int64  `json:"size_bytes"`
	Referenced      int    `json:"referenced"`
	Orphans         int    `json:"orphans"`
	OrphanBytes     int64  `json:"orphan_bytes"`
	OutputArtifacts int    `json:"output_artifacts"`
	FreeBytes       uint64 `json:"free_bytes"`
	TotalBytes      uint64 `json:"total_bytes"`
	Database        string `json:"database"`
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize staged audio and what the published database references",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			stats, err := collectCacheStats(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, stats)
			}

			referenced := "n/a (no database)"
			orphans := "n/a"
			if stats.Database != "" {
				referenced = strconv.Itoa(stats.Referenced)
				orphans = fmt.Sprintf("%d (%s)", stats.Orphans, humanize.Bytes(uint64(stats.OrphanBytes)))
			}
			rows := [][]string{
				{"Staging directory", stats.StagingDir},
				{"Staged artifacts", fmt.Sprintf("%d (%s)", stats.Artifacts, humanize.Bytes(uint64(stats.SizeBytes)))},
				{"Referenced by database", referenced},
				{"Unreferenced", orphans},
				{"Output artifacts", strconv.Itoa(stats.OutputArtifacts)},
				{"Free space", fmt.Sprintf("%s of %s", humanize.Bytes(stats.FreeBytes), humanize.Bytes(stats.TotalBytes))},
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"Audio cache", ""}, rows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}
}

func collectCacheStats(ctx context.Context, cfg *config.Config) (cacheStats, error) {
	stats := cacheStats{StagingDir: cfg.Paths.AudioCacheDir}

	staged, err := audiocache.List(cfg.Paths.AudioCacheDir)
	if err != nil {
		return stats, fmt.Errorf("list staging store: %w", err)
	}
	stats.Artifacts = len(staged)
	for _, e := range staged {
		stats.SizeBytes += e.Size
	}

	output, err := audiocache.List(cfg.Paths.AudioDir)
	if err != nil {
		return stats, fmt.Errorf("list output audio: %w", err)
	}
	stats.OutputArtifacts = len(output)

	referenced, err := publishedAudio(ctx, cfg.Paths.DBOut)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return stats, err
	default:
		stats.Database = cfg.Paths.DBOut
		stats.Referenced = len(referenced)
		orphans, err := audiocache.Orphans(cfg.Paths.AudioCacheDir, referenced)
		if err != nil {
			return stats, err
		}
		stats.Orphans = len(orphans)
		for _, o := range orphans {
			stats.OrphanBytes += o.Size
		}
	}

	if total, free, err := diskSpace(cfg.Paths.AudioCacheDir); err == nil {
		stats.TotalBytes, stats.FreeBytes = total, free
	}
	return stats, nil
}

// publishedAudio returns the artifact names the published database references.
func publishedAudio(ctx context.Context, dbPath string) (map[string]struct{}, error) {
	reader, err := store.OpenReader(ctx, dbPath)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return reader.AudioNames(ctx)
}

func diskSpace(path string) (uint64, uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, 0, err
	}
	total := stat.Blocks * uint64(stat.Bsize)
	free := stat.Bavail * uint64(stat.Bsize)
	return total, free, nil
}

func newCacheGCCommand(ctx *commandContext) *cobra.Command {
	var yes bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "gc",
		Short: "Remove staged audio the published database no longer references",
		Long: `Remove artifacts from the audio staging store that no segment in the
published database references.

The candidates are listed first. Deletion needs confirmation on an
interactive terminal, or --yes when input is not a terminal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			lock, err := audiocache.AcquireLock(cfg.Paths.AudioCacheDir)
			if err != nil {
				return services.Wrap(services.ErrValidation, "cache gc", "lock audio cache", cfg.Paths.AudioCacheDir, err)
			}
			defer lock.Release()

			referenced, err := publishedAudio(cmd.Context(), cfg.Paths.DBOut)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return services.Wrap(services.ErrInputMissing, "cache gc", "read database", "run gioibon build first", err)
				}
				return services.Wrap(services.ErrStore, "cache gc", "read database", cfg.Paths.DBOut, err)
			}
			orphans, err := audiocache.Orphans(cfg.Paths.AudioCacheDir, referenced)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(orphans) == 0 {
				if ctx.JSONMode() {
					return writeJSON(cmd, audiocache.RemoveResult{})
				}
				fmt.Fprintln(out, "No unreferenced audio in the staging store")
				return nil
			}

			if !ctx.JSONMode() {
				printOrphans(cmd, orphans)
			}
			if dryRun {
				if ctx.JSONMode() {
					return writeJSON(cmd, orphans)
				}
				fmt.Fprintln(out, "Dry run; nothing removed")
				return nil
			}
			if !yes {
				if !isTerminal(cmd.InOrStdin()) {
					return services.Wrap(services.ErrValidation, "cache gc", "confirm", "input is not a terminal; rerun with --yes", nil)
				}
				if !confirm(cmd.InOrStdin(), out, fmt.Sprintf("Remove %d files?", len(orphans))) {
					fmt.Fprintln(out, "Aborted")
					return nil
				}
			}

			logger, err := ctx.logger("")
			if err != nil {
				return err
			}
			result := audiocache.RemoveOrphans(orphans, logger)
			if ctx.JSONMode() {
				return writeJSON(cmd, result)
			}
			fmt.Fprintf(out, "Removed %d files, freed %s\n", len(result.Removed), humanize.Bytes(uint64(result.FreedBytes)))
			for _, e := range result.Errors {
				fmt.Fprintf(out, "  failed: %s: %s\n", e.Path, e.Error)
			}
			if len(result.Errors) > 0 {
				return fmt.Errorf("%d files could not be removed", len(result.Errors))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List candidates without deleting")
	return cmd
}

func printOrphans(cmd *cobra.Command, orphans []audiocache.Entry) {
	var total int64
	rows := make([][]string, 0, len(orphans))
	for _, o := range orphans {
		total += o.Size
		rows = append(rows, []string{o.Name, humanize.Bytes(uint64(o.Size)), humanize.RelTime(o.ModTime, time.Now(), "ago", "from now")})
	}
	out := cmd.OutOrStdout()
	fmt.Fprint(out, renderTable([]string{"Artifact", "Size", "Staged"}, rows,
		[]columnAlignment{alignLeft, alignRight, alignRight}))
	fmt.Fprintf(out, "%d unreferenced files, %s\n", len(orphans), humanize.Bytes(uint64(total)))
}
