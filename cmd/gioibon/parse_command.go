package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"gioibon/internal/build"
	"gioibon/internal/document"
	"gioibon/internal/logging"
)

type segmentView struct {
	UID   int    `json:"uid"`
	HTML  string `json:"html"`
	Label string `json:"label"`
	Text  string `json:"segment"`
	Hint  string `json:"hint,omitempty"`
}

func newParseCommand(ctx *commandContext) *cobra.Command {
	var labelFilter string
	var limit int
	var countsOnly bool

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Print the segments of the source document without publishing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger("")
			if err != nil {
				return err
			}
			run, err := build.Parse(cmd.Context(), cfg, logging.NewComponentLogger(logger, "parse"))
			if err != nil {
				return err
			}

			if countsOnly {
				return printLabelCounts(cmd, ctx, document.LabelCounts(run.Segments))
			}

			views := make([]segmentView, 0, len(run.Segments))
			for _, seg := range run.Segments {
				if labelFilter != "" && !strings.EqualFold(seg.Label, labelFilter) {
					continue
				}
				views = append(views, segmentView{UID: seg.UID, HTML: seg.HTML, Label: seg.Label, Text: seg.Text, Hint: seg.Hint})
				if limit > 0 && len(views) >= limit {
					break
				}
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, views)
			}
			rows := make([][]string, 0, len(views))
			for _, v := range views {
				rows = append(rows, []string{strconv.Itoa(v.UID), v.Label, v.HTML, v.Text})
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, renderTable([]string{"UID", "Label", "HTML", "Text"}, rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft}))
			fmt.Fprintf(out, "%d of %d segments from %s\n", len(views), len(run.Segments), run.SourcePath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&labelFilter, "label", "l", "", "Only show segments with this label")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most this many segments")
	cmd.Flags().BoolVar(&countsOnly, "counts", false, "Show segment counts per label instead")
	return cmd
}

func printLabelCounts(cmd *cobra.Command, ctx *commandContext, counts map[string]int) error {
	if ctx.JSONMode() {
		return writeJSON(cmd, counts)
	}
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sortLabels(labels)
	rows := make([][]string, 0, len(labels))
	for _, label := range labels {
		rows = append(rows, []string{label, strconv.Itoa(counts[label])})
	}
	fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"Label", "Segments"}, rows,
		[]columnAlignment{alignLeft, alignRight}))
	return nil
}
