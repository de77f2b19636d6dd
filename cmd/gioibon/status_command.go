package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gioibon/internal/build"
	"gioibon/internal/preflight"
	"gioibon/internal/services"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var probe bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check that a build can run",
		Long: `Check the source document, rule documents, output directories and the
speech API configuration. --probe also sends one short synthesis request
to verify the API key, which spends provider quota.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg, probe)
			failed := preflight.Failed(results)

			if ctx.JSONMode() {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				color := isTerminal(out)
				if ctx.configSeen {
					fmt.Fprintf(out, "Config: %s\n", ctx.configPath)
				} else {
					fmt.Fprintln(out, "Config: defaults (no config file found)")
				}
				for _, r := range results {
					fmt.Fprintln(out, renderCheck(r, color))
				}
				for _, h := range build.New(cfg, nil).Health(cmd.Context()) {
					detail := h.Detail
					if detail == "" {
						detail = "ready"
					}
					fmt.Fprintln(out, renderCheck(preflight.Result{Name: "Stage " + h.Name, Passed: h.Ready, Detail: detail}, color))
				}
			}

			if len(failed) > 0 {
				return services.Wrap(services.ErrValidation, "status", "preflight",
					fmt.Sprintf("%d required checks failed", len(failed)), nil)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&probe, "probe", false, "Send a test request to the speech API")
	return cmd
}

func renderCheck(r preflight.Result, color bool) string {
	label, ansi := "OK", ansiGreen
	switch {
	case !r.Passed && r.Optional:
		label, ansi = "WARN", ansiYellow
	case !r.Passed:
		label, ansi = "ERROR", ansiRed
	}
	line := fmt.Sprintf("  %-20s [%s] %s", r.Name+":", label, r.Detail)
	return colorize(line, ansi, color)
}
