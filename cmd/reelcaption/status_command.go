package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"reelcaption/internal/deps"
	"reelcaption/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report configuration, dependencies, and directory health",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			var lines []string
			lines = append(lines, renderSectionHeader("Configuration", colorize)...)
			configDetail := ctx.configPath
			if !ctx.configSeen {
				configDetail += " (not found, defaults in use)"
			}
			lines = append(lines,
				renderStatusLine("Config", statusInfo, configDetail, colorize),
				renderStatusLine("Frame rate", statusInfo, fmt.Sprintf("%d fps, %dx%d", cfg.Composition.FPS, cfg.Composition.Width, cfg.Composition.Height), colorize),
				renderStatusLine("Hot reload", statusInfo, yesNo(cfg.Transcript.Watch && cfg.Transcript.BaseURL == ""), colorize),
			)

			statuses := preflight.CheckSystemDeps(cfg)
			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Dependencies", colorize)...)
			lines = append(lines, dependencyLines(statuses, colorize)...)

			results := preflight.RunAll(cmd.Context(), cfg)
			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Preflight", colorize)...)
			lines = append(lines, preflightLines(results, colorize)...)

			for _, line := range lines {
				fmt.Fprintln(out, line)
			}

			if missingRequired(statuses) || len(preflight.Failed(results)) > 0 {
				return errors.New("one or more checks failed")
			}
			return nil
		},
	}
}

func missingRequired(statuses []deps.Status) bool {
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			return true
		}
	}
	return false
}
