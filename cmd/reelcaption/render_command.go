package main

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"reelcaption/internal/composition"
	"reelcaption/internal/export"
	"reelcaption/internal/logging"
	"reelcaption/internal/preflight"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string
	var outFlag string
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "render <src>",
		Short: "Build the layer stack for an asset and export it",
		Long: "Probe <src>, load its transcript, and write the composed layer stack.\n" +
			"Use --out - to write JSON or SRT to stdout. SQLite output needs a file.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := export.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			cfg, logger, rt, err := ctx.runtime()
			if err != nil {
				return err
			}
			defer rt.Close()

			if !skipPreflight {
				if err := preflight.Error(preflight.RunAll(cmd.Context(), cfg)); err != nil {
					return err
				}
			}

			session, err := composition.Open(cmd.Context(), rt.Deps, composition.Params{Src: args[0]})
			if err != nil {
				return err
			}
			defer session.Close()
			stack := session.Stack()

			target := strings.TrimSpace(outFlag)
			if target == "" {
				target = defaultOutputPath(cfg.Paths.OutputDir, args[0], format)
			}

			if format == export.FormatSQLite {
				if target == "-" {
					return fmt.Errorf("sqlite output needs a file path, not stdout")
				}
				if err := export.WriteSQLite(cmd.Context(), target, stack); err != nil {
					return err
				}
			} else {
				var buf bytes.Buffer
				if err := export.Write(&buf, stack, format); err != nil {
					return err
				}
				if format == export.FormatSRT {
					if issues := export.CheckSRT(buf.Bytes(), stack.Metadata.DurationSeconds()); len(issues) > 0 {
						logging.WarnWithContext(logger, "subtitle output has issues", "srt_check_failed",
							logging.String("issues", strings.Join(issues, ", ")),
							logging.String(logging.FieldImpact, "players may mistime captions"),
						)
					}
				}
				if target == "-" {
					_, err := cmd.OutOrStdout().Write(buf.Bytes())
					return err
				}
				if err := writeFile(target, buf.Bytes()); err != nil {
					return err
				}
			}

			logger.Info("composition exported",
				logging.String(logging.FieldSessionID, session.ID()),
				logging.String("format", string(format)),
				logging.String("path", target),
				logging.Int("layers", len(stack.Layers)),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d layers, %d captions)\n", target, len(stack.Layers), len(stack.Windows()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json, srt, or sqlite")
	cmd.Flags().StringVarP(&outFlag, "out", "o", "", "Output path (default: <output_dir>/<src name>.<ext>, - for stdout)")
	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Do not check directories before rendering")
	return cmd
}

func defaultOutputPath(outputDir, src string, format export.Format) string {
	base := path.Base(strings.ReplaceAll(src, "\\", "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	if base == "" || base == "." || base == "/" {
		base = "composition"
	}
	return filepath.Join(outputDir, base+format.Extension())
}

func writeFile(target string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
