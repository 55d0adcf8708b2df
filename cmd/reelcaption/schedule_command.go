package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"reelcaption/internal/assets"
	"reelcaption/internal/caption"
	"reelcaption/internal/services"
)

type scheduleOutput struct {
	Src        string           `json:"src"`
	Transcript string           `json:"transcript"`
	Missing    bool             `json:"transcriptMissing"`
	FPS        int              `json:"fps"`
	Windows    []caption.Window `json:"windows"`
}

func newScheduleCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "schedule <src>",
		Short: "Show the caption display windows for an asset",
		Long: "Fetch the transcript for <src> and print its frame-quantized display windows.\n" +
			"The asset itself is not probed, so windows are not clipped to its duration.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, rt, err := ctx.runtime()
			if err != nil {
				return err
			}
			defer rt.Close()

			src := args[0]
			out := scheduleOutput{
				Src:        src,
				Transcript: assets.TranscriptID(src),
				FPS:        cfg.Composition.FPS,
				Windows:    []caption.Window{},
			}

			present := true
			switch {
			case cfg.Transcript.BaseURL != "" || assets.IsRemote(out.Transcript):
			case filepath.IsAbs(out.Transcript):
				present = rt.Registry.Has(out.Transcript)
			default:
				files, err := rt.Registry.Files()
				if err != nil {
					return fmt.Errorf("list static directory: %w", err)
				}
				present = assets.Exists(files, out.Transcript)
			}
			if present {
				entries, err := rt.Source.Fetch(cmd.Context(), out.Transcript)
				switch {
				case errors.Is(err, services.ErrNotFound):
					present = false
				case err != nil:
					return err
				default:
					out.Windows = caption.Schedule(entries, out.FPS)
				}
			}
			out.Missing = !present

			if jsonOutput {
				return writeJSON(cmd, out)
			}
			printSchedule(cmd, out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func printSchedule(cmd *cobra.Command, out scheduleOutput) {
	w := cmd.OutOrStdout()
	if out.Missing {
		fmt.Fprintf(w, "No transcript at %s; the fallback overlay would be shown.\n", out.Transcript)
		return
	}
	if len(out.Windows) == 0 {
		fmt.Fprintf(w, "Transcript %s has no displayable captions.\n", out.Transcript)
		return
	}

	columns := []column{
		{header: "#", align: alignRight},
		{header: "Start", align: alignRight},
		{header: "End", align: alignRight},
		{header: "Frames", align: alignRight},
		{header: "Time"},
		{header: "Text", maxWidth: 48},
	}
	rows := make([][]string, 0, len(out.Windows))
	for i, win := range out.Windows {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(win.StartFrame),
			strconv.Itoa(win.EndFrame),
			strconv.Itoa(win.DurationInFrames()),
			formatTimecode(win.StartFrame, out.FPS),
			win.Text,
		})
	}
	footer := fmt.Sprintf("%s at %d fps", out.Transcript, out.FPS)
	fmt.Fprintln(w, renderTable(columns, rows, footer))
}

