package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "probe <src>",
		Short: "Probe an asset and print its composition metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, rt, err := ctx.runtime()
			if err != nil {
				return err
			}
			defer rt.Close()

			meta, err := rt.Deps.Deriver.Derive(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, meta)
			}

			rows := [][]string{
				{"FPS", strconv.Itoa(meta.FPS)},
				{"Duration (frames)", strconv.Itoa(meta.DurationInFrames)},
				{"Duration", formatTimecode(meta.DurationInFrames, meta.FPS)},
				{"Size", fmt.Sprintf("%dx%d", meta.Width, meta.Height)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]column{{header: "Field"}, {header: "Value", align: alignRight}}, rows, args[0]))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
