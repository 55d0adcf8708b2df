package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatTimecode renders a frame index as H:MM:SS.mmm at fps.
func formatTimecode(frame, fps int) string {
	if fps <= 0 {
		return "-"
	}
	ms := int64(frame) * 1000 / int64(fps)
	hours := ms / 3_600_000
	minutes := (ms / 60_000) % 60
	seconds := (ms / 1000) % 60
	return fmt.Sprintf("%d:%02d:%02d.%03d", hours, minutes, seconds, ms%1000)
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
