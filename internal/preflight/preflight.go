package preflight

import (
	"context"
	"fmt"
	"strings"

	"reelcaption/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Transcripts are read from the static directory unless fetched over HTTP.
	if cfg.Transcript.BaseURL == "" {
		results = append(results, CheckDirectoryAccess("Static directory", cfg.Paths.StaticDir, ReadOnly))
	} else {
		results = append(results, CheckTranscriptServer(ctx, cfg.Transcript.BaseURL))
	}

	results = append(results, CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir, ReadWrite))
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir, ReadWrite))
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

// Error summarizes failed results, or returns nil when all passed.
func Error(results []Result) error {
	failed := Failed(results)
	if len(failed) == 0 {
		return nil
	}
	parts := make([]string, 0, len(failed))
	for _, r := range failed {
		parts = append(parts, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	return fmt.Errorf("preflight failed: %s", strings.Join(parts, "; "))
}
