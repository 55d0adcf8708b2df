package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"reelcaption/internal/composition"
	"reelcaption/internal/logging"
	"reelcaption/internal/preflight"
	"reelcaption/internal/preview"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bindFlag string

	cmd := &cobra.Command{
		Use:   "serve <src>",
		Short: "Serve a live preview API for an asset",
		Long: "Open a composition for <src> and expose it over HTTP until interrupted.\n" +
			"Edits to the transcript file are picked up without a restart when transcript.watch is enabled.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, rt, err := ctx.runtime()
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := preflight.Error(preflight.RunAll(cmd.Context(), cfg)); err != nil {
				return err
			}

			runCtx, stop := signalContext(cmd.Context())
			defer stop()

			session, err := composition.Open(runCtx, rt.Deps, composition.Params{Src: args[0]})
			if err != nil {
				return err
			}
			defer session.Close()

			bind := strings.TrimSpace(bindFlag)
			if bind == "" {
				bind = cfg.Paths.APIBind
			}
			srv := preview.New(session, preview.Options{Bind: bind, LockDir: cfg.Paths.LogDir, Logger: logger})
			if err := srv.Start(runCtx); err != nil {
				return err
			}
			defer srv.Stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Preview for %s at http://%s/api/status (Ctrl+C to stop)\n", args[0], srv.Addr())

			for {
				select {
				case <-runCtx.Done():
					return nil
				case stack := <-session.Updates():
					logger.Info("preview updated",
						logging.String(logging.FieldSessionID, session.ID()),
						logging.Int("transcript_version", stack.Version),
						logging.Int("captions", len(stack.Windows())),
					)
				}
			}
		},
	}

	cmd.Flags().StringVar(&bindFlag, "bind", "", "Listen address (default: paths.api_bind)")
	return cmd
}
