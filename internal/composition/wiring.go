package composition

import (
	"log/slog"
	"time"

	"reelcaption/internal/assets"
	"reelcaption/internal/config"
	"reelcaption/internal/logging"
	"reelcaption/internal/metadata"
	"reelcaption/internal/transcript"
)

// Runtime holds the collaborators built from configuration.
type Runtime struct {
	Registry *assets.Registry
	Watcher  *assets.Watcher
	Source   transcript.Source
	Deps     Deps
}

// NewRuntime builds the production collaborators: an ffprobe-backed deriver,
// a file or HTTP transcript source, and, when enabled, an fsnotify watcher.
func NewRuntime(cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	registry := assets.NewRegistry(cfg.Paths.StaticDir)

	var source transcript.Source = transcript.FileSource{Registry: registry}
	var existence transcript.Registry = registry
	if cfg.Transcript.BaseURL != "" {
		source = transcript.NewHTTPSource(cfg.Transcript.BaseURL, seconds(cfg.Transcript.TimeoutSeconds))
		existence = nil
	}

	rt := &Runtime{Registry: registry, Source: source}
	if cfg.Transcript.Watch && cfg.Transcript.BaseURL == "" {
		watcher, err := assets.NewWatcher(registry, logger)
		if err != nil {
			logging.WarnWithContext(logging.NewComponentLogger(logger, "composition"),
				"file watching unavailable", "watcher_init_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "captions will not hot-reload"),
			)
		} else {
			rt.Watcher = watcher
		}
	}

	deriver := metadata.NewDeriver(
		metadata.FFprobeProber{Binary: cfg.FFprobeBinary(), Root: registry.Root()},
		metadata.Options{
			FPS:     cfg.Composition.FPS,
			Width:   cfg.Composition.Width,
			Height:  cfg.Composition.Height,
			Timeout: seconds(cfg.Probe.TimeoutSeconds),
		},
		logger,
	)

	rt.Deps = Deps{
		Deriver: deriver,
		NewTranscripts: func(asset string) Transcripts {
			opts := transcript.Options{
				Source:   source,
				Registry: existence,
				Timeout:  seconds(cfg.Transcript.TimeoutSeconds),
				Logger:   logger,
			}
			if rt.Watcher != nil {
				opts.Watcher = rt.Watcher
			}
			return transcript.NewController(asset, opts)
		},
		Layout: LayoutFromConfig(cfg.Composition),
		Logger: logger,
	}
	return rt, nil
}

// Close releases the file watcher.
func (r *Runtime) Close() error {
	if r == nil || r.Watcher == nil {
		return nil
	}
	return r.Watcher.Close()
}

func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}
