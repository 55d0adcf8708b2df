package metadata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"strings"
	"time"

	"reelcaption/internal/assets"
	"reelcaption/internal/caption"
	"reelcaption/internal/deps"
	"reelcaption/internal/logging"
	"reelcaption/internal/media/ffprobe"
	"reelcaption/internal/services"
)

// MediaMetadata sizes a composition. It is immutable for the lifetime of a render.
type MediaMetadata struct {
	FPS              int `json:"fps"`
	DurationInFrames int `json:"durationInFrames"`
	Width            int `json:"width"`
	Height           int `json:"height"`
}

// DurationSeconds returns the composition length in seconds.
func (m MediaMetadata) DurationSeconds() float64 {
	if m.FPS <= 0 {
		return 0
	}
	return float64(m.DurationInFrames) / float64(m.FPS)
}

// Probe is what the prober reports about an asset.
type Probe struct {
	DurationSeconds float64
	NativeFPS       float64
}

// Prober inspects an asset. Implementations must not retry.
type Prober interface {
	Probe(ctx context.Context, asset string) (Probe, error)
}

// FFprobeProber probes assets with the ffprobe binary. Relative asset
// references are resolved against Root.
type FFprobeProber struct {
	Binary string
	Root   string
}

// Probe runs ffprobe once against asset.
func (p FFprobeProber) Probe(ctx context.Context, asset string) (Probe, error) {
	target := asset
	if p.Root != "" && !assets.IsRemote(asset) && !filepath.IsAbs(asset) {
		target = filepath.Join(p.Root, filepath.FromSlash(assets.Normalize(asset)))
	}
	result, err := ffprobe.Inspect(ctx, deps.ResolveFFprobePath(p.Binary), target)
	if err != nil {
		return Probe{}, err
	}
	return Probe{DurationSeconds: result.DurationSeconds(), NativeFPS: result.FrameRate()}, nil
}

// Options configures a Deriver.
type Options struct {
	FPS     int
	Width   int
	Height  int
	Timeout time.Duration
}

// Deriver turns probe results into MediaMetadata.
type Deriver struct {
	prober Prober
	opts   Options
	logger *slog.Logger
}

// NewDeriver constructs a Deriver. A zero Timeout waits indefinitely.
func NewDeriver(prober Prober, opts Options, logger *slog.Logger) *Deriver {
	return &Deriver{
		prober: prober,
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "metadata"),
	}
}

// Derive probes asset once and returns its metadata. Every error is a fatal
// initialization error for the caller.
func (d *Deriver) Derive(ctx context.Context, asset string) (MediaMetadata, error) {
	asset = strings.TrimSpace(asset)
	if asset == "" {
		return MediaMetadata{}, services.Wrap(services.ErrValidation, "metadata", "derive", "asset reference is empty", nil)
	}
	if d.prober == nil {
		return MediaMetadata{}, services.Wrap(services.ErrConfiguration, "metadata", "derive", "no prober configured", nil)
	}
	if d.opts.FPS <= 0 {
		return MediaMetadata{}, services.Wrap(services.ErrConfiguration, "metadata", "derive",
			fmt.Sprintf("frame rate must be positive, got %d", d.opts.FPS), nil)
	}

	probeCtx := ctx
	if d.opts.Timeout > 0 {
		var cancel context.CancelFunc
		probeCtx, cancel = context.WithTimeout(ctx, d.opts.Timeout)
		defer cancel()
	}

	started := time.Now()
	probe, err := d.prober.Probe(probeCtx, asset)
	if err != nil {
		if errors.Is(probeCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return MediaMetadata{}, services.Wrap(services.ErrTimeout, "metadata", "probe",
				fmt.Sprintf("probe of %s exceeded %s", asset, d.opts.Timeout), err)
		}
		return MediaMetadata{}, services.Wrap(services.ErrExternalTool, "metadata", "probe",
			fmt.Sprintf("probe of %s failed", asset), err)
	}

	seconds := probe.DurationSeconds
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds <= 0 {
		return MediaMetadata{}, services.Wrap(services.ErrValidation, "metadata", "probe",
			fmt.Sprintf("asset %s reported unusable duration %v", asset, seconds), nil)
	}

	meta := MediaMetadata{
		FPS:              d.opts.FPS,
		DurationInFrames: FramesFor(seconds, d.opts.FPS),
		Width:            d.opts.Width,
		Height:           d.opts.Height,
	}
	if meta.DurationInFrames <= 0 {
		return MediaMetadata{}, services.Wrap(services.ErrValidation, "metadata", "probe",
			fmt.Sprintf("asset %s is shorter than one frame", asset), nil)
	}

	attrs := []logging.Attr{
		logging.String(logging.FieldAsset, asset),
		logging.Float64("duration_seconds", seconds),
		logging.Int("duration_frames", meta.DurationInFrames),
		logging.Int("fps", meta.FPS),
		logging.Duration("elapsed", time.Since(started)),
	}
	if probe.NativeFPS > 0 && math.Abs(probe.NativeFPS-float64(meta.FPS)) > 0.01 {
		attrs = append(attrs, logging.Float64("native_fps", probe.NativeFPS))
	}
	d.logger.Debug("asset probed", logging.Args(attrs...)...)
	return meta, nil
}

// FramesFor returns floor(seconds*fps) using the same quantization as the
// caption scheduler.
func FramesFor(seconds float64, fps int) int {
	return caption.FrameAt(seconds, fps)
}
