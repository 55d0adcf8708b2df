package composition

import (
	"reelcaption/internal/caption"
	"reelcaption/internal/config"
	"reelcaption/internal/metadata"
	"reelcaption/internal/transcript"
)

// Layout holds the composition settings that do not depend on the asset.
type Layout struct {
	IntroFrames int
	AudioTrack  string
	Audio       VolumeRamp
}

// LayoutFromConfig maps composition configuration onto a Layout.
func LayoutFromConfig(c config.Composition) Layout {
	return Layout{
		IntroFrames: c.IntroFrames,
		AudioTrack:  c.AudioTrack,
		Audio: VolumeRamp{
			FadeFrames: c.AudioFadeFrames,
			MaxVolume:  c.AudioMaxVolume,
		},
	}
}

// Build lays out the stack for src. Video comes first, then either the
// caption overlays or the fallback overlay, then the audio bed. Caption
// windows are clipped to the composition duration.
func Build(meta metadata.MediaMetadata, src string, snap transcript.Snapshot, layout Layout) Stack {
	total := meta.DurationInFrames
	stack := Stack{
		Src:        src,
		Transcript: snap.ID,
		Missing:    snap.Missing,
		Version:    snap.Version,
		Metadata:   meta,
	}
	if total <= 0 {
		return stack
	}

	intro := min(max(layout.IntroFrames, 0), total)
	if intro > 0 {
		stack.Layers = append(stack.Layers, Layer{Kind: KindVideo, From: 0, DurationInFrames: intro, Src: src, Fit: FitCover})
	}
	if total > intro {
		stack.Layers = append(stack.Layers, Layer{Kind: KindVideo, From: intro, DurationInFrames: total - intro, Src: src, Fit: FitContain})
	}

	if snap.Missing {
		stack.Layers = append(stack.Layers, Layer{Kind: KindFallback, From: 0, DurationInFrames: total})
	} else {
		for _, w := range caption.Schedule(snap.Entries, meta.FPS) {
			if w.StartFrame >= total {
				break
			}
			end := min(w.EndFrame, total)
			stack.Layers = append(stack.Layers, Layer{
				Kind:             KindCaption,
				From:             w.StartFrame,
				DurationInFrames: end - w.StartFrame,
				Text:             w.Text,
			})
		}
	}

	if layout.AudioTrack != "" {
		ramp := layout.Audio
		stack.Layers = append(stack.Layers, Layer{
			Kind:             KindAudio,
			From:             0,
			DurationInFrames: total,
			Src:              layout.AudioTrack,
			Volume:           &ramp,
		})
	}
	return stack
}
