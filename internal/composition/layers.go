package composition

import (
	"reelcaption/internal/caption"
	"reelcaption/internal/metadata"
)

// LayerKind identifies what a layer renders.
type LayerKind string

const (
	KindVideo    LayerKind = "video"
	KindCaption  LayerKind = "caption"
	KindFallback LayerKind = "fallback"
	KindAudio    LayerKind = "audio"
)

// Fit is how a video layer fills the frame.
type Fit string

const (
	FitCover   Fit = "cover"
	FitContain Fit = "contain"
)

// VolumeRamp fades audio linearly from silence to MaxVolume over FadeFrames.
type VolumeRamp struct {
	FadeFrames int     `json:"fadeFrames"`
	MaxVolume  float64 `json:"maxVolume"`
}

// At returns the volume at frame, clamped to [0, MaxVolume].
func (r VolumeRamp) At(frame int) float64 {
	if r.MaxVolume <= 0 {
		return 0
	}
	if r.FadeFrames <= 0 || frame >= r.FadeFrames {
		return r.MaxVolume
	}
	if frame <= 0 {
		return 0
	}
	return r.MaxVolume * float64(frame) / float64(r.FadeFrames)
}

// Layer is one timed element of the composition, active over
// [From, From+DurationInFrames).
type Layer struct {
	Kind             LayerKind   `json:"kind"`
	From             int         `json:"from"`
	DurationInFrames int         `json:"durationInFrames"`
	Src              string      `json:"src,omitempty"`
	Fit              Fit         `json:"fit,omitempty"`
	Text             string      `json:"text,omitempty"`
	Volume           *VolumeRamp `json:"volume,omitempty"`
}

// EndFrame returns the first frame after the layer.
func (l Layer) EndFrame() int {
	return l.From + l.DurationInFrames
}

// Active reports whether the layer is shown at frame.
func (l Layer) Active(frame int) bool {
	return frame >= l.From && frame < l.EndFrame()
}

// Stack is the complete layer set handed to the render collaborator.
type Stack struct {
	Src        string                 `json:"src"`
	Transcript string                 `json:"transcript"`
	Missing    bool                   `json:"transcriptMissing"`
	Version    int                    `json:"transcriptVersion"`
	Metadata   metadata.MediaMetadata `json:"metadata"`
	Layers     []Layer                `json:"layers"`
}

// At returns the layers active at frame in stacking order.
func (s Stack) At(frame int) []Layer {
	if frame < 0 || frame >= s.Metadata.DurationInFrames {
		return nil
	}
	var active []Layer
	for _, layer := range s.Layers {
		if layer.Active(frame) {
			active = append(active, layer)
		}
	}
	return active
}

// Windows returns the caption layers as display windows.
func (s Stack) Windows() []caption.Window {
	var windows []caption.Window
	for _, layer := range s.Layers {
		if layer.Kind != KindCaption {
			continue
		}
		windows = append(windows, caption.Window{
			StartFrame: layer.From,
			EndFrame:   layer.EndFrame(),
			Text:       layer.Text,
		})
	}
	return windows
}

// Volume returns the audio bed volume at frame, or 0 without an audio layer.
func (s Stack) Volume(frame int) float64 {
	for _, layer := range s.Layers {
		if layer.Kind == KindAudio && layer.Volume != nil && layer.Active(frame) {
			return layer.Volume.At(frame - layer.From)
		}
	}
	return 0
}
