package composition

import (
	"math"
	"testing"

	"reelcaption/internal/caption"
	"reelcaption/internal/metadata"
	"reelcaption/internal/transcript"
)

func testMeta(frames int) metadata.MediaMetadata {
	return metadata.MediaMetadata{FPS: 30, DurationInFrames: frames, Width: 1080, Height: 1920}
}

func testLayout() Layout {
	return Layout{IntroFrames: 60, AudioTrack: "audio.mp3", Audio: VolumeRamp{FadeFrames: 300, MaxVolume: 0.4}}
}

func layersOfKind(stack Stack, kind LayerKind) []Layer {
	var out []Layer
	for _, l := range stack.Layers {
		if l.Kind == kind {
			out = append(out, l)
		}
	}
	return out
}

func TestBuildVideoLayers(t *testing.T) {
	stack := Build(testMeta(450), "clip.mp4", transcript.Snapshot{ID: "clip.json"}, testLayout())
	video := layersOfKind(stack, KindVideo)
	if len(video) != 2 {
		t.Fatalf("expected 2 video layers, got %+v", video)
	}
	if video[0].Fit != FitCover || video[0].From != 0 || video[0].DurationInFrames != 60 {
		t.Fatalf("unexpected intro layer: %+v", video[0])
	}
	if video[1].Fit != FitContain || video[1].From != 60 || video[1].EndFrame() != 450 {
		t.Fatalf("unexpected main layer: %+v", video[1])
	}
}

func TestBuildShortAssetOnlyIntro(t *testing.T) {
	stack := Build(testMeta(45), "clip.mp4", transcript.Snapshot{}, testLayout())
	video := layersOfKind(stack, KindVideo)
	if len(video) != 1 || video[0].DurationInFrames != 45 || video[0].Fit != FitCover {
		t.Fatalf("unexpected video layers: %+v", video)
	}
}

func TestBuildCaptionsClippedToDuration(t *testing.T) {
	snap := transcript.Snapshot{ID: "clip.json", Version: 3, Entries: []caption.Entry{
		{StartInSeconds: 0, Text: "Hello"},
		{StartInSeconds: 0.5, Text: "world"},
		{StartInSeconds: 2.9, Text: "tail"},
		{StartInSeconds: 5, Text: "beyond"},
	}}
	stack := Build(testMeta(90), "clip.mp4", snap, testLayout())

	want := []caption.Window{
		{StartFrame: 0, EndFrame: 15, Text: "Hello"},
		{StartFrame: 15, EndFrame: 45, Text: "world"},
		{StartFrame: 87, EndFrame: 90, Text: "tail"},
	}
	got := stack.Windows()
	if len(got) != len(want) {
		t.Fatalf("windows = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("window %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if stack.Version != 3 || stack.Missing {
		t.Fatalf("unexpected stack header: %+v", stack)
	}
	if len(layersOfKind(stack, KindFallback)) != 0 {
		t.Fatal("fallback must not be shown when a transcript exists")
	}
}

func TestBuildEmptyTranscriptHasNoFallback(t *testing.T) {
	stack := Build(testMeta(90), "clip.mp4", transcript.Snapshot{ID: "clip.json"}, testLayout())
	if len(stack.Windows()) != 0 || len(layersOfKind(stack, KindFallback)) != 0 {
		t.Fatalf("unexpected layers: %+v", stack.Layers)
	}
}

func TestBuildMissingTranscriptUsesFallback(t *testing.T) {
	stack := Build(testMeta(90), "clip.mp4", transcript.Snapshot{ID: "clip.json", Missing: true}, testLayout())
	fallback := layersOfKind(stack, KindFallback)
	if len(fallback) != 1 || fallback[0].From != 0 || fallback[0].DurationInFrames != 90 {
		t.Fatalf("unexpected fallback: %+v", fallback)
	}
	if len(stack.Windows()) != 0 {
		t.Fatal("missing transcript must not produce captions")
	}
}

func TestBuildAudioBed(t *testing.T) {
	stack := Build(testMeta(600), "clip.mp4", transcript.Snapshot{}, testLayout())
	audio := layersOfKind(stack, KindAudio)
	if len(audio) != 1 || audio[0].Src != "audio.mp3" || audio[0].DurationInFrames != 600 {
		t.Fatalf("unexpected audio: %+v", audio)
	}

	noAudio := testLayout()
	noAudio.AudioTrack = ""
	if got := layersOfKind(Build(testMeta(600), "clip.mp4", transcript.Snapshot{}, noAudio), KindAudio); len(got) != 0 {
		t.Fatalf("audio layer without track: %+v", got)
	}
}

func TestBuildZeroDuration(t *testing.T) {
	stack := Build(testMeta(0), "clip.mp4", transcript.Snapshot{Missing: true}, testLayout())
	if len(stack.Layers) != 0 {
		t.Fatalf("expected no layers, got %+v", stack.Layers)
	}
}

func TestVolumeRamp(t *testing.T) {
	ramp := VolumeRamp{FadeFrames: 300, MaxVolume: 0.4}
	tests := []struct {
		frame int
		want  float64
	}{
		{-10, 0},
		{0, 0},
		{150, 0.2},
		{300, 0.4},
		{900, 0.4},
	}
	for _, tt := range tests {
		if got := ramp.At(tt.frame); math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("At(%d) = %v, want %v", tt.frame, got, tt.want)
		}
	}
	if got := (VolumeRamp{MaxVolume: 0.5}).At(0); got != 0.5 {
		t.Fatalf("zero fade should start at max volume, got %v", got)
	}
}

func TestStackAt(t *testing.T) {
	snap := transcript.Snapshot{Entries: []caption.Entry{{StartInSeconds: 1, Text: "hi"}}}
	stack := Build(testMeta(120), "clip.mp4", snap, testLayout())

	active := stack.At(20)
	if len(active) != 2 || active[0].Fit != FitCover || active[1].Kind != KindAudio {
		t.Fatalf("At(20) = %+v", active)
	}
	active = stack.At(45)
	if len(active) != 3 || active[1].Kind != KindCaption || active[1].Text != "hi" {
		t.Fatalf("At(45) = %+v", active)
	}
	if stack.At(120) != nil || stack.At(-1) != nil {
		t.Fatal("frames outside the composition have no layers")
	}
	if v := stack.Volume(60); math.Abs(v-0.08) > 1e-9 {
		t.Fatalf("Volume(60) = %v", v)
	}
	if v := stack.Volume(150); v != 0 {
		t.Fatalf("Volume(150) past the end = %v, want 0", v)
	}
}
