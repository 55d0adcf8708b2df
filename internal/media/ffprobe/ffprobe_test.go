package ffprobe

import (
	"context"
	"math"
	"testing"
)

const sampleOutput = `{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video", "width": 1920, "height": 1080,
     "avg_frame_rate": "30000/1001", "r_frame_rate": "30/1", "duration": "10.010000"},
    {"index": 1, "codec_name": "aac", "codec_type": "audio", "avg_frame_rate": "0/0", "duration": "10.000000"}
  ],
  "format": {"filename": "sample-video.mp4", "duration": "10.010000", "size": "123456", "format_name": "mov,mp4"}
}`

func TestParseAndHelpers(t *testing.T) {
	result, err := Parse([]byte(sampleOutput))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if result.DurationSeconds() != 10.01 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	stream, ok := result.VideoStream()
	if !ok || stream.Width != 1920 {
		t.Fatalf("unexpected video stream %+v", stream)
	}
	if rate := result.FrameRate(); math.Abs(rate-29.97) > 0.01 {
		t.Fatalf("unexpected frame rate %v", rate)
	}
}

func TestDurationFallsBackToStreams(t *testing.T) {
	result := Result{
		Streams: []Stream{{CodecType: "video", Duration: "4.5"}, {CodecType: "audio", Duration: "5.25"}},
	}
	if result.DurationSeconds() != 5.25 {
		t.Fatalf("expected longest stream duration, got %v", result.DurationSeconds())
	}
}

func TestHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{
		Streams: []Stream{{CodecType: "video", AvgFrameRate: "0/0", RFrameRate: "bad"}},
		Format:  Format{Duration: "bad"},
	}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if result.FrameRate() != 0 {
		t.Fatalf("expected frame rate 0, got %v", result.FrameRate())
	}
	if (Result{}).FrameRate() != 0 {
		t.Fatal("expected 0 frame rate without video stream")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse([]byte("not json")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestInspectRejectsEmptyPath(t *testing.T) {
	if _, err := Inspect(context.Background(), "", "  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
