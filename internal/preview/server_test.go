package preview

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"reelcaption/internal/caption"
	"reelcaption/internal/composition"
	"reelcaption/internal/metadata"
	"reelcaption/internal/transcript"
)

type staticComposer struct {
	stack composition.Stack
}

func (c *staticComposer) ID() string               { return "session-1" }
func (c *staticComposer) Stack() composition.Stack { return c.stack }

func newComposer(missing bool) *staticComposer {
	meta := metadata.MediaMetadata{FPS: 30, DurationInFrames: 300, Width: 1080, Height: 1920}
	snap := transcript.Snapshot{ID: "clip.json", Version: 1, Missing: missing}
	if !missing {
		snap.Entries = []caption.Entry{{StartInSeconds: 0, Text: "Hello"}, {StartInSeconds: 0.5, Text: "world"}}
	}
	layout := composition.Layout{IntroFrames: 60, AudioTrack: "audio.mp3", Audio: composition.VolumeRamp{FadeFrames: 300, MaxVolume: 0.4}}
	return &staticComposer{stack: composition.Build(meta, "clip.mp4", snap, layout)}
}

func get(t *testing.T, h http.Handler, target string, into any) int {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	if into != nil && rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), into); err != nil {
			t.Fatalf("decode %s: %v", target, err)
		}
	}
	return rec.Code
}

func TestStatusEndpoint(t *testing.T) {
	srv := New(newComposer(false), Options{})
	var status StatusResponse
	if code := get(t, srv.Handler(), "/api/status", &status); code != http.StatusOK {
		t.Fatalf("status code %d", code)
	}
	if status.SessionID != "session-1" || status.Windows != 2 || status.DurationInFrames != 300 || status.TranscriptMissing {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestWindowsEndpointEmptyList(t *testing.T) {
	srv := New(newComposer(true), Options{})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/windows", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status code %d", rec.Code)
	}
	if got := rec.Body.String(); got != "{\"windows\":[]}\n" {
		t.Fatalf("body = %q", got)
	}
}

func TestCompositionEndpoint(t *testing.T) {
	srv := New(newComposer(true), Options{})
	var stack composition.Stack
	if code := get(t, srv.Handler(), "/api/composition", &stack); code != http.StatusOK {
		t.Fatalf("status code %d", code)
	}
	if !stack.Missing || len(stack.Layers) == 0 {
		t.Fatalf("unexpected stack: %+v", stack)
	}
}

func TestFrameEndpoint(t *testing.T) {
	srv := New(newComposer(false), Options{})
	h := srv.Handler()

	var frame FrameResponse
	if code := get(t, h, "/api/frame?n=20", &frame); code != http.StatusOK {
		t.Fatalf("status code %d", code)
	}
	if frame.Caption != "world" || frame.Seconds == 0 || len(frame.Layers) != 3 {
		t.Fatalf("unexpected frame: %+v", frame)
	}

	tests := []struct {
		target string
		want   int
	}{
		{"/api/frame", http.StatusBadRequest},
		{"/api/frame?n=abc", http.StatusBadRequest},
		{"/api/frame?n=-1", http.StatusBadRequest},
		{"/api/frame?n=300", http.StatusBadRequest},
	}
	for _, tt := range tests {
		if code := get(t, h, tt.target, nil); code != tt.want {
			t.Fatalf("%s: status %d, want %d", tt.target, code, tt.want)
		}
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := New(newComposer(false), Options{})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/status", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status code %d", rec.Code)
	}
}

func TestStartHoldsLock(t *testing.T) {
	lockDir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := New(newComposer(false), Options{Bind: "127.0.0.1:0", LockDir: lockDir})
	if err := first.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer first.Stop()
	if first.Addr() == "" {
		t.Fatal("expected bound address")
	}

	resp, err := http.Get("http://" + first.Addr() + "/api/status")
	if err != nil {
		t.Fatalf("GET status: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code %d", resp.StatusCode)
	}

	second := New(newComposer(false), Options{Bind: "127.0.0.1:0", LockDir: lockDir})
	if err := second.Start(ctx); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("second Start = %v, want ErrAlreadyRunning", err)
	}

	first.Stop()
	third := New(newComposer(false), Options{Bind: "127.0.0.1:0", LockDir: lockDir})
	if err := third.Start(ctx); err != nil {
		t.Fatalf("Start after Stop: %v", err)
	}
	third.Stop()
}
