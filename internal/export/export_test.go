package export

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"reelcaption/internal/caption"
	"reelcaption/internal/composition"
	"reelcaption/internal/metadata"
	"reelcaption/internal/services"
	"reelcaption/internal/transcript"
)

func sampleStack() composition.Stack {
	meta := metadata.MediaMetadata{FPS: 30, DurationInFrames: 4000, Width: 1080, Height: 1920}
	snap := transcript.Snapshot{ID: "clip.json", Version: 1, Entries: []caption.Entry{
		{StartInSeconds: 0, Text: "Hello"},
		{StartInSeconds: 0.5, Text: "world"},
		{StartInSeconds: 125.1, Text: "later"},
	}}
	layout := composition.Layout{IntroFrames: 60, AudioTrack: "audio.mp3", Audio: composition.VolumeRamp{FadeFrames: 300, MaxVolume: 0.4}}
	return composition.Build(meta, "clip.mp4", snap, layout)
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{"json": FormatJSON, " SRT ": FormatSRT, "sqlite": FormatSQLite, "db": FormatSQLite}
	for input, want := range tests {
		got, err := ParseFormat(input)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", input, got, err)
		}
	}
	if _, err := ParseFormat("xml"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if FormatSQLite.Extension() != ".db" || FormatSRT.Extension() != ".srt" {
		t.Fatal("unexpected extensions")
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleStack(), FormatJSON); err != nil {
		t.Fatalf("Write: %v", err)
	}
	var decoded composition.Stack
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Metadata.DurationInFrames != 4000 || len(decoded.Windows()) != 3 {
		t.Fatalf("unexpected decoded stack: %+v", decoded)
	}
}

func TestWriteSRT(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleStack(), FormatSRT); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := "1\n00:00:00,000 --> 00:00:00,500\nHello\n\n" +
		"2\n00:00:00,500 --> 00:00:01,500\nworld\n\n" +
		"3\n00:02:05,100 --> 00:02:06,100\nlater\n"
	if buf.String() != want {
		t.Fatalf("srt mismatch:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteRejectsSQLiteStream(t *testing.T) {
	if err := Write(&bytes.Buffer{}, sampleStack(), FormatSQLite); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestWriteSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "clip.db")
	stack := sampleStack()
	ctx := context.Background()

	// Written twice to confirm the previous export is replaced.
	for range 2 {
		if err := WriteSQLite(ctx, path, stack); err != nil {
			t.Fatalf("WriteSQLite: %v", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	var layers, captions int
	if err := db.QueryRow("SELECT COUNT(1) FROM layers").Scan(&layers); err != nil {
		t.Fatalf("count layers: %v", err)
	}
	if err := db.QueryRow("SELECT COUNT(1) FROM captions").Scan(&captions); err != nil {
		t.Fatalf("count captions: %v", err)
	}
	if layers != len(stack.Layers) || captions != 3 {
		t.Fatalf("layers=%d captions=%d", layers, captions)
	}

	var text string
	var startMS int64
	if err := db.QueryRow("SELECT text, start_ms FROM captions ORDER BY start_frame DESC LIMIT 1").Scan(&text, &startMS); err != nil {
		t.Fatalf("query caption: %v", err)
	}
	if text != "later" || startMS != 125100 {
		t.Fatalf("last caption = %q at %dms", text, startMS)
	}

	var maxVolume float64
	if err := db.QueryRow("SELECT max_volume FROM layers WHERE kind = 'audio'").Scan(&maxVolume); err != nil {
		t.Fatalf("query audio: %v", err)
	}
	if maxVolume != 0.4 {
		t.Fatalf("max_volume = %v", maxVolume)
	}
}
