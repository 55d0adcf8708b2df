package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"reelcaption/internal/caption"
)

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// TranscriptJSON renders entries as a transcript document.
func TranscriptJSON(t testing.TB, entries ...caption.Entry) string {
	t.Helper()

	if entries == nil {
		entries = []caption.Entry{}
	}
	data, err := json.Marshal(map[string][]caption.Entry{"transcription": entries})
	if err != nil {
		t.Fatalf("marshal transcript: %v", err)
	}
	return string(data)
}

// WriteTranscript writes a transcript document for id under dir and returns
// its path.
func WriteTranscript(t testing.TB, dir, id string, entries ...caption.Entry) string {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(id))
	WriteFile(t, path, TranscriptJSON(t, entries...))
	return path
}
