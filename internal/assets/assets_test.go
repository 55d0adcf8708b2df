package assets

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestTranscriptID(t *testing.T) {
	cases := map[string]string{
		"sample-video.mp4":       "sample-video.json",
		"clips/intro.mkv":        "clips/intro.json",
		"take.mov":               "take.json",
		"web.webm":               "web.json",
		"LOUD.MP4":               "LOUD.MP4",
		"notes.txt":              "notes.txt",
		"archive.mp4.bak":        "archive.mp4.bak",
		".mp4":                   ".mp4",
		"https://cdn/x/clip.mp4": "https://cdn/x/clip.json",
	}
	for in, want := range cases {
		if got := TranscriptID(in); got != want {
			t.Fatalf("TranscriptID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"/sample.json":   "sample.json",
		"./a/../b.json":  "b.json",
		`dir\file.json`:  "dir/file.json",
		"":               "",
		"  clip.json  ":  "clip.json",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsRemote(t *testing.T) {
	if !IsRemote("HTTPS://example.com/a.mp4") {
		t.Fatal("expected https to be remote")
	}
	if IsRemote("clips/a.mp4") {
		t.Fatal("expected relative path to be local")
	}
}

func TestExists(t *testing.T) {
	files := []string{"audio.mp3", "sample-video.json", "sample-video.mp4"}
	if !Exists(files, "sample-video.json") {
		t.Fatal("expected transcript to exist")
	}
	if !Exists(files, "/sample-video.json") {
		t.Fatal("expected leading slash to be ignored")
	}
	if Exists(files, "other.json") {
		t.Fatal("unexpected hit")
	}
	if Exists(files, "") {
		t.Fatal("empty id must not exist")
	}
}

func TestRegistryFiles(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "b.json"), "{}")
	mustWrite(t, filepath.Join(root, "a.mp4"), "")
	mustWrite(t, filepath.Join(root, "nested", "c.json"), "{}")
	mustWrite(t, filepath.Join(root, ".hidden", "d.json"), "{}")
	mustWrite(t, filepath.Join(root, ".DS_Store"), "")

	reg := NewRegistry(root)
	files, err := reg.Files()
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	want := []string{"a.mp4", "b.json", "nested/c.json"}
	if !reflect.DeepEqual(files, want) {
		t.Fatalf("Files = %v, want %v", files, want)
	}
	if !reg.Has("nested/c.json") || reg.Has("missing.json") {
		t.Fatal("unexpected Has result")
	}
}

func TestRegistryAbsoluteIDs(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	mustWrite(t, filepath.Join(root, "clip.json"), "{}")
	mustWrite(t, filepath.Join(outside, "far.json"), "{}")

	reg := NewRegistry(root)
	inRoot := filepath.Join(root, "clip.json")
	if got := reg.Path(inRoot); got != inRoot {
		t.Fatalf("Path(%q) = %q", inRoot, got)
	}
	far := filepath.Join(outside, "far.json")
	if got := reg.Path(far); got != far {
		t.Fatalf("Path(%q) = %q", far, got)
	}
	if !reg.Has(inRoot) || !reg.Has(far) {
		t.Fatal("expected absolute transcripts to be found")
	}
	if reg.Has(filepath.Join(outside, "absent.json")) {
		t.Fatal("unexpected hit for absent absolute id")
	}
	if reg.Has(outside) {
		t.Fatal("directories are not transcripts")
	}
}

func TestRegistryHasSkipsHiddenAndDirectories(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, ".hidden", "d.json"), "{}")
	mustWrite(t, filepath.Join(root, "nested", "c.json"), "{}")

	reg := NewRegistry(root)
	if reg.Has(".hidden/d.json") {
		t.Fatal("hidden files are not served")
	}
	if reg.Has("nested") || reg.Has("") {
		t.Fatal("directories and empty ids are not served")
	}
	if !reg.Has("./nested/c.json") {
		t.Fatal("expected normalized id to be found")
	}
}

func TestWatcherSignalsForAbsoluteID(t *testing.T) {
	outside := t.TempDir()
	w, err := NewWatcher(NewRegistry(t.TempDir()), nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	target := filepath.Join(outside, "clip.json")
	sub, err := w.Watch(target)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer sub.Cancel()

	mustWrite(t, target, `{"transcription":[]}`)
	select {
	case <-sub.C:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change signal")
	}
}

func TestRegistryMissingRoot(t *testing.T) {
	reg := NewRegistry(filepath.Join(t.TempDir(), "absent"))
	if _, err := reg.Files(); err == nil {
		t.Fatal("expected error for missing root")
	}
	if reg.Has("x.json") {
		t.Fatal("missing root must not report files")
	}
}

func TestWatcherSignalsOnWrite(t *testing.T) {
	root := t.TempDir()
	reg := NewRegistry(root)
	w, err := NewWatcher(reg, nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	sub, err := w.Watch("clip.json")
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer sub.Cancel()

	mustWrite(t, filepath.Join(root, "clip.json"), `{"transcription":[]}`)
	select {
	case <-sub.C:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change signal")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	root := t.TempDir()
	w, err := NewWatcher(NewRegistry(root), nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	sub, err := w.Watch("clip.json")
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer sub.Cancel()

	mustWrite(t, filepath.Join(root, "other.json"), "{}")
	select {
	case <-sub.C:
		t.Fatal("unexpected signal for unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatchAfterCloseFails(t *testing.T) {
	w, err := NewWatcher(NewRegistry(t.TempDir()), nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := w.Watch("a.json"); err == nil {
		t.Fatal("expected error after close")
	}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
