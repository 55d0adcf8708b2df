package transcript

import (
	"errors"
	"strings"
	"testing"

	"reelcaption/internal/services"
)

func TestDecodeValidDocument(t *testing.T) {
	data := []byte(`{"transcription":[{"startInSeconds":0,"text":" Hello "},{"startInSeconds":0.5,"text":"world"}]}`)
	entries, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Text != "Hello" || entries[1].StartInSeconds != 0.5 {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestDecodeEmptyTranscription(t *testing.T) {
	entries, err := Decode([]byte(`{"transcription":[]}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantMsg string
	}{
		{name: "empty", data: "   ", wantMsg: "empty"},
		{name: "malformed json", data: `{"transcription":[`, wantMsg: "not valid"},
		{name: "missing transcription", data: `{}`, wantMsg: "transcription is required"},
		{name: "missing start", data: `{"transcription":[{"text":"a"}]}`, wantMsg: "transcription[0].startInSeconds is required"},
		{name: "missing text", data: `{"transcription":[{"startInSeconds":1}]}`, wantMsg: "transcription[0].text is required"},
		{name: "negative start", data: `{"transcription":[{"startInSeconds":-1,"text":"a"}]}`, wantMsg: "startInSeconds must be >= 0"},
		{name: "out of order", data: `{"transcription":[{"startInSeconds":2,"text":"a"},{"startInSeconds":1,"text":"b"}]}`, wantMsg: "precedes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("error %q does not mention %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestDecodeAllowsEmptyText(t *testing.T) {
	entries, err := Decode([]byte(`{"transcription":[{"startInSeconds":1,"text":""}]}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(entries) != 1 || entries[0].Text != "" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}
