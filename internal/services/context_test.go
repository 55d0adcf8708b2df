package services_test

import (
	"context"
	"testing"

	"reelcaption/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithSessionID(ctx, "sess-1")
	ctx = services.WithAsset(ctx, "sample-video.mp4")
	ctx = services.WithRequestID(ctx, "req-123")

	if id, ok := services.SessionIDFromContext(ctx); !ok || id != "sess-1" {
		t.Fatalf("unexpected session id: %v %v", id, ok)
	}
	if ref, ok := services.AssetFromContext(ctx); !ok || ref != "sample-video.mp4" {
		t.Fatalf("unexpected asset: %v %v", ref, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithAsset(ctx, "")
	ctx = services.WithSessionID(ctx, "")
	if _, ok := services.AssetFromContext(ctx); ok {
		t.Fatal("expected no asset value")
	}
	if _, ok := services.SessionIDFromContext(ctx); ok {
		t.Fatal("expected no session value")
	}
}
