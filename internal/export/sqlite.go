package export

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"reelcaption/internal/composition"
)

//go:embed schema.sql
var schemaSQL string

// WriteSQLite writes stack to a fresh SQLite database at path, replacing any
// existing file. The database is an export artifact; nothing reads it back.
func WriteSQLite(ctx context.Context, path string, stack composition.Stack) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove previous export: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite db: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close sqlite db: %w", closeErr)
		}
	}()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin export tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	meta := stack.Metadata
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO composition (
            src, transcript, transcript_missing, transcript_version,
            fps, duration_in_frames, width, height, exported_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stack.Src,
		stack.Transcript,
		boolToInt(stack.Missing),
		stack.Version,
		meta.FPS,
		meta.DurationInFrames,
		meta.Width,
		meta.Height,
		time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("insert composition: %w", err)
	}

	for i, layer := range stack.Layers {
		var fade sql.NullInt64
		var volume sql.NullFloat64
		if layer.Volume != nil {
			fade = sql.NullInt64{Int64: int64(layer.Volume.FadeFrames), Valid: true}
			volume = sql.NullFloat64{Float64: layer.Volume.MaxVolume, Valid: true}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO layers (
                position, kind, from_frame, duration_in_frames, src, fit, text, fade_frames, max_volume
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			i,
			string(layer.Kind),
			layer.From,
			layer.DurationInFrames,
			nullString(layer.Src),
			nullString(string(layer.Fit)),
			nullString(layer.Text),
			fade,
			volume,
		); err != nil {
			return fmt.Errorf("insert layer %d: %w", i, err)
		}
	}

	for _, window := range stack.Windows() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO captions (start_frame, end_frame, start_ms, end_ms, text) VALUES (?, ?, ?, ?, ?)`,
			window.StartFrame,
			window.EndFrame,
			framesToMillis(window.StartFrame, meta.FPS),
			framesToMillis(window.EndFrame, meta.FPS),
			window.Text,
		); err != nil {
			return fmt.Errorf("insert caption at frame %d: %w", window.StartFrame, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit export: %w", err)
	}
	return nil
}

func framesToMillis(frame, fps int) int64 {
	if fps <= 0 {
		return 0
	}
	return int64(frame) * 1000 / int64(fps)
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
