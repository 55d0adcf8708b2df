package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"reelcaption/internal/composition"
	"reelcaption/internal/services"
)

// Format names an output encoding.
type Format string

const (
	FormatJSON   Format = "json"
	FormatSRT    Format = "srt"
	FormatSQLite Format = "sqlite"
)

// Formats lists every supported format.
var Formats = []Format{FormatJSON, FormatSRT, FormatSQLite}

// ParseFormat accepts a format name case-insensitively.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatSRT:
		return FormatSRT, nil
	case FormatSQLite, "db":
		return FormatSQLite, nil
	}
	return "", services.Wrap(services.ErrValidation, "export", "parse format",
		fmt.Sprintf("unsupported format %q (want json, srt or sqlite)", value), nil)
}

// Extension returns the conventional file extension for f.
func (f Format) Extension() string {
	if f == FormatSQLite {
		return ".db"
	}
	return "." + string(f)
}

// Write encodes stack to w. SQLite output needs a file path; use WriteSQLite.
func Write(w io.Writer, stack composition.Stack, format Format) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, stack)
	case FormatSRT:
		return WriteSRT(w, stack)
	case FormatSQLite:
		return services.Wrap(services.ErrValidation, "export", "write", "sqlite output requires a file path", nil)
	}
	return services.Wrap(services.ErrValidation, "export", "write", fmt.Sprintf("unsupported format %q", format), nil)
}

// WriteJSON writes the stack as indented JSON.
func WriteJSON(w io.Writer, stack composition.Stack) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(stack); err != nil {
		return fmt.Errorf("encode stack: %w", err)
	}
	return nil
}
