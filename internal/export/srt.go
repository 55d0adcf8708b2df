package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"reelcaption/internal/composition"
)

// WriteSRT writes the caption windows as SubRip cues. Frame boundaries are
// converted to milliseconds at the stack's frame rate. Windows with blank
// text are skipped because an empty payload line terminates a cue.
func WriteSRT(w io.Writer, stack composition.Stack) error {
	fps := stack.Metadata.FPS
	if fps <= 0 {
		return fmt.Errorf("write srt: frame rate must be positive, got %d", fps)
	}
	bw := bufio.NewWriter(w)
	cue := 0
	for _, window := range stack.Windows() {
		if strings.TrimSpace(window.Text) == "" {
			continue
		}
		if cue > 0 {
			bw.WriteString("\n")
		}
		cue++
		fmt.Fprintf(bw, "%d\n%s --> %s\n%s\n",
			cue,
			srtTimestamp(window.StartFrame, fps),
			srtTimestamp(window.EndFrame, fps),
			window.Text,
		)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write srt: %w", err)
	}
	return nil
}

func srtTimestamp(frame, fps int) string {
	ms := framesToMillis(frame, fps)
	hours := ms / 3_600_000
	ms -= hours * 3_600_000
	minutes := ms / 60_000
	ms -= minutes * 60_000
	seconds := ms / 1000
	ms -= seconds * 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, ms)
}
