package caption

import (
	"math"
)

// Entry is one timestamped caption as produced by the transcript source.
type Entry struct {
	StartInSeconds float64 `json:"startInSeconds"`
	Text           string  `json:"text"`
}

// Window is a half-open frame interval [StartFrame, EndFrame) during which
// Text is shown.
type Window struct {
	StartFrame int    `json:"startFrame"`
	EndFrame   int    `json:"endFrame"`
	Text       string `json:"text"`
}

// DurationInFrames returns the number of frames the window covers.
func (w Window) DurationInFrames() int {
	return w.EndFrame - w.StartFrame
}

// Contains reports whether frame falls inside the window.
func (w Window) Contains(frame int) bool {
	return frame >= w.StartFrame && frame < w.EndFrame
}

// frameEpsilon absorbs binary floating point error so that e.g. 0.7*30
// (20.999999999999996) quantizes to frame 21.
const frameEpsilon = 1e-9

// FrameAt converts seconds to a whole frame index, truncating toward zero.
func FrameAt(seconds float64, fps int) int {
	if fps <= 0 || math.IsNaN(seconds) || seconds <= 0 {
		return 0
	}
	return int(math.Floor(seconds*float64(fps) + frameEpsilon))
}

// Schedule converts validated entries into display windows. Windows are
// emitted in input order, never overlap, and last at most fps frames.
func Schedule(entries []Entry, fps int) []Window {
	if fps <= 0 || len(entries) == 0 {
		return nil
	}
	starts := make([]int, len(entries))
	for i, entry := range entries {
		starts[i] = FrameAt(entry.StartInSeconds, fps)
	}

	windows := make([]Window, 0, len(entries))
	for i, entry := range entries {
		end := starts[i] + fps
		if i+1 < len(entries) && starts[i+1] < end {
			end = starts[i+1]
		}
		if end-starts[i] <= 0 {
			continue
		}
		windows = append(windows, Window{StartFrame: starts[i], EndFrame: end, Text: entry.Text})
	}
	return windows
}

// ActiveAt returns the window shown at frame, if any. windows must be the
// output of Schedule.
func ActiveAt(windows []Window, frame int) (Window, bool) {
	lo, hi := 0, len(windows)
	for lo < hi {
		mid := (lo + hi) / 2
		if windows[mid].EndFrame <= frame {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(windows) && windows[lo].Contains(frame) {
		return windows[lo], true
	}
	return Window{}, false
}
