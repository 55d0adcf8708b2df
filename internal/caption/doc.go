// Package caption compiles transcript entries into a frame-quantized schedule
// of display windows.
//
// Schedule is pure: each entry starts at floor(startInSeconds*fps) and is
// shown until the next entry starts or one second has elapsed, whichever
// comes first. Entries that collapse to zero frames are dropped, so when two
// captions share a start frame the later one wins. Validate must accept the
// entries before they are scheduled.
package caption
