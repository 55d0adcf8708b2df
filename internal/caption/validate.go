package caption

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"

	"reelcaption/internal/services"
)

// Validate rejects transcripts the scheduler cannot handle: negative or
// non-finite start times and starts that go backwards. The whole transcript
// is refused on the first problem; single entries are never dropped.
func Validate(entries []Entry) error {
	prev := 0.0
	for i, entry := range entries {
		start := entry.StartInSeconds
		if math.IsNaN(start) || math.IsInf(start, 0) {
			return services.Wrap(services.ErrValidation, "caption", "validate",
				fmt.Sprintf("entry %d: startInSeconds is not a finite number", i), nil)
		}
		if start < 0 {
			return services.Wrap(services.ErrValidation, "caption", "validate",
				fmt.Sprintf("entry %d: startInSeconds %.3f is negative", i, start), nil)
		}
		if i > 0 && start < prev {
			return services.Wrap(services.ErrValidation, "caption", "validate",
				fmt.Sprintf("entry %d: startInSeconds %.3f precedes entry %d (%.3f)", i, start, i-1, prev), nil)
		}
		prev = start
	}
	return nil
}

// NormalizeText trims surrounding whitespace and converts the text to NFC so
// composed and decomposed accents render identically.
func NormalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}
