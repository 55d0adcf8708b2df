package export

import (
	"fmt"
	"strconv"
	"strings"
)

// CheckSRT inspects SubRip output for format issues. An empty result means
// the check passed. When durationSeconds is positive, cues ending after it
// are reported.
func CheckSRT(data []byte, durationSeconds float64) []string {
	content := strings.TrimSpace(strings.ReplaceAll(string(data), "\r\n", "\n"))
	if content == "" {
		return []string{"empty_subtitle_file"}
	}

	var issues []string
	prevEnd := -1.0
	for i, block := range strings.Split(content, "\n\n") {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) < 2 || !strings.Contains(lines[1], "-->") {
			issues = append(issues, fmt.Sprintf("malformed_cue: %d", i+1))
			continue
		}
		parts := strings.Split(lines[1], "-->")
		if len(parts) != 2 {
			issues = append(issues, fmt.Sprintf("malformed_cue: %d", i+1))
			continue
		}
		start, errStart := parseSRTTimestamp(parts[0])
		end, errEnd := parseSRTTimestamp(parts[1])
		if errStart != nil || errEnd != nil {
			issues = append(issues, fmt.Sprintf("timestamp_parse_error: cue %d", i+1))
			continue
		}
		if len(lines) < 3 || strings.TrimSpace(lines[2]) == "" {
			issues = append(issues, fmt.Sprintf("missing_text: cue %d", i+1))
		}
		if end <= start {
			issues = append(issues, fmt.Sprintf("empty_cue: %d", i+1))
		}
		if start < prevEnd {
			issues = append(issues, fmt.Sprintf("overlapping_cue: %d", i+1))
		}
		if durationSeconds > 0 && end > durationSeconds+0.001 {
			issues = append(issues, fmt.Sprintf("cue_past_end: cue %d ends at %.3fs", i+1, end))
		}
		prevEnd = end
	}
	return issues
}

func parseSRTTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}
