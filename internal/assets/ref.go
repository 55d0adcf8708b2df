package assets

import (
	"path"
	"strings"
)

// VideoExtensions are the extensions TranscriptID replaces with .json.
var VideoExtensions = []string{".mp4", ".mkv", ".mov", ".webm"}

// TranscriptID derives the transcript identifier for a video reference by
// swapping a recognized video extension for .json. Matching is
// case-sensitive. Any other reference is returned unchanged, so it later
// resolves to a missing transcript instead of failing here.
func TranscriptID(ref string) string {
	for _, ext := range VideoExtensions {
		if strings.HasSuffix(ref, ext) && len(ref) > len(ext) {
			return strings.TrimSuffix(ref, ext) + ".json"
		}
	}
	return ref
}

// Normalize converts a reference into the slash-separated form used by the
// registry: leading slashes and "./" segments are removed.
func Normalize(ref string) string {
	ref = strings.TrimSpace(strings.ReplaceAll(ref, "\\", "/"))
	if ref == "" {
		return ""
	}
	cleaned := path.Clean("/" + ref)
	return strings.TrimPrefix(cleaned, "/")
}

// IsRemote reports whether ref points at an HTTP(S) resource rather than a
// file in the static directory.
func IsRemote(ref string) bool {
	lower := strings.ToLower(strings.TrimSpace(ref))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
