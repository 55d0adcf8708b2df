package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Requirement defines an external binary reelcaption relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		switch {
		case cmd == "":
			status.Detail = "command not configured"
		default:
			if _, err := exec.LookPath(cmd); err != nil {
				status.Detail = fmt.Sprintf("binary %q not found", cmd)
			} else {
				status.Available = true
			}
		}
		results = append(results, status)
	}
	return results
}

// ResolveFFprobePath returns the ffprobe binary to execute. An explicit path
// is used as-is; a bare name is resolved from PATH, falling back to an ffprobe
// that sits next to the ffmpeg found on PATH.
func ResolveFFprobePath(configured string) string {
	configured = strings.TrimSpace(configured)
	if configured == "" {
		configured = "ffprobe"
	}
	if strings.ContainsRune(configured, filepath.Separator) {
		return configured
	}
	if resolved, err := exec.LookPath(configured); err == nil {
		return resolved
	}
	if ffmpeg, err := exec.LookPath("ffmpeg"); err == nil {
		candidate := filepath.Join(filepath.Dir(ffmpeg), configured)
		if info, statErr := os.Stat(candidate); statErr == nil && isExecutable(info) {
			return candidate
		}
	}
	return configured
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	return info.Mode().Perm()&0o111 != 0
}
