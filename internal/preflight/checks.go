package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"reelcaption/internal/config"
	"reelcaption/internal/deps"
)

// Access is the permission a directory check requires.
type Access int

const (
	ReadOnly Access = iota
	ReadWrite
)

// CheckDirectoryAccess verifies that the directory exists and grants the
// requested access.
func CheckDirectoryAccess(name, path string, access Access) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}

	mode := uint32(unix.R_OK | unix.X_OK)
	label := "read ok"
	if access == ReadWrite {
		mode |= unix.W_OK
		label = "read/write ok"
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, label)}
}

// CheckTranscriptServer verifies that the transcript base URL answers HTTP.
// Any status below 500 counts as reachable: a 404 for the bare base path is
// normal for static file servers.
func CheckTranscriptServer(ctx context.Context, baseURL string) Result {
	const name = "Transcript server"

	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return Result{Name: name, Detail: "missing url"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client := &http.Client{Timeout: 5 * time.Second}
	req, err := http.NewRequestWithContext(checkCtx, http.MethodHead, base+"/", nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("check failed (%v)", err)}
	}
	resp, err := client.Do(req)
	if err != nil {
		return Result{Name: name, Detail: summarizeHTTPError(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return Result{Name: name, Detail: fmt.Sprintf("server error (%d)", resp.StatusCode)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s reachable", base)}
}

// CheckSystemDeps evaluates the external binaries reelcaption invokes.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "FFprobe",
			Command:     deps.ResolveFFprobePath(cfg.FFprobeBinary()),
			Description: "Required for asset duration probing",
		},
	}
	return deps.CheckBinaries(requirements)
}

func summarizeHTTPError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "check timed out (server unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "check timed out (server unreachable)"
	}
	return fmt.Sprintf("check failed (%v)", err)
}
