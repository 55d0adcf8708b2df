package transcript

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"reelcaption/internal/assets"
	"reelcaption/internal/caption"
	"reelcaption/internal/services"
)

// maxDocumentBytes bounds how much of a transcript response is read.
const maxDocumentBytes = 32 << 20

// Source fetches and decodes the transcript stored under id.
type Source interface {
	Fetch(ctx context.Context, id string) ([]caption.Entry, error)
}

// FileSource reads transcripts from the static directory.
type FileSource struct {
	Registry *assets.Registry
}

// Fetch reads and decodes the transcript file for id.
func (s FileSource) Fetch(ctx context.Context, id string) ([]caption.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := s.Registry.Path(id)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "transcript", "fetch", fmt.Sprintf("%s does not exist", id), err)
		}
		return nil, services.Wrap(services.ErrTransient, "transcript", "fetch", fmt.Sprintf("read %s", path), err)
	}
	return Decode(data)
}

// HTTPSource fetches transcripts from a static file server.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPSource builds an HTTPSource. A zero timeout leaves requests unbounded
// apart from the caller's context.
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

// Fetch GETs the transcript document for id. Remote ids are requested as-is.
func (s *HTTPSource) Fetch(ctx context.Context, id string) ([]caption.Entry, error) {
	target, err := s.resolve(id)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "transcript", "fetch", fmt.Sprintf("invalid transcript url for %s", id), err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "transcript", "fetch", "build request", err)
	}
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "transcript", "fetch", fmt.Sprintf("GET %s", target), err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, services.Wrap(services.ErrNotFound, "transcript", "fetch", fmt.Sprintf("GET %s returned 404", target), nil)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, services.Wrap(services.ErrTransient, "transcript", "fetch", fmt.Sprintf("GET %s returned %d", target, resp.StatusCode), nil)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "transcript", "fetch", fmt.Sprintf("read body of %s", target), err)
	}
	return Decode(data)
}

func (s *HTTPSource) resolve(id string) (string, error) {
	if assets.IsRemote(id) {
		parsed, err := url.Parse(id)
		if err != nil {
			return "", err
		}
		return parsed.String(), nil
	}
	base, err := url.Parse(s.BaseURL + "/")
	if err != nil {
		return "", err
	}
	rel, err := url.Parse(assets.Normalize(id))
	if err != nil {
		return "", err
	}
	return base.ResolveReference(rel).String(), nil
}
