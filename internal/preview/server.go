package preview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"reelcaption/internal/caption"
	"reelcaption/internal/composition"
	"reelcaption/internal/logging"
)

// ErrAlreadyRunning is returned by Start when another preview holds the lock.
var ErrAlreadyRunning = errors.New("another preview is already running")

// Composer is the session surface the server reads from.
type Composer interface {
	ID() string
	Stack() composition.Stack
}

// Options configures a Server.
type Options struct {
	Bind    string
	LockDir string
	Logger  *slog.Logger
}

// Server exposes one composition session.
type Server struct {
	session  Composer
	bind     string
	lockPath string
	lock     *flock.Flock
	logger   *slog.Logger
	started  time.Time

	mu       sync.Mutex
	listener net.Listener
	server   *http.Server
}

// New builds a Server. Nothing is bound until Start.
func New(session Composer, opts Options) *Server {
	s := &Server{
		session: session,
		bind:    strings.TrimSpace(opts.Bind),
		logger:  logging.NewComponentLogger(opts.Logger, "preview"),
		started: time.Now(),
	}
	if opts.LockDir != "" {
		s.lockPath = filepath.Join(opts.LockDir, "preview.lock")
		s.lock = flock.New(s.lockPath)
	}
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/composition", s.handleComposition)
	mux.HandleFunc("/api/windows", s.handleWindows)
	mux.HandleFunc("/api/frame", s.handleFrame)
	return mux
}

// Start acquires the lock and begins serving. The server shuts down when ctx
// ends or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	if s.bind == "" {
		return fmt.Errorf("preview bind address is empty")
	}
	if s.lock != nil {
		ok, err := s.lock.TryLock()
		if err != nil {
			return fmt.Errorf("acquire lock: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w (lock %s)", ErrAlreadyRunning, s.lockPath)
		}
	}

	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		s.releaseLock()
		return fmt.Errorf("preview listen: %w", err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("preview server error", logging.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("preview server listening",
		logging.String("address", listener.Addr().String()),
		logging.String("lock", s.lockPath),
	)
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down and releases the lock. It is safe to call more
// than once.
func (s *Server) Stop() {
	s.mu.Lock()
	listener := s.listener
	s.listener = nil
	s.mu.Unlock()
	if listener == nil {
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
	_ = listener.Close()
	s.releaseLock()
}

func (s *Server) releaseLock() {
	if s.lock == nil {
		return
	}
	if err := s.lock.Unlock(); err != nil {
		logging.WarnWithContext(s.logger, "failed to release preview lock", "preview_lock_release_failed",
			logging.String("lock", s.lockPath),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "remove the lock file if no preview is running"),
		)
	}
}

// StatusResponse is returned by /api/status.
type StatusResponse struct {
	SessionID         string    `json:"sessionId"`
	Src               string    `json:"src"`
	Transcript        string    `json:"transcript"`
	TranscriptMissing bool      `json:"transcriptMissing"`
	TranscriptVersion int       `json:"transcriptVersion"`
	FPS               int       `json:"fps"`
	DurationInFrames  int       `json:"durationInFrames"`
	Windows           int       `json:"windows"`
	StartedAt         time.Time `json:"startedAt"`
}

// FrameResponse is returned by /api/frame.
type FrameResponse struct {
	Frame   int                 `json:"frame"`
	Seconds float64             `json:"seconds"`
	Caption string              `json:"caption,omitempty"`
	Volume  float64             `json:"volume"`
	Layers  []composition.Layer `json:"layers"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	stack := s.session.Stack()
	s.writeJSON(w, http.StatusOK, StatusResponse{
		SessionID:         s.session.ID(),
		Src:               stack.Src,
		Transcript:        stack.Transcript,
		TranscriptMissing: stack.Missing,
		TranscriptVersion: stack.Version,
		FPS:               stack.Metadata.FPS,
		DurationInFrames:  stack.Metadata.DurationInFrames,
		Windows:           len(stack.Windows()),
		StartedAt:         s.started.UTC(),
	})
}

func (s *Server) handleComposition(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, s.session.Stack())
}

func (s *Server) handleWindows(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	windows := s.session.Stack().Windows()
	if windows == nil {
		windows = []caption.Window{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"windows": windows})
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	frame, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("n")))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "query parameter n must be a frame number")
		return
	}
	stack := s.session.Stack()
	if frame < 0 || frame >= stack.Metadata.DurationInFrames {
		s.writeError(w, http.StatusBadRequest,
			fmt.Sprintf("frame %d outside composition (0-%d)", frame, stack.Metadata.DurationInFrames-1))
		return
	}

	resp := FrameResponse{
		Frame:  frame,
		Volume: stack.Volume(frame),
		Layers: stack.At(frame),
	}
	if stack.Metadata.FPS > 0 {
		resp.Seconds = float64(frame) / float64(stack.Metadata.FPS)
	}
	if window, ok := caption.ActiveAt(stack.Windows(), frame); ok {
		resp.Caption = window.Text
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
