package composition

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"reelcaption/internal/logging"
	"reelcaption/internal/metadata"
	"reelcaption/internal/services"
	"reelcaption/internal/transcript"
)

// Params are the inputs of one composition.
type Params struct {
	Src string `json:"src" validate:"required"`
}

// Deriver computes asset metadata.
type Deriver interface {
	Derive(ctx context.Context, asset string) (metadata.MediaMetadata, error)
}

// Transcripts is the transcript controller surface a session needs.
type Transcripts interface {
	Start(ctx context.Context)
	Wait(ctx context.Context) (transcript.Snapshot, error)
	Updates() <-chan transcript.Snapshot
	Close()
}

// Deps wires a session to its collaborators.
type Deps struct {
	Deriver        Deriver
	NewTranscripts func(asset string) Transcripts
	Layout         Layout
	Logger         *slog.Logger
}

var paramsValidator = validator.New(validator.WithRequiredStructEnabled())

// Session is an open composition for a single asset.
type Session struct {
	id     string
	params Params
	meta   metadata.MediaMetadata
	layout Layout
	logger *slog.Logger

	transcripts Transcripts
	stack       atomic.Pointer[Stack]
	updates     chan Stack

	closeOnce sync.Once
	done      chan struct{}
	stopped   chan struct{}
}

// Open validates params and runs the blocking initialization: the metadata
// probe and the first transcript fetch run concurrently, and the first error
// from either aborts the session.
func Open(ctx context.Context, deps Deps, params Params) (*Session, error) {
	params.Src = strings.TrimSpace(params.Src)
	if err := paramsValidator.Struct(params); err != nil {
		return nil, services.Wrap(services.ErrValidation, "composition", "open", "src is required", err)
	}
	if deps.Deriver == nil || deps.NewTranscripts == nil {
		return nil, services.Wrap(services.ErrConfiguration, "composition", "open", "deriver and transcript factory are required", nil)
	}

	id := uuid.NewString()
	ctx = services.WithSessionID(ctx, id)
	ctx = services.WithAsset(ctx, params.Src)
	logger := logging.WithContext(ctx, logging.NewComponentLogger(deps.Logger, "composition"))

	transcripts := deps.NewTranscripts(params.Src)
	transcripts.Start(ctx)

	var (
		meta metadata.MediaMetadata
		snap transcript.Snapshot
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		meta, err = deps.Deriver.Derive(gctx, params.Src)
		return err
	})
	g.Go(func() error {
		var err error
		snap, err = transcripts.Wait(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		transcripts.Close()
		logging.ErrorWithContext(logger, "composition initialization failed", "composition_open_failed",
			logging.String("error_kind", services.Kind(err)),
			logging.Error(err),
		)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("open composition for %s: %w", params.Src, err)
	}

	s := &Session{
		id:          id,
		params:      params,
		meta:        meta,
		layout:      deps.Layout,
		logger:      logger,
		transcripts: transcripts,
		updates:     make(chan Stack, 1),
		done:        make(chan struct{}),
		stopped:     make(chan struct{}),
	}
	initial := Build(meta, params.Src, snap, deps.Layout)
	s.stack.Store(&initial)
	logger.Info("composition ready",
		logging.Int("duration_frames", meta.DurationInFrames),
		logging.Int("layers", len(initial.Layers)),
		logging.Bool("transcript_missing", snap.Missing),
	)

	go s.follow()
	return s, nil
}

// ID returns the session identifier stamped on its log lines.
func (s *Session) ID() string { return s.id }

// Params returns the validated inputs.
func (s *Session) Params() Params { return s.params }

// Metadata returns the probed metadata. It never changes during a session.
func (s *Session) Metadata() metadata.MediaMetadata { return s.meta }

// Stack returns the latest layer stack.
func (s *Session) Stack() Stack {
	return *s.stack.Load()
}

// Updates delivers rebuilt stacks after transcript reloads. Only the newest
// undelivered stack is kept.
func (s *Session) Updates() <-chan Stack {
	return s.updates
}

// Close stops following transcript updates and releases the controller.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.transcripts.Close()
		<-s.stopped
	})
}

func (s *Session) follow() {
	defer close(s.stopped)
	source := s.transcripts.Updates()
	for {
		select {
		case <-s.done:
			return
		case snap := <-source:
			stack := Build(s.meta, s.params.Src, snap, s.layout)
			s.stack.Store(&stack)
			s.logger.Info("composition rebuilt",
				logging.Int("transcript_version", snap.Version),
				logging.Int("layers", len(stack.Layers)),
			)
			select {
			case <-s.updates:
			default:
			}
			select {
			case s.updates <- stack:
			default:
			}
		}
	}
}
