package transcript

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"reelcaption/internal/assets"
	"reelcaption/internal/caption"
	"reelcaption/internal/logging"
	"reelcaption/internal/services"
)

// ErrClosed is returned by Wait when the controller is closed before its first
// fetch resolves.
var ErrClosed = errors.New("transcript controller closed")

// Snapshot is one complete, validated transcript. Snapshots are replaced
// wholesale and must not be modified by readers.
type Snapshot struct {
	ID       string
	Entries  []caption.Entry
	Missing  bool
	Version  int
	LoadedAt time.Time
}

// Registry answers whether a transcript file is currently served.
type Registry interface {
	Has(id string) bool
}

// Watcher produces change signals for a transcript identifier.
type Watcher interface {
	Watch(id string) (*assets.Subscription, error)
}

// Options wires a Controller to its collaborators. Registry and Watcher are
// optional: without a registry, absence is detected from the source's
// not-found error; without a watcher, there are no live updates.
type Options struct {
	Source   Source
	Registry Registry
	Watcher  Watcher
	Timeout  time.Duration
	Logger   *slog.Logger
}

// Controller loads the transcript for one asset and keeps it current.
type Controller struct {
	asset string
	id    string
	opts  Options

	logger  *slog.Logger
	gate    *gate
	current atomic.Pointer[Snapshot]
	updates chan Snapshot

	startOnce sync.Once
	closeOnce sync.Once
	closed    atomic.Bool
	mu        sync.Mutex
	cancel    context.CancelFunc
	sub       *assets.Subscription
	stopped   chan struct{}
}

// NewController prepares a controller for asset. Nothing is fetched until
// Start is called.
func NewController(asset string, opts Options) *Controller {
	return &Controller{
		asset:   asset,
		id:      assets.TranscriptID(asset),
		opts:    opts,
		logger:  logging.NewComponentLogger(opts.Logger, "transcript"),
		gate:    newGate(),
		updates: make(chan Snapshot, 1),
		stopped: make(chan struct{}),
	}
}

// TranscriptID returns the identifier derived from the asset reference.
func (c *Controller) TranscriptID() string {
	return c.id
}

// Start begins the initial fetch and, when a watcher is configured,
// subscribes to change signals. Calling Start more than once has no effect.
func (c *Controller) Start(ctx context.Context) {
	c.startOnce.Do(func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed.Load() {
			close(c.stopped)
			return
		}
		runCtx, cancel := context.WithCancel(ctx)
		c.cancel = cancel
		c.logger = logging.WithContext(ctx, c.logger)

		var signals <-chan struct{}
		if c.opts.Watcher != nil {
			sub, err := c.opts.Watcher.Watch(c.id)
			if err != nil {
				logging.WarnWithContext(c.logger, "transcript watch unavailable", "transcript_watch_failed",
					logging.String("transcript", c.id),
					logging.Error(err),
					logging.String(logging.FieldImpact, "captions will not hot-reload"),
				)
			} else {
				c.sub = sub
				signals = sub.C
			}
		}
		go c.run(runCtx, signals)
	})
}

// Wait blocks until the first fetch resolves and returns the resulting
// snapshot. A missing transcript is not an error: the snapshot reports
// Missing instead.
func (c *Controller) Wait(ctx context.Context) (Snapshot, error) {
	if err := c.gate.wait(ctx); err != nil {
		return Snapshot{}, err
	}
	return c.Current(), nil
}

// Ready reports whether the first fetch has resolved, successfully or not.
func (c *Controller) Ready() bool {
	return c.gate.resolved()
}

// Current returns the latest committed snapshot, or the zero Snapshot before
// the first fetch completes.
func (c *Controller) Current() Snapshot {
	if snap := c.current.Load(); snap != nil {
		return *snap
	}
	return Snapshot{ID: c.id}
}

// Updates delivers snapshots committed after the first one. Only the newest
// undelivered snapshot is kept.
func (c *Controller) Updates() <-chan Snapshot {
	return c.updates
}

// Close releases the watch subscription and stops the worker. Fetches that
// complete afterwards are discarded.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.closed.Store(true)
		if c.sub != nil {
			c.sub.Cancel()
		}
		if c.cancel != nil {
			c.cancel()
		}
		c.gate.fail(ErrClosed)
	})
}

// Done is closed when the worker goroutine has exited.
func (c *Controller) Done() <-chan struct{} {
	return c.stopped
}

func (c *Controller) run(ctx context.Context, signals <-chan struct{}) {
	defer close(c.stopped)
	if !c.loadInitial(ctx) {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-signals:
			if !ok {
				return
			}
			c.reload(ctx)
		}
	}
}

func (c *Controller) loadInitial(ctx context.Context) bool {
	if c.opts.Registry != nil && !assets.IsRemote(c.id) && !c.opts.Registry.Has(c.id) {
		c.commitMissing("transcript file not in static directory")
		return true
	}

	entries, err := c.fetch(ctx)
	if c.closed.Load() {
		return false
	}
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.commitMissing("transcript source reported not found")
			return true
		}
		logging.ErrorWithContext(c.logger, "initial transcript fetch failed", "transcript_fetch_failed",
			logging.String("transcript", c.id),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "fix the transcript file and restart the render"),
		)
		c.gate.fail(err)
		return false
	}
	c.commit(entries)
	return true
}

func (c *Controller) reload(ctx context.Context) {
	entries, err := c.fetch(ctx)
	if c.closed.Load() {
		return
	}
	if err != nil {
		logging.WarnWithContext(c.logger, "transcript reload failed", "transcript_reload_failed",
			logging.String("transcript", c.id),
			logging.Int("version", c.Current().Version),
			logging.Error(err),
			logging.String(logging.FieldImpact, "keeping last known good captions"),
		)
		return
	}
	c.commit(entries)
}

func (c *Controller) fetch(ctx context.Context) ([]caption.Entry, error) {
	if c.opts.Source == nil {
		return nil, services.Wrap(services.ErrConfiguration, "transcript", "fetch", "no transcript source configured", nil)
	}
	fetchCtx := ctx
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}
	entries, err := c.opts.Source.Fetch(fetchCtx, c.id)
	if err != nil && errors.Is(fetchCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return nil, services.Wrap(services.ErrTimeout, "transcript", "fetch",
			fmt.Sprintf("fetch of %s exceeded %s", c.id, c.opts.Timeout), err)
	}
	return entries, err
}

func (c *Controller) commit(entries []caption.Entry) {
	snap := Snapshot{
		ID:       c.id,
		Entries:  entries,
		Version:  c.Current().Version + 1,
		LoadedAt: time.Now(),
	}
	c.publish(snap)
	c.logger.Info("transcript loaded",
		logging.String("transcript", c.id),
		logging.Int("entries", len(entries)),
		logging.Int("version", snap.Version),
	)
}

func (c *Controller) commitMissing(reason string) {
	snap := Snapshot{ID: c.id, Missing: true, Version: c.Current().Version + 1, LoadedAt: time.Now()}
	c.publish(snap)
	c.logger.Info("transcript missing, using fallback overlay",
		logging.String("transcript", c.id),
		logging.String("reason", reason),
	)
}

// publish must only be called from the worker goroutine.
func (c *Controller) publish(snap Snapshot) {
	c.current.Store(&snap)
	if c.gate.open() {
		return
	}
	select {
	case <-c.updates:
	default:
	}
	select {
	case c.updates <- snap:
	default:
	}
}
