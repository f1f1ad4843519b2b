package gallery

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pixvault/service/internal/blobstore"
	"github.com/pixvault/service/internal/config"
)

// Phase is the coordinator's lifecycle state. An unconfigured coordinator is
// terminal for the session: the operator must fix the environment and restart.
type Phase string

const (
	PhaseUnconfigured Phase = "unconfigured"
	PhaseLoading      Phase = "loading"
	PhaseReady        Phase = "ready"
)

// ErrUploadInFlight is returned when a second upload is attempted while one
// is still running. Every upload is serialized; retries are user actions.
var ErrUploadInFlight = errors.New("an upload is already in progress")

// FetchErrorMessage is the user-facing wording for a failed gallery fetch.
const FetchErrorMessage = "Could not load the gallery. Try refreshing."

// uploadRetention is how long finished upload sessions stay pollable.
const uploadRetention = 5 * time.Minute

// Snapshot is a point-in-time, read-only view of the gallery.
type Snapshot struct {
	Phase   Phase
	Loading bool
	Images  []ImageRecord
	// Message holds the transient user-visible error from the last fetch,
	// empty after a successful one.
	Message string
}

// Coordinator wires the validator, uploader, state, and blob store together.
// It is the single writer of gallery state and the single place that decides
// user-visible wording.
type Coordinator struct {
	store    blobstore.Store
	uploader *Uploader
	state    *State
	tracker  *Tracker
	log      *zap.SugaredLogger

	mu      sync.Mutex
	phase   Phase
	message string

	// uploadGate serializes uploads: one in flight, second caller rejected.
	uploadGate chan struct{}
}

// NewCoordinator creates a configured coordinator. The first fetch starts
// when the caller invokes Start.
func NewCoordinator(store blobstore.Store, log *zap.SugaredLogger) *Coordinator {
	return &Coordinator{
		store:      store,
		uploader:   NewUploader(store),
		state:      NewState(),
		tracker:    NewTracker(uploadRetention),
		log:        log,
		phase:      PhaseLoading,
		uploadGate: make(chan struct{}, 1),
	}
}

// NewUnconfigured creates a coordinator for the degraded mode entered when
// the startup configuration check fails. Every operation reports
// config.ErrNotConfigured; there are no further transitions.
func NewUnconfigured(log *zap.SugaredLogger) *Coordinator {
	return &Coordinator{
		state:      NewState(),
		tracker:    NewTracker(uploadRetention),
		log:        log,
		phase:      PhaseUnconfigured,
		uploadGate: make(chan struct{}, 1),
	}
}

// Tracker exposes the upload progress registry for the HTTP layer.
func (c *Coordinator) Tracker() *Tracker {
	return c.tracker
}

// Start performs the initial gallery fetch. A failure is non-fatal: the
// coordinator settles into Ready with an empty list and a user-visible
// message, and the user may retry via Refresh.
func (c *Coordinator) Start(ctx context.Context) {
	if err := c.Refresh(ctx); err != nil && !errors.Is(err, config.ErrNotConfigured) {
		c.log.Warnw("initial gallery fetch failed", "error", err)
	}
}

// Refresh re-fetches the full listing and wholesale replaces the gallery
// items. Both success and failure land back in Ready, distinguished only by
// the snapshot message.
func (c *Coordinator) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.phase == PhaseUnconfigured {
		c.mu.Unlock()
		return config.ErrNotConfigured
	}
	c.phase = PhaseLoading
	c.mu.Unlock()
	c.state.SetLoading(true)

	objects, err := c.store.List(ctx, "")

	c.state.SetLoading(false)
	c.mu.Lock()
	c.phase = PhaseReady
	if err != nil {
		c.message = FetchErrorMessage
		c.mu.Unlock()
		c.state.Replace(nil)
		c.log.Errorw("gallery fetch failed", "error", err)
		return fmt.Errorf("list gallery: %w", err)
	}
	c.message = ""
	c.mu.Unlock()

	c.state.Replace(BuildList(objects, c.store))
	c.log.Infow("gallery fetched", "count", len(objects))
	return nil
}

// Upload runs one upload end to end and, on success, prepends the new record
// locally without a full re-fetch. id must be a session previously registered
// with the Tracker; progress and the terminal outcome are published there.
// No gallery state is mutated on failure.
func (c *Coordinator) Upload(ctx context.Context, f File, id string) (ImageRecord, error) {
	c.mu.Lock()
	unconfigured := c.phase == PhaseUnconfigured
	c.mu.Unlock()
	if unconfigured {
		c.tracker.Fail(id, UserMessage(config.ErrNotConfigured))
		return ImageRecord{}, config.ErrNotConfigured
	}

	select {
	case c.uploadGate <- struct{}{}:
		defer func() { <-c.uploadGate }()
	default:
		c.tracker.Fail(id, ErrUploadInFlight.Error())
		return ImageRecord{}, ErrUploadInFlight
	}

	var (
		rec  ImageRecord
		uerr error
	)
	c.uploader.Upload(ctx, f, Callbacks{
		OnProgress: func(pct int) { c.tracker.Progress(id, pct) },
		OnError:    func(err error) { uerr = err },
		OnComplete: func(r ImageRecord) { rec = r },
	})
	if uerr != nil {
		c.tracker.Fail(id, UserMessage(uerr))
		c.log.Warnw("upload failed", "file", f.Name, "error", uerr)
		return ImageRecord{}, uerr
	}

	c.tracker.Done(id)
	c.state.Prepend(rec)
	c.log.Infow("image uploaded", "key", rec.Key, "size", f.Size)
	return rec, nil
}

// Snapshot returns a read-only view of the current gallery. This is also the
// coordinator's debug/observation interface.
func (c *Coordinator) Snapshot() Snapshot {
	items, loading := c.state.Snapshot()
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Phase:   c.phase,
		Loading: loading,
		Images:  items,
		Message: c.message,
	}
}
