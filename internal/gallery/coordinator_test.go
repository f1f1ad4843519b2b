package gallery_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pixvault/service/internal/blobstore"
	"github.com/pixvault/service/internal/config"
	"github.com/pixvault/service/internal/gallery"
)

func newCoordinator(store blobstore.Store) *gallery.Coordinator {
	return gallery.NewCoordinator(store, zap.NewNop().Sugar())
}

func TestCoordinator_StartFetchesGallery(t *testing.T) {
	store := &stubStore{listObjs: []blobstore.Object{
		{Key: "1700000000001_x.png"},
		{Key: "1700000000002_y.png"},
	}}
	co := newCoordinator(store)
	co.Start(context.Background())

	snap := co.Snapshot()
	assert.Equal(t, gallery.PhaseReady, snap.Phase)
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Message)
	require.Len(t, snap.Images, 2)
	assert.Equal(t, "x.png", snap.Images[0].Name)
	assert.Equal(t, "y.png", snap.Images[1].Name)
}

func TestCoordinator_FetchFailureSettlesReady(t *testing.T) {
	store := &stubStore{listErr: blobstore.ErrUnknown}
	co := newCoordinator(store)
	co.Start(context.Background())

	snap := co.Snapshot()
	assert.Equal(t, gallery.PhaseReady, snap.Phase)
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Images)
	assert.Equal(t, gallery.FetchErrorMessage, snap.Message)
}

func TestCoordinator_RefreshReplaces(t *testing.T) {
	store := &stubStore{listObjs: []blobstore.Object{{Key: "1_old.png"}}}
	co := newCoordinator(store)
	co.Start(context.Background())

	store.listObjs = []blobstore.Object{
		{Key: "2_x.png"},
		{Key: "3_y.png"},
	}
	require.NoError(t, co.Refresh(context.Background()))

	snap := co.Snapshot()
	require.Len(t, snap.Images, 2)
	assert.Equal(t, "x.png", snap.Images[0].Name)
	assert.Equal(t, "y.png", snap.Images[1].Name)
}

// A refresh after a failed fetch recovers: failure is non-fatal and every
// retry is a new user action.
func TestCoordinator_RefreshRecoversAfterFailure(t *testing.T) {
	store := &stubStore{listErr: blobstore.ErrUnknown}
	co := newCoordinator(store)
	co.Start(context.Background())
	require.Equal(t, gallery.FetchErrorMessage, co.Snapshot().Message)

	store.listErr = nil
	store.listObjs = []blobstore.Object{{Key: "1700000000000_back.png"}}
	require.NoError(t, co.Refresh(context.Background()))

	snap := co.Snapshot()
	assert.Empty(t, snap.Message)
	require.Len(t, snap.Images, 1)
	assert.Equal(t, "back.png", snap.Images[0].Name)
}

// A successful upload prepends locally; no re-fetch happens.
func TestCoordinator_UploadPrepends(t *testing.T) {
	store := &stubStore{listObjs: []blobstore.Object{
		{Key: "1700000000001_a.png"},
		{Key: "1700000000002_b.png"},
	}}
	co := newCoordinator(store)
	co.Start(context.Background())

	id := co.Tracker().Begin("")
	rec, err := co.Upload(context.Background(), jpegFile("c.jpg", 100), id)
	require.NoError(t, err)

	snap := co.Snapshot()
	assert.Equal(t, gallery.PhaseReady, snap.Phase)
	require.Len(t, snap.Images, 3)
	assert.Equal(t, rec, snap.Images[0])
	assert.Equal(t, "a.png", snap.Images[1].Name)
	assert.Equal(t, "b.png", snap.Images[2].Name)

	status, ok := co.Tracker().Get(id)
	require.True(t, ok)
	assert.Equal(t, gallery.UploadDone, status.Phase)
	assert.Equal(t, 100, status.Percent)
}

func TestCoordinator_UploadFailureMutatesNothing(t *testing.T) {
	store := &stubStore{
		listObjs: []blobstore.Object{{Key: "1700000000001_a.png"}},
		putErr:   blobstore.ErrUnauthorized,
	}
	co := newCoordinator(store)
	co.Start(context.Background())

	id := co.Tracker().Begin("")
	_, err := co.Upload(context.Background(), jpegFile("c.jpg", 100), id)
	require.ErrorIs(t, err, blobstore.ErrUnauthorized)

	snap := co.Snapshot()
	require.Len(t, snap.Images, 1)
	assert.Equal(t, "a.png", snap.Images[0].Name)

	status, ok := co.Tracker().Get(id)
	require.True(t, ok)
	assert.Equal(t, gallery.UploadFailed, status.Phase)
	assert.NotEmpty(t, status.Error)
}

func TestCoordinator_SecondUploadRejectedWhileInFlight(t *testing.T) {
	store := &stubStore{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	co := newCoordinator(store)

	firstDone := make(chan error, 1)
	go func() {
		id := co.Tracker().Begin("")
		_, err := co.Upload(context.Background(), jpegFile("one.jpg", 100), id)
		firstDone <- err
	}()

	// Wait until the first upload is inside the store call.
	select {
	case <-store.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first upload never reached the store")
	}

	id := co.Tracker().Begin("")
	_, err := co.Upload(context.Background(), jpegFile("two.jpg", 100), id)
	assert.ErrorIs(t, err, gallery.ErrUploadInFlight)

	close(store.release)
	require.NoError(t, <-firstDone)
}

func TestCoordinator_Unconfigured(t *testing.T) {
	co := gallery.NewUnconfigured(zap.NewNop().Sugar())

	snap := co.Snapshot()
	assert.Equal(t, gallery.PhaseUnconfigured, snap.Phase)

	assert.ErrorIs(t, co.Refresh(context.Background()), config.ErrNotConfigured)

	id := co.Tracker().Begin("")
	_, err := co.Upload(context.Background(), jpegFile("c.jpg", 100), id)
	assert.ErrorIs(t, err, config.ErrNotConfigured)

	// Terminal for the session: still unconfigured afterwards.
	assert.Equal(t, gallery.PhaseUnconfigured, co.Snapshot().Phase)
}

// End-to-end: empty store, startup fetch, one valid upload, populated gallery.
func TestCoordinator_EndToEnd(t *testing.T) {
	store := &stubStore{steps: []float64{0.25, 0.60, 1.0}}
	co := newCoordinator(store)
	co.Start(context.Background())

	snap := co.Snapshot()
	assert.Equal(t, gallery.PhaseReady, snap.Phase)
	assert.Empty(t, snap.Images)

	id := co.Tracker().Begin("")
	rec, err := co.Upload(context.Background(), jpegFile("holiday.jpg", 2*1024*1024), id)
	require.NoError(t, err)
	assert.Equal(t, "holiday.jpg", rec.Name)

	status, _ := co.Tracker().Get(id)
	assert.Equal(t, 100, status.Percent)

	snap = co.Snapshot()
	require.Len(t, snap.Images, 1)
	assert.Equal(t, "holiday.jpg", snap.Images[0].Name)
}
