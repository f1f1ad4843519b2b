package gallery

import (
	"context"
	"errors"
	"io"
	"math"
	"time"

	"github.com/pixvault/service/internal/blobstore"
)

// File describes one user-selected file handed to the Uploader.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Callbacks carries the three notification channels for one upload. Progress
// arrives 0..N times with non-decreasing integer percentages; exactly one of
// OnError or OnComplete follows. Any callback may be nil.
type Callbacks struct {
	OnProgress func(pct int)
	OnError    func(err error)
	OnComplete func(rec ImageRecord)
}

// Uploader orchestrates a single upload: validate, build the storage key,
// stream to the blob store, and report the outcome. It owns no persistent
// state; callers must not run two uploads through the same instance
// concurrently (the Coordinator serializes them).
type Uploader struct {
	store blobstore.Store
	now   func() time.Time
}

// NewUploader creates an Uploader backed by store.
func NewUploader(store blobstore.Store) *Uploader {
	return &Uploader{store: store, now: time.Now}
}

// Upload validates f and streams it to the store. Validation here is the
// authoritative gate even when the caller already validated at selection
// time. On rejection or transfer failure no object is left in the store.
func (u *Uploader) Upload(ctx context.Context, f File, cb Callbacks) {
	if err := Validate(FileMeta{ContentType: f.ContentType, SizeBytes: f.Size}); err != nil {
		if cb.OnError != nil {
			cb.OnError(err)
		}
		return
	}

	// Truncate to millisecond precision so the record's timestamp round-trips
	// exactly through the key.
	ingest := time.UnixMilli(u.now().UnixMilli())
	key := BuildKey(ingest, f.Name)

	err := u.store.Put(ctx, key, f.Body, f.Size, f.ContentType, func(done, total int64) {
		if cb.OnProgress == nil || total <= 0 {
			return
		}
		pct := int(math.Round(float64(done) / float64(total) * 100))
		if pct > 100 {
			pct = 100
		}
		cb.OnProgress(pct)
	})
	if err != nil {
		if cb.OnError != nil {
			cb.OnError(err)
		}
		return
	}

	if cb.OnComplete != nil {
		cb.OnComplete(ImageRecord{
			URL:        u.store.PublicURL(key),
			Name:       f.Name,
			Key:        key,
			IngestTime: ingest,
		})
	}
}

// UserMessage converts an upload or fetch failure into the wording shown to
// the user. The gallery handlers are the only callers; lower layers report
// sentinel errors and never decide wording.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrNotAnImage), errors.Is(err, ErrTooLarge):
		return err.Error()
	case errors.Is(err, blobstore.ErrUnauthorized):
		return "You don't have permission to upload to this gallery."
	case errors.Is(err, blobstore.ErrCanceled):
		return "Upload was canceled."
	default:
		return "Upload failed. Please try again."
	}
}
