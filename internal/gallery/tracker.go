package gallery

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// UploadPhase is the lifecycle of one tracked upload.
type UploadPhase string

const (
	UploadActive UploadPhase = "uploading"
	UploadDone   UploadPhase = "done"
	UploadFailed UploadPhase = "failed"
)

// UploadStatus is the pollable view of one in-flight or recent upload.
type UploadStatus struct {
	Percent int         `json:"percent"`
	Phase   UploadPhase `json:"state"`
	Error   string      `json:"error,omitempty"`
}

// Tracker keeps the progress of recent uploads so clients can poll them while
// the transfer request is still streaming. Finished entries are kept for a
// retention window and pruned lazily.
type Tracker struct {
	mu        sync.Mutex
	sessions  map[string]*session
	retention time.Duration
	now       func() time.Time
}

type session struct {
	status  UploadStatus
	updated time.Time
}

// NewTracker creates a Tracker that forgets finished uploads after retention.
func NewTracker(retention time.Duration) *Tracker {
	return &Tracker{
		sessions:  make(map[string]*session),
		retention: retention,
		now:       time.Now,
	}
}

// Begin registers an upload session and returns its ID. Pass an empty id to
// have one generated.
func (t *Tracker) Begin(id string) string {
	if id == "" {
		id = uuid.NewString()
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.prune()
	t.sessions[id] = &session{
		status:  UploadStatus{Phase: UploadActive},
		updated: t.now(),
	}
	return id
}

// Progress records the latest percentage for id.
func (t *Tracker) Progress(id string, pct int) {
	t.set(id, func(s *session) { s.status.Percent = pct })
}

// Done marks id as completed.
func (t *Tracker) Done(id string) {
	t.set(id, func(s *session) {
		s.status.Percent = 100
		s.status.Phase = UploadDone
	})
}

// Fail marks id as failed with the user-facing message.
func (t *Tracker) Fail(id, message string) {
	t.set(id, func(s *session) {
		s.status.Phase = UploadFailed
		s.status.Error = message
	})
}

// Get returns the status for id, or ok=false when unknown or expired.
func (t *Tracker) Get(id string) (UploadStatus, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.prune()
	s, ok := t.sessions[id]
	if !ok {
		return UploadStatus{}, false
	}
	return s.status, true
}

func (t *Tracker) set(id string, apply func(*session)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.sessions[id]; ok {
		apply(s)
		s.updated = t.now()
	}
}

// prune drops finished sessions older than the retention window.
// Callers must hold t.mu.
func (t *Tracker) prune() {
	cutoff := t.now().Add(-t.retention)
	for id, s := range t.sessions {
		if s.status.Phase != UploadActive && s.updated.Before(cutoff) {
			delete(t.sessions, id)
		}
	}
}
