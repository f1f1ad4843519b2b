package gallery

import "sync"

// State is the gallery's in-memory application state: the known images,
// newest-known-first, plus a loading flag that is true only for the duration
// of a full list fetch. Writers are Coordinator methods only; readers get
// copy-out snapshots. Nothing is ever deleted.
type State struct {
	mu      sync.Mutex
	items   []ImageRecord
	loading bool
}

// NewState returns an empty, non-loading state.
func NewState() *State {
	return &State{items: []ImageRecord{}}
}

// Snapshot returns a copy of the current items and the loading flag.
func (s *State) Snapshot() (items []ImageRecord, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items = make([]ImageRecord, len(s.items))
	copy(items, s.items)
	return items, s.loading
}

// Prepend inserts rec at the front. Used for the local insert after a
// successful upload, which deliberately skips a full re-fetch.
func (s *State) Prepend(rec ImageRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]ImageRecord{rec}, s.items...)
}

// Replace swaps the whole item list for the result of a fetch. It replaces,
// never merges.
func (s *State) Replace(items []ImageRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if items == nil {
		items = []ImageRecord{}
	}
	s.items = items
}

// SetLoading toggles the loading flag around a list fetch.
func (s *State) SetLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = v
}
