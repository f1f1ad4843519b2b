// Package gallery implements the image gallery core: validation, upload
// orchestration, list building, application state, and the HTTP handlers
// that expose them.
package gallery

import (
	"strconv"
	"strings"
	"time"
)

// ImageRecord represents one stored image as known to the app.
// Records are immutable after construction; gallery updates replace or
// prepend whole records, never mutate fields in place.
type ImageRecord struct {
	// URL is the opaque fetchable address assigned by the blob store.
	URL string
	// Name is the display name, the original filename chosen by the user.
	Name string
	// Key is the storage-side object identifier: "<unixMillis>_<originalName>".
	Key string
	// IngestTime is the upload instant embedded in Key. Zero when the key
	// carries no parseable timestamp prefix.
	IngestTime time.Time
}

// BuildKey constructs the storage key for a file ingested at t:
// integer epoch-millisecond prefix, one ASCII underscore, then the verbatim
// original filename. This is the only persisted format in the system and
// must stay stable for interop with already-stored objects.
func BuildKey(t time.Time, name string) string {
	return strconv.FormatInt(t.UnixMilli(), 10) + "_" + name
}

// DisplayName recovers the original filename from a storage key. Only the
// first underscore is consumed; filenames may themselves contain underscores.
// A key without a separator is returned whole, and a key with nothing after
// the separator falls back to "Untitled".
func DisplayName(key string) string {
	i := strings.IndexByte(key, '_')
	if i < 0 {
		return key
	}
	name := key[i+1:]
	if name == "" {
		return "Untitled"
	}
	return name
}

// IngestTime parses the epoch-millisecond prefix out of a storage key.
// ok is false when the prefix is missing or not an integer; callers render
// that as "date unknown".
func IngestTime(key string) (t time.Time, ok bool) {
	i := strings.IndexByte(key, '_')
	if i <= 0 {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(key[:i], 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}
