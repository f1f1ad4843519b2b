package gallery

import "errors"

// MaxUploadBytes is the largest accepted file size (5 MiB).
const MaxUploadBytes = 5 * 1024 * 1024

// Validation failures. The messages are the exact reasons shown to users.
var (
	ErrNotAnImage = errors.New("not an accepted image type")
	ErrTooLarge   = errors.New("file too large")
)

// acceptedTypes is the exact set of MIME types the gallery stores.
var acceptedTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

// FileMeta is the metadata the validator inspects.
type FileMeta struct {
	ContentType string
	SizeBytes   int64
}

// Validate checks a file against the gallery's acceptance rules: MIME type
// first, then size, first failure wins. Pure and deterministic — safe to call
// any number of times for the same file.
func Validate(meta FileMeta) error {
	if _, ok := acceptedTypes[meta.ContentType]; !ok {
		return ErrNotAnImage
	}
	if meta.SizeBytes > MaxUploadBytes {
		return ErrTooLarge
	}
	return nil
}
