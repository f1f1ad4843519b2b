package gallery

import "github.com/pixvault/service/internal/blobstore"

// BuildList maps a store listing into image records, one per object, in the
// exact order the listing returned them. The store's ordering is its own
// business; only prepend-on-upload imposes a deliberate ordering on the
// gallery.
func BuildList(objects []blobstore.Object, store blobstore.Store) []ImageRecord {
	records := make([]ImageRecord, 0, len(objects))
	for _, obj := range objects {
		rec := ImageRecord{
			URL:  store.PublicURL(obj.Key),
			Name: DisplayName(obj.Key),
			Key:  obj.Key,
		}
		if t, ok := IngestTime(obj.Key); ok {
			rec.IngestTime = t
		}
		records = append(records, rec)
	}
	return records
}
