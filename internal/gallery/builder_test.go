package gallery_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixvault/service/internal/blobstore"
	"github.com/pixvault/service/internal/gallery"
)

func TestBuildList_PreservesStoreOrder(t *testing.T) {
	store := &stubStore{}
	objects := []blobstore.Object{
		{Key: "1700000000002_second.png"},
		{Key: "1700000000001_first.png"},
		{Key: "1700000000003_third.png"},
	}

	records := gallery.BuildList(objects, store)

	require.Len(t, records, 3)
	assert.Equal(t, "second.png", records[0].Name)
	assert.Equal(t, "first.png", records[1].Name)
	assert.Equal(t, "third.png", records[2].Name)
}

func TestBuildList_Fields(t *testing.T) {
	store := &stubStore{}
	records := gallery.BuildList([]blobstore.Object{{Key: "1700000000000_my_photo_final.jpg"}}, store)

	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "1700000000000_my_photo_final.jpg", rec.Key)
	assert.Equal(t, "my_photo_final.jpg", rec.Name)
	assert.Equal(t, "http://cdn.test/1700000000000_my_photo_final.jpg", rec.URL)
	assert.True(t, rec.IngestTime.Equal(time.UnixMilli(1700000000000)))
}

func TestBuildList_UnparseableKeyFallbacks(t *testing.T) {
	store := &stubStore{}
	records := gallery.BuildList([]blobstore.Object{{Key: "legacyObject.jpg"}}, store)

	require.Len(t, records, 1)
	assert.Equal(t, "legacyObject.jpg", records[0].Name)
	assert.True(t, records[0].IngestTime.IsZero())
}

func TestBuildList_Empty(t *testing.T) {
	records := gallery.BuildList(nil, &stubStore{})
	assert.NotNil(t, records)
	assert.Empty(t, records)
}
