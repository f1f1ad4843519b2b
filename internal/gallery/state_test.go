package gallery_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pixvault/service/internal/gallery"
)

func TestState_PrependOrdering(t *testing.T) {
	s := gallery.NewState()
	a := gallery.ImageRecord{Key: "1_a.jpg"}
	b := gallery.ImageRecord{Key: "2_b.jpg"}
	c := gallery.ImageRecord{Key: "3_c.jpg"}

	s.Replace([]gallery.ImageRecord{a, b})
	s.Prepend(c)

	items, _ := s.Snapshot()
	assert.Equal(t, []gallery.ImageRecord{c, a, b}, items)
}

func TestState_ReplaceNotMerge(t *testing.T) {
	s := gallery.NewState()
	s.Replace([]gallery.ImageRecord{{Key: "old_1"}, {Key: "old_2"}, {Key: "old_3"}})

	x := gallery.ImageRecord{Key: "x"}
	y := gallery.ImageRecord{Key: "y"}
	s.Replace([]gallery.ImageRecord{x, y})

	items, _ := s.Snapshot()
	assert.Equal(t, []gallery.ImageRecord{x, y}, items)
}

func TestState_ReplaceNilYieldsEmpty(t *testing.T) {
	s := gallery.NewState()
	s.Prepend(gallery.ImageRecord{Key: "k"})
	s.Replace(nil)

	items, loading := s.Snapshot()
	assert.Empty(t, items)
	assert.NotNil(t, items)
	assert.False(t, loading)
}

func TestState_SnapshotIsACopy(t *testing.T) {
	s := gallery.NewState()
	s.Replace([]gallery.ImageRecord{{Key: "a"}, {Key: "b"}})

	items, _ := s.Snapshot()
	items[0] = gallery.ImageRecord{Key: "mutated"}

	fresh, _ := s.Snapshot()
	assert.Equal(t, "a", fresh[0].Key)
}

func TestState_Loading(t *testing.T) {
	s := gallery.NewState()
	s.SetLoading(true)
	_, loading := s.Snapshot()
	assert.True(t, loading)

	s.SetLoading(false)
	_, loading = s.Snapshot()
	assert.False(t, loading)
}
