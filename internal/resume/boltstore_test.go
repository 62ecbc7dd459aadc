package resume

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir, err := os.MkdirTemp("", "resume-")
	assert.NoError(t, err)
	defer os.RemoveAll(dir)

	store, err := Open(filepath.Join(dir, "resume.db"))
	assert.NoError(t, err)
	defer store.Close()

	want := &State{
		NumPieces: 7,
		Have:      []byte{0xFF, 0x80},
		Filter:    []byte{0x0F},
		Haves: []HaveRecord{
			{Origin: 1, Index: 2, RegisteredAt: time.Unix(100, 0)},
			{Origin: 3, Index: 4, RegisteredAt: time.Unix(200, 0)},
		},
	}
	assert.NoError(t, store.Save(want))

	got, err := store.Load()
	assert.NoError(t, err)
	assert.Equal(t, want.NumPieces, got.NumPieces)
	assert.Equal(t, want.Have, got.Have)
	assert.Equal(t, want.Filter, got.Filter)
	assert.Equal(t, want.Haves, got.Haves)
}

func TestLoadOnFreshStoreIsZeroValue(t *testing.T) {
	dir, err := os.MkdirTemp("", "resume-fresh-")
	assert.NoError(t, err)
	defer os.RemoveAll(dir)

	store, err := Open(filepath.Join(dir, "resume.db"))
	assert.NoError(t, err)
	defer store.Close()

	got, err := store.Load()
	assert.NoError(t, err)
	assert.EqualValues(t, 0, got.NumPieces)
	assert.Nil(t, got.Haves)
}

func TestReopenPersistsAcrossClose(t *testing.T) {
	dir, err := os.MkdirTemp("", "resume-reopen-")
	assert.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "resume.db")
	store, err := Open(path)
	assert.NoError(t, err)
	assert.NoError(t, store.Save(&State{NumPieces: 3, Have: []byte{0x01}}))
	assert.NoError(t, store.Close())

	reopened, err := Open(path)
	assert.NoError(t, err)
	defer reopened.Close()
	got, err := reopened.Load()
	assert.NoError(t, err)
	assert.EqualValues(t, 3, got.NumPieces)
}
