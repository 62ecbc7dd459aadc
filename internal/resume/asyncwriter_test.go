package resume

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fortytw2/leaktest"
	"github.com/stretchr/testify/assert"
)

func TestAsyncWriterLeavesNoGoroutineBehind(t *testing.T) {
	defer leaktest.Check(t)()

	dir, err := os.MkdirTemp("", "resume-async-")
	assert.NoError(t, err)
	defer os.RemoveAll(dir)

	store, err := Open(filepath.Join(dir, "resume.db"))
	assert.NoError(t, err)

	w := NewAsyncWriter(store)
	w.Enqueue(&State{NumPieces: 4, Have: []byte{0x0F}})
	w.Enqueue(&State{NumPieces: 4, Have: []byte{0xFF}})
	assert.NoError(t, w.Close())
}

func TestAsyncWriterPersistsLatestEnqueue(t *testing.T) {
	dir, err := os.MkdirTemp("", "resume-async-persist-")
	assert.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "resume.db")
	store, err := Open(path)
	assert.NoError(t, err)

	w := NewAsyncWriter(store)
	w.Enqueue(&State{NumPieces: 2, Have: []byte{0x00}})
	assert.NoError(t, w.Close())

	reopened, err := Open(path)
	assert.NoError(t, err)
	defer reopened.Close()
	got, err := reopened.Load()
	assert.NoError(t, err)
	assert.EqualValues(t, 2, got.NumPieces)
}
