package diskadaptor

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func tempDir(t *testing.T) string {
	dir, err := os.MkdirTemp("", "diskadaptor-")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	return dir
}

func TestDirectReadWriteRoundTrip(t *testing.T) {
	d, err := NewDirect(tempDir(t), "movie.mp4", 16, false)
	assert.NoError(t, err)
	defer d.Close()

	n, err := d.WriteAt([]byte("hello world"), 2)
	assert.NoError(t, err)
	assert.Equal(t, 11, n)

	buf := make([]byte, 5)
	_, err = d.ReadAt(buf, 2)
	assert.NoError(t, err)
	assert.Equal(t, "hello", string(buf))
}

func TestDirectWithDirectIOEnabled(t *testing.T) {
	d, err := NewDirect(tempDir(t), "movie.mp4", 16, true)
	assert.NoError(t, err)
	defer d.Close()

	_, err = d.WriteAt([]byte("hello"), 0)
	assert.NoError(t, err)
}

func TestMultiScattersAcrossFiles(t *testing.T) {
	entries := []FileEntry{
		{Path: "a.txt", Offset: 0, Length: 4},
		{Path: "b.txt", Offset: 4, Length: 4},
	}
	m, err := NewMulti(tempDir(t), entries, false)
	assert.NoError(t, err)
	defer m.Close()

	_, err = m.WriteAt([]byte("abcdefgh"), 0)
	assert.NoError(t, err)

	buf := make([]byte, 8)
	_, err = m.ReadAt(buf, 0)
	assert.NoError(t, err)
	assert.Equal(t, "abcdefgh", string(buf))

	assert.True(t, m.AddDownloadEntry("a.txt"))
	assert.False(t, m.AddDownloadEntry("missing.txt"))
}

func TestMultiDeselectedRangeReadsZero(t *testing.T) {
	entries := []FileEntry{
		{Path: "a.txt", Offset: 0, Length: 4},
		{Path: "b.txt", Offset: 4, Length: 4},
	}
	m, err := NewMulti(tempDir(t), entries, false)
	assert.NoError(t, err)
	defer m.Close()

	_, err = m.WriteAt([]byte("abcdefgh"), 0)
	assert.NoError(t, err)

	m.RemoveAllDownloadEntry()
	buf := make([]byte, 8)
	_, err = m.ReadAt(buf, 0)
	assert.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 0}, buf)

	assert.Panics(t, func() { _, _ = m.WriteAt([]byte("x"), 0) })
}

func TestCopyFinalizesIntoStoreDir(t *testing.T) {
	store := tempDir(t)
	entries := []FileEntry{{Path: "file.bin", Offset: 0, Length: 5}}
	c, err := NewCopy(store, entries, false)
	assert.NoError(t, err)

	_, err = c.WriteAt([]byte("abcde"), 0)
	assert.NoError(t, err)

	assert.NoError(t, c.OnDownloadComplete())

	final, err := os.ReadFile(store + "/file.bin")
	assert.NoError(t, err)
	assert.Equal(t, "abcde", string(final))

	_, err = os.Stat(c.stageDir)
	assert.True(t, os.IsNotExist(err), "staging tree must be removed after finalization")
}
