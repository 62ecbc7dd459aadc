package diskadaptor

import (
	"swarmcore/internal/storage"
	"swarmcore/internal/storage/filestorage"
)

// Direct is the single-file variant: the one file entry is opened
// directly under the store directory and all reads/writes pass straight
// through at their piece-content offset.
type Direct struct {
	store    *filestorage.FileStorage
	entries  []FileEntry
	file     storage.File
	directIO bool
}

var _ DiskAdaptor = (*Direct)(nil)

// NewDirect builds a Direct adaptor for a single file of the given length.
// directIO mirrors the EnableDirectIO download option.
func NewDirect(storeDir, name string, length int64, directIO bool) (*Direct, error) {
	fs, err := filestorage.New(storeDir, directIO)
	if err != nil {
		return nil, err
	}
	f, _, err := fs.Open(name, length)
	if err != nil {
		return nil, err
	}
	return &Direct{
		store:    fs,
		entries:  []FileEntry{{Path: name, Offset: 0, Length: length, Selected: true}},
		file:     f,
		directIO: directIO,
	}, nil
}

func (d *Direct) ReadAt(p []byte, off int64) (int, error)  { return d.file.ReadAt(p, off) }
func (d *Direct) WriteAt(p []byte, off int64) (int, error) { return d.file.WriteAt(p, off) }

func (d *Direct) SetStoreDir(path string) {
	fs, err := filestorage.New(path, d.directIO)
	if err == nil {
		d.store = fs
	}
}

func (d *Direct) SetFileEntries(entries []FileEntry) { d.entries = entries }
func (d *Direct) GetFileEntries() []FileEntry        { return d.entries }

func (d *Direct) GetFileEntryFromPath(path string) (FileEntry, bool) {
	return findEntry(d.entries, path)
}

// AddDownloadEntry is a no-op for the single-file variant: the one entry
// is always selected.
func (d *Direct) AddDownloadEntry(path string) bool {
	_, ok := findEntry(d.entries, path)
	return ok
}

func (d *Direct) RemoveAllDownloadEntry() {}
func (d *Direct) AddAllDownloadEntry()    {}

// OnDownloadComplete is a no-op: the destination file is already the
// final file.
func (d *Direct) OnDownloadComplete() error { return nil }

func (d *Direct) Close() error { return d.file.Close() }
