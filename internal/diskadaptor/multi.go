package diskadaptor

import (
	"swarmcore/internal/filesection"
	"swarmcore/internal/storage"
	"swarmcore/internal/storage/filestorage"
)

// Multi is the multi-file, direct-mapping variant: every file entry is
// opened as its own real file directly under the store directory, and
// reads/writes are scattered across them by filesection.Sections. There
// is no intermediate staging file.
type Multi struct {
	store    *filestorage.FileStorage
	entries  []FileEntry
	realFile []storage.File // one real, opened file per entry, indexed the same as entries
	sections filesection.Sections
	directIO bool
}

var _ DiskAdaptor = (*Multi)(nil)

// NewMulti opens every entry under storeDir. entries must be given in
// ascending, contiguous piece-content offset order. directIO mirrors the
// EnableDirectIO download option.
func NewMulti(storeDir string, entries []FileEntry, directIO bool) (*Multi, error) {
	fs, err := filestorage.New(storeDir, directIO)
	if err != nil {
		return nil, err
	}
	sections := make(filesection.Sections, len(entries))
	real := make([]storage.File, len(entries))
	for i, e := range entries {
		f, _, err := fs.Open(e.Path, e.Length)
		if err != nil {
			return nil, err
		}
		real[i] = f
		sections[i] = filesection.Section{File: f, Offset: 0, Length: e.Length}
		entries[i].Selected = true
	}
	return &Multi{store: fs, entries: entries, realFile: real, sections: sections, directIO: directIO}, nil
}

// syncSection points entry i's section at its real file when selected, or
// at a storage.ZeroFile when deselected, so reads over a deselected range
// serve zeroes instead of stale disk content and writes there fail loudly
// instead of silently downloading it.
func (m *Multi) syncSection(i int) {
	if m.entries[i].Selected {
		m.sections[i].File = m.realFile[i]
	} else {
		m.sections[i].File = storage.NewZeroFile(m.entries[i].Length)
	}
}

func (m *Multi) ReadAt(p []byte, off int64) (int, error) {
	if err := m.sections.ReadAt(p, off); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (m *Multi) WriteAt(p []byte, off int64) (int, error) { return m.sections.WriteAt(p, off) }

func (m *Multi) SetStoreDir(path string) {
	fs, err := filestorage.New(path, m.directIO)
	if err == nil {
		m.store = fs
	}
}

func (m *Multi) SetFileEntries(entries []FileEntry) { m.entries = entries }
func (m *Multi) GetFileEntries() []FileEntry        { return m.entries }

func (m *Multi) GetFileEntryFromPath(path string) (FileEntry, bool) {
	return findEntry(m.entries, path)
}

// AddDownloadEntry selects path for download; files not added stay
// unselected and their pieces must be excluded via the filter before this
// adaptor is used, since direct mapping has no staging area to skip.
func (m *Multi) AddDownloadEntry(path string) bool {
	for i := range m.entries {
		if m.entries[i].Path == path {
			m.entries[i].Selected = true
			m.syncSection(i)
			return true
		}
	}
	return false
}

func (m *Multi) RemoveAllDownloadEntry() {
	for i := range m.entries {
		m.entries[i].Selected = false
		m.syncSection(i)
	}
}

func (m *Multi) AddAllDownloadEntry() {
	for i := range m.entries {
		m.entries[i].Selected = true
		m.syncSection(i)
	}
}

// OnDownloadComplete is a no-op: every file is already in its final
// location.
func (m *Multi) OnDownloadComplete() error { return nil }

func (m *Multi) Close() error {
	var first error
	for _, f := range m.realFile {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
