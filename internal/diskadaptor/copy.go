package diskadaptor

import (
	"os"
	"path/filepath"

	copylib "github.com/otiai10/copy"

	"swarmcore/internal/filesection"
	"swarmcore/internal/storage"
	"swarmcore/internal/storage/filestorage"
)

// Copy is the multi-file, non-direct-mapping variant: every file entry is
// written into a hidden staging tree under the store directory instead of
// its final path, and OnDownloadComplete copies the finished staging tree
// into place in one shot. This corresponds to aria2's single ".a2tmp"
// staging file, generalized to a staging directory since selective
// multi-file downloads need one staging slot per file, not one.
type Copy struct {
	storeDir string
	stageDir string
	store    *filestorage.FileStorage
	entries  []FileEntry
	realFile []storage.File
	sections filesection.Sections
	directIO bool
}

var _ DiskAdaptor = (*Copy)(nil)

const stageSuffix = ".a2tmp"

// NewCopy opens a staging copy of every entry under storeDir/stageSuffix.
// directIO mirrors the EnableDirectIO download option.
func NewCopy(storeDir string, entries []FileEntry, directIO bool) (*Copy, error) {
	stageDir := filepath.Join(storeDir, stageSuffix)
	fs, err := filestorage.New(stageDir, directIO)
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
	return &Copy{storeDir: storeDir, stageDir: stageDir, store: fs, entries: entries, realFile: real, sections: sections, directIO: directIO}, nil
}

func (c *Copy) ReadAt(p []byte, off int64) (int, error) {
	if err := c.sections.ReadAt(p, off); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *Copy) WriteAt(p []byte, off int64) (int, error) { return c.sections.WriteAt(p, off) }

func (c *Copy) SetStoreDir(path string) {
	c.storeDir = path
	c.stageDir = filepath.Join(path, stageSuffix)
}

func (c *Copy) SetFileEntries(entries []FileEntry) { c.entries = entries }
func (c *Copy) GetFileEntries() []FileEntry        { return c.entries }

func (c *Copy) GetFileEntryFromPath(path string) (FileEntry, bool) {
	return findEntry(c.entries, path)
}

func (c *Copy) AddDownloadEntry(path string) bool {
	for i := range c.entries {
		if c.entries[i].Path == path {
			c.entries[i].Selected = true
			return true
		}
	}
	return false
}

func (c *Copy) RemoveAllDownloadEntry() {
	for i := range c.entries {
		c.entries[i].Selected = false
	}
}

func (c *Copy) AddAllDownloadEntry() {
	for i := range c.entries {
		c.entries[i].Selected = true
	}
}

// OnDownloadComplete closes the staging files, copies every selected
// entry's staged file into place under storeDir, then removes the staging
// tree.
func (c *Copy) OnDownloadComplete() error {
	if err := c.Close(); err != nil {
		return err
	}
	for _, e := range c.entries {
		if !e.Selected {
			continue
		}
		src := filepath.Join(c.stageDir, e.Path)
		dst := filepath.Join(c.storeDir, e.Path)
		if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
			return err
		}
		if err := copylib.Copy(src, dst); err != nil {
			return err
		}
	}
	return os.RemoveAll(c.stageDir)
}

func (c *Copy) Close() error {
	var first error
	for _, f := range c.realFile {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
