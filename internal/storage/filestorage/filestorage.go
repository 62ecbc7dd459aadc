// Package filestorage backs swarmcore's disk adaptors with plain files on
// the local filesystem: every piece's blocks ultimately land here, one
// backing file per download file entry.
package filestorage

import (
	"os"
	"path/filepath"

	"swarmcore/internal/storage"
)

// FileStorage opens and creates backing files under a single destination
// directory. When directIO is set, every file it opens has read-ahead
// disabled, since a swarm download's block arrival order is effectively
// random and read-ahead would only waste page cache on data that the
// piece picker has no intention of reading sequentially.
type FileStorage struct {
	dest     string
	directIO bool
}

// New returns a FileStorage rooted at dest. directIO mirrors the
// EnableDirectIO download option.
func New(dest string, directIO bool) (*FileStorage, error) {
	var err error
	dest, err = filepath.Abs(dest)
	if err != nil {
		return nil, err
	}
	return &FileStorage{dest: dest, directIO: directIO}, nil
}

var _ storage.Backend = (*FileStorage)(nil)

func (s *FileStorage) Dest() string {
	return s.dest
}

func (s *FileStorage) Open(name string, length int64) (f storage.File, exists bool, err error) {
	name = filepath.Clean(name)

	// Every backing file lives under dest.
	name = filepath.Join(s.dest, name)

	// Create containing dir if not exists.
	err = os.MkdirAll(filepath.Dir(name), os.ModeDir|0750)
	if err != nil {
		return
	}

	// Make sure OS file is closed in case of any error.
	var of *os.File
	defer func() {
		if err != nil && of != nil {
			_ = of.Close()
		}
	}()

	// Open OS file.
	const mode = 0640
	of, err = os.OpenFile(name, os.O_RDWR, mode) // nolint: gosec
	if os.IsNotExist(err) {
		of, err = os.OpenFile(name, os.O_RDWR|os.O_CREATE, mode) // nolint: gosec
		if err != nil {
			return
		}
		s.applyDirectIO(of)
		f = &File{of}
		err = of.Truncate(length)
		return
	}
	if err != nil {
		return
	}
	s.applyDirectIO(of)
	f = &File{of}
	exists = true
	fi, err := of.Stat()
	if err != nil {
		return
	}
	if fi.Size() != length {
		err = of.Truncate(length)
	}
	return
}

// applyDirectIO disables read-ahead on of when s.directIO is set. A
// failure here is not fatal to opening the file; it only means the OS
// keeps its default read-ahead heuristics for this file.
func (s *FileStorage) applyDirectIO(of *os.File) {
	if s.directIO {
		_ = disableReadAhead(of)
	}
}
