package storage

// ZeroFile stands in for a file range the caller has deselected from the
// download (via a selective-download filter): Multi.syncSection points a
// deselected entry's section at one of these instead of its real backing
// file, so reads over that range serve zeroes rather than stale or
// nonexistent disk content, and any write attempt fails loudly instead of
// silently materializing data for a range that was never requested.
type ZeroFile struct{}

// NewZeroFile returns a ZeroFile; length is accepted for symmetry with
// other File constructors but unused, since ZeroFile has no backing
// storage of its own.
func NewZeroFile(length int64) File {
	return ZeroFile{}
}

var _ File = ZeroFile{}

func (f ZeroFile) ReadAt(p []byte, off int64) (n int, err error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

func (f ZeroFile) WriteAt(p []byte, off int64) (n int, err error) {
	panic("attempt to write a deselected file range")
}

func (f ZeroFile) Close() error {
	return nil
}
