package peer

// Fake is an in-memory Peer used by piecestorage's own tests and by
// callers exercising selection logic without a real wire connection.
type Fake struct {
	BitfieldBytes []byte
	NumPieces     uint32
	FastExt       bool
	AllowedFast   []uint32
}

var _ Peer = (*Fake)(nil)

func (f *Fake) Bitfield() []byte       { return f.BitfieldBytes }
func (f *Fake) BitfieldLength() uint32 { return uint32(len(f.BitfieldBytes)) }

func (f *Fake) Has(index uint32) bool {
	byteIdx := index / 8
	if byteIdx >= uint32(len(f.BitfieldBytes)) {
		return false
	}
	return f.BitfieldBytes[byteIdx]&(1<<(7-index%8)) != 0
}

func (f *Fake) FastExtensionEnabled() bool    { return f.FastExt }
func (f *Fake) AllowedFastIndexSet() []uint32 { return f.AllowedFast }

// SetHas sets or clears bit index in BitfieldBytes, growing the slice as
// needed.
func (f *Fake) SetHas(index uint32, v bool) {
	byteIdx := index / 8
	for uint32(len(f.BitfieldBytes)) <= byteIdx {
		f.BitfieldBytes = append(f.BitfieldBytes, 0)
	}
	mask := byte(1 << (7 - index%8))
	if v {
		f.BitfieldBytes[byteIdx] |= mask
	} else {
		f.BitfieldBytes[byteIdx] &^= mask
	}
}
