// Package piecebits implements the bit-level view of piece completion: the
// have/in-use/filter planes that drive selection, and the piece/byte
// accounting derived from them. It corresponds to aria2's BitfieldMan.
package piecebits

import "swarmcore/internal/bitfield"

// Manager tracks, for a file of known total length split into fixed-size
// pieces, which pieces are completed (have), currently checked out by some
// peer session (use), and selected for download (filter). have and use are
// disjoint at rest: a piece becomes have only after it stops being use.
type Manager struct {
	have   bitfield.BitField
	use    bitfield.BitField
	filter bitfield.BitField

	numPieces     uint32
	pieceLength   uint32
	totalLength   uint64
	filterEnabled bool
}

// New returns a Manager for a file of totalLength bytes split into pieces
// of pieceLength bytes (the last piece may be short).
func New(pieceLength uint32, totalLength uint64) *Manager {
	numPieces := uint32((totalLength + uint64(pieceLength) - 1) / uint64(pieceLength))
	if totalLength == 0 {
		numPieces = 0
	}
	return &Manager{
		have:        bitfield.New(numPieces),
		use:         bitfield.New(numPieces),
		filter:      bitfield.New(numPieces),
		numPieces:   numPieces,
		pieceLength: pieceLength,
		totalLength: totalLength,
	}
}

// NumPieces returns the number of pieces in the file.
func (m *Manager) NumPieces() uint32 { return m.numPieces }

// TotalLength returns the total length of the file in bytes.
func (m *Manager) TotalLength() uint64 { return m.totalLength }

// MaxIndex returns the largest valid piece index.
func (m *Manager) MaxIndex() uint32 { return m.numPieces - 1 }

// Have reports whether piece i is completed and verified on local storage.
func (m *Manager) Have(i uint32) bool { return m.have.Test(i) }

// SetHave marks piece i as completed.
func (m *Manager) SetHave(i uint32) { m.have.Set(i) }

// UnsetHave marks piece i as missing again, e.g. after a resume control
// file records an index that later failed re-verification.
func (m *Manager) UnsetHave(i uint32) { m.have.Clear(i) }

// SetAllHave marks every piece as completed.
func (m *Manager) SetAllHave() { m.have.SetRange(0, m.have.Len()-1) }

// SetHaveRange marks pieces [lo, hi], both inclusive, as completed.
func (m *Manager) SetHaveRange(lo, hi uint32) {
	if m.numPieces == 0 {
		return
	}
	m.have.SetRange(lo, hi)
}

// IsUse reports whether piece i is currently checked out by a peer session.
func (m *Manager) IsUse(i uint32) bool { return m.use.Test(i) }

// SetUse marks piece i as checked out.
func (m *Manager) SetUse(i uint32) { m.use.Set(i) }

// UnsetUse releases piece i.
func (m *Manager) UnsetUse(i uint32) { m.use.Clear(i) }

// BlockLength returns the number of bytes in piece i: pieceLength for every
// piece except possibly the last, which may be short.
func (m *Manager) BlockLength(i uint32) uint32 {
	if i == m.numPieces-1 {
		last := m.totalLength - uint64(i)*uint64(m.pieceLength)
		return uint32(last)
	}
	return m.pieceLength
}

// CountMissingBlock returns the number of pieces that are selected but not
// yet completed.
func (m *Manager) CountMissingBlock() uint32 {
	missing := m.have.Copy()
	missing.Not()
	if m.filterEnabled {
		missing.And(&m.filter)
	}
	return missing.Count()
}

// eligible returns have/use/filter-adjusted candidates: peerBits ∧ ¬have ∧
// (endGame ? ⊤ : ¬use) ∧ filter.
func (m *Manager) eligible(peerBits *bitfield.BitField, endGame bool) bitfield.BitField {
	c := peerBits.Copy()
	notHave := m.have.Copy()
	notHave.Not()
	c.And(&notHave)
	if !endGame {
		notUse := m.use.Copy()
		notUse.Not()
		c.And(&notUse)
	}
	if m.filterEnabled {
		c.And(&m.filter)
	}
	return c
}

// GetMissingIndex returns the lowest index i such that peerBits[i] is set,
// piece i is not had, and (in end-game) it may already be in use.
func (m *Manager) GetMissingIndex(peerBits *bitfield.BitField) (uint32, bool) {
	c := m.eligible(peerBits, true)
	return c.FirstSet(0)
}

// GetMissingUnusedIndex is GetMissingIndex additionally requiring the piece
// not be checked out by any other session.
func (m *Manager) GetMissingUnusedIndex(peerBits *bitfield.BitField) (uint32, bool) {
	c := m.eligible(peerBits, false)
	return c.FirstSet(0)
}

// GetAllMissingIndexes enumerates, in ascending order, every index eligible
// for end-game selection.
func (m *Manager) GetAllMissingIndexes(peerBits *bitfield.BitField) []uint32 {
	return setBits(m.eligible(peerBits, true))
}

// GetAllMissingUnusedIndexes enumerates, in ascending order, every index
// eligible for normal (non end-game) selection.
func (m *Manager) GetAllMissingUnusedIndexes(peerBits *bitfield.BitField) []uint32 {
	return setBits(m.eligible(peerBits, false))
}

func setBits(b bitfield.BitField) []uint32 {
	var out []uint32
	for i, ok := b.FirstSet(0); ok; i, ok = b.FirstSet(i + 1) {
		out = append(out, i)
		if i+1 == 0 { // overflow guard, unreachable in practice
			break
		}
	}
	return out
}

// GetSparseMissingUnusedIndex picks a missing, unused, selected index from
// the segment of the file that currently has the fewest have-or-use
// pieces, to spread in-flight downloads across the file. Ties are broken
// by lowest index.
func (m *Manager) GetSparseMissingUnusedIndex() (uint32, bool) {
	if m.numPieces == 0 {
		return 0, false
	}
	const segments = 10
	segLen := (m.numPieces + segments - 1) / segments
	if segLen == 0 {
		segLen = 1
	}

	missingUnused := m.have.Copy()
	missingUnused.Not()
	notUse := m.use.Copy()
	notUse.Not()
	missingUnused.And(&notUse)
	if m.filterEnabled {
		missingUnused.And(&m.filter)
	}

	bestSeg := uint32(0)
	bestBusy := -1
	for seg := uint32(0); seg*segLen < m.numPieces; seg++ {
		lo := seg * segLen
		hi := lo + segLen
		if hi > m.numPieces {
			hi = m.numPieces
		}
		busy := 0
		hasCandidate := false
		for i := lo; i < hi; i++ {
			if m.have.Test(i) || m.use.Test(i) {
				busy++
			}
			if missingUnused.Test(i) {
				hasCandidate = true
			}
		}
		if !hasCandidate {
			continue
		}
		if bestBusy == -1 || busy < bestBusy {
			bestBusy = busy
			bestSeg = seg
		}
	}
	if bestBusy == -1 {
		return 0, false
	}
	lo := bestSeg * segLen
	hi := lo + segLen
	if hi > m.numPieces {
		hi = m.numPieces
	}
	for i := lo; i < hi; i++ {
		if missingUnused.Test(i) {
			return i, true
		}
	}
	return 0, false
}

// AddFilter converts a byte range [offset, offset+length) into the
// corresponding inclusive piece-index range and adds it to the filter
// plane. It does not enable the filter; call EnableFilter for that.
func (m *Manager) AddFilter(offset, length uint64) {
	if length == 0 || m.pieceLength == 0 {
		return
	}
	lo := uint32(offset / uint64(m.pieceLength))
	hi := uint32((offset + length - 1) / uint64(m.pieceLength))
	if hi >= m.numPieces {
		hi = m.numPieces - 1
	}
	m.filter.SetRange(lo, hi)
}

// EnableFilter turns on selective downloading using whatever ranges were
// added with AddFilter.
func (m *Manager) EnableFilter() { m.filterEnabled = true }

// ClearFilter disables selective downloading and empties the filter plane;
// with the filter disabled every piece counts as selected.
func (m *Manager) ClearFilter() {
	m.filterEnabled = false
	m.filter = bitfield.New(m.numPieces)
}

// IsFilterEnabled reports whether selective downloading is active.
func (m *Manager) IsFilterEnabled() bool { return m.filterEnabled }

// IsSelected reports whether piece i is included in the current download
// selection: always true when no filter is enabled.
func (m *Manager) IsSelected(i uint32) bool {
	if !m.filterEnabled {
		return true
	}
	return m.filter.Test(i)
}

// CompletedLength returns the total bytes of completed pieces.
func (m *Manager) CompletedLength() uint64 {
	return m.sumHaveBlockLengths(false)
}

// FilteredCompletedLength returns the total bytes of completed pieces that
// are also selected by the filter.
func (m *Manager) FilteredCompletedLength() uint64 {
	return m.sumHaveBlockLengths(true)
}

func (m *Manager) sumHaveBlockLengths(filtered bool) uint64 {
	var total uint64
	for i, ok := m.have.FirstSet(0); ok; i, ok = m.have.FirstSet(i + 1) {
		if filtered && m.filterEnabled && !m.filter.Test(i) {
			continue
		}
		total += uint64(m.BlockLength(i))
	}
	return total
}

// FilteredTotalLength returns the total bytes selected by the filter, or
// the whole file's length if no filter is enabled.
func (m *Manager) FilteredTotalLength() uint64 {
	if !m.filterEnabled {
		return m.totalLength
	}
	var total uint64
	for i, ok := m.filter.FirstSet(0); ok; i, ok = m.filter.FirstSet(i + 1) {
		total += uint64(m.BlockLength(i))
	}
	return total
}

// IsAllSet reports whether every piece is completed.
func (m *Manager) IsAllSet() bool { return m.have.All() }

// IsFilteredAllSet reports whether every selected piece is completed.
func (m *Manager) IsFilteredAllSet() bool {
	if !m.filterEnabled {
		return m.have.All()
	}
	want := m.filter.Copy()
	want.AndNot(&m.have)
	return want.None()
}

// Bitfield returns the wire-format have bitfield: big-endian bit order,
// trailing bits past NumPieces zeroed.
func (m *Manager) Bitfield() []byte {
	b := m.have.Copy()
	return b.Bytes()
}

// BitfieldLength returns the number of bytes in the wire-format bitfield.
func (m *Manager) BitfieldLength() uint32 { return uint32(len(m.have.Bytes())) }

// SetBitfield replaces the have plane from a wire-format bitfield of the
// same piece count.
func (m *Manager) SetBitfield(b []byte) {
	m.have = bitfield.NewBytes(append([]byte(nil), b...), m.numPieces)
}

// SetFilterBitfield replaces the filter plane from a wire-format bitfield
// of the same piece count and enables filtering.
func (m *Manager) SetFilterBitfield(b []byte) {
	m.filter = bitfield.NewBytes(append([]byte(nil), b...), m.numPieces)
	m.filterEnabled = true
}

// FilterBitfield returns the wire-format filter bitfield.
func (m *Manager) FilterBitfield() []byte {
	b := m.filter.Copy()
	return b.Bytes()
}

// PeerBitfield wraps raw wire-format bytes as a BitField sized to
// NumPieces, for use with GetMissingIndex and friends. Trailing bits past
// NumPieces in the final byte are ignored, per spec.
func (m *Manager) PeerBitfield(b []byte) bitfield.BitField {
	return bitfield.NewBytes(append([]byte(nil), b...), m.numPieces)
}
