// Package piece implements the partial-download record for a single piece
// index: which of its blocks have arrived, and how many bytes that
// represents. It does no I/O; writing bytes to disk and hash-checking a
// finished piece are both the caller's job.
package piece

import "swarmcore/internal/bitfield"

// BlockLength is the fixed sub-piece unit used for within-piece progress
// tracking, independent of the nominal piece length.
const BlockLength = 16 * 1024

// Piece is a partial-download record for one piece index.
type Piece struct {
	Index           uint32
	Length          uint32
	completedBlocks bitfield.BitField
	completedBytes  uint32
}

// New returns an empty Piece of the given length, with block count
// ceil(length / BlockLength).
func New(index, length uint32) *Piece {
	return &Piece{
		Index:           index,
		Length:          length,
		completedBlocks: bitfield.New(numBlocks(length)),
	}
}

func numBlocks(length uint32) uint32 {
	n := length / BlockLength
	if length%BlockLength != 0 {
		n++
	}
	return n
}

// CountBlocks returns the total number of blocks in the piece.
func (p *Piece) CountBlocks() uint32 { return p.completedBlocks.Len() }

// CountCompleteBlocks returns the number of blocks received so far.
func (p *Piece) CountCompleteBlocks() uint32 { return p.completedBlocks.Count() }

// blockLength returns the byte length of block bi: BlockLength for every
// block except possibly the last one in the piece.
func (p *Piece) blockLength(bi uint32) uint32 {
	if bi == p.completedBlocks.Len()-1 {
		last := p.Length - bi*BlockLength
		return last
	}
	return BlockLength
}

// CompleteBlock marks block bi as received and updates the completed-byte
// tally. It is a no-op if the block was already marked complete.
func (p *Piece) CompleteBlock(bi uint32) {
	if p.completedBlocks.Test(bi) {
		return
	}
	p.completedBlocks.Set(bi)
	p.completedBytes += p.blockLength(bi)
}

// SetAllBlocks marks the piece fully complete, e.g. when synthesizing the
// record for an already-had piece that was never checked out.
func (p *Piece) SetAllBlocks() {
	for bi := uint32(0); bi < p.completedBlocks.Len(); bi++ {
		p.CompleteBlock(bi)
	}
}

// CompletedLength returns the number of bytes received so far.
func (p *Piece) CompletedLength() uint32 { return p.completedBytes }

// IsComplete reports whether every block has arrived.
func (p *Piece) IsComplete() bool { return p.completedBlocks.All() }
