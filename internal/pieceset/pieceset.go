// Package pieceset holds the collection of pieces currently checked out by
// some peer session: the InFlightSet of spec.md. There is at most one entry
// per piece index. Membership does not by itself mean a piece's use bit is
// set: a cancelled piece that has progress stays in the set unused.
package pieceset

import "swarmcore/internal/piece"

// PieceSet is a collection of in-flight pieces, indexed by piece index for
// O(1) lookup and iterated in insertion order. Removal is linear in the
// set size, since it also updates the insertion-order list.
type PieceSet struct {
	byIndex map[uint32]*piece.Piece
	order   []uint32 // insertion order, for deterministic iteration in tests
}

// New returns an empty PieceSet.
func New() *PieceSet {
	return &PieceSet{byIndex: make(map[uint32]*piece.Piece)}
}

// Add inserts pe into the set. Returns false if a piece with the same
// index is already present.
func (s *PieceSet) Add(pe *piece.Piece) bool {
	if _, ok := s.byIndex[pe.Index]; ok {
		return false
	}
	s.byIndex[pe.Index] = pe
	s.order = append(s.order, pe.Index)
	return true
}

// Get returns the in-flight piece for index, if any.
func (s *PieceSet) Get(index uint32) (*piece.Piece, bool) {
	p, ok := s.byIndex[index]
	return p, ok
}

// Remove deletes the piece at index from the set.
func (s *PieceSet) Remove(index uint32) bool {
	if _, ok := s.byIndex[index]; !ok {
		return false
	}
	delete(s.byIndex, index)
	for i, idx := range s.order {
		if idx == index {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Has reports whether index is currently in-flight.
func (s *PieceSet) Has(index uint32) bool {
	_, ok := s.byIndex[index]
	return ok
}

// Len returns the number of in-flight pieces.
func (s *PieceSet) Len() int { return len(s.byIndex) }

// Each calls f for every in-flight piece, in insertion order. The walk is
// over a snapshot of the order, so f may remove any piece from the set:
// a removed piece that has not been visited yet is skipped.
func (s *PieceSet) Each(f func(*piece.Piece)) {
	for _, idx := range append([]uint32(nil), s.order...) {
		if p, ok := s.byIndex[idx]; ok {
			f(p)
		}
	}
}
