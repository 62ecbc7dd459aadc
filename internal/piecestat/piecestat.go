// Package piecestat tracks, for every piece index, how many peers in the
// swarm are known to have it, and keeps a rarity-ordered view over those
// counts for rarest-first selection. It corresponds to aria2's PieceStat
// plus the sorted _sortedPieceStats deque in DefaultPieceStorage.
package piecestat

import (
	"math/rand"
	"sort"

	"github.com/google/btree"
)

const maxCount = ^uint32(0)

// PieceStat is the mutable rarity counter for one piece index.
type PieceStat struct {
	Index uint32
	Count uint32
	// Order is a randomized permutation assigned once at construction,
	// used as a stable tiebreak between equally rare pieces so selection
	// does not herd onto the same piece across many peers.
	Order uint32
}

type statItem struct {
	s *PieceStat
}

// Less orders items by (Count, Order) ascending. Order is a permutation of
// 0..N-1, so it alone disambiguates any Count tie and the pair is always a
// strict total order.
func (i statItem) Less(than btree.Item) bool {
	o := than.(statItem).s
	if i.s.Count != o.Count {
		return i.s.Count < o.Count
	}
	return i.s.Order < o.Order
}

// RarityIndex is the primary per-index stat array plus a sorted-by-rarity
// view over the same underlying stats, kept consistent on every mutation.
type RarityIndex struct {
	stats []*PieceStat
	tree  *btree.BTree
}

// New builds a RarityIndex for numPieces pieces, all initially at count 0,
// with randomized tiebreak order drawn from rng (pass a seeded *rand.Rand
// so tests can make construction deterministic).
func New(numPieces uint32, rng *rand.Rand) *RarityIndex {
	stats := make([]*PieceStat, numPieces)
	for i := range stats {
		stats[i] = &PieceStat{Index: uint32(i)}
	}
	order := rng.Perm(int(numPieces))
	for i, s := range stats {
		s.Order = uint32(order[i])
	}
	tree := btree.New(32)
	for _, s := range stats {
		tree.ReplaceOrInsert(statItem{s})
	}
	return &RarityIndex{stats: stats, tree: tree}
}

// Len returns the number of tracked pieces.
func (r *RarityIndex) Len() int { return len(r.stats) }

// rebuildTree discards and recomputes the sorted view from the primary
// stats. Only needed after a bulk edit that bypasses incr/decr, such as
// overriding Order values directly in tests.
func (r *RarityIndex) rebuildTree() {
	tree := btree.New(32)
	for _, s := range r.stats {
		tree.ReplaceOrInsert(statItem{s})
	}
	r.tree = tree
}

// Stat returns the primary stat for index.
func (r *RarityIndex) Stat(index uint32) *PieceStat { return r.stats[index] }

func (r *RarityIndex) reinsert(s *PieceStat, mutate func()) {
	r.tree.Delete(statItem{s})
	mutate()
	r.tree.ReplaceOrInsert(statItem{s})
}

func (r *RarityIndex) incr(s *PieceStat) {
	r.reinsert(s, func() {
		if s.Count < maxCount {
			s.Count++
		}
	})
}

func (r *RarityIndex) decr(s *PieceStat) {
	r.reinsert(s, func() {
		if s.Count > 0 {
			s.Count--
		}
	})
}

// AddPeerBitfield increments the count of every piece set in bits,
// saturating at the counter's maximum.
func (r *RarityIndex) AddPeerBitfield(bits BitTester, length uint32) {
	for i := uint32(0); i < length && i < uint32(len(r.stats)); i++ {
		if bits.Test(i) {
			r.incr(r.stats[i])
		}
	}
}

// SubtractPeerBitfield decrements the count of every piece set in bits,
// saturating at zero.
func (r *RarityIndex) SubtractPeerBitfield(bits BitTester, length uint32) {
	for i := uint32(0); i < length && i < uint32(len(r.stats)); i++ {
		if bits.Test(i) {
			r.decr(r.stats[i])
		}
	}
}

// UpdatePeerBitfield reconciles a peer's previously known bitfield with its
// new one: counts go up where newBits gained a piece, down where it lost
// one.
func (r *RarityIndex) UpdatePeerBitfield(newBits, oldBits BitTester, length uint32) {
	for i := uint32(0); i < length && i < uint32(len(r.stats)); i++ {
		n, o := newBits.Test(i), oldBits.Test(i)
		switch {
		case n && !o:
			r.incr(r.stats[i])
		case !n && o:
			r.decr(r.stats[i])
		}
	}
}

// AddCount increments the count for a single piece index, used when a
// local download completes and the local client becomes a new source for
// it in the swarm.
func (r *RarityIndex) AddCount(index uint32) { r.incr(r.stats[index]) }

// FirstStatIn returns the rarest stat (lowest Count, then lowest Order on
// ties) whose index is a member of the ascending candidate set indexes.
func (r *RarityIndex) FirstStatIn(indexes []uint32) (*PieceStat, bool) {
	if len(indexes) == 0 {
		return nil, false
	}
	var found *PieceStat
	r.tree.Ascend(func(item btree.Item) bool {
		s := item.(statItem).s
		if member(indexes, s.Index) {
			found = s
			return false
		}
		return true
	})
	return found, found != nil
}

func member(sorted []uint32, v uint32) bool {
	i := sort.Search(len(sorted), func(i int) bool { return sorted[i] >= v })
	return i < len(sorted) && sorted[i] == v
}

// BitTester is the minimal surface piecestat needs from a bitfield.
type BitTester interface {
	Test(i uint32) bool
}
