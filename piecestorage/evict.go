package piecestorage

import "swarmcore/internal/piece"

// fillRateThresholds mirrors the upstream loop bound: eviction only ever
// considers pieces filled to at most 40%, and stops before reaching 50%
// so a well-filled piece is never thrown away to make room.
var fillRateThresholds = []int{10, 20, 30, 40}

// ReduceUsedPieces evicts unused, lightly-filled in-flight pieces until at
// most keepMax remain, scanning fill-rate thresholds in ascending order
// and never evicting a piece filled past 40%.
func (s *PieceStorage) ReduceUsedPieces(keepMax int) {
	toDel := s.inflight.Len() - keepMax
	if toDel <= 0 {
		return
	}
	for _, fr := range fillRateThresholds {
		if toDel <= 0 {
			break
		}
		deleted := s.evictAtFillRate(fr, toDel)
		toDel -= deleted
		if deleted == 0 {
			break
		}
	}
	s.metrics.piecesInFlight.Update(int64(s.inflight.Len()))
}

func (s *PieceStorage) evictAtFillRate(fr, maxDelete int) int {
	var victims []uint32
	s.inflight.Each(func(p *piece.Piece) {
		if len(victims) >= maxDelete {
			return
		}
		if s.bits.IsUse(p.Index) {
			return
		}
		if fillPercent(p) <= fr {
			victims = append(victims, p.Index)
		}
	})
	for _, idx := range victims {
		s.inflight.Remove(idx)
	}
	if len(victims) > 0 {
		s.metrics.piecesEvicted.Inc(int64(len(victims)))
	}
	return len(victims)
}

func fillPercent(p *piece.Piece) int {
	total := p.CountBlocks()
	if total == 0 {
		return 0
	}
	return int(p.CountCompleteBlocks() * 100 / total)
}
