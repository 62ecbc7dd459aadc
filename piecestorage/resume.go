package piecestorage

import (
	"swarmcore/internal/havelog"
	"swarmcore/internal/resume"
)

// SetResumeWriter attaches an async resume writer: every subsequent
// CompletePiece enqueues a fresh snapshot to it, non-blocking, so a
// crash loses at most the most recently completed piece's durability.
func (s *PieceStorage) SetResumeWriter(w *resume.AsyncWriter) { s.resumeWriter = w }

// LoadResume restores the have and filter bitfields and the have-log from
// a previously saved resume.State. It is expected to run once, right
// after InitStorage and before any peer traffic is processed.
func (s *PieceStorage) LoadResume(st *resume.State) {
	if st == nil || st.NumPieces != s.bits.NumPieces() {
		return
	}
	if st.Have != nil {
		s.bits.SetBitfield(st.Have)
	}
	if st.Filter != nil {
		s.bits.SetFilterBitfield(st.Filter)
	}
	entries := make([]havelog.Entry, len(st.Haves))
	for i, h := range st.Haves {
		entries[i] = havelog.Entry{Origin: h.Origin, Index: h.Index, RegisteredAt: h.RegisteredAt}
	}
	s.haves.LoadEntries(entries)
}

// SaveResume snapshots the current have bitfield, filter plane and
// have-log into a resume.State suitable for resume.Store.Save.
func (s *PieceStorage) SaveResume() *resume.State {
	haves := s.haves.Entries()
	records := make([]resume.HaveRecord, len(haves))
	for i, h := range haves {
		records[i] = resume.HaveRecord{Origin: h.Origin, Index: h.Index, RegisteredAt: h.RegisteredAt}
	}
	st := &resume.State{
		NumPieces: s.bits.NumPieces(),
		Have:      s.bits.Bitfield(),
		Haves:     records,
	}
	if s.bits.IsFilterEnabled() {
		st.Filter = s.bits.FilterBitfield()
	}
	return st
}
