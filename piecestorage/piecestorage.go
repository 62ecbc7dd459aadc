// Package piecestorage is the façade over bitfield/rarity/in-flight-piece
// tracking: it decides which piece a peer should be asked for next, and
// accounts for completion, cancellation and selective downloads. It
// corresponds to aria2's DefaultPieceStorage.
package piecestorage

import (
	"math/rand"
	"time"

	"swarmcore/internal/diskadaptor"
	"swarmcore/internal/havelog"
	"swarmcore/internal/logger"
	"swarmcore/internal/peer"
	"swarmcore/internal/piece"
	"swarmcore/internal/piecebits"
	"swarmcore/internal/pieceset"
	"swarmcore/internal/piecestat"
	"swarmcore/internal/resume"
)

// PieceStorage owns the have/use/filter bitfield, the rarity index, the
// in-flight piece set and the have-advertisement log for a single
// download. All of its methods are meant to run on one logical owner;
// there is no internal locking.
type PieceStorage struct {
	cfg Config

	bits     *piecebits.Manager
	rarity   *piecestat.RarityIndex
	inflight *pieceset.PieceSet
	haves    *havelog.Log

	disk diskadaptor.DiskAdaptor

	metrics *metricsSet

	log logger.Logger

	// resumeWriter, when set via SetResumeWriter, receives a snapshot
	// after every completion so progress survives a process restart.
	resumeWriter *resume.AsyncWriter
}

// New builds a PieceStorage for the given configuration. rng drives the
// rarity tiebreak shuffle; pass a seeded source for deterministic tests.
// Pass a nil log to get the package's own named logger.
func New(cfg Config, rng *rand.Rand, lg logger.Logger) *PieceStorage {
	cfg = cfg.validate()
	if lg == nil {
		lg = logger.New("piecestorage")
	}
	b := piecebits.New(cfg.PieceLength, cfg.TotalLength)
	rarity := piecestat.New(b.NumPieces(), rng)
	s := &PieceStorage{
		cfg:      cfg,
		bits:     b,
		rarity:   rarity,
		inflight: pieceset.New(),
		haves:    havelog.New(nil),
		metrics:  newMetricsSet(),
		log:      lg,
	}
	s.metrics.rarityIndexSize.Update(int64(rarity.Len()))
	return s
}

// IsEndGame reports whether the download has few enough missing pieces
// that the "one peer per piece" rule should relax.
func (s *PieceStorage) IsEndGame() bool {
	return s.bits.CountMissingBlock() <= s.cfg.EndGameThreshold
}

// DownloadFinished reports whether every selected (filtered) piece is
// complete.
func (s *PieceStorage) DownloadFinished() bool { return s.bits.IsFilteredAllSet() }

// AllDownloadFinished reports whether every piece in the file is
// complete, regardless of any selective-download filter.
func (s *PieceStorage) AllDownloadFinished() bool { return s.bits.IsAllSet() }

// TotalLength, FilteredTotalLength, CompletedLength and
// FilteredCompletedLength are the progress queries consumers poll to
// report download status.

func (s *PieceStorage) TotalLength() uint64 { return s.bits.TotalLength() }

func (s *PieceStorage) FilteredTotalLength() uint64 { return s.bits.FilteredTotalLength() }

// CompletedLength sums completed whole pieces plus the partial bytes of
// every in-flight piece.
func (s *PieceStorage) CompletedLength() uint64 {
	total := s.bits.CompletedLength()
	s.inflight.Each(func(p *piece.Piece) { total += uint64(p.CompletedLength()) })
	return total
}

// FilteredCompletedLength is CompletedLength restricted to filter-selected
// pieces.
func (s *PieceStorage) FilteredCompletedLength() uint64 {
	total := s.bits.FilteredCompletedLength()
	s.inflight.Each(func(p *piece.Piece) {
		if s.bits.IsSelected(p.Index) {
			total += uint64(p.CompletedLength())
		}
	})
	return total
}

// --- Selection API ---

// GetMissingPiece performs a rarest-first pick against a peer's
// advertised bitfield: in endgame it may return a piece already in use
// by another session, otherwise it only considers unused pieces.
func (s *PieceStorage) GetMissingPiece(p peer.Peer) (*piece.Piece, bool) {
	peerBits := s.bits.PeerBitfield(p.Bitfield())
	var candidates []uint32
	if s.IsEndGame() {
		candidates = s.bits.GetAllMissingIndexes(&peerBits)
	} else {
		candidates = s.bits.GetAllMissingUnusedIndexes(&peerBits)
	}
	if len(candidates) == 0 {
		return nil, false
	}
	stat, ok := s.rarity.FirstStatIn(candidates)
	if !ok {
		return nil, false
	}
	return s.CheckOutPiece(stat.Index), true
}

// GetMissingFastPiece restricts selection to the peer's allowed-fast set:
// indices the peer permits requesting even while choked. A candidate must
// be in that set, advertised by the peer, and not yet had locally.
func (s *PieceStorage) GetMissingFastPiece(p peer.Peer) (*piece.Piece, bool) {
	allowed := p.AllowedFastIndexSet()
	if len(allowed) == 0 {
		return nil, false
	}
	tmp := make([]byte, s.bits.BitfieldLength())
	tmpBits := s.bits.PeerBitfield(tmp)
	for _, idx := range allowed {
		if idx >= s.bits.NumPieces() {
			continue
		}
		if !s.bits.Have(idx) && p.Has(idx) {
			tmpBits.Set(idx)
		}
	}
	var index uint32
	var ok bool
	if s.IsEndGame() {
		index, ok = s.bits.GetMissingIndex(&tmpBits)
	} else {
		index, ok = s.bits.GetMissingUnusedIndex(&tmpBits)
	}
	if !ok {
		return nil, false
	}
	return s.CheckOutPiece(index), true
}

// GetMissingPieceSparse picks a missing-unused index from the file
// segment with the fewest in-flight/complete pieces, without regard to
// any specific peer's advertised bitfield.
func (s *PieceStorage) GetMissingPieceSparse() (*piece.Piece, bool) {
	index, ok := s.bits.GetSparseMissingUnusedIndex()
	if !ok {
		return nil, false
	}
	return s.CheckOutPiece(index), true
}

// GetMissingPieceAt returns none if index is already had or in use,
// otherwise checks it out explicitly.
func (s *PieceStorage) GetMissingPieceAt(index uint32) (*piece.Piece, bool) {
	if s.bits.Have(index) || s.bits.IsUse(index) {
		return nil, false
	}
	return s.CheckOutPiece(index), true
}

// CheckOutPiece marks index in-use and returns its in-flight record,
// creating one if this is the first checkout.
func (s *PieceStorage) CheckOutPiece(index uint32) *piece.Piece {
	s.bits.SetUse(index)
	if p, ok := s.inflight.Get(index); ok {
		return p
	}
	p := piece.New(index, s.bits.BlockLength(index))
	s.inflight.Add(p)
	s.metrics.piecesInFlight.Update(int64(s.inflight.Len()))
	return p
}

// GetPiece is a read-only lookup: a had piece not in flight is
// synthesized as fully complete, a piece with no record at all is
// synthesized as empty. Neither synthesized record is added to the
// in-flight set.
func (s *PieceStorage) GetPiece(index uint32) *piece.Piece {
	if p, ok := s.inflight.Get(index); ok {
		return p
	}
	p := piece.New(index, s.bits.BlockLength(index))
	if s.bits.Have(index) {
		p.SetAllBlocks()
	}
	return p
}

// --- Lifecycle API ---

// CompletePiece finalizes a successfully downloaded and hash-verified
// piece. It is a no-op when p is nil.
func (s *PieceStorage) CompletePiece(p *piece.Piece) {
	if p == nil {
		return
	}
	s.inflight.Remove(p.Index)
	s.metrics.piecesInFlight.Update(int64(s.inflight.Len()))
	if !s.IsEndGame() {
		s.ReduceUsedPieces(100)
	}
	if s.AllDownloadFinished() {
		return
	}
	s.bits.SetHave(p.Index)
	s.bits.UnsetUse(p.Index)
	s.rarity.AddCount(p.Index)
	s.metrics.piecesCompleted.Inc(1)
	s.metrics.completedLength.Update(int64(s.CompletedLength()))

	if s.resumeWriter != nil {
		s.resumeWriter.Enqueue(s.SaveResume())
	}

	if s.DownloadFinished() {
		if s.disk != nil {
			if err := s.disk.OnDownloadComplete(); err != nil {
				s.log.Errorln("disk finalization failed:", err)
			}
		}
		if s.AllDownloadFinished() {
			s.log.Info("download finished")
		} else {
			s.log.Info("selective download finished")
		}
	}
}

// CancelPiece releases a checked-out piece. A piece with zero completed
// bytes is discarded outside endgame; otherwise it is kept in the
// in-flight set so a later checkout resumes the same progress.
func (s *PieceStorage) CancelPiece(p *piece.Piece) {
	if p == nil {
		return
	}
	s.bits.UnsetUse(p.Index)
	if !s.IsEndGame() && p.CompletedLength() == 0 {
		s.inflight.Remove(p.Index)
		s.metrics.piecesInFlight.Update(int64(s.inflight.Len()))
	}
}

// AdvertisePiece records that origin now has index, for later relay to
// other peers via GetAdvertisedPieceIndexes.
func (s *PieceStorage) AdvertisePiece(origin, index uint32) {
	s.haves.Advertise(origin, index)
}

// GetAdvertisedPieceIndexes returns indexes advertised by peers other
// than myOrigin, more recently than since.
func (s *PieceStorage) GetAdvertisedPieceIndexes(myOrigin uint32, since time.Time) []uint32 {
	return s.haves.GetAdvertisedPieceIndexes(myOrigin, since)
}

// RemoveAdvertisedPiece prunes advertisements older than the configured
// HaveLogMaxAge.
func (s *PieceStorage) RemoveAdvertisedPiece() {
	s.haves.RemoveAdvertisedPiece(s.cfg.HaveLogMaxAge)
}

// MarkAllPiecesDone marks the whole file complete, e.g. when resuming a
// download that a prior run finished.
func (s *PieceStorage) MarkAllPiecesDone() { s.bits.SetAllHave() }

// MarkPiecesDone marks the first `length` bytes of the file complete by
// whole pieces, and constructs an in-flight (but not in-use) partial
// record for the trailing remainder if length does not land on a piece
// boundary; that record counts only the remainder's whole blocks. This preserves upstream's "resume partial" behavior: the
// caller must reconcile the dangling in-flight piece before normal
// selection resumes, since its use bit is never set.
func (s *PieceStorage) MarkPiecesDone(length uint64) {
	if length >= s.bits.TotalLength() {
		s.bits.SetAllHave()
		return
	}
	numWhole := uint32(length / uint64(s.cfg.PieceLength))
	if numWhole > 0 {
		s.bits.SetHaveRange(0, numWhole-1)
	}
	rem := length - uint64(numWhole)*uint64(s.cfg.PieceLength)
	if rem == 0 {
		return
	}
	p := piece.New(numWhole, s.bits.BlockLength(numWhole))
	for bi := uint32(0); uint64(bi+1)*piece.BlockLength <= rem; bi++ {
		p.CompleteBlock(bi)
	}
	s.inflight.Add(p)
}
