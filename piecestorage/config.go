package piecestorage

import "time"

// Config holds the immutable construction parameters for a PieceStorage,
// plus the tunables consulted during init_storage and have-log pruning.
type Config struct {
	PieceLength uint32
	TotalLength uint64

	// EndGameThreshold is the missing-block count at or below which
	// endgame mode engages.
	EndGameThreshold uint32

	// DirectFileMapping selects the multi-file disk adaptor variant: when
	// true, files are written directly in place; when false, a staging
	// copy is used and finalized on completion.
	DirectFileMapping bool

	// EnableDirectIO is forwarded to the disk adaptor's file backend,
	// which disables kernel read-ahead on every backing file it opens; it
	// has no effect on selection logic.
	EnableDirectIO bool

	// HaveLogMaxAge bounds how long an advertisement is retained before
	// RemoveAdvertisedPiece prunes it.
	HaveLogMaxAge time.Duration
}

func (c Config) validate() Config {
	if c.HaveLogMaxAge <= 0 {
		c.HaveLogMaxAge = 2 * time.Minute
	}
	return c
}
