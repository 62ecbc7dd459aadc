// Package havelog implements a bounded, time-ordered log of "peer X has
// piece Y" advertisements, used to relay newly-completed pieces to other
// peers without re-deriving that from a full bitfield diff. It mirrors
// aria2's haves deque on DefaultPieceStorage.
package havelog

import "time"

// Entry is one advertisement: origin says it now has piece Index, as of
// RegisteredAt.
type Entry struct {
	Origin       uint32
	Index        uint32
	RegisteredAt time.Time
}

// Log holds advertisements newest-first. Advertise always prepends, so the
// slice stays sorted by RegisteredAt descending without a resort.
type Log struct {
	entries []Entry
	now     func() time.Time
}

// New returns an empty Log. now lets callers inject a deterministic clock
// in tests; pass nil to use time.Now.
func New(now func() time.Time) *Log {
	if now == nil {
		now = time.Now
	}
	return &Log{now: now}
}

// Advertise records that origin now has piece index, timestamped with the
// log's clock.
func (l *Log) Advertise(origin, index uint32) {
	l.entries = append([]Entry{{Origin: origin, Index: index, RegisteredAt: l.now()}}, l.entries...)
}

// GetAdvertisedPieceIndexes returns the piece indexes advertised by peers
// other than myOrigin since lastCheck, newest first. It stops at the first
// entry at or before lastCheck, since entries are kept newest-first.
func (l *Log) GetAdvertisedPieceIndexes(myOrigin uint32, lastCheck time.Time) []uint32 {
	var out []uint32
	for _, e := range l.entries {
		if e.Origin == myOrigin {
			continue
		}
		if !e.RegisteredAt.After(lastCheck) {
			break
		}
		out = append(out, e.Index)
	}
	return out
}

// RemoveAdvertisedPiece drops every entry older than maxAge, measured
// against the log's clock. Because the log is newest-first, this is a
// single tail truncation once the first stale entry is found.
func (l *Log) RemoveAdvertisedPiece(maxAge time.Duration) {
	now := l.now()
	for i, e := range l.entries {
		if now.Sub(e.RegisteredAt) > maxAge {
			l.entries = l.entries[:i]
			return
		}
	}
}

// Len returns the number of entries currently retained.
func (l *Log) Len() int { return len(l.entries) }

// Entries returns the retained entries, newest first. The caller must
// not mutate the returned slice.
func (l *Log) Entries() []Entry { return l.entries }

// LoadEntries replaces the log's contents, e.g. when restoring from a
// persisted resume state. entries must already be newest-first.
func (l *Log) LoadEntries(entries []Entry) { l.entries = entries }
