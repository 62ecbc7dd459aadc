package piecebits

import "testing"

func allSetBytes(numPieces uint32) []byte {
	n := (numPieces + 7) / 8
	b := make([]byte, n)
	for i := range b {
		b[i] = 0xff
	}
	return b
}

func TestBlockLengthShortLastPiece(t *testing.T) {
	m := New(10, 25) // 3 pieces: 10, 10, 5
	if m.NumPieces() != 3 {
		t.Fatalf("got %d pieces, want 3", m.NumPieces())
	}
	if m.BlockLength(0) != 10 || m.BlockLength(1) != 10 {
		t.Fatal("full pieces should be pieceLength")
	}
	if m.BlockLength(2) != 5 {
		t.Fatalf("got %d, want 5", m.BlockLength(2))
	}
}

func TestGetMissingUnusedIndex(t *testing.T) {
	m := New(10, 50) // 5 pieces
	peer := m.PeerBitfield(allSetBytes(5))

	i, ok := m.GetMissingUnusedIndex(&peer)
	if !ok || i != 0 {
		t.Fatalf("got (%d,%v), want (0,true)", i, ok)
	}

	m.SetHave(0)
	m.SetUse(1)
	i, ok = m.GetMissingUnusedIndex(&peer)
	if !ok || i != 2 {
		t.Fatalf("got (%d,%v), want (2,true)", i, ok)
	}

	all := m.GetAllMissingUnusedIndexes(&peer)
	if len(all) != 3 || all[0] != 2 || all[1] != 3 || all[2] != 4 {
		t.Fatalf("got %v, want [2 3 4]", all)
	}

	// In end-game mode in-use pieces become eligible again.
	endgame := m.GetAllMissingIndexes(&peer)
	if len(endgame) != 4 { // 1,2,3,4 (0 is have)
		t.Fatalf("got %v, want 4 entries", endgame)
	}
}

func TestFilterRoundTrip(t *testing.T) {
	m := New(10, 100) // 10 pieces
	m.AddFilter(20, 30)
	m.EnableFilter()
	if m.FilteredTotalLength() != 30 {
		t.Fatalf("got %d, want 30", m.FilteredTotalLength())
	}
	m.SetHave(2)
	m.SetHave(3)
	m.SetHave(4)
	if !m.IsFilteredAllSet() {
		t.Fatal("expected filtered-all-set")
	}
	if m.IsAllSet() {
		t.Fatal("did not expect all-set")
	}
	m.ClearFilter()
	if m.IsFilteredAllSet() != m.IsAllSet() {
		t.Fatal("clearing filter should make filtered-all-set track all-set")
	}
}

func TestCompletedLengthWithShortLastPiece(t *testing.T) {
	m := New(10, 25)
	m.SetHave(0)
	m.SetHave(2)
	if m.CompletedLength() != 15 {
		t.Fatalf("got %d, want 15", m.CompletedLength())
	}
}

func TestSparsePicksLeastBusySegment(t *testing.T) {
	m := New(1, 20) // 20 single-byte pieces, 10 segments of 2
	for i := uint32(0); i < 10; i++ {
		m.SetHave(i)
	}
	idx, ok := m.GetSparseMissingUnusedIndex()
	if !ok {
		t.Fatal("expected a sparse candidate")
	}
	if idx < 10 {
		t.Fatalf("got %d, expected an index in the untouched half", idx)
	}
}
