// Package peer declares the minimal view piecestorage needs of a remote
// peer session, and a local session identity used as the HaveLog origin
// for advertisements the local client makes about its own completions.
package peer

import "github.com/gofrs/uuid"

// Peer is the external collaborator piecestorage consults when choosing a
// piece to request from a specific peer session.
type Peer interface {
	// Bitfield returns the peer's advertised have-bitfield, MSB-first.
	Bitfield() []byte
	// BitfieldLength returns the length of Bitfield() in bytes.
	BitfieldLength() uint32
	// Has reports whether the peer has advertised piece index.
	Has(index uint32) bool
	// FastExtensionEnabled reports whether the BitTorrent fast extension
	// was negotiated with this peer.
	FastExtensionEnabled() bool
	// AllowedFastIndexSet returns the ascending piece indexes the peer
	// has granted as requestable even while we are choked.
	AllowedFastIndexSet() []uint32
}

// LocalID identifies the local client as a HaveLog origin, distinguishing
// its own advertisements ("I completed this piece") from relayed ones.
type LocalID uint32

// NewLocalID derives a LocalID from a fresh random UUID's first four bytes,
// giving each process run a distinct origin without needing coordination.
func NewLocalID() (LocalID, error) {
	u, err := uuid.NewV4()
	if err != nil {
		return 0, err
	}
	b := u.Bytes()
	v := uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	return LocalID(v), nil
}
