// Package storage declares the narrow file-backend interface the disk
// adaptors in internal/diskadaptor build on: something that can open a
// named region of local disk for a piece's blocks to be read from and
// written to, independent of how many files or pieces pass through it.
package storage

import "io"

// Backend opens backing files for a download by name and declared length.
type Backend interface {
	Open(name string, length int64) (f File, exists bool, err error)
}

// File is a single opened backing file: the minimal random-access surface
// a piece's blocks are read from and written to as they arrive.
type File interface {
	io.ReaderAt
	io.WriterAt
	io.Closer
}
