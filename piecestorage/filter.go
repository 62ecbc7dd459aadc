package piecestorage

import (
	"fmt"
	"sort"
)

// NoSuchFileError is returned by SetFileFilter when a requested path does
// not match any known file entry; the caller is expected to abort the
// download on this error.
type NoSuchFileError struct{ Path string }

func (e *NoSuchFileError) Error() string { return fmt.Sprintf("no such file: %s", e.Path) }

// SetFileFilter restricts selective downloading to exactly the given
// file paths (multi-file downloads only): it clears any previous
// selection, re-registers paths with the disk adaptor, and adds each
// resolved file's byte range to the filter.
func (s *PieceStorage) SetFileFilter(paths []string) error {
	if s.disk == nil {
		return fmt.Errorf("piecestorage: no disk adaptor configured")
	}
	s.disk.RemoveAllDownloadEntry()
	s.bits.ClearFilter()
	for _, p := range paths {
		entry, ok := s.disk.GetFileEntryFromPath(p)
		if !ok {
			return &NoSuchFileError{Path: p}
		}
		if !s.disk.AddDownloadEntry(p) {
			return &NoSuchFileError{Path: p}
		}
		s.bits.AddFilter(uint64(entry.Offset), uint64(entry.Length))
	}
	s.bits.EnableFilter()
	return nil
}

// SetFileFilterByIndex resolves 1-based file indices against the disk
// adaptor's file-entry list (duplicates removed, ascending order) and
// delegates to SetFileFilter.
func (s *PieceStorage) SetFileFilterByIndex(indexes []int) error {
	if s.disk == nil {
		return fmt.Errorf("piecestorage: no disk adaptor configured")
	}
	entries := s.disk.GetFileEntries()
	seen := make(map[int]bool)
	var unique []int
	for _, i := range indexes {
		if !seen[i] {
			seen[i] = true
			unique = append(unique, i)
		}
	}
	sort.Ints(unique)

	var paths []string
	for _, i := range unique {
		if i < 1 || i > len(entries) {
			return &NoSuchFileError{Path: fmt.Sprintf("#%d", i)}
		}
		paths = append(paths, entries[i-1].Path)
	}
	return s.SetFileFilter(paths)
}

// ClearFileFilter disables selective downloading and restores every
// known file entry to the download set.
func (s *PieceStorage) ClearFileFilter() {
	if s.disk != nil {
		s.disk.AddAllDownloadEntry()
	}
	s.bits.ClearFilter()
}
