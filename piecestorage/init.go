package piecestorage

import "swarmcore/internal/diskadaptor"

// InitStorage configures the disk adaptor collaborator for this download,
// choosing a variant the same way upstream does: a single file entry
// always gets the direct adaptor; multiple entries get the direct-mapping
// multi adaptor when configured, or the staging copy adaptor otherwise.
// This method only wires collaborators together; it makes no selection
// decisions of its own.
func (s *PieceStorage) InitStorage(storeDir string, entries []diskadaptor.FileEntry) error {
	switch {
	case len(entries) == 1:
		d, err := diskadaptor.NewDirect(storeDir, entries[0].Path, entries[0].Length, s.cfg.EnableDirectIO)
		if err != nil {
			return err
		}
		s.disk = d
	case s.cfg.DirectFileMapping:
		d, err := diskadaptor.NewMulti(storeDir, entries, s.cfg.EnableDirectIO)
		if err != nil {
			return err
		}
		s.disk = d
	default:
		d, err := diskadaptor.NewCopy(storeDir, entries, s.cfg.EnableDirectIO)
		if err != nil {
			return err
		}
		s.disk = d
	}
	return nil
}

// DiskAdaptor exposes the configured collaborator, mainly for callers
// that need to enumerate file entries outside of filter configuration.
func (s *PieceStorage) DiskAdaptor() diskadaptor.DiskAdaptor { return s.disk }
