package filestorage

import (
	"os"

	"golang.org/x/sys/unix"
)

// disableReadAhead advises the kernel to drop read-ahead for f. A piece
// picker requests blocks in rarest-first order, not file order, so the
// sequential-access heuristic the kernel otherwise applies only costs
// page cache with no payoff.
func disableReadAhead(f *os.File) error {
	return unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_RANDOM)
}
