//go:build !linux

package filestorage

import "os"

// disableReadAhead is a no-op outside Linux: there is no portable
// fadvise-equivalent, so FileStorage.applyDirectIO silently keeps the
// platform's default read-ahead behavior.
func disableReadAhead(f *os.File) error {
	return nil
}
