package archive

import (
	"fmt"
	"os"

	"github.com/bodgit/sevenzip"
)

// extractSevenZip unpacks a 7z archive, decrypting with the configured
// password when one is set.
func extractSevenZip(path, destDir, password string) error {
	var (
		r   *sevenzip.ReadCloser
		err error
	)
	if password != "" {
		r, err = sevenzip.OpenReaderWithPassword(path, password)
	} else {
		r, err = sevenzip.OpenReader(path)
	}
	if err != nil {
		return fmt.Errorf("opening 7z archive: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		target, err := memberPath(destDir, f.Name)
		if err != nil {
			return err
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, f.Mode().Perm()|0o700); err != nil {
				return fmt.Errorf("creating directory member: %w", err)
			}
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("opening 7z member %q: %w", f.Name, err)
		}

		err = writeMember(target, f.Mode(), rc)
		rc.Close()
		if err != nil {
			return err
		}
	}

	return nil
}
