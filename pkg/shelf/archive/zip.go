package archive

import (
	"fmt"
	"os"

	"github.com/yeka/zip"
)

// extractZip unpacks a zip archive. Encrypted entries (ZipCrypto or AES)
// are decrypted with the configured password; unencrypted entries in the
// same archive extract normally.
func extractZip(path, destDir, password string) error {
	r, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("opening zip archive: %w", err)
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

		if f.IsEncrypted() && password != "" {
			f.SetPassword(password)
		}

		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("opening zip member %q: %w", f.Name, err)
		}

		err = writeMember(target, f.Mode(), rc)
		rc.Close()
		if err != nil {
			return err
		}
	}

	return nil
}
