package archive

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/nwaples/rardecode/v2"
)

// extractRar unpacks a rar archive, decrypting with the configured
// password when one is set.
func extractRar(path, destDir, password string) error {
	var opts []rardecode.Option
	if password != "" {
		opts = append(opts, rardecode.Password(password))
	}

	r, err := rardecode.OpenReader(path, opts...)
	if err != nil {
		return fmt.Errorf("opening rar archive: %w", err)
	}
	defer r.Close()

	for {
		hdr, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading rar header: %w", err)
		}

		target, err := memberPath(destDir, hdr.Name)
		if err != nil {
			return err
		}

		if hdr.IsDir {
			if err := os.MkdirAll(target, hdr.Mode().Perm()|0o700); err != nil {
				return fmt.Errorf("creating directory member: %w", err)
			}
			continue
		}

		if err := writeMember(target, hdr.Mode(), r); err != nil {
			return err
		}
	}
}
