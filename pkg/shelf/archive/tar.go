package archive

import (
	"archive/tar"
	"compress/bzip2"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"
)

// extractTarKind unpacks any member of the tar family, wrapping the file
// reader in the matching decompressor first. Tar has no encryption, so
// the password is ignored.
func extractTarKind(path, destDir, _ string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	r, closeWrap, err := wrapCompressed(KindOf(path), f)
	if err != nil {
		return err
	}
	defer closeWrap()

	return extractTarStream(tar.NewReader(r), destDir)
}

// wrapCompressed wraps f in the decompressor matching the tar kind.
// The returned closer releases decompressor resources; for plain tar it
// is a no-op.
func wrapCompressed(kind Kind, f *os.File) (io.Reader, func(), error) {
	switch kind {
	case KindTar:
		return f, func() {}, nil
	case KindTarGzip:
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		return gz, func() { _ = gz.Close() }, nil
	case KindTarBzip2:
		return bzip2.NewReader(f), func() {}, nil
	case KindTarXz:
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, nil, fmt.Errorf("opening xz stream: %w", err)
		}
		return xr, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("%w: not a tar kind", ErrUnsupported)
	}
}

// extractTarStream writes every regular file and directory in the tar
// stream under destDir. Other member types (symlinks, devices) are
// skipped; a downloads organizer has no business recreating them.
func extractTarStream(tr *tar.Reader, destDir string) error {
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading tar header: %w", err)
		}

		target, err := memberPath(destDir, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, os.FileMode(hdr.Mode).Perm()|0o700); err != nil {
				return fmt.Errorf("creating directory member: %w", err)
			}
		case tar.TypeReg:
			if err := writeMember(target, os.FileMode(hdr.Mode), tr); err != nil {
				return err
			}
		}
	}
}
