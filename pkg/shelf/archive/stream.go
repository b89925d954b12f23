package archive

import (
	"compress/bzip2"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"
)

// extractStreamKind decompresses a bare gzip, bzip2, or xz stream to a
// single file named after the archive's stem inside destDir. These
// formats carry no container and no encryption; the password is ignored.
func extractStreamKind(path, destDir, _ string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	var r io.Reader
	switch KindOf(path) {
	case KindGzip:
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("opening gzip stream: %w", err)
		}
		defer gz.Close()
		r = gz
	case KindBzip2:
		r = bzip2.NewReader(f)
	case KindXz:
		xr, err := xz.NewReader(f)
		if err != nil {
			return fmt.Errorf("opening xz stream: %w", err)
		}
		r = xr
	default:
		return fmt.Errorf("%w: not a single-stream kind", ErrUnsupported)
	}

	return writeMember(filepath.Join(destDir, Stem(path)), 0o644, r)
}
