// Package archive maps file extensions to extraction strategies and
// performs extraction with bounded retry.
//
// Dispatch is by extension against a closed set of kinds, not by content
// sniffing. Container kinds (tar family, zip, 7z, rar) unpack all members
// into the destination directory; single-stream kinds (gzip, bzip2, xz)
// decompress to one file named after the archive's stem. Unsupported
// extensions are not an error: the caller treats the item as a plain file.
package archive

import (
	"path/filepath"
	"strings"
)

// Kind identifies a supported archive container or compression format.
type Kind int

// Supported archive kinds.
const (
	// KindUnsupported marks files that are not recognized archives.
	KindUnsupported Kind = iota
	KindTar
	KindTarGzip
	KindTarBzip2
	KindTarXz
	KindZip
	KindSevenZip
	KindRar
	KindGzip
	KindBzip2
	KindXz
)

// String returns the conventional name of the kind.
func (k Kind) String() string {
	switch k {
	case KindTar:
		return "tar"
	case KindTarGzip:
		return "tar.gz"
	case KindTarBzip2:
		return "tar.bz2"
	case KindTarXz:
		return "tar.xz"
	case KindZip:
		return "zip"
	case KindSevenZip:
		return "7z"
	case KindRar:
		return "rar"
	case KindGzip:
		return "gzip"
	case KindBzip2:
		return "bzip2"
	case KindXz:
		return "xz"
	default:
		return "unsupported"
	}
}

// capability records what an archive kind can do.
type capability struct {
	// password indicates the underlying codec accepts a password.
	password bool

	// singleStream indicates the kind is a bare compression stream with
	// no container semantics.
	singleStream bool
}

var capabilities = map[Kind]capability{
	KindTar:      {},
	KindTarGzip:  {},
	KindTarBzip2: {},
	KindTarXz:    {},
	KindZip:      {password: true},
	KindSevenZip: {password: true},
	KindRar:      {password: true},
	KindGzip:     {singleStream: true},
	KindBzip2:    {singleStream: true},
	KindXz:       {singleStream: true},
}

// SupportsPassword reports whether the kind's codec accepts a password.
// Kinds without encryption support silently ignore a configured password.
func (k Kind) SupportsPassword() bool {
	return capabilities[k].password
}

// SingleStream reports whether the kind decompresses to a single output
// file rather than unpacking a container.
func (k Kind) SingleStream() bool {
	return capabilities[k].singleStream
}

// KindOf classifies a path by extension. Compound tar extensions are
// checked before bare compression suffixes, so "foo.tar.gz" is the tar
// family rather than a gzip stream. Matching is case-insensitive.
func KindOf(path string) Kind {
	name := strings.ToLower(filepath.Base(path))

	switch {
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		return KindTarGzip
	case strings.HasSuffix(name, ".tar.bz2"), strings.HasSuffix(name, ".tbz2"):
		return KindTarBzip2
	case strings.HasSuffix(name, ".tar.xz"), strings.HasSuffix(name, ".txz"):
		return KindTarXz
	}

	switch filepath.Ext(name) {
	case ".tar":
		return KindTar
	case ".zip":
		return KindZip
	case ".7z":
		return KindSevenZip
	case ".rar":
		return KindRar
	case ".gz":
		return KindGzip
	case ".bz2":
		return KindBzip2
	case ".xz":
		return KindXz
	default:
		return KindUnsupported
	}
}

// IsArchive reports whether the path has a supported archive extension.
func IsArchive(path string) bool {
	return KindOf(path) != KindUnsupported
}

// Stem returns the archive base name with its archive extensions removed.
// Single-stream kinds use it to name their decompressed output.
func Stem(path string) string {
	name := filepath.Base(path)
	lower := strings.ToLower(name)

	for _, suffix := range []string{".tar.gz", ".tar.bz2", ".tar.xz"} {
		if strings.HasSuffix(lower, suffix) {
			return name[:len(name)-len(suffix)]
		}
	}

	if ext := filepath.Ext(name); ext != "" && ext != name {
		return strings.TrimSuffix(name, ext)
	}
	return name
}
