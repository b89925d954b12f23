// Package grouping derives grouping keys from file names.
//
// The key is the (library, version) pair used to pick destination
// directories: the leading alphanumeric run of the normalized base name is
// the library, an immediately following dotted numeric run is the version.
// Anything after that (platform tags, build suffixes) is dropped on
// purpose; this lossy classification is what groups "SDL2-2.30.1-win64.zip"
// and "SDL2-2.30.1.tar.gz" under the same directory.
package grouping

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jamesainslie/shelf/pkg/shelf/types"
)

// namePattern matches the leading alphanumeric run as the library name,
// optionally followed by a single joiner and a dotted numeric version.
var namePattern = regexp.MustCompile(`^([a-zA-Z0-9]+)[-_]?([0-9]+(?:\.[0-9]+)*)?`)

// Simplify derives a grouping key from a file name. It is deterministic
// and total: the same name always yields the same key, and every name
// yields some key.
//
// The final extension is stripped, spaces are replaced with underscores,
// then the pattern is applied. Names without a leading alphanumeric run
// keep the whole normalized base name as the library with an empty
// version.
func Simplify(name string) types.GroupingKey {
	base := stripExt(name)
	base = strings.ReplaceAll(base, " ", "_")

	m := namePattern.FindStringSubmatch(base)
	if m == nil {
		return types.GroupingKey{Library: base}
	}

	return types.GroupingKey{Library: m[1], Version: m[2]}
}

// stripExt removes the final extension from a name. A leading dot is not
// an extension, so dotfiles like ".bashrc" are left intact.
func stripExt(name string) string {
	ext := filepath.Ext(name)
	if ext == "" || ext == name {
		return name
	}
	return strings.TrimSuffix(name, ext)
}
