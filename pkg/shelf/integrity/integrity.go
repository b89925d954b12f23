// Package integrity computes verification digests for archive files.
// It streams a file once through MD5, SHA-256, and SHA-512 so large
// downloads are not read three times.
package integrity

import (
	"crypto/md5"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
)

// chunkSize is the read buffer size for the single hashing pass.
const chunkSize = 64 * 1024

// Digest algorithm names used as checksum map keys.
const (
	AlgMD5    = "MD5"
	AlgSHA256 = "SHA256"
	AlgSHA512 = "SHA512"
)

// Hash computes all three digests of the file at path in one pass.
// A read failure mid-stream fails the whole operation; partial digests
// are never returned.
func Hash(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file for hashing: %w", err)
	}
	defer f.Close()

	hashes := map[string]hash.Hash{
		AlgMD5:    md5.New(),
		AlgSHA256: sha256.New(),
		AlgSHA512: sha512.New(),
	}

	writers := make([]io.Writer, 0, len(hashes))
	for _, h := range hashes {
		writers = append(writers, h)
	}

	buf := make([]byte, chunkSize)
	if _, err := io.CopyBuffer(io.MultiWriter(writers...), f, buf); err != nil {
		return nil, fmt.Errorf("hashing %q: %w", path, err)
	}

	sums := make(map[string]string, len(hashes))
	for name, h := range hashes {
		sums[name] = hex.EncodeToString(h.Sum(nil))
	}
	return sums, nil
}
