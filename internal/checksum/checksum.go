// Package checksum computes content digests for snippet sources.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/starford/yk/internal/models"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Sources digests the file names and checksums of srcs in order. Two
// catalogs built from the same files with the same content share a digest.
func Sources(srcs []*models.Source) string {
	h := sha256.New()
	for _, src := range srcs {
		h.Write([]byte(src.File))
		h.Write([]byte{0})
		h.Write([]byte(src.Checksum))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
