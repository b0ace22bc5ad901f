package core

import (
	"encoding/binary"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// Checksum returns a deterministic 64-bit digest of a residue string using
// BLAKE2b hashing. Identical sequences produce identical checksums
// regardless of input case, which makes the digest usable as a
// content-based identity for exact-duplicate collapse.
func Checksum(residues string) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(strings.ToUpper(residues)))
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}
