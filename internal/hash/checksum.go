// Package hash computes the payload checksum stored at header offset 40.
package hash

import "github.com/cespare/xxhash/v2"

// Checksum computes the xxHash64 of the stored payload.
//
// A zero checksum field means "no checksum", so a zero digest is mapped to 1.
func Checksum(payload []byte) uint64 {
	sum := xxhash.Sum64(payload)
	if sum == 0 {
		return 1
	}

	return sum
}

// Verify reports whether payload matches the checksum taken from a header.
func Verify(payload []byte, want uint64) bool {
	return Checksum(payload) == want
}
