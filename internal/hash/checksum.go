package hash

import "github.com/cespare/xxhash/v2"

// Checksum computes the 32-bit BPX checksum of data: the low 32 bits of its xxHash64.
func Checksum(data []byte) uint32 {
	return uint32(xxhash.Sum64(data)) //nolint:gosec
}

// Digest accumulates a checksum over several byte slices.
type Digest struct {
	d *xxhash.Digest
}

// NewDigest creates an empty Digest.
func NewDigest() *Digest {
	return &Digest{d: xxhash.New()}
}

// Write adds p to the running checksum.
func (d *Digest) Write(p []byte) {
	_, _ = d.d.Write(p)
}

// Sum32 returns the checksum of everything written so far.
func (d *Digest) Sum32() uint32 {
	return uint32(d.d.Sum64()) //nolint:gosec
}
