// Package strpool implements the BPX string section: an append-only pool of
// UTF-8 strings addressed by stable byte offsets.
//
// Each entry is encoded as:
//   - 4 bytes: length as little-endian uint32
//   - N bytes: string data
//
// The reference returned by Add is the offset of the entry's length prefix. It
// never changes because entries are only ever appended.
package strpool

import (
	"fmt"
	"iter"
	"math"
	"slices"

	"github.com/bpx-format/bpx/endian"
	"github.com/bpx-format/bpx/errs"
)

// lengthPrefixSize is the size of the length prefix of every entry.
const lengthPrefixSize = 4

// Pool is a decoded string section.
type Pool struct {
	data   []byte
	refs   []uint32 // entry offsets in ascending order
	engine endian.EndianEngine
}

// New creates an empty pool.
func New() *Pool {
	return &Pool{engine: endian.GetLittleEndianEngine()}
}

// Decode parses a string section payload. The whole payload must be a sequence of
// well-formed entries; the payload is copied.
func Decode(payload []byte) (*Pool, error) {
	p := New()
	p.data = slices.Clone(payload)

	for offset := 0; offset < len(p.data); {
		if len(p.data)-offset < lengthPrefixSize {
			return nil, fmt.Errorf("%w: string pool entry at %d: need %d length bytes, have %d",
				errs.ErrTruncated, offset, lengthPrefixSize, len(p.data)-offset)
		}
		n := int(p.engine.Uint32(p.data[offset:]))
		if len(p.data)-offset-lengthPrefixSize < n {
			return nil, fmt.Errorf("%w: string pool entry at %d: need %d bytes, have %d",
				errs.ErrTruncated, offset, n, len(p.data)-offset-lengthPrefixSize)
		}
		p.refs = append(p.refs, uint32(offset)) //nolint:gosec
		offset += lengthPrefixSize + n
	}

	return p, nil
}

// Add appends s and returns its reference.
func (p *Pool) Add(s string) (uint32, error) {
	ref := len(p.data)
	if uint64(ref)+lengthPrefixSize+uint64(len(s)) > math.MaxUint32 {
		return 0, fmt.Errorf("%w: string pool cannot hold %d more bytes", errs.ErrContainerTooLarge, len(s))
	}

	p.data = p.engine.AppendUint32(p.data, uint32(len(s))) //nolint:gosec
	p.data = append(p.data, s...)
	p.refs = append(p.refs, uint32(ref)) //nolint:gosec

	return uint32(ref), nil //nolint:gosec
}

// Get resolves ref to the string it was returned for.
//
// Returns:
//   - error: ErrInvalidStringRef when ref is not the offset of an entry in this pool
func (p *Pool) Get(ref uint32) (string, error) {
	if _, found := slices.BinarySearch(p.refs, ref); !found {
		return "", fmt.Errorf("%w: %d (pool size %d)", errs.ErrInvalidStringRef, ref, len(p.data))
	}

	start := int(ref) + lengthPrefixSize
	n := int(p.engine.Uint32(p.data[ref:]))

	return string(p.data[start : start+n]), nil
}

// Len returns the number of strings in the pool.
func (p *Pool) Len() int {
	return len(p.refs)
}

// Size returns the encoded size of the pool in bytes.
func (p *Pool) Size() int {
	return len(p.data)
}

// Bytes returns the encoded pool. The slice must not be modified.
func (p *Pool) Bytes() []byte {
	return p.data
}

// All iterates over every entry in insertion order.
func (p *Pool) All() iter.Seq2[uint32, string] {
	return func(yield func(uint32, string) bool) {
		for _, ref := range p.refs {
			start := int(ref) + lengthPrefixSize
			n := int(p.engine.Uint32(p.data[ref:]))
			if !yield(ref, string(p.data[start:start+n])) {
				return
			}
		}
	}
}
