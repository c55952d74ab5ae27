package section

import (
	"fmt"

	"github.com/bpx-format/bpx/errs"
)

// PayloadOffset returns the offset of the first section payload in a container
// holding sectionCount sections.
func PayloadOffset(sectionCount int) uint64 {
	return uint64(DirectoryOffset) + uint64(sectionCount)*HeaderSize
}

// Layout places payloads of the given sizes contiguously after the main header and
// the section directory, in order.
//
// It is a pure function of its input: the returned offsets and the total file size
// are what Save writes into the directory and the main header.
//
// Returns:
//   - []uint32: payload offset of each section
//   - uint64: total container size
//   - error: ErrContainerTooLarge when a payload would end past MaxOffset
func Layout(sizes []int) ([]uint32, uint64, error) {
	if len(sizes) > MaxSectionCount {
		return nil, 0, fmt.Errorf("%w: %d sections", errs.ErrContainerTooLarge, len(sizes))
	}

	offsets := make([]uint32, len(sizes))
	pos := PayloadOffset(len(sizes))
	for i, size := range sizes {
		end := pos + uint64(size)
		if size < 0 || end > MaxOffset {
			return nil, 0, fmt.Errorf("%w: section %d ends at %d", errs.ErrContainerTooLarge, i, end)
		}
		offsets[i] = uint32(pos)
		pos = end
	}

	return offsets, pos, nil
}
