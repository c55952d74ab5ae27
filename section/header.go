package section

import (
	"fmt"

	"github.com/bpx-format/bpx/endian"
	"github.com/bpx-format/bpx/errs"
	"github.com/bpx-format/bpx/format"
)

// Header is one entry of the section directory. It is a fixed size of 16 bytes.
type Header struct {
	// Offset is the absolute byte offset of the section payload in the container.
	Offset uint32 // 4 bytes, offset 0-3
	// Size is the byte size of the section payload.
	Size uint32 // 4 bytes, offset 4-7
	// Checksum of the payload, valid when Flags has FlagCheckXXH.
	Checksum uint32 // 4 bytes, offset 8-11
	// Type tells which decoder understands the payload.
	Type format.SectionType // 1 byte, offset 12
	// Flags is a bit set of format.SectionFlag values.
	Flags format.SectionFlag // 1 byte, offset 13
	// Reserved for future use, must be zero.
	Reserved uint16 // 2 bytes, offset 14-15
}

// End returns the offset one past the last payload byte.
func (h Header) End() uint64 {
	return uint64(h.Offset) + uint64(h.Size)
}

// WriteToSlice writes the entry to b, which must hold at least HeaderSize bytes.
func (h *Header) WriteToSlice(b []byte) error {
	if len(b) < HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	engine := endian.GetLittleEndianEngine()

	engine.PutUint32(b[0:4], h.Offset)
	engine.PutUint32(b[4:8], h.Size)
	engine.PutUint32(b[8:12], h.Checksum)
	b[12] = uint8(h.Type)
	b[13] = uint8(h.Flags)
	engine.PutUint16(b[14:16], h.Reserved)

	return nil
}

// Bytes serializes the entry into a new byte slice.
func (h *Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	_ = h.WriteToSlice(b)

	return b
}

// ParseHeader parses a section directory entry from the first HeaderSize bytes of data.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: section header needs %d bytes, got %d", errs.ErrTruncated, HeaderSize, len(data))
	}

	engine := endian.GetLittleEndianEngine()

	return Header{
		Offset:   engine.Uint32(data[0:4]),
		Size:     engine.Uint32(data[4:8]),
		Checksum: engine.Uint32(data[8:12]),
		Type:     format.SectionType(data[12]),
		Flags:    format.SectionFlag(data[13]),
		Reserved: engine.Uint16(data[14:16]),
	}, nil
}

// ParseDirectory parses count consecutive section headers from data.
func ParseDirectory(data []byte, count int) ([]Header, error) {
	if len(data) < count*HeaderSize {
		return nil, fmt.Errorf("%w: directory of %d sections needs %d bytes, got %d",
			errs.ErrTruncated, count, count*HeaderSize, len(data))
	}

	headers := make([]Header, count)
	for i := range headers {
		h, err := ParseHeader(data[i*HeaderSize:])
		if err != nil {
			return nil, err
		}
		headers[i] = h
	}

	return headers, nil
}
