package section

import (
	"fmt"

	"github.com/bpx-format/bpx/endian"
	"github.com/bpx-format/bpx/errs"
)

// MainHeader is the fixed-size header at the start of a BPX container.
type MainHeader struct {
	// Signature identifies the format, always "BPX".
	Signature [3]byte // byte offset 0-2
	// Type is a container type code chosen by the producing application.
	Type byte // byte offset 3
	// Checksum covers the main header (with this field zeroed) and the section directory.
	// Zero means the container was written without checksums.
	Checksum uint32 // byte offset 4-7
	// FileSize is the total byte length of the container. It is recomputed on every save.
	FileSize uint64 // byte offset 8-15
	// SectionCount is the number of entries in the section directory.
	SectionCount uint32 // byte offset 16-19
	// Version is the format version.
	Version uint32 // byte offset 20-23
	// TypeExt holds opaque bytes interpreted by the producing application.
	TypeExt [TypeExtSize]byte // byte offset 24-39
}

// NewMainHeader creates a header for an empty container of the given type code.
func NewMainHeader(typeCode byte) MainHeader {
	h := MainHeader{
		Type:     typeCode,
		Version:  Version,
		FileSize: MainHeaderSize,
	}
	copy(h.Signature[:], Signature)

	return h
}

// Parse parses the header from a byte slice and validates signature and version.
//
// Returns:
//   - error: ErrInvalidHeaderSize if data is not exactly MainHeaderSize bytes,
//     ErrInvalidSignature or ErrUnsupportedVersion on validation failures
func (h *MainHeader) Parse(data []byte) error {
	if len(data) != MainHeaderSize {
		return fmt.Errorf("%w: main header needs %d bytes, got %d", errs.ErrInvalidHeaderSize, MainHeaderSize, len(data))
	}

	engine := endian.GetLittleEndianEngine()

	copy(h.Signature[:], data[0:3])
	h.Type = data[3]
	h.Checksum = engine.Uint32(data[4:8])
	h.FileSize = engine.Uint64(data[8:16])
	h.SectionCount = engine.Uint32(data[16:20])
	h.Version = engine.Uint32(data[20:24])
	copy(h.TypeExt[:], data[24:40])

	return h.Validate()
}

// Validate checks the signature and version fields.
func (h *MainHeader) Validate() error {
	if string(h.Signature[:]) != Signature {
		return fmt.Errorf("%w: %q", errs.ErrInvalidSignature, h.Signature[:])
	}
	if h.Version != Version {
		return fmt.Errorf("%w: %d", errs.ErrUnsupportedVersion, h.Version)
	}

	return nil
}

// WriteToSlice serializes the header into b, which must hold at least MainHeaderSize bytes.
func (h *MainHeader) WriteToSlice(b []byte) error {
	if len(b) < MainHeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	engine := endian.GetLittleEndianEngine()

	copy(b[0:3], h.Signature[:])
	b[3] = h.Type
	engine.PutUint32(b[4:8], h.Checksum)
	engine.PutUint64(b[8:16], h.FileSize)
	engine.PutUint32(b[16:20], h.SectionCount)
	engine.PutUint32(b[20:24], h.Version)
	copy(b[24:40], h.TypeExt[:])

	return nil
}

// Bytes serializes the header into a new byte slice.
func (h *MainHeader) Bytes() []byte {
	b := make([]byte, MainHeaderSize)
	_ = h.WriteToSlice(b)

	return b
}

// ParseMainHeader parses a MainHeader from the first MainHeaderSize bytes of data.
func ParseMainHeader(data []byte) (MainHeader, error) {
	if len(data) < MainHeaderSize {
		return MainHeader{}, fmt.Errorf("%w: main header needs %d bytes, got %d", errs.ErrTruncated, MainHeaderSize, len(data))
	}

	h := MainHeader{}
	if err := h.Parse(data[:MainHeaderSize]); err != nil {
		return MainHeader{}, err
	}

	return h, nil
}
