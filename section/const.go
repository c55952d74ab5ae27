package section

import "math"

const (
	// Signature is the 3-byte magic at the start of every BPX container.
	Signature = "BPX"
	// Version is the only format version this package reads and writes.
	Version uint32 = 2
	// DefaultContainerType is the type code stored after the signature when none is configured.
	DefaultContainerType byte = 'P'
)

// offset and sizes of the fixed structures in the container
const (
	MainHeaderSize  = 40                                        // fixed main header size in bytes
	HeaderSize      = 16                                        // fixed section directory entry size in bytes
	DirectoryOffset = MainHeaderSize                            // byte offset where the section directory starts
	TypeExtSize     = 16                                        // size of the opaque type extension in the main header
	MaxOffset       = math.MaxUint32                            // maximum byte offset addressable by a section header
	MaxSectionCount = (MaxOffset - MainHeaderSize) / HeaderSize // upper bound on directory entries
)
