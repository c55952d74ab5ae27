// Package section defines the fixed-size binary structures of a BPX container:
// the main header and the section directory entries, plus the layout rules that
// place section payloads.
//
// # Container Structure
//
//	┌─────────────────────────────────────────────────────────┐
//	│ MainHeader (40 bytes, fixed)                            │
//	├─────────────────────────────────────────────────────────┤
//	│ Section Directory (N × 16 bytes)                        │
//	├─────────────────────────────────────────────────────────┤
//	│ Payload of section 0                                    │
//	│ ...                                                     │
//	│ Payload of section N-1                                  │
//	└─────────────────────────────────────────────────────────┘
//
// # Main Header Format
//
//	Bytes  | Field        | Type     | Description
//	-------|--------------|----------|----------------------------------------
//	0-2    | Signature    | [3]byte  | "BPX"
//	3      | Type         | uint8    | Container type code, 'P' by default
//	4-7    | Checksum     | uint32   | Header and directory checksum, 0 if unused
//	8-15   | FileSize     | uint64   | Total container size
//	16-19  | SectionCount | uint32   | Number of directory entries
//	20-23  | Version      | uint32   | Format version (2)
//	24-39  | TypeExt      | [16]byte | Opaque, owned by the container type
//
// The checksum is the low 32 bits of the xxHash64 of the main header, with the
// checksum field zeroed, followed by the directory.
//
// # Section Header Format
//
//	Bytes  | Field    | Type   | Description
//	-------|----------|--------|----------------------------------------
//	0-3    | Offset   | uint32 | Absolute payload offset
//	4-7    | Size     | uint32 | Payload size
//	8-11   | Checksum | uint32 | Payload checksum when the xxh flag is set
//	12     | Type     | uint8  | 0xFF strings, 0xFD table, others opaque
//	13     | Flags    | uint8  | See format.SectionFlag
//	14-15  | Reserved | uint16 | Must be zero
//
// # Layout
//
// Payloads are stored contiguously in directory order, directly after the
// directory. Layout computes the offsets and the total size from the payload
// sizes alone, so a container written twice with the same payloads is byte
// identical.
//
// All offsets are 32-bit: a container is limited to MaxOffset bytes.
package section
