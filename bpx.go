// Package bpx reads and writes BPX containers: a self-describing binary format
// holding an ordered set of typed sections.
//
// # Core Features
//
//   - Fixed 40-byte main header and 16-byte section directory entries
//   - String sections: append-only UTF-8 pools addressed by stable references
//   - Table sections: typed fixed-width columns with append-only rows and tombstones
//   - Opaque sections of any other type, round-tripped byte for byte
//   - xxHash64 based checksums of the header, the directory and every payload
//   - Lazy loading: payloads of an opened container are read on first use
//
// # Container Layout
//
//	┌─────────────────────────────────────────────────────────┐
//	│ Main Header (40 bytes)                                  │
//	│  - Signature "BPX" (3), Type (1), Checksum (4)          │
//	│  - FileSize (8), SectionCount (4), Version (4)          │
//	│  - TypeExt (16)                                         │
//	├─────────────────────────────────────────────────────────┤
//	│ Section Directory (16 bytes × SectionCount)             │
//	│  - Offset (4), Size (4), Checksum (4)                   │
//	│  - Type (1), Flags (1), Reserved (2)                    │
//	├─────────────────────────────────────────────────────────┤
//	│ Section payloads, contiguous, in directory order        │
//	└─────────────────────────────────────────────────────────┘
//
// All integers are little-endian.
//
// # Basic Usage
//
// Creating a container with one table:
//
//	s := stream.NewMemory(nil)
//	c, _ := bpx.Create(s)
//
//	strs := c.CreateStrings()
//	tbl, _ := c.CreateTable(strs, "Test")
//	a, _ := tbl.AddColumn("A", format.ColumnUInt8, 1)
//	name, _ := tbl.AddColumn("Name", format.ColumnFixedString, 16)
//	tbl.Save()
//
//	row := tbl.NewRow()
//	cell, _ := row.Cell(a)
//	_ = cell.SetInt64(42)
//	cell, _ = row.Cell(name)
//	_ = cell.SetText("answer")
//	_, _ = tbl.Append(row)
//
//	_ = c.Save()
//
// Reading it back:
//
//	c, _ := bpx.Open(s)
//	strs := c.FindByType(format.SectionStrings)
//	tbl, _ := c.FindByType(format.SectionTable).OpenTable(strs)
//	for i, row := range tbl.Rows() {
//	    ...
//	}
//
// # Package Structure
//
// The container lives in this package. Section level codecs are in section,
// strpool and table; package inspect renders a human readable layout report.
//
// A Container is not safe for concurrent use.
package bpx
