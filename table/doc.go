// Package table implements the BPX table section: a typed, fixed-width column
// schema with append-only row storage.
//
// # Payload Layout
//
// All integers are little-endian.
//
//	┌──────────────────────────────────────────────────────┐
//	│ Header (12 bytes)                                    │
//	│  - name ref (4), column count (4), row count (4)     │
//	├──────────────────────────────────────────────────────┤
//	│ Columns (12 bytes each)                              │
//	│  - name ref (4), width (4), type (1), reserved (3)   │
//	├──────────────────────────────────────────────────────┤
//	│ Tombstones: ceil(rows/8) bytes, one bit per row      │
//	├──────────────────────────────────────────────────────┤
//	│ Rows: rows * row size bytes                          │
//	└──────────────────────────────────────────────────────┘
//
// Names are references into a string section (see package strpool).
//
// # Column Types
//
// UInt8 is a single unsigned integer of Width bytes (1-8). FixedString holds up
// to Width bytes of UTF-8 without NUL. Every other type stores Width values of
// its unit size: Int8, Int16, UInt16, Int32, UInt32, Int64, UInt64, Float,
// Double and Boolean. Null columns take no row bytes. A row is at most
// math.MaxUint32 bytes.
//
// # Usage
//
//	pool := strpool.New()
//	tbl, _ := table.New(pool, "people")
//	age, _ := tbl.AddColumn("age", format.ColumnUInt8, 1)
//	tbl.Save()
//
//	row := tbl.NewRow()
//	cell, _ := row.Cell(age)
//	_ = cell.SetInt64(42)
//	idx, _ := tbl.Append(row)
package table
