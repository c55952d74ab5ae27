// Package format defines the tags stored in BPX containers: section types,
// section flags and table column types.
package format

type (
	SectionType uint8
	SectionFlag uint8
	ColumnType  uint8
)

const (
	SectionStrings SectionType = 0xFF // SectionStrings tags a string pool section.
	SectionTable   SectionType = 0xFD // SectionTable tags a table section.
)

const (
	FlagCompressZlib SectionFlag = 0x01 // FlagCompressZlib marks a zlib compressed payload (unsupported).
	FlagCompressXZ   SectionFlag = 0x02 // FlagCompressXZ marks an xz compressed payload (unsupported).
	FlagCheckXXH     SectionFlag = 0x04 // FlagCheckXXH marks a payload carrying an xxHash checksum.

	FlagCompressMask = FlagCompressZlib | FlagCompressXZ
)

const (
	ColumnUInt8       ColumnType = 0x1 // ColumnUInt8 is an unsigned integer of width bytes.
	ColumnDouble      ColumnType = 0x2 // ColumnDouble is width IEEE-754 doubles.
	ColumnFixedString ColumnType = 0x3 // ColumnFixedString is a UTF-8 string of at most width bytes.

	// Scalar column types. Width counts values, like ColumnDouble.
	ColumnInt8    ColumnType = 0x4
	ColumnInt16   ColumnType = 0x5
	ColumnUInt16  ColumnType = 0x6
	ColumnInt32   ColumnType = 0x7
	ColumnUInt32  ColumnType = 0x8
	ColumnInt64   ColumnType = 0x9
	ColumnUInt64  ColumnType = 0xA
	ColumnFloat   ColumnType = 0xB // ColumnFloat is width IEEE-754 singles.
	ColumnBoolean ColumnType = 0xC // ColumnBoolean stores one byte per value, 0 or 1.
	ColumnNull    ColumnType = 0xD // ColumnNull occupies no row bytes.
)

func (t SectionType) String() string {
	switch t {
	case SectionStrings:
		return "Strings"
	case SectionTable:
		return "Table"
	default:
		return "Unknown"
	}
}

// Has reports whether all bits of flag are set.
func (f SectionFlag) Has(flag SectionFlag) bool {
	return f&flag == flag
}

// IsCompressed reports whether any compression bit is set.
func (f SectionFlag) IsCompressed() bool {
	return f&FlagCompressMask != 0
}

func (f SectionFlag) String() string {
	if f == 0 {
		return "-"
	}

	s := ""
	add := func(name string) {
		if s != "" {
			s += "|"
		}
		s += name
	}
	if f.Has(FlagCompressZlib) {
		add("zlib")
	}
	if f.Has(FlagCompressXZ) {
		add("xz")
	}
	if f.Has(FlagCheckXXH) {
		add("xxh")
	}
	if rest := f &^ (FlagCompressMask | FlagCheckXXH); rest != 0 {
		add("reserved")
	}

	return s
}

// IsValid reports whether t is a known column type.
func (t ColumnType) IsValid() bool {
	return t >= ColumnUInt8 && t <= ColumnNull
}

// IsInteger reports whether cells of t hold integers.
func (t ColumnType) IsInteger() bool {
	switch t {
	case ColumnUInt8, ColumnInt8, ColumnInt16, ColumnUInt16,
		ColumnInt32, ColumnUInt32, ColumnInt64, ColumnUInt64:
		return true
	default:
		return false
	}
}

// IsSigned reports whether t is a signed integer type.
func (t ColumnType) IsSigned() bool {
	switch t {
	case ColumnInt8, ColumnInt16, ColumnInt32, ColumnInt64:
		return true
	default:
		return false
	}
}

// UnitSize returns the byte size of one slot of the column type. It is 0 for
// ColumnNull and for unknown types.
func (t ColumnType) UnitSize() int {
	switch t {
	case ColumnUInt8, ColumnFixedString, ColumnInt8, ColumnBoolean:
		return 1
	case ColumnInt16, ColumnUInt16:
		return 2
	case ColumnInt32, ColumnUInt32, ColumnFloat:
		return 4
	case ColumnDouble, ColumnInt64, ColumnUInt64:
		return 8
	default:
		return 0
	}
}

var columnTypeNames = [...]string{
	ColumnUInt8:       "UInt8",
	ColumnDouble:      "Double",
	ColumnFixedString: "FixedString",
	ColumnInt8:        "Int8",
	ColumnInt16:       "Int16",
	ColumnUInt16:      "UInt16",
	ColumnInt32:       "Int32",
	ColumnUInt32:      "UInt32",
	ColumnInt64:       "Int64",
	ColumnUInt64:      "UInt64",
	ColumnFloat:       "Float",
	ColumnBoolean:     "Boolean",
	ColumnNull:        "Null",
}

func (t ColumnType) String() string {
	if !t.IsValid() {
		return "Unknown"
	}

	return columnTypeNames[t]
}
