package format

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSectionType_String(t *testing.T) {
	require.Equal(t, "Strings", SectionStrings.String())
	require.Equal(t, "Table", SectionTable.String())
	require.Equal(t, "Unknown", SectionType(0x10).String())
	require.Equal(t, uint8(0xFF), uint8(SectionStrings))
	require.Equal(t, uint8(0xFD), uint8(SectionTable))
}

func TestSectionFlag(t *testing.T) {
	tests := []struct {
		flag       SectionFlag
		compressed bool
		str        string
	}{
		{0, false, "-"},
		{FlagCheckXXH, false, "xxh"},
		{FlagCompressZlib, true, "zlib"},
		{FlagCompressXZ | FlagCheckXXH, true, "xz|xxh"},
		{0x80, false, "reserved"},
	}
	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			require.Equal(t, tt.compressed, tt.flag.IsCompressed())
			require.Equal(t, tt.str, tt.flag.String())
		})
	}

	require.True(t, (FlagCheckXXH | FlagCompressZlib).Has(FlagCheckXXH))
	require.False(t, FlagCompressZlib.Has(FlagCheckXXH))
}

func TestColumnType(t *testing.T) {
	tests := []struct {
		typ     ColumnType
		valid   bool
		unit    int
		integer bool
		signed  bool
		str     string
	}{
		{ColumnUInt8, true, 1, true, false, "UInt8"},
		{ColumnDouble, true, 8, false, false, "Double"},
		{ColumnFixedString, true, 1, false, false, "FixedString"},
		{ColumnInt8, true, 1, true, true, "Int8"},
		{ColumnInt16, true, 2, true, true, "Int16"},
		{ColumnUInt16, true, 2, true, false, "UInt16"},
		{ColumnInt32, true, 4, true, true, "Int32"},
		{ColumnUInt32, true, 4, true, false, "UInt32"},
		{ColumnInt64, true, 8, true, true, "Int64"},
		{ColumnUInt64, true, 8, true, false, "UInt64"},
		{ColumnFloat, true, 4, false, false, "Float"},
		{ColumnBoolean, true, 1, false, false, "Boolean"},
		{ColumnNull, true, 0, false, false, "Null"},
		{ColumnType(0), false, 0, false, false, "Unknown"},
		{ColumnType(0x0E), false, 0, false, false, "Unknown"},
		{ColumnType(0x7F), false, 0, false, false, "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.str+"/"+strconv.Itoa(int(tt.typ)), func(t *testing.T) {
			require.Equal(t, tt.valid, tt.typ.IsValid())
			require.Equal(t, tt.unit, tt.typ.UnitSize())
			require.Equal(t, tt.integer, tt.typ.IsInteger())
			require.Equal(t, tt.signed, tt.typ.IsSigned())
			require.Equal(t, tt.str, tt.typ.String())
		})
	}
}

func TestColumnType_StableCodes(t *testing.T) {
	require.Equal(t, uint8(1), uint8(ColumnUInt8))
	require.Equal(t, uint8(2), uint8(ColumnDouble))
	require.Equal(t, uint8(3), uint8(ColumnFixedString))
}
