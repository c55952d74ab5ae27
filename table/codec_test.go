package table

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bpx-format/bpx/errs"
	"github.com/bpx-format/bpx/format"
	"github.com/bpx-format/bpx/strpool"
)

func TestTable_Bytes(t *testing.T) {
	pool := strpool.New()
	tbl, err := New(pool, "t")
	require.NoError(t, err)
	a, err := tbl.AddColumn("a", format.ColumnUInt8, 2)
	require.NoError(t, err)

	row := tbl.NewRow()
	cell, err := row.Cell(a)
	require.NoError(t, err)
	require.NoError(t, cell.SetInt64(0x0102))
	_, err = tbl.Append(row)
	require.NoError(t, err)

	want := []byte{
		0, 0, 0, 0, // name ref
		1, 0, 0, 0, // columns
		1, 0, 0, 0, // rows
		5, 0, 0, 0, 2, 0, 0, 0, byte(format.ColumnUInt8), 0, 0, 0,
		0x00,       // tombstones
		0x02, 0x01, // row 0
	}
	require.Equal(t, len(want), tbl.Size())
	require.Equal(t, want, tbl.Bytes())
}

func TestOpen_RoundTrip(t *testing.T) {
	pool := strpool.New()
	tbl, err := New(pool, "Test")
	require.NoError(t, err)
	a, err := tbl.AddColumn("A", format.ColumnUInt8, 1)
	require.NoError(t, err)
	b, err := tbl.AddColumn("B", format.ColumnDouble, 1)
	require.NoError(t, err)
	c, err := tbl.AddColumn("C", format.ColumnFixedString, 8)
	require.NoError(t, err)
	tbl.Save()

	for i, text := range []string{"test", "value", "another value"} {
		row := tbl.NewRow()
		ca, err := row.Cell(a)
		require.NoError(t, err)
		require.NoError(t, ca.SetInt64(0xFF))
		cb, err := row.Cell(b)
		require.NoError(t, err)
		require.NoError(t, cb.SetFloat64(0.42))
		cc, err := row.Cell(c)
		require.NoError(t, err)
		require.NoError(t, cc.SetText(text))

		idx, err := tbl.Append(row)
		require.NoError(t, err)
		require.Equal(t, i, idx)
	}
	require.NoError(t, tbl.Delete(1))

	decodedPool, err := strpool.Decode(pool.Bytes())
	require.NoError(t, err)
	opened, err := Open(tbl.Bytes(), decodedPool)
	require.NoError(t, err)

	require.Equal(t, "Test", opened.Name())
	require.True(t, opened.Locked())
	require.Equal(t, 3, opened.RowCount())
	require.Equal(t, 17, opened.RowSize())
	require.Equal(t, tbl.Columns(), opened.Columns())
	require.Equal(t, tbl.Bytes(), opened.Bytes())

	col, err := opened.Column("C")
	require.NoError(t, err)
	row, err := opened.Read(2)
	require.NoError(t, err)
	cell, err := row.Cell(col)
	require.NoError(t, err)
	text, err := cell.Text()
	require.NoError(t, err)
	require.Equal(t, "another ", text)

	free, err := opened.IsFree(1)
	require.NoError(t, err)
	require.True(t, free)

	_, err = opened.AddColumn("D", format.ColumnUInt8, 1)
	require.ErrorIs(t, err, errs.ErrSchemaLocked)
}

func TestOpen_Errors(t *testing.T) {
	pool := strpool.New()
	tbl, err := New(pool, "t")
	require.NoError(t, err)
	_, err = tbl.AddColumn("a", format.ColumnUInt8, 2)
	require.NoError(t, err)
	_, err = tbl.Append(tbl.NewRow())
	require.NoError(t, err)
	valid := tbl.Bytes()

	mutate := func(fn func(b []byte) []byte) []byte {
		b := append([]byte(nil), valid...)
		return fn(b)
	}

	tests := []struct {
		name    string
		payload []byte
		want    error
	}{
		{"short header", valid[:8], errs.ErrTruncated},
		{"missing columns", valid[:HeaderSize+4], errs.ErrTruncated},
		{"missing rows", valid[:len(valid)-1], errs.ErrMalformedTable},
		{"trailing bytes", append(append([]byte(nil), valid...), 0), errs.ErrMalformedTable},
		{"bad table name", mutate(func(b []byte) []byte { b[0] = 3; return b }), errs.ErrInvalidStringRef},
		{"bad column name", mutate(func(b []byte) []byte { b[12] = 1; return b }), errs.ErrInvalidStringRef},
		{"unknown type", mutate(func(b []byte) []byte { b[20] = 0x7F; return b }), errs.ErrUnknownColumnType},
		{"zero width", mutate(func(b []byte) []byte { b[16] = 0; return b }), errs.ErrMalformedTable},
		{"row count", mutate(func(b []byte) []byte { b[8] = 2; return b }), errs.ErrMalformedTable},
		{"row size overflow", mutate(func(b []byte) []byte {
			b[20] = byte(format.ColumnDouble)
			binary.LittleEndian.PutUint32(b[16:20], 1<<29)
			return b
		}), errs.ErrMalformedTable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(tt.payload, pool)
			require.ErrorIs(t, err, tt.want)
			require.ErrorIs(t, err, errs.ErrFormat)
		})
	}
}

func TestOpen_RowSizeAcrossColumns(t *testing.T) {
	pool := strpool.New()
	tbl, err := New(pool, "wide")
	require.NoError(t, err)
	for _, name := range []string{"a", "b", "c"} {
		_, err = tbl.AddColumn(name, format.ColumnDouble, 1)
		require.NoError(t, err)
	}
	_, err = tbl.Append(tbl.NewRow())
	require.NoError(t, err)

	payload := tbl.Bytes()
	// three columns of 2^29 doubles each: 2^32 bytes per column and 3*2^32 per row
	for i := range 3 {
		entry := payload[HeaderSize+i*ColumnEntrySize:]
		binary.LittleEndian.PutUint32(entry[4:8], 1<<29)
	}
	binary.LittleEndian.PutUint32(payload[8:12], 1<<15)

	_, err = Open(payload, pool)
	require.ErrorIs(t, err, errs.ErrMalformedTable)

	// each column fits on its own but the sum does not
	payload = tbl.Bytes()
	for i := range 3 {
		entry := payload[HeaderSize+i*ColumnEntrySize:]
		binary.LittleEndian.PutUint32(entry[4:8], 1<<28)
	}

	_, err = Open(payload, pool)
	require.ErrorIs(t, err, errs.ErrMalformedTable)
	require.ErrorContains(t, err, "at column 1")
}

func TestOpen_ScalarColumnTypes(t *testing.T) {
	pool := strpool.New()
	tbl, err := New(pool, "scalars")
	require.NoError(t, err)

	i16, err := tbl.AddColumn("i16", format.ColumnInt16, 1)
	require.NoError(t, err)
	u32, err := tbl.AddColumn("u32", format.ColumnUInt32, 2)
	require.NoError(t, err)
	f, err := tbl.AddColumn("f", format.ColumnFloat, 1)
	require.NoError(t, err)
	b, err := tbl.AddColumn("b", format.ColumnBoolean, 1)
	require.NoError(t, err)
	_, err = tbl.AddColumn("n", format.ColumnNull, 1)
	require.NoError(t, err)
	require.Equal(t, 2+8+4+1, tbl.RowSize())

	row := tbl.NewRow()
	cell, err := row.Cell(i16)
	require.NoError(t, err)
	require.NoError(t, cell.SetInt64(-7))
	cell, err = row.Cell(u32)
	require.NoError(t, err)
	require.NoError(t, cell.SetUint64At(1, 4000000000))
	cell, err = row.Cell(f)
	require.NoError(t, err)
	require.NoError(t, cell.SetFloat32(2.5))
	cell, err = row.Cell(b)
	require.NoError(t, err)
	require.NoError(t, cell.SetBool(true))
	_, err = tbl.Append(row)
	require.NoError(t, err)

	opened, err := Open(tbl.Bytes(), pool)
	require.NoError(t, err)
	require.Equal(t, tbl.RowSize(), opened.RowSize())

	n, err := opened.Column("n")
	require.NoError(t, err)
	require.Equal(t, format.ColumnNull, n.Type)

	got, err := opened.Read(0)
	require.NoError(t, err)
	want := []string{"-7", "[0 4000000000]", "2.5", "true", "null"}
	for i, col := range opened.Columns() {
		cell, err := got.Cell(col)
		require.NoError(t, err)
		require.Equal(t, want[i], cell.String(), col.Name)
	}
}

func TestOpen_DuplicateColumn(t *testing.T) {
	pool := strpool.New()
	tbl, err := New(pool, "t")
	require.NoError(t, err)
	_, err = tbl.AddColumn("a", format.ColumnUInt8, 1)
	require.NoError(t, err)
	_, err = tbl.AddColumn("b", format.ColumnUInt8, 1)
	require.NoError(t, err)

	payload := tbl.Bytes()
	// point the second column at the first column's name
	copy(payload[HeaderSize+ColumnEntrySize:], payload[HeaderSize:HeaderSize+4])

	_, err = Open(payload, pool)
	require.ErrorIs(t, err, errs.ErrMalformedTable)
}
