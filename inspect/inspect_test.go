package inspect

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/bpx-format/bpx"
	"github.com/bpx-format/bpx/errs"
	"github.com/bpx-format/bpx/format"
	"github.com/bpx-format/bpx/stream"
	"github.com/bpx-format/bpx/table"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()

	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

// openSample saves a three row table without checksums, deletes the second row
// and reopens the container.
func openSample(t *testing.T) (*bpx.Container, *table.Table) {
	t.Helper()

	s := stream.NewMemory(nil)
	c, err := bpx.Create(s, bpx.WithChecksum(false))
	require.NoError(t, err)

	strs := c.CreateStrings()
	tbl, err := c.CreateTable(strs, "Test")
	require.NoError(t, err)
	a, err := tbl.AddColumn("A", format.ColumnUInt8, 1)
	require.NoError(t, err)
	b, err := tbl.AddColumn("B", format.ColumnDouble, 1)
	require.NoError(t, err)
	cc, err := tbl.AddColumn("C", format.ColumnFixedString, 8)
	require.NoError(t, err)

	for _, text := range []string{"test", "value", "another value"} {
		row := tbl.NewRow()
		cell, err := row.Cell(a)
		require.NoError(t, err)
		require.NoError(t, cell.SetInt64(0xFF))
		cell, err = row.Cell(b)
		require.NoError(t, err)
		require.NoError(t, cell.SetFloat64(0.42))
		cell, err = row.Cell(cc)
		require.NoError(t, err)
		require.NoError(t, cell.SetText(text))
		_, err = tbl.Append(row)
		require.NoError(t, err)
	}
	require.NoError(t, tbl.Delete(1))
	require.NoError(t, c.Save())

	opened, err := bpx.Open(s)
	require.NoError(t, err)
	sections := opened.Sections()
	tbl, err = sections[1].OpenTable(sections[0])
	require.NoError(t, err)

	return opened, tbl
}

func TestContainer_Golden(t *testing.T) {
	c, _ := openSample(t)

	var buf bytes.Buffer
	require.NoError(t, Container(&buf, c))

	newGoldie(t).Assert(t, "container_layout", buf.Bytes())
}

func TestTable_Golden(t *testing.T) {
	_, tbl := openSample(t)

	var buf bytes.Buffer
	require.NoError(t, Table(&buf, tbl))

	newGoldie(t).Assert(t, "table_rows", buf.Bytes())
}

func TestTable_RowLimit(t *testing.T) {
	_, tbl := openSample(t)

	var buf bytes.Buffer
	require.NoError(t, Table(&buf, tbl, WithRowLimit(1)))

	out := buf.String()
	require.Contains(t, out, `"test"`)
	require.NotContains(t, out, `"value"`)
	require.Contains(t, out, "... 2 more rows\n")
}

func TestTable_NegativeRowLimit(t *testing.T) {
	_, tbl := openSample(t)

	var buf bytes.Buffer
	err := Table(&buf, tbl, WithRowLimit(-1))
	require.ErrorIs(t, err, errs.ErrValidation)
	require.Zero(t, buf.Len())
}

func TestContainer_OpaqueSection(t *testing.T) {
	c, err := bpx.Create(stream.NewMemory(nil))
	require.NoError(t, err)
	c.CreateSection(0x42, []byte("abc"))
	require.NoError(t, c.Save())

	var buf bytes.Buffer
	require.NoError(t, Container(&buf, c))
	require.Contains(t, buf.String(), "Unknown(0x42)")
	require.Contains(t, buf.String(), "xxh")
}
