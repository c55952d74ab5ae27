package table

import (
	"fmt"

	"github.com/bpx-format/bpx/errs"
	"github.com/bpx-format/bpx/format"
)

// maxIntegerWidth is the widest integer cell, in bytes.
const maxIntegerWidth = 8

// Column describes one column of a table schema and serves as the handle used to
// address cells of a row.
type Column struct {
	// Name is the column name, unique within the table.
	Name string
	// Type selects how the cell bytes are interpreted.
	Type format.ColumnType
	// Width is the declared number of slots. The byte width is Type.UnitSize() * Width.
	Width uint32

	index   int
	offset  int
	nameRef uint32
}

// Index returns the position of the column in the schema.
func (c Column) Index() int {
	return c.index
}

// Offset returns the byte offset of the column inside a row.
func (c Column) Offset() int {
	return c.offset
}

// Size returns the byte width of the column.
func (c Column) Size() int {
	return c.Type.UnitSize() * int(c.Width)
}

func (c Column) String() string {
	return fmt.Sprintf("%s %s(%d)", c.Name, c.Type, c.Width)
}

func (c Column) sameAs(other Column) bool {
	return c.Name == other.Name &&
		c.Type == other.Type &&
		c.Width == other.Width &&
		c.index == other.index &&
		c.offset == other.offset
}

func validateColumn(typ format.ColumnType, width uint32) error {
	if !typ.IsValid() {
		return fmt.Errorf("%w: %d", errs.ErrUnknownColumnType, typ)
	}
	if width == 0 {
		return fmt.Errorf("%w: width must be at least 1", errs.ErrInvalidWidth)
	}
	if typ == format.ColumnUInt8 && width > maxIntegerWidth {
		return fmt.Errorf("%w: integer columns hold at most %d bytes, got %d", errs.ErrInvalidWidth, maxIntegerWidth, width)
	}

	return nil
}

// layout is an immutable snapshot of a schema. Rows keep the layout they were
// allocated for so a row built against an older schema is detected on append.
type layout struct {
	columns []Column
	rowSize int
}

func (l *layout) with(col Column) *layout {
	col.index = len(l.columns)
	col.offset = l.rowSize

	columns := make([]Column, len(l.columns), len(l.columns)+1)
	copy(columns, l.columns)

	return &layout{
		columns: append(columns, col),
		rowSize: l.rowSize + col.Size(),
	}
}

func (l *layout) without(index int) *layout {
	next := &layout{}
	for i, col := range l.columns {
		if i != index {
			next = next.with(col)
		}
	}

	return next
}

func (l *layout) find(name string) (Column, bool) {
	for _, col := range l.columns {
		if col.Name == name {
			return col, true
		}
	}

	return Column{}, false
}

func (l *layout) contains(col Column) bool {
	return col.index >= 0 && col.index < len(l.columns) && l.columns[col.index].sameAs(col)
}

func (l *layout) compatible(other *layout) bool {
	if l == other {
		return true
	}
	if l.rowSize != other.rowSize || len(l.columns) != len(other.columns) {
		return false
	}
	for i := range l.columns {
		if !l.columns[i].sameAs(other.columns[i]) {
			return false
		}
	}

	return true
}
