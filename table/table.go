package table

import (
	"fmt"
	"iter"
	"math"

	"github.com/bpx-format/bpx/errs"
	"github.com/bpx-format/bpx/format"
	"github.com/bpx-format/bpx/strpool"
)

// Table is a decoded table section: a column schema plus append-only row storage
// with one tombstone bit per row.
//
// The schema is open until Save or the first Append; after that AddColumn and
// RemoveColumn fail with ErrSchemaLocked. Rows are never physically removed:
// Delete only sets the tombstone, so row indices are stable.
type Table struct {
	name    string
	nameRef uint32
	strings *strpool.Pool

	layout *layout
	locked bool

	rows     []byte
	free     []byte // tombstone bitmap, bit i%8 of byte i/8
	rowCount int
}

// New creates an empty table named name whose names are stored in strings.
func New(strings *strpool.Pool, name string) (*Table, error) {
	ref, err := strings.Add(name)
	if err != nil {
		return nil, err
	}

	return &Table{
		name:    name,
		nameRef: ref,
		strings: strings,
		layout:  &layout{},
	}, nil
}

// Name returns the table name.
func (t *Table) Name() string {
	return t.name
}

// Strings returns the string pool the table resolves names against.
func (t *Table) Strings() *strpool.Pool {
	return t.strings
}

// AddColumn appends a column definition to the schema.
//
// Returns:
//   - Column: handle used to address the column's cells
//   - error: ErrSchemaLocked once the schema is finalized, ErrDuplicateName when the name
//     is taken, ErrInvalidWidth or ErrUnknownColumnType for bad definitions
func (t *Table) AddColumn(name string, typ format.ColumnType, width uint32) (Column, error) {
	if t.locked {
		return Column{}, fmt.Errorf("%w: cannot add column %q to table %q", errs.ErrSchemaLocked, name, t.name)
	}
	if name == "" {
		return Column{}, errs.ErrEmptyColumnName
	}
	if _, exists := t.layout.find(name); exists {
		return Column{}, fmt.Errorf("%w: column %q already exists in table %q", errs.ErrDuplicateName, name, t.name)
	}
	if err := validateColumn(typ, width); err != nil {
		return Column{}, err
	}

	col := Column{Name: name, Type: typ, Width: width}
	if uint64(t.layout.rowSize)+uint64(col.Size()) > math.MaxUint32 {
		return Column{}, fmt.Errorf("%w: row would exceed %d bytes", errs.ErrInvalidWidth, uint32(math.MaxUint32))
	}

	ref, err := t.strings.Add(name)
	if err != nil {
		return Column{}, err
	}
	col.nameRef = ref

	t.layout = t.layout.with(col)

	return t.layout.columns[len(t.layout.columns)-1], nil
}

// RemoveColumn removes a column from a schema that is not finalized yet.
// Handles of the following columns change offset; fetch them again with Column.
func (t *Table) RemoveColumn(name string) error {
	if t.locked {
		return fmt.Errorf("%w: cannot remove column %q from table %q", errs.ErrSchemaLocked, name, t.name)
	}

	col, ok := t.layout.find(name)
	if !ok {
		return fmt.Errorf("%w: %q in table %q", errs.ErrColumnNotFound, name, t.name)
	}
	t.layout = t.layout.without(col.index)

	return nil
}

// Save finalizes the schema. Calling it again has no effect.
func (t *Table) Save() {
	t.locked = true
}

// Locked reports whether the schema is finalized.
func (t *Table) Locked() bool {
	return t.locked
}

// Column looks up a column by exact name.
func (t *Table) Column(name string) (Column, error) {
	col, ok := t.layout.find(name)
	if !ok {
		return Column{}, fmt.Errorf("%w: %q in table %q", errs.ErrColumnNotFound, name, t.name)
	}

	return col, nil
}

// Columns returns the schema in declaration order.
func (t *Table) Columns() []Column {
	columns := make([]Column, len(t.layout.columns))
	copy(columns, t.layout.columns)

	return columns
}

// RowSize returns the byte length of one row under the current schema.
func (t *Table) RowSize() int {
	return t.layout.rowSize
}

// RowCount returns the number of rows ever appended, including deleted ones.
func (t *Table) RowCount() int {
	return t.rowCount
}

// NewRow allocates a zero-initialized row for the current schema.
// The row is not stored until it is passed to Append.
func (t *Table) NewRow() *Row {
	return newRow(t.layout, make([]byte, t.layout.rowSize))
}

// Append copies row into storage and returns its index. The stored row is never
// marked free, whatever the tombstone of row. Appending finalizes the schema.
//
// Returns:
//   - error: ErrRowSizeMismatch when row was allocated for a different schema
func (t *Table) Append(row *Row) (int, error) {
	if err := t.checkRow(row); err != nil {
		return 0, err
	}
	if uint64(t.rowCount) >= math.MaxUint32 {
		return 0, fmt.Errorf("%w: table %q is full", errs.ErrContainerTooLarge, t.name)
	}

	t.locked = true

	index := t.rowCount
	t.rows = append(t.rows, row.data...)
	if len(t.free) < bitmapSize(index+1) {
		t.free = append(t.free, 0)
	}
	t.setFree(index, false)
	t.rowCount++

	return index, nil
}

// Read returns a copy of the row at index.
//
// Returns:
//   - error: ErrIndexOutOfRange when index < 0 or index >= RowCount
func (t *Table) Read(index int) (*Row, error) {
	if err := t.checkIndex(index); err != nil {
		return nil, err
	}

	start := index * t.layout.rowSize
	data := make([]byte, t.layout.rowSize)
	copy(data, t.rows[start:start+t.layout.rowSize])

	row := newRow(t.layout, data)
	row.free = t.isFree(index)

	return row, nil
}

// Write overwrites the row at index with row, including its tombstone.
func (t *Table) Write(index int, row *Row) error {
	if err := t.checkIndex(index); err != nil {
		return err
	}
	if err := t.checkRow(row); err != nil {
		return err
	}

	start := index * t.layout.rowSize
	copy(t.rows[start:start+t.layout.rowSize], row.data)
	t.setFree(index, row.free)

	return nil
}

// Delete marks the row at index as free. The row keeps its index and still counts in RowCount.
func (t *Table) Delete(index int) error {
	if err := t.checkIndex(index); err != nil {
		return err
	}
	t.setFree(index, true)

	return nil
}

// IsFree reports whether the row at index is deleted.
func (t *Table) IsFree(index int) (bool, error) {
	if err := t.checkIndex(index); err != nil {
		return false, err
	}

	return t.isFree(index), nil
}

// Rows iterates over all rows, including deleted ones, in index order.
// Each yielded row is a copy.
func (t *Table) Rows() iter.Seq2[int, *Row] {
	return func(yield func(int, *Row) bool) {
		for i := 0; i < t.rowCount; i++ {
			row, _ := t.Read(i)
			if !yield(i, row) {
				return
			}
		}
	}
}

func (t *Table) checkIndex(index int) error {
	if index < 0 || index >= t.rowCount {
		return fmt.Errorf("%w: row %d of table %q with %d rows", errs.ErrIndexOutOfRange, index, t.name, t.rowCount)
	}

	return nil
}

func (t *Table) checkRow(row *Row) error {
	if row == nil || row.layout == nil || len(row.data) != t.layout.rowSize || !row.layout.compatible(t.layout) {
		return fmt.Errorf("%w: table %q expects %d byte rows", errs.ErrRowSizeMismatch, t.name, t.layout.rowSize)
	}

	return nil
}

func (t *Table) isFree(index int) bool {
	return t.free[index/8]&(1<<(index%8)) != 0
}

func (t *Table) setFree(index int, free bool) {
	if free {
		t.free[index/8] |= 1 << (index % 8)
	} else {
		t.free[index/8] &^= 1 << (index % 8)
	}
}

func bitmapSize(rows int) int {
	return (rows + 7) / 8
}
