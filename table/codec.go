package table

import (
	"fmt"
	"math"

	"github.com/bpx-format/bpx/endian"
	"github.com/bpx-format/bpx/errs"
	"github.com/bpx-format/bpx/format"
	"github.com/bpx-format/bpx/strpool"
)

const (
	// HeaderSize is the size of the fixed table header: name ref, column count, row count.
	HeaderSize = 12
	// ColumnEntrySize is the size of one encoded column definition.
	ColumnEntrySize = 12
)

// Size returns the encoded payload size of the table.
func (t *Table) Size() int {
	return HeaderSize +
		len(t.layout.columns)*ColumnEntrySize +
		bitmapSize(t.rowCount) +
		len(t.rows)
}

// Bytes encodes the table as a section payload.
func (t *Table) Bytes() []byte {
	buf := make([]byte, t.Size())
	t.WriteToSlice(buf)

	return buf
}

// WriteToSlice encodes the table into data, which must hold at least Size bytes.
func (t *Table) WriteToSlice(data []byte) int {
	engine := endian.GetLittleEndianEngine()

	engine.PutUint32(data[0:4], t.nameRef)
	engine.PutUint32(data[4:8], uint32(len(t.layout.columns))) //nolint:gosec
	engine.PutUint32(data[8:12], uint32(t.rowCount))           //nolint:gosec

	off := HeaderSize
	for _, col := range t.layout.columns {
		entry := data[off : off+ColumnEntrySize]
		engine.PutUint32(entry[0:4], col.nameRef)
		engine.PutUint32(entry[4:8], col.Width)
		entry[8] = byte(col.Type)
		clear(entry[9:])
		off += ColumnEntrySize
	}

	off += copy(data[off:], t.free[:bitmapSize(t.rowCount)])
	off += copy(data[off:], t.rows)

	return off
}

// Open decodes a table payload. Names are resolved against strings, which must be
// the pool the table was created with. The returned table has a finalized schema
// and owns a copy of the row data.
//
// Returns:
//   - error: ErrTruncated or ErrMalformedTable when the payload length does not match
//     its declared counts, ErrUnknownColumnType or ErrInvalidWidth for bad column
//     entries, ErrInvalidStringRef when a name cannot be resolved
func Open(payload []byte, strings *strpool.Pool) (*Table, error) {
	if len(payload) < HeaderSize {
		return nil, fmt.Errorf("%w: table header needs %d bytes, got %d", errs.ErrTruncated, HeaderSize, len(payload))
	}

	engine := endian.GetLittleEndianEngine()
	nameRef := engine.Uint32(payload[0:4])
	colCount := uint64(engine.Uint32(payload[4:8]))
	rowCount := uint64(engine.Uint32(payload[8:12]))

	name, err := strings.Get(nameRef)
	if err != nil {
		return nil, fmt.Errorf("table name: %w", err)
	}

	if uint64(len(payload)) < HeaderSize+colCount*ColumnEntrySize {
		return nil, fmt.Errorf("%w: %d column entries do not fit in %d bytes", errs.ErrTruncated, colCount, len(payload))
	}

	t := &Table{
		name:    name,
		nameRef: nameRef,
		strings: strings,
		layout:  &layout{},
		locked:  true,
	}

	off := HeaderSize
	for i := uint64(0); i < colCount; i++ {
		entry := payload[off : off+ColumnEntrySize]
		off += ColumnEntrySize

		col, err := decodeColumn(entry, strings)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i, err)
		}
		if _, exists := t.layout.find(col.Name); exists {
			return nil, fmt.Errorf("%w: duplicate column %q", errs.ErrMalformedTable, col.Name)
		}
		t.layout = t.layout.with(col)
		if uint64(t.layout.rowSize) > math.MaxUint32 {
			return nil, fmt.Errorf("%w: row size of table %q exceeds %d bytes at column %d",
				errs.ErrMalformedTable, name, uint32(math.MaxUint32), i)
		}
	}

	bitmapLen := (rowCount + 7) / 8
	rowsLen := rowCount * uint64(t.layout.rowSize)
	want := uint64(off) + bitmapLen + rowsLen
	if uint64(len(payload)) != want {
		return nil, fmt.Errorf("%w: table %q declares %d rows of %d bytes, expected %d payload bytes, got %d",
			errs.ErrMalformedTable, name, rowCount, t.layout.rowSize, want, len(payload))
	}

	t.rowCount = int(rowCount) //nolint:gosec
	t.free = make([]byte, bitmapLen)
	off += copy(t.free, payload[off:uint64(off)+bitmapLen])
	t.rows = make([]byte, rowsLen)
	copy(t.rows, payload[off:])

	return t, nil
}

func decodeColumn(entry []byte, strings *strpool.Pool) (Column, error) {
	engine := endian.GetLittleEndianEngine()

	nameRef := engine.Uint32(entry[0:4])
	width := engine.Uint32(entry[4:8])
	typ := format.ColumnType(entry[8])

	if err := validateColumn(typ, width); err != nil {
		return Column{}, fmt.Errorf("%w: %w", errs.ErrMalformedTable, err)
	}

	name, err := strings.Get(nameRef)
	if err != nil {
		return Column{}, err
	}
	if name == "" {
		return Column{}, fmt.Errorf("%w: %w", errs.ErrMalformedTable, errs.ErrEmptyColumnName)
	}

	return Column{Name: name, Type: typ, Width: width, nameRef: nameRef}, nil
}
