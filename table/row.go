package table

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/bpx-format/bpx/endian"
	"github.com/bpx-format/bpx/errs"
	"github.com/bpx-format/bpx/format"
)

// Row is a fixed-width record with its tombstone flag.
type Row struct {
	data   []byte
	free   bool
	layout *layout
}

func newRow(l *layout, data []byte) *Row {
	return &Row{data: data, layout: l}
}

// Cell returns a view over the bytes of col in this row. Writes through the cell
// modify the row.
//
// Returns:
//   - error: ErrInvalidColumn when col is not part of the schema the row was built for
func (r *Row) Cell(col Column) (Cell, error) {
	if r.layout == nil || !r.layout.contains(col) {
		return Cell{}, fmt.Errorf("%w: %s", errs.ErrInvalidColumn, col)
	}

	return Cell{col: col, buf: r.data[col.offset : col.offset+col.Size()]}, nil
}

// IsFree reports whether the row is logically deleted.
func (r *Row) IsFree() bool {
	return r.free
}

// SetFree sets the tombstone. It is persisted by Table.Write.
func (r *Row) SetFree(free bool) {
	r.free = free
}

// Bytes returns the raw row record. Modifying it modifies the row.
func (r *Row) Bytes() []byte {
	return r.data
}

// Size returns the byte length of the row.
func (r *Row) Size() int {
	return len(r.data)
}

// Reset zeroes every cell and clears the tombstone.
func (r *Row) Reset() {
	clear(r.data)
	r.free = false
}

// Cell is a typed view over one column of one row.
//
// A format.ColumnUInt8 cell holds a single little-endian unsigned integer of Width
// bytes. The other integer types, Float, Double and Boolean hold Width values of
// their unit size, addressed by slot; the plain accessors read and write slot 0.
// Signed integers are sign-extended on read and every integer setter keeps the
// low bytes of its argument. FixedString cells hold at most Width bytes of UTF-8
// with zero padding. Null cells occupy no bytes and have no accessors.
type Cell struct {
	col Column
	buf []byte
}

// Column returns the column the cell belongs to.
func (c Cell) Column() Column {
	return c.col
}

// Int64 reads the first slot of an integer cell.
func (c Cell) Int64() (int64, error) {
	return c.Int64At(0)
}

// SetInt64 writes the first slot of an integer cell.
func (c Cell) SetInt64(v int64) error {
	return c.SetInt64At(0, v)
}

// Int64At reads slot i of an integer cell. Unsigned values are zero-extended,
// so a UInt64 above math.MaxInt64 reads back negative.
func (c Cell) Int64At(i int) (int64, error) {
	b, err := c.slot(i, "an integer", format.ColumnType.IsInteger)
	if err != nil {
		return 0, err
	}

	return c.extend(endian.UintN(b, len(b))), nil
}

// SetInt64At writes slot i of an integer cell, keeping the low bytes of v.
func (c Cell) SetInt64At(i int, v int64) error {
	b, err := c.slot(i, "an integer", format.ColumnType.IsInteger)
	if err != nil {
		return err
	}
	endian.PutUintN(b, len(b), uint64(v)) //nolint:gosec

	return nil
}

// Uint64 reads the first slot of an integer cell.
func (c Cell) Uint64() (uint64, error) {
	return c.Uint64At(0)
}

// SetUint64 writes the first slot of an integer cell.
func (c Cell) SetUint64(v uint64) error {
	return c.SetUint64At(0, v)
}

// Uint64At reads slot i of an integer cell as an unsigned value. Signed cells
// are sign-extended first.
func (c Cell) Uint64At(i int) (uint64, error) {
	v, err := c.Int64At(i)
	return uint64(v), err //nolint:gosec
}

// SetUint64At writes slot i of an integer cell, keeping the low bytes of v.
func (c Cell) SetUint64At(i int, v uint64) error {
	return c.SetInt64At(i, int64(v)) //nolint:gosec
}

// Float64 reads the first slot of a Double or Float cell.
func (c Cell) Float64() (float64, error) {
	return c.Float64At(0)
}

// SetFloat64 writes the first slot of a Double or Float cell.
func (c Cell) SetFloat64(v float64) error {
	return c.SetFloat64At(0, v)
}

// Float64At reads slot i of a Double or Float cell. Float slots are widened.
func (c Cell) Float64At(i int) (float64, error) {
	b, err := c.slot(i, "a floating point", isFloat)
	if err != nil {
		return 0, err
	}
	engine := endian.GetLittleEndianEngine()
	if c.col.Type == format.ColumnFloat {
		return float64(math.Float32frombits(engine.Uint32(b))), nil
	}

	return math.Float64frombits(engine.Uint64(b)), nil
}

// SetFloat64At writes slot i of a Double or Float cell. Float slots store the
// nearest float32.
func (c Cell) SetFloat64At(i int, v float64) error {
	b, err := c.slot(i, "a floating point", isFloat)
	if err != nil {
		return err
	}
	engine := endian.GetLittleEndianEngine()
	if c.col.Type == format.ColumnFloat {
		engine.PutUint32(b, math.Float32bits(float32(v)))
		return nil
	}
	engine.PutUint64(b, math.Float64bits(v))

	return nil
}

// Float32 reads the first slot of a Float cell.
func (c Cell) Float32() (float32, error) {
	return c.Float32At(0)
}

// SetFloat32 writes the first slot of a Float cell.
func (c Cell) SetFloat32(v float32) error {
	return c.SetFloat32At(0, v)
}

// Float32At reads slot i of a Float cell.
func (c Cell) Float32At(i int) (float32, error) {
	b, err := c.slot(i, format.ColumnFloat.String(), is(format.ColumnFloat))
	if err != nil {
		return 0, err
	}

	return math.Float32frombits(endian.GetLittleEndianEngine().Uint32(b)), nil
}

// SetFloat32At writes slot i of a Float cell.
func (c Cell) SetFloat32At(i int, v float32) error {
	b, err := c.slot(i, format.ColumnFloat.String(), is(format.ColumnFloat))
	if err != nil {
		return err
	}
	endian.GetLittleEndianEngine().PutUint32(b, math.Float32bits(v))

	return nil
}

// Bool reads the first slot of a Boolean cell.
func (c Cell) Bool() (bool, error) {
	return c.BoolAt(0)
}

// SetBool writes the first slot of a Boolean cell.
func (c Cell) SetBool(v bool) error {
	return c.SetBoolAt(0, v)
}

// BoolAt reads slot i of a Boolean cell. Any non-zero byte is true.
func (c Cell) BoolAt(i int) (bool, error) {
	b, err := c.slot(i, format.ColumnBoolean.String(), is(format.ColumnBoolean))
	if err != nil {
		return false, err
	}

	return b[0] != 0, nil
}

// SetBoolAt writes slot i of a Boolean cell as 1 or 0.
func (c Cell) SetBoolAt(i int, v bool) error {
	b, err := c.slot(i, format.ColumnBoolean.String(), is(format.ColumnBoolean))
	if err != nil {
		return err
	}
	b[0] = 0
	if v {
		b[0] = 1
	}

	return nil
}

// Text reads a string cell, up to the first zero byte.
func (c Cell) Text() (string, error) {
	if err := c.expect(format.ColumnFixedString); err != nil {
		return "", err
	}
	if n := bytes.IndexByte(c.buf, 0); n >= 0 {
		return string(c.buf[:n]), nil
	}

	return string(c.buf), nil
}

// SetText writes a string cell. s is cut to Width bytes; shorter values are
// zero-padded so no previous content survives.
//
// A zero byte terminates the stored value, so s must not contain U+0000.
//
// Returns:
//   - error: ErrTypeMismatch for a non string column, ErrInvalidText when s holds a NUL byte
func (c Cell) SetText(s string) error {
	if err := c.expect(format.ColumnFixedString); err != nil {
		return err
	}
	if strings.IndexByte(s, 0) >= 0 {
		return fmt.Errorf("%w: column %q", errs.ErrInvalidText, c.col.Name)
	}
	n := copy(c.buf, s)
	clear(c.buf[n:])

	return nil
}

// String renders the cell value for diagnostics. Cells with several slots render
// as a bracketed list.
func (c Cell) String() string {
	switch c.col.Type {
	case format.ColumnFixedString:
		v, _ := c.Text()
		return v
	case format.ColumnNull:
		return "null"
	case format.ColumnUInt8:
		return c.formatSlot(0)
	}
	if !c.col.Type.IsValid() {
		return fmt.Sprintf("%x", c.buf)
	}
	if c.col.Width == 1 {
		return c.formatSlot(0)
	}

	parts := make([]string, c.col.Width)
	for i := range parts {
		parts[i] = c.formatSlot(i)
	}

	return "[" + strings.Join(parts, " ") + "]"
}

func (c Cell) formatSlot(i int) string {
	typ := c.col.Type
	switch {
	case typ.IsSigned():
		v, _ := c.Int64At(i)
		return strconv.FormatInt(v, 10)
	case typ.IsInteger():
		v, _ := c.Uint64At(i)
		return strconv.FormatUint(v, 10)
	case typ == format.ColumnFloat:
		v, _ := c.Float32At(i)
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case typ == format.ColumnDouble:
		v, _ := c.Float64At(i)
		return strconv.FormatFloat(v, 'g', -1, 64)
	case typ == format.ColumnBoolean:
		v, _ := c.BoolAt(i)
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// extend widens raw slot bits to 64 bits, sign-extending signed column types.
func (c Cell) extend(v uint64) int64 {
	if !c.col.Type.IsSigned() {
		return int64(v) //nolint:gosec
	}
	shift := 64 - 8*c.col.Type.UnitSize()

	return int64(v<<shift) >> shift //nolint:gosec
}

// slot returns the bytes of value i after checking the column type with accept.
// A UInt8 cell is a single slot spanning the whole cell.
func (c Cell) slot(i int, kind string, accept func(format.ColumnType) bool) ([]byte, error) {
	if !accept(c.col.Type) {
		return nil, fmt.Errorf("%w: column %q is %s, not %s", errs.ErrTypeMismatch, c.col.Name, c.col.Type, kind)
	}

	n, unit := int(c.col.Width), c.col.Type.UnitSize()
	if c.col.Type == format.ColumnUInt8 {
		n, unit = 1, len(c.buf)
	}
	if i < 0 || i >= n {
		return nil, fmt.Errorf("%w: slot %d of column %q with %d slots", errs.ErrSlotOutOfRange, i, c.col.Name, n)
	}

	return c.buf[i*unit : (i+1)*unit], nil
}

func (c Cell) expect(typ format.ColumnType) error {
	if c.col.Type != typ {
		return fmt.Errorf("%w: column %q is %s, not %s", errs.ErrTypeMismatch, c.col.Name, c.col.Type, typ)
	}

	return nil
}

func isFloat(t format.ColumnType) bool {
	return t == format.ColumnDouble || t == format.ColumnFloat
}

func is(typ format.ColumnType) func(format.ColumnType) bool {
	return func(t format.ColumnType) bool { return t == typ }
}
