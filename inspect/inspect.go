// Package inspect renders human readable reports of BPX containers: the section
// layout of a container and the schema and rows of a table.
package inspect

import (
	"fmt"
	"io"
	"strconv"

	prettytable "github.com/jedib0t/go-pretty/v6/table"

	"github.com/bpx-format/bpx"
	"github.com/bpx-format/bpx/errs"
	"github.com/bpx-format/bpx/format"
	"github.com/bpx-format/bpx/internal/options"
	"github.com/bpx-format/bpx/table"
)

// Config holds report settings.
type Config struct {
	style    prettytable.Style
	rowLimit int
}

// Option configures a report.
type Option = options.Option[*Config]

// WithStyle sets the go-pretty table style. The default is StyleDefault.
func WithStyle(style prettytable.Style) Option {
	return options.NoError(func(c *Config) {
		c.style = style
	})
}

// WithRowLimit caps the number of rows printed by Table. Zero prints all rows;
// a negative limit makes Table return ErrValidation.
func WithRowLimit(n int) Option {
	return options.New(func(c *Config) error {
		if n < 0 {
			return fmt.Errorf("%w: negative row limit %d", errs.ErrValidation, n)
		}
		c.rowLimit = n

		return nil
	})
}

func newConfig(opts []Option) (*Config, error) {
	cfg := &Config{style: prettytable.StyleDefault}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) newWriter() prettytable.Writer {
	tw := prettytable.NewWriter()
	tw.SetStyle(c.style)

	return tw
}

// Container writes the main header summary and the section directory of c.
func Container(w io.Writer, c *bpx.Container, opts ...Option) error {
	cfg, err := newConfig(opts)
	if err != nil {
		return err
	}

	h := c.MainHeader()
	sections := c.Sections()
	if _, err := fmt.Fprintf(w, "BPX container: type %q, version %d, %d sections, %d bytes\n",
		h.Type, h.Version, len(sections), h.FileSize); err != nil {
		return err
	}

	tw := cfg.newWriter()
	tw.AppendHeader(prettytable.Row{"#", "Type", "Offset", "Size", "Checksum", "Flags"})
	for _, sec := range sections {
		sh := sec.Header()
		tw.AppendRow(prettytable.Row{
			strconv.Itoa(sec.Index()),
			sectionType(sec.Type()),
			strconv.FormatUint(uint64(sh.Offset), 10),
			strconv.FormatUint(uint64(sh.Size), 10),
			fmt.Sprintf("%08x", sh.Checksum),
			sh.Flags.String(),
		})
	}

	_, err = io.WriteString(w, tw.Render()+"\n")

	return err
}

// Table writes the schema of tbl followed by its rows.
func Table(w io.Writer, tbl *table.Table, opts ...Option) error {
	cfg, err := newConfig(opts)
	if err != nil {
		return err
	}

	columns := tbl.Columns()
	free := 0
	for i := range tbl.RowCount() {
		if isFree, _ := tbl.IsFree(i); isFree {
			free++
		}
	}
	if _, err := fmt.Fprintf(w, "Table %q: %d columns, %d rows (%d free), %d bytes per row\n",
		tbl.Name(), len(columns), tbl.RowCount(), free, tbl.RowSize()); err != nil {
		return err
	}

	schema := cfg.newWriter()
	schema.AppendHeader(prettytable.Row{"#", "Name", "Type", "Width", "Offset", "Size"})
	for _, col := range columns {
		schema.AppendRow(prettytable.Row{
			strconv.Itoa(col.Index()),
			col.Name,
			col.Type.String(),
			strconv.FormatUint(uint64(col.Width), 10),
			strconv.Itoa(col.Offset()),
			strconv.Itoa(col.Size()),
		})
	}
	if _, err := io.WriteString(w, schema.Render()+"\n"); err != nil {
		return err
	}

	rows := cfg.newWriter()
	header := prettytable.Row{"Row", "Free"}
	for _, col := range columns {
		header = append(header, col.Name)
	}
	rows.AppendHeader(header)

	printed := 0
	for i, row := range tbl.Rows() {
		if cfg.rowLimit > 0 && printed == cfg.rowLimit {
			break
		}
		rows.AppendRow(renderRow(i, row, columns))
		printed++
	}
	if _, err := io.WriteString(w, rows.Render()+"\n"); err != nil {
		return err
	}

	if rest := tbl.RowCount() - printed; rest > 0 {
		_, err = fmt.Fprintf(w, "... %d more rows\n", rest)
	}

	return err
}

func renderRow(index int, row *table.Row, columns []table.Column) prettytable.Row {
	free := "no"
	if row.IsFree() {
		free = "yes"
	}

	out := prettytable.Row{strconv.Itoa(index), free}
	for _, col := range columns {
		cell, err := row.Cell(col)
		if err != nil {
			out = append(out, err.Error())
			continue
		}
		if col.Type == format.ColumnFixedString {
			out = append(out, strconv.Quote(cell.String()))
			continue
		}
		out = append(out, cell.String())
	}

	return out
}

func sectionType(typ format.SectionType) string {
	switch typ {
	case format.SectionStrings, format.SectionTable:
		return typ.String()
	default:
		return fmt.Sprintf("%s(%#02x)", typ, uint8(typ))
	}
}
