package bpx

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/bpx-format/bpx/errs"
	"github.com/bpx-format/bpx/format"
	"github.com/bpx-format/bpx/internal/hash"
	"github.com/bpx-format/bpx/internal/pool"
	"github.com/bpx-format/bpx/section"
	"github.com/bpx-format/bpx/stream"
	"github.com/bpx-format/bpx/strpool"
	"github.com/bpx-format/bpx/table"
)

// Container is a BPX container bound to a stream. It owns its sections; section
// indices are their registration order and never change.
type Container struct {
	stream   stream.Stream
	header   section.MainHeader
	sections []*Section
	cfg      *Config
	log      logrus.FieldLogger
}

// Create starts an empty container backed by s. Nothing is written until Save.
func Create(s stream.Stream, opts ...Option) (*Container, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	header := section.NewMainHeader(cfg.typeCode)
	header.TypeExt = cfg.typeExt

	c := &Container{
		stream: s,
		header: header,
		cfg:    cfg,
		log:    cfg.logger,
	}
	c.log.WithField("type", string(header.Type)).Debug("container created")

	return c, nil
}

// Open reads the main header and the section directory of the container in s.
// Payloads are read when first requested.
//
// Returns:
//   - error: ErrIO when reading the stream fails; a format error when the signature,
//     version, checksum, declared file size or any section range is invalid, or when
//     a section is compressed
func Open(s stream.Stream, opts ...Option) (*Container, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	size, err := s.Size()
	if err != nil {
		return nil, ioError("stream size", err)
	}
	if size < section.MainHeaderSize {
		return nil, fmt.Errorf("%w: container of %d bytes is smaller than the main header", errs.ErrTruncated, size)
	}

	headerBytes, err := readAt(s, 0, section.MainHeaderSize)
	if err != nil {
		return nil, err
	}
	header, err := section.ParseMainHeader(headerBytes)
	if err != nil {
		return nil, err
	}
	if header.FileSize != uint64(size) {
		return nil, fmt.Errorf("%w: header declares %d bytes, stream has %d", errs.ErrFileSizeMismatch, header.FileSize, size)
	}

	count := int(header.SectionCount)
	payloadStart := section.PayloadOffset(count)
	if payloadStart > uint64(size) {
		return nil, fmt.Errorf("%w: directory of %d sections does not fit in %d bytes", errs.ErrTruncated, count, size)
	}

	dirBytes, err := readAt(s, section.DirectoryOffset, count*section.HeaderSize)
	if err != nil {
		return nil, err
	}
	if cfg.verifyChecksum && header.Checksum != 0 {
		if sum := headerChecksum(headerBytes, dirBytes); sum != header.Checksum {
			return nil, fmt.Errorf("%w: main header has %#08x, computed %#08x", errs.ErrChecksumMismatch, header.Checksum, sum)
		}
	}

	headers, err := section.ParseDirectory(dirBytes, count)
	if err != nil {
		return nil, err
	}

	c := &Container{
		stream:   s,
		header:   header,
		sections: make([]*Section, 0, count),
		cfg:      cfg,
		log:      cfg.logger,
	}
	for i, h := range headers {
		if err := validateSectionHeader(i, h, payloadStart, uint64(size)); err != nil {
			return nil, err
		}
		c.sections = append(c.sections, &Section{
			owner:  c,
			index:  i,
			typ:    h.Type,
			header: h,
		})
	}

	c.log.WithFields(logrus.Fields{
		"type":      string(header.Type),
		"sections":  count,
		"file_size": header.FileSize,
	}).Debug("container opened")

	return c, nil
}

func validateSectionHeader(i int, h section.Header, payloadStart, size uint64) error {
	if h.Flags.IsCompressed() {
		return fmt.Errorf("%w: section %d has flags %s", errs.ErrCompressedSection, i, h.Flags)
	}
	if h.Reserved != 0 {
		return fmt.Errorf("%w: section %d has non-zero reserved bits %#04x", errs.ErrFormat, i, h.Reserved)
	}
	if uint64(h.Offset) < payloadStart || h.End() > size {
		return fmt.Errorf("%w: section %d spans [%d, %d), payloads lie in [%d, %d)",
			errs.ErrInvalidSectionRange, i, h.Offset, h.End(), payloadStart, size)
	}

	return nil
}

// MainHeader returns a copy of the main header as of the last Open or Save.
func (c *Container) MainHeader() section.MainHeader {
	return c.header
}

// CreateStrings registers a new, empty string section.
func (c *Container) CreateStrings() *Section {
	sec := c.register(format.SectionStrings)
	sec.pool = strpool.New()

	return sec
}

// CreateTable registers a new table section named name. The name and all column
// names are stored in the string section strings.
//
// Returns:
//   - error: ErrInvalidSectionID when strings is nil, belongs to another container or
//     is not a string section
func (c *Container) CreateTable(strings *Section, name string) (*table.Table, error) {
	names, err := c.bindStrings(strings)
	if err != nil {
		return nil, err
	}

	tbl, err := table.New(names, name)
	if err != nil {
		return nil, err
	}

	sec := c.register(format.SectionTable)
	sec.table = tbl
	sec.tableStrings = strings

	return tbl, nil
}

// CreateSection registers a section of any type with the given payload, which is
// copied. The container stores it without interpreting it.
func (c *Container) CreateSection(typ format.SectionType, payload []byte) *Section {
	sec := c.register(typ)
	sec.payload = append([]byte{}, payload...)
	sec.loaded = true

	return sec
}

// Sections returns all sections in registration order.
func (c *Container) Sections() []*Section {
	sections := make([]*Section, len(c.sections))
	copy(sections, c.sections)

	return sections
}

// Section returns the section at index i.
func (c *Container) Section(i int) (*Section, error) {
	if i < 0 || i >= len(c.sections) {
		return nil, fmt.Errorf("%w: section %d of %d", errs.ErrIndexOutOfRange, i, len(c.sections))
	}

	return c.sections[i], nil
}

// Find returns the first section matching pred, or nil.
func (c *Container) Find(pred func(*Section) bool) *Section {
	for _, sec := range c.sections {
		if pred(sec) {
			return sec
		}
	}

	return nil
}

// FindByType returns the first section of type typ, or nil.
func (c *Container) FindByType(typ format.SectionType) *Section {
	return c.Find(func(sec *Section) bool {
		return sec.typ == typ
	})
}

// Save writes the whole container to the stream: main header, section directory
// and every payload, in registration order. Table schemas are finalized and the
// file size is recomputed. Payloads not loaded yet are read first, so Save may be
// called on an opened container.
//
// Returns:
//   - error: ErrIO when the stream fails, ErrContainerTooLarge when the image does not
//     fit 32-bit offsets
func (c *Container) Save() error {
	payloads := make([][]byte, len(c.sections))
	sizes := make([]int, len(c.sections))
	for i, sec := range c.sections {
		if sec.table != nil {
			sec.table.Save()
		}
		payload, err := sec.Load()
		if err != nil {
			return fmt.Errorf("section %d: %w", i, err)
		}
		payloads[i] = payload
		sizes[i] = len(payload)
	}

	offsets, fileSize, err := section.Layout(sizes)
	if err != nil {
		return err
	}

	header := c.header
	header.SectionCount = uint32(len(c.sections)) //nolint:gosec
	header.FileSize = fileSize
	header.Checksum = 0

	buf := pool.GetContainerBuffer()
	defer pool.PutContainerBuffer(buf)
	buf.Grow(int(fileSize))

	_ = header.WriteToSlice(buf.Extend(section.MainHeaderSize))

	headers := make([]section.Header, len(c.sections))
	dir := buf.Extend(len(c.sections) * section.HeaderSize)
	for i, sec := range c.sections {
		h := section.Header{
			Offset: offsets[i],
			Size:   uint32(sizes[i]), //nolint:gosec
			Type:   sec.typ,
		}
		if c.cfg.checksum {
			h.Flags |= format.FlagCheckXXH
			h.Checksum = hash.Checksum(payloads[i])
		}
		_ = h.WriteToSlice(dir[i*section.HeaderSize:])
		headers[i] = h
	}

	if c.cfg.checksum {
		header.Checksum = headerChecksum(buf.Bytes()[:section.MainHeaderSize], dir)
		_ = header.WriteToSlice(buf.Bytes()[:section.MainHeaderSize])
	}

	for _, payload := range payloads {
		buf.MustWrite(payload)
	}

	if err := c.write(buf); err != nil {
		return err
	}

	c.header = header
	for i, sec := range c.sections {
		sec.header = headers[i]
		if sec.table == nil && sec.pool == nil {
			sec.payload = payloads[i]
			sec.loaded = true
		}
	}

	c.log.WithFields(logrus.Fields{
		"sections":  len(c.sections),
		"file_size": fileSize,
		"checksum":  c.cfg.checksum,
	}).Debug("container saved")

	return nil
}

func (c *Container) write(buf *pool.ByteBuffer) error {
	if _, err := c.stream.Seek(0, io.SeekStart); err != nil {
		return ioError("seek", err)
	}
	if _, err := buf.WriteTo(c.stream); err != nil {
		return ioError("write", err)
	}
	if t, ok := c.stream.(stream.Truncater); ok {
		if err := t.Truncate(int64(buf.Len())); err != nil {
			return ioError("truncate", err)
		}
	}

	return nil
}

func (c *Container) register(typ format.SectionType) *Section {
	sec := &Section{
		owner:  c,
		index:  len(c.sections),
		typ:    typ,
		loaded: true,
		header: section.Header{Type: typ},
	}
	c.sections = append(c.sections, sec)

	c.log.WithFields(logrus.Fields{
		"index": sec.index,
		"type":  typ.String(),
	}).Debug("section created")

	return sec
}

func (c *Container) bindStrings(strings *Section) (*strpool.Pool, error) {
	if strings == nil {
		return nil, fmt.Errorf("%w: nil section", errs.ErrInvalidSectionID)
	}
	if strings.owner != c || strings.index >= len(c.sections) || c.sections[strings.index] != strings {
		return nil, fmt.Errorf("%w: section %d belongs to another container", errs.ErrInvalidSectionID, strings.index)
	}
	if strings.typ != format.SectionStrings {
		return nil, fmt.Errorf("%w: section %d is a %s section", errs.ErrInvalidSectionID, strings.index, strings.typ)
	}

	return strings.Strings()
}

func (c *Container) read(offset, size uint32) ([]byte, error) {
	return readAt(c.stream, int64(offset), int(size))
}

func readAt(s stream.Stream, offset int64, size int) ([]byte, error) {
	if _, err := s.Seek(offset, io.SeekStart); err != nil {
		return nil, ioError("seek", err)
	}

	buf := make([]byte, size)
	if _, err := io.ReadFull(s, buf); err != nil {
		return nil, ioError(fmt.Sprintf("read %d bytes at %d", size, offset), err)
	}

	return buf, nil
}

// headerChecksum covers the main header with its checksum field zeroed, followed
// by the section directory.
func headerChecksum(header, dir []byte) uint32 {
	var zeroed [section.MainHeaderSize]byte
	copy(zeroed[:], header)
	clear(zeroed[4:8])

	d := hash.NewDigest()
	d.Write(zeroed[:])
	d.Write(dir)

	return d.Sum32()
}

func ioError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", errs.ErrIO, op, err)
}
