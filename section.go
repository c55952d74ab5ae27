package bpx

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/bpx-format/bpx/errs"
	"github.com/bpx-format/bpx/format"
	"github.com/bpx-format/bpx/internal/hash"
	"github.com/bpx-format/bpx/section"
	"github.com/bpx-format/bpx/strpool"
	"github.com/bpx-format/bpx/table"
)

// Section is one section of a Container. Sections of an opened container start
// unloaded; their payload is read on the first Load, Strings or OpenTable call.
// The decoded view is cached, so later calls return the same pool or table.
type Section struct {
	owner  *Container
	index  int
	typ    format.SectionType
	header section.Header

	payload []byte
	loaded  bool

	pool         *strpool.Pool
	table        *table.Table
	tableStrings *Section
}

// Index returns the position of the section in the container.
func (s *Section) Index() int {
	return s.index
}

// Type returns the section type tag.
func (s *Section) Type() format.SectionType {
	return s.typ
}

// Header returns the directory entry of the section as of the last Open or Save.
// Sections created since then have a zero offset and size.
func (s *Section) Header() section.Header {
	return s.header
}

// Load returns the current payload bytes of the section. For string and table
// sections this is the encoding of the decoded view, including unsaved changes.
// The returned slice must not be modified.
//
// Returns:
//   - error: ErrIO when the payload cannot be read, ErrChecksumMismatch when it does
//     not match the directory checksum
func (s *Section) Load() ([]byte, error) {
	switch {
	case s.table != nil:
		return s.table.Bytes(), nil
	case s.pool != nil:
		return s.pool.Bytes(), nil
	}

	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}

	return s.payload, nil
}

// Strings decodes the section as a string section.
//
// Returns:
//   - error: ErrInvalidSectionID when the section is not a string section, or any
//     error of Load and strpool.Decode
func (s *Section) Strings() (*strpool.Pool, error) {
	if s.typ != format.SectionStrings {
		return nil, fmt.Errorf("%w: section %d is a %s section", errs.ErrInvalidSectionID, s.index, s.typ)
	}
	if s.pool != nil {
		return s.pool, nil
	}

	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	p, err := strpool.Decode(s.payload)
	if err != nil {
		return nil, fmt.Errorf("section %d: %w", s.index, err)
	}
	s.pool = p
	s.payload = nil

	return p, nil
}

// OpenTable decodes the section as a table whose names live in the string
// section strings.
//
// Returns:
//   - error: ErrNotATable when the section is not a table section, ErrInvalidSectionID
//     when strings is not a string section of this container or differs from the one
//     the table was first opened with, or any decoding error
func (s *Section) OpenTable(strings *Section) (*table.Table, error) {
	if s.typ != format.SectionTable {
		return nil, fmt.Errorf("%w: section %d is a %s section", errs.ErrNotATable, s.index, s.typ)
	}
	if s.table != nil {
		if strings != s.tableStrings {
			return nil, fmt.Errorf("%w: table section %d is bound to section %d",
				errs.ErrInvalidSectionID, s.index, s.tableStrings.index)
		}

		return s.table, nil
	}

	names, err := s.owner.bindStrings(strings)
	if err != nil {
		return nil, err
	}
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}

	tbl, err := table.Open(s.payload, names)
	if err != nil {
		return nil, fmt.Errorf("section %d: %w", s.index, err)
	}
	s.table = tbl
	s.tableStrings = strings
	s.payload = nil

	return tbl, nil
}

func (s *Section) ensureLoaded() error {
	if s.loaded {
		return nil
	}

	payload, err := s.owner.read(s.header.Offset, s.header.Size)
	if err != nil {
		return fmt.Errorf("section %d: %w", s.index, err)
	}

	if s.owner.cfg.verifyChecksum && s.header.Flags.Has(format.FlagCheckXXH) {
		if sum := hash.Checksum(payload); sum != s.header.Checksum {
			return fmt.Errorf("%w: section %d has %#08x, computed %#08x",
				errs.ErrChecksumMismatch, s.index, s.header.Checksum, sum)
		}
	}

	s.payload = payload
	s.loaded = true

	s.owner.log.WithFields(logrus.Fields{
		"index": s.index,
		"type":  s.typ.String(),
		"size":  s.header.Size,
	}).Debug("section loaded")

	return nil
}
