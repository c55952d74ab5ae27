// Package errs declares the sentinel errors returned by the bpx packages.
//
// Errors are grouped in categories. Every specific error wraps exactly one
// category, so callers may test either level with errors.Is:
//
//	if errors.Is(err, errs.ErrFormat) {
//	    // any malformed or truncated container
//	}
//	if errors.Is(err, errs.ErrInvalidSignature) {
//	    // specifically a bad signature
//	}
package errs

import (
	"errors"
	"fmt"
)

// Categories.
var (
	// ErrFormat reports a bad signature or version, or truncated or malformed section bytes.
	ErrFormat = errors.New("bpx: format error")
	// ErrIO reports a failure of the underlying stream.
	ErrIO = errors.New("bpx: io error")
	// ErrSchemaLocked reports a schema mutation after the schema was finalized.
	ErrSchemaLocked = errors.New("bpx: schema locked")
	// ErrDuplicateName reports a column name that already exists in the schema.
	ErrDuplicateName = errors.New("bpx: duplicate name")
	// ErrColumnNotFound reports a lookup of a column that does not exist.
	ErrColumnNotFound = errors.New("bpx: column not found")
	// ErrBinding reports a reference to a section not owned by the container or of the wrong kind.
	ErrBinding = errors.New("bpx: binding error")
	// ErrValidation reports a row or column that does not match the schema.
	ErrValidation = errors.New("bpx: validation error")
	// ErrIndexOutOfRange reports a row index outside [0, RowCount).
	ErrIndexOutOfRange = errors.New("bpx: index out of range")
)

// Format errors.
var (
	ErrInvalidSignature    = wrap(ErrFormat, "invalid signature")
	ErrUnsupportedVersion  = wrap(ErrFormat, "unsupported version")
	ErrInvalidHeaderSize   = wrap(ErrFormat, "invalid header size")
	ErrTruncated           = wrap(ErrFormat, "truncated data")
	ErrChecksumMismatch    = wrap(ErrFormat, "checksum mismatch")
	ErrCompressedSection   = wrap(ErrFormat, "compressed sections are not supported")
	ErrInvalidSectionRange = wrap(ErrFormat, "section outside of container bounds")
	ErrFileSizeMismatch    = wrap(ErrFormat, "declared file size does not match stream size")
	ErrInvalidStringRef    = wrap(ErrFormat, "invalid string reference")
	ErrMalformedTable      = wrap(ErrFormat, "malformed table section")
	ErrUnknownColumnType   = wrap(ErrFormat, "unknown column type")
)

// Validation errors.
var (
	ErrTypeMismatch    = wrap(ErrValidation, "cell type mismatch")
	ErrInvalidWidth    = wrap(ErrValidation, "invalid column width")
	ErrInvalidColumn   = wrap(ErrValidation, "column does not belong to this row")
	ErrRowSizeMismatch = wrap(ErrValidation, "row layout does not match the table schema")
	ErrEmptyColumnName = wrap(ErrValidation, "empty column name")
	ErrSlotOutOfRange  = wrap(ErrValidation, "cell slot out of range")
	ErrInvalidText     = wrap(ErrValidation, "fixed string contains a NUL byte")

	// ErrContainerTooLarge reports a write that would not fit the 32-bit
	// offsets, counts and lengths of the format.
	ErrContainerTooLarge = wrap(ErrValidation, "container exceeds 32-bit addressing")
)

// Binding errors.
var (
	ErrInvalidSectionID = wrap(ErrBinding, "section is not a string section of this container")
	ErrNotATable        = wrap(ErrBinding, "section is not a table section")
)

func wrap(category error, msg string) error {
	return fmt.Errorf("%w: %s", category, msg)
}
