// Package stream defines the byte stream capability a BPX container is read
// from and saved to, with in-memory and file backed implementations.
package stream

//go:generate mockgen -source=stream.go -destination=mock_stream.go -package=stream

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Stream is a seekable byte source and sink whose current size can be queried.
type Stream interface {
	io.Reader
	io.Writer
	io.Seeker
	// Size returns the current length of the stream in bytes.
	Size() (int64, error)
}

// Truncater is implemented by streams that can shrink. Containers truncate the
// stream after saving so stale bytes of a larger previous image do not remain.
type Truncater interface {
	Truncate(size int64) error
}

var errNegativePosition = errors.New("stream: negative position")

// Memory is a Stream over a growable in-memory byte slice.
type Memory struct {
	buf []byte
	pos int64
}

// NewMemory creates a Memory stream positioned at the start of data.
// The stream takes ownership of data.
func NewMemory(data []byte) *Memory {
	return &Memory{buf: data}
}

// Bytes returns the stream contents. The slice is valid until the next write.
func (m *Memory) Bytes() []byte {
	return m.buf
}

func (m *Memory) Read(p []byte) (int, error) {
	if m.pos >= int64(len(m.buf)) {
		return 0, io.EOF
	}
	n := copy(p, m.buf[m.pos:])
	m.pos += int64(n)

	return n, nil
}

func (m *Memory) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if oldLen := int64(len(m.buf)); end > oldLen {
		if end > int64(cap(m.buf)) {
			grown := make([]byte, end, max(end, 2*int64(cap(m.buf))))
			copy(grown, m.buf)
			m.buf = grown
		} else {
			m.buf = m.buf[:end]
			if m.pos > oldLen {
				clear(m.buf[oldLen:m.pos])
			}
		}
	}
	copy(m.buf[m.pos:end], p)
	m.pos = end

	return len(p), nil
}

func (m *Memory) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = m.pos + offset
	case io.SeekEnd:
		pos = int64(len(m.buf)) + offset
	default:
		return 0, fmt.Errorf("stream: invalid whence %d", whence)
	}
	if pos < 0 {
		return 0, errNegativePosition
	}
	m.pos = pos

	return pos, nil
}

// Size returns the length of the stream contents.
func (m *Memory) Size() (int64, error) {
	return int64(len(m.buf)), nil
}

// Truncate changes the stream length. Growing pads with zero bytes.
func (m *Memory) Truncate(size int64) error {
	if size < 0 {
		return errNegativePosition
	}
	if size <= int64(len(m.buf)) {
		m.buf = m.buf[:size]
		return nil
	}
	m.buf = append(m.buf, make([]byte, size-int64(len(m.buf)))...)

	return nil
}

// File is a Stream backed by an operating system file.
type File struct {
	*os.File
}

// NewFile wraps an open file.
func NewFile(f *os.File) *File {
	return &File{File: f}
}

// OpenFile opens or creates the file at path for reading and writing.
func OpenFile(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}

	return NewFile(f), nil
}

// Size returns the current file size.
func (f *File) Size() (int64, error) {
	info, err := f.Stat()
	if err != nil {
		return 0, err
	}

	return info.Size(), nil
}

var (
	_ Stream    = (*Memory)(nil)
	_ Truncater = (*Memory)(nil)
	_ Stream    = (*File)(nil)
	_ Truncater = (*File)(nil)
)
