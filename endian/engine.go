// Package endian provides the byte order engine used to encode BPX structures.
//
// Every multi-byte integer in a BPX container (main header, section directory,
// string pool lengths, table schema and integer cells) is stored little-endian.
// The engine combines binary.ByteOrder and binary.AppendByteOrder so encoders can
// both patch fixed offsets and append to growing buffers:
//
//	engine := endian.GetLittleEndianEngine()
//	engine.PutUint32(buf[16:20], sectionCount)
//	buf = engine.AppendUint32(buf, ref)
package endian

import (
	"encoding/binary"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine, the BPX on-disk byte order.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// PutUintN writes the low n bytes of v into b[:n] in little-endian order.
// Table cells use it for integers narrower than 8 bytes.
// n must be between 1 and 8 and b must hold at least n bytes.
func PutUintN(b []byte, n int, v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	copy(b[:n], tmp[:n])
}

// UintN reads a little-endian unsigned integer of n bytes (1-8) from b.
func UintN(b []byte, n int) uint64 {
	var tmp [8]byte
	copy(tmp[:n], b[:n])

	return binary.LittleEndian.Uint64(tmp[:])
}
