// Package codec implements barrelcask's on-disk entry format: a fixed
// header followed by a key and a value, all written append-only to a
// segment file.
//
// Layout, all integers little-endian:
//
//	crc32(4) | tstamp(8) | ksz(4) | vsz(4) | key(ksz) | value(vsz)
//
// crc32 is CRC-32/ISO-HDLC computed over the value bytes only. ksz and
// vsz are the machine word used across this implementation, fixed at
// 4 bytes (uint32); a vsz of zero marks a tombstone (delete) record.
package codec

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/ignite-kv/barrelcask/pkg/bcerrors"
)

// Word is the fixed size, in bytes, of the ksz and vsz header fields.
const Word = 4

// HeaderSize is the fixed size, in bytes, of every entry's header:
// crc32 + tstamp + ksz + vsz.
const HeaderSize = 4 + 8 + Word + Word

// Entry is one decoded record from a segment file.
type Entry struct {
	Timestamp int64
	Key       []byte
	Value     []byte
	Tombstone bool
}

// NewEntry builds a put record. Both key and value must be non-empty.
func NewEntry(key, value []byte, tstamp int64) (*Entry, error) {
	if len(key) == 0 {
		return nil, bcerrors.New(bcerrors.ErrEmptyKey, bcerrors.CodeInvalidInput, "key is empty")
	}
	if len(value) == 0 {
		return nil, bcerrors.New(bcerrors.ErrEmptyValue, bcerrors.CodeInvalidInput, "value is empty")
	}
	return &Entry{Timestamp: tstamp, Key: key, Value: value}, nil
}

// NewTombstone builds a delete record: same header shape as a put, with
// an empty value and the tombstone flag set.
func NewTombstone(key []byte, tstamp int64) (*Entry, error) {
	if len(key) == 0 {
		return nil, bcerrors.New(bcerrors.ErrEmptyKey, bcerrors.CodeInvalidInput, "key is empty")
	}
	return &Entry{Timestamp: tstamp, Key: key, Tombstone: true}, nil
}

// EncodedSize returns the number of bytes Encode would produce for an
// entry with the given key and value lengths.
func EncodedSize(keyLen, valueLen int) int64 {
	return int64(HeaderSize + keyLen + valueLen)
}

// Encode serializes the entry into its on-disk byte representation.
func (e *Entry) Encode() []byte {
	vsz := len(e.Value)
	buf := make([]byte, HeaderSize+len(e.Key)+vsz)

	checksum := crc32.ChecksumIEEE(e.Value)
	binary.LittleEndian.PutUint32(buf[0:4], checksum)
	binary.LittleEndian.PutUint64(buf[4:12], uint64(e.Timestamp))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(len(e.Key)))
	binary.LittleEndian.PutUint32(buf[16:20], uint32(vsz))
	copy(buf[HeaderSize:], e.Key)
	copy(buf[HeaderSize+len(e.Key):], e.Value)

	return buf
}

// DecodeHeader parses just the fixed-size header, returning the
// checksum plus the sizes needed to know how many more bytes to read.
func DecodeHeader(buf []byte) (checksum uint32, tstamp int64, ksz, vsz uint32, err error) {
	if len(buf) < HeaderSize {
		err = bcerrors.New(bcerrors.ErrDataCorrupted, bcerrors.CodeCorrupted, "short entry header")
		return
	}
	checksum = binary.LittleEndian.Uint32(buf[0:4])
	tstamp = int64(binary.LittleEndian.Uint64(buf[4:12]))
	ksz = binary.LittleEndian.Uint32(buf[12:16])
	vsz = binary.LittleEndian.Uint32(buf[16:20])
	return
}

// Decode parses a complete, previously-encoded entry and verifies its
// checksum. buf must contain exactly HeaderSize+ksz+vsz bytes, i.e. the
// full record as produced by Encode.
func Decode(buf []byte) (*Entry, error) {
	checksum, tstamp, ksz, vsz, err := DecodeHeader(buf)
	if err != nil {
		return nil, err
	}
	want := HeaderSize + int(ksz) + int(vsz)
	if len(buf) != want {
		return nil, bcerrors.New(bcerrors.ErrDataCorrupted, bcerrors.CodeCorrupted, "entry length mismatch").
			WithDetail("want", want).
			WithDetail("got", len(buf))
	}

	key := buf[HeaderSize : HeaderSize+int(ksz)]
	value := buf[HeaderSize+int(ksz):]

	if got := crc32.ChecksumIEEE(value); got != checksum {
		return nil, bcerrors.New(bcerrors.ErrDataCorrupted, bcerrors.CodeCorrupted, "checksum mismatch").
			WithDetail("want", checksum).
			WithDetail("got", got)
	}

	k := make([]byte, len(key))
	copy(k, key)

	e := &Entry{Timestamp: tstamp, Key: k, Tombstone: vsz == 0}
	if vsz > 0 {
		v := make([]byte, len(value))
		copy(v, value)
		e.Value = v
	}
	return e, nil
}
