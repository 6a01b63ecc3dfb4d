// Package iofile wraps the single *os.File handle a segment uses for
// both its append-only writer and its random-access reader, and
// classifies the errors it returns through pkg/bcerrors.
package iofile

import (
	"os"

	"github.com/ignite-kv/barrelcask/pkg/bcerrors"
)

// File is a thin wrapper over *os.File offering the three operations a
// segment needs: positional reads that are safe to call concurrently
// with in-progress appends, append-only writes, and an explicit sync.
type File struct {
	path string
	f    *os.File
}

// Open opens path for append-only writing and random-access reading,
// creating it if it does not exist.
func Open(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, bcerrors.ClassifyFileOpenError(err, path)
	}
	return &File{path: path, f: f}, nil
}

// ReadAt reads len(buf) bytes starting at off. It is safe to call
// concurrently with Append: the OS guarantees a read below the file's
// current length is unaffected by a concurrent append past it.
func (file *File) ReadAt(buf []byte, off int64) (int, error) {
	n, err := file.f.ReadAt(buf, off)
	if err != nil {
		return n, bcerrors.ClassifyReadError(err, file.path, off)
	}
	return n, nil
}

// Append writes buf to the end of the file and returns the offset at
// which the write began.
func (file *File) Append(buf []byte) (int64, error) {
	info, err := file.f.Stat()
	if err != nil {
		return 0, bcerrors.ClassifyWriteError(err, file.path)
	}
	off := info.Size()

	if _, err := file.f.Write(buf); err != nil {
		return 0, bcerrors.ClassifyWriteError(err, file.path)
	}
	return off, nil
}

// Sync flushes the file's in-kernel buffers to durable storage.
func (file *File) Sync() error {
	if err := file.f.Sync(); err != nil {
		return bcerrors.ClassifySyncError(err, file.path)
	}
	return nil
}

// Size returns the file's current length in bytes.
func (file *File) Size() (int64, error) {
	info, err := file.f.Stat()
	if err != nil {
		return 0, bcerrors.ClassifyReadError(err, file.path, 0)
	}
	return info.Size(), nil
}

// Close releases the underlying file descriptor.
func (file *File) Close() error {
	return file.f.Close()
}

// Path returns the path this handle was opened with.
func (file *File) Path() string {
	return file.path
}
