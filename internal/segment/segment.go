// Package segment manages a single on-disk log file: a sequence of
// codec-encoded entries identified by a numeric file id, reachable at
// dirPath/<decimal file id>.bck.
package segment

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/ignite-kv/barrelcask/internal/iofile"
	"github.com/ignite-kv/barrelcask/pkg/bcerrors"
)

// Extension is the suffix every segment file carries.
const Extension = ".bck"

// Role distinguishes the single segment currently accepting writes
// from every other, sealed, read-only segment.
type Role int

const (
	// Sealed segments are immutable and read-only.
	Sealed Role = iota
	// Active is the one segment currently accepting appends.
	Active
)

// Segment is one log file plus the bookkeeping needed to append to it
// (when active) and to read from it at an arbitrary offset.
type Segment struct {
	fileID uint32
	path   string
	file   *iofile.File

	// nextWritePos tracks the segment's current end-of-file offset so
	// Size can report it without a stat call. It is updated after each
	// Append from the offset the file handle reports.
	nextWritePos int64

	role Role
}

// Path returns the on-disk path for the segment with the given id
// inside dirPath.
func Path(dirPath string, fileID uint32) string {
	return filepath.Join(dirPath, fmt.Sprintf("%d%s", fileID, Extension))
}

// Open opens (creating if necessary) the segment file for fileID
// inside dirPath with the given role.
func Open(dirPath string, fileID uint32, role Role) (*Segment, error) {
	path := Path(dirPath, fileID)
	f, err := iofile.Open(path)
	if err != nil {
		return nil, err
	}
	size, err := f.Size()
	if err != nil {
		return nil, err
	}
	return &Segment{fileID: fileID, path: path, file: f, nextWritePos: size, role: role}, nil
}

// FileID returns the segment's numeric identifier.
func (s *Segment) FileID() uint32 { return s.fileID }

// Role reports whether this segment currently accepts appends.
func (s *Segment) Role() Role { return s.role }

// SetRole transitions a segment between Active and Sealed, typically
// when rotation seals the formerly-active segment.
func (s *Segment) SetRole(role Role) { s.role = role }

// Size returns the current length of the segment, in bytes.
func (s *Segment) Size() int64 { return atomic.LoadInt64(&s.nextWritePos) }

// Append writes buf to the end of the segment. The caller is
// responsible for serializing calls to Append against a single
// segment; barrelcask's engine does so by holding an exclusive lock
// across the whole rotation-and-append sequence.
func (s *Segment) Append(buf []byte) (offset int64, err error) {
	if s.role != Active {
		return 0, bcerrors.New(bcerrors.ErrCanNotWriteOldFile, bcerrors.CodeSemantic, "cannot append to a sealed segment").
			WithFileName(filepath.Base(s.path)).
			WithSegmentID(s.fileID)
	}
	off, err := s.file.Append(buf)
	if err != nil {
		return 0, err
	}
	atomic.StoreInt64(&s.nextWritePos, off+int64(len(buf)))
	return off, nil
}

// ReadAt reads exactly len(buf) bytes starting at off. Safe to call
// concurrently with Append on the same segment.
func (s *Segment) ReadAt(buf []byte, off int64) (int, error) {
	return s.file.ReadAt(buf, off)
}

// Sync flushes the segment's writes to durable storage.
func (s *Segment) Sync() error {
	return s.file.Sync()
}

// Close releases the segment's file descriptor.
func (s *Segment) Close() error {
	return s.file.Close()
}

// ParseFileID extracts the numeric file id from a segment file name,
// e.g. "42.bck" -> 42. Names that don't match the expected shape
// return ok=false rather than an error: recovery logs and skips them
// instead of failing the whole open.
func ParseFileID(name string) (id uint32, ok bool) {
	if !strings.HasSuffix(name, Extension) {
		return 0, false
	}
	stem := strings.TrimSuffix(name, Extension)
	n, err := strconv.ParseUint(stem, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}

// SortFileIDs sorts ids in ascending order, the order segments must be
// replayed in during recovery so later writes to the same key
// overwrite earlier ones in the index.
func SortFileIDs(ids []uint32) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
