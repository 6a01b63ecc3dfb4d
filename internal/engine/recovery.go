package engine

import (
	"os"
	"path/filepath"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gofrs/flock"
	"go.uber.org/zap"

	"github.com/ignite-kv/barrelcask/internal/codec"
	"github.com/ignite-kv/barrelcask/internal/index"
	"github.com/ignite-kv/barrelcask/internal/segment"
	"github.com/ignite-kv/barrelcask/pkg/bcerrors"
	"github.com/ignite-kv/barrelcask/pkg/options"
)

// lockFileName is the advisory lock barrelcask holds for the lifetime
// of an open Engine, so a second process opening the same directory
// fails fast instead of corrupting the log.
const lockFileName = ".barrelcask.lock"

// Open validates cfg, acquires the directory lock, replays every
// existing segment to rebuild the index, and prepares (or creates) the
// active segment for new writes.
func Open(cfg Config) (*Engine, error) {
	opts := cfg.Options
	log := cfg.Logger

	if strings.TrimSpace(opts.DirPath) == "" {
		return nil, bcerrors.New(bcerrors.ErrDirPathIsEmpty, bcerrors.CodeInvalidInput, "dir path is empty")
	}
	if opts.FileThreshold == 0 {
		opts.FileThreshold = options.DefaultFileThreshold
	}
	if opts.IndexKind == "" {
		opts.IndexKind = options.DefaultIndexKind
	}

	if err := os.MkdirAll(opts.DirPath, 0755); err != nil {
		return nil, bcerrors.ClassifyDirectoryCreationError(err, opts.DirPath).
			WithDetail("hint", "could not create data directory")
	}

	dirLock := flock.New(filepath.Join(opts.DirPath, lockFileName))
	locked, err := dirLock.TryLock()
	if err != nil {
		return nil, bcerrors.New(bcerrors.ErrCouldNotOpenDataDir, bcerrors.CodeIO, "failed to acquire data directory lock").
			WithPath(opts.DirPath)
	}
	if !locked {
		return nil, bcerrors.New(bcerrors.ErrAlreadyLocked, bcerrors.CodeSemantic, "data directory is already open by another process").
			WithPath(opts.DirPath)
	}

	idx, err := index.New(opts.IndexKind)
	if err != nil {
		_ = dirLock.Unlock()
		return nil, err
	}

	fileIDs, err := discoverSegments(opts.DirPath, log)
	if err != nil {
		_ = dirLock.Unlock()
		return nil, err
	}

	e := &Engine{
		opts:     opts,
		log:      log,
		idx:      idx,
		segments: make(map[uint32]*segment.Segment, len(fileIDs)+1),
		dirLock:  dirLock,
	}

	for _, id := range fileIDs {
		seg, err := segment.Open(opts.DirPath, id, segment.Sealed)
		if err != nil {
			_ = dirLock.Unlock()
			return nil, err
		}
		e.segments[id] = seg
		if err := e.replay(seg); err != nil {
			_ = dirLock.Unlock()
			return nil, err
		}
	}

	if err := e.prepareActiveSegment(fileIDs); err != nil {
		_ = dirLock.Unlock()
		return nil, err
	}

	if log != nil {
		log.Infow("engine opened",
			"dirPath", opts.DirPath,
			"segments", len(e.segments),
			"keys", idx.Len(),
			"indexKind", string(opts.IndexKind),
		)
	}

	return e, nil
}

// discoverSegments globs opts.DirPath for segment files, returning
// their ids in ascending order (the order replay must happen in so
// later writes to the same key win). Non-numeric stems, duplicate
// ids, and anything else found in the directory are logged and
// skipped rather than treated as a fatal error.
func discoverSegments(dirPath string, log *zap.SugaredLogger) ([]uint32, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, bcerrors.New(bcerrors.ErrFailed2ReadDBDir, bcerrors.CodeIO, "failed to read data directory").
			WithPath(dirPath)
	}

	all := mapset.NewSet[string]()
	recognized := mapset.NewSet[string]()
	seenIDs := make(map[uint32]string, len(entries))

	var ids []uint32
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		all.Add(name)

		id, ok := segment.ParseFileID(name)
		if !ok {
			continue
		}
		if prior, dup := seenIDs[id]; dup {
			if log != nil {
				log.Warnw("duplicate segment id, keeping first seen", "id", id, "kept", prior, "ignored", name)
			}
			continue
		}
		seenIDs[id] = name
		recognized.Add(name)
		ids = append(ids, id)
	}

	orphans := all.Difference(recognized)
	orphans.Remove(lockFileName)
	if orphans.Cardinality() > 0 && log != nil {
		for _, name := range orphans.ToSlice() {
			log.Warnw("unrecognized file in data directory, ignoring", "name", name)
		}
	}

	segment.SortFileIDs(ids)
	return ids, nil
}

// replay scans seg from the start, rebuilding index entries for every
// well-formed record it finds. A trailing record that is shorter than
// its declared size is the expected shape of a crash mid-write: replay
// stops there without error instead of rejecting the whole segment.
func (e *Engine) replay(seg *segment.Segment) error {
	var offset int64
	size := seg.Size()

	for offset < size {
		header := make([]byte, codec.HeaderSize)
		if _, err := seg.ReadAt(header, offset); err != nil {
			break
		}
		_, _, ksz, vsz, err := codec.DecodeHeader(header)
		if err != nil {
			break
		}

		recordSize := int64(codec.HeaderSize) + int64(ksz) + int64(vsz)
		if offset+recordSize > size {
			if e.log != nil {
				e.log.Warnw("truncated trailing record, stopping replay",
					"segment", seg.FileID(), "offset", offset)
			}
			break
		}

		buf := make([]byte, recordSize)
		if _, err := seg.ReadAt(buf, offset); err != nil {
			break
		}
		entry, err := codec.Decode(buf)
		if err != nil {
			if e.log != nil {
				e.log.Warnw("corrupted record, stopping replay",
					"segment", seg.FileID(), "offset", offset, "error", err)
			}
			break
		}

		key := string(entry.Key)
		if entry.Tombstone {
			e.idx.Delete(key)
		} else {
			e.idx.Put(key, index.Location{
				FileID:    seg.FileID(),
				Offset:    offset,
				EntrySize: uint32(recordSize),
				Timestamp: entry.Timestamp,
			})
		}

		offset += recordSize
	}

	return nil
}

// prepareActiveSegment decides whether the most recent existing
// segment still has room to keep accepting writes, or whether a fresh
// segment must be created to serve as the active one.
func (e *Engine) prepareActiveSegment(existingIDs []uint32) error {
	if len(existingIDs) == 0 {
		seg, err := segment.Open(e.opts.DirPath, 1, segment.Active)
		if err != nil {
			return err
		}
		e.segments[1] = seg
		e.active = seg
		return nil
	}

	lastID := existingIDs[len(existingIDs)-1]
	last := e.segments[lastID]

	if uint64(last.Size()) < e.opts.FileThreshold {
		last.SetRole(segment.Active)
		e.active = last
		return nil
	}

	nextID := lastID + 1
	seg, err := segment.Open(e.opts.DirPath, nextID, segment.Active)
	if err != nil {
		return err
	}
	e.segments[nextID] = seg
	e.active = seg
	return nil
}
