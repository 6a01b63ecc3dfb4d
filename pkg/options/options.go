// Package options provides data structures and functions for configuring
// the barrelcask store. It defines the parameters that control engine
// behavior: where data lives on disk, when the active segment rotates,
// write durability, and which in-memory index implementation backs reads.
package options

import "strings"

// IndexKind selects the in-memory index implementation the engine uses to
// map keys to their on-disk location.
type IndexKind string

const (
	// Hash is the unordered, hash-map-backed index ("KeyDir").
	Hash IndexKind = "hash"
	// BTree is the ordered, balanced-tree-backed index.
	BTree IndexKind = "btree"
	// SkipList is reserved for a future index implementation and is not
	// yet supported; selecting it fails fast at open time.
	SkipList IndexKind = "skiplist"
)

// Options defines the configuration parameters for a barrelcask engine.
// It provides control over on-disk layout, rotation behavior, write
// durability, and index selection.
type Options struct {
	// DirPath is the directory where segment files are stored.
	//
	// Required, must be non-empty.
	DirPath string `json:"dirPath"`

	// FileThreshold is the maximum number of bytes an active segment may
	// hold before rotation. Zero means "use the default of 200 KiB".
	FileThreshold uint64 `json:"fileThreshold"`

	// SyncAfterEachWrite controls whether the active segment is synced to
	// durable storage after every single append.
	SyncAfterEachWrite bool `json:"syncAfterEachWrite"`

	// IndexKind selects which in-memory index implementation backs key
	// lookups.
	IndexKind IndexKind `json:"indexKind"`
}

// OptionFunc is a function that modifies an Options value in place.
type OptionFunc func(*Options)

// WithDefaultOptions applies the package defaults to an Options value.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		defaults := NewDefaultOptions()
		o.DirPath = defaults.DirPath
		o.FileThreshold = defaults.FileThreshold
		o.SyncAfterEachWrite = defaults.SyncAfterEachWrite
		o.IndexKind = defaults.IndexKind
	}
}

// WithDirPath sets the data directory.
func WithDirPath(dirPath string) OptionFunc {
	return func(o *Options) {
		dirPath = strings.TrimSpace(dirPath)
		if dirPath != "" {
			o.DirPath = dirPath
		}
	}
}

// WithFileThreshold sets the per-segment rotation threshold in bytes.
func WithFileThreshold(threshold uint64) OptionFunc {
	return func(o *Options) {
		o.FileThreshold = threshold
	}
}

// WithSyncAfterEachWrite toggles fsync-per-write durability.
func WithSyncAfterEachWrite(sync bool) OptionFunc {
	return func(o *Options) {
		o.SyncAfterEachWrite = sync
	}
}

// WithIndexKind selects the in-memory index implementation.
func WithIndexKind(kind IndexKind) OptionFunc {
	return func(o *Options) {
		if kind != "" {
			o.IndexKind = kind
		}
	}
}
