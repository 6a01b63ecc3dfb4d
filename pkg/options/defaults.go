package options

const (
	// DefaultDirPath is the directory where barrelcask stores its segment
	// files when none is specified.
	DefaultDirPath = "/var/lib/barrelcask"

	// DefaultFileThreshold is the default per-segment rotation threshold
	// in bytes (200 KiB), applied whenever FileThreshold is left at zero.
	DefaultFileThreshold uint64 = 200 * 1024

	// DefaultIndexKind is the index implementation used when none is
	// specified.
	DefaultIndexKind = Hash
)

// defaultOptions holds the default configuration for a barrelcask engine.
var defaultOptions = Options{
	DirPath:            DefaultDirPath,
	FileThreshold:      DefaultFileThreshold,
	SyncAfterEachWrite: false,
	IndexKind:          DefaultIndexKind,
}

// NewDefaultOptions returns a copy of the package's default options.
func NewDefaultOptions() Options {
	return defaultOptions
}
