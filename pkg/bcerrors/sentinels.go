package bcerrors

import "errors"

// Sentinel kinds. Each is a distinct observable error kind, named to
// match the taxonomy this engine implements one-for-one.
var (
	// Validation.
	ErrEmptyKey      = errors.New("key is empty")
	ErrEmptyValue    = errors.New("value is empty")
	ErrDirPathIsEmpty = errors.New("dir path is empty")

	// Lookup. KeyNotExist is returned by read/delete/update when the
	// index has no entry for the key; Nil is returned by a read whose
	// indexed location resolves to a tombstone record.
	ErrKeyNotExist = errors.New("key not exist")
	ErrNil         = errors.New("nil")

	// I/O.
	ErrFailed2OpenDataFile        = errors.New("failed to open data file")
	ErrFailed2ReadFromDataFile    = errors.New("failed to read from data file")
	ErrFailed2Write2DataFile      = errors.New("failed to write to data file")
	ErrFailed2SyncDataFile        = errors.New("failed to sync data file")
	ErrCanNotOpenOrCreateDateFile = errors.New("can not open or create data file")

	// Directory.
	ErrCouldNotOpenDataDir   = errors.New("could not open data dir")
	ErrFailed2CreateDataDir  = errors.New("failed to create data dir")
	ErrFailed2ReadDBDir      = errors.New("failed to read db dir")

	// Semantic.
	ErrCanNotWriteOldFile     = errors.New("can not write old (sealed) file")
	ErrFailed2UpdateMemIndex  = errors.New("failed to update mem index")
	ErrDataCorrupted          = errors.New("data is corrupted")
	ErrIndexKindUnsupported   = errors.New("index kind not yet supported")
	ErrAlreadyLocked          = errors.New("data directory already locked by another process")
	ErrEngineClosed           = errors.New("engine is closed")
)
