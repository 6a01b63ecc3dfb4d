package bcerrors

import (
	"errors"
	"os"
	"syscall"
)

// errnoCode inspects a raw OS error for the specific syscall.Errno values
// worth distinguishing, falling back to a permission check and finally to
// the given default code.
func errnoCode(err error, def Code) Code {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ENOSPC:
			return CodeDiskFull
		case syscall.EROFS:
			return CodeFilesystemReadonly
		case syscall.EACCES, syscall.EPERM:
			return CodePermissionDenied
		}
	}
	if os.IsPermission(err) {
		return CodePermissionDenied
	}
	return def
}

// ClassifyDirectoryCreationError wraps a failure to create or open the data
// directory, picking a specific code when the underlying errno indicates a
// full or read-only device.
func ClassifyDirectoryCreationError(err error, path string) *Error {
	code := errnoCode(err, CodeIO)
	return New(ErrFailed2CreateDataDir, code, "failed to create data directory").
		WithPath(path).
		WithDetail("cause", err.Error())
}

// ClassifyFileOpenError wraps a failure to open or create a segment file.
func ClassifyFileOpenError(err error, path string) *Error {
	code := errnoCode(err, CodeIO)
	return New(ErrCanNotOpenOrCreateDateFile, code, "failed to open or create data file").
		WithPath(path).
		WithDetail("cause", err.Error())
}

// ClassifySyncError wraps a failure to fsync a segment file.
func ClassifySyncError(err error, path string) *Error {
	code := errnoCode(err, CodeIO)
	return New(ErrFailed2SyncDataFile, code, "failed to sync data file").
		WithPath(path).
		WithDetail("cause", err.Error())
}

// ClassifyReadError wraps a failure reading from a segment file.
func ClassifyReadError(err error, path string, offset int64) *Error {
	code := errnoCode(err, CodeIO)
	return New(ErrFailed2ReadFromDataFile, code, "failed to read from data file").
		WithPath(path).
		WithOffset(offset).
		WithDetail("cause", err.Error())
}

// ClassifyWriteError wraps a failure writing to a segment file.
func ClassifyWriteError(err error, path string) *Error {
	code := errnoCode(err, CodeIO)
	return New(ErrFailed2Write2DataFile, code, "failed to write to data file").
		WithPath(path).
		WithDetail("cause", err.Error())
}
