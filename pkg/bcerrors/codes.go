package bcerrors

// Code represents a standardized way to categorize a barrelcask failure
// programmatically, independent of the human-readable message.
type Code string

const (
	// CodeInvalidInput marks validation failures: an empty key, an empty
	// value, an empty directory path.
	CodeInvalidInput Code = "INVALID_INPUT"

	// CodeNotFound marks lookup failures where a requested key has no
	// entry in the index.
	CodeNotFound Code = "NOT_FOUND"

	// CodeIO marks generic input/output failures against a segment file
	// or the data directory.
	CodeIO Code = "IO_ERROR"

	// CodeDiskFull marks I/O failures caused by the underlying device
	// running out of space (ENOSPC).
	CodeDiskFull Code = "DISK_FULL"

	// CodePermissionDenied marks I/O failures caused by insufficient
	// filesystem permissions.
	CodePermissionDenied Code = "PERMISSION_DENIED"

	// CodeFilesystemReadonly marks I/O failures caused by a read-only
	// filesystem (EROFS).
	CodeFilesystemReadonly Code = "FILESYSTEM_READONLY"

	// CodeCorrupted marks a CRC mismatch between a stored entry and its
	// recomputed checksum.
	CodeCorrupted Code = "DATA_CORRUPTED"

	// CodeSemantic marks protocol-level failures that are neither
	// validation nor I/O: writing to a sealed segment, failing to update
	// the in-memory index after a successful append.
	CodeSemantic Code = "SEMANTIC_ERROR"
)
