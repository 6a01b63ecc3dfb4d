// Package bcerrors defines barrelcask's error taxonomy: a fixed set of
// sentinel kinds (one per distinct observable failure named by the spec
// this engine implements) plus a structured wrapper type that attaches
// operational context — file paths, offsets, segment ids — to whichever
// sentinel actually failed.
//
// Callers detect a specific kind with errors.Is(err, bcerrors.ErrXxx); they
// recover the operational context, when present, with errors.As against
// *Error and its Code()/Details() accessors.
package bcerrors

// Error is barrelcask's structured error type. It wraps one of the
// package's sentinel kinds as its cause, carries a classification Code,
// and lazily accumulates key/value details for logging.
type Error struct {
	cause   error
	message string
	code    Code
	details map[string]any

	path      string
	fileName  string
	offset    int64
	segmentID uint32
}

// New wraps cause (normally one of the ErrXxx sentinels) with a message
// and classification code.
func New(cause error, code Code, message string) *Error {
	return &Error{cause: cause, code: code, message: message}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.message == "" && e.cause != nil {
		return e.cause.Error()
	}
	return e.message
}

// Unwrap exposes the wrapped sentinel so errors.Is/errors.As keep working
// through this wrapper.
func (e *Error) Unwrap() error {
	return e.cause
}

// Code returns the error's classification.
func (e *Error) Code() Code {
	return e.code
}

// Details returns the structured context attached to this error.
func (e *Error) Details() map[string]any {
	return e.details
}

// WithDetail attaches an arbitrary key/value pair of debugging context.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.details == nil {
		e.details = make(map[string]any)
	}
	e.details[key] = value
	return e
}

// WithPath records the filesystem path involved in the failure.
func (e *Error) WithPath(path string) *Error {
	e.path = path
	return e
}

// WithFileName records the segment file name involved in the failure.
func (e *Error) WithFileName(name string) *Error {
	e.fileName = name
	return e
}

// WithOffset records the byte offset within a segment file involved in
// the failure.
func (e *Error) WithOffset(offset int64) *Error {
	e.offset = offset
	return e
}

// WithSegmentID records which segment was involved in the failure.
func (e *Error) WithSegmentID(id uint32) *Error {
	e.segmentID = id
	return e
}

// Path returns the filesystem path attached to this error, if any.
func (e *Error) Path() string { return e.path }

// FileName returns the segment file name attached to this error, if any.
func (e *Error) FileName() string { return e.fileName }

// Offset returns the byte offset attached to this error, if any.
func (e *Error) Offset() int64 { return e.offset }

// SegmentID returns the segment id attached to this error, if any.
func (e *Error) SegmentID() uint32 { return e.segmentID }
