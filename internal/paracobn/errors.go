package paracobn

import "errors"

// Format errors abort a decode; no partial tree is returned.
var (
	ErrBadMagic      = errors.New("paracobn: invalid magic")
	ErrRootNotStruct = errors.New("paracobn: root is not a struct")
	ErrHashIndex     = errors.New("paracobn: hash index out of range")
	ErrOffsetRange   = errors.New("paracobn: offset out of range")
	ErrTruncated     = errors.New("paracobn: truncated data")
)

// Consistency errors indicate the encoder's collection and write passes
// diverged. They are build defects, never bad input.
var (
	ErrHashNotCollected = errors.New("paracobn: hash missing from collected table")
	ErrRefEntryMissing  = errors.New("paracobn: reference entry missing")
	ErrUnknownKind      = errors.New("paracobn: unknown value kind not encodable")
)
