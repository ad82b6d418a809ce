package activity

import "errors"

var (
	// ErrUnknownKind indicates a kind outside the registry.
	ErrUnknownKind = errors.New("unknown activity kind")
	// ErrKindMismatch indicates a payload of the wrong kind for a record.
	ErrKindMismatch = errors.New("payload kind does not match record kind")
	// ErrDuplicateID indicates a stored record repeating an earlier id.
	ErrDuplicateID = errors.New("duplicate activity id")
)
