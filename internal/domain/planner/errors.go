package planner

import (
	"errors"
	"fmt"

	"github.com/rpggio/downtime/internal/domain/activity"
)

var (
	// ErrNilHost is returned by Open without a host.
	ErrNilHost = errors.New("planner: host required")
	// ErrInvalidUser is returned by Open without a user id.
	ErrInvalidUser = errors.New("planner: user id required")
)

// PersistenceError is a failed store operation.
type PersistenceError struct {
	Op     string
	UserID string
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s activities for %s: %v", e.Op, e.UserID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// PostError is a failed chat post during submission. Posted records before
// it were dropped from the plan.
type PostError struct {
	RecordID string
	Kind     activity.Kind
	Posted   int
	Err      error
}

func (e *PostError) Error() string {
	return fmt.Sprintf("posting %s report %s after %d posted: %v", e.Kind, e.RecordID, e.Posted, e.Err)
}

func (e *PostError) Unwrap() error { return e.Err }
