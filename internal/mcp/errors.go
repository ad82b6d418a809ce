package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/downtime/internal/dialog"
	"github.com/rpggio/downtime/internal/domain/activity"
	"github.com/rpggio/downtime/internal/domain/history"
	"github.com/rpggio/downtime/internal/domain/planner"
	"github.com/rpggio/downtime/internal/repository"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) CodeValue() string {
	return e.Code
}

func (e *APIError) MessageValue() string {
	return e.Message
}

func (e *APIError) DetailsValue() any {
	return e.Details
}

func (e *APIError) RecoveryHintValue() string {
	return e.RecoveryHint
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var postErr *planner.PostError
	var persistErr *planner.PersistenceError
	switch {
	case errors.As(err, &postErr):
		return &APIError{
			Code:         "POST_FAILED",
			Message:      fmt.Sprintf("report for %s could not be posted", postErr.Kind),
			Details:      map[string]any{"activity_id": postErr.RecordID, "posted": postErr.Posted, "cause": postErr.Err.Error()},
			RecoveryHint: "Reports already posted were removed from the plan; submit again to send the rest",
		}
	case errors.As(err, &persistErr):
		return &APIError{
			Code:         "STORAGE_ERROR",
			Message:      fmt.Sprintf("could not %s planned activities", persistErr.Op),
			Details:      persistErr.Err.Error(),
			RecoveryHint: "The plan was left unchanged; retry the action",
		}
	case errors.Is(err, planner.ErrInvalidUser):
		return &APIError{Code: "UNAUTHORIZED", Message: "no user for this request", RecoveryHint: "Send a bearer token"}
	case errors.Is(err, activity.ErrUnknownKind):
		return &APIError{Code: "UNKNOWN_ACTIVITY_TYPE", Message: "activity type is not supported", RecoveryHint: "Call list_activity_kinds"}
	case errors.Is(err, dialog.ErrDialogUsed):
		return &APIError{Code: "DIALOG_IN_USE", Message: "dialog was already shown", RecoveryHint: "Retry the action"}
	case errors.Is(err, history.ErrInvalidInput), errors.Is(err, repository.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: "invalid input"}
	case errors.Is(err, repository.ErrNotFound):
		return &APIError{Code: "NOT_FOUND", Message: "not found"}
	default:
		return nil
	}
}

// toolError returns the mapped APIError for err, or err itself.
func toolError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
