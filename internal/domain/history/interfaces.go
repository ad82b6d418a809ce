package history

import "context"

// Repository provides persistence operations for history entries.
type Repository interface {
	Log(ctx context.Context, userID string, entry *Entry) error
	List(ctx context.Context, userID string, opts ListOptions) ([]Entry, error)
}
