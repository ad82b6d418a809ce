package history

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// DefaultLimit caps listings that do not set one.
const DefaultLimit = 50

// Service records and lists planner history.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Log stores an entry, stamping the time when missing.
func (s *Service) Log(ctx context.Context, userID string, entry *Entry) error {
	if entry == nil || userID == "" {
		return ErrInvalidInput
	}
	entry.UserID = userID
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if err := s.repo.Log(ctx, userID, entry); err != nil {
		return fmt.Errorf("logging history: %w", err)
	}
	return nil
}

// Recent lists the newest entries first.
func (s *Service) Recent(ctx context.Context, userID string, opts ListOptions) ([]Entry, error) {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	entries, err := s.repo.List(ctx, userID, opts)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	return entries, nil
}
