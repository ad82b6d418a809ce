package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rpggio/downtime/internal/domain/activity"
	"github.com/rpggio/downtime/internal/repository"
)

// JSONStore encodes lists as JSON in a StateRepository.
type JSONStore struct {
	repo   StateRepository
	logger *slog.Logger
}

var _ Store = (*JSONStore)(nil)

func NewJSONStore(repo StateRepository, logger *slog.Logger) *JSONStore {
	return &JSONStore{repo: repo, logger: logger}
}

// Load treats a missing row and an undecodable value as an empty list.
// Individual bad records are dropped and the rest of the list is kept.
func (s *JSONStore) Load(ctx context.Context, userID string) (activity.List, error) {
	data, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return activity.List{}, nil
		}
		return nil, fmt.Errorf("loading planner state: %w", err)
	}
	list, skipped, err := activity.Decode(data)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("discarding unreadable planner state", "user_id", userID, "error", err)
		}
		return activity.List{}, nil
	}
	if s.logger != nil {
		for _, sk := range skipped {
			s.logger.Warn("skipping stored activity", "user_id", userID, "index", sk.Index, "activity_id", sk.ID, "error", sk.Err)
		}
	}
	return list, nil
}

func (s *JSONStore) Save(ctx context.Context, userID string, list activity.List) error {
	data, err := activity.Encode(list)
	if err != nil {
		return fmt.Errorf("encoding planner state: %w", err)
	}
	if err := s.repo.Put(ctx, userID, data); err != nil {
		return fmt.Errorf("saving planner state: %w", err)
	}
	return nil
}

func (s *JSONStore) Clear(ctx context.Context, userID string) error {
	if err := s.repo.Delete(ctx, userID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("clearing planner state: %w", err)
	}
	return nil
}
