package repository

import (
	"context"

	"github.com/rpggio/downtime/internal/chat"
	"github.com/rpggio/downtime/internal/domain/character"
	"github.com/rpggio/downtime/internal/domain/history"
)

// PlannerStateRepository stores each user's encoded activity list.
type PlannerStateRepository interface {
	Get(ctx context.Context, userID string) ([]byte, error)
	Put(ctx context.Context, userID string, data []byte) error
	Delete(ctx context.Context, userID string) error
}

// CharacterRepository manages character sheets and crews
type CharacterRepository interface {
	Sheet(ctx context.Context, userID string) (*character.Sheet, error)
	Crew(ctx context.Context, crewID string) (*character.Crew, error)
	UpsertSheet(ctx context.Context, sheet *character.Sheet) error
	UpsertCrew(ctx context.Context, crew *character.Crew) error
}

// ChatLogRepository is the shared chat log
type ChatLogRepository interface {
	Post(ctx context.Context, msg chat.Message) error
	List(ctx context.Context, opts ListChatOptions) ([]chat.Message, error)
}

// ListChatOptions provides filtering options for the chat log
type ListChatOptions struct {
	UserID string
	Limit  int
	Offset int
}

// HistoryRepository manages planner history persistence
type HistoryRepository interface {
	Log(ctx context.Context, userID string, entry *history.Entry) error
	List(ctx context.Context, userID string, opts history.ListOptions) ([]history.Entry, error)
}

// APIKeyRepository resolves bearer tokens to users
type APIKeyRepository interface {
	Create(ctx context.Context, userID, token string) error
	ResolveUser(ctx context.Context, token string) (string, error)
}
