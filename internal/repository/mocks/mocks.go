package mocks

import (
	"context"

	"github.com/rpggio/downtime/internal/chat"
	"github.com/rpggio/downtime/internal/domain/activity"
	"github.com/rpggio/downtime/internal/domain/character"
	"github.com/rpggio/downtime/internal/domain/history"
	"github.com/rpggio/downtime/internal/domain/planner"
	"github.com/rpggio/downtime/internal/repository"
	"github.com/stretchr/testify/mock"
)

// PlannerStateRepository is a mock for repository.PlannerStateRepository.
type PlannerStateRepository struct {
	mock.Mock
}

func (m *PlannerStateRepository) Get(ctx context.Context, userID string) ([]byte, error) {
	args := m.Called(ctx, userID)
	if data, ok := args.Get(0).([]byte); ok {
		return data, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PlannerStateRepository) Put(ctx context.Context, userID string, data []byte) error {
	args := m.Called(ctx, userID, data)
	return args.Error(0)
}

func (m *PlannerStateRepository) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// PlannerStore is a mock for planner.Store.
type PlannerStore struct {
	mock.Mock
}

func (m *PlannerStore) Load(ctx context.Context, userID string) (activity.List, error) {
	args := m.Called(ctx, userID)
	if list, ok := args.Get(0).(activity.List); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PlannerStore) Save(ctx context.Context, userID string, list activity.List) error {
	args := m.Called(ctx, userID, list)
	return args.Error(0)
}

func (m *PlannerStore) Clear(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// CharacterRepository is a mock for repository.CharacterRepository.
type CharacterRepository struct {
	mock.Mock
}

func (m *CharacterRepository) Sheet(ctx context.Context, userID string) (*character.Sheet, error) {
	args := m.Called(ctx, userID)
	if sheet, ok := args.Get(0).(*character.Sheet); ok {
		return sheet, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CharacterRepository) Crew(ctx context.Context, crewID string) (*character.Crew, error) {
	args := m.Called(ctx, crewID)
	if crew, ok := args.Get(0).(*character.Crew); ok {
		return crew, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CharacterRepository) UpsertSheet(ctx context.Context, sheet *character.Sheet) error {
	args := m.Called(ctx, sheet)
	return args.Error(0)
}

func (m *CharacterRepository) UpsertCrew(ctx context.Context, crew *character.Crew) error {
	args := m.Called(ctx, crew)
	return args.Error(0)
}

// ChatLogRepository is a mock for repository.ChatLogRepository.
type ChatLogRepository struct {
	mock.Mock
}

func (m *ChatLogRepository) Post(ctx context.Context, msg chat.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *ChatLogRepository) List(ctx context.Context, opts repository.ListChatOptions) ([]chat.Message, error) {
	args := m.Called(ctx, opts)
	if msgs, ok := args.Get(0).([]chat.Message); ok {
		return msgs, args.Error(1)
	}
	return nil, args.Error(1)
}

// HistoryRepository is a mock for repository.HistoryRepository.
type HistoryRepository struct {
	mock.Mock
}

func (m *HistoryRepository) Log(ctx context.Context, userID string, entry *history.Entry) error {
	args := m.Called(ctx, userID, entry)
	return args.Error(0)
}

func (m *HistoryRepository) List(ctx context.Context, userID string, opts history.ListOptions) ([]history.Entry, error) {
	args := m.Called(ctx, userID, opts)
	if entries, ok := args.Get(0).([]history.Entry); ok {
		return entries, args.Error(1)
	}
	return nil, args.Error(1)
}

// APIKeyRepository is a mock for repository.APIKeyRepository.
type APIKeyRepository struct {
	mock.Mock
}

func (m *APIKeyRepository) Create(ctx context.Context, userID, token string) error {
	args := m.Called(ctx, userID, token)
	return args.Error(0)
}

func (m *APIKeyRepository) ResolveUser(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

var (
	_ repository.PlannerStateRepository = (*PlannerStateRepository)(nil)
	_ planner.StateRepository           = (*PlannerStateRepository)(nil)
	_ planner.Store                     = (*PlannerStore)(nil)
	_ repository.CharacterRepository    = (*CharacterRepository)(nil)
	_ repository.ChatLogRepository      = (*ChatLogRepository)(nil)
	_ repository.HistoryRepository      = (*HistoryRepository)(nil)
	_ repository.APIKeyRepository       = (*APIKeyRepository)(nil)
)
