package history_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rpggio/downtime/internal/domain/history"
	"github.com/rpggio/downtime/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHistoryService_LogAndList(t *testing.T) {
	ctx := context.Background()
	userID := "user1"

	repo := &mocks.HistoryRepository{}
	entry := &history.Entry{
		EventType: history.EventAdded,
		Kind:      "train",
		Summary:   "Insight",
	}

	repo.On("Log", ctx, userID, entry).Return(nil)
	repo.On("List", ctx, userID, history.ListOptions{Limit: history.DefaultLimit}).Return([]history.Entry{*entry}, nil)

	svc := history.NewService(repo, nil)
	require.NoError(t, svc.Log(ctx, userID, entry))
	require.Equal(t, userID, entry.UserID)
	require.False(t, entry.CreatedAt.IsZero())

	entries, err := svc.Recent(ctx, userID, history.ListOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	repo.AssertExpectations(t)
}

func TestHistoryService_Errors(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.HistoryRepository{}
	svc := history.NewService(repo, nil)

	require.ErrorIs(t, svc.Log(ctx, "user1", nil), history.ErrInvalidInput)

	boom := errors.New("boom")
	repo.On("Log", ctx, "user1", mock.Anything).Return(boom)
	require.ErrorIs(t, svc.Log(ctx, "user1", &history.Entry{}), boom)

	repo.On("List", ctx, "user1", history.ListOptions{Limit: 5}).Return(nil, boom)
	_, err := svc.Recent(ctx, "user1", history.ListOptions{Limit: 5})
	require.ErrorIs(t, err, boom)
}
