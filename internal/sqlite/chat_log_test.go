package sqlite

import (
	"context"
	"testing"

	"github.com/rpggio/downtime/internal/chat"
	"github.com/rpggio/downtime/internal/domain/activity"
	"github.com/rpggio/downtime/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestChatLogRepository_PostList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewChatLogRepository(db)

	contents := []string{"first", "second", "third"}
	for _, c := range contents {
		require.NoError(t, repo.Post(ctx, chat.Message{UserID: "user1", Speaker: "Vex", Kind: activity.KindTrain, Content: c}))
	}
	require.NoError(t, repo.Post(ctx, chat.Message{UserID: "user2", Speaker: "Nyx", Kind: activity.KindRecover, Content: "other"}))

	all, err := repo.List(ctx, repository.ListChatOptions{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	require.Equal(t, "first", all[0].Content)
	require.Equal(t, "other", all[3].Content)
	require.NotEmpty(t, all[0].ID)
	require.False(t, all[0].PostedAt.IsZero())

	mine, err := repo.List(ctx, repository.ListChatOptions{UserID: "user1"})
	require.NoError(t, err)
	require.Len(t, mine, 3)

	recent, err := repo.List(ctx, repository.ListChatOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, "third", recent[0].Content)
	require.Equal(t, "other", recent[1].Content)
}

func TestChatLogRepository_DuplicateID(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewChatLogRepository(db)

	msg := chat.Message{ID: "m1", UserID: "user1", Speaker: "Vex", Kind: activity.KindTrain, Content: "x"}
	require.NoError(t, repo.Post(ctx, msg))
	require.ErrorIs(t, repo.Post(ctx, msg), repository.ErrConflict)
}
