package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/downtime/internal/domain/history"
	"github.com/stretchr/testify/require"
)

func TestHistoryRepository_LogList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewHistoryRepository(db)

	activityID := "a1"
	entry1 := &history.Entry{
		ActivityID: &activityID,
		Kind:       "train",
		EventType:  history.EventAdded,
		Summary:    "Insight",
	}
	entry2 := &history.Entry{
		EventType: history.EventCleared,
		Summary:   "start over",
	}

	require.NoError(t, repo.Log(ctx, "user1", entry1))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, repo.Log(ctx, "user1", entry2))
	require.NotZero(t, entry1.ID)
	require.Equal(t, "user1", entry1.UserID)

	entries, err := repo.List(ctx, "user1", history.ListOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, history.EventCleared, entries[0].EventType)
	require.Nil(t, entries[0].ActivityID)
	require.Equal(t, history.EventAdded, entries[1].EventType)
	require.Equal(t, activityID, *entries[1].ActivityID)
}

func TestHistoryRepository_FiltersAndUserIsolation(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewHistoryRepository(db)

	a1, a2 := "a1", "a2"
	require.NoError(t, repo.Log(ctx, "user1", &history.Entry{ActivityID: &a1, EventType: history.EventAdded, Summary: "x"}))
	require.NoError(t, repo.Log(ctx, "user1", &history.Entry{ActivityID: &a1, EventType: history.EventEdited, Summary: "y"}))
	require.NoError(t, repo.Log(ctx, "user1", &history.Entry{ActivityID: &a2, EventType: history.EventAdded, Summary: "z"}))
	require.NoError(t, repo.Log(ctx, "user2", &history.Entry{ActivityID: &a1, EventType: history.EventAdded, Summary: "w"}))

	byActivity, err := repo.List(ctx, "user1", history.ListOptions{ActivityID: &a1})
	require.NoError(t, err)
	require.Len(t, byActivity, 2)

	added := history.EventAdded
	byType, err := repo.List(ctx, "user1", history.ListOptions{EventType: &added})
	require.NoError(t, err)
	require.Len(t, byType, 2)

	limited, err := repo.List(ctx, "user1", history.ListOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)

	other, err := repo.List(ctx, "user2", history.ListOptions{})
	require.NoError(t, err)
	require.Len(t, other, 1)
}
