package sqlite

import (
	"context"
	"testing"

	"github.com/rpggio/downtime/internal/domain/character"
	"github.com/rpggio/downtime/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestCharacterRepository_UpsertAndRead(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewCharacterRepository(db)

	_, err := repo.Sheet(ctx, "user1")
	require.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.Crew(ctx, "crew1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.UpsertCrew(ctx, &character.Crew{ID: "crew1", Name: "Lampblacks", Tier: 1}))
	sheet := &character.Sheet{
		UserID: "user1",
		Name:   "Vex",
		Stress: 3,
		Trauma: 1,
		CrewID: "crew1",
		Dots:   map[character.Action]int{character.Hunt: 2, character.Sway: 1},
	}
	require.NoError(t, repo.UpsertSheet(ctx, sheet))

	got, err := repo.Sheet(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, sheet, got)

	sheet.Stress = 5
	sheet.Name = "Vex the Quiet"
	require.NoError(t, repo.UpsertSheet(ctx, sheet))
	got, err = repo.Sheet(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, 5, got.Stress)
	require.Equal(t, "Vex the Quiet", got.Name)

	require.NoError(t, repo.UpsertCrew(ctx, &character.Crew{ID: "crew1", Name: "Lampblacks", Tier: 2}))
	crew, err := repo.Crew(ctx, "crew1")
	require.NoError(t, err)
	require.Equal(t, 2, crew.Tier)
}

func TestCharacterRepository_Validation(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewCharacterRepository(db)

	require.ErrorIs(t, repo.UpsertSheet(ctx, &character.Sheet{}), repository.ErrInvalidInput)
	require.ErrorIs(t, repo.UpsertCrew(ctx, &character.Crew{}), repository.ErrInvalidInput)

	err := repo.UpsertSheet(ctx, &character.Sheet{UserID: "user1", Name: "Vex", CrewID: "missing"})
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)

	require.NoError(t, repo.UpsertSheet(ctx, &character.Sheet{UserID: "user2", Name: "Nyx"}))
	got, err := repo.Sheet(ctx, "user2")
	require.NoError(t, err)
	require.Empty(t, got.CrewID)
	require.Empty(t, got.Dots)
}
