package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/downtime/internal/domain/character"
	"github.com/rpggio/downtime/internal/repository"
)

// CharacterRepository implements repository.CharacterRepository for SQLite
type CharacterRepository struct {
	db *DB
}

var _ repository.CharacterRepository = (*CharacterRepository)(nil)

// NewCharacterRepository creates a new CharacterRepository
func NewCharacterRepository(db *DB) *CharacterRepository {
	return &CharacterRepository{db: db}
}

// Sheet returns the character sheet of a user
func (r *CharacterRepository) Sheet(ctx context.Context, userID string) (*character.Sheet, error) {
	query := `
		SELECT user_id, name, stress, trauma, crew_id, dots
		FROM characters
		WHERE user_id = ?
	`
	var sheet character.Sheet
	var crewID sql.NullString
	var dots string
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&sheet.UserID,
		&sheet.Name,
		&sheet.Stress,
		&sheet.Trauma,
		&crewID,
		&dots,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get character: %w", err)
	}
	if crewID.Valid {
		sheet.CrewID = crewID.String
	}
	if err := json.Unmarshal([]byte(dots), &sheet.Dots); err != nil {
		return nil, fmt.Errorf("failed to decode action dots: %w", err)
	}
	return &sheet, nil
}

// Crew returns a crew by id
func (r *CharacterRepository) Crew(ctx context.Context, crewID string) (*character.Crew, error) {
	var crew character.Crew
	err := r.db.QueryRowContext(ctx, `SELECT id, name, tier FROM crews WHERE id = ?`, crewID).
		Scan(&crew.ID, &crew.Name, &crew.Tier)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get crew: %w", err)
	}
	return &crew, nil
}

// UpsertSheet creates or replaces a character sheet
func (r *CharacterRepository) UpsertSheet(ctx context.Context, sheet *character.Sheet) error {
	if sheet == nil || sheet.UserID == "" {
		return repository.ErrInvalidInput
	}
	dots := sheet.Dots
	if dots == nil {
		dots = map[character.Action]int{}
	}
	encoded, err := json.Marshal(dots)
	if err != nil {
		return fmt.Errorf("failed to encode action dots: %w", err)
	}

	var crewID any
	if sheet.CrewID != "" {
		crewID = sheet.CrewID
	}

	query := `
		INSERT INTO characters (user_id, name, stress, trauma, crew_id, dots, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			name = excluded.name,
			stress = excluded.stress,
			trauma = excluded.trauma,
			crew_id = excluded.crew_id,
			dots = excluded.dots,
			updated_at = excluded.updated_at
	`
	_, err = r.db.ExecContext(ctx, query,
		sheet.UserID,
		sheet.Name,
		sheet.Stress,
		sheet.Trauma,
		crewID,
		string(encoded),
		time.Now().UTC(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to save character: %w", err)
	}
	return nil
}

// UpsertCrew creates or replaces a crew
func (r *CharacterRepository) UpsertCrew(ctx context.Context, crew *character.Crew) error {
	if crew == nil || crew.ID == "" {
		return repository.ErrInvalidInput
	}
	query := `
		INSERT INTO crews (id, name, tier) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, tier = excluded.tier
	`
	if _, err := r.db.ExecContext(ctx, query, crew.ID, crew.Name, crew.Tier); err != nil {
		return fmt.Errorf("failed to save crew: %w", err)
	}
	return nil
}
