package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/gamelists/internal/models"
	"github.com/desertthunder/gamelists/internal/shared"
)

// GameListRepository implements models.Repository[*models.GameList] for game lists.
type GameListRepository struct {
	db *sql.DB
}

// NewGameListRepository creates a new GameListRepository with the given database connection
func NewGameListRepository(db *sql.DB) *GameListRepository {
	return &GameListRepository{db: db}
}

// Create inserts a new [models.GameList]. The list's ID is caller assigned.
func (r *GameListRepository) Create(ctx context.Context, list *models.GameList) error {
	if err := list.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `INSERT INTO game_lists (id, name) VALUES (?, ?)`, list.ID, list.Name); err != nil {
		return fmt.Errorf("failed to insert list: %w", err)
	}
	return nil
}

// Save inserts list or renames the stored list with the same ID.
func (r *GameListRepository) Save(ctx context.Context, list *models.GameList) error {
	if err := list.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `INSERT INTO game_lists (id, name) VALUES (?, ?) ON CONFLICT (id) DO UPDATE SET name = excluded.name`
	if _, err := r.db.ExecContext(ctx, query, list.ID, list.Name); err != nil {
		return fmt.Errorf("failed to save list: %w", err)
	}
	return nil
}

// Get retrieves a list by ID, failing with [shared.ErrListNotFound] when it does not exist.
func (r *GameListRepository) Get(ctx context.Context, id int64) (*models.GameList, error) {
	var list models.GameList
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM game_lists WHERE id = ?`, id).Scan(&list.ID, &list.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", shared.ErrListNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan list: %w", err)
	}
	return &list, nil
}

// List retrieves every list ordered by ID.
func (r *GameListRepository) List(ctx context.Context) ([]*models.GameList, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM game_lists ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query lists: %w", err)
	}
	defer rows.Close()

	lists := []*models.GameList{}
	for rows.Next() {
		var list models.GameList
		if err := rows.Scan(&list.ID, &list.Name); err != nil {
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		lists = append(lists, &list)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return lists, nil
}

// AddGame appends gameID to listID at the next free position and returns that position.
//
// Adding a game that is already a member leaves the list unchanged and returns the game's current position.
func (r *GameListRepository) AddGame(ctx context.Context, listID, gameID int64) (int, error) {
	var position int
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`SELECT position FROM belongings WHERE list_id = ? AND game_id = ?`, listID, gameID,
		).Scan(&position)
		if err == nil {
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to check membership: %w", err)
		}

		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM belongings WHERE list_id = ?`, listID,
		).Scan(&position); err != nil {
			return fmt.Errorf("failed to count list members: %w", err)
		}

		b := models.Belonging{ListID: listID, GameID: gameID, Position: position}
		if err := b.Validate(); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO belongings (list_id, game_id, position) VALUES (?, ?, ?)`, b.ListID, b.GameID, b.Position,
		); err != nil {
			return fmt.Errorf("failed to insert belonging: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return position, nil
}
