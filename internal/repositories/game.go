package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/gamelists/internal/models"
	"github.com/desertthunder/gamelists/internal/shared"
)

const gameColumns = `id, title, game_year, genre, platforms, score, img_url, short_description, long_description`

// GameRepository implements models.Repository[*models.Game] for the game catalog.
type GameRepository struct {
	db *sql.DB
}

// NewGameRepository creates a new GameRepository with the given database connection
func NewGameRepository(db *sql.DB) *GameRepository {
	return &GameRepository{db: db}
}

// Create inserts a new [models.Game]. The game's ID is caller assigned.
func (r *GameRepository) Create(ctx context.Context, game *models.Game) error {
	if err := game.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `INSERT INTO games (` + gameColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, gameArgs(game)...); err != nil {
		return fmt.Errorf("failed to insert game: %w", err)
	}
	return nil
}

// Save inserts game or overwrites the stored game with the same ID.
func (r *GameRepository) Save(ctx context.Context, game *models.Game) error {
	if err := game.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO games (` + gameColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			game_year = excluded.game_year,
			genre = excluded.genre,
			platforms = excluded.platforms,
			score = excluded.score,
			img_url = excluded.img_url,
			short_description = excluded.short_description,
			long_description = excluded.long_description
	`
	if _, err := r.db.ExecContext(ctx, query, gameArgs(game)...); err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}
	return nil
}

// Get retrieves a game by ID, failing with [shared.ErrGameNotFound] when it does not exist.
func (r *GameRepository) Get(ctx context.Context, id int64) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = ?`

	game, err := scanGame(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", shared.ErrGameNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan game: %w", err)
	}
	return game, nil
}

// List retrieves every game ordered by ID.
func (r *GameRepository) List(ctx context.Context) ([]*models.Game, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+gameColumns+` FROM games ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	games := []*models.Game{}
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, game)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return games, nil
}

// SearchByList returns the summaries of the games in listID ordered by position ascending.
//
// A list without members yields an empty slice; use [GameListRepository.Get] to tell an empty list from an absent one.
func (r *GameRepository) SearchByList(ctx context.Context, listID int64) ([]models.GameSummary, error) {
	query := `
		SELECT g.id, g.title, g.game_year, g.img_url, g.short_description
		FROM belongings b
		INNER JOIN games g ON g.id = b.game_id
		WHERE b.list_id = ?
		ORDER BY b.position ASC
	`

	rows, err := r.db.QueryContext(ctx, query, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to query list games: %w", err)
	}
	defer rows.Close()

	summaries := []models.GameSummary{}
	for rows.Next() {
		var s models.GameSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.Year, &s.ImgURL, &s.ShortDescription); err != nil {
			return nil, fmt.Errorf("failed to scan game summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return summaries, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGame(row scanner) (*models.Game, error) {
	var g models.Game
	err := row.Scan(&g.ID, &g.Title, &g.Year, &g.Genre, &g.Platforms, &g.Score, &g.ImgURL, &g.ShortDescription, &g.LongDescription)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func gameArgs(g *models.Game) []any {
	return []any{g.ID, g.Title, g.Year, g.Genre, g.Platforms, g.Score, g.ImgURL, g.ShortDescription, g.LongDescription}
}
