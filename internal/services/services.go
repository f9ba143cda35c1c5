package services

import (
	"context"

	"github.com/desertthunder/gamelists/internal/models"
)

// GameStore reads the game catalog.
type GameStore interface {
	Get(ctx context.Context, id int64) (*models.Game, error)
	List(ctx context.Context) ([]*models.Game, error)
	SearchByList(ctx context.Context, listID int64) ([]models.GameSummary, error)
}

// ListStore reads list metadata.
type ListStore interface {
	Get(ctx context.Context, id int64) (*models.GameList, error)
	List(ctx context.Context) ([]*models.GameList, error)
}

// GameService serves the game catalog.
type GameService struct {
	games GameStore
}

// NewGameService creates a GameService reading from games.
func NewGameService(games GameStore) *GameService {
	return &GameService{games: games}
}

// FindByID returns the game with id or [shared.ErrGameNotFound].
func (s *GameService) FindByID(ctx context.Context, id int64) (*models.Game, error) {
	return s.games.Get(ctx, id)
}

// FindAll returns a summary of every game.
func (s *GameService) FindAll(ctx context.Context) ([]models.GameSummary, error) {
	games, err := s.games.List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.GameSummary, 0, len(games))
	for _, g := range games {
		summaries = append(summaries, g.Summary())
	}
	return summaries, nil
}
