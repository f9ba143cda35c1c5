package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/gamelists/internal/models"
)

// GameSaver persists catalog games.
type GameSaver interface {
	Save(ctx context.Context, game *models.Game) error
}

// ListSaver persists lists and appends games to them.
type ListSaver interface {
	Save(ctx context.Context, list *models.GameList) error
	AddGame(ctx context.Context, listID, gameID int64) (int, error)
}

// ListExporter reads lists for export.
type ListExporter interface {
	FindAll(ctx context.Context) ([]models.GameList, error)
	Export(ctx context.Context, listID int64) (*models.ListExport, error)
}

// SeedResult counts what a seed wrote.
type SeedResult struct {
	Games       int // games saved
	Lists       int // lists saved
	Memberships int // games placed in lists
}

// ListEngine runs long operations over game lists.
type ListEngine struct {
	games    GameSaver
	lists    ListSaver
	exporter ListExporter
}

// NewListEngine creates a new ListEngine. Dependencies an operation does not use may be nil.
func NewListEngine(games GameSaver, lists ListSaver, exporter ListExporter) *ListEngine {
	return &ListEngine{games: games, lists: lists, exporter: exporter}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *ListEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Seed saves every game and list in catalog and appends each list's games in catalog order.
//
// Games already in a list keep their position, so seeding twice does not duplicate or reorder members.
func (e *ListEngine) Seed(ctx context.Context, progress chan<- ProgressUpdate, catalog *Catalog) (*SeedResult, error) {
	if e.games == nil || e.lists == nil {
		return nil, fmt.Errorf("seed requires game and list storage")
	}
	if err := catalog.Validate(); err != nil {
		return nil, err
	}

	result := &SeedResult{}

	for i := range catalog.Games {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		g := &catalog.Games[i]
		if err := e.games.Save(ctx, g); err != nil {
			return result, fmt.Errorf("failed to seed game %d: %w", g.ID, err)
		}
		result.Games++
		e.sendProgress(progress, seedGameUpdate(i+1, len(catalog.Games), g))
	}

	for i, cl := range catalog.Lists {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		list := &models.GameList{ID: cl.ID, Name: cl.Name}
		if err := e.lists.Save(ctx, list); err != nil {
			return result, fmt.Errorf("failed to seed list %d: %w", cl.ID, err)
		}
		result.Lists++

		for _, gameID := range cl.Games {
			if _, err := e.lists.AddGame(ctx, cl.ID, gameID); err != nil {
				return result, fmt.Errorf("failed to add game %d to list %d: %w", gameID, cl.ID, err)
			}
			result.Memberships++
		}
		e.sendProgress(progress, seedListUpdate(i+1, len(catalog.Lists), list, len(cl.Games)))
	}

	return result, nil
}
