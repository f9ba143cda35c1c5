package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/gamelists/internal/models"
	"github.com/desertthunder/gamelists/internal/ordering"
	"github.com/desertthunder/gamelists/internal/shared"
)

// GameListService serves game lists and reorders their members.
type GameListService struct {
	lists ListStore
	games GameStore
	order models.AtomicListStore
}

// NewGameListService creates a GameListService.
func NewGameListService(lists ListStore, games GameStore, order models.AtomicListStore) *GameListService {
	return &GameListService{lists: lists, games: games, order: order}
}

// Move moves the game at source to destination within listID.
//
// Only the positions between source and destination (inclusive) are rewritten, and they are rewritten together
// or not at all. Fails with [shared.ErrListNotFound] when the list is absent or empty and with
// [shared.ErrIndexOutOfRange] when either index is outside the list; neither case writes anything.
func (s *GameListService) Move(ctx context.Context, listID int64, source, destination int) error {
	return s.order.Atomically(ctx, listID, func(store models.OrderedListStore) error {
		records, err := store.LoadOrdered(ctx, listID)
		if err != nil {
			return err
		}

		plan, err := ordering.Compute(ordering.GameIDs(records), source, destination)
		if err != nil {
			return err
		}

		return store.ApplyPositions(ctx, listID, plan.Updates)
	})
}

// FindAll returns every list.
func (s *GameListService) FindAll(ctx context.Context) ([]models.GameList, error) {
	lists, err := s.lists.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.GameList, 0, len(lists))
	for _, l := range lists {
		out = append(out, *l)
	}
	return out, nil
}

// FindByID returns the list with id or [shared.ErrListNotFound].
func (s *GameListService) FindByID(ctx context.Context, id int64) (*models.GameList, error) {
	return s.lists.Get(ctx, id)
}

// FindByList returns the games of listID ordered by position.
// A list without members yields an empty slice; an absent list fails with [shared.ErrListNotFound].
func (s *GameListService) FindByList(ctx context.Context, listID int64) ([]models.GameSummary, error) {
	if _, err := s.lists.Get(ctx, listID); err != nil {
		return nil, err
	}
	return s.games.SearchByList(ctx, listID)
}

// Export returns listID with its games in display order.
func (s *GameListService) Export(ctx context.Context, listID int64) (*models.ListExport, error) {
	list, err := s.lists.Get(ctx, listID)
	if err != nil {
		return nil, err
	}

	games, err := s.games.SearchByList(ctx, listID)
	if err != nil {
		return nil, err
	}
	return &models.ListExport{List: *list, Games: games}, nil
}

// Check reports the first ordering defect in listID, if any.
func (s *GameListService) Check(ctx context.Context, listID int64) error {
	records, err := s.order.LoadOrdered(ctx, listID)
	if err != nil {
		return err
	}
	return ordering.Validate(records)
}

// CheckAll runs [GameListService.Check] on every list that has members and returns the defects by list ID.
func (s *GameListService) CheckAll(ctx context.Context) (map[int64]error, error) {
	lists, err := s.lists.List(ctx)
	if err != nil {
		return nil, err
	}

	defects := make(map[int64]error)
	for _, l := range lists {
		err := s.Check(ctx, l.ID)
		switch {
		case err == nil, errors.Is(err, shared.ErrListNotFound):
		case shared.IsIntegrityError(err):
			defects[l.ID] = err
		default:
			return nil, fmt.Errorf("failed to check list %d: %w", l.ID, err)
		}
	}
	return defects, nil
}

// Repair packs listID's positions back into 0..n-1, keeping the current display order,
// and returns the number of positions rewritten.
func (s *GameListService) Repair(ctx context.Context, listID int64) (int, error) {
	var n int
	err := s.order.Atomically(ctx, listID, func(store models.OrderedListStore) error {
		records, err := store.LoadOrdered(ctx, listID)
		if err != nil {
			return err
		}

		updates := ordering.Densify(records)
		n = len(updates)
		return store.ApplyPositions(ctx, listID, updates)
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}
