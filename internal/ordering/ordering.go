package ordering

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/desertthunder/gamelists/internal/models"
	"github.com/desertthunder/gamelists/internal/shared"
)

// Plan is the outcome of a move: the complete new order and the minimal position updates that realize it.
type Plan struct {
	Order   []int64                 // game IDs in their new display order
	Updates []models.PositionUpdate // ascending by position; covers [min(s,d), max(s,d)]
}

// Compute moves the game at source to destination within order.
//
// The element at source is removed and re-inserted at destination, shifting the games in between by one.
// Updates holds exactly |destination-source|+1 entries, one per index in the affected range, so a move of
// an element onto itself yields a single update carrying its unchanged position.
//
// Either index outside [0, len(order)) fails with [shared.ErrIndexOutOfRange] and no plan.
// order is not modified.
func Compute(order []int64, source, destination int) (*Plan, error) {
	n := len(order)
	if source < 0 || source >= n {
		return nil, fmt.Errorf("%w: source index %d, list size %d", shared.ErrIndexOutOfRange, source, n)
	}
	if destination < 0 || destination >= n {
		return nil, fmt.Errorf("%w: destination index %d, list size %d", shared.ErrIndexOutOfRange, destination, n)
	}

	moved := order[source]
	next := make([]int64, 0, n)
	next = append(next, order[:source]...)
	next = append(next, order[source+1:]...)
	next = slices.Insert(next, destination, moved)

	lo, hi := min(source, destination), max(source, destination)
	updates := make([]models.PositionUpdate, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		updates = append(updates, models.PositionUpdate{GameID: next[i], Position: i})
	}

	return &Plan{Order: next, Updates: updates}, nil
}

// GameIDs projects records, already sorted by position, onto the ID sequence [Compute] expects.
func GameIDs(records []models.Belonging) []int64 {
	ids := make([]int64, len(records))
	for i, r := range records {
		ids[i] = r.GameID
	}
	return ids
}

// Validate reports the first ordering defect in records: a game listed twice, a position used twice,
// or a position missing from 0..n-1. Records may be in any order.
func Validate(records []models.Belonging) error {
	games := make(map[int64]struct{}, len(records))
	positions := make(map[int]int64, len(records))

	for _, r := range records {
		if _, ok := games[r.GameID]; ok {
			return fmt.Errorf("%w: game %d", shared.ErrDuplicateMember, r.GameID)
		}
		games[r.GameID] = struct{}{}

		if other, ok := positions[r.Position]; ok {
			return fmt.Errorf("%w: position %d held by games %d and %d", shared.ErrDuplicatePosition, r.Position, other, r.GameID)
		}
		positions[r.Position] = r.GameID
	}

	for i := range len(records) {
		if _, ok := positions[i]; !ok {
			return fmt.Errorf("%w: position %d missing from list of %d", shared.ErrPositionGap, i, len(records))
		}
	}
	return nil
}

// Densify returns the updates that pack records into positions 0..n-1 while keeping their relative order.
//
// Records sharing a position keep their input order. Records already at their target position are omitted,
// so a dense list yields no updates.
func Densify(records []models.Belonging) []models.PositionUpdate {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b models.Belonging) int {
		return cmp.Compare(a.Position, b.Position)
	})

	var updates []models.PositionUpdate
	for i, r := range sorted {
		if r.Position != i {
			updates = append(updates, models.PositionUpdate{GameID: r.GameID, Position: i})
		}
	}
	return updates
}
