package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/gamelists/internal/models"
	"github.com/desertthunder/gamelists/internal/shared"
)

// BelongingRepository is the SQLite [models.AtomicListStore].
//
// Databases opened by [shared.NewDatabase] take the write lock at BEGIN, so the read and the writes
// of one [BelongingRepository.Atomically] call never interleave with another writer.
type BelongingRepository struct {
	db *sql.DB // nil when bound to a transaction
	q  querier
}

// NewBelongingRepository creates a new BelongingRepository with the given database connection
func NewBelongingRepository(db *sql.DB) *BelongingRepository {
	return &BelongingRepository{db: db, q: db}
}

// LoadOrdered returns the belongings of listID sorted by position ascending.
//
// An absent list and a list without members both fail with [shared.ErrListNotFound].
func (r *BelongingRepository) LoadOrdered(ctx context.Context, listID int64) ([]models.Belonging, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT list_id, game_id, position FROM belongings WHERE list_id = ? ORDER BY position ASC, game_id ASC`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query belongings: %w", err)
	}
	defer rows.Close()

	var records []models.Belonging
	for rows.Next() {
		var b models.Belonging
		if err := rows.Scan(&b.ListID, &b.GameID, &b.Position); err != nil {
			return nil, fmt.Errorf("failed to scan belonging: %w", err)
		}
		records = append(records, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %d", shared.ErrListNotFound, listID)
	}
	return records, nil
}

// ApplyPositions writes every update for listID in one transaction.
//
// Rows are first parked at -(position+1) and then flipped back in a single statement,
// so the unique (list_id, position) index never sees two rows share a position mid-write.
// An update naming a game outside the list aborts the whole batch.
// Any failure is reported as [shared.ErrTransactionFailed] and leaves the list untouched.
func (r *BelongingRepository) ApplyPositions(ctx context.Context, listID int64, updates []models.PositionUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	if r.db != nil {
		return r.Atomically(ctx, listID, func(s models.OrderedListStore) error {
			return s.ApplyPositions(ctx, listID, updates)
		})
	}

	for _, u := range updates {
		if u.Position < 0 {
			return fmt.Errorf("%w: negative position %d for game %d", shared.ErrTransactionFailed, u.Position, u.GameID)
		}

		result, err := r.q.ExecContext(ctx,
			`UPDATE belongings SET position = ? WHERE list_id = ? AND game_id = ?`,
			-(u.Position + 1), listID, u.GameID,
		)
		if err != nil {
			return fmt.Errorf("%w: failed to update position of game %d: %v", shared.ErrTransactionFailed, u.GameID, err)
		}

		rows, err := affected(result)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrTransactionFailed, err)
		}
		if rows == 0 {
			return fmt.Errorf("%w: game %d is not in list %d", shared.ErrTransactionFailed, u.GameID, listID)
		}
	}

	if _, err := r.q.ExecContext(ctx,
		`UPDATE belongings SET position = -position - 1 WHERE list_id = ? AND position < 0`, listID,
	); err != nil {
		return fmt.Errorf("%w: failed to settle positions: %v", shared.ErrTransactionFailed, err)
	}
	return nil
}

// Atomically runs fn against a store bound to a single transaction and commits when fn returns nil.
//
// Errors returned by fn are passed through unchanged after rolling back.
// Failing to begin or commit the transaction is reported as [shared.ErrTransactionFailed].
// Called on a store that is already bound to a transaction, fn joins that transaction.
func (r *BelongingRepository) Atomically(ctx context.Context, listID int64, fn func(models.OrderedListStore) error) error {
	if r.db == nil {
		return fn(r)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction for list %d: %v", shared.ErrTransactionFailed, listID, err)
	}
	defer tx.Rollback()

	if err := fn(&BelongingRepository{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit list %d: %v", shared.ErrTransactionFailed, listID, err)
	}
	return nil
}
