package testing

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/desertthunder/gamelists/internal/models"
	"github.com/desertthunder/gamelists/internal/shared"
)

// MemoryListStore is an in-memory [models.AtomicListStore].
//
// Each list has its own mutex, so units of work on one list serialize while different lists proceed in parallel.
// Writes are staged on a copy of the list and swapped in on success.
type MemoryListStore struct {
	mu        sync.Mutex
	lists     map[int64][]models.Belonging
	locks     map[int64]*sync.Mutex
	failAfter int
	failErr   error
	committed int
	batches   [][]models.PositionUpdate
}

// NewMemoryListStore creates an empty store.
func NewMemoryListStore() *MemoryListStore {
	return &MemoryListStore{
		lists:     make(map[int64][]models.Belonging),
		locks:     make(map[int64]*sync.Mutex),
		failAfter: -1,
	}
}

// Seed replaces listID with games at positions 0..len(games)-1.
func (m *MemoryListStore) Seed(listID int64, games ...int64) {
	records := make([]models.Belonging, len(games))
	for i, id := range games {
		records[i] = models.Belonging{ListID: listID, GameID: id, Position: i}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists[listID] = records
}

// Put stores records for listID as given, dense or not.
func (m *MemoryListStore) Put(listID int64, records ...models.Belonging) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists[listID] = slices.Clone(records)
}

// FailApplyAfter makes every later ApplyPositions call fail with err once n updates of the batch have been staged.
func (m *MemoryListStore) FailApplyAfter(n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAfter, m.failErr = n, err
}

// Snapshot returns a copy of listID's records in position order.
func (m *MemoryListStore) Snapshot(listID int64) []models.Belonging {
	m.mu.Lock()
	defer m.mu.Unlock()
	return sortedCopy(m.lists[listID])
}

// Committed returns the total number of position updates committed.
func (m *MemoryListStore) Committed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.committed
}

// Batches returns every committed update batch in commit order.
func (m *MemoryListStore) Batches() [][]models.PositionUpdate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.batches)
}

func (m *MemoryListStore) LoadOrdered(ctx context.Context, listID int64) ([]models.Belonging, error) {
	var records []models.Belonging
	err := m.Atomically(ctx, listID, func(s models.OrderedListStore) error {
		var err error
		records, err = s.LoadOrdered(ctx, listID)
		return err
	})
	return records, err
}

func (m *MemoryListStore) ApplyPositions(ctx context.Context, listID int64, updates []models.PositionUpdate) error {
	return m.Atomically(ctx, listID, func(s models.OrderedListStore) error {
		return s.ApplyPositions(ctx, listID, updates)
	})
}

func (m *MemoryListStore) Atomically(ctx context.Context, listID int64, fn func(models.OrderedListStore) error) error {
	lock := m.lockFor(listID)
	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrTransactionFailed, err)
	}

	m.mu.Lock()
	tx := &memoryTx{
		listID:  listID,
		staged:  sortedCopy(m.lists[listID]),
		failAt:  m.failAfter,
		failErr: m.failErr,
	}
	m.mu.Unlock()

	if err := fn(tx); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if tx.dirty {
		m.lists[listID] = tx.staged
		for _, batch := range tx.batches {
			m.committed += len(batch)
			m.batches = append(m.batches, batch)
		}
	}
	return nil
}

func (m *MemoryListStore) lockFor(listID int64) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	lock, ok := m.locks[listID]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[listID] = lock
	}
	return lock
}

// memoryTx is the store handed to an Atomically callback.
type memoryTx struct {
	listID  int64
	staged  []models.Belonging
	batches [][]models.PositionUpdate
	dirty   bool
	failAt  int
	failErr error
}

func (tx *memoryTx) LoadOrdered(_ context.Context, listID int64) ([]models.Belonging, error) {
	if listID != tx.listID {
		return nil, fmt.Errorf("%w: list %d outside unit of work for list %d", shared.ErrTransactionFailed, listID, tx.listID)
	}
	if len(tx.staged) == 0 {
		return nil, fmt.Errorf("%w: %d", shared.ErrListNotFound, listID)
	}
	return sortedCopy(tx.staged), nil
}

func (tx *memoryTx) ApplyPositions(_ context.Context, listID int64, updates []models.PositionUpdate) error {
	if listID != tx.listID {
		return fmt.Errorf("%w: list %d outside unit of work for list %d", shared.ErrTransactionFailed, listID, tx.listID)
	}
	if len(updates) == 0 {
		return nil
	}

	next := slices.Clone(tx.staged)
	for i, u := range updates {
		if tx.failAt >= 0 && i == tx.failAt {
			return fmt.Errorf("%w: %v", shared.ErrTransactionFailed, tx.failErr)
		}

		idx := slices.IndexFunc(next, func(b models.Belonging) bool { return b.GameID == u.GameID })
		if idx < 0 {
			return fmt.Errorf("%w: game %d is not in list %d", shared.ErrTransactionFailed, u.GameID, listID)
		}
		next[idx].Position = u.Position
	}

	seen := make(map[int]struct{}, len(next))
	for _, b := range next {
		if _, ok := seen[b.Position]; ok {
			return fmt.Errorf("%w: position %d used twice in list %d", shared.ErrTransactionFailed, b.Position, listID)
		}
		seen[b.Position] = struct{}{}
	}

	tx.staged = sortedCopy(next)
	tx.batches = append(tx.batches, slices.Clone(updates))
	tx.dirty = true
	return nil
}

func (tx *memoryTx) Atomically(_ context.Context, _ int64, fn func(models.OrderedListStore) error) error {
	return fn(tx)
}

func sortedCopy(records []models.Belonging) []models.Belonging {
	out := slices.Clone(records)
	slices.SortFunc(out, func(a, b models.Belonging) int {
		return cmp.Compare(a.Position, b.Position)
	})
	return out
}
