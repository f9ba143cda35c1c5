package ordering

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/gamelists/internal/models"
	"github.com/desertthunder/gamelists/internal/shared"
)

// A..E
var fiveGames = []int64{1, 2, 3, 4, 5}

func TestCompute(t *testing.T) {
	t.Run("forward move touches only the range", func(t *testing.T) {
		plan, err := Compute(fiveGames, 0, 2)
		require.NoError(t, err)

		assert.Equal(t, []int64{2, 3, 1, 4, 5}, plan.Order)
		assert.Equal(t, []models.PositionUpdate{
			{GameID: 2, Position: 0},
			{GameID: 3, Position: 1},
			{GameID: 1, Position: 2},
		}, plan.Updates)
	})

	t.Run("last to first rewrites every position", func(t *testing.T) {
		plan, err := Compute(fiveGames, 4, 0)
		require.NoError(t, err)

		assert.Equal(t, []int64{5, 1, 2, 3, 4}, plan.Order)
		assert.Equal(t, []models.PositionUpdate{
			{GameID: 5, Position: 0},
			{GameID: 1, Position: 1},
			{GameID: 2, Position: 2},
			{GameID: 3, Position: 3},
			{GameID: 4, Position: 4},
		}, plan.Updates)
	})

	t.Run("same index is a single unchanged write", func(t *testing.T) {
		plan, err := Compute(fiveGames, 3, 3)
		require.NoError(t, err)

		assert.Equal(t, fiveGames, plan.Order)
		assert.Equal(t, []models.PositionUpdate{{GameID: 4, Position: 3}}, plan.Updates)
	})

	t.Run("single element list", func(t *testing.T) {
		plan, err := Compute([]int64{42}, 0, 0)
		require.NoError(t, err)

		assert.Equal(t, []int64{42}, plan.Order)
		assert.Equal(t, []models.PositionUpdate{{GameID: 42, Position: 0}}, plan.Updates)
	})

	t.Run("adjacent backward move", func(t *testing.T) {
		plan, err := Compute(fiveGames, 2, 1)
		require.NoError(t, err)

		assert.Equal(t, []int64{1, 3, 2, 4, 5}, plan.Order)
		assert.Len(t, plan.Updates, 2)
	})

	t.Run("input is not mutated", func(t *testing.T) {
		order := slices.Clone(fiveGames)
		_, err := Compute(order, 1, 4)
		require.NoError(t, err)
		assert.Equal(t, fiveGames, order)
	})
}

func TestComputeOutOfRange(t *testing.T) {
	tests := []struct {
		name        string
		order       []int64
		source      int
		destination int
	}{
		{name: "source past end", order: fiveGames, source: 5, destination: 0},
		{name: "destination past end", order: fiveGames, source: 0, destination: 5},
		{name: "negative source", order: fiveGames, source: -1, destination: 0},
		{name: "negative destination", order: fiveGames, source: 0, destination: -1},
		{name: "empty order", order: nil, source: 0, destination: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Compute(tt.order, tt.source, tt.destination)
			require.ErrorIs(t, err, shared.ErrIndexOutOfRange)
			assert.Nil(t, plan)
		})
	}
}

func TestComputeProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for range 500 {
		n := rng.IntN(12) + 1
		order := make([]int64, n)
		for i := range order {
			order[i] = int64(100 + i)
		}
		s, d := rng.IntN(n), rng.IntN(n)

		plan, err := Compute(order, s, d)
		require.NoError(t, err)

		require.Equal(t, order[s], plan.Order[d], "moved game lands at destination")

		rest := slices.DeleteFunc(slices.Clone(plan.Order), func(id int64) bool { return id == order[s] })
		expected := slices.DeleteFunc(slices.Clone(order), func(id int64) bool { return id == order[s] })
		require.Equal(t, expected, rest, "other games keep their relative order")

		require.Len(t, plan.Updates, abs(d-s)+1)

		applied := slices.Clone(order)
		for _, u := range plan.Updates {
			applied[u.Position] = u.GameID
		}
		require.Equal(t, plan.Order, applied, "updates realize the new order")
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func TestGameIDs(t *testing.T) {
	records := []models.Belonging{
		{ListID: 1, GameID: 9, Position: 0},
		{ListID: 1, GameID: 4, Position: 1},
	}
	assert.Equal(t, []int64{9, 4}, GameIDs(records))
	assert.Empty(t, GameIDs(nil))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		records []models.Belonging
		wantErr error
	}{
		{
			name:    "dense",
			records: []models.Belonging{{GameID: 1, Position: 1}, {GameID: 2, Position: 0}},
		},
		{
			name: "empty",
		},
		{
			name:    "gap",
			records: []models.Belonging{{GameID: 1, Position: 0}, {GameID: 2, Position: 2}},
			wantErr: shared.ErrPositionGap,
		},
		{
			name:    "starts at one",
			records: []models.Belonging{{GameID: 1, Position: 1}},
			wantErr: shared.ErrPositionGap,
		},
		{
			name:    "duplicate position",
			records: []models.Belonging{{GameID: 1, Position: 0}, {GameID: 2, Position: 0}},
			wantErr: shared.ErrDuplicatePosition,
		},
		{
			name:    "duplicate member",
			records: []models.Belonging{{GameID: 1, Position: 0}, {GameID: 1, Position: 1}},
			wantErr: shared.ErrDuplicateMember,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.records)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDensify(t *testing.T) {
	t.Run("dense list needs nothing", func(t *testing.T) {
		records := []models.Belonging{{GameID: 1, Position: 0}, {GameID: 2, Position: 1}}
		assert.Empty(t, Densify(records))
	})

	t.Run("closes gaps in order", func(t *testing.T) {
		records := []models.Belonging{
			{GameID: 3, Position: 7},
			{GameID: 1, Position: 0},
			{GameID: 2, Position: 3},
		}
		assert.Equal(t, []models.PositionUpdate{
			{GameID: 2, Position: 1},
			{GameID: 3, Position: 2},
		}, Densify(records))
	})

	t.Run("duplicates keep input order", func(t *testing.T) {
		records := []models.Belonging{
			{GameID: 5, Position: 0},
			{GameID: 6, Position: 0},
		}
		assert.Equal(t, []models.PositionUpdate{{GameID: 6, Position: 1}}, Densify(records))
	})

	t.Run("result validates", func(t *testing.T) {
		records := []models.Belonging{
			{GameID: 1, Position: 4},
			{GameID: 2, Position: 9},
			{GameID: 3, Position: 2},
		}
		updates := Densify(records)

		byGame := make(map[int64]int)
		for _, u := range updates {
			byGame[u.GameID] = u.Position
		}
		for i := range records {
			if p, ok := byGame[records[i].GameID]; ok {
				records[i].Position = p
			}
		}
		assert.NoError(t, Validate(records))
	})
}
