package tasks

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/gamelists/internal/formatter"
	"github.com/desertthunder/gamelists/internal/models"
	"github.com/desertthunder/gamelists/internal/repositories"
	"github.com/desertthunder/gamelists/internal/services"
	"github.com/desertthunder/gamelists/internal/shared"
	tu "github.com/desertthunder/gamelists/internal/testing"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, shared.RunMigrations(db))
	return db
}

type fixture struct {
	db      *sql.DB
	games   *repositories.GameRepository
	lists   *repositories.GameListRepository
	service *services.GameListService
	engine  *ListEngine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := setupTestDB(t)
	games := repositories.NewGameRepository(db)
	lists := repositories.NewGameListRepository(db)
	service := services.NewGameListService(lists, games, repositories.NewBelongingRepository(db))

	return &fixture{
		db:      db,
		games:   games,
		lists:   lists,
		service: service,
		engine:  NewListEngine(games, lists, service),
	}
}

func drain(ch chan ProgressUpdate) []ProgressUpdate {
	var out []ProgressUpdate
	for {
		select {
		case u := <-ch:
			out = append(out, u)
		default:
			return out
		}
	}
}

const smallCatalog = `
[[games]]
id = 1
title = "Alpha"
year = 2001

[[games]]
id = 2
title = "Beta"
year = 2002

[[games]]
id = 3
title = "Gamma"
year = 2003

[[lists]]
id = 10
name = "Favorites"
games = [3, 1, 2]
`

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{SeedGames, "seed_games"},
		{SeedLists, "seed_lists"},
		{FetchLists, "fetch_lists"},
		{ExportList, "export_list"},
		{Phase(99), ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.phase.String())
	}
}

func TestCatalog(t *testing.T) {
	t.Run("default catalog", func(t *testing.T) {
		c, err := DefaultCatalog()
		require.NoError(t, err)
		assert.Len(t, c.Games, 10)
		require.Len(t, c.Lists, 2)
		assert.Equal(t, "Aventura e RPG", c.Lists[0].Name)
		assert.Equal(t, []int64{1, 2, 3, 4, 5}, c.Lists[0].Games)
		assert.Equal(t, []int64{6, 7, 8, 9, 10}, c.Lists[1].Games)
	})

	t.Run("parse", func(t *testing.T) {
		c, err := ParseCatalog([]byte(smallCatalog))
		require.NoError(t, err)
		assert.Len(t, c.Games, 3)
		assert.Equal(t, "Gamma", c.Games[2].Title)
		assert.Equal(t, []int64{3, 1, 2}, c.Lists[0].Games)
	})

	t.Run("load from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.toml")
		require.NoError(t, os.WriteFile(path, []byte(smallCatalog), 0644))

		c, err := LoadCatalog(path)
		require.NoError(t, err)
		assert.Equal(t, int64(10), c.Lists[0].ID)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.toml"))
		assert.Error(t, err)
	})

	invalid := []struct {
		name string
		data string
	}{
		{"malformed toml", "[[games]\nid = "},
		{"game without title", "[[games]]\nid = 1\n"},
		{"duplicate game", "[[games]]\nid = 1\ntitle = \"A\"\n[[games]]\nid = 1\ntitle = \"B\"\n"},
		{"unknown game", "[[games]]\nid = 1\ntitle = \"A\"\n[[lists]]\nid = 1\nname = \"L\"\ngames = [2]\n"},
		{"repeated member", "[[games]]\nid = 1\ntitle = \"A\"\n[[lists]]\nid = 1\nname = \"L\"\ngames = [1, 1]\n"},
		{"duplicate list", "[[lists]]\nid = 1\nname = \"L\"\n[[lists]]\nid = 1\nname = \"M\"\n"},
		{"list without name", "[[lists]]\nid = 1\n"},
	}

	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, shared.ErrInvalidInput), "got %v", err)
		})
	}
}

func TestSeed(t *testing.T) {
	ctx := context.Background()

	t.Run("writes games lists and order", func(t *testing.T) {
		f := newFixture(t)
		c, err := ParseCatalog([]byte(smallCatalog))
		require.NoError(t, err)

		progress := make(chan ProgressUpdate, 16)
		res, err := f.engine.Seed(ctx, progress, c)
		require.NoError(t, err)
		assert.Equal(t, &SeedResult{Games: 3, Lists: 1, Memberships: 3}, res)

		games, err := f.service.FindByList(ctx, 10)
		require.NoError(t, err)
		require.Len(t, games, 3)
		assert.Equal(t, []string{"Gamma", "Alpha", "Beta"}, []string{games[0].Title, games[1].Title, games[2].Title})

		updates := drain(progress)
		require.Len(t, updates, 4)
		assert.Equal(t, SeedGames, updates[0].Phase)
		assert.Equal(t, SeedLists, updates[3].Phase)
		assert.Contains(t, updates[3].Message, "Favorites (3 games)")
	})

	t.Run("is idempotent", func(t *testing.T) {
		f := newFixture(t)
		c, err := DefaultCatalog()
		require.NoError(t, err)

		_, err = f.engine.Seed(ctx, nil, c)
		require.NoError(t, err)
		require.NoError(t, f.service.Move(ctx, 1, 0, 4))

		_, err = f.engine.Seed(ctx, nil, c)
		require.NoError(t, err)

		records, err := repositories.NewBelongingRepository(f.db).LoadOrdered(ctx, 1)
		require.NoError(t, err)
		require.Len(t, records, 5)
		assert.Equal(t, int64(1), records[4].GameID, "reseeding keeps the moved order")

		all, err := f.games.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 10)
	})

	t.Run("requires storage", func(t *testing.T) {
		_, err := NewListEngine(nil, nil, nil).Seed(ctx, nil, &Catalog{})
		assert.Error(t, err)
	})

	t.Run("rejects invalid catalog", func(t *testing.T) {
		f := newFixture(t)
		c := &Catalog{Lists: []CatalogList{{ID: 1, Name: "L", Games: []int64{42}}}}

		_, err := f.engine.Seed(ctx, nil, c)
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	})

	t.Run("stops when canceled", func(t *testing.T) {
		f := newFixture(t)
		c, err := DefaultCatalog()
		require.NoError(t, err)

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		res, err := f.engine.Seed(cctx, nil, c)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, res.Games)
	})
}

func seeded(t *testing.T) *fixture {
	t.Helper()

	f := newFixture(t)
	c, err := DefaultCatalog()
	require.NoError(t, err)
	_, err = f.engine.Seed(context.Background(), nil, c)
	require.NoError(t, err)
	return f
}

func readManifest(t *testing.T, path string) formatter.Manifest {
	t.Helper()

	var m formatter.Manifest
	require.NoError(t, json.Unmarshal([]byte(tu.MustReadFile(t, path)), &m))
	return m
}

func TestBulkExport(t *testing.T) {
	ctx := context.Background()

	formats := []struct {
		format formatter.Format
		files  []string
	}{
		{formatter.FormatJSON, []string{"list_1.json", "list_2.json"}},
		{formatter.FormatCSV, []string{"list_1_games.csv", "list_1_metadata.json", "list_2_games.csv", "list_2_metadata.json"}},
		{formatter.FormatMarkdown, []string{"list_1/README.md", "list_2/README.md"}},
		{formatter.FormatText, []string{"list_1_games.txt", "list_2_games.txt"}},
	}

	for _, tt := range formats {
		t.Run(string(tt.format), func(t *testing.T) {
			f := seeded(t)
			dir := filepath.Join(t.TempDir(), "out")

			res, err := f.engine.BulkExport(ctx, nil, nil, BulkExportOpts{
				Format:     tt.format,
				OutputDir:  dir,
				NumWorkers: 2,
				RateLimit:  100,
			})
			require.NoError(t, err)

			assert.Equal(t, 2, res.TotalLists)
			assert.Equal(t, 2, res.SuccessfulExports)
			assert.Zero(t, res.FailedExports)
			assert.Equal(t, filepath.Join(dir, "export_manifest.json"), res.ManifestPath)

			for _, name := range tt.files {
				tu.AssertFileExists(t, filepath.Join(dir, name))
			}
			if tt.format == formatter.FormatMarkdown {
				tu.AssertDirExists(t, filepath.Join(dir, "list_1"))
			}

			m := readManifest(t, res.ManifestPath)
			assert.Equal(t, tt.format, m.Format)
			assert.Equal(t, 2, m.SuccessfulExports)
			assert.Len(t, m.Lists, 2)
		})
	}

	t.Run("json export keeps list order", func(t *testing.T) {
		f := seeded(t)
		require.NoError(t, f.service.Move(ctx, 1, 4, 0))
		dir := t.TempDir()

		_, err := f.engine.BulkExport(ctx, nil, []int64{1}, BulkExportOpts{OutputDir: dir, RateLimit: 100})
		require.NoError(t, err)

		var export models.ListExport
		require.NoError(t, json.Unmarshal([]byte(tu.MustReadFile(t, filepath.Join(dir, "list_1.json"))), &export))
		require.Len(t, export.Games, 5)
		assert.Equal(t, int64(5), export.Games[0].ID)
		assert.Equal(t, int64(1), export.Games[1].ID)
	})

	t.Run("missing list is recorded as failed", func(t *testing.T) {
		f := seeded(t)
		dir := t.TempDir()
		progress := make(chan ProgressUpdate, 16)

		res, err := f.engine.BulkExport(ctx, progress, []int64{1, 99}, BulkExportOpts{
			Format:    formatter.FormatText,
			OutputDir: dir,
			RateLimit: 100,
		})
		require.NoError(t, err)

		assert.Equal(t, 2, res.TotalLists)
		assert.Equal(t, 1, res.SuccessfulExports)
		assert.Equal(t, 1, res.FailedExports)

		var failed *ListExportResult
		for i := range res.Results {
			if !res.Results[i].Success {
				failed = &res.Results[i]
			}
		}
		require.NotNil(t, failed)
		assert.Equal(t, int64(99), failed.ListID)
		assert.ErrorIs(t, failed.Error, shared.ErrListNotFound)

		m := readManifest(t, res.ManifestPath)
		statuses := map[int64]string{}
		for _, entry := range m.Lists {
			statuses[entry.ListID] = entry.Status
		}
		assert.Equal(t, formatter.StatusSuccess, statuses[1])
		assert.Equal(t, formatter.StatusFailed, statuses[99])

		updates := drain(progress)
		assert.NotEmpty(t, updates)
		for _, u := range updates {
			assert.Equal(t, ExportList, u.Phase)
		}
	})

	t.Run("requires exporter", func(t *testing.T) {
		_, err := NewListEngine(nil, nil, nil).BulkExport(ctx, nil, nil, BulkExportOpts{OutputDir: t.TempDir()})
		assert.Error(t, err)
	})

	t.Run("canceled context", func(t *testing.T) {
		f := seeded(t)
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := f.engine.BulkExport(cctx, nil, []int64{1, 2}, BulkExportOpts{OutputDir: t.TempDir(), RateLimit: 100})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestBulkExportManifest(t *testing.T) {
	res := &BulkExportResult{
		TotalLists:        2,
		SuccessfulExports: 1,
		FailedExports:     1,
		OutputDirectory:   "out",
		Results: []ListExportResult{
			{ListID: 1, ListName: "A", Success: true, Files: []string{"out/list_1.json"}},
			{ListID: 2, ListName: "B", Error: errors.New("boom")},
		},
	}

	m := res.Manifest(formatter.FormatJSON)
	require.Len(t, m.Lists, 2)
	assert.Equal(t, formatter.StatusSuccess, m.Lists[0].Status)
	assert.Equal(t, []string{"out/list_1.json"}, m.Lists[0].Files)
	assert.Equal(t, formatter.StatusFailed, m.Lists[1].Status)
	assert.Equal(t, "boom", m.Lists[1].Error)
	assert.False(t, m.CreatedAt.IsZero())
}
