package models

import (
	"context"
	"fmt"
	"strings"
)

// Model defines the base interface for all persistent models.
// Implementations include Game, GameList and Belonging.
type Model interface {
	Validate() error // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(ctx context.Context, model T) error   // Create inserts a new model into the database
	Get(ctx context.Context, id int64) (T, error) // Get retrieves a model by its ID
	List(ctx context.Context) ([]T, error)        // List retrieves all models ordered by ID
}

// OrderedListStore reads and writes the positions of one list's belongings.
//
// LoadOrdered returns the belongings sorted by position ascending and fails with shared.ErrListNotFound
// when the list has none. ApplyPositions commits every update or none of them.
type OrderedListStore interface {
	LoadOrdered(ctx context.Context, listID int64) ([]Belonging, error)
	ApplyPositions(ctx context.Context, listID int64, updates []PositionUpdate) error
}

// AtomicListStore is an [OrderedListStore] that can run a read-then-write sequence on one list
// without another writer interleaving. fn receives a store bound to that unit of work.
type AtomicListStore interface {
	OrderedListStore
	Atomically(ctx context.Context, listID int64, fn func(OrderedListStore) error) error
}

// Game is a catalog entry.
type Game struct {
	ID               int64   `json:"id" toml:"id"`
	Title            string  `json:"title" toml:"title"`
	Year             int     `json:"year" toml:"year"`
	Genre            string  `json:"genre" toml:"genre"`
	Platforms        string  `json:"platforms" toml:"platforms"`
	Score            float64 `json:"score" toml:"score"`
	ImgURL           string  `json:"imgUrl" toml:"img_url"`
	ShortDescription string  `json:"shortDescription" toml:"short_description"`
	LongDescription  string  `json:"longDescription" toml:"long_description"`
}

// Validate checks that the game has a positive ID and a title.
func (g *Game) Validate() error {
	if g.ID <= 0 {
		return fmt.Errorf("game id must be positive, got %d", g.ID)
	}
	if strings.TrimSpace(g.Title) == "" {
		return fmt.Errorf("game %d: title is required", g.ID)
	}
	if g.Score < 0 {
		return fmt.Errorf("game %d: score must not be negative", g.ID)
	}
	return nil
}

// Summary projects the game onto the fields shown in list views.
func (g *Game) Summary() GameSummary {
	return GameSummary{
		ID:               g.ID,
		Title:            g.Title,
		Year:             g.Year,
		ImgURL:           g.ImgURL,
		ShortDescription: g.ShortDescription,
	}
}

// GameSummary is the read projection of a [Game].
type GameSummary struct {
	ID               int64  `json:"id"`
	Title            string `json:"title"`
	Year             int    `json:"year"`
	ImgURL           string `json:"imgUrl"`
	ShortDescription string `json:"shortDescription"`
}

// GameList is a named, ordered collection of games.
type GameList struct {
	ID   int64  `json:"id" toml:"id"`
	Name string `json:"name" toml:"name"`
}

// Validate checks that the list has a positive ID and a name.
func (l *GameList) Validate() error {
	if l.ID <= 0 {
		return fmt.Errorf("list id must be positive, got %d", l.ID)
	}
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("list %d: name is required", l.ID)
	}
	return nil
}

// Belonging records that a game belongs to a list at a position.
//
// The (ListID, GameID) pair is unique, and within a list positions form the dense range 0..n-1.
type Belonging struct {
	ListID   int64 `json:"listId"`
	GameID   int64 `json:"gameId"`
	Position int   `json:"position"`
}

// Validate rejects non-positive IDs and negative positions.
func (b *Belonging) Validate() error {
	if b.ListID <= 0 {
		return fmt.Errorf("belonging list id must be positive, got %d", b.ListID)
	}
	if b.GameID <= 0 {
		return fmt.Errorf("belonging game id must be positive, got %d", b.GameID)
	}
	if b.Position < 0 {
		return fmt.Errorf("belonging position must not be negative, got %d", b.Position)
	}
	return nil
}

// PositionUpdate assigns a new position to a game within a list.
type PositionUpdate struct {
	GameID   int64 `json:"gameId"`
	Position int   `json:"position"`
}

// ListExport is a list with its games in display order.
type ListExport struct {
	List  GameList      `json:"list"`
	Games []GameSummary `json:"games"`
}
