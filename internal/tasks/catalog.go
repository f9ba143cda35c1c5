package tasks

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/desertthunder/gamelists/internal/models"
	"github.com/desertthunder/gamelists/internal/shared"
)

//go:embed catalog.toml
var defaultCatalog []byte

// Catalog is a seedable set of games and the lists that order them.
type Catalog struct {
	Games []models.Game `toml:"games"`
	Lists []CatalogList `toml:"lists"`
}

// CatalogList is a list and its game IDs in display order.
type CatalogList struct {
	ID    int64   `toml:"id"`
	Name  string  `toml:"name"`
	Games []int64 `toml:"games"`
}

// DefaultCatalog returns the embedded demo catalog.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

// LoadCatalog reads and validates the TOML catalog at path.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a TOML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: failed to parse catalog: %v", shared.ErrInvalidInput, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks every game and list, and that lists reference known games at most once each.
func (c *Catalog) Validate() error {
	games := make(map[int64]struct{}, len(c.Games))
	for i := range c.Games {
		g := &c.Games[i]
		if err := g.Validate(); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
		}
		if _, dup := games[g.ID]; dup {
			return fmt.Errorf("%w: game %d defined twice", shared.ErrInvalidInput, g.ID)
		}
		games[g.ID] = struct{}{}
	}

	lists := make(map[int64]struct{}, len(c.Lists))
	for _, l := range c.Lists {
		list := models.GameList{ID: l.ID, Name: l.Name}
		if err := list.Validate(); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
		}
		if _, dup := lists[l.ID]; dup {
			return fmt.Errorf("%w: list %d defined twice", shared.ErrInvalidInput, l.ID)
		}
		lists[l.ID] = struct{}{}

		members := make(map[int64]struct{}, len(l.Games))
		for _, id := range l.Games {
			if _, ok := games[id]; !ok {
				return fmt.Errorf("%w: list %d references unknown game %d", shared.ErrInvalidInput, l.ID, id)
			}
			if _, dup := members[id]; dup {
				return fmt.Errorf("%w: list %d contains game %d twice", shared.ErrInvalidInput, l.ID, id)
			}
			members[id] = struct{}{}
		}
	}
	return nil
}
