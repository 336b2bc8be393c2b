// Package data loads the printed card catalog.
package data

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/l5rgo/internal/game"
)

var (
	// ErrUnknownCard is returned when looking up an ID not in the catalog.
	ErrUnknownCard = errors.New("unknown card")
	// ErrInvalidCard is returned for a catalog entry that cannot be used.
	ErrInvalidCard = errors.New("invalid card data")
)

//go:embed cards.yaml
var defaultCards []byte

type catalogFile struct {
	Cards []game.CardData `yaml:"cards"`
}

// Catalog is an immutable set of printed cards keyed by ID.
type Catalog struct {
	cards map[string]game.CardData
}

// DefaultCatalog returns the catalog shipped with the binary.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCards)
}

// LoadCatalog reads a catalog file. An empty path loads the default
// catalog.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading card catalog %s: %w", path, err)
	}
	c, err := ParseCatalog(raw)
	if err != nil {
		return nil, fmt.Errorf("card catalog %s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog decodes a YAML catalog and validates every entry.
func ParseCatalog(raw []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing card catalog: %w", err)
	}

	c := &Catalog{cards: make(map[string]game.CardData, len(f.Cards))}
	for i, card := range f.Cards {
		switch {
		case card.ID == "":
			return nil, fmt.Errorf("entry %d has no id: %w", i, ErrInvalidCard)
		case !card.Type.Valid():
			return nil, fmt.Errorf("%s: type %q: %w", card.ID, card.Type, ErrInvalidCard)
		}
		if _, dup := c.cards[card.ID]; dup {
			return nil, fmt.Errorf("%s: duplicate id: %w", card.ID, ErrInvalidCard)
		}
		if card.Name == "" {
			card.Name = card.ID
		}
		c.cards[card.ID] = card
	}

	slog.Debug("loaded card catalog", "count", len(c.cards))
	return c, nil
}

// Get returns the printed data of card id.
func (c *Catalog) Get(id string) (game.CardData, error) {
	card, ok := c.cards[id]
	if !ok {
		return game.CardData{}, fmt.Errorf("%q: %w", id, ErrUnknownCard)
	}
	return card, nil
}

// Len returns the number of cards in the catalog.
func (c *Catalog) Len() int { return len(c.cards) }

// IDs returns every card ID in sorted order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.cards))
	for id := range c.cards {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
