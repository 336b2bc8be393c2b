package stat

import (
	"github.com/udisondev/l5rgo/internal/effect"
	"github.com/udisondev/l5rgo/internal/game"
)

// Calculator reads derived stats for the entities of one game. It only
// reads the applied effects; call Engine.Recalculate to bring them up to
// date.
type Calculator struct {
	engine *effect.Engine
	game   *game.Game
}

// NewCalculator binds a calculator to a game and its engine.
func NewCalculator(e *effect.Engine, g *game.Game) *Calculator {
	return &Calculator{engine: e, game: g}
}

func (c *Calculator) ProvinceStrength(card *game.Card) int {
	return ProvinceStrength(card, c.engine.Applied(card), c.game.CardsIn(card.Controller, card.Location))
}

func (c *Calculator) BaseProvinceStrength(card *game.Card) int {
	return BaseProvinceStrength(card, c.engine.Applied(card))
}

func (c *Calculator) MilitarySkill(card *game.Card) int {
	return MilitarySkill(card, c.engine.Applied(card))
}

func (c *Calculator) PoliticalSkill(card *game.Card) int {
	return PoliticalSkill(card, c.engine.Applied(card))
}

func (c *Calculator) Glory(card *game.Card) int {
	return Glory(card, c.engine.Applied(card))
}

func (c *Calculator) Traits(card *game.Card) []string {
	return Traits(card, c.engine.Applied(card))
}

func (c *Calculator) HasTrait(card *game.Card, trait string) bool {
	return HasTrait(card, c.engine.Applied(card), trait)
}

func (c *Calculator) IsBlank(card *game.Card) bool {
	return IsBlank(card, c.engine.Applied(card))
}

func (c *Calculator) Controller(card *game.Card) *game.Player {
	return Controller(card, c.engine.Applied(card))
}

func (c *Calculator) RingElements(ring *game.Ring) []string {
	return RingElements(ring, c.engine.Applied(ring))
}

func (c *Calculator) ConflictOpportunities(player *game.Player, t game.ConflictType) int {
	return ConflictOpportunities(player, c.engine.Applied(player), t)
}

// Stat reads a numeric stat by name, as used by scripted scenarios.
// ok is false for an unknown name.
func (c *Calculator) Stat(name string, card *game.Card) (v int, ok bool) {
	switch name {
	case "strength", "province_strength":
		return c.ProvinceStrength(card), true
	case "base_strength", "base_province_strength":
		return c.BaseProvinceStrength(card), true
	case "military":
		return c.MilitarySkill(card), true
	case "political":
		return c.PoliticalSkill(card), true
	case "glory":
		return c.Glory(card), true
	}
	return 0, false
}
