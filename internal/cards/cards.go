// Package cards holds card abilities written against the effect engine and
// the targeting resolver.
package cards

import (
	"github.com/udisondev/l5rgo/internal/game"
	"github.com/udisondev/l5rgo/internal/stat"
	"github.com/udisondev/l5rgo/internal/target"
)

// Reaction is an ability that may resolve after a conflict.
type Reaction interface {
	Title() string
	Card() *game.Card
	// Triggered reports whether the ability may resolve after c.
	Triggered(c *game.Conflict) bool
	// Resolve chooses targets and performs the ability. Nothing changes
	// when it fails.
	Resolve(g *game.Game, chooser target.Chooser) error
}

type factory func(card *game.Card, calc *stat.Calculator) Reaction

var reactions = map[string]factory{
	TimeForWarID: func(card *game.Card, calc *stat.Calculator) Reaction { return NewTimeForWar(card, calc) },
}

// New returns the reaction printed on card, looked up by its catalog ID.
// calc may be nil, in which case printed traits are used.
func New(card *game.Card, calc *stat.Calculator) (Reaction, bool) {
	f, ok := reactions[card.Data.ID]
	if !ok {
		return nil, false
	}
	return f(card, calc), true
}

// hasTrait reads effective traits through calc when there is one.
func hasTrait(calc *stat.Calculator, card *game.Card, trait string) bool {
	if calc == nil {
		return card.HasPrintedTrait(trait)
	}
	return calc.HasTrait(card, trait)
}
