package cards

import (
	"fmt"
	"log/slog"

	"github.com/udisondev/l5rgo/internal/game"
	"github.com/udisondev/l5rgo/internal/stat"
	"github.com/udisondev/l5rgo/internal/target"
)

const TimeForWarID = "time-for-war"

// TimeForWar: after its controller loses a political conflict, put a
// weapon costing less than 4 from hand or the conflict discard pile into
// play attached to one of their bushi.
type TimeForWar struct {
	card     *game.Card
	resolver *target.Resolver
}

func NewTimeForWar(card *game.Card, calc *stat.Calculator) *TimeForWar {
	r, err := target.NewResolver(
		target.Slot{
			Name:       "weapon",
			Class:      game.ClassCard,
			CardType:   game.CardTypeAttachment,
			Locations:  []game.Location{game.LocationConflictDiscardPile, game.LocationHand},
			Controller: target.ControllerSelf,
			Condition: func(e game.Entity, _ *game.Context) bool {
				c := e.(*game.Card)
				return c.CostLessThan(4) && hasTrait(calc, c, "weapon")
			},
		},
		target.Slot{
			Name:       "bushi",
			Class:      game.ClassCard,
			CardType:   game.CardTypeCharacter,
			Controller: target.ControllerSelf,
			DependsOn:  "weapon",
			Condition: func(e game.Entity, _ *game.Context) bool {
				return hasTrait(calc, e.(*game.Card), "bushi")
			},
		},
	)
	if err != nil {
		panic(err)
	}
	return &TimeForWar{card: card, resolver: r}
}

func (a *TimeForWar) Title() string    { return "Put a weapon into play" }
func (a *TimeForWar) Card() *game.Card { return a.card }

func (a *TimeForWar) Triggered(c *game.Conflict) bool {
	return c != nil && c.Loser != nil && c.Loser == a.card.Controller && c.Type == game.ConflictPolitical
}

// HasLegalTargets reports whether a weapon and a bushi to carry it exist.
func (a *TimeForWar) HasLegalTargets(g *game.Game) bool {
	return a.resolver.HasLegalTargets(g, game.NewContext(g, a.card))
}

func (a *TimeForWar) Resolve(g *game.Game, chooser target.Chooser) error {
	ctx := game.NewContext(g, a.card)
	if err := a.resolver.Resolve(g, ctx, chooser); err != nil {
		return fmt.Errorf("%s: %w", a.card.Name(), err)
	}
	weapon, bushi := ctx.TargetCard("weapon"), ctx.TargetCard("bushi")
	if err := g.Attach(weapon, bushi); err != nil {
		return fmt.Errorf("%s: %w", a.card.Name(), err)
	}
	g.AddMessage("{0} plays {1} to attach {2} to {3}", ctx.Player, a.card, weapon, bushi)
	slog.Debug("time for war resolved", "weapon", weapon.String(), "bushi", bushi.String())
	return nil
}
