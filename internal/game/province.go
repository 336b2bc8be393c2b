package game

import (
	"errors"
	"fmt"
)

// ErrNotProvince is returned when breaking a card that is not a province.
var ErrNotProvince = errors.New("card is not a province")

// IsConflictProvince reports whether province is being attacked right now.
func (g *Game) IsConflictProvince(province *Card) bool {
	return g.conflict != nil && g.conflict.Province == province
}

// BreakProvince breaks province. Breaking a stronghold province wins the
// game for the opponent; breaking any other province offers the opponent to
// discard the dynasty card sitting in it.
func (g *Game) BreakProvince(province *Card) error {
	if province.Province == nil {
		return fmt.Errorf("breaking %s: %w", province, ErrNotProvince)
	}
	province.Province.Broken = true

	opponent := province.Controller.Opponent
	if opponent == nil {
		return nil
	}
	g.AddMessage("{0} has broken {1}!", opponent, province)

	if province.Location == LocationStrongholdProvince {
		g.RecordWinner(opponent, "conquest")
		return nil
	}

	dynastyCard := g.DynastyCardInProvince(province.Controller, province.Location)
	if dynastyCard == nil {
		return nil
	}
	var shown any = dynastyCard
	title := "Do you wish to discard " + dynastyCard.Name() + "?"
	if dynastyCard.Facedown {
		shown = "the facedown card"
		title = "Do you wish to discard the facedown card?"
	}
	g.PromptWithHandlerMenu(opponent, HandlerMenu{
		ActivePromptTitle: title,
		Source:            "Break " + province.Name(),
		Choices:           []string{"Yes", "No"},
		Handlers: []func(){
			func() {
				g.AddMessage("{0} chooses to discard {1}", opponent, shown)
				g.MoveCard(dynastyCard, LocationDynastyDiscardPile)
			},
			func() {
				g.AddMessage("{0} chooses not to discard {1}", opponent, shown)
			},
		},
	})
	return nil
}
