// Package game holds the entity model the rules core operates on: cards,
// players, rings and the conflict in progress, plus an in-memory Game that
// plays the game-state collaborator role.
package game

import "fmt"

// EntityClass identifies which kind of entity an effect or a target slot
// works with.
type EntityClass uint8

const (
	ClassUnknown EntityClass = iota
	ClassCard
	ClassRing
	ClassPlayer
	ClassConflict
)

var classNames = [...]string{
	ClassUnknown:  "unknown",
	ClassCard:     "card",
	ClassRing:     "ring",
	ClassPlayer:   "player",
	ClassConflict: "conflict",
}

func (c EntityClass) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return fmt.Sprintf("EntityClass(%d)", uint8(c))
}

// Valid reports whether c is one of the four classes effects can target.
func (c EntityClass) Valid() bool {
	return c >= ClassCard && c <= ClassConflict
}

// ParseEntityClass converts a class name ("card", "ring", ...) to EntityClass.
func ParseEntityClass(s string) (EntityClass, error) {
	for i, name := range classNames {
		if i > 0 && name == s {
			return EntityClass(i), nil
		}
	}
	return ClassUnknown, fmt.Errorf("unknown entity class %q", s)
}

// Entity is anything effects can be applied to.
type Entity interface {
	ID() string
	Class() EntityClass
}

// Named is implemented by entities that have a display name for messages.
type Named interface {
	Name() string
}

// Location is where a card currently sits.
type Location string

const (
	LocationHand                Location = "hand"
	LocationPlayArea            Location = "play area"
	LocationConflictDeck        Location = "conflict deck"
	LocationDynastyDeck         Location = "dynasty deck"
	LocationConflictDiscardPile Location = "conflict discard pile"
	LocationDynastyDiscardPile  Location = "dynasty discard pile"
	LocationProvince1           Location = "province 1"
	LocationProvince2           Location = "province 2"
	LocationProvince3           Location = "province 3"
	LocationProvince4           Location = "province 4"
	LocationStrongholdProvince  Location = "stronghold province"
	LocationRemovedFromGame     Location = "removed from game"
)

// IsProvince reports whether l is one of the province rows, stronghold included.
func (l Location) IsProvince() bool {
	switch l {
	case LocationProvince1, LocationProvince2, LocationProvince3, LocationProvince4, LocationStrongholdProvince:
		return true
	}
	return false
}

// InPlay reports whether a card at l is on the board, where lasting effects
// can reach it.
func (l Location) InPlay() bool {
	return l == LocationPlayArea || l.IsProvince()
}

// CardType is the printed type of a card.
type CardType string

const (
	CardTypeCharacter  CardType = "character"
	CardTypeAttachment CardType = "attachment"
	CardTypeHolding    CardType = "holding"
	CardTypeEvent      CardType = "event"
	CardTypeProvince   CardType = "province"
	CardTypeStronghold CardType = "stronghold"
)

// Valid reports whether t is a known card type.
func (t CardType) Valid() bool {
	switch t {
	case CardTypeCharacter, CardTypeAttachment, CardTypeHolding, CardTypeEvent, CardTypeProvince, CardTypeStronghold:
		return true
	}
	return false
}

// ConflictType is military or political.
type ConflictType string

const (
	ConflictMilitary  ConflictType = "military"
	ConflictPolitical ConflictType = "political"
)
