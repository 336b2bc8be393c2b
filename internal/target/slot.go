// Package target resolves the target slots of an ability. Independent slots
// are chosen first; a slot that depends on another is only offered once its
// dependency has a value, and its condition may read that value from the
// context. Resolution is all-or-nothing.
package target

import (
	"slices"

	"github.com/udisondev/l5rgo/internal/game"
)

// ControllerFilter restricts a slot to entities controlled by a side.
type ControllerFilter uint8

const (
	ControllerAny ControllerFilter = iota
	ControllerSelf
	ControllerOpponent
)

func (c ControllerFilter) String() string {
	switch c {
	case ControllerSelf:
		return "self"
	case ControllerOpponent:
		return "opponent"
	}
	return "any"
}

// Slot is one named choice an ability needs.
type Slot struct {
	Name  string
	Class game.EntityClass
	// CardType narrows card slots; empty means any type.
	CardType game.CardType
	// Locations narrows card slots. Empty means cards in play.
	Locations  []game.Location
	Controller ControllerFilter
	// Condition sees the context with every target chosen so far,
	// including the DependsOn slot.
	Condition func(e game.Entity, ctx *game.Context) bool
	DependsOn string
	Optional  bool
}

// accepts applies the slot filters to e.
func (s Slot) accepts(e game.Entity, ctx *game.Context) bool {
	if e.Class() != s.Class {
		return false
	}
	switch v := e.(type) {
	case *game.Card:
		if s.CardType != "" && v.Type() != s.CardType {
			return false
		}
		if len(s.Locations) == 0 {
			if !v.InPlay() {
				return false
			}
		} else if !slices.Contains(s.Locations, v.Location) {
			return false
		}
		if !s.controlledBy(v.Controller, ctx) {
			return false
		}
	case *game.Player:
		if !s.controlledBy(v, ctx) {
			return false
		}
	}
	return s.Condition == nil || s.Condition(e, ctx)
}

func (s Slot) controlledBy(p *game.Player, ctx *game.Context) bool {
	switch s.Controller {
	case ControllerSelf:
		return ctx.Player != nil && p == ctx.Player
	case ControllerOpponent:
		return ctx.Player != nil && p != nil && p == ctx.Player.Opponent
	}
	return true
}
