package stat

import (
	"slices"

	"github.com/udisondev/l5rgo/internal/effect"
	"github.com/udisondev/l5rgo/internal/game"
)

// BaseProvinceStrength is the province strength before modifiers.
func BaseProvinceStrength(card *game.Card, applied effect.AppliedList) int {
	return provinceStrength.base(game.PrintedInt(card.Data.Strength), applied)
}

// ProvinceStrength is the effective strength of a province card. holders
// are the cards sitting in the province; each lends its strength bonus.
func ProvinceStrength(card *game.Card, applied effect.AppliedList, holders []*game.Card) int {
	bonus := 0
	for _, h := range holders {
		if h != card {
			bonus += h.ProvinceStrengthBonus()
		}
	}
	return provinceStrength.total(game.PrintedInt(card.Data.Strength), applied, bonus)
}

// HasDash reports whether the card has no skill in conflicts of type t,
// either printed as "-" or given by a setDash effect.
func HasDash(card *game.Card, applied effect.AppliedList, t game.ConflictType) bool {
	printed := card.Data.MilitarySkill
	if t == game.ConflictPolitical {
		printed = card.Data.PoliticalSkill
	}
	if printed == "-" {
		return true
	}
	for _, v := range applied.Values(effect.KindSetDash) {
		if dash, _ := v.(game.ConflictType); dash == "" || dash == t {
			return true
		}
	}
	return false
}

// MilitarySkill is the effective military skill. Attachments add their
// printed bonus; the result never drops below zero and a dash is zero.
func MilitarySkill(card *game.Card, applied effect.AppliedList) int {
	return skill(card, applied, game.ConflictMilitary)
}

// PoliticalSkill is MilitarySkill for political conflicts.
func PoliticalSkill(card *game.Card, applied effect.AppliedList) int {
	return skill(card, applied, game.ConflictPolitical)
}

// BaseMilitarySkill is the military skill before modifiers.
func BaseMilitarySkill(card *game.Card, applied effect.AppliedList) int {
	return militarySkill.base(game.PrintedInt(card.Data.MilitarySkill), applied)
}

// BasePoliticalSkill is the political skill before modifiers.
func BasePoliticalSkill(card *game.Card, applied effect.AppliedList) int {
	return politicalSkill.base(game.PrintedInt(card.Data.PoliticalSkill), applied)
}

func skill(card *game.Card, applied effect.AppliedList, t game.ConflictType) int {
	if HasDash(card, applied, t) {
		return 0
	}
	l, printed := militarySkill, card.Data.MilitarySkill
	if t == game.ConflictPolitical {
		l, printed = politicalSkill, card.Data.PoliticalSkill
	}
	bonus := 0
	for _, a := range card.Attachments {
		if t == game.ConflictPolitical {
			bonus += game.PrintedInt(a.Data.PoliticalSkill)
		} else {
			bonus += game.PrintedInt(a.Data.MilitarySkill)
		}
	}
	// Навык не бывает отрицательным
	return max(l.total(game.PrintedInt(printed), applied, bonus), 0)
}

// Glory is printed glory plus every glory modifier.
func Glory(card *game.Card, applied effect.AppliedList) int {
	return card.Data.Glory + applied.Sum(effect.KindModifyGlory)
}

// IsBlank reports whether the card has lost its printed text. Broken
// provinces count as blank.
func IsBlank(card *game.Card, applied effect.AppliedList) bool {
	if card.Province != nil && card.Province.Broken {
		return true
	}
	return applied.Any(effect.KindBlank)
}

// Traits returns the printed traits, unless blank, followed by every added
// trait. Duplicates are dropped.
func Traits(card *game.Card, applied effect.AppliedList) []string {
	var out []string
	if !IsBlank(card, applied) {
		out = append(out, card.Data.Traits...)
	}
	for _, v := range applied.Values(effect.KindAddTrait) {
		if trait, ok := v.(string); ok && !slices.Contains(out, trait) {
			out = append(out, trait)
		}
	}
	return out
}

// HasTrait reports whether trait is among the effective traits.
func HasTrait(card *game.Card, applied effect.AppliedList, trait string) bool {
	return slices.Contains(Traits(card, applied), trait)
}

// Factions returns the printed faction followed by every added faction.
func Factions(card *game.Card, applied effect.AppliedList) []string {
	out := []string{card.Data.Faction}
	for _, v := range applied.Values(effect.KindAddFaction) {
		if f, ok := v.(string); ok && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// Keywords returns every keyword added by effects.
func Keywords(applied effect.AppliedList) []string {
	var out []string
	for _, v := range applied.Values(effect.KindAddKeyword) {
		if k, ok := v.(string); ok {
			out = append(out, k)
		}
	}
	return out
}

// Controller is the player controlling the card: the most recent
// takeControl effect, else the printed controller.
func Controller(card *game.Card, applied effect.AppliedList) *game.Player {
	if v, ok := applied.MostRecent(effect.KindTakeControl); ok {
		if p, ok := v.(*game.Player); ok && p != nil {
			return p
		}
	}
	return card.Controller
}

// Restricted reports whether any applied restriction forbids actionType.
func Restricted(applied effect.AppliedList, actionType string, ctx *game.Context) bool {
	for _, v := range applied.Values(effect.KindAbilityRestrictions) {
		if r, ok := v.(effect.Restriction); ok && r.Blocks(actionType, ctx) {
			return true
		}
	}
	return false
}

// CanParticipate reports whether the card may join a conflict of type t
// as attacker or defender.
func CanParticipate(applied effect.AppliedList, t game.ConflictType, attacking bool) bool {
	kind := effect.KindCannotParticipateAsDefender
	if attacking {
		kind = effect.KindCannotParticipateAsAttacker
	}
	for _, v := range applied.Values(kind) {
		p, _ := v.(effect.Participation)
		if p == effect.ParticipationBoth || string(p) == string(t) {
			return false
		}
	}
	return true
}
