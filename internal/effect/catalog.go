package effect

import (
	"fmt"

	"github.com/udisondev/l5rgo/internal/game"
)

// Restriction forbids a kind of action ("target", "bow", "sendHome", ...)
// while its condition holds. A nil condition always holds.
type Restriction struct {
	Type      string
	Condition func(ctx *game.Context) bool
}

// Blocks reports whether the restriction forbids actionType in ctx.
func (r Restriction) Blocks(actionType string, ctx *game.Context) bool {
	if r.Type != actionType {
		return false
	}
	return r.Condition == nil || r.Condition(ctx)
}

// AbilityProps describe an ability granted by GainAbility.
type AbilityProps struct {
	Title string
	Limit *game.Limit
}

// CostReducerProps describe a cost reducer added by ReduceCost.
type CostReducerProps struct {
	Amount int
	Match  func(card *game.Card) bool
	Limit  *game.Limit
}

// Participation selects which conflict types a participation restriction
// covers.
type Participation string

const (
	ParticipationBoth      Participation = "both"
	ParticipationMilitary  Participation = "military"
	ParticipationPolitical Participation = "political"
)

// Card effects

func AddFaction(faction string) Descriptor {
	return cardEffects.Static(KindAddFaction, faction)
}

func AddGloryWhileDishonored() Descriptor {
	return cardEffects.Static(KindAddGloryWhileDishonored, true)
}

func AddKeyword(keyword string) Descriptor {
	return cardEffects.Static(KindAddKeyword, keyword)
}

func AddTrait(trait string) Descriptor {
	return cardEffects.Static(KindAddTrait, trait)
}

func Blank() Descriptor {
	return cardEffects.Static(KindBlank, true)
}

func CanBeSeenWhenFacedown() Descriptor {
	return cardEffects.Static(KindCanBeSeenWhenFacedown, true)
}

func CannotParticipateAsAttacker(t Participation) Descriptor {
	if t == "" {
		t = ParticipationBoth
	}
	return cardEffects.Static(KindCannotParticipateAsAttacker, t)
}

func CannotParticipateAsDefender(t Participation) Descriptor {
	if t == "" {
		t = ParticipationBoth
	}
	return cardEffects.Static(KindCannotParticipateAsDefender, t)
}

func CardCannot(r Restriction) Descriptor {
	return cardEffects.Static(KindAbilityRestrictions, r)
}

// CustomDetachedCard wraps arbitrary card callbacks.
func CustomDetachedCard(h Handlers) Descriptor {
	return cardEffects.Detached(KindCustomEffect, h)
}

// DelayedEffect registers props on the target card; the registration ends
// with the effect.
func DelayedEffectOn(props DelayedEffect) Descriptor {
	return cardEffects.Detached(KindDelayedEffect, delayedHandlers(props))
}

func DoesNotBow() Descriptor {
	return cardEffects.Static(KindDoesNotBow, true)
}

func DoesNotReady() Descriptor {
	return cardEffects.Static(KindDoesNotReady, true)
}

// GainAbility grants the target card an ability of abilityType. Abilities
// one source grants to the same card share a single limit.
func GainAbility(abilityType game.AbilityType, props AbilityProps) Descriptor {
	return cardEffects.Detached(KindGainAbility, Handlers{
		Apply: func(target game.Entity, ctx *Context) (Token, error) {
			card, err := asCard(target)
			if err != nil {
				return nil, err
			}
			ability := &game.Ability{Title: props.Title, Type: abilityType, Limit: props.Limit}
			if src := ctx.Source; src != nil && src.GrantedLimits != nil {
				if limit, ok := src.GrantedLimits[card.ID()]; ok {
					ability.Limit = limit
				} else {
					src.GrantedLimits[card.ID()] = ability.Limit
				}
			}
			card.GrantAbility(ability)
			return ability, nil
		},
		Unapply: func(target game.Entity, _ *Context, token Token) error {
			card, err := asCard(target)
			if err != nil {
				return err
			}
			card.RevokeAbility(token.(*game.Ability))
			return nil
		},
	})
}

// GainPlayAction gives the target card the play action built by newAction.
func GainPlayAction(newAction func(card *game.Card) *game.Ability) Descriptor {
	return cardEffects.Detached(KindGainPlayAction, Handlers{
		Apply: func(target game.Entity, _ *Context) (Token, error) {
			card, err := asCard(target)
			if err != nil {
				return nil, err
			}
			action := newAction(card)
			action.Type = game.AbilityPlayAction
			card.GrantAbility(action)
			return action, nil
		},
		Unapply: func(target game.Entity, _ *Context, token Token) error {
			card, err := asCard(target)
			if err != nil {
				return err
			}
			card.RevokeAbility(token.(*game.Ability))
			return nil
		},
	})
}

func Immunity(r Restriction) Descriptor {
	return cardEffects.Static(KindAbilityRestrictions, r)
}

func IncreaseLimitOnAbilities(amount int) Descriptor {
	return cardEffects.Static(KindIncreaseLimitOnAbilities, amount)
}

func ModifyBaseMilitarySkill(value any) Descriptor {
	return cardEffects.Flexible(KindModifyBaseMilitarySkill, value)
}

func ModifyBasePoliticalSkill(value any) Descriptor {
	return cardEffects.Flexible(KindModifyBasePoliticalSkill, value)
}

func ModifyBaseProvinceStrength(value any) Descriptor {
	return cardEffects.Flexible(KindModifyBaseProvinceStrength, value)
}

func ModifyBothSkills(value any) Descriptor {
	return cardEffects.Flexible(KindModifyBothSkills, value)
}

func ModifyDuelGlory(value int) Descriptor {
	return cardEffects.Static(KindModifyDuelGlory, value)
}

func ModifyDuelMilitarySkill(value int) Descriptor {
	return cardEffects.Static(KindModifyDuelMilitarySkill, value)
}

func ModifyDuelPoliticalSkill(value int) Descriptor {
	return cardEffects.Static(KindModifyDuelPoliticalSkill, value)
}

func ModifyGlory(value any) Descriptor {
	return cardEffects.Flexible(KindModifyGlory, value)
}

func ModifyMilitarySkill(value any) Descriptor {
	return cardEffects.Flexible(KindModifyMilitarySkill, value)
}

func ModifyMilitarySkillMultiplier(value any) Descriptor {
	return cardEffects.Flexible(KindModifyMilitarySkillMultiplier, value)
}

func ModifyPoliticalSkill(value any) Descriptor {
	return cardEffects.Flexible(KindModifyPoliticalSkill, value)
}

func ModifyPoliticalSkillMultiplier(value any) Descriptor {
	return cardEffects.Flexible(KindModifyPoliticalSkillMultiplier, value)
}

func ModifyProvinceStrength(value any) Descriptor {
	return cardEffects.Flexible(KindModifyProvinceStrength, value)
}

func ModifyProvinceStrengthMultiplier(value any) Descriptor {
	return cardEffects.Flexible(KindModifyProvinceStrengthMultiplier, value)
}

func SetBaseMilitarySkill(value int) Descriptor {
	return cardEffects.Static(KindSetBaseMilitarySkill, value)
}

func SetBasePoliticalSkill(value int) Descriptor {
	return cardEffects.Static(KindSetBasePoliticalSkill, value)
}

func SetBaseProvinceStrength(value int) Descriptor {
	return cardEffects.Static(KindSetBaseProvinceStrength, value)
}

// SetDash gives the card a dash in conflicts of type t, or in both when t
// is empty.
func SetDash(t game.ConflictType) Descriptor {
	return cardEffects.Static(KindSetDash, t)
}

func SetMilitarySkill(value int) Descriptor {
	return cardEffects.Static(KindSetMilitarySkill, value)
}

func SetPoliticalSkill(value int) Descriptor {
	return cardEffects.Static(KindSetPoliticalSkill, value)
}

func SetProvinceStrength(value int) Descriptor {
	return cardEffects.Static(KindSetProvinceStrength, value)
}

func TakeControl(player *game.Player) Descriptor {
	return cardEffects.Static(KindTakeControl, player)
}

// TerminalConditionOn registers props on the target card; the registration
// ends with the effect or when the condition is met.
func TerminalConditionOn(props TerminalCondition) Descriptor {
	return cardEffects.Detached(KindTerminalCondition, terminalHandlers(props))
}

// Ring effects

func AddElement(element string) Descriptor {
	return ringEffects.Static(KindAddElement, element)
}

func CannotDeclareRing(match func(player *game.Player) bool) Descriptor {
	return ringEffects.Static(KindCannotDeclare, match)
}

func ConsiderRingAsClaimed(match func(player *game.Player) bool) Descriptor {
	return ringEffects.Static(KindConsiderAsClaimed, match)
}

// Player effects

func AdditionalCharactersInConflict(amount any) Descriptor {
	return playerEffects.Flexible(KindAdditionalCharactersInConflict, amount)
}

// AdditionalConflict grants one extra conflict opportunity of type t. The
// opportunity is not taken back when the effect ends.
func AdditionalConflict(t game.ConflictType) Descriptor {
	return playerEffects.Detached(KindAdditionalConflict, Handlers{
		Apply: func(target game.Entity, _ *Context) (Token, error) {
			player, err := asPlayer(target)
			if err != nil {
				return nil, err
			}
			player.AddConflictOpportunity(t)
			return t, nil
		},
		Unapply: func(game.Entity, *Context, Token) error { return nil },
	})
}

func AlternateFatePool(match func(card *game.Card) bool) Descriptor {
	return playerEffects.Static(KindAlternateFatePool, match)
}

func CanPlayFromOwn(location game.Location) Descriptor {
	return playerEffects.Detached(KindCanPlayFromOwn, Handlers{
		Apply: func(target game.Entity, _ *Context) (Token, error) {
			player, err := asPlayer(target)
			if err != nil {
				return nil, err
			}
			return player.AddPlayableLocation("play", player, location), nil
		},
		Unapply: func(target game.Entity, _ *Context, token Token) error {
			player, err := asPlayer(target)
			if err != nil {
				return err
			}
			player.RemovePlayableLocation(token.(*game.PlayableLocation))
			return nil
		},
	})
}

func ChangePlayerGloryModifier(value int) Descriptor {
	return playerEffects.Static(KindGloryModifier, value)
}

func ChangePlayerSkillModifier(value any) Descriptor {
	return playerEffects.Flexible(KindConflictSkillModifier, value)
}

// CustomDetachedPlayer wraps arbitrary player callbacks.
func CustomDetachedPlayer(h Handlers) Descriptor {
	return playerEffects.Detached(KindCustomEffect, h)
}

func GainActionPhasePriority() Descriptor {
	return playerEffects.Detached(KindActionPhasePriority, Handlers{
		Apply: func(target game.Entity, _ *Context) (Token, error) {
			player, err := asPlayer(target)
			if err != nil {
				return nil, err
			}
			player.ActionPhasePriority = true
			return true, nil
		},
		Unapply: func(target game.Entity, _ *Context, _ Token) error {
			player, err := asPlayer(target)
			if err != nil {
				return err
			}
			player.ActionPhasePriority = false
			return nil
		},
	})
}

// IncreaseCost is ReduceCost with the amount negated.
func IncreaseCost(props CostReducerProps) Descriptor {
	props.Amount = -props.Amount
	return ReduceCost(props)
}

func PlayerCannot(r Restriction) Descriptor {
	return playerEffects.Static(KindAbilityRestrictions, r)
}

func ReduceCost(props CostReducerProps) Descriptor {
	return playerEffects.Detached(KindCostReducer, costReducerHandlers(props))
}

// ReduceNextPlayedCardCost reduces the cost of the next matching card only.
func ReduceNextPlayedCardCost(amount int, match func(card *game.Card) bool) Descriptor {
	return playerEffects.Detached(KindCostReducer, costReducerHandlers(CostReducerProps{
		Amount: amount,
		Match:  match,
		Limit:  game.FixedLimit(1),
	}))
}

func costReducerHandlers(props CostReducerProps) Handlers {
	return Handlers{
		Apply: func(target game.Entity, ctx *Context) (Token, error) {
			player, err := asPlayer(target)
			if err != nil {
				return nil, err
			}
			return player.AddCostReducer(ctx.Source, props.Amount, props.Match, props.Limit), nil
		},
		Unapply: func(target game.Entity, _ *Context, token Token) error {
			player, err := asPlayer(target)
			if err != nil {
				return err
			}
			player.RemoveCostReducer(token.(*game.CostReducer))
			return nil
		},
	}
}

func SetMaxConflicts(amount int) Descriptor {
	return playerEffects.Static(KindMaxConflicts, amount)
}

func ShowTopConflictCard() Descriptor {
	return playerEffects.Static(KindShowTopConflictCard, true)
}

// Conflict effects

func ContributeToConflict(card *game.Card) Descriptor {
	return conflictEffects.Static(KindContribute, card)
}

func ChangeConflictSkillFunction(fn func(card *game.Card) int) Descriptor {
	return conflictEffects.Static(KindSkillFunction, fn)
}

func ModifyConflictElementsToResolve(value int) Descriptor {
	return conflictEffects.Static(KindModifyConflictElementsToResolve, value)
}

func RestrictNumberOfDefenders(value int) Descriptor {
	return conflictEffects.Static(KindRestrictNumberOfDefenders, value)
}

func asCard(target game.Entity) (*game.Card, error) {
	card, ok := target.(*game.Card)
	if !ok {
		return nil, fmt.Errorf("%T is not a card: %w", target, ErrInvalidEffectTarget)
	}
	return card, nil
}

func asPlayer(target game.Entity) (*game.Player, error) {
	player, ok := target.(*game.Player)
	if !ok {
		return nil, fmt.Errorf("%T is not a player: %w", target, ErrInvalidEffectTarget)
	}
	return player, nil
}
