package effect

import (
	"errors"
	"fmt"
)

// ErrUnknownEffectKind is returned for an effect kind outside the known set.
var ErrUnknownEffectKind = errors.New("unknown effect kind")

// Kind tags what an effect does. The set is closed: every kind the engine
// can apply is listed here.
type Kind uint8

const (
	KindUnknown Kind = iota

	// Card effects
	KindAddFaction
	KindAddGloryWhileDishonored
	KindAddKeyword
	KindAddTrait
	KindBlank
	KindCanBeSeenWhenFacedown
	KindCannotParticipateAsAttacker
	KindCannotParticipateAsDefender
	KindAbilityRestrictions
	KindCustomEffect
	KindDelayedEffect
	KindDoesNotBow
	KindDoesNotReady
	KindGainAbility
	KindGainPlayAction
	KindIncreaseLimitOnAbilities
	KindModifyBaseMilitarySkill
	KindModifyBasePoliticalSkill
	KindModifyBaseProvinceStrength
	KindModifyBothSkills
	KindModifyDuelGlory
	KindModifyDuelMilitarySkill
	KindModifyDuelPoliticalSkill
	KindModifyGlory
	KindModifyMilitarySkill
	KindModifyMilitarySkillMultiplier
	KindModifyPoliticalSkill
	KindModifyPoliticalSkillMultiplier
	KindModifyProvinceStrength
	KindModifyProvinceStrengthMultiplier
	KindSetBaseMilitarySkill
	KindSetBasePoliticalSkill
	KindSetBaseProvinceStrength
	KindSetDash
	KindSetMilitarySkill
	KindSetPoliticalSkill
	KindSetProvinceStrength
	KindTakeControl
	KindTerminalCondition

	// Ring effects
	KindAddElement
	KindCannotDeclare
	KindConsiderAsClaimed

	// Player effects
	KindAdditionalCharactersInConflict
	KindAdditionalConflict
	KindAlternateFatePool
	KindCanPlayFromOwn
	KindGloryModifier
	KindConflictSkillModifier
	KindActionPhasePriority
	KindCostReducer
	KindMaxConflicts
	KindShowTopConflictCard

	// Conflict effects
	KindContribute
	KindSkillFunction
	KindModifyConflictElementsToResolve
	KindRestrictNumberOfDefenders

	// Registrations created by delayedEffect and terminalCondition.
	KindDelayedTrigger
	KindTerminalTrigger

	kindCount
)

var kindNames = [kindCount]string{
	KindUnknown:                          "unknown",
	KindAddFaction:                       "addFaction",
	KindAddGloryWhileDishonored:          "addGloryWhileDishonored",
	KindAddKeyword:                       "addKeyword",
	KindAddTrait:                         "addTrait",
	KindBlank:                            "blank",
	KindCanBeSeenWhenFacedown:            "canBeSeenWhenFacedown",
	KindCannotParticipateAsAttacker:      "cannotParticipateAsAttacker",
	KindCannotParticipateAsDefender:      "cannotParticipateAsDefender",
	KindAbilityRestrictions:              "abilityRestrictions",
	KindCustomEffect:                     "customEffect",
	KindDelayedEffect:                    "delayedEffect",
	KindDoesNotBow:                       "doesNotBow",
	KindDoesNotReady:                     "doesNotReady",
	KindGainAbility:                      "gainAbility",
	KindGainPlayAction:                   "gainPlayAction",
	KindIncreaseLimitOnAbilities:         "increaseLimitOnAbilities",
	KindModifyBaseMilitarySkill:          "modifyBaseMilitarySkill",
	KindModifyBasePoliticalSkill:         "modifyBasePoliticalSkill",
	KindModifyBaseProvinceStrength:       "modifyBaseProvinceStrength",
	KindModifyBothSkills:                 "modifyBothSkills",
	KindModifyDuelGlory:                  "modifyDuelGlory",
	KindModifyDuelMilitarySkill:          "modifyDuelMilitarySkill",
	KindModifyDuelPoliticalSkill:         "modifyDuelPoliticalSkill",
	KindModifyGlory:                      "modifyGlory",
	KindModifyMilitarySkill:              "modifyMilitarySkill",
	KindModifyMilitarySkillMultiplier:    "modifyMilitarySkillMultiplier",
	KindModifyPoliticalSkill:             "modifyPoliticalSkill",
	KindModifyPoliticalSkillMultiplier:   "modifyPoliticalSkillMultiplier",
	KindModifyProvinceStrength:           "modifyProvinceStrength",
	KindModifyProvinceStrengthMultiplier: "modifyProvinceStrengthMultiplier",
	KindSetBaseMilitarySkill:             "setBaseMilitarySkill",
	KindSetBasePoliticalSkill:            "setBasePoliticalSkill",
	KindSetBaseProvinceStrength:          "setBaseProvinceStrength",
	KindSetDash:                          "setDash",
	KindSetMilitarySkill:                 "setMilitarySkill",
	KindSetPoliticalSkill:                "setPoliticalSkill",
	KindSetProvinceStrength:              "setProvinceStrength",
	KindTakeControl:                      "takeControl",
	KindTerminalCondition:                "terminalCondition",
	KindAddElement:                       "addElement",
	KindCannotDeclare:                    "cannotDeclare",
	KindConsiderAsClaimed:                "considerAsClaimed",
	KindAdditionalCharactersInConflict:   "additionalCharactersInConflict",
	KindAdditionalConflict:               "additionalConflict",
	KindAlternateFatePool:                "alternateFatePool",
	KindCanPlayFromOwn:                   "canPlayFromOwn",
	KindGloryModifier:                    "gloryModifier",
	KindConflictSkillModifier:            "conflictSkillModifier",
	KindActionPhasePriority:              "actionPhasePriority",
	KindCostReducer:                      "costReducer",
	KindMaxConflicts:                     "maxConflicts",
	KindShowTopConflictCard:              "showTopConflictCard",
	KindContribute:                       "contribute",
	KindSkillFunction:                    "skillFunction",
	KindModifyConflictElementsToResolve:  "modifyConflictElementsToResolve",
	KindRestrictNumberOfDefenders:        "restrictNumberOfDefenders",
	KindDelayedTrigger:                   "delayedTrigger",
	KindTerminalTrigger:                  "terminalTrigger",
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, kindCount)
	for k := KindUnknown + 1; k < kindCount; k++ {
		m[kindNames[k]] = k
	}
	return m
}()

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k > KindUnknown && k < kindCount
}

// ParseKind resolves a kind from its name, e.g. "modifyProvinceStrength".
func ParseKind(name string) (Kind, error) {
	k, ok := kindByName[name]
	if !ok {
		return KindUnknown, fmt.Errorf("%q: %w", name, ErrUnknownEffectKind)
	}
	return k, nil
}
