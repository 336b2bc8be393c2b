package scenario

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/udisondev/l5rgo/internal/effect"
	"github.com/udisondev/l5rgo/internal/game"
)

// effectFactory builds the descriptor named in an activate step.
type effectFactory func(r *runner, value any) (effect.Descriptor, error)

var effects = map[string]effectFactory{
	"addFaction":                       stringArg(effect.AddFaction),
	"addKeyword":                       stringArg(effect.AddKeyword),
	"addTrait":                         stringArg(effect.AddTrait),
	"addElement":                       stringArg(effect.AddElement),
	"blank":                            noArg(effect.Blank),
	"doesNotBow":                       noArg(effect.DoesNotBow),
	"doesNotReady":                     noArg(effect.DoesNotReady),
	"gainActionPhasePriority":          noArg(effect.GainActionPhasePriority),
	"showTopConflictCard":              noArg(effect.ShowTopConflictCard),
	"modifyBaseMilitarySkill":          anyArg(effect.ModifyBaseMilitarySkill),
	"modifyBasePoliticalSkill":         anyArg(effect.ModifyBasePoliticalSkill),
	"modifyBaseProvinceStrength":       anyArg(effect.ModifyBaseProvinceStrength),
	"modifyBothSkills":                 anyArg(effect.ModifyBothSkills),
	"modifyGlory":                      anyArg(effect.ModifyGlory),
	"modifyMilitarySkill":              anyArg(effect.ModifyMilitarySkill),
	"modifyMilitarySkillMultiplier":    floatArg(effect.ModifyMilitarySkillMultiplier),
	"modifyPoliticalSkill":             anyArg(effect.ModifyPoliticalSkill),
	"modifyPoliticalSkillMultiplier":   floatArg(effect.ModifyPoliticalSkillMultiplier),
	"modifyProvinceStrength":           anyArg(effect.ModifyProvinceStrength),
	"modifyProvinceStrengthMultiplier": floatArg(effect.ModifyProvinceStrengthMultiplier),
	"additionalCharactersInConflict":   anyArg(effect.AdditionalCharactersInConflict),
	"changePlayerSkillModifier":        anyArg(effect.ChangePlayerSkillModifier),
	"setBaseMilitarySkill":             intArg(effect.SetBaseMilitarySkill),
	"setBasePoliticalSkill":            intArg(effect.SetBasePoliticalSkill),
	"setBaseProvinceStrength":          intArg(effect.SetBaseProvinceStrength),
	"setMilitarySkill":                 intArg(effect.SetMilitarySkill),
	"setPoliticalSkill":                intArg(effect.SetPoliticalSkill),
	"setProvinceStrength":              intArg(effect.SetProvinceStrength),
	"setMaxConflicts":                  intArg(effect.SetMaxConflicts),
	"changePlayerGloryModifier":        intArg(effect.ChangePlayerGloryModifier),
	"increaseLimitOnAbilities":         intArg(effect.IncreaseLimitOnAbilities),
	"modifyConflictElementsToResolve":  intArg(effect.ModifyConflictElementsToResolve),
	"restrictNumberOfDefenders":        intArg(effect.RestrictNumberOfDefenders),

	"setDash": func(_ *runner, v any) (effect.Descriptor, error) {
		s, _ := v.(string)
		return effect.SetDash(game.ConflictType(s)), nil
	},
	"takeControl": func(r *runner, v any) (effect.Descriptor, error) {
		s, _ := v.(string)
		p, err := r.player(s)
		if err != nil {
			return effect.Descriptor{}, err
		}
		return effect.TakeControl(p), nil
	},
	"additionalConflict": func(_ *runner, v any) (effect.Descriptor, error) {
		s, _ := v.(string)
		t := game.ConflictType(s)
		if t != game.ConflictMilitary && t != game.ConflictPolitical {
			return effect.Descriptor{}, fmt.Errorf("%w: conflict type %q", ErrInvalidScenario, s)
		}
		return effect.AdditionalConflict(t), nil
	},
	"reduceCost": func(_ *runner, v any) (effect.Descriptor, error) {
		return effect.ReduceCost(effect.CostReducerProps{Amount: effect.Int(v)}), nil
	},
	"increaseCost": func(_ *runner, v any) (effect.Descriptor, error) {
		return effect.IncreaseCost(effect.CostReducerProps{Amount: effect.Int(v)}), nil
	},
	"canPlayFromOwn": func(_ *runner, v any) (effect.Descriptor, error) {
		s, _ := v.(string)
		return effect.CanPlayFromOwn(game.Location(s)), nil
	},
}

// EffectNames lists the effects an activate step may name.
func EffectNames() []string {
	return slices.Sorted(maps.Keys(effects))
}

func buildEffect(r *runner, name string, value any) (effect.Descriptor, error) {
	f, ok := effects[name]
	if !ok {
		if _, err := effect.ParseKind(name); err == nil {
			return effect.Descriptor{}, fmt.Errorf("%w: effect %q cannot be scripted", ErrInvalidScenario, name)
		}
		return effect.Descriptor{}, fmt.Errorf("%w: unknown effect %q", ErrInvalidScenario, name)
	}
	return f(r, value)
}

func noArg(fn func() effect.Descriptor) effectFactory {
	return func(*runner, any) (effect.Descriptor, error) { return fn(), nil }
}

func anyArg(fn func(any) effect.Descriptor) effectFactory {
	return func(_ *runner, v any) (effect.Descriptor, error) {
		if v == nil {
			return effect.Descriptor{}, fmt.Errorf("%w: missing value", ErrInvalidScenario)
		}
		return fn(effect.Int(v)), nil
	}
}

func floatArg(fn func(any) effect.Descriptor) effectFactory {
	return func(_ *runner, v any) (effect.Descriptor, error) {
		if v == nil {
			return effect.Descriptor{}, fmt.Errorf("%w: missing value", ErrInvalidScenario)
		}
		return fn(effect.Float(v)), nil
	}
}

func intArg(fn func(int) effect.Descriptor) effectFactory {
	return func(_ *runner, v any) (effect.Descriptor, error) {
		if v == nil {
			return effect.Descriptor{}, fmt.Errorf("%w: missing value", ErrInvalidScenario)
		}
		return fn(effect.Int(v)), nil
	}
}

func stringArg(fn func(string) effect.Descriptor) effectFactory {
	return func(_ *runner, v any) (effect.Descriptor, error) {
		s, ok := v.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return effect.Descriptor{}, fmt.Errorf("%w: value must be a name", ErrInvalidScenario)
		}
		return fn(s), nil
	}
}
