// Package stat derives effective card, ring and player properties from the
// effects currently applied to them. Nothing here is stored or cached and
// nothing triggers a recalculation: every getter folds the applied list it
// is given.
package stat

import (
	"math"

	"github.com/udisondev/l5rgo/internal/effect"
)

// layers names the effect kinds that feed one numeric stat.
type layers struct {
	set        effect.Kind
	setBase    effect.Kind
	modifyBase effect.Kind
	modify     []effect.Kind
	multiplier effect.Kind
}

var (
	provinceStrength = layers{
		set:        effect.KindSetProvinceStrength,
		setBase:    effect.KindSetBaseProvinceStrength,
		modifyBase: effect.KindModifyBaseProvinceStrength,
		modify:     []effect.Kind{effect.KindModifyProvinceStrength},
		multiplier: effect.KindModifyProvinceStrengthMultiplier,
	}
	militarySkill = layers{
		set:        effect.KindSetMilitarySkill,
		setBase:    effect.KindSetBaseMilitarySkill,
		modifyBase: effect.KindModifyBaseMilitarySkill,
		modify:     []effect.Kind{effect.KindModifyMilitarySkill, effect.KindModifyBothSkills},
		multiplier: effect.KindModifyMilitarySkillMultiplier,
	}
	politicalSkill = layers{
		set:        effect.KindSetPoliticalSkill,
		setBase:    effect.KindSetBasePoliticalSkill,
		modifyBase: effect.KindModifyBasePoliticalSkill,
		modify:     []effect.Kind{effect.KindModifyPoliticalSkill, effect.KindModifyBothSkills},
		multiplier: effect.KindModifyPoliticalSkillMultiplier,
	}
)

// base returns the most recent set-base override, or printed plus every
// base modifier.
func (l layers) base(printed int, applied effect.AppliedList) int {
	if v, ok := applied.MostRecentInt(l.setBase); ok {
		return v
	}
	return printed + applied.Sum(l.modifyBase)
}

// total folds the stat: a set override wins outright, otherwise base plus
// modifiers plus bonus, multiplied left to right. With a multiplier present
// the product is computed in float and truncated toward zero.
func (l layers) total(printed int, applied effect.AppliedList, bonus int) int {
	if v, ok := applied.MostRecentInt(l.set); ok {
		return v
	}
	sum := l.base(printed, applied) + bonus
	for _, k := range l.modify {
		sum += applied.Sum(k)
	}

	multipliers := applied.Multipliers(l.multiplier)
	if len(multipliers) == 0 {
		return sum
	}
	// Множители слева направо, в float
	product := float64(sum)
	for _, m := range multipliers {
		product *= m
	}
	return int(math.Trunc(product))
}
