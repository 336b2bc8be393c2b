package stat

import (
	"slices"

	"github.com/udisondev/l5rgo/internal/effect"
	"github.com/udisondev/l5rgo/internal/game"
)

// RingElements returns the ring's own element followed by every added one.
func RingElements(ring *game.Ring, applied effect.AppliedList) []string {
	out := []string{ring.Element}
	for _, v := range applied.Values(effect.KindAddElement) {
		if el, ok := v.(string); ok && !slices.Contains(out, el) {
			out = append(out, el)
		}
	}
	return out
}

// RingClaimedBy reports whether player counts as having claimed ring,
// either for real or through considerRingAsClaimed.
func RingClaimedBy(ring *game.Ring, applied effect.AppliedList, player *game.Player) bool {
	if ring.Claimed && ring.ClaimedBy == player {
		return true
	}
	for _, v := range applied.Values(effect.KindConsiderAsClaimed) {
		if match, ok := v.(func(*game.Player) bool); ok && match(player) {
			return true
		}
	}
	return false
}

// CanDeclareRing reports whether player may declare a conflict on ring.
func CanDeclareRing(applied effect.AppliedList, player *game.Player) bool {
	for _, v := range applied.Values(effect.KindCannotDeclare) {
		if match, ok := v.(func(*game.Player) bool); !ok || match == nil || match(player) {
			return false
		}
	}
	return true
}

// MaxConflicts returns the most recent setMaxConflicts value for a player.
// ok is false when no such effect applies.
func MaxConflicts(applied effect.AppliedList) (n int, ok bool) {
	return applied.MostRecentInt(effect.KindMaxConflicts)
}

// ConflictOpportunities returns how many conflicts of type t the player
// has left, capped by MaxConflicts across both types.
func ConflictOpportunities(player *game.Player, applied effect.AppliedList, t game.ConflictType) int {
	n := player.ConflictOpportunities[t]
	if limit, ok := MaxConflicts(applied); ok {
		n = min(n, limit)
	}
	return max(n, 0)
}

// AdditionalCharacters is the number of extra characters the player may
// bring into a conflict.
func AdditionalCharacters(applied effect.AppliedList) int {
	return applied.Sum(effect.KindAdditionalCharactersInConflict)
}

// PlayerGloryModifier sums the glory modifiers on a player.
func PlayerGloryModifier(applied effect.AppliedList) int {
	return applied.Sum(effect.KindGloryModifier)
}

// PlayerSkillModifier sums the conflict skill modifiers on a player.
func PlayerSkillModifier(applied effect.AppliedList) int {
	return applied.Sum(effect.KindConflictSkillModifier)
}

// ElementsToResolve is how many ring elements the conflict winner resolves.
func ElementsToResolve(applied effect.AppliedList) int {
	return 1 + applied.Sum(effect.KindModifyConflictElementsToResolve)
}

// MaxDefenders returns the lowest defender limit applied to a conflict.
// ok is false when defenders are unrestricted.
func MaxDefenders(applied effect.AppliedList) (n int, ok bool) {
	for _, v := range applied.Values(effect.KindRestrictNumberOfDefenders) {
		limit := effect.Int(v)
		if !ok || limit < n {
			n, ok = limit, true
		}
	}
	return n, ok
}
