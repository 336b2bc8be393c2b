package effect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/l5rgo/internal/game"
)

func TestGainActionPhasePriority(t *testing.T) {
	f := newFixture(t)
	inst := NewInstance(f.source, GainActionPhasePriority(), WithTargets(f.p1))
	require.NoError(t, f.e.Activate(inst, ScopeUntilEndOfPhase))
	require.NoError(t, f.e.Recalculate(f.g))
	assert.True(t, f.p1.ActionPhasePriority)
	assert.False(t, f.p2.ActionPhasePriority)

	require.NoError(t, f.e.EndScope(ScopeUntilEndOfPhase))
	assert.False(t, f.p1.ActionPhasePriority)
}

func TestReduceNextPlayedCardCost(t *testing.T) {
	f := newFixture(t)
	card := game.NewCard("k", game.CardData{Name: "Katana", Type: game.CardTypeAttachment, Cost: 3}, f.p1)
	f.activate(t, ReduceNextPlayedCardCost(2, nil), WithTargets(f.p1))
	require.NoError(t, f.e.Recalculate(f.g))

	reducers := f.p1.CostReducers()
	require.Len(t, reducers, 1)
	assert.Equal(t, 1, f.p1.ReducedCost(card))
	assert.Equal(t, 3, f.p2.ReducedCost(card))

	reducers[0].Limit.Used++
	assert.Equal(t, 3, f.p1.ReducedCost(card))
}

func TestIncreaseCost(t *testing.T) {
	f := newFixture(t)
	card := game.NewCard("k", game.CardData{Name: "Katana", Type: game.CardTypeAttachment, Cost: 1}, f.p1)
	inst := f.activate(t, IncreaseCost(CostReducerProps{Amount: 1}), WithTargets(f.p1))
	require.NoError(t, f.e.Recalculate(f.g))
	assert.Equal(t, 2, f.p1.ReducedCost(card))

	require.NoError(t, inst.Expire())
	assert.Empty(t, f.p1.CostReducers())
}

func TestCanPlayFromOwn(t *testing.T) {
	f := newFixture(t)
	inst := f.activate(t, CanPlayFromOwn(game.LocationConflictDiscardPile), WithTargets(f.p1))
	require.NoError(t, f.e.Recalculate(f.g))
	assert.True(t, f.p1.CanPlayFrom(game.LocationConflictDiscardPile))

	require.NoError(t, inst.Expire())
	assert.False(t, f.p1.CanPlayFrom(game.LocationConflictDiscardPile))
	assert.True(t, f.p1.CanPlayFrom(game.LocationHand))
}

func TestAdditionalConflict_NotTakenBack(t *testing.T) {
	f := newFixture(t)
	inst := f.activate(t, AdditionalConflict(game.ConflictMilitary), WithTargets(f.p1))
	require.NoError(t, f.e.Recalculate(f.g))
	assert.Equal(t, 2, f.p1.ConflictOpportunities[game.ConflictMilitary])

	require.NoError(t, inst.Expire())
	assert.Equal(t, 2, f.p1.ConflictOpportunities[game.ConflictMilitary])
}

func TestGainAbility_SharedLimitPerTarget(t *testing.T) {
	f := newFixture(t)
	target := f.g.AddCard(game.NewCard("c2", game.CardData{Name: "Kakita Yoshi", Type: game.CardTypeCharacter}, f.p2), game.LocationPlayArea)

	first := f.activate(t, GainAbility(game.AbilityAction, AbilityProps{Title: "Bow", Limit: game.FixedLimit(1)}), WithTargets(target))
	f.activate(t, GainAbility(game.AbilityAction, AbilityProps{Title: "Bow", Limit: game.FixedLimit(1)}), WithTargets(target))
	require.NoError(t, f.e.Recalculate(f.g))

	require.Len(t, target.Abilities.Actions, 2)
	assert.Same(t, target.Abilities.Actions[0].Limit, target.Abilities.Actions[1].Limit)
	assert.Same(t, target, target.Abilities.Actions[0].Card)

	require.NoError(t, first.Expire())
	assert.Len(t, target.Abilities.Actions, 1)
}

func TestGainAbility_WrongTarget(t *testing.T) {
	h := GainAbility(game.AbilityReaction, AbilityProps{}).Handlers()
	_, err := h.Apply(game.NewPlayer("p", "P"), &Context{})
	require.ErrorIs(t, err, ErrInvalidEffectTarget)
}

func TestGainPlayAction(t *testing.T) {
	f := newFixture(t)
	target := f.g.AddCard(game.NewCard("c2", game.CardData{Name: "Kakita Yoshi", Type: game.CardTypeCharacter}, f.p2), game.LocationPlayArea)
	inst := f.activate(t, GainPlayAction(func(card *game.Card) *game.Ability {
		return &game.Ability{Title: "Play " + card.Name()}
	}), WithTargets(target))
	require.NoError(t, f.e.Recalculate(f.g))

	require.Len(t, target.Abilities.PlayActions, 1)
	assert.Equal(t, "Play Kakita Yoshi", target.Abilities.PlayActions[0].Title)

	require.NoError(t, inst.Expire())
	assert.Empty(t, target.Abilities.PlayActions)
}

func TestRestriction_Blocks(t *testing.T) {
	ctx := &game.Context{}
	r := Restriction{Type: "target"}
	assert.True(t, r.Blocks("target", ctx))
	assert.False(t, r.Blocks("bow", ctx))

	r.Condition = func(c *game.Context) bool { return c.Source != nil }
	assert.False(t, r.Blocks("target", ctx))
}

func TestCannotParticipate_DefaultsToBoth(t *testing.T) {
	d := CannotParticipateAsAttacker("")
	assert.Equal(t, ParticipationBoth, d.Value(nil, nil))
	d = CannotParticipateAsDefender(ParticipationMilitary)
	assert.Equal(t, ParticipationMilitary, d.Value(nil, nil))
}
