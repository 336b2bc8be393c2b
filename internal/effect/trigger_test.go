package effect

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/l5rgo/internal/game"
)

func TestDelayedEffect_FiresOnce(t *testing.T) {
	f := newFixture(t)
	fired := 0
	f.activate(t, DelayedEffectOn(DelayedEffect{
		When:    func(event any) bool { return event == "conflict-ended" },
		Message: "{0} delays {1}",
		Action: func(target game.Entity, _ *Context) error {
			fired++
			assert.Equal(t, f.province.ID(), target.ID())
			return nil
		},
	}), WithTargets(f.province))
	require.NoError(t, f.e.Recalculate(f.g))
	require.Len(t, f.e.DelayedEffects(), 1)

	require.NoError(t, f.e.FireDelayed(f.g, "round-ended"))
	assert.Equal(t, 0, fired)

	require.NoError(t, f.e.FireDelayed(f.g, "conflict-ended"))
	require.NoError(t, f.e.FireDelayed(f.g, "conflict-ended"))
	assert.Equal(t, 1, fired)
	assert.Empty(t, f.e.DelayedEffects())

	msgs := f.g.Messages()
	require.NotEmpty(t, msgs)
	assert.Equal(t, "Doji Whisperer delays Shameful Display", msgs[len(msgs)-1].Text)
}

func TestDelayedEffect_RemovedWithOuterEffect(t *testing.T) {
	f := newFixture(t)
	outer := f.activate(t, DelayedEffectOn(DelayedEffect{}), WithTargets(f.province))
	require.NoError(t, f.e.Recalculate(f.g))
	require.Len(t, f.e.DelayedEffects(), 1)

	require.NoError(t, outer.Expire())
	assert.Empty(t, f.e.DelayedEffects())
	assert.Equal(t, 0, f.e.Len())
}

func TestDelayedEffect_ActionError(t *testing.T) {
	f := newFixture(t)
	errBoom := errors.New("boom")
	f.activate(t, DelayedEffectOn(DelayedEffect{
		Action: func(game.Entity, *Context) error { return errBoom },
	}), WithTargets(f.province))
	require.NoError(t, f.e.Recalculate(f.g))

	require.ErrorIs(t, f.e.FireDelayed(f.g, nil), errBoom)
}

func TestTerminalCondition_ActsAfterPass(t *testing.T) {
	f := newFixture(t)
	met := false
	acted := 0
	f.activate(t, TerminalConditionOn(TerminalCondition{
		Condition: func(game.State) bool { return met },
		Message:   "{1} is no longer affected by {0}",
		Action: func(game.Entity, *Context) error {
			acted++
			return nil
		},
	}), WithTargets(f.province))

	require.NoError(t, f.e.Recalculate(f.g))
	require.NoError(t, f.e.Recalculate(f.g))
	assert.Equal(t, 0, acted)
	assert.Equal(t, 2, f.e.Len())

	met = true
	require.NoError(t, f.e.Recalculate(f.g))
	assert.Equal(t, 1, acted)
	assert.Equal(t, 1, f.e.Len(), "the registration ends, the outer effect stays")

	require.NoError(t, f.e.Recalculate(f.g))
	assert.Equal(t, 1, acted)
}

func TestTriggerMessage_WithoutSourceCard(t *testing.T) {
	g := game.New("test")
	p := g.AddPlayer("p1", "Alice")
	e := NewEngine()
	ringDelay := MustBuild(game.ClassRing, KindDelayedEffect, Detached, delayedHandlers(DelayedEffect{Message: "{0} fires"}))
	ringInst := NewInstance(p, ringDelay, WithTargets(g.Rings()[0]))
	require.NoError(t, e.Activate(ringInst, ScopeManual))
	require.NoError(t, e.Recalculate(g))
	require.NoError(t, e.FireDelayed(g, nil))

	msgs := g.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "an effect fires", msgs[0].Text)
}
