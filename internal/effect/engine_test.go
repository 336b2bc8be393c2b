package effect

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/l5rgo/internal/game"
)

// recorder counts observer notifications.
type recorder struct {
	activated, applied, unapplied, expired int
}

func (r *recorder) InstanceActivated(*Instance)           { r.activated++ }
func (r *recorder) EffectApplied(*Instance, game.Entity)   { r.applied++ }
func (r *recorder) EffectUnapplied(*Instance, game.Entity) { r.unapplied++ }
func (r *recorder) InstanceExpired(*Instance)             { r.expired++ }

type fixture struct {
	g        *game.Game
	e        *Engine
	rec      *recorder
	p1, p2   *game.Player
	province *game.Card
	source   *game.Card
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	g := game.New("test")
	p1 := g.AddPlayer("p1", "Alice")
	p2 := g.AddPlayer("p2", "Bob")
	province := g.AddCard(game.NewCard("prov", game.CardData{
		Name: "Shameful Display", Type: game.CardTypeProvince, Strength: "3",
	}, p1), game.LocationProvince1)
	source := g.AddCard(game.NewCard("src", game.CardData{
		Name: "Doji Whisperer", Type: game.CardTypeCharacter, MilitarySkill: "1", PoliticalSkill: "3",
	}, p2), game.LocationPlayArea)

	rec := &recorder{}
	e := NewEngine(rec)
	e.WatchLeavePlay(g)
	return &fixture{g: g, e: e, rec: rec, p1: p1, p2: p2, province: province, source: source}
}

func (f *fixture) activate(t *testing.T, d Descriptor, opts ...Option) *Instance {
	t.Helper()
	inst := NewInstance(f.source, d, opts...)
	require.NoError(t, f.e.Activate(inst, ScopeManual))
	return inst
}

func TestRecalculate_StaticAppliedOnce(t *testing.T) {
	f := newFixture(t)
	f.activate(t, ModifyProvinceStrength(2), WithTargets(f.province))

	require.NoError(t, f.e.Recalculate(f.g))
	require.NoError(t, f.e.Recalculate(f.g))
	require.NoError(t, f.e.Recalculate(f.g))

	applied := f.e.Applied(f.province)
	require.Len(t, applied, 1)
	assert.Equal(t, 2, applied.Sum(KindModifyProvinceStrength))
	assert.Equal(t, 1, f.rec.applied)
}

func TestRecalculate_MatchFollowsState(t *testing.T) {
	f := newFixture(t)
	inst := f.activate(t, AddTrait("courtier"), WithMatch(func(e game.Entity) bool {
		c := e.(*game.Card)
		return c.Type() == game.CardTypeCharacter
	}))

	require.NoError(t, f.e.Recalculate(f.g))
	assert.Len(t, inst.AppliedTargets(), 1)

	extra := f.g.AddCard(game.NewCard("c2", game.CardData{Name: "Kakita Yoshi", Type: game.CardTypeCharacter}, f.p2), game.LocationHand)
	require.NoError(t, f.e.Recalculate(f.g))
	assert.Len(t, inst.AppliedTargets(), 1, "cards in hand are not live")

	f.g.MoveCard(extra, game.LocationPlayArea)
	require.NoError(t, f.e.Recalculate(f.g))
	assert.Len(t, inst.AppliedTargets(), 2)

	f.g.MoveCard(extra, game.LocationConflictDiscardPile)
	require.NoError(t, f.e.Recalculate(f.g))
	assert.Len(t, inst.AppliedTargets(), 1)
	assert.Equal(t, 1, f.rec.unapplied)
}

func TestRecalculate_FixedTargetLeavesPlay(t *testing.T) {
	f := newFixture(t)
	target := f.g.AddCard(game.NewCard("c2", game.CardData{Name: "Kakita Yoshi", Type: game.CardTypeCharacter}, f.p2), game.LocationPlayArea)
	inst := f.activate(t, Blank(), WithTargets(target))

	require.NoError(t, f.e.Recalculate(f.g))
	assert.True(t, f.e.Applied(target).Any(KindBlank))

	f.g.MoveCard(target, game.LocationDynastyDiscardPile)
	require.NoError(t, f.e.Recalculate(f.g))
	assert.False(t, f.e.Applied(target).Any(KindBlank))
	assert.True(t, inst.Live(), "fixed targets leaving does not expire the instance")
}

func TestRecalculate_EmptyFixedTargetsAffectNothing(t *testing.T) {
	f := newFixture(t)
	var chosen []game.Entity
	inst := f.activate(t, Blank(), WithTargets(chosen...))

	require.NoError(t, f.e.Recalculate(f.g))
	assert.Empty(t, inst.AppliedTargets())
	assert.False(t, f.e.Applied(f.province).Any(KindBlank))
	assert.False(t, f.e.Applied(f.source).Any(KindBlank))
	assert.Zero(t, f.rec.applied)
}

func TestRecalculate_ConditionGate(t *testing.T) {
	f := newFixture(t)
	active := false
	f.activate(t, ModifyProvinceStrength(1),
		WithTargets(f.province),
		WithCondition(func(game.State) bool { return active }))

	require.NoError(t, f.e.Recalculate(f.g))
	assert.Empty(t, f.e.Applied(f.province))

	active = true
	require.NoError(t, f.e.Recalculate(f.g))
	assert.Len(t, f.e.Applied(f.province), 1)

	active = false
	require.NoError(t, f.e.Recalculate(f.g))
	assert.Empty(t, f.e.Applied(f.province))
}

func TestRecalculate_FlexibleValueRefreshes(t *testing.T) {
	f := newFixture(t)
	bonus := 1
	f.activate(t, ModifyProvinceStrength(ValueFunc(func(game.Entity, *Context) any { return bonus })),
		WithTargets(f.province))

	require.NoError(t, f.e.Recalculate(f.g))
	assert.Equal(t, 1, f.e.Applied(f.province).Sum(KindModifyProvinceStrength))

	bonus = 4
	require.NoError(t, f.e.Recalculate(f.g))
	assert.Equal(t, 4, f.e.Applied(f.province).Sum(KindModifyProvinceStrength))
	assert.Equal(t, 1, f.rec.applied)
}

func TestRecalculate_UnnamedValueFunc(t *testing.T) {
	f := newFixture(t)
	f.activate(t, ModifyProvinceStrength(func(game.Entity, *Context) any { return 5 }),
		WithTargets(f.province))

	require.NoError(t, f.e.Recalculate(f.g))
	assert.Equal(t, 5, f.e.Applied(f.province).Sum(KindModifyProvinceStrength))
}

func TestSet_MostRecentWins(t *testing.T) {
	f := newFixture(t)
	f.activate(t, SetProvinceStrength(5), WithTargets(f.province))
	b := f.activate(t, SetProvinceStrength(7), WithTargets(f.province))
	require.NoError(t, f.e.Recalculate(f.g))

	v, ok := f.e.Applied(f.province).MostRecentInt(KindSetProvinceStrength)
	require.True(t, ok)
	assert.Equal(t, 7, v)

	require.NoError(t, b.Expire())
	require.NoError(t, f.e.Recalculate(f.g))
	v, ok = f.e.Applied(f.province).MostRecentInt(KindSetProvinceStrength)
	require.True(t, ok)
	assert.Equal(t, 5, v)
}

func TestDetached_ApplyUnapplySymmetry(t *testing.T) {
	f := newFixture(t)
	count := 0
	h := Handlers{
		Apply: func(game.Entity, *Context) (Token, error) {
			count++
			return count, nil
		},
		Unapply: func(_ game.Entity, _ *Context, tok Token) error {
			assert.Equal(t, 1, tok)
			count--
			return nil
		},
	}
	inst := f.activate(t, CustomDetachedCard(h), WithTargets(f.province))

	require.NoError(t, f.e.Recalculate(f.g))
	require.NoError(t, f.e.Recalculate(f.g))
	assert.Equal(t, 1, count)

	require.NoError(t, inst.Expire())
	assert.Equal(t, 0, count)
	require.NoError(t, inst.Expire())
	assert.Equal(t, 0, count)
	assert.True(t, inst.Expired())
	assert.Equal(t, 0, f.e.Len())
	assert.Equal(t, 1, f.rec.expired)
}

func TestDetached_ApplyErrorLeavesEntityUntouched(t *testing.T) {
	f := newFixture(t)
	errBoom := errors.New("boom")
	inst := f.activate(t, CustomDetachedCard(Handlers{
		Apply:   func(game.Entity, *Context) (Token, error) { return nil, errBoom },
		Unapply: func(game.Entity, *Context, Token) error { return nil },
	}), WithTargets(f.province))

	err := f.e.Recalculate(f.g)
	require.ErrorIs(t, err, errBoom)
	assert.Empty(t, inst.AppliedTargets())
	assert.Empty(t, f.e.Applied(f.province))
	assert.Equal(t, 0, f.rec.applied)
}

func TestDetached_UnapplyErrorStillDropsInstance(t *testing.T) {
	f := newFixture(t)
	errBoom := errors.New("boom")
	inst := f.activate(t, CustomDetachedCard(Handlers{
		Apply:   func(game.Entity, *Context) (Token, error) { return true, nil },
		Unapply: func(game.Entity, *Context, Token) error { return errBoom },
	}), WithTargets(f.province))
	require.NoError(t, f.e.Recalculate(f.g))

	require.ErrorIs(t, inst.Expire(), errBoom)
	assert.True(t, inst.Expired())
	assert.Equal(t, 0, f.e.Len())
}

func TestRecalculate_NestedCallIgnored(t *testing.T) {
	f := newFixture(t)
	var nested error
	calls := 0
	f.activate(t, CustomDetachedCard(Handlers{
		Apply: func(_ game.Entity, ctx *Context) (Token, error) {
			calls++
			nested = ctx.Engine.Recalculate(f.g)
			return nil, nil
		},
		Unapply: func(game.Entity, *Context, Token) error { return nil },
	}), WithTargets(f.province))

	require.NoError(t, f.e.Recalculate(f.g))
	assert.NoError(t, nested)
	assert.Equal(t, 1, calls)
}

func TestRecalculate_ActivationDuringPassJoinsAfter(t *testing.T) {
	f := newFixture(t)
	late := NewInstance(f.source, ModifyProvinceStrength(3), WithTargets(f.province))
	f.activate(t, CustomDetachedCard(Handlers{
		Apply: func(_ game.Entity, ctx *Context) (Token, error) {
			return nil, ctx.Engine.Activate(late, ScopeManual)
		},
		Unapply: func(game.Entity, *Context, Token) error { return nil },
	}), WithTargets(f.province))

	require.NoError(t, f.e.Recalculate(f.g))
	assert.Equal(t, 2, f.e.Len())
	assert.Empty(t, late.AppliedTargets(), "queued activation is not applied in the pass that queued it")

	require.NoError(t, f.e.Recalculate(f.g))
	assert.Len(t, late.AppliedTargets(), 1)
}

func TestRecalculate_ExpireDuringPassDeferred(t *testing.T) {
	f := newFixture(t)
	unapplied := 0
	victim := f.activate(t, CustomDetachedCard(Handlers{
		Apply:   func(game.Entity, *Context) (Token, error) { return nil, nil },
		Unapply: func(game.Entity, *Context, Token) error { unapplied++; return nil },
	}), WithTargets(f.province))
	require.NoError(t, f.e.Recalculate(f.g))

	f.activate(t, CustomDetachedCard(Handlers{
		Apply: func(game.Entity, *Context) (Token, error) {
			require.NoError(t, victim.Expire())
			assert.Equal(t, 0, unapplied, "retraction waits for the pass to end")
			return nil, nil
		},
		Unapply: func(game.Entity, *Context, Token) error { return nil },
	}), WithTargets(f.province))

	require.NoError(t, f.e.Recalculate(f.g))
	assert.Equal(t, 1, unapplied)
	assert.True(t, victim.Expired())
	assert.Equal(t, 1, f.e.Len())
}

func TestActivate_Errors(t *testing.T) {
	f := newFixture(t)

	err := f.e.Activate(NewInstance(nil, Blank()), ScopeManual)
	require.ErrorIs(t, err, ErrInstanceSourceRequired)

	inst := f.activate(t, Blank())
	require.ErrorIs(t, f.e.Activate(inst, ScopeManual), ErrInstanceActivated)
}

func TestExpire_BeforeActivateIsNoop(t *testing.T) {
	inst := NewInstance(game.NewPlayer("p", "P"), GainActionPhasePriority())
	require.NoError(t, inst.Expire())
	assert.True(t, inst.Expired())
}

func TestEndScope(t *testing.T) {
	f := newFixture(t)
	conflictOnly := NewInstance(f.source, ModifyProvinceStrength(1), WithTargets(f.province))
	require.NoError(t, f.e.Activate(conflictOnly, ScopeUntilEndOfConflict))
	round := NewInstance(f.source, ModifyProvinceStrength(2), WithTargets(f.province))
	require.NoError(t, f.e.Activate(round, ScopeUntilEndOfRound))
	require.NoError(t, f.e.Recalculate(f.g))
	assert.Equal(t, 3, f.e.Applied(f.province).Sum(KindModifyProvinceStrength))

	require.NoError(t, f.e.EndScope(ScopeUntilEndOfConflict))
	assert.Equal(t, 2, f.e.Applied(f.province).Sum(KindModifyProvinceStrength))
	assert.True(t, conflictOnly.Expired())
	assert.False(t, round.Expired())
}

func TestSourceLeftPlay(t *testing.T) {
	f := newFixture(t)
	inst := NewInstance(f.source, ModifyProvinceStrength(1), WithTargets(f.province))
	require.NoError(t, f.e.Activate(inst, ScopeWhileSourceInPlay))
	manual := f.activate(t, ModifyProvinceStrength(2), WithTargets(f.province))
	require.NoError(t, f.e.Recalculate(f.g))

	f.g.MoveCard(f.source, game.LocationDynastyDiscardPile)

	assert.True(t, inst.Expired())
	assert.False(t, manual.Expired())
	assert.Equal(t, 2, f.e.Applied(f.province).Sum(KindModifyProvinceStrength))
}

func TestApplied_ActivationOrder(t *testing.T) {
	f := newFixture(t)
	a := f.activate(t, ModifyProvinceStrength(1), WithTargets(f.province))
	b := f.activate(t, ModifyProvinceStrengthMultiplier(2), WithTargets(f.province))
	require.NoError(t, f.e.Recalculate(f.g))

	applied := f.e.Applied(f.province)
	require.Len(t, applied, 2)
	assert.Same(t, a, applied[0].Instance)
	assert.Same(t, b, applied[1].Instance)
	assert.Less(t, a.Seq(), b.Seq())
	assert.Equal(t, []float64{2}, applied.Multipliers(KindModifyProvinceStrengthMultiplier))
}
