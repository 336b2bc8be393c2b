package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/l5rgo/internal/effect"
	"github.com/udisondev/l5rgo/internal/game"
	"github.com/udisondev/l5rgo/internal/stat"
	"github.com/udisondev/l5rgo/internal/target"
)

type board struct {
	g      *game.Game
	p1, p2 *game.Player
	tfw    *game.Card
}

func newBoard(t *testing.T) *board {
	t.Helper()
	g := game.New("tfw")
	p1 := g.AddPlayer("p1", "Alice")
	p2 := g.AddPlayer("p2", "Bob")
	tfw := g.AddCard(game.NewCard("tfw", game.CardData{
		ID: TimeForWarID, Name: "Time for War", Type: game.CardTypeEvent, Cost: 0,
	}, p1), game.LocationHand)
	return &board{g: g, p1: p1, p2: p2, tfw: tfw}
}

func (b *board) add(id string, data game.CardData, owner *game.Player, loc game.Location) *game.Card {
	data.Name = id
	return b.g.AddCard(game.NewCard(id, data, owner), loc)
}

func weapon(cost int, traits ...string) game.CardData {
	return game.CardData{Type: game.CardTypeAttachment, Cost: cost, Traits: append([]string{"weapon"}, traits...)}
}

func bushi() game.CardData {
	return game.CardData{Type: game.CardTypeCharacter, MilitarySkill: "2", Traits: []string{"bushi"}}
}

func TestTimeForWar_Triggered(t *testing.T) {
	b := newBoard(t)
	reaction, ok := New(b.tfw, nil)
	require.True(t, ok)
	assert.Equal(t, "Put a weapon into play", reaction.Title())

	lost := game.NewConflict("c1", game.ConflictPolitical, b.p2, nil, nil)
	lost.Resolve(b.p2)
	assert.True(t, reaction.Triggered(lost))

	won := game.NewConflict("c2", game.ConflictPolitical, b.p2, nil, nil)
	won.Resolve(b.p1)
	assert.False(t, reaction.Triggered(won))

	military := game.NewConflict("c3", game.ConflictMilitary, b.p2, nil, nil)
	military.Resolve(b.p2)
	assert.False(t, reaction.Triggered(military))

	assert.False(t, reaction.Triggered(nil))
}

func TestTimeForWar_AttachesWeapon(t *testing.T) {
	b := newBoard(t)
	katana := b.add("katana", weapon(1), b.p1, game.LocationConflictDiscardPile)
	b.add("expensive", weapon(4), b.p1, game.LocationHand)
	b.add("theirs", weapon(0), b.p2, game.LocationHand)
	b.add("fan", game.CardData{Type: game.CardTypeAttachment, Cost: 0}, b.p1, game.LocationHand)
	toshimoko := b.add("toshimoko", bushi(), b.p1, game.LocationPlayArea)
	b.add("courtier", game.CardData{Type: game.CardTypeCharacter, Traits: []string{"courtier"}}, b.p1, game.LocationPlayArea)
	b.add("enemy", bushi(), b.p2, game.LocationPlayArea)

	tfw := NewTimeForWar(b.tfw, nil)
	require.True(t, tfw.HasLegalTargets(b.g))

	offers := map[string][]game.Entity{}
	chooser := target.ChooserFunc(func(s target.Slot, candidates []game.Entity, _ *game.Context) (game.Entity, error) {
		offers[s.Name] = candidates
		return candidates[0], nil
	})
	require.NoError(t, tfw.Resolve(b.g, chooser))

	assert.Equal(t, []game.Entity{katana}, offers["weapon"])
	assert.Equal(t, []game.Entity{toshimoko}, offers["bushi"])
	assert.Equal(t, game.LocationPlayArea, katana.Location)
	assert.Same(t, toshimoko, katana.Attachment.Parent)
	assert.Equal(t, []*game.Card{katana}, toshimoko.Attachments)

	msgs := b.g.Messages()
	require.NotEmpty(t, msgs)
	assert.Equal(t, "Alice plays Time for War to attach katana to toshimoko", msgs[len(msgs)-1].Text)
}

func TestTimeForWar_NoWeaponHasNoSideEffects(t *testing.T) {
	b := newBoard(t)
	toshimoko := b.add("toshimoko", bushi(), b.p1, game.LocationPlayArea)
	b.add("expensive", weapon(5), b.p1, game.LocationHand)

	tfw := NewTimeForWar(b.tfw, nil)
	assert.False(t, tfw.HasLegalTargets(b.g))

	asked := 0
	err := tfw.Resolve(b.g, target.ChooserFunc(func(target.Slot, []game.Entity, *game.Context) (game.Entity, error) {
		asked++
		return nil, nil
	}))
	require.ErrorIs(t, err, target.ErrNoLegalTargets)
	assert.Equal(t, 0, asked)
	assert.Empty(t, toshimoko.Attachments)
	assert.Empty(t, b.g.Messages())
}

func TestTimeForWar_WeaponWithoutBushi(t *testing.T) {
	b := newBoard(t)
	katana := b.add("katana", weapon(1), b.p1, game.LocationHand)
	b.add("courtier", game.CardData{Type: game.CardTypeCharacter}, b.p1, game.LocationPlayArea)

	tfw := NewTimeForWar(b.tfw, nil)
	err := tfw.Resolve(b.g, target.FirstCandidate)
	require.ErrorIs(t, err, target.ErrNoLegalTargets)
	assert.Equal(t, game.LocationHand, katana.Location)
	assert.Nil(t, katana.Attachment.Parent)
}

func TestTimeForWar_EffectiveTraits(t *testing.T) {
	b := newBoard(t)
	katana := b.add("katana", weapon(1), b.p1, game.LocationHand)
	monk := b.add("monk", game.CardData{Type: game.CardTypeCharacter}, b.p1, game.LocationPlayArea)

	e := effect.NewEngine()
	calc := stat.NewCalculator(e, b.g)
	tfw := NewTimeForWar(b.tfw, calc)
	assert.False(t, tfw.HasLegalTargets(b.g))

	inst := effect.NewInstance(b.tfw, effect.AddTrait("bushi"), effect.WithTargets(monk))
	require.NoError(t, e.Activate(inst, effect.ScopeUntilEndOfConflict))
	require.NoError(t, e.Recalculate(b.g))

	require.NoError(t, tfw.Resolve(b.g, target.FirstCandidate))
	assert.Same(t, monk, katana.Attachment.Parent)
}

func TestNew_UnknownCard(t *testing.T) {
	b := newBoard(t)
	other := b.add("other", game.CardData{ID: "banzai", Type: game.CardTypeEvent}, b.p1, game.LocationHand)
	_, ok := New(other, nil)
	assert.False(t, ok)
}
