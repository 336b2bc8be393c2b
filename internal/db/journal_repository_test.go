package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/l5rgo/internal/effect"
	"github.com/udisondev/l5rgo/internal/game"
	"github.com/udisondev/l5rgo/internal/journal"
)

func recordedJournal(t *testing.T, gameID string) *journal.Journal {
	t.Helper()
	g := game.New(gameID)
	p := g.AddPlayer("p1", "Alice")
	province := g.AddCard(game.NewCard("prov", game.CardData{Name: "Pilgrimage", Type: game.CardTypeProvince, Strength: "5"}, p), game.LocationProvince1)

	j := journal.New(gameID)
	e := effect.NewEngine(j)
	inst := effect.NewInstance(province, effect.ModifyProvinceStrength(2), effect.WithTargets(province))
	require.NoError(t, e.Activate(inst, effect.ScopeUntilEndOfRound))
	require.NoError(t, e.Recalculate(g))
	require.NoError(t, e.EndScope(effect.ScopeUntilEndOfRound))
	return j
}

func TestJournalRepository_SaveLoad(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewJournalRepository(pool)
	ctx := context.Background()

	j := recordedJournal(t, "game-1")
	id, err := repo.Save(ctx, j)
	require.NoError(t, err)

	row, entries, err := repo.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "game-1", row.GameID)
	assert.Equal(t, j.Digest(), row.Digest)
	assert.Equal(t, j.Len(), row.Entries)
	require.Len(t, entries, j.Len())

	want := j.Entries()
	for i := range want {
		assert.Equal(t, want[i].Seq, entries[i].Seq)
		assert.Equal(t, want[i].Op, entries[i].Op)
		assert.Equal(t, want[i].Instance, entries[i].Instance)
		assert.Equal(t, want[i].Target, entries[i].Target)
	}
	assert.Equal(t, row.Digest, journal.Digest(entries))
}

func TestJournalRepository_ListByGame(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewJournalRepository(pool)
	ctx := context.Background()

	_, err := repo.Save(ctx, recordedJournal(t, "game-a"))
	require.NoError(t, err)
	_, err = repo.Save(ctx, recordedJournal(t, "game-a"))
	require.NoError(t, err)
	_, err = repo.Save(ctx, journal.New("game-b"))
	require.NoError(t, err)

	rows, err := repo.ListByGame(ctx, "game-a")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Less(t, rows[0].ID, rows[1].ID)
	assert.Equal(t, rows[0].Digest, rows[1].Digest)
}

func TestJournalRepository_LoadMissing(t *testing.T) {
	pool := setupTestDB(t)
	_, _, err := NewJournalRepository(pool).Load(context.Background(), 424242)
	require.ErrorIs(t, err, ErrJournalNotFound)
}
