package effect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/l5rgo/internal/game"
)

func TestBuild_InvalidTarget(t *testing.T) {
	_, err := Build(game.ClassUnknown, KindBlank, Static, true)
	require.ErrorIs(t, err, ErrInvalidEffectTarget)

	_, err = NewBuilder(game.EntityClass(42))
	require.ErrorIs(t, err, ErrInvalidEffectTarget)
}

func TestBuild_UnknownKind(t *testing.T) {
	_, err := Build(game.ClassCard, KindUnknown, Static, nil)
	require.ErrorIs(t, err, ErrUnknownEffectKind)

	_, err = Build(game.ClassCard, kindCount, Static, nil)
	require.ErrorIs(t, err, ErrUnknownEffectKind)
}

func TestBuild_UnknownDuration(t *testing.T) {
	_, err := Build(game.ClassCard, KindBlank, Duration(9), nil)
	require.ErrorIs(t, err, ErrUnknownDuration)

	_, err = ParseDuration("forever")
	require.ErrorIs(t, err, ErrUnknownDuration)

	d, err := ParseDuration("detached")
	require.NoError(t, err)
	assert.Equal(t, Detached, d)
}

func TestBuild_DetachedNeedsHandlers(t *testing.T) {
	_, err := Build(game.ClassPlayer, KindCustomEffect, Detached, nil)
	require.ErrorIs(t, err, ErrMissingHandler)

	_, err = Build(game.ClassPlayer, KindCustomEffect, Detached, Handlers{
		Apply: func(game.Entity, *Context) (Token, error) { return nil, nil },
	})
	require.ErrorIs(t, err, ErrMissingHandler)
}

func TestDescriptor_Accessors(t *testing.T) {
	d := ModifyMilitarySkill(2)
	assert.Equal(t, KindModifyMilitarySkill, d.Kind())
	assert.Equal(t, Flexible, d.Duration())
	assert.Equal(t, game.ClassCard, d.Target())
	assert.True(t, d.Recomputes())
	assert.Equal(t, "card.flexible(modifyMilitarySkill)", d.String())
	assert.False(t, d.IsZero())
	assert.True(t, Descriptor{}.IsZero())

	assert.False(t, SetMaxConflicts(1).Recomputes())
	assert.Equal(t, game.ClassPlayer, SetMaxConflicts(1).Target())
	assert.Equal(t, game.ClassRing, AddElement("fire").Target())
	assert.Equal(t, game.ClassConflict, RestrictNumberOfDefenders(1).Target())
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("modifyProvinceStrength")
	require.NoError(t, err)
	assert.Equal(t, KindModifyProvinceStrength, k)
	assert.Equal(t, "modifyProvinceStrength", k.String())

	_, err = ParseKind("unknown")
	require.ErrorIs(t, err, ErrUnknownEffectKind)
	_, err = ParseKind("fly")
	require.ErrorIs(t, err, ErrUnknownEffectKind)

	for k := KindUnknown + 1; k < kindCount; k++ {
		got, err := ParseKind(k.String())
		require.NoError(t, err, k.String())
		assert.Equal(t, k, got)
	}
}

func TestParseScope(t *testing.T) {
	s, err := ParseScope("while_source_in_play")
	require.NoError(t, err)
	assert.Equal(t, ScopeWhileSourceInPlay, s)

	_, err = ParseScope("forever")
	assert.Error(t, err)
}

func TestInt(t *testing.T) {
	assert.Equal(t, 3, Int(3))
	assert.Equal(t, 2, Int(2.9))
	assert.Equal(t, -2, Int(-2.9))
	assert.Equal(t, 0, Int("x"))
	assert.Equal(t, 1.5, Float(1.5))
	assert.Equal(t, 4.0, Float(4))
}
