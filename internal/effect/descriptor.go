package effect

import (
	"errors"
	"fmt"

	"github.com/udisondev/l5rgo/internal/game"
)

var (
	// ErrInvalidEffectTarget is returned when a descriptor is built for an
	// entity class the engine cannot apply to.
	ErrInvalidEffectTarget = errors.New("invalid effect target")
	// ErrUnknownDuration is returned for a duration class outside the known set.
	ErrUnknownDuration = errors.New("unknown effect duration")
	// ErrMissingHandler is returned when a detached descriptor lacks its
	// apply or unapply callback.
	ErrMissingHandler = errors.New("detached effect requires apply and unapply")
)

// Duration controls whether an effect's value is constant, recomputed every
// pass, or backed by custom apply/unapply callbacks.
type Duration uint8

const (
	DurationUnknown Duration = iota
	Static
	Flexible
	Dynamic
	Detached
)

var durationNames = [...]string{
	DurationUnknown: "unknown",
	Static:          "static",
	Flexible:        "flexible",
	Dynamic:         "dynamic",
	Detached:        "detached",
}

func (d Duration) String() string {
	if int(d) < len(durationNames) {
		return durationNames[d]
	}
	return fmt.Sprintf("Duration(%d)", uint8(d))
}

// ParseDuration resolves a duration class from its name.
func ParseDuration(name string) (Duration, error) {
	for i, n := range durationNames {
		if i > 0 && n == name {
			return Duration(i), nil
		}
	}
	return DurationUnknown, fmt.Errorf("%q: %w", name, ErrUnknownDuration)
}

// Context is the ability context an effect instance carries for its whole
// lifetime. Detached callbacks and value functions receive it.
type Context struct {
	game.Context
	Engine *Engine
}

// ValueFunc computes an effect value for target. Flexible and dynamic
// effects call it on every recalculation pass.
type ValueFunc func(target game.Entity, ctx *Context) any

// Token is whatever a detached apply returns; the engine hands it back to
// unapply untouched.
type Token any

// Handlers are the callbacks of a detached effect.
type Handlers struct {
	Apply   func(target game.Entity, ctx *Context) (Token, error)
	Unapply func(target game.Entity, ctx *Context, token Token) error
}

// Descriptor is an immutable description of an effect.
type Descriptor struct {
	kind     Kind
	value    any
	duration Duration
	target   game.EntityClass
	handlers Handlers
}

// Build creates a descriptor. Detached descriptors take their callbacks
// from value, which must be a Handlers.
func Build(class game.EntityClass, kind Kind, duration Duration, value any) (Descriptor, error) {
	if !class.Valid() {
		return Descriptor{}, fmt.Errorf("building %s for %s: %w", kind, class, ErrInvalidEffectTarget)
	}
	if !kind.Valid() {
		return Descriptor{}, fmt.Errorf("building for %s: %s: %w", class, kind, ErrUnknownEffectKind)
	}
	d := Descriptor{kind: kind, value: value, duration: duration, target: class}
	switch duration {
	case Static, Flexible, Dynamic:
	case Detached:
		h, ok := value.(Handlers)
		if !ok || h.Apply == nil || h.Unapply == nil {
			return Descriptor{}, fmt.Errorf("building %s: %w", kind, ErrMissingHandler)
		}
		d.handlers = h
		d.value = nil
	default:
		return Descriptor{}, fmt.Errorf("building %s: %s: %w", kind, duration, ErrUnknownDuration)
	}
	return d, nil
}

// MustBuild is like Build but panics on error. Use it only for descriptors
// whose arguments are fixed at compile time.
func MustBuild(class game.EntityClass, kind Kind, duration Duration, value any) Descriptor {
	d, err := Build(class, kind, duration, value)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Descriptor) Kind() Kind               { return d.kind }
func (d Descriptor) Duration() Duration       { return d.duration }
func (d Descriptor) Target() game.EntityClass { return d.target }
func (d Descriptor) Handlers() Handlers       { return d.handlers }
func (d Descriptor) IsZero() bool             { return d.kind == KindUnknown }

func (d Descriptor) String() string {
	return d.target.String() + "." + d.duration.String() + "(" + d.kind.String() + ")"
}

// Recomputes reports whether the value is re-evaluated on every pass.
func (d Descriptor) Recomputes() bool {
	return d.duration == Flexible || d.duration == Dynamic
}

// Value evaluates the descriptor value for target.
func (d Descriptor) Value(target game.Entity, ctx *Context) any {
	switch fn := d.value.(type) {
	case ValueFunc:
		return fn(target, ctx)
	case func(game.Entity, *Context) any:
		return fn(target, ctx)
	}
	return d.value
}

// Builder builds descriptors for one entity class.
type Builder struct {
	class game.EntityClass
}

// NewBuilder returns a builder for class.
func NewBuilder(class game.EntityClass) (Builder, error) {
	if !class.Valid() {
		return Builder{}, fmt.Errorf("builder for %s: %w", class, ErrInvalidEffectTarget)
	}
	return Builder{class: class}, nil
}

func mustBuilder(class game.EntityClass) Builder {
	b, err := NewBuilder(class)
	if err != nil {
		panic(err)
	}
	return b
}

// Static builds an effect whose value never changes.
func (b Builder) Static(kind Kind, value any) Descriptor {
	return MustBuild(b.class, kind, Static, value)
}

// Flexible builds an effect whose value may be a ValueFunc recomputed every pass.
func (b Builder) Flexible(kind Kind, value any) Descriptor {
	return MustBuild(b.class, kind, Flexible, value)
}

// Dynamic is Flexible for non-numeric payloads.
func (b Builder) Dynamic(kind Kind, value any) Descriptor {
	return MustBuild(b.class, kind, Dynamic, value)
}

// Detached builds an effect backed by custom apply/unapply callbacks.
func (b Builder) Detached(kind Kind, h Handlers) Descriptor {
	return MustBuild(b.class, kind, Detached, h)
}

var (
	cardEffects     = mustBuilder(game.ClassCard)
	ringEffects     = mustBuilder(game.ClassRing)
	playerEffects   = mustBuilder(game.ClassPlayer)
	conflictEffects = mustBuilder(game.ClassConflict)
)
