package effect

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/udisondev/l5rgo/internal/game"
)

// Scope is how long an activated instance stays live.
type Scope uint8

const (
	// ScopeManual instances live until something calls Expire.
	ScopeManual Scope = iota
	// ScopeWhileSourceInPlay instances end when their source leaves play.
	ScopeWhileSourceInPlay
	ScopeUntilEndOfConflict
	ScopeUntilEndOfPhase
	ScopeUntilEndOfRound
	// ScopePermanent instances last for the rest of the game.
	ScopePermanent
)

var scopeNames = [...]string{
	ScopeManual:             "manual",
	ScopeWhileSourceInPlay:  "while_source_in_play",
	ScopeUntilEndOfConflict: "conflict",
	ScopeUntilEndOfPhase:    "phase",
	ScopeUntilEndOfRound:    "round",
	ScopePermanent:          "permanent",
}

func (s Scope) String() string {
	if int(s) < len(scopeNames) {
		return scopeNames[s]
	}
	return fmt.Sprintf("Scope(%d)", uint8(s))
}

// ParseScope resolves a scope from its name.
func ParseScope(name string) (Scope, error) {
	for i, n := range scopeNames {
		if n == name {
			return Scope(i), nil
		}
	}
	return ScopeManual, fmt.Errorf("unknown effect scope %q", name)
}

type status uint8

const (
	statusNew status = iota
	statusQueued
	statusLive
	statusExpiring
	statusExpired
)

// appliedTarget is one entity an instance currently affects. token is only
// set for detached effects.
type appliedTarget struct {
	entity game.Entity
	value  any
	token  Token
}

// Instance binds a descriptor to a source and to the entities it currently
// affects. The engine owns it from Activate until it expires.
type Instance struct {
	id     string
	seq    uint64
	source game.Entity
	desc   Descriptor
	scope  Scope
	ctx    *Context

	fixed     []game.Entity
	hasFixed  bool
	match     func(game.Entity) bool
	condition func(game.State) bool

	applied []*appliedTarget
	engine  *Engine
	status  status
}

// Option configures an Instance.
type Option func(*Instance)

// WithTargets fixes the target set at registration time. An empty set
// affects nothing.
func WithTargets(targets ...game.Entity) Option {
	return func(i *Instance) {
		i.hasFixed = true
		i.fixed = append(i.fixed, targets...)
	}
}

// WithMatch selects targets with a predicate evaluated on every pass.
func WithMatch(fn func(game.Entity) bool) Option {
	return func(i *Instance) {
		i.match = fn
	}
}

// WithCondition gates the whole instance: while fn is false it affects
// nothing.
func WithCondition(fn func(game.State) bool) Option {
	return func(i *Instance) {
		i.condition = fn
	}
}

// WithContext sets the ability context used by value functions and
// detached callbacks.
func WithContext(ctx *Context) Option {
	return func(i *Instance) {
		i.ctx = ctx
	}
}

// NewInstance creates an instance of d sourced from source. Without
// WithTargets or WithMatch it affects every live entity of the descriptor's
// class.
func NewInstance(source game.Entity, d Descriptor, opts ...Option) *Instance {
	i := &Instance{
		id:     uuid.NewString(),
		source: source,
		desc:   d,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *Instance) ID() string             { return i.id }
func (i *Instance) Seq() uint64            { return i.seq }
func (i *Instance) Source() game.Entity    { return i.source }
func (i *Instance) Descriptor() Descriptor { return i.desc }
func (i *Instance) Kind() Kind             { return i.desc.kind }
func (i *Instance) Scope() Scope           { return i.scope }
func (i *Instance) Context() *Context      { return i.ctx }
func (i *Instance) Live() bool             { return i.status == statusLive || i.status == statusExpiring }
func (i *Instance) Expired() bool          { return i.status == statusExpired }
func (i *Instance) String() string         { return i.desc.kind.String() + "@" + i.id }

// AppliedTargets returns the entities the instance currently affects, in
// the order they were applied.
func (i *Instance) AppliedTargets() []game.Entity {
	out := make([]game.Entity, len(i.applied))
	for n, a := range i.applied {
		out[n] = a.entity
	}
	return out
}

// AppliedValue returns the value currently applied to entity.
func (i *Instance) AppliedValue(entity game.Entity) (any, bool) {
	if a := i.appliedFor(entity.ID()); a != nil {
		return a.value, true
	}
	return nil, false
}

func (i *Instance) appliedFor(id string) *appliedTarget {
	for _, a := range i.applied {
		if a.entity.ID() == id {
			return a
		}
	}
	return nil
}

// Recompute returns the entities that should be affected right now. Fixed
// targets are kept while they are still live in state; otherwise the match
// predicate runs against every live entity of the descriptor's class.
func (i *Instance) Recompute(state game.State) []game.Entity {
	if i.condition != nil && !i.condition(state) {
		return nil
	}
	live := state.Entities(i.desc.target)
	if i.hasFixed {
		present := make(map[string]bool, len(live))
		for _, e := range live {
			present[e.ID()] = true
		}
		out := make([]game.Entity, 0, len(i.fixed))
		for _, e := range i.fixed {
			if present[e.ID()] && (i.match == nil || i.match(e)) {
				out = append(out, e)
			}
		}
		return out
	}
	if i.match == nil {
		return live
	}
	out := make([]game.Entity, 0, len(live))
	for _, e := range live {
		if i.match(e) {
			out = append(out, e)
		}
	}
	return out
}

// Expire retracts the instance: it is unapplied from every target and
// dropped from its engine. Inside a recalculation pass the retraction is
// deferred to the end of the pass. Expiring an instance twice is a no-op.
func (i *Instance) Expire() error {
	switch i.status {
	case statusExpiring, statusExpired:
		return nil
	case statusNew:
		i.status = statusExpired
		return nil
	}
	return i.engine.expire(i)
}
