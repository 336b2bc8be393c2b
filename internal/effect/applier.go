package effect

import "github.com/udisondev/l5rgo/internal/game"

// applier converges one (instance, target) pair. There is one per duration
// class.
type applier interface {
	apply(inst *Instance, target game.Entity) (*appliedTarget, error)
	refresh(inst *Instance, a *appliedTarget)
	unapply(inst *Instance, a *appliedTarget) error
}

var appliers = [...]applier{
	Static:   staticApplier{},
	Flexible: computedApplier{},
	Dynamic:  computedApplier{},
	Detached: detachedApplier{},
}

func applierFor(d Duration) applier {
	if int(d) < len(appliers) && appliers[d] != nil {
		return appliers[d]
	}
	return staticApplier{}
}

// staticApplier records the value once; re-applying changes nothing.
type staticApplier struct{}

func (staticApplier) apply(inst *Instance, target game.Entity) (*appliedTarget, error) {
	return &appliedTarget{entity: target, value: inst.desc.Value(target, inst.ctx)}, nil
}

func (staticApplier) refresh(*Instance, *appliedTarget) {}

func (staticApplier) unapply(*Instance, *appliedTarget) error { return nil }

// computedApplier re-evaluates the value on every pass.
type computedApplier struct{}

func (computedApplier) apply(inst *Instance, target game.Entity) (*appliedTarget, error) {
	return &appliedTarget{entity: target, value: inst.desc.Value(target, inst.ctx)}, nil
}

func (computedApplier) refresh(inst *Instance, a *appliedTarget) {
	a.value = inst.desc.Value(a.entity, inst.ctx)
}

func (computedApplier) unapply(*Instance, *appliedTarget) error { return nil }

// detachedApplier runs the descriptor callbacks and keeps the token.
type detachedApplier struct{}

func (detachedApplier) apply(inst *Instance, target game.Entity) (*appliedTarget, error) {
	tok, err := inst.desc.handlers.Apply(target, inst.ctx)
	if err != nil {
		return nil, err
	}
	return &appliedTarget{entity: target, value: tok, token: tok}, nil
}

func (detachedApplier) refresh(*Instance, *appliedTarget) {}

func (detachedApplier) unapply(inst *Instance, a *appliedTarget) error {
	return inst.desc.handlers.Unapply(a.entity, inst.ctx, a.token)
}
