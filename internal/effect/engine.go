package effect

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/udisondev/l5rgo/internal/game"
)

var (
	// ErrInstanceSourceRequired is returned when activating an instance
	// without a source.
	ErrInstanceSourceRequired = errors.New("effect instance requires a source")
	// ErrInstanceActivated is returned when activating an instance twice.
	ErrInstanceActivated = errors.New("effect instance already activated")
)

// Observer is notified of every change the engine makes. Notifications
// arrive in the order the changes happen.
type Observer interface {
	InstanceActivated(inst *Instance)
	EffectApplied(inst *Instance, target game.Entity)
	EffectUnapplied(inst *Instance, target game.Entity)
	InstanceExpired(inst *Instance)
}

// Engine owns the live effect instances of one game and converges game
// state to them on every recalculation pass.
//
// Not safe for concurrent use: a game advances one step at a time and every
// call must come from that step. Each game owns its own Engine.
type Engine struct {
	// instances in activation order; later instances fold after earlier ones.
	instances []*Instance
	seq       uint64

	inPass   bool
	queued   []*Instance
	expiring []*Instance

	observers []Observer
}

// NewEngine creates an engine with no live instances.
func NewEngine(observers ...Observer) *Engine {
	return &Engine{
		instances: make([]*Instance, 0, 16),
		observers: observers,
	}
}

// AddObserver registers o for future notifications.
func (e *Engine) AddObserver(o Observer) {
	e.observers = append(e.observers, o)
}

// WatchLeavePlay expires while-in-play instances of every card that leaves
// play in g.
func (e *Engine) WatchLeavePlay(g *game.Game) {
	g.OnLeavePlay(func(card *game.Card) {
		if err := e.SourceLeftPlay(card); err != nil {
			slog.Warn("expiring effects of departed source", "card", card.String(), "err", err)
		}
	})
}

// Activate registers inst with scope. From the next recalculation pass on
// it takes part in every pass until it expires. Activations requested
// during a pass join at the end of that pass.
func (e *Engine) Activate(inst *Instance, scope Scope) error {
	if inst.source == nil {
		return fmt.Errorf("activating %s: %w", inst.desc, ErrInstanceSourceRequired)
	}
	if !inst.desc.target.Valid() {
		return fmt.Errorf("activating %s: %w", inst.desc, ErrInvalidEffectTarget)
	}
	if inst.status != statusNew {
		return fmt.Errorf("activating %s: %w", inst, ErrInstanceActivated)
	}

	inst.engine = e
	inst.scope = scope
	e.seq++
	inst.seq = e.seq
	if inst.ctx == nil {
		inst.ctx = &Context{}
		if card, ok := inst.source.(*game.Card); ok {
			inst.ctx.Source = card
			inst.ctx.Player = card.Controller
		}
	}
	if inst.ctx.Engine == nil {
		inst.ctx.Engine = e
	}

	if e.inPass {
		inst.status = statusQueued
		e.queued = append(e.queued, inst)
	} else {
		inst.status = statusLive
		e.instances = append(e.instances, inst)
	}

	for _, o := range e.observers {
		o.InstanceActivated(inst)
	}
	slog.Debug("effect activated",
		"instance", inst.id,
		"effect", inst.desc.String(),
		"source", inst.source.ID(),
		"scope", scope.String())
	return nil
}

// Recalculate runs one pass: for every live instance in activation order it
// applies the effect to newly matching entities, refreshes recomputed
// values and unapplies it from entities that no longer match.
//
// A pass never recurses. Calls made while a pass is running are ignored,
// and activations and expirations requested by callbacks take effect when
// the pass ends. A failing detached callback aborts the pass; the entity it
// failed on keeps its state from before the call.
func (e *Engine) Recalculate(state game.State) (err error) {
	if e.inPass {
		slog.Debug("recalculation requested during a pass, ignored")
		return nil
	}
	e.inPass = true
	defer func() {
		e.inPass = false
		if ferr := e.flush(); ferr != nil {
			err = errors.Join(err, ferr)
		}
	}()

	for _, inst := range e.instances {
		if inst.status != statusLive {
			continue
		}
		if err := e.reconcile(inst, state); err != nil {
			return err
		}
	}
	return e.checkTerminalConditions(state)
}

// reconcile diffs the desired target set of inst against the applied one.
func (e *Engine) reconcile(inst *Instance, state game.State) error {
	desired := inst.Recompute(state)
	ap := applierFor(inst.desc.duration)

	want := make(map[string]bool, len(desired))
	for _, target := range desired {
		want[target.ID()] = true
		// Уже применён: только обновляем значение
		if a := inst.appliedFor(target.ID()); a != nil {
			ap.refresh(inst, a)
			continue
		}
		a, err := ap.apply(inst, target)
		if err != nil {
			return fmt.Errorf("applying %s to %s: %w", inst, target.ID(), err)
		}
		inst.applied = append(inst.applied, a)
		e.notifyApplied(inst, target)
	}

	// Снимаем эффект с целей, которые больше не подходят
	kept := make([]*appliedTarget, 0, len(inst.applied))
	for n, a := range inst.applied {
		if want[a.entity.ID()] {
			kept = append(kept, a)
			continue
		}
		if err := ap.unapply(inst, a); err != nil {
			inst.applied = append(kept, inst.applied[n:]...)
			return fmt.Errorf("unapplying %s from %s: %w", inst, a.entity.ID(), err)
		}
		e.notifyUnapplied(inst, a.entity)
	}
	inst.applied = kept
	return nil
}

// flush retracts instances expired during the pass and admits instances
// activated during it.
func (e *Engine) flush() error {
	var errs []error
	// Повторяем, пока обе очереди не опустеют
	for len(e.expiring) > 0 || len(e.queued) > 0 {
		expiring := e.expiring
		e.expiring = nil
		for _, inst := range expiring {
			if err := e.retract(inst); err != nil {
				errs = append(errs, err)
			}
		}

		queued := e.queued
		e.queued = nil
		for _, inst := range queued {
			if inst.status == statusQueued {
				inst.status = statusLive
				e.instances = append(e.instances, inst)
			}
		}
	}
	return errors.Join(errs...)
}

func (e *Engine) expire(inst *Instance) error {
	if inst.status == statusQueued {
		e.queued = slices.DeleteFunc(e.queued, func(x *Instance) bool { return x == inst })
		inst.status = statusExpired
		e.notifyExpired(inst)
		return nil
	}
	if e.inPass {
		inst.status = statusExpiring
		e.expiring = append(e.expiring, inst)
		return nil
	}
	inst.status = statusExpiring
	return e.retract(inst)
}

// retract unapplies inst from all its targets and drops it. The instance is
// dropped even when an unapply fails; the failures are returned joined.
func (e *Engine) retract(inst *Instance) error {
	if inst.status == statusExpired {
		return nil
	}
	inst.status = statusExpiring

	ap := applierFor(inst.desc.duration)
	var errs []error
	for _, a := range inst.applied {
		if err := ap.unapply(inst, a); err != nil {
			errs = append(errs, fmt.Errorf("unapplying %s from %s: %w", inst, a.entity.ID(), err))
			continue
		}
		e.notifyUnapplied(inst, a.entity)
	}
	inst.applied = nil
	inst.status = statusExpired
	e.instances = slices.DeleteFunc(e.instances, func(x *Instance) bool { return x == inst })
	e.notifyExpired(inst)
	return errors.Join(errs...)
}

// Expire is inst.Expire, for callers holding the engine.
func (e *Engine) Expire(inst *Instance) error {
	return inst.Expire()
}

// RemoveDelayedEffect expires a delayed effect registration.
func (e *Engine) RemoveDelayedEffect(inst *Instance) error {
	return inst.Expire()
}

// RemoveTerminalCondition expires a terminal condition registration.
func (e *Engine) RemoveTerminalCondition(inst *Instance) error {
	return inst.Expire()
}

// EndScope expires every instance activated with scope, such as all
// "until end of conflict" effects when the conflict ends.
func (e *Engine) EndScope(scope Scope) error {
	return e.expireWhere(func(inst *Instance) bool {
		return inst.scope == scope
	})
}

// SourceLeftPlay expires the while-in-play instances of source.
func (e *Engine) SourceLeftPlay(source game.Entity) error {
	return e.expireWhere(func(inst *Instance) bool {
		return inst.scope == ScopeWhileSourceInPlay && inst.source.ID() == source.ID()
	})
}

func (e *Engine) expireWhere(pred func(*Instance) bool) error {
	var victims []*Instance
	for _, inst := range e.instances {
		if inst.status == statusLive && pred(inst) {
			victims = append(victims, inst)
		}
	}
	for _, inst := range e.queued {
		if pred(inst) {
			victims = append(victims, inst)
		}
	}

	var errs []error
	for _, inst := range victims {
		if err := inst.Expire(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Instances returns the live instances in activation order.
func (e *Engine) Instances() []*Instance {
	return slices.Clone(e.instances)
}

// Len returns the number of live instances.
func (e *Engine) Len() int {
	return len(e.instances)
}

// Applied returns the effects currently applied to entity, in activation
// order.
func (e *Engine) Applied(entity game.Entity) AppliedList {
	var out AppliedList
	for _, inst := range e.instances {
		if a := inst.appliedFor(entity.ID()); a != nil {
			out = append(out, Applied{Kind: inst.desc.kind, Value: a.value, Instance: inst})
		}
	}
	return out
}

func (e *Engine) notifyApplied(inst *Instance, target game.Entity) {
	for _, o := range e.observers {
		o.EffectApplied(inst, target)
	}
}

func (e *Engine) notifyUnapplied(inst *Instance, target game.Entity) {
	for _, o := range e.observers {
		o.EffectUnapplied(inst, target)
	}
}

func (e *Engine) notifyExpired(inst *Instance) {
	for _, o := range e.observers {
		o.InstanceExpired(inst)
	}
	slog.Debug("effect expired", "instance", inst.id, "effect", inst.desc.String())
}
