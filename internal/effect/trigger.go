package effect

import (
	"errors"
	"fmt"

	"github.com/udisondev/l5rgo/internal/game"
)

// Action is a game action run against the target of a delayed effect or a
// terminal condition.
type Action func(target game.Entity, ctx *Context) error

// DelayedEffect waits for an event and then acts on its target once.
// Deciding which events exist and when they fire is up to the trigger
// system; the engine only keeps the registrations.
type DelayedEffect struct {
	When    func(event any) bool
	Message string
	Action  Action

	Target  game.Entity
	Context *Context
}

// TerminalCondition acts on its target once Condition holds after a pass,
// then ends.
type TerminalCondition struct {
	Condition func(state game.State) bool
	Message   string
	Action    Action

	Target  game.Entity
	Context *Context
}

// delayedHandlers registers a KindDelayedTrigger instance on the target and
// uses it as the token.
func delayedHandlers(props DelayedEffect) Handlers {
	return Handlers{
		Apply: func(target game.Entity, ctx *Context) (Token, error) {
			d := props
			d.Target = target
			if d.Context == nil {
				d.Context = ctx
			}
			return registerTrigger(target, ctx, KindDelayedTrigger, &d, d.Context)
		},
		Unapply: func(_ game.Entity, ctx *Context, token Token) error {
			return ctx.Engine.RemoveDelayedEffect(token.(*Instance))
		},
	}
}

func terminalHandlers(props TerminalCondition) Handlers {
	return Handlers{
		Apply: func(target game.Entity, ctx *Context) (Token, error) {
			t := props
			t.Target = target
			if t.Context == nil {
				t.Context = ctx
			}
			return registerTrigger(target, ctx, KindTerminalTrigger, &t, t.Context)
		},
		Unapply: func(_ game.Entity, ctx *Context, token Token) error {
			return ctx.Engine.RemoveTerminalCondition(token.(*Instance))
		},
	}
}

func registerTrigger(target game.Entity, ctx *Context, kind Kind, value any, triggerCtx *Context) (*Instance, error) {
	if ctx == nil || ctx.Engine == nil {
		return nil, errors.New("trigger registration requires an engine context")
	}
	var source game.Entity = target
	if ctx.Source != nil {
		source = ctx.Source
	}
	d := MustBuild(target.Class(), kind, Static, value)
	inst := NewInstance(source, d, WithTargets(target), WithContext(triggerCtx))
	if err := ctx.Engine.Activate(inst, ScopeManual); err != nil {
		return nil, err
	}
	return inst, nil
}

// DelayedEffects returns the live delayed effect registrations.
func (e *Engine) DelayedEffects() []*Instance {
	var out []*Instance
	for _, inst := range e.instances {
		if inst.status == statusLive && inst.desc.kind == KindDelayedTrigger {
			out = append(out, inst)
		}
	}
	return out
}

// FireDelayed offers event to every live delayed effect. Each effect whose
// When accepts the event acts once and is removed.
func (e *Engine) FireDelayed(state game.State, event any) error {
	for _, inst := range e.DelayedEffects() {
		d, ok := inst.desc.value.(*DelayedEffect)
		if !ok {
			continue
		}
		if d.When != nil && !d.When(event) {
			continue
		}
		if d.Message != "" {
			addTriggerMessage(state, d.Message, d.Context, d.Target)
		}
		if d.Action != nil {
			if err := d.Action(d.Target, d.Context); err != nil {
				return fmt.Errorf("delayed effect %s: %w", inst, err)
			}
		}
		// Срабатывает один раз
		if err := inst.Expire(); err != nil {
			return err
		}
	}
	return nil
}

// checkTerminalConditions runs after every pass. Met conditions act and
// expire; both take effect when the pass ends.
func (e *Engine) checkTerminalConditions(state game.State) error {
	for _, inst := range e.instances {
		if inst.status != statusLive || inst.desc.kind != KindTerminalTrigger {
			continue
		}
		t, ok := inst.desc.value.(*TerminalCondition)
		if !ok || t.Condition == nil || !t.Condition(state) {
			continue
		}
		if t.Message != "" {
			addTriggerMessage(state, t.Message, t.Context, t.Target)
		}
		if t.Action != nil {
			if err := t.Action(t.Target, t.Context); err != nil {
				return fmt.Errorf("terminal condition %s: %w", inst, err)
			}
		}
		if err := inst.Expire(); err != nil {
			return err
		}
	}
	return nil
}

// addTriggerMessage logs msg with {0} as the source card and {1} as the
// target.
func addTriggerMessage(state game.State, msg string, ctx *Context, target game.Entity) {
	var source any = "an effect"
	if ctx != nil && ctx.Source != nil {
		source = ctx.Source
	}
	state.AddMessage(msg, source, target)
}
