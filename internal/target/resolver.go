package target

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/udisondev/l5rgo/internal/game"
)

var (
	// ErrNoLegalTargets is returned when a required slot has nothing to choose.
	ErrNoLegalTargets = errors.New("no legal targets")
	// ErrIllegalChoice is returned when a chooser picks an entity it was not offered.
	ErrIllegalChoice = errors.New("illegal target choice")
	// ErrDependencyUnresolved is returned when asking for the candidates of
	// a slot whose dependency has no value yet.
	ErrDependencyUnresolved = errors.New("slot dependency unresolved")

	ErrMissingSlot   = errors.New("missing target slot")
	ErrDuplicateSlot = errors.New("duplicate target slot")
	ErrSlotCycle     = errors.New("target slot dependency cycle")
)

// Source enumerates every entity of a class regardless of location.
// *game.Game implements it.
type Source interface {
	All(class game.EntityClass) []game.Entity
}

// Chooser picks one of candidates for slot. Returning nil skips an optional
// slot.
type Chooser interface {
	Choose(slot Slot, candidates []game.Entity, ctx *game.Context) (game.Entity, error)
}

// ChooserFunc adapts a function to Chooser.
type ChooserFunc func(slot Slot, candidates []game.Entity, ctx *game.Context) (game.Entity, error)

func (f ChooserFunc) Choose(slot Slot, candidates []game.Entity, ctx *game.Context) (game.Entity, error) {
	return f(slot, candidates, ctx)
}

// FirstCandidate always picks the first candidate offered.
var FirstCandidate = ChooserFunc(func(_ Slot, candidates []game.Entity, _ *game.Context) (game.Entity, error) {
	return candidates[0], nil
})

// Resolver resolves a fixed set of slots. Build it once per ability with
// NewResolver; it keeps no per-resolution state.
type Resolver struct {
	slots []Slot
	// order lists slot indexes with every dependency before its dependents
	// and independent slots first.
	order []int
	index map[string]int
}

// NewResolver validates slots and fixes their resolution order.
func NewResolver(slots ...Slot) (*Resolver, error) {
	r := &Resolver{slots: slots, index: make(map[string]int, len(slots))}
	for i, s := range slots {
		if s.Name == "" {
			return nil, fmt.Errorf("slot %d has no name: %w", i, ErrMissingSlot)
		}
		if _, dup := r.index[s.Name]; dup {
			return nil, fmt.Errorf("slot %q: %w", s.Name, ErrDuplicateSlot)
		}
		r.index[s.Name] = i
	}
	for _, s := range slots {
		if s.DependsOn == "" {
			continue
		}
		if _, ok := r.index[s.DependsOn]; !ok {
			return nil, fmt.Errorf("slot %q depends on %q: %w", s.Name, s.DependsOn, ErrMissingSlot)
		}
	}

	placed := make([]bool, len(slots))
	for i, s := range slots {
		if s.DependsOn == "" {
			r.order = append(r.order, i)
			placed[i] = true
		}
	}
	for len(r.order) < len(slots) {
		progress := false
		for i, s := range slots {
			if !placed[i] && placed[r.index[s.DependsOn]] {
				r.order = append(r.order, i)
				placed[i] = true
				progress = true
			}
		}
		if !progress {
			return nil, ErrSlotCycle
		}
	}
	return r, nil
}

// Slots returns the slots in resolution order.
func (r *Resolver) Slots() []Slot {
	out := make([]Slot, len(r.order))
	for n, i := range r.order {
		out[n] = r.slots[i]
	}
	return out
}

// Candidates returns the entities slot name may take given the targets
// already in ctx.
func (r *Resolver) Candidates(src Source, name string, ctx *game.Context) ([]game.Entity, error) {
	i, ok := r.index[name]
	if !ok {
		return nil, fmt.Errorf("slot %q: %w", name, ErrMissingSlot)
	}
	s := r.slots[i]
	if s.DependsOn != "" && ctx.Target(s.DependsOn) == nil {
		return nil, fmt.Errorf("slot %q needs %q: %w", s.Name, s.DependsOn, ErrDependencyUnresolved)
	}
	var out []game.Entity
	for _, e := range src.All(s.Class) {
		if s.accepts(e, ctx) {
			out = append(out, e)
		}
	}
	return out, nil
}

// HasLegalTargets reports whether every required slot can be filled at
// once, trying each candidate for the earlier slots in turn.
func (r *Resolver) HasLegalTargets(src Source, ctx *game.Context) bool {
	return r.satisfiable(src, r.scratch(ctx), 0)
}

// satisfiable reports whether the slots from order[n] on can be filled in
// work. work.Targets is restored before returning.
func (r *Resolver) satisfiable(src Source, work *game.Context, n int) bool {
	if n == len(r.order) {
		return true
	}
	s := r.slots[r.order[n]]
	if s.DependsOn != "" && work.Target(s.DependsOn) == nil {
		return s.Optional && r.satisfiable(src, work, n+1)
	}
	candidates, err := r.Candidates(src, s.Name, work)
	if err != nil {
		return false
	}
	for _, c := range candidates {
		work.Targets[s.Name] = c
		ok := r.satisfiable(src, work, n+1)
		delete(work.Targets, s.Name)
		if ok {
			return true
		}
	}
	return s.Optional && r.satisfiable(src, work, n+1)
}

// Resolve fills every slot through chooser. Only candidates that leave the
// remaining required slots fillable are offered. On success the choices
// are written to ctx.Targets; on any error ctx is left untouched.
func (r *Resolver) Resolve(src Source, ctx *game.Context, chooser Chooser) error {
	work := r.scratch(ctx)
	for n, i := range r.order {
		s := r.slots[i]
		if s.DependsOn != "" && work.Target(s.DependsOn) == nil {
			if s.Optional {
				continue
			}
			return fmt.Errorf("slot %q: %w", s.Name, ErrNoLegalTargets)
		}

		candidates, err := r.Candidates(src, s.Name, work)
		if err != nil {
			return err
		}
		// Только кандидаты, после которых остальные слоты заполнимы
		var viable []game.Entity
		for _, c := range candidates {
			work.Targets[s.Name] = c
			if r.satisfiable(src, work, n+1) {
				viable = append(viable, c)
			}
			delete(work.Targets, s.Name)
		}
		if len(viable) == 0 {
			if s.Optional && r.satisfiable(src, work, n+1) {
				continue
			}
			slog.Debug("no legal targets", "slot", s.Name, "candidates", len(candidates))
			return fmt.Errorf("slot %q: %w", s.Name, ErrNoLegalTargets)
		}

		choice, err := chooser.Choose(s, viable, work)
		if err != nil {
			return fmt.Errorf("choosing %q: %w", s.Name, err)
		}
		if choice == nil {
			if s.Optional {
				continue
			}
			return fmt.Errorf("slot %q left empty: %w", s.Name, ErrIllegalChoice)
		}
		if !slices.ContainsFunc(viable, func(e game.Entity) bool { return e.ID() == choice.ID() }) {
			return fmt.Errorf("slot %q: %s: %w", s.Name, choice.ID(), ErrIllegalChoice)
		}
		work.Targets[s.Name] = choice
	}

	if ctx.Targets == nil {
		ctx.Targets = make(map[string]game.Entity, len(work.Targets))
	}
	for _, s := range r.slots {
		delete(ctx.Targets, s.Name)
	}
	maps.Copy(ctx.Targets, work.Targets)
	return nil
}

// scratch copies ctx with its own target map. Values left over for this
// resolver's slots are dropped so a skipped slot stays empty.
func (r *Resolver) scratch(ctx *game.Context) *game.Context {
	work := *ctx
	work.Targets = make(map[string]game.Entity, len(ctx.Targets))
	maps.Copy(work.Targets, ctx.Targets)
	for _, s := range r.slots {
		delete(work.Targets, s.Name)
	}
	return &work
}
