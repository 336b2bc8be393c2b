package scenario

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/udisondev/l5rgo/internal/cards"
	"github.com/udisondev/l5rgo/internal/data"
	"github.com/udisondev/l5rgo/internal/effect"
	"github.com/udisondev/l5rgo/internal/game"
	"github.com/udisondev/l5rgo/internal/journal"
	"github.com/udisondev/l5rgo/internal/stat"
	"github.com/udisondev/l5rgo/internal/target"
)

var locations = []game.Location{
	game.LocationHand,
	game.LocationPlayArea,
	game.LocationConflictDeck,
	game.LocationDynastyDeck,
	game.LocationConflictDiscardPile,
	game.LocationDynastyDiscardPile,
	game.LocationProvince1,
	game.LocationProvince2,
	game.LocationProvince3,
	game.LocationProvince4,
	game.LocationStrongholdProvince,
	game.LocationRemovedFromGame,
}

// Result is the outcome of a completed run.
type Result struct {
	Name     string
	Steps    int
	Game     *game.Game
	Journal  *journal.Journal
	Messages []string
}

// runner holds one game and the engine that owns its effects.
type runner struct {
	sc      *Scenario
	g       *game.Game
	engine  *effect.Engine
	calc    *stat.Calculator
	journal *journal.Journal
	log     *slog.Logger

	named     map[string]*effect.Instance
	conflicts int
	last      *game.Conflict
}

// Run plays sc against a fresh game built from catalog. It stops at the
// first failing step, or when ctx is done.
func Run(ctx context.Context, catalog *data.Catalog, sc *Scenario) (*Result, error) {
	r := &runner{
		sc:      sc,
		g:       game.New(sc.Name),
		journal: journal.New(sc.Name),
		log:     slog.With("scenario", sc.Name),
		named:   make(map[string]*effect.Instance),
	}
	r.engine = effect.NewEngine(r.journal)
	r.engine.WatchLeavePlay(r.g)
	r.calc = stat.NewCalculator(r.engine, r.g)

	if err := r.setup(catalog); err != nil {
		return nil, fmt.Errorf("scenario %q setup: %w", sc.Name, err)
	}

	for i, st := range sc.Steps {
		// Отмена проверяется между шагами
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("scenario %q interrupted before step %d: %w", sc.Name, i+1, err)
		}
		if err := r.step(st); err != nil {
			return nil, fmt.Errorf("scenario %q step %d: %w", sc.Name, i+1, err)
		}
	}

	res := &Result{
		Name:    sc.Name,
		Steps:   len(sc.Steps),
		Game:    r.g,
		Journal: r.journal,
	}
	for _, m := range r.g.Messages() {
		res.Messages = append(res.Messages, m.Text)
	}
	r.log.Debug("scenario finished", "steps", res.Steps, "journal", r.journal.Len())
	return res, nil
}

func (r *runner) setup(catalog *data.Catalog) error {
	for _, p := range r.sc.Players {
		name := p.Name
		if name == "" {
			name = p.ID
		}
		r.g.AddPlayer(p.ID, name)
	}
	for _, c := range r.sc.Cards {
		cardData, err := catalog.Get(c.Card)
		if err != nil {
			return fmt.Errorf("card %s: %w", c.ID, err)
		}
		owner, err := r.player(c.Owner)
		if err != nil {
			return fmt.Errorf("card %s: %w", c.ID, err)
		}
		loc := game.LocationPlayArea
		if c.Location != "" {
			if loc, err = location(c.Location); err != nil {
				return fmt.Errorf("card %s: %w", c.ID, err)
			}
		}
		card := r.g.AddCard(game.NewCard(c.ID, cardData, owner), loc)
		if c.Parent == "" {
			continue
		}
		parent, err := r.card(c.Parent)
		if err != nil {
			return fmt.Errorf("card %s: %w", c.ID, err)
		}
		if err := r.g.Attach(card, parent); err != nil {
			return err
		}
	}
	return nil
}

func (r *runner) step(st Step) error {
	switch {
	case st.Activate != nil:
		return r.activate(st.Activate)
	case st.Recalculate:
		return r.engine.Recalculate(r.g)
	case st.Expire != "":
		inst, ok := r.named[st.Expire]
		if !ok {
			return fmt.Errorf("%w: no effect named %q", ErrInvalidScenario, st.Expire)
		}
		return r.engine.Expire(inst)
	case st.EndScope != "":
		scope, err := effect.ParseScope(st.EndScope)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidScenario, err)
		}
		return r.engine.EndScope(scope)
	case st.Move != nil:
		card, err := r.card(st.Move.Card)
		if err != nil {
			return err
		}
		loc, err := location(st.Move.Location)
		if err != nil {
			return err
		}
		r.g.MoveCard(card, loc)
		return nil
	case st.BreakProvince != "":
		card, err := r.card(st.BreakProvince)
		if err != nil {
			return err
		}
		return r.g.BreakProvince(card)
	case st.Answer != nil:
		p, err := r.player(st.Answer.Player)
		if err != nil {
			return err
		}
		return r.g.Answer(p, st.Answer.Choice)
	case st.Conflict != nil:
		return r.conflict(st.Conflict)
	case st.EndConflict:
		r.last = r.g.EndConflict()
		return r.engine.EndScope(effect.ScopeUntilEndOfConflict)
	case st.Reaction != nil:
		return r.reaction(st.Reaction)
	case st.Expect != nil:
		return r.expect(st.Expect)
	}
	return fmt.Errorf("%w: empty step", ErrInvalidScenario)
}

func (r *runner) activate(a *ActivateStep) error {
	d, err := buildEffect(r, a.Effect, a.Value)
	if err != nil {
		return fmt.Errorf("activate %s: %w", a.Effect, err)
	}
	scope := effect.ScopeManual
	if a.Scope != "" {
		if scope, err = effect.ParseScope(a.Scope); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidScenario, err)
		}
	}

	var opts []effect.Option
	var targets []game.Entity
	for _, id := range a.Targets {
		e, ok := r.g.Entity(id)
		if !ok {
			return fmt.Errorf("%w: unknown target %q", ErrInvalidScenario, id)
		}
		targets = append(targets, e)
	}
	switch {
	case len(targets) > 0:
		opts = append(opts, effect.WithTargets(targets...))
	case a.Match != "":
		match, err := r.matcher(a.Match)
		if err != nil {
			return err
		}
		opts = append(opts, effect.WithMatch(match))
	}

	var source game.Entity
	switch {
	case a.Source != "":
		e, ok := r.g.Entity(a.Source)
		if !ok {
			return fmt.Errorf("%w: unknown source %q", ErrInvalidScenario, a.Source)
		}
		source = e
	case len(targets) > 0:
		source = targets[0]
	default:
		return fmt.Errorf("%w: activate %s needs a source", ErrInvalidScenario, a.Effect)
	}

	inst := effect.NewInstance(source, d, opts...)
	if err := r.engine.Activate(inst, scope); err != nil {
		return err
	}
	if a.Name != "" {
		r.named[a.Name] = inst
	}
	return nil
}

// matcher selects in-play cards by a short rule.
func (r *runner) matcher(rule string) (func(game.Entity) bool, error) {
	kind, arg, _ := strings.Cut(rule, ":")
	switch kind {
	case "all":
		return func(game.Entity) bool { return true }, nil
	case "province":
		return func(e game.Entity) bool {
			c, ok := e.(*game.Card)
			return ok && c.IsProvince()
		}, nil
	case "character":
		return func(e game.Entity) bool {
			c, ok := e.(*game.Card)
			return ok && c.Type() == game.CardTypeCharacter
		}, nil
	case "controller":
		p, err := r.player(arg)
		if err != nil {
			return nil, err
		}
		return func(e game.Entity) bool {
			c, ok := e.(*game.Card)
			return ok && r.calc.Controller(c) == p
		}, nil
	}
	return nil, fmt.Errorf("%w: unknown match %q", ErrInvalidScenario, rule)
}

func (r *runner) conflict(c *ConflictStep) error {
	attacker, err := r.player(c.Attacker)
	if err != nil {
		return err
	}
	t := game.ConflictType(c.Type)
	if t != game.ConflictMilitary && t != game.ConflictPolitical {
		return fmt.Errorf("%w: conflict type %q", ErrInvalidScenario, c.Type)
	}
	var province *game.Card
	if c.Province != "" {
		if province, err = r.card(c.Province); err != nil {
			return err
		}
	}
	ring := r.g.Ring(c.Ring)
	if c.Ring != "" && ring == nil {
		return fmt.Errorf("%w: unknown ring %q", ErrInvalidScenario, c.Ring)
	}

	r.conflicts++
	conflict := game.NewConflict(fmt.Sprintf("conflict-%d", r.conflicts), t, attacker, province, ring)
	r.g.StartConflict(conflict)
	if c.Winner != "" {
		winner, err := r.player(c.Winner)
		if err != nil {
			return err
		}
		conflict.Resolve(winner)
	}
	return nil
}

func (r *runner) reaction(s *ReactionStep) error {
	card, err := r.card(s.Card)
	if err != nil {
		return err
	}
	reaction, ok := cards.New(card, r.calc)
	if !ok {
		return fmt.Errorf("%w: %s has no reaction", ErrInvalidScenario, card.Name())
	}
	conflict := r.g.CurrentConflict()
	if conflict == nil {
		conflict = r.last
	}
	if !reaction.Triggered(conflict) {
		return fmt.Errorf("%w: %s is not triggered", ErrExpectationFailed, card.Name())
	}

	chooser := target.ChooserFunc(func(slot target.Slot, candidates []game.Entity, ctx *game.Context) (game.Entity, error) {
		id, ok := s.Choose[slot.Name]
		if !ok {
			return target.FirstCandidate(slot, candidates, ctx)
		}
		e, ok := r.g.Entity(id)
		if !ok {
			return nil, fmt.Errorf("%w: unknown choice %q", ErrInvalidScenario, id)
		}
		return e, nil
	})

	err = reaction.Resolve(r.g, chooser)
	switch {
	case s.Error == "":
		return err
	case err == nil:
		return fmt.Errorf("%w: %s resolved, want error %q", ErrExpectationFailed, reaction.Title(), s.Error)
	case !strings.Contains(err.Error(), s.Error):
		return fmt.Errorf("%w: got error %q, want %q", ErrExpectationFailed, err, s.Error)
	}
	return nil
}

func (r *runner) expect(x *ExpectStep) error {
	checked := false
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrExpectationFailed, fmt.Sprintf(format, args...))
	}

	if x.Card != "" {
		card, err := r.card(x.Card)
		if err != nil {
			return err
		}
		if x.Stat != "" {
			checked = true
			got, ok := r.calc.Stat(x.Stat, card)
			if !ok {
				return fmt.Errorf("%w: unknown stat %q", ErrInvalidScenario, x.Stat)
			}
			if x.Value == nil {
				return fmt.Errorf("%w: stat %q without value", ErrInvalidScenario, x.Stat)
			}
			if got != *x.Value {
				return fail("%s %s = %d, want %d", card, x.Stat, got, *x.Value)
			}
		}
		if x.Trait != "" {
			checked = true
			want := x.Has == nil || *x.Has
			if got := r.calc.HasTrait(card, x.Trait); got != want {
				return fail("%s has trait %q = %t, want %t", card, x.Trait, got, want)
			}
		}
		if x.Blank != nil {
			checked = true
			if got := r.calc.IsBlank(card); got != *x.Blank {
				return fail("%s blank = %t, want %t", card, got, *x.Blank)
			}
		}
		if x.Location != "" {
			checked = true
			if string(card.Location) != x.Location {
				return fail("%s in %q, want %q", card, card.Location, x.Location)
			}
		}
		if x.Parent != nil {
			checked = true
			got := ""
			if card.Attachment != nil && card.Attachment.Parent != nil {
				got = card.Attachment.Parent.ID()
			}
			if got != *x.Parent {
				return fail("%s attached to %q, want %q", card, got, *x.Parent)
			}
		}
	}

	if x.Player != "" && x.Conflicts != "" {
		checked = true
		p, err := r.player(x.Player)
		if err != nil {
			return err
		}
		if x.Value == nil {
			return fmt.Errorf("%w: conflicts without value", ErrInvalidScenario)
		}
		if got := r.calc.ConflictOpportunities(p, game.ConflictType(x.Conflicts)); got != *x.Value {
			return fail("%s %s conflicts = %d, want %d", p.Name(), x.Conflicts, got, *x.Value)
		}
	}

	if x.Message != "" {
		checked = true
		if !slices.ContainsFunc(r.g.Messages(), func(m game.Message) bool {
			return strings.Contains(m.Text, x.Message)
		}) {
			return fail("no message containing %q", x.Message)
		}
	}

	if x.Winner != "" {
		checked = true
		if r.g.Winner == nil || r.g.Winner.ID() != x.Winner {
			return fail("winner = %v, want %s", r.g.Winner, x.Winner)
		}
	}

	if x.Instances != nil {
		checked = true
		if got := r.engine.Len(); got != *x.Instances {
			return fail("%d live effects, want %d", got, *x.Instances)
		}
	}

	if !checked {
		return fmt.Errorf("%w: expect checks nothing", ErrInvalidScenario)
	}
	return nil
}

func (r *runner) card(id string) (*game.Card, error) {
	e, ok := r.g.Entity(id)
	if !ok {
		return nil, fmt.Errorf("%w: unknown card %q", ErrInvalidScenario, id)
	}
	c, ok := e.(*game.Card)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a card", ErrInvalidScenario, id)
	}
	return c, nil
}

func (r *runner) player(id string) (*game.Player, error) {
	for _, p := range r.g.Players() {
		if p.ID() == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: unknown player %q", ErrInvalidScenario, id)
}

func location(s string) (game.Location, error) {
	loc := game.Location(s)
	if !slices.Contains(locations, loc) {
		return "", fmt.Errorf("%w: unknown location %q", ErrInvalidScenario, s)
	}
	return loc, nil
}
