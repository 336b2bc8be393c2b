package game

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

var (
	// ErrNoPendingPrompt is returned when a player answers without a prompt.
	ErrNoPendingPrompt = errors.New("no pending prompt")
	// ErrInvalidChoice is returned for a choice index outside the menu.
	ErrInvalidChoice = errors.New("invalid prompt choice")
	// ErrNotAttachment is returned when attaching a card that cannot attach.
	ErrNotAttachment = errors.New("card is not an attachment")
)

// Message is one line of the game log.
type Message struct {
	Format string
	Args   []any
	Text   string
}

// Prompt is a handler menu waiting for a player's answer.
type Prompt struct {
	Player *Player
	Menu   HandlerMenu
}

// Game is an in-memory game state. It is not safe for concurrent use: one
// game advances one step at a time.
type Game struct {
	ID string

	players  []*Player
	cards    []*Card
	rings    []*Ring
	conflict *Conflict

	messages []Message
	prompts  []*Prompt

	Winner    *Player
	WinReason string

	leavePlay []func(*Card)
}

// New creates a game with the five rings and no players.
func New(id string) *Game {
	g := &Game{ID: id}
	for _, el := range Elements {
		g.rings = append(g.rings, NewRing(el))
	}
	return g
}

// AddPlayer seats a new player. The second player seated becomes the
// first player's opponent.
func (g *Game) AddPlayer(id, name string) *Player {
	p := NewPlayer(id, name)
	if len(g.players) == 1 {
		p.Opponent = g.players[0]
		g.players[0].Opponent = p
	}
	g.players = append(g.players, p)
	return p
}

// AddCard puts card into the game at location.
func (g *Game) AddCard(card *Card, location Location) *Card {
	card.Location = location
	g.cards = append(g.cards, card)
	return card
}

// Players returns the seated players in seating order.
func (g *Game) Players() []*Player { return g.players }

// Rings returns the five rings.
func (g *Game) Rings() []*Ring { return g.rings }

// Ring returns the ring of element, or nil.
func (g *Game) Ring(element string) *Ring {
	for _, r := range g.rings {
		if r.Element == element {
			return r
		}
	}
	return nil
}

// Cards returns every card in the game regardless of location.
func (g *Game) Cards() []*Card { return g.cards }

// Entities returns the live entities of class: cards on the board, all
// rings, all players and the conflict in progress.
func (g *Game) Entities(class EntityClass) []Entity {
	var out []Entity
	switch class {
	case ClassCard:
		for _, c := range g.cards {
			if c.InPlay() {
				out = append(out, c)
			}
		}
	case ClassRing:
		for _, r := range g.rings {
			out = append(out, r)
		}
	case ClassPlayer:
		for _, p := range g.players {
			out = append(out, p)
		}
	case ClassConflict:
		if g.conflict != nil {
			out = append(out, g.conflict)
		}
	}
	return out
}

// All returns every entity of class, including cards outside play.
func (g *Game) All(class EntityClass) []Entity {
	if class != ClassCard {
		return g.Entities(class)
	}
	out := make([]Entity, 0, len(g.cards))
	for _, c := range g.cards {
		out = append(out, c)
	}
	return out
}

// Entity looks up an entity by ID across all classes.
func (g *Game) Entity(id string) (Entity, bool) {
	for _, class := range []EntityClass{ClassCard, ClassRing, ClassPlayer, ClassConflict} {
		for _, e := range g.All(class) {
			if e.ID() == id {
				return e, true
			}
		}
	}
	return nil, false
}

// CardsIn returns the cards controlled by p at location, in the order they
// entered the game.
func (g *Game) CardsIn(p *Player, location Location) []*Card {
	var out []*Card
	for _, c := range g.cards {
		if c.Controller == p && c.Location == location {
			out = append(out, c)
		}
	}
	return out
}

// DynastyCardInProvince returns the dynasty card p has in the province at
// location, or nil. The province and the stronghold are skipped.
func (g *Game) DynastyCardInProvince(p *Player, location Location) *Card {
	for _, c := range g.CardsIn(p, location) {
		if !c.IsProvince() && c.Type() != CardTypeStronghold {
			return c
		}
	}
	return nil
}

// OnLeavePlay registers fn to run whenever a card leaves the board.
func (g *Game) OnLeavePlay(fn func(*Card)) {
	g.leavePlay = append(g.leavePlay, fn)
}

// MoveCard moves card to location. Cards leaving play drop their
// attachments into the discard pile and notify leave-play listeners.
func (g *Game) MoveCard(card *Card, location Location) {
	wasInPlay := card.InPlay()
	card.Location = location
	card.Facedown = false

	if !wasInPlay || location.InPlay() {
		return
	}
	if card.Attachment != nil && card.Attachment.Parent != nil {
		parent := card.Attachment.Parent
		for i, a := range parent.Attachments {
			if a == card {
				parent.Attachments = append(parent.Attachments[:i], parent.Attachments[i+1:]...)
				break
			}
		}
		card.Attachment.Parent = nil
	}
	// Прикрепления уходят в сброс раньше самой карты
	for _, a := range append([]*Card(nil), card.Attachments...) {
		g.MoveCard(a, LocationConflictDiscardPile)
	}
	card.Attachments = nil

	slog.Debug("card left play", "game", g.ID, "card", card.String(), "location", string(location))
	for _, fn := range g.leavePlay {
		fn(card)
	}
}

// Attach puts attachment into play on parent.
func (g *Game) Attach(attachment, parent *Card) error {
	if attachment.Attachment == nil {
		return fmt.Errorf("attaching %s: %w", attachment, ErrNotAttachment)
	}
	if prev := attachment.Attachment.Parent; prev != nil {
		for i, a := range prev.Attachments {
			if a == attachment {
				prev.Attachments = append(prev.Attachments[:i], prev.Attachments[i+1:]...)
				break
			}
		}
	}
	attachment.Location = LocationPlayArea
	attachment.Facedown = false
	attachment.Attachment.Parent = parent
	parent.Attachments = append(parent.Attachments, attachment)
	return nil
}

// StartConflict makes c the conflict in progress.
func (g *Game) StartConflict(c *Conflict) { g.conflict = c }

// CurrentConflict returns the conflict in progress, or nil.
func (g *Game) CurrentConflict() *Conflict { return g.conflict }

// EndConflict clears the conflict in progress and returns it.
func (g *Game) EndConflict() *Conflict {
	c := g.conflict
	g.conflict = nil
	return c
}

// AddMessage appends a log line. Placeholders {0}, {1}, ... are replaced
// by the display name of the matching argument.
func (g *Game) AddMessage(format string, args ...any) {
	text := format
	for i, arg := range args {
		text = strings.ReplaceAll(text, "{"+strconv.Itoa(i)+"}", display(arg))
	}
	g.messages = append(g.messages, Message{Format: format, Args: args, Text: text})
	slog.Debug("game message", "game", g.ID, "text", text)
}

// Messages returns the log lines so far.
func (g *Game) Messages() []Message { return g.messages }

// PromptWithHandlerMenu queues a menu for player. The game step that raised
// it returns; Answer resumes it later.
func (g *Game) PromptWithHandlerMenu(player *Player, menu HandlerMenu) {
	g.prompts = append(g.prompts, &Prompt{Player: player, Menu: menu})
}

// Prompts returns the menus waiting for an answer.
func (g *Game) Prompts() []*Prompt { return g.prompts }

// Answer resolves the oldest prompt of player with choice.
func (g *Game) Answer(player *Player, choice int) error {
	for i, p := range g.prompts {
		if p.Player != player {
			continue
		}
		if choice < 0 || choice >= len(p.Menu.Handlers) {
			return fmt.Errorf("answering %q with %d: %w", p.Menu.ActivePromptTitle, choice, ErrInvalidChoice)
		}
		g.prompts = append(g.prompts[:i], g.prompts[i+1:]...)
		p.Menu.Handlers[choice]()
		return nil
	}
	return fmt.Errorf("player %s: %w", player.Name(), ErrNoPendingPrompt)
}

// RecordWinner ends the game in favour of p. Later calls are ignored.
func (g *Game) RecordWinner(p *Player, reason string) {
	if g.Winner != nil {
		return
	}
	g.Winner = p
	g.WinReason = reason
	g.AddMessage("{0} has won the game", p)
	slog.Info("game won", "game", g.ID, "winner", p.Name(), "reason", reason)
}

func display(arg any) string {
	switch v := arg.(type) {
	case Named:
		return v.Name()
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
