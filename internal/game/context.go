package game

// Context is the ability resolution context handed to targeting and to
// effect callbacks.
type Context struct {
	Game    *Game
	Source  *Card
	Player  *Player
	Targets map[string]Entity
}

// NewContext creates a context for an ability on source, controlled by the
// source's controller.
func NewContext(g *Game, source *Card) *Context {
	ctx := &Context{Game: g, Source: source, Targets: make(map[string]Entity)}
	if source != nil {
		ctx.Player = source.Controller
	}
	return ctx
}

// Target returns the chosen entity for slot name, or nil.
func (c *Context) Target(name string) Entity {
	if c == nil || c.Targets == nil {
		return nil
	}
	return c.Targets[name]
}

// TargetCard returns the chosen card for slot name, or nil.
func (c *Context) TargetCard(name string) *Card {
	card, _ := c.Target(name).(*Card)
	return card
}

// State is the game-state collaborator the effect engine reads from.
type State interface {
	// Entities enumerates the live entities of class in a stable order.
	Entities(class EntityClass) []Entity
	AddMessage(format string, args ...any)
	PromptWithHandlerMenu(player *Player, menu HandlerMenu)
}

// HandlerMenu is a multiple choice prompt; Handlers[i] runs when Choices[i]
// is picked.
type HandlerMenu struct {
	ActivePromptTitle string
	Source            string
	Choices           []string
	Handlers          []func()
}
