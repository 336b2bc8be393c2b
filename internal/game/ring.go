package game

// Elements in ring order.
var Elements = []string{"air", "earth", "fire", "void", "water"}

// Ring is one of the five elemental rings.
type Ring struct {
	Element   string
	Claimed   bool
	ClaimedBy *Player
	Fate      int
}

// NewRing creates an unclaimed ring of element.
func NewRing(element string) *Ring {
	return &Ring{Element: element}
}

func (r *Ring) ID() string         { return "ring-" + r.Element }
func (r *Ring) Class() EntityClass { return ClassRing }
func (r *Ring) Name() string       { return r.Element + " ring" }

// Conflict is a conflict in progress or just resolved.
type Conflict struct {
	id        string
	Type      ConflictType
	Attacker  *Player
	Defender  *Player
	Province  *Card
	Ring      *Ring
	Attackers []*Card
	Defenders []*Card

	Winner *Player
	Loser  *Player
}

// NewConflict declares a conflict of type t by attacker against province.
func NewConflict(id string, t ConflictType, attacker *Player, province *Card, ring *Ring) *Conflict {
	c := &Conflict{id: id, Type: t, Attacker: attacker, Province: province, Ring: ring}
	if attacker != nil {
		c.Defender = attacker.Opponent
	}
	return c
}

func (c *Conflict) ID() string         { return c.id }
func (c *Conflict) Class() EntityClass { return ClassConflict }
func (c *Conflict) Name() string       { return string(c.Type) + " conflict" }

// Resolve records the winner and loser.
func (c *Conflict) Resolve(winner *Player) {
	c.Winner = winner
	switch winner {
	case c.Attacker:
		c.Loser = c.Defender
	case c.Defender:
		c.Loser = c.Attacker
	}
}
