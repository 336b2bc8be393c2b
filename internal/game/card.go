package game

import (
	"slices"
	"strconv"
	"strings"
)

// CardData is the printed side of a card as it appears in the catalog.
// Numeric fields printed on cards are kept as strings because the card text
// uses "-" for dashes and "+N" for bonuses.
type CardData struct {
	ID             string   `yaml:"id"`
	Name           string   `yaml:"name"`
	Type           CardType `yaml:"type"`
	Faction        string   `yaml:"faction"`
	Cost           int      `yaml:"cost"`
	Strength       string   `yaml:"strength"`
	StrengthBonus  string   `yaml:"strength_bonus"`
	MilitarySkill  string   `yaml:"military"`
	PoliticalSkill string   `yaml:"political"`
	Glory          int      `yaml:"glory"`
	Element        string   `yaml:"element"`
	Traits         []string `yaml:"traits"`
	Unique         bool     `yaml:"unique"`
}

// PrintedInt parses a printed number such as "4" or "+2".
// Anything unparseable, dashes included, counts as 0.
func PrintedInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// ProvinceCapability is carried by province and stronghold cards.
type ProvinceCapability struct {
	Broken bool
}

// AttachmentCapability is carried by attachment cards.
type AttachmentCapability struct {
	Parent *Card
}

// Limit caps how many times an ability may resolve.
type Limit struct {
	Max  int
	Used int
}

// FixedLimit returns a limit of n uses.
func FixedLimit(n int) *Limit {
	return &Limit{Max: n}
}

// Exhausted reports whether the limit has been used up. A nil limit never is.
func (l *Limit) Exhausted() bool {
	return l != nil && l.Max > 0 && l.Used >= l.Max
}

// AbilityType tells actions, reactions and play actions apart.
type AbilityType string

const (
	AbilityAction     AbilityType = "action"
	AbilityReaction   AbilityType = "reaction"
	AbilityInterrupt  AbilityType = "interrupt"
	AbilityPlayAction AbilityType = "play"
)

// Ability is an ability printed on, or granted to, a card.
type Ability struct {
	Title string
	Type  AbilityType
	Card  *Card
	Limit *Limit
}

// Abilities groups the abilities a card currently has.
type Abilities struct {
	Actions     []*Ability
	Reactions   []*Ability
	PlayActions []*Ability
}

// Card is a single physical card in a game. Behaviour specific to provinces
// and attachments lives in the optional capability structs.
type Card struct {
	id         string
	Data       CardData
	Owner      *Player
	Controller *Player
	Location   Location
	Facedown   bool

	Province   *ProvinceCapability
	Attachment *AttachmentCapability

	Attachments []*Card
	Abilities   Abilities

	// GrantedLimits shares one limit per target card between abilities this
	// card grants to others.
	GrantedLimits map[string]*Limit
}

// NewCard creates a card owned and controlled by owner.
func NewCard(id string, data CardData, owner *Player) *Card {
	c := &Card{
		id:            id,
		Data:          data,
		Owner:         owner,
		Controller:    owner,
		GrantedLimits: make(map[string]*Limit),
	}
	switch data.Type {
	case CardTypeProvince:
		c.Province = &ProvinceCapability{}
	case CardTypeAttachment:
		c.Attachment = &AttachmentCapability{}
	}
	return c
}

func (c *Card) ID() string         { return c.id }
func (c *Card) Class() EntityClass { return ClassCard }
func (c *Card) Name() string       { return c.Data.Name }
func (c *Card) Type() CardType     { return c.Data.Type }
func (c *Card) String() string     { return c.Data.Name + "#" + c.id }

// IsProvince reports whether the card carries the province capability.
func (c *Card) IsProvince() bool { return c.Province != nil }

// InPlay reports whether the card is on the board.
func (c *Card) InPlay() bool { return c.Location.InPlay() }

// PrintedCost returns the printed cost.
func (c *Card) PrintedCost() int { return c.Data.Cost }

// CostLessThan reports whether the printed cost is below n.
func (c *Card) CostLessThan(n int) bool { return c.Data.Cost < n }

// HasPrintedTrait reports whether trait is printed on the card.
func (c *Card) HasPrintedTrait(trait string) bool {
	return slices.Contains(c.Data.Traits, trait)
}

// ProvinceStrengthBonus is the bonus this card lends to the province it sits
// in. Faceup holdings and the stronghold carry one.
func (c *Card) ProvinceStrengthBonus() int {
	if c.Facedown {
		return 0
	}
	switch c.Data.Type {
	case CardTypeHolding, CardTypeStronghold:
		return PrintedInt(c.Data.StrengthBonus)
	}
	return 0
}

func (c *Card) removeAbility(a *Ability) {
	c.Abilities.Actions = slices.DeleteFunc(c.Abilities.Actions, func(x *Ability) bool { return x == a })
	c.Abilities.Reactions = slices.DeleteFunc(c.Abilities.Reactions, func(x *Ability) bool { return x == a })
	c.Abilities.PlayActions = slices.DeleteFunc(c.Abilities.PlayActions, func(x *Ability) bool { return x == a })
}

// GrantAbility adds a to the card's ability list for its type.
func (c *Card) GrantAbility(a *Ability) {
	a.Card = c
	switch a.Type {
	case AbilityAction:
		c.Abilities.Actions = append(c.Abilities.Actions, a)
	case AbilityPlayAction:
		c.Abilities.PlayActions = append(c.Abilities.PlayActions, a)
	default:
		c.Abilities.Reactions = append(c.Abilities.Reactions, a)
	}
}

// RevokeAbility removes a previously granted ability.
func (c *Card) RevokeAbility(a *Ability) {
	c.removeAbility(a)
}
