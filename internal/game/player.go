package game

import "slices"

// CostReducer lowers (or, with a negative amount, raises) the cost of cards
// a player plays.
type CostReducer struct {
	Source *Card
	Amount int
	Match  func(card *Card) bool
	Limit  *Limit
}

// CanReduce reports whether the reducer applies to card.
func (r *CostReducer) CanReduce(card *Card) bool {
	if r.Limit.Exhausted() {
		return false
	}
	return r.Match == nil || r.Match(card)
}

// PlayableLocation lets a player play cards from an extra location.
type PlayableLocation struct {
	PlayingType string
	Player      *Player
	Location    Location
}

// Player is a seat at the table.
type Player struct {
	id       string
	name     string
	Opponent *Player

	ActionPhasePriority   bool
	ConflictOpportunities map[ConflictType]int

	costReducers      []*CostReducer
	playableLocations []*PlayableLocation
}

// NewPlayer creates a player with the default one military and one
// political conflict opportunity.
func NewPlayer(id, name string) *Player {
	return &Player{
		id:   id,
		name: name,
		ConflictOpportunities: map[ConflictType]int{
			ConflictMilitary:  1,
			ConflictPolitical: 1,
		},
	}
}

func (p *Player) ID() string         { return p.id }
func (p *Player) Class() EntityClass { return ClassPlayer }
func (p *Player) Name() string       { return p.name }
func (p *Player) String() string     { return p.name }

// AddConflictOpportunity grants one more conflict of type t.
func (p *Player) AddConflictOpportunity(t ConflictType) {
	p.ConflictOpportunities[t]++
}

// AddCostReducer registers a cost reducer and returns it as a removal handle.
func (p *Player) AddCostReducer(source *Card, amount int, match func(*Card) bool, limit *Limit) *CostReducer {
	r := &CostReducer{Source: source, Amount: amount, Match: match, Limit: limit}
	p.costReducers = append(p.costReducers, r)
	return r
}

// RemoveCostReducer drops a reducer added by AddCostReducer.
func (p *Player) RemoveCostReducer(r *CostReducer) {
	p.costReducers = slices.DeleteFunc(p.costReducers, func(x *CostReducer) bool { return x == r })
}

// CostReducers returns the active reducers.
func (p *Player) CostReducers() []*CostReducer {
	return slices.Clone(p.costReducers)
}

// ReducedCost returns the cost of card after all applicable reducers.
// Cost never drops below zero.
func (p *Player) ReducedCost(card *Card) int {
	cost := card.PrintedCost()
	for _, r := range p.costReducers {
		if r.CanReduce(card) {
			cost -= r.Amount
		}
	}
	return max(cost, 0)
}

// AddPlayableLocation lets the player play cards from location.
func (p *Player) AddPlayableLocation(playingType string, owner *Player, location Location) *PlayableLocation {
	l := &PlayableLocation{PlayingType: playingType, Player: owner, Location: location}
	p.playableLocations = append(p.playableLocations, l)
	return l
}

// RemovePlayableLocation drops a location added by AddPlayableLocation.
func (p *Player) RemovePlayableLocation(l *PlayableLocation) {
	p.playableLocations = slices.DeleteFunc(p.playableLocations, func(x *PlayableLocation) bool { return x == l })
}

// CanPlayFrom reports whether the player may play cards from location.
func (p *Player) CanPlayFrom(location Location) bool {
	if location == LocationHand {
		return true
	}
	for _, l := range p.playableLocations {
		if l.Location == location {
			return true
		}
	}
	return false
}
